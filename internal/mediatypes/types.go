package mediatypes

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileType represents the kind of file an inference source or model path
// points at.
type FileType string

const (
	// FileTypeFolder represents a directory.
	FileTypeFolder FileType = "folder"
	// FileTypeImage represents an image file.
	FileTypeImage FileType = "image"
	// FileTypeVideo represents a video file.
	FileTypeVideo FileType = "video"
	// FileTypeModel represents a model weights or graph file.
	FileTypeModel FileType = "model"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".gif":  true,
	".tiff": true,
	".tif":  true,
	".webp": true,
	".ico":  true,
	".ppm":  true,
	".pgm":  true,
	".pbm":  true,
	".sr":   true,
	".ras":  true,
	".jp2":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".3gp":  true,
	".3g2":  true,
	".mxf":  true,
	".roq":  true,
	".nsv":  true,
	".f4v":  true,
	".f4p":  true,
	".f4a":  true,
	".f4b":  true,
}

// ModelExtensions maps file extensions to whether they are known model formats.
var ModelExtensions = map[string]bool{
	".onnx":       true,
	".pb":         true,
	".trt":        true,
	".engine":     true,
	".plan":       true,
	".pth":        true,
	".pt":         true,
	".h5":         true,
	".savedmodel": true,
	".tflite":     true,
	".mlmodel":    true,
	".bin":        true,
	".caffemodel": true,
	".prototxt":   true,
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	if VideoExtensions[ext] {
		return FileTypeVideo
	}
	if ModelExtensions[ext] {
		return FileTypeModel
	}
	return FileTypeOther
}

// Classify returns the FileType of a path based on its extension,
// ignoring case.
func Classify(path string) FileType {
	return GetFileType(strings.ToLower(filepath.Ext(path)))
}

// IsImageFile reports whether path has a supported image extension.
func IsImageFile(path string) bool {
	return Classify(path) == FileTypeImage
}

// IsVideoFile reports whether path has a supported video extension.
func IsVideoFile(path string) bool {
	return Classify(path) == FileTypeVideo
}

// IsModelFile reports whether path has a known model extension.
func IsModelFile(path string) bool {
	return Classify(path) == FileTypeModel
}

// SupportedImageExtensions returns the image extensions in sorted order.
func SupportedImageExtensions() []string {
	return sortedKeys(ImageExtensions)
}

// SupportedVideoExtensions returns the video extensions in sorted order.
func SupportedVideoExtensions() []string {
	return sortedKeys(VideoExtensions)
}

// SupportedModelExtensions returns the model extensions in sorted order.
func SupportedModelExtensions() []string {
	return sortedKeys(ModelExtensions)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
