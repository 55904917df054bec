package mediatypes

import (
	"sort"
	"testing"
)

func TestGetFileType(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		want FileType
	}{
		{name: "JPEG image", ext: ".jpg", want: FileTypeImage},
		{name: "JPEG 2000 image", ext: ".jp2", want: FileTypeImage},
		{name: "PGM image", ext: ".pgm", want: FileTypeImage},
		{name: "MP4 video", ext: ".mp4", want: FileTypeVideo},
		{name: "Flash video", ext: ".f4v", want: FileTypeVideo},
		{name: "ONNX model", ext: ".onnx", want: FileTypeModel},
		{name: "TensorRT engine", ext: ".engine", want: FileTypeModel},
		{name: "Caffe prototxt", ext: ".prototxt", want: FileTypeModel},
		{name: "Upper case is not normalized", ext: ".JPG", want: FileTypeOther},
		{name: "Unknown extension", ext: ".xyz", want: FileTypeOther},
		{name: "Empty extension", ext: "", want: FileTypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetFileType(tt.ext); got != tt.want {
				t.Errorf("GetFileType(%q) = %v, want %v", tt.ext, got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		path    string
		isImage bool
		isVideo bool
		isModel bool
	}{
		{path: "frames/0001.png", isImage: true},
		{path: "CAPTURE.JPEG", isImage: true},
		{path: "/data/clip.MKV", isVideo: true},
		{path: "clip.webm", isVideo: true},
		{path: "models/yolov8n.ONNX", isModel: true},
		{path: "resnet50.pt", isModel: true},
		{path: "README.md"},
		{path: "no_extension"},
		{path: "archive.tar.gz"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := IsImageFile(tt.path); got != tt.isImage {
				t.Errorf("IsImageFile(%q) = %v, want %v", tt.path, got, tt.isImage)
			}
			if got := IsVideoFile(tt.path); got != tt.isVideo {
				t.Errorf("IsVideoFile(%q) = %v, want %v", tt.path, got, tt.isVideo)
			}
			if got := IsModelFile(tt.path); got != tt.isModel {
				t.Errorf("IsModelFile(%q) = %v, want %v", tt.path, got, tt.isModel)
			}
		})
	}
}

func TestExtensionSetsAreDisjoint(t *testing.T) {
	for ext := range ImageExtensions {
		if VideoExtensions[ext] || ModelExtensions[ext] {
			t.Errorf("extension %q is in more than one set", ext)
		}
	}
	for ext := range VideoExtensions {
		if ModelExtensions[ext] {
			t.Errorf("extension %q is in both video and model sets", ext)
		}
	}
}

func TestSupportedExtensions(t *testing.T) {
	tests := []struct {
		name string
		got  []string
		want int
	}{
		{name: "image", got: SupportedImageExtensions(), want: 15},
		{name: "video", got: SupportedVideoExtensions(), want: 17},
		{name: "model", got: SupportedModelExtensions(), want: 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != tt.want {
				t.Errorf("got %d extensions, want %d", len(tt.got), tt.want)
			}
			if !sort.StringsAreSorted(tt.got) {
				t.Errorf("extensions are not sorted: %v", tt.got)
			}
		})
	}
}
