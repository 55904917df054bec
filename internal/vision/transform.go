package vision

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultPadColor is the letterbox fill used by YOLO-family detectors.
var DefaultPadColor = color.NRGBA{R: 114, G: 114, B: 114, A: 255}

// Letterbox describes how a source frame maps into a letterboxed target.
type Letterbox struct {
	Scale     float64
	NewWidth  int
	NewHeight int
	OffsetX   int
	OffsetY   int
}

// LetterboxParams computes the scale, scaled size and centring offsets for
// fitting a srcWidth x srcHeight frame into dstWidth x dstHeight.
func LetterboxParams(srcWidth, srcHeight, dstWidth, dstHeight int) Letterbox {
	if srcWidth <= 0 || srcHeight <= 0 || dstWidth <= 0 || dstHeight <= 0 {
		return Letterbox{}
	}

	scale := min(float64(dstWidth)/float64(srcWidth), float64(dstHeight)/float64(srcHeight))
	newWidth := max(int(float64(srcWidth)*scale), 1)
	newHeight := max(int(float64(srcHeight)*scale), 1)

	return Letterbox{
		Scale:     scale,
		NewWidth:  newWidth,
		NewHeight: newHeight,
		OffsetX:   (dstWidth - newWidth) / 2,
		OffsetY:   (dstHeight - newHeight) / 2,
	}
}

// ToSource maps a point in letterboxed coordinates back onto the source
// frame, e.g. to place a detection box on the original image.
func (l Letterbox) ToSource(x, y float64) (float64, float64) {
	if l.Scale == 0 {
		return 0, 0
	}
	return (x - float64(l.OffsetX)) / l.Scale, (y - float64(l.OffsetY)) / l.Scale
}

// ResizeKeepAspectRatio scales img to fit inside width x height without
// distortion and centres it on a canvas filled with fill. A nil fill uses
// DefaultPadColor. A non-positive target size yields an empty image.
func ResizeKeepAspectRatio(img image.Image, width, height int, fill color.Color) *image.NRGBA {
	if fill == nil {
		fill = DefaultPadColor
	}

	canvas := imaging.New(width, height, fill)
	if width <= 0 || height <= 0 || img == nil {
		return canvas
	}

	b := img.Bounds()
	lb := LetterboxParams(b.Dx(), b.Dy(), width, height)
	if lb.Scale == 0 {
		return canvas
	}

	resized := imaging.Resize(img, lb.NewWidth, lb.NewHeight, imaging.Linear)
	return imaging.Paste(canvas, resized, image.Pt(lb.OffsetX, lb.OffsetY))
}

// CenterCrop cuts a width x height region from the centre of img. The
// region is clipped to the image bounds.
func CenterCrop(img image.Image, width, height int) *image.NRGBA {
	if img == nil || width <= 0 || height <= 0 {
		return &image.NRGBA{}
	}
	return imaging.CropCenter(img, width, height)
}
