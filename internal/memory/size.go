package memory

import (
	"fmt"
	"image"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatBytes renders n with two decimals and the largest binary unit
// up to TB that keeps the value at or above 1, e.g. "1.50 KB".
func FormatBytes(n uint64) string {
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, byteUnits[unit])
}

// ImageMemorySize returns the bytes held by the pixel buffers of img. Image
// types without a known buffer layout are sized as 4 bytes per pixel.
func ImageMemorySize(img image.Image) uint64 {
	switch m := img.(type) {
	case nil:
		return 0
	case *image.RGBA:
		return uint64(len(m.Pix))
	case *image.NRGBA:
		return uint64(len(m.Pix))
	case *image.RGBA64:
		return uint64(len(m.Pix))
	case *image.NRGBA64:
		return uint64(len(m.Pix))
	case *image.Gray:
		return uint64(len(m.Pix))
	case *image.Gray16:
		return uint64(len(m.Pix))
	case *image.Alpha:
		return uint64(len(m.Pix))
	case *image.Paletted:
		return uint64(len(m.Pix))
	case *image.CMYK:
		return uint64(len(m.Pix))
	case *image.YCbCr:
		return uint64(len(m.Y) + len(m.Cb) + len(m.Cr))
	case *image.NYCbCrA:
		return uint64(len(m.Y) + len(m.Cb) + len(m.Cr) + len(m.A))
	}

	b := img.Bounds()
	return uint64(b.Dx()) * uint64(b.Dy()) * 4
}

// TensorMemorySize returns the bytes needed for a tensor of the given shape
// with elemSize bytes per element. An empty shape is a scalar. Negative
// (dynamic) dimensions cannot be sized and yield 0.
func TensorMemorySize(shape []int64, elemSize uint64) uint64 {
	total := uint64(1)
	for _, dim := range shape {
		if dim < 0 {
			return 0
		}
		total *= uint64(dim)
	}
	return total * elemSize
}
