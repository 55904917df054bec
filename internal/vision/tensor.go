package vision

import (
	"errors"
	"fmt"
	"image"
	"slices"

	"vision-infra/internal/memory"

	"github.com/disintegration/imaging"
)

var (
	// ErrInvalidShape is returned when a tensor's shape does not fit the
	// requested operation.
	ErrInvalidShape = errors.New("invalid tensor shape")

	// ErrShapeMismatch is returned when tensors that must agree in shape
	// do not.
	ErrShapeMismatch = errors.New("tensor shape mismatch")
)

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Shape []int64
	Data  []float32
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(shape ...int64) (*Tensor, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return nil, fmt.Errorf("%w: negative dimension in %v", ErrInvalidShape, shape)
		}
		n *= d
	}
	return &Tensor{Shape: slices.Clone(shape), Data: make([]float32, n)}, nil
}

// Len returns the number of elements the shape describes.
func (t *Tensor) Len() int64 {
	n := int64(1)
	for _, d := range t.Shape {
		n *= d
	}
	return n
}

// MemorySize returns the bytes held by the tensor's elements.
func (t *Tensor) MemorySize() uint64 {
	return memory.TensorMemorySize(t.Shape, 4)
}

func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor%v", t.Shape)
}

func (t *Tensor) check3D() error {
	if len(t.Shape) != 3 {
		return fmt.Errorf("%w: want 3 dimensions, got %v", ErrInvalidShape, t.Shape)
	}
	if int64(len(t.Data)) != t.Len() {
		return fmt.Errorf("%w: shape %v holds %d elements, data has %d", ErrInvalidShape, t.Shape, t.Len(), len(t.Data))
	}
	return nil
}

// Normalize converts img to a float32 HWC tensor with three RGB channels.
// Each value is scaled to [0,1] and then, for channel c, shifted by mean[c]
// and divided by std[c]. Channels beyond the length of mean or std are only
// scaled.
func Normalize(img image.Image, mean, std []float32) *Tensor {
	if img == nil {
		return &Tensor{Shape: []int64{0, 0, 3}}
	}

	src, ok := img.(*image.NRGBA)
	if !ok || src.Bounds().Min != (image.Point{}) {
		src = imaging.Clone(img)
	}

	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	t := &Tensor{
		Shape: []int64{int64(h), int64(w), 3},
		Data:  make([]float32, h*w*3),
	}

	var scale, shift [3]float32
	for c := range 3 {
		scale[c], shift[c] = 1.0/255, 0
		if c < len(mean) && c < len(std) {
			scale[c] = 1.0 / (255 * std[c])
			shift[c] = mean[c] / std[c]
		}
	}

	i := 0
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+3]
			for c := range 3 {
				t.Data[i] = float32(px[c])*scale[c] - shift[c]
				i++
			}
		}
	}
	return t
}

// HWCToCHW transposes a height x width x channels tensor to channels x
// height x width.
func HWCToCHW(t *Tensor) (*Tensor, error) {
	if err := t.check3D(); err != nil {
		return nil, err
	}
	h, w, c := int(t.Shape[0]), int(t.Shape[1]), int(t.Shape[2])

	out := &Tensor{Shape: []int64{int64(c), int64(h), int64(w)}, Data: make([]float32, len(t.Data))}
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := (y*w + x) * c
			dst := y*w + x
			for ch := 0; ch < c; ch++ {
				out.Data[ch*plane+dst] = t.Data[src+ch]
			}
		}
	}
	return out, nil
}

// CHWToHWC is the inverse of HWCToCHW.
func CHWToHWC(t *Tensor) (*Tensor, error) {
	if err := t.check3D(); err != nil {
		return nil, err
	}
	c, h, w := int(t.Shape[0]), int(t.Shape[1]), int(t.Shape[2])

	out := &Tensor{Shape: []int64{int64(h), int64(w), int64(c)}, Data: make([]float32, len(t.Data))}
	plane := h * w
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := y*w + x
			dst := (y*w + x) * c
			for ch := 0; ch < c; ch++ {
				out.Data[dst+ch] = t.Data[ch*plane+src]
			}
		}
	}
	return out, nil
}

// Batch stacks same-shaped tensors along a new leading dimension, turning
// CHW inputs into an NCHW batch.
func Batch(tensors []*Tensor) (*Tensor, error) {
	if len(tensors) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidShape)
	}

	shape := tensors[0].Shape
	size := len(tensors[0].Data)
	for i, t := range tensors {
		if !slices.Equal(t.Shape, shape) {
			return nil, fmt.Errorf("%w: tensor %d has shape %v, want %v", ErrShapeMismatch, i, t.Shape, shape)
		}
		if len(t.Data) != size {
			return nil, fmt.Errorf("%w: tensor %d has %d elements, want %d", ErrShapeMismatch, i, len(t.Data), size)
		}
	}

	out := &Tensor{
		Shape: append([]int64{int64(len(tensors))}, shape...),
		Data:  make([]float32, 0, size*len(tensors)),
	}
	for _, t := range tensors {
		out.Data = append(out.Data, t.Data...)
	}
	return out, nil
}
