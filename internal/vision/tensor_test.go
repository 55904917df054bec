package vision

import (
	"errors"
	"image"
	"image/color"
	"math"
	"slices"
	"testing"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestNewTensor(t *testing.T) {
	tensor, err := NewTensor(2, 3, 4)
	if err != nil {
		t.Fatalf("NewTensor: %v", err)
	}
	if len(tensor.Data) != 24 || tensor.Len() != 24 {
		t.Errorf("NewTensor(2,3,4) has %d elements, want 24", len(tensor.Data))
	}
	if tensor.MemorySize() != 96 {
		t.Errorf("MemorySize() = %d, want 96", tensor.MemorySize())
	}

	if _, err := NewTensor(2, -1); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("NewTensor with a negative dimension error = %v, want ErrInvalidShape", err)
	}
}

func TestNormalize(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 255, B: 255, A: 255})

	half := []float32{0.5, 0.5, 0.5}
	tensor := Normalize(img, half, half)

	if !slices.Equal(tensor.Shape, []int64{1, 2, 3}) {
		t.Fatalf("Shape = %v, want [1 2 3]", tensor.Shape)
	}
	want := []float32{1, -1, -0.6, -1, 1, 1}
	for i := range want {
		if !approxEqual(tensor.Data[i], want[i]) {
			t.Errorf("Data[%d] = %v, want %v", i, tensor.Data[i], want[i])
		}
	}
}

func TestNormalizePartialStatistics(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 255})

	// Only the first channel has statistics; the rest are just scaled.
	tensor := Normalize(img, []float32{1}, []float32{2})
	want := []float32{0, 1, 1}
	for i := range want {
		if !approxEqual(tensor.Data[i], want[i]) {
			t.Errorf("Data[%d] = %v, want %v", i, tensor.Data[i], want[i])
		}
	}

	if got := Normalize(nil, nil, nil); len(got.Data) != 0 {
		t.Error("Normalize(nil) should yield an empty tensor")
	}
}

func TestNormalizeSubImage(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	base.SetNRGBA(2, 2, color.NRGBA{R: 255, A: 255})
	sub := base.SubImage(image.Rect(2, 2, 4, 4))

	tensor := Normalize(sub, nil, nil)
	if !slices.Equal(tensor.Shape, []int64{2, 2, 3}) {
		t.Fatalf("Shape = %v, want [2 2 3]", tensor.Shape)
	}
	if !approxEqual(tensor.Data[0], 1) || !approxEqual(tensor.Data[1], 0) {
		t.Errorf("first pixel = %v, want the sub-image origin", tensor.Data[:3])
	}
}

func TestHWCToCHW(t *testing.T) {
	// 2x2 image, 3 channels; value encodes (y, x, c).
	hwc := &Tensor{Shape: []int64{2, 2, 3}}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			for c := 0; c < 3; c++ {
				hwc.Data = append(hwc.Data, float32(100*c+10*y+x))
			}
		}
	}

	chw, err := HWCToCHW(hwc)
	if err != nil {
		t.Fatalf("HWCToCHW: %v", err)
	}
	if !slices.Equal(chw.Shape, []int64{3, 2, 2}) {
		t.Fatalf("Shape = %v, want [3 2 2]", chw.Shape)
	}
	want := []float32{0, 1, 10, 11, 100, 101, 110, 111, 200, 201, 210, 211}
	if !slices.Equal(chw.Data, want) {
		t.Errorf("Data = %v, want %v", chw.Data, want)
	}

	back, err := CHWToHWC(chw)
	if err != nil {
		t.Fatalf("CHWToHWC: %v", err)
	}
	if !slices.Equal(back.Shape, hwc.Shape) || !slices.Equal(back.Data, hwc.Data) {
		t.Error("CHWToHWC(HWCToCHW(x)) != x")
	}
}

func TestTransposeInvalidShape(t *testing.T) {
	tests := []struct {
		name   string
		tensor *Tensor
	}{
		{name: "two dimensions", tensor: &Tensor{Shape: []int64{2, 2}, Data: make([]float32, 4)}},
		{name: "data too short", tensor: &Tensor{Shape: []int64{2, 2, 3}, Data: make([]float32, 5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := HWCToCHW(tt.tensor); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("HWCToCHW error = %v, want ErrInvalidShape", err)
			}
			if _, err := CHWToHWC(tt.tensor); !errors.Is(err, ErrInvalidShape) {
				t.Errorf("CHWToHWC error = %v, want ErrInvalidShape", err)
			}
		})
	}
}

func TestBatch(t *testing.T) {
	a := &Tensor{Shape: []int64{3, 1, 1}, Data: []float32{1, 2, 3}}
	b := &Tensor{Shape: []int64{3, 1, 1}, Data: []float32{4, 5, 6}}

	batch, err := Batch([]*Tensor{a, b})
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if !slices.Equal(batch.Shape, []int64{2, 3, 1, 1}) {
		t.Errorf("Shape = %v, want [2 3 1 1]", batch.Shape)
	}
	if !slices.Equal(batch.Data, []float32{1, 2, 3, 4, 5, 6}) {
		t.Errorf("Data = %v", batch.Data)
	}

	c := &Tensor{Shape: []int64{1, 3, 1}, Data: []float32{7, 8, 9}}
	if _, err := Batch([]*Tensor{a, c}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("Batch with mismatched shapes error = %v, want ErrShapeMismatch", err)
	}
	if _, err := Batch(nil); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Batch(nil) error = %v, want ErrInvalidShape", err)
	}
}
