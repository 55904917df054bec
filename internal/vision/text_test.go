package vision

import (
	"testing"
)

func TestConfidenceText(t *testing.T) {
	tests := []struct {
		confidence float32
		want       string
	}{
		{confidence: 0.873, want: "0.87"},
		{confidence: 0.5, want: "0.50"},
		{confidence: 1, want: "1.00"},
		{confidence: 0, want: "0.00"},
		{confidence: 12.5, want: "12.5"},
	}

	for _, tt := range tests {
		if got := confidenceText(tt.confidence); got != tt.want {
			t.Errorf("confidenceText(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}

func TestTextSize(t *testing.T) {
	w1, h1, base1 := TextSize("car", DefaultFontScale)
	if w1 <= 0 || h1 <= 0 || base1 <= 0 {
		t.Fatalf("TextSize(car) = (%d, %d, %d), want positive values", w1, h1, base1)
	}

	w2, _, _ := TextSize("car: 0.87", DefaultFontScale)
	if w2 <= w1 {
		t.Errorf("longer text width %d should exceed %d", w2, w1)
	}

	w3, h3, _ := TextSize("car", 2*DefaultFontScale)
	if w3 <= w1 || h3 <= h1 {
		t.Errorf("doubling the scale gave (%d, %d), want larger than (%d, %d)", w3, h3, w1, h1)
	}

	if w, _, _ := TextSize("", DefaultFontScale); w != 0 {
		t.Errorf("empty text width = %d, want 0", w)
	}

	wd, hd, _ := TextSize("car", 0)
	if wd != w1 || hd != h1 {
		t.Error("a non-positive scale should use DefaultFontScale")
	}
}

func TestDrawLabel(t *testing.T) {
	img := canvas(200, 80)
	DrawLabel(img, "car", 0.873, 10, 0, 1)

	width, height, baseline := TextSize("car: 0.87", 1)

	// y is clamped to the text height, so nothing is drawn above it.
	for x := 0; x < 200; x++ {
		if got := img.RGBAAt(x, height-1); got != white {
			t.Fatalf("pixel (%d, %d) above the label = %v, want white", x, height-1, got)
		}
	}

	if got := img.RGBAAt(10, height); got != LabelBackground {
		t.Errorf("label top-left = %v, want %v", got, LabelBackground)
	}
	if got := img.RGBAAt(10+width+1, height+1); got != white {
		t.Errorf("pixel right of the label = %v, want white", got)
	}
	if got := img.RGBAAt(10, height+height+baseline+1); got != white {
		t.Errorf("pixel below the label = %v, want white", got)
	}

	var textPixels int
	for y := height; y <= height+height+baseline; y++ {
		for x := 10; x <= 10+width; x++ {
			if c := img.RGBAAt(x, y); c.G > 200 && c.B < 100 {
				textPixels++
			}
		}
	}
	if textPixels == 0 {
		t.Error("no foreground text pixels found inside the label")
	}
}
