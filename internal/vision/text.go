package vision

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"vision-infra/internal/logging"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// DefaultFontScale matches the label size used by most detector demos.
	DefaultFontScale = 0.5

	// fontPixelsPerScale is the font size in pixels at scale 1.
	fontPixelsPerScale = 22.0
)

// Label colors.
var (
	LabelBackground = color.RGBA{R: 255, B: 255, A: 255}
	LabelForeground = color.RGBA{R: 255, G: 255, A: 255}
)

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
	labelFontErr  error
)

// newFace returns a Go Regular face at the given scale. Faces are not safe
// for concurrent use, so each call gets its own.
func newFace(scale float64) (font.Face, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = opentype.Parse(goregular.TTF)
	})
	if labelFontErr != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", labelFontErr)
	}
	if scale <= 0 {
		scale = DefaultFontScale
	}
	return opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    fontPixelsPerScale * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func closeFace(face font.Face) {
	if err := face.Close(); err != nil {
		logging.Debug("failed to close font face: %v", err)
	}
}

// TextSize returns the width and the height above the baseline of text
// rendered at scale, and the depth below the baseline.
func TextSize(text string, scale float64) (width, height, baseline int) {
	face, err := newFace(scale)
	if err != nil {
		logging.Warn("%v", err)
		return 0, 0, 0
	}
	defer closeFace(face)

	m := face.Metrics()
	return font.MeasureString(face, text).Ceil(), m.Ascent.Ceil(), m.Descent.Ceil()
}

// DrawText renders text with its baseline starting at (x, y).
func DrawText(dst draw.Image, text string, x, y int, c color.Color, scale float64) {
	face, err := newFace(scale)
	if err != nil {
		logging.Warn("%v", err)
		return
	}
	defer closeFace(face)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// confidenceText renders confidence with six decimals and keeps the first
// four characters, so 0.873 becomes "0.87".
func confidenceText(confidence float32) string {
	s := fmt.Sprintf("%f", confidence)
	if len(s) > 4 {
		s = s[:4]
	}
	return s
}

// DrawLabel writes "label: confidence" in LabelForeground on a
// LabelBackground box whose top-left corner is (x, y). The box is moved
// down when it would start above the image's text height.
func DrawLabel(dst draw.Image, label string, confidence float32, x, y int, scale float64) {
	text := label + ": " + confidenceText(confidence)
	width, height, baseline := TextSize(text, scale)
	y = max(y, height)

	bg := image.Rect(x, y, x+width+1, y+height+baseline+1)
	draw.Draw(dst, bg, image.NewUniform(LabelBackground), image.Point{}, draw.Over)
	DrawText(dst, text, x, y+height, LabelForeground, scale)
}
