package vision

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"math/rand/v2"

	"golang.org/x/image/vector"
)

// Drawing defaults.
const (
	DefaultColorSeed      = 42
	DefaultThickness      = 2
	DefaultKeypointRadius = 3
)

// DefaultDrawColor is the stroke color used when callers have no palette.
var DefaultDrawColor = color.RGBA{G: 255, A: 255}

// Keypoint is a sub-pixel landmark position. Drawing truncates it to the
// containing pixel.
type Keypoint struct {
	X, Y float32
}

// GenerateRandomColors returns count opaque colors drawn from a generator
// seeded with seed, so the same seed always yields the same palette.
func GenerateRandomColors(count int, seed uint64) []color.RGBA {
	if count <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, 0))
	colors := make([]color.RGBA, count)
	for i := range colors {
		colors[i] = color.RGBA{
			R: uint8(rng.IntN(256)),
			G: uint8(rng.IntN(256)),
			B: uint8(rng.IntN(256)),
			A: 255,
		}
	}
	return colors
}

// DrawBoundingBox outlines the box from (x, y) to (x+width, y+height),
// both corners included. A negative thickness fills the box.
func DrawBoundingBox(dst draw.Image, x, y, width, height int, c color.Color, thickness int) {
	strokeRect(dst, x, y, x+width, y+height, c, thickness)
}

// DrawRect outlines r. Max is exclusive, as everywhere in image. A
// negative thickness fills it.
func DrawRect(dst draw.Image, r image.Rectangle, c color.Color, thickness int) {
	if r.Empty() {
		return
	}
	strokeRect(dst, r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1, c, thickness)
}

// strokeRect draws a band of the given thickness centred on the outline of
// the inclusive rectangle (x0,y0)-(x1,y1).
func strokeRect(dst draw.Image, x0, y0, x1, y1 int, c color.Color, thickness int) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	src := image.NewUniform(c)

	if thickness < 0 {
		draw.Draw(dst, image.Rect(x0, y0, x1+1, y1+1), src, image.Point{}, draw.Over)
		return
	}
	if thickness == 0 {
		thickness = 1
	}

	lo := thickness / 2
	hi := thickness - lo
	outer := image.Rect(x0-lo, y0-lo, x1+hi, y1+hi)
	if outer.Dx() <= 2*thickness || outer.Dy() <= 2*thickness {
		draw.Draw(dst, outer, src, image.Point{}, draw.Over)
		return
	}

	t := thickness
	bands := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+t),
		image.Rect(outer.Min.X, outer.Max.Y-t, outer.Max.X, outer.Max.Y),
		image.Rect(outer.Min.X, outer.Min.Y+t, outer.Min.X+t, outer.Max.Y-t),
		image.Rect(outer.Max.X-t, outer.Min.Y+t, outer.Max.X, outer.Max.Y-t),
	}
	for _, b := range bands {
		draw.Draw(dst, b, src, image.Point{}, draw.Over)
	}
}

// DrawLine draws a segment between two pixels with round caps.
func DrawLine(dst draw.Image, p0, p1 image.Point, c color.Color, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	hw := float32(thickness) / 2
	ax, ay := float32(p0.X)+0.5, float32(p0.Y)+0.5
	bx, by := float32(p1.X)+0.5, float32(p1.Y)+0.5

	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length > 0 {
		nx, ny := -dy/length*hw, dx/length*hw
		fillPolygon(dst, c, []fpoint{
			{ax + nx, ay + ny},
			{bx + nx, by + ny},
			{bx - nx, by - ny},
			{ax - nx, ay - ny},
		})
	}
	if thickness > 2 || length == 0 {
		fillCircle(dst, c, ax, ay, hw)
		fillCircle(dst, c, bx, by, hw)
	}
}

// DrawPolygon draws the closed outline through points. It needs at least
// two points.
func DrawPolygon(dst draw.Image, points []image.Point, c color.Color, thickness int) {
	if len(points) < 2 {
		return
	}
	for i, p := range points {
		DrawLine(dst, p, points[(i+1)%len(points)], c, thickness)
	}
}

// DrawFilledPolygon fills the polygon through points. It needs at least
// three points.
func DrawFilledPolygon(dst draw.Image, points []image.Point, c color.Color) {
	if len(points) < 3 {
		return
	}
	pts := make([]fpoint, len(points))
	for i, p := range points {
		pts[i] = fpoint{float32(p.X) + 0.5, float32(p.Y) + 0.5}
	}
	fillPolygon(dst, c, pts)
}

// DrawKeypoints draws a filled disc of the given radius on each keypoint.
// A radius below 1 marks the single pixel.
func DrawKeypoints(dst draw.Image, keypoints []Keypoint, c color.Color, radius int) {
	for _, kp := range keypoints {
		x, y := int(kp.X), int(kp.Y)
		if radius < 1 {
			if (image.Point{X: x, Y: y}).In(dst.Bounds()) {
				dst.Set(x, y, c)
			}
			continue
		}
		fillCircle(dst, c, float32(x)+0.5, float32(y)+0.5, float32(radius)+0.5)
	}
}

type fpoint struct {
	x, y float32
}

// fillPath rasterizes the path built by path over area, clipped to dst.
// path receives the origin to subtract from absolute coordinates.
func fillPath(dst draw.Image, c color.Color, area image.Rectangle, path func(z *vector.Rasterizer, ox, oy float32)) {
	r := area.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	z := vector.NewRasterizer(r.Dx(), r.Dy())
	path(z, float32(r.Min.X), float32(r.Min.Y))
	z.Draw(dst, r, image.NewUniform(c), image.Point{})
}

func fillPolygon(dst draw.Image, c color.Color, pts []fpoint) {
	minX, minY := pts[0].x, pts[0].y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.x), max(maxX, p.x)
		minY, maxY = min(minY, p.y), max(maxY, p.y)
	}
	area := image.Rect(floor(minX), floor(minY), ceil(maxX)+1, ceil(maxY)+1)

	fillPath(dst, c, area, func(z *vector.Rasterizer, ox, oy float32) {
		z.MoveTo(pts[0].x-ox, pts[0].y-oy)
		for _, p := range pts[1:] {
			z.LineTo(p.x-ox, p.y-oy)
		}
		z.ClosePath()
	})
}

// kappa places cubic Bézier control points to approximate a quarter circle.
const kappa = 0.5522847498

func fillCircle(dst draw.Image, c color.Color, cx, cy, r float32) {
	area := image.Rect(floor(cx-r), floor(cy-r), ceil(cx+r)+1, ceil(cy+r)+1)

	fillPath(dst, c, area, func(z *vector.Rasterizer, ox, oy float32) {
		x, y, k := cx-ox, cy-oy, r*kappa
		z.MoveTo(x+r, y)
		z.CubeTo(x+r, y+k, x+k, y+r, x, y+r)
		z.CubeTo(x-k, y+r, x-r, y+k, x-r, y)
		z.CubeTo(x-r, y-k, x-k, y-r, x, y-r)
		z.CubeTo(x+k, y-r, x+r, y-k, x+r, y)
		z.ClosePath()
	})
}

func floor(v float32) int { return int(math.Floor(float64(v))) }
func ceil(v float32) int { return int(math.Ceil(float64(v))) }
