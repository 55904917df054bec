package vision

import (
	"context"
	"fmt"
	"image"
	"os"

	"vision-infra/internal/logging"
	"vision-infra/internal/workers"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
	"golang.org/x/sync/errgroup"
)

const (
	// MaxImageDimension is the largest width or height loaded as-is.
	// Larger sources are downscaled on load.
	MaxImageDimension = 4096

	// MaxImagePixels is the largest pixel count loaded as-is.
	// A 20MP frame uses ~80MB as NRGBA.
	MaxImagePixels = 20_000_000
)

// Dimensions holds image width and height
type Dimensions struct {
	Width  int
	Height int
}

// ImageDimensions returns the size of the image at path without decoding
// its pixels.
func ImageDimensions(path string) (Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, fmt.Errorf("failed to read image header %s: %w", path, err)
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// LoadImage decodes the image at path, applying EXIF orientation.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// SaveImage encodes img to path. The format follows the extension.
func SaveImage(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// constrainedSize returns the size a width x height image is scaled to so
// that neither side exceeds maxDimension and the area does not exceed
// maxPixels. The bool is false when no scaling is needed.
func constrainedSize(width, height, maxDimension, maxPixels int) (int, int, bool) {
	if width <= maxDimension && height <= maxDimension && width*height <= maxPixels {
		return width, height, false
	}

	targetWidth, targetHeight := width, height
	if width > maxDimension || height > maxDimension {
		if width > height {
			targetWidth = maxDimension
			targetHeight = height * maxDimension / width
		} else {
			targetHeight = maxDimension
			targetWidth = width * maxDimension / height
		}
	}

	if targetPixels := targetWidth * targetHeight; targetPixels > maxPixels {
		scale := float64(maxPixels) / float64(targetPixels)
		targetWidth = int(float64(targetWidth) * scale)
		targetHeight = int(float64(targetHeight) * scale)
	}

	return max(targetWidth, 1), max(targetHeight, 1), true
}

// LoadImageConstrained loads an image, downscaling it if it exceeds
// maxDimension on either side or maxPixels in total.
func LoadImageConstrained(path string, maxDimension, maxPixels int) (image.Image, error) {
	dims, err := ImageDimensions(path)
	if err != nil {
		logging.Debug("Could not get image dimensions for %s: %v, loading unconstrained", path, err)
		return LoadImage(path)
	}

	targetWidth, targetHeight, constrain := constrainedSize(dims.Width, dims.Height, maxDimension, maxPixels)
	if !constrain {
		return LoadImage(path)
	}

	logging.Info("Constraining large image %s from %dx%d to %dx%d",
		path, dims.Width, dims.Height, targetWidth, targetHeight)

	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos), nil
}

// LoadFrames loads every path concurrently with LoadFrame. The result
// preserves the order of paths. The first failure cancels the rest.
func LoadFrames(ctx context.Context, paths []string, maxDimension int) ([]image.Image, error) {
	frames := make([]image.Image, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForIO(len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := LoadFrame(path, maxDimension)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
