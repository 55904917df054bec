package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"vision-infra/internal/logging"
	"vision-infra/internal/memory"
	"vision-infra/internal/metrics"
	"vision-infra/internal/workers"

	"golang.org/x/sync/errgroup"
)

// errMonitorStopped is returned when the memory monitor shuts down while a
// frame is waiting on it.
var errMonitorStopped = errors.New("memory monitor stopped")

// PreprocessOptions configures PreprocessBatch.
type PreprocessOptions struct {
	Width  int
	Height int
	Mean   []float32
	Std    []float32
	// Fill is the letterbox padding; nil uses DefaultPadColor.
	Fill color.Color
	// Workers caps the pool size; 0 sizes it from GOMAXPROCS.
	Workers int
	// Monitor, when set, pauses work while memory usage is critical.
	Monitor *memory.Monitor
}

// DefaultPreprocessOptions returns a 640x640 letterbox with plain [0,1]
// scaling.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Width:  640,
		Height: 640,
		Mean:   []float32{0, 0, 0},
		Std:    []float32{1, 1, 1},
	}
}

// PreprocessResult holds an NCHW batch and, per frame, the letterbox
// geometry needed to map outputs back to source coordinates.
type PreprocessResult struct {
	Tensor      *Tensor
	Letterboxes []Letterbox
}

// PreprocessFrame letterboxes, normalizes and transposes one frame into a
// CHW tensor.
func PreprocessFrame(img image.Image, opts PreprocessOptions) (*Tensor, Letterbox, error) {
	if img == nil {
		return nil, Letterbox{}, fmt.Errorf("%w: nil frame", ErrInvalidShape)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, Letterbox{}, fmt.Errorf("%w: target size %dx%d", ErrInvalidShape, opts.Width, opts.Height)
	}

	b := img.Bounds()
	lb := LetterboxParams(b.Dx(), b.Dy(), opts.Width, opts.Height)

	boxed := ResizeKeepAspectRatio(img, opts.Width, opts.Height, opts.Fill)
	chw, err := HWCToCHW(Normalize(boxed, opts.Mean, opts.Std))
	if err != nil {
		return nil, Letterbox{}, err
	}
	return chw, lb, nil
}

// PreprocessBatch runs PreprocessFrame over imgs on a bounded worker pool
// and stacks the results into one NCHW tensor. The first failure cancels
// the remaining frames.
func PreprocessBatch(ctx context.Context, imgs []image.Image, opts PreprocessOptions) (*PreprocessResult, error) {
	if len(imgs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrInvalidShape)
	}

	start := time.Now()
	tensors := make([]*Tensor, len(imgs))
	boxes := make([]Letterbox, len(imgs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForCPU(opts.Workers))

	for i, img := range imgs {
		g.Go(func() error {
			if opts.Monitor != nil && !opts.Monitor.WaitIfPaused(gctx) {
				if err := gctx.Err(); err != nil {
					return err
				}
				return errMonitorStopped
			}
			if err := gctx.Err(); err != nil {
				return err
			}

			t, lb, err := PreprocessFrame(img, opts)
			if err != nil {
				metrics.FramesProcessedTotal.WithLabelValues("error").Inc()
				return fmt.Errorf("frame %d: %w", i, err)
			}
			metrics.FramesProcessedTotal.WithLabelValues("success").Inc()
			tensors[i], boxes[i] = t, lb
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch, err := Batch(tensors)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.PreprocessDuration.Observe(elapsed.Seconds())
	logging.Debug("Preprocessed %d frames into %v (%s) in %v",
		len(imgs), batch.Shape, memory.FormatBytes(batch.MemorySize()), elapsed)

	return &PreprocessResult{Tensor: batch, Letterboxes: boxes}, nil
}
