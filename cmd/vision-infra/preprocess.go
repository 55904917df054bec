package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"vision-infra/internal/logging"
	"vision-infra/internal/memory"
	"vision-infra/internal/metrics"
	"vision-infra/internal/perf"
	"vision-infra/internal/startup"
	"vision-infra/internal/vision"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type preprocessOptions struct {
	size         string
	workers      int
	writeDir     string
	maxDimension int
	useVips      bool
}

// newPreprocessCmd creates the command that turns images into a model
// input batch.
func newPreprocessCmd() *cobra.Command {
	opts := preprocessOptions{}

	cmd := &cobra.Command{
		Use:   "preprocess [flags] <image>...",
		Short: "Letterbox and normalize images into an NCHW batch",
		Long: `Load images, letterbox them to the model input size, scale pixels to
[0,1] and stack them into one NCHW float32 batch. The batch shape, its
memory footprint and the throughput are reported.

With --write-dir every letterboxed frame is also written as a PNG with the
image area outlined, which helps checking the padding.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreprocess(cmd.Context(), cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.size, "size", "640x640", "model input size as WIDTHxHEIGHT")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "preprocessing workers (0 sizes the pool from GOMAXPROCS)")
	cmd.Flags().StringVar(&opts.writeDir, "write-dir", "", "write letterboxed frames to this directory")
	cmd.Flags().IntVar(&opts.maxDimension, "max-dimension", vision.MaxImageDimension, "downscale sources larger than this while loading")
	cmd.Flags().BoolVar(&opts.useVips, "vips", false, "decode with libvips")

	return cmd
}

// parseSize parses "WIDTHxHEIGHT". A single number is used for both.
func parseSize(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) == 1 {
		parts = append(parts, parts[0])
	}
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid size %q: want WIDTHxHEIGHT", s)
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in size %q", s)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in size %q", s)
	}
	return width, height, nil
}

func runPreprocess(ctx context.Context, w io.Writer, opts preprocessOptions, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	width, height, err := parseSize(opts.size)
	if err != nil {
		return err
	}
	if opts.writeDir != "" {
		if err := startup.EnsureDirectory(opts.writeDir); err != nil {
			return fmt.Errorf("output directory %s: %w", opts.writeDir, err)
		}
	}

	startup.LogMemoryConfig(memory.ConfigureFromEnv())

	if opts.useVips {
		if err := vision.InitVips(); err != nil {
			logging.Warn("libvips unavailable: %v", err)
		}
		defer vision.ShutdownVips()
	}
	startup.LogVipsInit(vision.IsVipsAvailable())

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()
	defer monitor.Stop()

	timer := perf.NewTimer()
	timer.Start()
	frames, err := vision.LoadFrames(ctx, paths, opts.maxDimension)
	timer.Stop()
	if err != nil {
		return fmt.Errorf("failed to load frames: %w", err)
	}
	loadMs := timer.ElapsedMs()

	popts := vision.DefaultPreprocessOptions()
	popts.Width = width
	popts.Height = height
	popts.Workers = opts.workers
	popts.Monitor = monitor

	timer.Reset()
	timer.Start()
	result, err := vision.PreprocessBatch(ctx, frames, popts)
	timer.Stop()
	if err != nil {
		return fmt.Errorf("failed to preprocess frames: %w", err)
	}
	preprocessMs := timer.ElapsedMs()

	throughput := float64(len(frames)) * 1000 / max(preprocessMs, 0.001)
	metrics.CurrentFPS.Set(throughput)

	var sourceBytes uint64
	for _, f := range frames {
		sourceBytes += memory.ImageMemorySize(f)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendRows([]table.Row{
		{"frames", len(frames)},
		{"batch shape", result.Tensor.String()},
		{"batch memory", memory.FormatBytes(result.Tensor.MemorySize())},
		{"source memory", memory.FormatBytes(sourceBytes)},
		{"load time", fmt.Sprintf("%.1f ms", loadMs)},
		{"preprocess time", fmt.Sprintf("%.1f ms", preprocessMs)},
		{"throughput", fmt.Sprintf("%.1f frames/s", throughput)},
	})
	t.Render()

	if opts.writeDir == "" {
		return nil
	}

	fps := perf.NewFPSCounter(len(frames))
	for i, frame := range frames {
		out := annotateLetterbox(frame, result.Letterboxes[i], width, height, filepath.Base(paths[i]))
		dst := filepath.Join(opts.writeDir, fmt.Sprintf("%03d_%s.png", i, strings.TrimSuffix(filepath.Base(paths[i]), filepath.Ext(paths[i]))))
		if err := vision.SaveImage(dst, out); err != nil {
			return err
		}
		fps.Update()
		logging.Debug("Wrote %s", dst)
	}
	fmt.Fprintf(w, "Wrote %d frames to %s (%.1f frames/s)\n", len(frames), opts.writeDir, fps.AverageFPS())
	return nil
}

// annotateLetterbox renders frame as the model sees it and outlines the
// image area inside the padding.
func annotateLetterbox(frame image.Image, lb vision.Letterbox, width, height int, label string) *image.NRGBA {
	canvas := vision.ResizeKeepAspectRatio(frame, width, height, vision.DefaultPadColor)
	colors := vision.GenerateRandomColors(1, vision.DefaultColorSeed)

	vision.DrawBoundingBox(canvas, lb.OffsetX, lb.OffsetY, lb.NewWidth-1, lb.NewHeight-1, colors[0], vision.DefaultThickness)
	vision.DrawLabel(canvas, label, float32(lb.Scale), lb.OffsetX, lb.OffsetY, vision.DefaultFontScale)
	return canvas
}
