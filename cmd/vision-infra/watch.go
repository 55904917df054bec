package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"vision-infra/internal/filesystem"
	"vision-infra/internal/logging"
	"vision-infra/internal/mediatypes"
	"vision-infra/internal/memory"
	"vision-infra/internal/metrics"
	"vision-infra/internal/middleware"
	"vision-infra/internal/startup"
	"vision-infra/internal/vision"

	"github.com/spf13/cobra"
)

type watchOptions struct {
	metricsAddr     string
	types           []string
	debounce        time.Duration
	collectInterval time.Duration
}

// newWatchCmd creates the command that reports source files as they land
// in a set of directories.
func newWatchCmd() *cobra.Command {
	opts := watchOptions{collectInterval: 15 * time.Second}

	cmd := &cobra.Command{
		Use:   "watch [flags] <dir>...",
		Short: "Report new images, videos and models in directories",
		Long: `Watch directories and print every file that appears or is rewritten in
them as "<type>\t<path>", once the file has stopped changing.

With --metrics-addr the watcher also serves Prometheus metrics and health
probes on /metrics, /healthz, /livez and /readyz.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go handleShutdown(ctx, cancel)

			return runWatch(ctx, cmd.OutOrStdout(), opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve metrics and health probes on this address, e.g. :9090")
	cmd.Flags().StringSliceVarP(&opts.types, "type", "t", nil, "only report these types: image, video, model or other (repeatable)")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", filesystem.DefaultDebounce, "quiet period before a changed file is reported")

	return cmd
}

// handleShutdown cancels the watch on SIGINT or SIGTERM.
func handleShutdown(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		startup.LogShutdownInitiated(sig.String())
		cancel()
	case <-ctx.Done():
	}
}

func parseTypes(names []string) ([]mediatypes.FileType, error) {
	types := make([]mediatypes.FileType, 0, len(names))
	for _, name := range names {
		switch t := mediatypes.FileType(name); t {
		case mediatypes.FileTypeImage, mediatypes.FileTypeVideo, mediatypes.FileTypeModel, mediatypes.FileTypeOther:
			types = append(types, t)
		default:
			return nil, fmt.Errorf("unknown file type %q (want image, video, model or other)", name)
		}
	}
	return types, nil
}

// runWatch blocks until ctx is cancelled, writing one line per event to w.
func runWatch(ctx context.Context, w io.Writer, opts watchOptions, dirs []string) error {
	startTime := time.Now()

	types, err := parseTypes(opts.types)
	if err != nil {
		return err
	}

	startup.PrintBanner()
	startup.LogSystemInfo()

	logging.SetObserver(metrics.NewLoggingObserver())
	defer logging.SetObserver(nil)
	metrics.InitializeMetrics(vision.VipsLoggerName, middleware.HTTPLoggerName)

	watchOpts := []filesystem.WatcherOption{
		filesystem.WithObserver(metrics.NewWatchObserver()),
		filesystem.WithDebounce(opts.debounce),
	}
	if len(types) > 0 {
		watchOpts = append(watchOpts, filesystem.WithTypes(types...))
	}

	watcher, err := filesystem.NewWatcher(watchOpts...)
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	var ready atomic.Bool
	var srv *http.Server
	var collector *metrics.Collector
	if opts.metricsAddr != "" {
		router := metrics.NewRouter(ready.Load)
		startup.LogHTTPRoutes(router)

		listener, err := net.Listen("tcp", opts.metricsAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.metricsAddr, err)
		}
		handler := middleware.Chain(router,
			middleware.Logger(middleware.DefaultLoggingConfig()),
			middleware.Metrics(middleware.DefaultMetricsConfig()),
		)
		srv = &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		go func() {
			if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()

		collector = metrics.NewCollector(memory.Sampler{}, opts.collectInterval)
		collector.Start()
	}

	watcher.Start(ctx)
	ready.Store(true)

	startup.LogServerStarted(startup.ServerConfig{
		MetricsAddr:     opts.metricsAddr,
		WatchedDirs:     watcher.Dirs(),
		StartupDuration: time.Since(startTime),
	})

	for ev := range watcher.Events() {
		fmt.Fprintf(w, "%s\t%s\n", ev.Type, ev.Path)
	}
	ready.Store(false)

	startup.LogShutdownStep("Stopping directory watcher")
	if err := watcher.Close(); err != nil {
		logging.Warn("Directory watcher close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Directory watcher stopped")
	}

	if collector != nil {
		collector.Stop()
	}

	if srv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
	return nil
}
