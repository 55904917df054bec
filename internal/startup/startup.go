package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"vision-infra/internal/config"
	"vision-infra/internal/logging"
	"vision-infra/internal/memory"
	"vision-infra/internal/strutil"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildTime string `json:"buildTime" yaml:"buildTime"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String formats the build information on one line.
func (b BuildInfo) String() string {
	return fmt.Sprintf("vision-infra %s (commit %s, built %s, %s %s/%s)",
		b.Version, b.Commit, b.BuildTime, b.GoVersion, b.OS, b.Arch)
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// ConfigureLogging applies the log level and log file of cfg to the logger
// registry. Verbose lowers the level to DEBUG when it is higher. A log file
// that cannot be opened is reported and console output continues.
func ConfigureLogging(cfg *config.InferenceConfig) {
	level := logging.ParseLevel(cfg.LogLevel)
	if cfg.Verbose && level > logging.LevelDebug {
		level = logging.LevelDebug
	}
	logging.SetGlobalLevel(level)

	if cfg.LogFile == "" {
		return
	}
	if !logging.DefaultManager().SetOutputFile(cfg.LogFile) {
		logging.Warn("Cannot open log file %s, logging to console only", cfg.LogFile)
	}
}

// LogConfig logs the effective inference configuration at debug level.
func LogConfig(cfg *config.InferenceConfig) {
	if !logging.IsDebugEnabled() {
		return
	}

	rows := [][2]string{
		{"Server", fmt.Sprintf("%s:%d (%s)", cfg.ServerAddress, cfg.Port, cfg.Protocol)},
		{"Model", fmt.Sprintf("%s (%s)", cfg.ModelName, cfg.ModelType)},
		{"Model version", cfg.ModelVersion},
		{"Input sizes", strutil.FormatInputSizes(cfg.InputSizes)},
		{"Source", cfg.Source},
		{"Batch size", strconv.Itoa(cfg.BatchSize)},
		{"Threads", strconv.Itoa(cfg.NumThreads)},
		{"Thresholds", fmt.Sprintf("confidence %v, nms %v", cfg.ConfidenceThreshold, cfg.NMSThreshold)},
		{"Shared memory", cfg.SharedMemoryType},
		{"Log file", cfg.LogFile},
		{"Multimodal", enabledString(cfg.EnableMultimodal)},
	}

	logging.Debug("Resolved configuration:")
	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		logging.Debug("  %-20s %s", row[0]+":", row[1])
	}
}

// LogMemoryConfig logs how the Go memory limit was configured.
func LogMemoryConfig(result memory.ConfigResult) {
	section("MEMORY CONFIGURATION")

	if !result.Configured {
		logging.Info("  Memory limit: not configured (set %s or GOMEMLIMIT)", memory.EnvMemoryLimit)
		logging.Info("")
		return
	}

	logging.Info("  Source:          %s", result.Source)
	if result.ContainerLimit > 0 {
		logging.Info("  Container limit: %s", memory.FormatBytes(uint64(result.ContainerLimit)))
		logging.Info("  Ratio:           %.0f%%", result.Ratio*100)
	}
	logging.Info("  GOMEMLIMIT:      %s", memory.FormatBytes(uint64(result.GoMemLimit)))
	logging.Info("")
}

// LogVipsInit logs whether libvips is used for decoding.
func LogVipsInit(available bool) {
	if available {
		logging.Info("  [OK] libvips initialized, using it for frame decoding")
		return
	}
	logging.Info("  libvips not available, decoding frames with the Go image decoders")
}

const rule = "------------------------------------------------------------"

// section logs a ruled heading. Arguments are formatted like logging.Info.
func section(title string, args ...any) {
	logging.Info(rule)
	logging.Info(title, args...)
	logging.Info(rule)
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// GetRoutes lists the routes of router in registration order. A route
// without a method matcher is reported once with method "*".
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return err
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		for _, method := range methods {
			routes = append(routes, RouteInfo{Method: method, Path: path, Name: route.GetName()})
		}
		return nil
	})
	return routes, err
}

// LogHTTPRoutes logs the routes of router at debug level, grouped by their
// first path segment.
func LogHTTPRoutes(router *mux.Router) {
	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	logging.Debug("  Registered routes (%d total):", len(routes))

	sort.SliceStable(routes, func(i, j int) bool {
		return getRouteGroup(routes[i].Path) < getRouteGroup(routes[j].Path)
	})

	group := "\x00"
	for _, route := range routes {
		if g := getRouteGroup(route.Path); g != group {
			group = g
			name := group
			if name == "" {
				name = "root"
			}
			logging.Debug("  [%s]", name)
		}
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// getRouteGroup returns the first segment of a route path.
func getRouteGroup(path string) string {
	group, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return group
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	MetricsAddr     string
	WatchedDirs     []string
	StartupDuration time.Duration
}

// LogServerStarted logs the watched directories and the metrics endpoints.
func LogServerStarted(cfg ServerConfig) {
	logging.Info("")
	section("WATCHER STARTED")
	logging.Info("  Startup time:    %v", cfg.StartupDuration)
	for _, dir := range cfg.WatchedDirs {
		logging.Info("  Watching:        %s", dir)
	}
	if cfg.MetricsAddr != "" {
		logging.Info("  Metrics:         http://%s/metrics", displayAddr(cfg.MetricsAddr))
		logging.Info("  Health:          http://%s/healthz", displayAddr(cfg.MetricsAddr))
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop")
	logging.Info("------------------------------------------------------------")
}

// displayAddr turns a listen address such as ":9090" into one a browser
// can open.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	section("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion and flushes every logger.
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
	logging.DefaultManager().FlushAll()
}

// PrintBanner prints the application banner and build information.
func PrintBanner() {
	banner := `
------------------------------------------------------------
         _      _                   _       ____
  __   _(_)___ (_) ___  _ __       (_)_ __ / _|_ __ __ _
  \ \ / / / __|| |/ _ \| '_ \ _____| | '_ \ |_| '__/ _' |
   \ V /| \__ \| | (_) | | | |_____| | | | |  _| | | (_| |
    \_/ |_|___/|_|\___/|_| |_|     |_|_| |_|_| |_|  \__,_|

------------------------------------------------------------`
	logging.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

// LogSystemInfo logs the runtime environment.
func LogSystemInfo() {
	section("SYSTEM INFORMATION")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if used := memory.SystemMemoryUsage(); used > 0 {
		logging.Info("  System memory:   %s in use", memory.FormatBytes(used))
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// EnsureDirectory creates path if needed and checks that it is writable.
func EnsureDirectory(path string) error {
	logging.Debug("  Checking output directory: %s", path)

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
	case err != nil:
		return fmt.Errorf("failed to stat directory: %w", err)
	case !info.IsDir():
		return fmt.Errorf("path exists but is not a directory: %s", path)
	}

	if err := testWriteAccess(path); err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}
