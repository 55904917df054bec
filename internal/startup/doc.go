// Package startup handles application initialization and startup/shutdown
// logging for the vision-infra commands.
//
// # Logging Configuration
//
// [ConfigureLogging] applies the LogLevel, Verbose and LogFile settings of
// a [config.InferenceConfig] to the process-wide logger registry. An
// unknown level falls back to INFO; a log file that cannot be opened is
// reported and console output continues.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides logging functions for consistent output:
//   - [PrintBanner]: Banner and build information
//   - [LogSystemInfo]: Go runtime, CPU and memory information
//   - [LogConfig]: Effective inference configuration (debug level)
//   - [LogMemoryConfig]: Memory limit configuration
//   - [LogVipsInit]: Image decoder selection
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Watched directories and metrics endpoints
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	startup.ConfigureLogging(cfg)
//	startup.PrintBanner()
//	startup.LogSystemInfo()
//	startup.LogMemoryConfig(memory.ConfigureFromEnv())
//	startup.LogConfig(cfg)
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
