// Package main provides the vision-infra command line tool.
//
// vision-infra bundles the client-side plumbing of a computer vision
// inference pipeline: it resolves inference configurations, inspects
// source directories, turns images into model input batches and watches
// directories for new sources.
//
// # Commands
//
//   - config: merge defaults, INFERENCE_* variables, a YAML file and
//     inference flags, then print the result as a table, YAML or text
//   - inspect: list the images, videos and models in a directory
//   - preprocess: letterbox and normalize images into an NCHW float32 batch
//   - watch: report files as they land in directories, optionally serving
//     Prometheus metrics and health probes
//   - version: print build information
//
// # Logging
//
// Every command shares --log-level and --log-file. Without --log-level the
// level comes from LOG_LEVEL, and DEBUG=true forces debug output. libvips
// messages go through the "vips" logger.
//
// # Memory Management
//
// preprocess sets GOMEMLIMIT from INFERENCE_MEMORY_LIMIT before decoding,
// and a memory monitor pauses workers while heap usage is critical. Set
// INFERENCE_MEMORY_LIMIT from the container limit with the Downward API.
//
// # Graceful Shutdown
//
// watch stops on SIGINT or SIGTERM. It drains the directory watcher, stops
// the metrics collector and shuts the metrics server down before exiting.
package main
