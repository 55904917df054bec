// Package logging provides leveled, pattern-formatted loggers and a
// process-wide registry of named loggers.
//
// It supports the following log levels, in increasing severity:
//   - TRACE: Very fine-grained diagnostic output
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors
//
// Every [Logger] writes lines formatted from a pattern such as
// "[{timestamp}] [{level}] [{name}] {message}". Messages at ERROR and above
// go to stderr, everything else to stdout, and each line is also appended
// to the logger's output file when one is set.
//
// Loggers are normally obtained from a [Manager]:
//
//	log := logging.GetLogger("preprocess")
//	log.SetOutputFile("/var/log/vision/preprocess.log")
//	log.Infof("letterboxed %d frames", n)
//
// The package-level helpers (Debug, Info, Warn, Error, Fatal) write to the
// default logger of the default manager. Its initial level is read from the
// DEBUG and LOG_LEVEL environment variables.
package logging
