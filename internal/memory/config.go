package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"vision-infra/internal/logging"
)

const (
	// DefaultMemoryRatio is the share of the container limit given to the Go
	// heap. The rest is left for model runtimes, libvips and goroutine stacks.
	DefaultMemoryRatio = 0.85

	// Environment variables read by ConfigureFromEnv.
	EnvMemoryLimit = "INFERENCE_MEMORY_LIMIT"
	EnvMemoryRatio = "INFERENCE_MEMORY_RATIO"
)

// ConfigResult holds the result of memory configuration
type ConfigResult struct {
	// Configured indicates whether GOMEMLIMIT was set
	Configured bool

	// Source indicates where the configuration came from
	Source string // "GOMEMLIMIT", EnvMemoryLimit, or "none"

	// ContainerLimit is the container memory limit in bytes (0 if not set)
	ContainerLimit int64

	// GoMemLimit is the configured GOMEMLIMIT in bytes (0 if not set)
	GoMemLimit int64

	// Ratio is the memory ratio used (0 if not applicable)
	Ratio float64
}

// quantityUnits are the Kubernetes quantity suffixes accepted by ParseByteSize.
var quantityUnits = []struct {
	suffix string
	factor int64
}{
	{"Ki", 1 << 10}, {"Mi", 1 << 20}, {"Gi", 1 << 30}, {"Ti", 1 << 40},
	{"k", 1e3}, {"K", 1e3}, {"M", 1e6}, {"G", 1e9}, {"T", 1e12},
}

// ParseByteSize parses a byte count written as plain digits or with a
// Kubernetes quantity suffix, e.g. "536870912", "512Mi" or "2G".
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	factor := int64(1)
	for _, u := range quantityUnits {
		if strings.HasSuffix(s, u.suffix) {
			s, factor = strings.TrimSuffix(s, u.suffix), u.factor
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative byte size %q", s)
	}
	if n > math.MaxInt64/factor {
		return 0, fmt.Errorf("byte size %q overflows int64", s)
	}
	return n * factor, nil
}

// ConfigureFromEnv sets the Go memory limit from the container limit.
// An explicit GOMEMLIMIT always wins.
func ConfigureFromEnv() ConfigResult {
	result := ConfigResult{Source: "none"}

	if goMemLimitEnv := os.Getenv("GOMEMLIMIT"); goMemLimitEnv != "" {
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.Source = "GOMEMLIMIT"
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", goMemLimitEnv)
		return result
	}

	memLimitStr := os.Getenv(EnvMemoryLimit)
	if memLimitStr == "" {
		logging.Debug("%s not set, GOMEMLIMIT will not be configured automatically", EnvMemoryLimit)
		return result
	}

	memLimit, err := ParseByteSize(memLimitStr)
	if err != nil || memLimit <= 0 {
		logging.Warn("Failed to parse %s %q, GOMEMLIMIT not configured", EnvMemoryLimit, memLimitStr)
		return result
	}
	result.ContainerLimit = memLimit

	ratio := DefaultMemoryRatio
	if ratioStr := os.Getenv(EnvMemoryRatio); ratioStr != "" {
		parsed, err := strconv.ParseFloat(ratioStr, 64)
		switch {
		case err != nil:
			logging.Warn("Failed to parse %s %q: %v, using default %.2f", EnvMemoryRatio, ratioStr, err, DefaultMemoryRatio)
		case parsed <= 0 || parsed > 1.0:
			logging.Warn("%s %q out of range (0.0-1.0), using default %.2f", EnvMemoryRatio, ratioStr, DefaultMemoryRatio)
		default:
			ratio = parsed
		}
	}
	result.Ratio = ratio

	goMemLimit := int64(float64(memLimit) * ratio)
	debug.SetMemoryLimit(goMemLimit)

	result.Configured = true
	result.Source = EnvMemoryLimit
	result.GoMemLimit = goMemLimit

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(uint64(goMemLimit)),
		ratio*100,
		FormatBytes(uint64(memLimit)),
	)

	return result
}
