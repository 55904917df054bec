package workers

import (
	"os"
	"runtime"
	"strconv"

	"vision-infra/internal/logging"
)

// EnvWorkers overrides every computed pool size when set to a positive
// integer.
const EnvWorkers = "INFERENCE_WORKERS"

// Multipliers for the helper functions.
const (
	cpuMultiplier   = 1.0
	ioMultiplier    = 2.0
	mixedMultiplier = 1.5
)

// Count returns a pool size of multiplier workers per available CPU,
// using GOMAXPROCS so container CPU limits are respected. The result is at
// least 1 and, when limit is positive, at most limit. A valid
// INFERENCE_WORKERS value replaces the computed size but is still capped
// by limit.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvWorkers); override != "" {
		count, err := strconv.Atoi(override)
		if err == nil && count > 0 {
			return capAt(count, limit)
		}
		logging.Warn("Invalid %s value %q, sizing from GOMAXPROCS", EnvWorkers, override)
	}

	workers := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if workers < 1 {
		workers = 1
	}
	return capAt(workers, limit)
}

func capAt(n, limit int) int {
	if limit > 0 && n > limit {
		return limit
	}
	return n
}

// ForCPU returns the pool size for CPU-bound work such as letterboxing and
// normalization (1 per CPU).
func ForCPU(limit int) int {
	return Count(cpuMultiplier, limit)
}

// ForIO returns the pool size for I/O-bound work such as reading frames
// from network storage (2 per CPU).
func ForIO(limit int) int {
	return Count(ioMultiplier, limit)
}

// ForMixed returns the pool size for work that decodes and then transforms
// frames (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(mixedMultiplier, limit)
}
