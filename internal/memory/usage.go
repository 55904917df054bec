package memory

import (
	"bufio"
	"os"
	"runtime"
	"strconv"
	"strings"

	"vision-infra/internal/logging"
	"vision-infra/internal/metrics"
)

// meminfoPath is replaced in tests.
var meminfoPath = "/proc/meminfo"

// ProcessMemoryUsage returns the bytes the Go runtime has obtained from the
// OS. Memory allocated by cgo libraries such as libvips is not included.
func ProcessMemoryUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Sys
}

// SystemMemoryUsage returns MemTotal minus MemAvailable from /proc/meminfo,
// or 0 if the file is missing or malformed.
func SystemMemoryUsage() uint64 {
	f, err := os.Open(meminfoPath)
	if err != nil {
		return 0
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close %s: %v", meminfoPath, err)
		}
	}()

	var total, available uint64
	var haveTotal, haveAvailable bool

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total, haveTotal = parseKB(fields)
		case "MemAvailable:":
			available, haveAvailable = parseKB(fields)
		}
	}
	if err := scanner.Err(); err != nil {
		logging.Debug("failed to read %s: %v", meminfoPath, err)
		return 0
	}

	if !haveTotal || !haveAvailable || available > total {
		return 0
	}
	return total - available
}

// parseKB parses a meminfo value such as ["MemTotal:", "16314004", "kB"].
func parseKB(fields []string) (uint64, bool) {
	v, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0, false
	}
	if len(fields) > 2 && fields[2] == "kB" {
		v *= 1024
	}
	return v, true
}

// Sampler reports process and system memory to a metrics.Collector.
type Sampler struct{}

var _ metrics.StatsProvider = Sampler{}

// GetStats implements metrics.StatsProvider.
func (Sampler) GetStats() metrics.Stats {
	return metrics.Stats{
		ProcessMemoryBytes:    ProcessMemoryUsage(),
		SystemMemoryUsedBytes: SystemMemoryUsage(),
	}
}
