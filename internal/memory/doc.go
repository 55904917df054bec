// Package memory sizes images and tensors and controls the Go runtime's
// memory use in containerized inference workers.
//
// # Sizing
//
// [ImageMemorySize] and [TensorMemorySize] report the bytes held by a
// decoded frame or a tensor of a given shape, and [FormatBytes] renders a
// byte count with binary units:
//
//	memory.FormatBytes(memory.TensorMemorySize([]int64{1, 3, 640, 640}, 4))
//	// "4.69 MB"
//
// [ProcessMemoryUsage] reports the memory the Go runtime obtained from the
// OS. [SystemMemoryUsage] reads used memory from /proc/meminfo and returns 0
// on platforms without it. [Sampler] exposes both to the metrics collector.
//
// # Configuration
//
// Call [ConfigureFromEnv] early in main, before large allocations:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ...
//	}
//
// The following environment variables control it:
//
//   - GOMEMLIMIT: Standard Go environment variable. If set, it takes
//     precedence over everything else.
//
//   - INFERENCE_MEMORY_LIMIT: Container memory limit, typically set through
//     the Kubernetes Downward API. Plain bytes and quantity suffixes such as
//     "512Mi" or "2G" are accepted, see [ParseByteSize].
//
//   - INFERENCE_MEMORY_RATIO: Share of INFERENCE_MEMORY_LIMIT given to the Go
//     heap, between 0.0 and 1.0. Default is 0.85. Lower it when model
//     runtimes or libvips allocate significant memory outside the heap.
//
// Example Kubernetes container spec:
//
//	env:
//	  - name: INFERENCE_MEMORY_LIMIT
//	    valueFrom:
//	      resourceFieldRef:
//	        resource: limits.memory
//	  - name: INFERENCE_MEMORY_RATIO
//	    value: "0.75"
//
// # Backpressure
//
// A [Monitor] samples heap allocation against the limit. Above the critical
// watermark it pauses callers of [Monitor.WaitIfPaused] and triggers a
// garbage collection; below the high watermark it releases them. Batch
// preprocessing waits on the monitor before decoding each frame.
package memory
