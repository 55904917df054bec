/*
Package workers sizes worker pools for frame preprocessing in containerized
environments.

runtime.NumCPU reports the host's CPUs, while GOMAXPROCS follows the
container's CPU limit. On a 2-core pod scheduled on a 64-core node, sizing
from NumCPU would start 64 preprocessing goroutines that spend most of
their time throttled. Every helper here sizes from GOMAXPROCS instead:

	// Bounded CPU-bound pool for letterbox + normalize.
	g.SetLimit(workers.ForCPU(opts.Workers))

# Task Types

  - [ForCPU]: 1 worker per CPU, for image transforms
  - [ForIO]: 2 workers per CPU, for reads from slow storage
  - [ForMixed]: 1.5 workers per CPU, for decode plus transform

# Overrides

Set INFERENCE_WORKERS to a positive integer to force a pool size. The limit
passed to each helper still caps it. Invalid values are logged and ignored.
*/
package workers
