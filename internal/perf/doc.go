/*
Package perf measures elapsed time and frame throughput.

Timer is a start/stop stopwatch. FPSCounter keeps the timestamps of the
most recent frames in a fixed-size ring and reports the rate across the
retained window:

	fps := perf.NewFPSCounter(30)
	for frame := range frames {
		process(frame)
		fps.Update()
	}
	logging.Info("%.1f fps", fps.CurrentFPS())

Neither type is safe for concurrent use.
*/
package perf
