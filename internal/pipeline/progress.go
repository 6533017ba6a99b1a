package pipeline

// ProgressStep returns the reporting cadence for a batch of n items: every
// item for small batches, every 10th past a hundred, every 100th past a
// thousand, and so on. Keeps progress readable at both ends of the scale.
func ProgressStep(n int) int {
	step := 1
	for ; n >= 100; n /= 10 {
		step *= 10
	}
	return step
}
