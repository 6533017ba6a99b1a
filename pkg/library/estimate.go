package library

import "math"

// WholeHours converts an estimate duration in seconds to whole hours,
// rounding to nearest with ties going to the even hour. 7199 seconds is
// 2 hours; 1800 seconds is 0.
func WholeHours(seconds float64) int {
	return int(math.RoundToEven(seconds / 3600))
}
