package scheduling

import "math"

// Progress is completed/total as a percentage rounded to two decimals.
// An empty program has made no progress.
func Progress(completed, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(completed) / float64(total) * 100
	return math.Round(pct*100) / 100
}
