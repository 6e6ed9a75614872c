// Package timeutil provides time formatting utilities for CLI output.
package timeutil

import (
	"fmt"
	"time"
)

// FormatDuration renders d for humans: "3d 0h 30m 15s", "2m 5s", or
// "850ms" below one second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// ETA estimates the time left for a run that has finished done of total
// units in elapsed. It returns zero until there is progress to extrapolate.
func ETA(done, total uint64, elapsed time.Duration) time.Duration {
	if done == 0 || done >= total {
		return 0
	}
	perUnit := float64(elapsed) / float64(done)
	return time.Duration(perUnit * float64(total-done))
}
