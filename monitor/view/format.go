package view

import (
	"fmt"
	"time"
)

// FormatTime renders a duration for the dashboard: "1h 2m" from one hour
// up, "4m 5s" below. Fractions of a second are dropped; negative input
// reads as zero.
func FormatTime(d time.Duration) string {
	secs := wholeSeconds(d)
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

// FormatClock renders a countdown as MM:SS. Minutes keep growing past 99.
func FormatClock(d time.Duration) string {
	secs := wholeSeconds(d)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func wholeSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
