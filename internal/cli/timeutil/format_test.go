package timeutil

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{850 * time.Millisecond, "850ms"},
		{0, "0s"},
		{15 * time.Second, "15s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{time.Hour + 30*time.Second, "1h 0m 30s"},
		{72*time.Hour + 30*time.Minute + 15*time.Second, "3d 0h 30m 15s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestETA(t *testing.T) {
	tests := []struct {
		name        string
		done, total uint64
		elapsed     time.Duration
		want        time.Duration
	}{
		{"NoProgress", 0, 100, time.Minute, 0},
		{"Half", 50, 100, time.Minute, time.Minute},
		{"Quarter", 25, 100, time.Minute, 3 * time.Minute},
		{"Done", 100, 100, time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ETA(tt.done, tt.total, tt.elapsed); got != tt.want {
				t.Errorf("ETA() = %v, want %v", got, tt.want)
			}
		})
	}
}
