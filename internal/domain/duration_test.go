package domain

import (
	"testing"
	"time"
)

func TestParseStepDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want time.Duration
	}{
		{"minutes english", "10 minutes", 10 * time.Minute},
		{"minutes vietnamese", "10 phút", 10 * time.Minute},
		{"hours and minutes vietnamese", "1 giờ 30 phút", 90 * time.Minute},
		{"hours tiếng", "2 tiếng", 2 * time.Hour},
		{"compact", "1h30m", 90 * time.Minute},
		{"seconds", "90 seconds", 90 * time.Second},
		{"seconds vietnamese", "30 giây", 30 * time.Second},
		{"all three", "1h 2m 3s", time.Hour + 2*time.Minute + 3*time.Second},
		{"embedded in sentence", "simmer for about 15 phút on low heat", 15 * time.Minute},
		{"no components", "until golden brown", 0},
		{"empty", "", 0},
		{"bare number", "90", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseStepDuration(tt.text); got != tt.want {
				t.Errorf("ParseStepDuration(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
