package tui

import (
	"strings"
	"testing"
)

func TestRenderGauge(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		width      int
		wantFilled int
	}{
		{"empty", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"over 100 clamps", 150, 10, 10},
		{"negative clamps", -10, 10, 0},
		{"rounds to nearest", 55, 10, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderGauge("CPU", tt.pct, tt.width)

			filled := strings.Count(got, "█")
			empty := strings.Count(got, "░")

			if filled != tt.wantFilled {
				t.Errorf("expected %d filled cells, got %d", tt.wantFilled, filled)
			}
			if filled+empty != tt.width {
				t.Errorf("expected %d total cells, got %d", tt.width, filled+empty)
			}
			if !strings.Contains(got, "CPU") {
				t.Errorf("expected label in output: %q", got)
			}
		})
	}
}

func TestRenderSpark(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		if got := renderSpark(nil, 10); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("zero width", func(t *testing.T) {
		if got := renderSpark([]float64{50}, 0); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("extremes map to first and last runes", func(t *testing.T) {
		got := renderSpark([]float64{0, 100}, 10)
		if !strings.ContainsRune(got, '▁') {
			t.Errorf("expected lowest bar rune in %q", got)
		}
		if !strings.ContainsRune(got, '█') {
			t.Errorf("expected highest bar rune in %q", got)
		}
	})

	t.Run("keeps newest samples when history exceeds width", func(t *testing.T) {
		history := make([]float64, 20)
		for i := range history {
			history[i] = 0
		}
		history[19] = 100 // newest

		got := renderSpark(history, 5)
		if !strings.HasSuffix(stripANSI(got), "█") {
			t.Errorf("expected newest sample rightmost in %q", got)
		}
	})
}

func TestAppendSample(t *testing.T) {
	var history []float64
	for i := 0; i < maxHistory+10; i++ {
		history = appendSample(history, float64(i))
	}

	if len(history) != maxHistory {
		t.Fatalf("expected history capped at %d, got %d", maxHistory, len(history))
	}
	if history[len(history)-1] != float64(maxHistory+9) {
		t.Errorf("expected newest sample retained, got %v", history[len(history)-1])
	}
}

// stripANSI removes escape sequences so suffix checks see only runes.
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
