package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkRunes are the bar characters for sparklines, lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// gaugeStyle returns the fill style for a utilization percentage.
func gaugeStyle(pct float64) lipgloss.Style {
	switch {
	case pct >= 90:
		return gaugeDangerStyle
	case pct >= 70:
		return gaugeWarnStyle
	default:
		return gaugeOKStyle
	}
}

// renderGauge renders a labelled horizontal bar for a percentage.
// The label column is fixed-width so stacked gauges align.
func renderGauge(label string, pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	filled := int(pct/100*float64(width) + 0.5)
	if filled > width {
		filled = width
	}

	bar := gaugeStyle(pct).Render(strings.Repeat("█", filled)) +
		gaugeEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s %s %s",
		labelStyle.Render(padRight(label, 6)),
		bar,
		valueStyle.Render(padLeft(fmt.Sprintf("%.1f%%", pct), 6)))
}

// renderSpark renders a sparkline of percentage history, newest on the
// right. Values outside [0,100] are clamped.
func renderSpark(history []float64, width int) string {
	if width <= 0 || len(history) == 0 {
		return ""
	}

	// Keep the newest width samples
	if len(history) > width {
		history = history[len(history)-width:]
	}

	var b strings.Builder
	for _, v := range history {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := int(v / 100 * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}

	return sparkStyle.Render(b.String())
}
