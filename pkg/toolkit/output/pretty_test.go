package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

func TestPrettyFormatter_Format(t *testing.T) {
	f := &PrettyFormatter{}
	var buf bytes.Buffer

	err := f.Format(&buf, sampleReport())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "workstation")
	assert.Contains(t, out, "AMD Ryzen 7 7700X")
	assert.Contains(t, out, "AMD B650")
	assert.Contains(t, out, "DDR5")
	assert.Contains(t, out, "NVMe SSD")
	assert.Contains(t, out, "NVIDIA GeForce RTX 4080")
	assert.Contains(t, out, "1d 5h 36m")
}

func TestPrettyFormatter_SnapshotOnly(t *testing.T) {
	f := &PrettyFormatter{}
	report := sampleReport()
	report.Info = nil

	var buf bytes.Buffer
	err := f.Format(&buf, report)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "local system")
	assert.Contains(t, out, "42.5%")
	assert.NotContains(t, out, "Hardware")
}

func TestFormatSource(t *testing.T) {
	f := &PrettyFormatter{}

	assert.Contains(t, f.formatSource("daemon"), "daemon")
	assert.Contains(t, f.formatSource("local"), "local probe")
	assert.Contains(t, f.formatSource(""), "unknown")
}

func TestRenderGauge(t *testing.T) {
	tests := []struct {
		name   string
		pct    float64
		filled int
	}{
		{"empty", 0, 0},
		{"half", 50, 10},
		{"full", 100, 20},
		{"clamped high", 150, 20},
		{"clamped low", -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := renderGauge(tt.pct, 20)
			assert.Equal(t, tt.filled, strings.Count(bar, "█"))
			assert.Equal(t, 20-tt.filled, strings.Count(bar, "░"))
		})
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "abc   ", padRight("abc", 6))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestHostLine(t *testing.T) {
	f := &PrettyFormatter{}

	assert.Equal(t, "local system", f.hostLine(&types.Report{}))

	r := sampleReport()
	assert.Equal(t, "workstation (arch amd64)", f.hostLine(r))

	r.Info.Host.Platform = ""
	assert.Equal(t, "workstation (linux amd64)", f.hostLine(r))
}
