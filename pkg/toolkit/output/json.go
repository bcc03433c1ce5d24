package output

import (
	"bytes"
	"encoding/json"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Info     *types.SystemInfo `json:"info,omitempty"`
	Snapshot *jsonSnapshot     `json:"snapshot,omitempty"`
	Meta     jsonMeta          `json:"meta"`
}

// jsonSnapshot mirrors types.Snapshot with durations rendered as strings.
type jsonSnapshot struct {
	Timestamp  string             `json:"timestamp"`
	Uptime     string             `json:"uptime,omitempty"`
	CPUPercent float64            `json:"cpu_percent"`
	CPUFreqMHz float64            `json:"cpu_freq_mhz,omitempty"`
	Load1      float64            `json:"load1,omitempty"`
	Load5      float64            `json:"load5,omitempty"`
	Load15     float64            `json:"load15,omitempty"`
	Memory     types.MemoryUsage  `json:"memory"`
	Disks      []types.DiskUsage  `json:"disks"`
	GPU        *types.GPUReading  `json:"gpu,omitempty"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Source string `json:"source"`
}

// JSONFormatter formats reports as a single indented JSON object.
// It produces a complete JSON document with info, snapshot, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts a Report to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *types.Report) jsonOutput {
	out := jsonOutput{
		Info: r.Info,
		Meta: jsonMeta{Source: r.Source},
	}
	if s := r.Snapshot; s != nil {
		out.Snapshot = &jsonSnapshot{
			Timestamp:  s.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			Uptime:     types.FormatUptime(s.Uptime),
			CPUPercent: s.CPUPercent,
			CPUFreqMHz: s.CPUFreqMHz,
			Load1:      s.Load1,
			Load5:      s.Load5,
			Load15:     s.Load15,
			Memory:     s.Memory,
			Disks:      s.Disks,
			GPU:        s.GPU,
		}
	}
	return out
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
