package output

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// yamlOutput represents the full YAML output structure.
type yamlOutput struct {
	Info     *yamlInfo     `yaml:"info,omitempty"`
	Snapshot *yamlSnapshot `yaml:"snapshot,omitempty"`
	Meta     yamlMeta      `yaml:"meta"`
}

// yamlInfo mirrors types.SystemInfo for YAML output.
type yamlInfo struct {
	CPU     types.CPUInfo        `yaml:"cpu"`
	Memory  []types.MemoryModule `yaml:"memory,omitempty"`
	Disks   []types.DiskDevice   `yaml:"disks,omitempty"`
	Board   types.BoardInfo      `yaml:"board"`
	Host    types.HostInfo       `yaml:"host"`
	GPUName string               `yaml:"gpu_name,omitempty"`
}

// yamlSnapshot mirrors types.Snapshot with durations rendered as strings.
type yamlSnapshot struct {
	Timestamp  string            `yaml:"timestamp"`
	Uptime     string            `yaml:"uptime,omitempty"`
	CPUPercent float64           `yaml:"cpu_percent"`
	CPUFreqMHz float64           `yaml:"cpu_freq_mhz,omitempty"`
	Load1      float64           `yaml:"load1,omitempty"`
	Load5      float64           `yaml:"load5,omitempty"`
	Load15     float64           `yaml:"load15,omitempty"`
	Memory     types.MemoryUsage `yaml:"memory"`
	Disks      []types.DiskUsage `yaml:"disks"`
	GPU        *types.GPUReading `yaml:"gpu,omitempty"`
}

// yamlMeta represents metadata in YAML output.
type yamlMeta struct {
	Source string `yaml:"source"`
}

// YAMLFormatter formats reports as YAML.
// It produces the same structure as JSONFormatter but in YAML format.
type YAMLFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	output := f.buildOutput(r)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

// buildOutput converts a Report to the YAML output structure.
func (f *YAMLFormatter) buildOutput(r *types.Report) yamlOutput {
	var out yamlOutput
	out.Meta = yamlMeta{Source: r.Source}

	if info := r.Info; info != nil {
		out.Info = &yamlInfo{
			CPU:     info.CPU,
			Memory:  info.Memory,
			Disks:   info.Disks,
			Board:   info.Board,
			Host:    info.Host,
			GPUName: info.GPUName,
		}
	}
	if s := r.Snapshot; s != nil {
		out.Snapshot = &yamlSnapshot{
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
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

// Ensure YAMLFormatter implements Formatter.
var _ Formatter = (*YAMLFormatter)(nil)
