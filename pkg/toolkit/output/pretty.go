package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// PrettyFormatter formats reports with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	header := f.formatHeader(r)
	w.WriteString(header)
	w.WriteString("\n")

	if r.Info != nil {
		w.WriteString(f.formatInfo(r.Info))
	}

	if r.Snapshot != nil {
		if r.Info != nil {
			w.WriteString("\n")
		}
		w.WriteString(f.formatSnapshot(r.Snapshot))
	}

	return nil
}

// formatHeader builds the header box with host identity and data source.
func (f *PrettyFormatter) formatHeader(r *types.Report) string {
	var lines []string

	hostLabel := LabelStyle.Render("Host:")
	hostValue := ValueStyle.Render(f.hostLine(r))
	lines = append(lines, fmt.Sprintf("%s %s", hostLabel, hostValue))

	var infoParts []string
	if r.Snapshot != nil && r.Snapshot.Uptime > 0 {
		uptimeLabel := LabelStyle.Render("Uptime:")
		uptimeValue := ValueStyle.Render(types.FormatUptime(r.Snapshot.Uptime))
		infoParts = append(infoParts, fmt.Sprintf("%s %s", uptimeLabel, uptimeValue))
	}
	infoParts = append(infoParts, f.formatSource(r.Source))
	lines = append(lines, strings.Join(infoParts, "  "))

	content := strings.Join(lines, "\n")
	return HeaderBox.Render(content)
}

// hostLine returns "hostname (os arch)" when host info is available,
// or a placeholder otherwise.
func (f *PrettyFormatter) hostLine(r *types.Report) string {
	if r.Info == nil {
		return "local system"
	}
	h := r.Info.Host
	if h.Hostname == "" {
		return "local system"
	}
	if h.Platform != "" {
		return fmt.Sprintf("%s (%s %s)", h.Hostname, h.Platform, h.Arch)
	}
	return fmt.Sprintf("%s (%s %s)", h.Hostname, h.OS, h.Arch)
}

// formatSource returns a styled string indicating where the data came from.
func (f *PrettyFormatter) formatSource(source string) string {
	switch source {
	case "daemon":
		return SuccessStyle.Render("source: daemon")
	case "local":
		return LabelStyle.Render("source: ") + ValueStyle.Render("local probe")
	default:
		return MutedStyle.Render("source: unknown")
	}
}

// formatInfo builds the static hardware inventory section.
func (f *PrettyFormatter) formatInfo(info *types.SystemInfo) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Hardware"))
	sb.WriteString("\n")

	if info.CPU.Model != "" {
		cores := fmt.Sprintf("%dC/%dT", info.CPU.PhysicalCores, info.CPU.LogicalCores)
		line := info.CPU.Model
		if info.CPU.MaxFreqMHz > 0 {
			line = fmt.Sprintf("%s @ %.0f MHz", line, info.CPU.MaxFreqMHz)
		}
		f.writeField(&sb, "CPU", fmt.Sprintf("%s (%s)", line, cores))
	}

	if info.Board.Product != "" {
		board := info.Board.Product
		if info.Board.Vendor != "" {
			board = info.Board.Vendor + " " + board
		}
		f.writeField(&sb, "Board", board)
	}
	if info.Board.Chipset != "" {
		f.writeField(&sb, "Chipset", info.Board.Chipset)
	}
	if info.Board.BIOSVersion != "" {
		bios := info.Board.BIOSVersion
		if info.Board.BIOSDate != "" {
			bios += " (" + info.Board.BIOSDate + ")"
		}
		f.writeField(&sb, "BIOS", bios)
	}

	for _, mod := range info.Memory {
		value := fmt.Sprintf("%s %s", humanize.IBytes(mod.SizeBytes), mod.Generation)
		if mod.SpeedMTs > 0 {
			value = fmt.Sprintf("%s @ %d MT/s", value, mod.SpeedMTs)
		}
		if mod.PartNumber != "" {
			value += MutedStyle.Render("  " + mod.PartNumber)
		}
		label := "RAM"
		if mod.Slot != "" {
			label = mod.Slot
		}
		f.writeField(&sb, label, value)
	}

	for _, d := range info.Disks {
		value := fmt.Sprintf("%s %s", humanize.IBytes(d.Size), d.MediaType)
		if d.Model != "" {
			value += MutedStyle.Render("  " + d.Model)
		}
		f.writeField(&sb, d.Name, value)
	}

	if info.GPUName != "" {
		f.writeField(&sb, "GPU", info.GPUName)
	}

	return sb.String()
}

// formatSnapshot builds the live utilization section.
func (f *PrettyFormatter) formatSnapshot(s *types.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Usage"))
	sb.WriteString("\n")

	cpu := percentStyle(s.CPUPercent).Render(fmt.Sprintf("%5.1f%%", s.CPUPercent))
	cpuLine := cpu + "  " + renderGauge(s.CPUPercent, gaugeWidth)
	if s.CPUFreqMHz > 0 {
		cpuLine += MutedStyle.Render(fmt.Sprintf("  %.0f MHz", s.CPUFreqMHz))
	}
	f.writeField(&sb, "CPU", cpuLine)

	if s.Load1 > 0 || s.Load5 > 0 || s.Load15 > 0 {
		f.writeField(&sb, "Load",
			ValueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", s.Load1, s.Load5, s.Load15)))
	}

	mem := percentStyle(s.Memory.Percent).Render(fmt.Sprintf("%5.1f%%", s.Memory.Percent))
	memLine := fmt.Sprintf("%s  %s  %s / %s",
		mem,
		renderGauge(s.Memory.Percent, gaugeWidth),
		humanize.IBytes(s.Memory.Used),
		humanize.IBytes(s.Memory.Total))
	f.writeField(&sb, "Memory", memLine)

	if s.Memory.SwapTotal > 0 {
		swapPct := float64(s.Memory.SwapUsed) / float64(s.Memory.SwapTotal) * 100
		swapLine := fmt.Sprintf("%s  %s / %s",
			percentStyle(swapPct).Render(fmt.Sprintf("%5.1f%%", swapPct)),
			humanize.IBytes(s.Memory.SwapUsed),
			humanize.IBytes(s.Memory.SwapTotal))
		f.writeField(&sb, "Swap", swapLine)
	}

	for _, d := range s.Disks {
		line := fmt.Sprintf("%s  %s free of %s",
			percentStyle(d.Percent).Render(fmt.Sprintf("%5.1f%%", d.Percent)),
			humanize.IBytes(d.Free),
			humanize.IBytes(d.Total))
		f.writeField(&sb, d.Mountpoint, line)
	}

	if s.GPU != nil {
		gpuLine := fmt.Sprintf("%s  %s / %s  %s",
			percentStyle(s.GPU.UtilPercent).Render(fmt.Sprintf("%5.1f%%", s.GPU.UtilPercent)),
			humanize.IBytes(s.GPU.MemoryUsed),
			humanize.IBytes(s.GPU.MemoryTotal),
			MutedStyle.Render(fmt.Sprintf("%.0f°C", s.GPU.TemperatureC)))
		f.writeField(&sb, "GPU", gpuLine)
	}

	return sb.String()
}

// writeField writes one aligned "label value" row.
func (f *PrettyFormatter) writeField(sb *strings.Builder, label, value string) {
	sb.WriteString(fmt.Sprintf("  %s  %s\n", LabelStyle.Render(padRight(label, labelWidth)), value))
}

const (
	labelWidth = 10
	gaugeWidth = 20
)

// renderGauge draws a fixed-width utilization bar for a percentage.
func renderGauge(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct/100*float64(width) + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return percentStyle(pct).Render(bar)
}

// padRight pads a string with spaces on the right to the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)

// For IDE auto-complete, verify lipgloss is accessible.
var _ = lipgloss.NewStyle()
