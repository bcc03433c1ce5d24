package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// PlainFormatter formats reports as simple tab-separated key/value rows.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *types.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if r.Info != nil {
		f.writeInfo(tw, r.Info)
	}
	if r.Snapshot != nil {
		f.writeSnapshot(tw, r.Snapshot)
	}

	return tw.Flush()
}

func (f *PlainFormatter) writeInfo(tw *tabwriter.Writer, info *types.SystemInfo) {
	row := func(key, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}

	if info.Host.Hostname != "" {
		row("hostname", info.Host.Hostname)
		row("os", fmt.Sprintf("%s %s (%s)", info.Host.Platform, info.Host.Version, info.Host.Arch))
		if info.Host.Kernel != "" {
			row("kernel", info.Host.Kernel)
		}
	}
	if info.CPU.Model != "" {
		row("cpu", fmt.Sprintf("%s %dC/%dT",
			info.CPU.Model, info.CPU.PhysicalCores, info.CPU.LogicalCores))
	}
	if info.Board.Product != "" {
		row("board", info.Board.Vendor+" "+info.Board.Product)
	}
	if info.Board.Chipset != "" {
		row("chipset", info.Board.Chipset)
	}
	if info.Board.BIOSVersion != "" {
		row("bios", info.Board.BIOSVersion)
	}
	for _, mod := range info.Memory {
		key := "ram"
		if mod.Slot != "" {
			key = "ram:" + mod.Slot
		}
		row(key, fmt.Sprintf("%s %s %d MT/s %s",
			humanize.IBytes(mod.SizeBytes), mod.Generation, mod.SpeedMTs, mod.PartNumber))
	}
	for _, d := range info.Disks {
		row("disk:"+d.Name, fmt.Sprintf("%s %s %s", humanize.IBytes(d.Size), d.MediaType, d.Model))
	}
	if info.GPUName != "" {
		row("gpu", info.GPUName)
	}
}

func (f *PlainFormatter) writeSnapshot(tw *tabwriter.Writer, s *types.Snapshot) {
	row := func(key, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}

	if s.Uptime > 0 {
		row("uptime", types.FormatUptime(s.Uptime))
	}
	row("cpu_percent", fmt.Sprintf("%.1f", s.CPUPercent))
	if s.Load1 > 0 || s.Load5 > 0 || s.Load15 > 0 {
		row("load", fmt.Sprintf("%.2f %.2f %.2f", s.Load1, s.Load5, s.Load15))
	}
	row("mem_used", fmt.Sprintf("%d", s.Memory.Used))
	row("mem_total", fmt.Sprintf("%d", s.Memory.Total))
	row("mem_percent", fmt.Sprintf("%.1f", s.Memory.Percent))
	if s.Memory.SwapTotal > 0 {
		row("swap_used", fmt.Sprintf("%d", s.Memory.SwapUsed))
		row("swap_total", fmt.Sprintf("%d", s.Memory.SwapTotal))
	}
	for _, d := range s.Disks {
		row("disk:"+d.Mountpoint, fmt.Sprintf("%d %d %.1f", d.Used, d.Total, d.Percent))
	}
	if s.GPU != nil {
		row("gpu_percent", fmt.Sprintf("%.1f", s.GPU.UtilPercent))
		row("gpu_mem", fmt.Sprintf("%d %d", s.GPU.MemoryUsed, s.GPU.MemoryTotal))
		row("gpu_temp", fmt.Sprintf("%.0f", s.GPU.TemperatureC))
	}
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
