package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jamesainslie/tonic/pkg/toolkit/logging"
	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// maxHistory bounds the sparkline sample buffers.
const maxHistory = 120

// maxDiskRows bounds how many mounts the dashboard shows.
const maxDiskRows = 4

// Options configures the dashboard.
type Options struct {
	// Snapshots is the live snapshot stream. The dashboard exits its
	// live state when the channel closes.
	Snapshots <-chan *types.Snapshot

	// Info is the static inventory for the header, may be nil.
	Info *types.SystemInfo

	// Source names where snapshots come from: "daemon" or "local".
	Source string

	// Cancel stops the snapshot producer on quit.
	Cancel func()
}

// SnapshotMsg delivers a new snapshot to the dashboard.
type SnapshotMsg *types.Snapshot

// StreamClosedMsg signals that the snapshot stream ended.
type StreamClosedMsg struct{}

// logEntryMsg delivers a log entry for the log panel.
type logEntryMsg logging.LogEntry

// Model is the Bubble Tea model for the live dashboard.
type Model struct {
	options Options

	snapshot   *types.Snapshot
	cpuHistory []float64
	memHistory []float64

	logs         *LogPanelState
	streamClosed bool
	spinner      spinner.Model

	width  int
	height int
}

// NewModel creates a dashboard model.
func NewModel(opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	logs := NewLogPanelState()
	logs.Subscription = logging.Subscribe()

	return Model{
		options: opts,
		logs:    logs,
		spinner: s,
		width:   80,
		height:  24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.waitForSnapshot(),
		m.waitForLog(),
	)
}

// waitForSnapshot returns a command that blocks on the snapshot stream.
func (m Model) waitForSnapshot() tea.Cmd {
	snapshots := m.options.Snapshots
	return func() tea.Msg {
		snap, ok := <-snapshots
		if !ok {
			return StreamClosedMsg{}
		}
		return SnapshotMsg(snap)
	}
}

// waitForLog returns a command that blocks on the log subscription.
func (m Model) waitForLog() tea.Cmd {
	sub := m.logs.Subscription
	return func() tea.Msg {
		entry, ok := <-sub
		if !ok {
			return nil
		}
		return logEntryMsg(entry)
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		m.snapshot = msg
		m.cpuHistory = appendSample(m.cpuHistory, m.snapshot.CPUPercent)
		m.memHistory = appendSample(m.memHistory, m.snapshot.Memory.Percent)
		return m, m.waitForSnapshot()

	case StreamClosedMsg:
		m.streamClosed = true
		return m, nil

	case logEntryMsg:
		m.logs.AddEntry(logging.LogEntry(msg))
		return m, m.waitForLog()

	case spinner.TickMsg:
		if m.snapshot == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "esc", "ctrl+c":
		if m.options.Cancel != nil {
			m.options.Cancel()
		}
		return m, tea.Quit

	case "l":
		m.logs.Toggle()

	case "1":
		m.logs.SetFilterLevel(logging.LevelDebug)
	case "2":
		m.logs.SetFilterLevel(logging.LevelInfo)
	case "3":
		m.logs.SetFilterLevel(logging.LevelWarn)
	case "4":
		m.logs.SetFilterLevel(logging.LevelError)

	case "up", "k":
		if m.logs.Open {
			m.logs.ScrollUp()
		}
	case "down", "j":
		if m.logs.Open {
			m.logs.ScrollDown(m.logPanelHeight() - 2)
		}
	}

	return m, nil
}

// appendSample appends a value to a bounded history buffer.
func appendSample(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	return history
}

// logPanelHeight is the height reserved for the log pane when open.
func (m Model) logPanelHeight() int {
	h := m.height / 3
	if h < 5 {
		h = 5
	}
	return h
}

// View renders the dashboard.
func (m Model) View() string {
	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var b strings.Builder

	var uptime time.Duration
	if m.snapshot != nil {
		uptime = m.snapshot.Uptime
	}
	b.WriteString(renderAppHeader(m.options.Info, uptime, m.options.Source, !m.streamClosed))
	b.WriteString("\n")
	b.WriteString(renderDivider(contentWidth))
	b.WriteString("\n\n")

	if m.snapshot == nil {
		b.WriteString(fmt.Sprintf("  %s Waiting for first sample...", m.spinner.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderMetrics(contentWidth))
	}

	if m.streamClosed {
		b.WriteString("\n")
		b.WriteString(errorTextStyle.Render("  Snapshot stream ended. Press q to exit."))
		b.WriteString("\n")
	}

	if m.logs.Open {
		b.WriteString("\n")
		b.WriteString(renderLogPanel(
			m.logs.Buffer.Entries(),
			m.logs.FilterLevel,
			m.logs.ScrollOffset,
			contentWidth,
			m.logPanelHeight(),
		))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return outerBoxStyle.Width(m.width - 2).Render(b.String())
}

// renderMetrics renders the gauge block for the current snapshot.
func (m Model) renderMetrics(width int) string {
	snap := m.snapshot
	gaugeWidth := width - 20
	if gaugeWidth < 10 {
		gaugeWidth = 10
	}
	if gaugeWidth > 50 {
		gaugeWidth = 50
	}

	var b strings.Builder

	// CPU
	b.WriteString("  " + renderGauge("CPU", snap.CPUPercent, gaugeWidth))
	if snap.CPUFreqMHz > 0 {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %.0f MHz", snap.CPUFreqMHz)))
	}
	b.WriteString("\n")

	if spark := renderSpark(m.cpuHistory, gaugeWidth); spark != "" {
		b.WriteString("         " + spark)
		b.WriteString("\n")
	}

	if snap.Load1 > 0 || snap.Load5 > 0 {
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  load %.2f %.2f %.2f", snap.Load1, snap.Load5, snap.Load15)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Memory
	b.WriteString("  " + renderGauge("RAM", snap.Memory.Percent, gaugeWidth))
	b.WriteString(sizeStyle.Render(fmt.Sprintf("  %s / %s",
		types.FormatSizeU(snap.Memory.Used), types.FormatSizeU(snap.Memory.Total))))
	b.WriteString("\n")

	if snap.Memory.SwapTotal > 0 {
		swapPct := float64(snap.Memory.SwapUsed) / float64(snap.Memory.SwapTotal) * 100
		b.WriteString("  " + renderGauge("Swap", swapPct, gaugeWidth))
		b.WriteString(sizeStyle.Render(fmt.Sprintf("  %s / %s",
			types.FormatSizeU(snap.Memory.SwapUsed), types.FormatSizeU(snap.Memory.SwapTotal))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Disks
	for i, d := range snap.Disks {
		if i >= maxDiskRows {
			b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  ... and %d more mounts", len(snap.Disks)-maxDiskRows)))
			b.WriteString("\n")
			break
		}
		label := truncate(d.Mountpoint, 6)
		b.WriteString("  " + renderGauge(label, d.Percent, gaugeWidth))
		b.WriteString(sizeStyle.Render(fmt.Sprintf("  %s free", types.FormatSizeU(d.Free))))
		b.WriteString("\n")
	}

	// GPU
	if snap.GPU != nil {
		b.WriteString("\n")
		b.WriteString("  " + renderGauge("GPU", snap.GPU.UtilPercent, gaugeWidth))
		b.WriteString(mutedTextStyle.Render(fmt.Sprintf("  %.0f°C", snap.GPU.TemperatureC)))
		b.WriteString("\n")
		if snap.GPU.MemoryTotal > 0 {
			vramPct := float64(snap.GPU.MemoryUsed) / float64(snap.GPU.MemoryTotal) * 100
			b.WriteString("  " + renderGauge("VRAM", vramPct, gaugeWidth))
			b.WriteString(sizeStyle.Render(fmt.Sprintf("  %s / %s",
				types.FormatSizeU(snap.GPU.MemoryUsed), types.FormatSizeU(snap.GPU.MemoryTotal))))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderFooter renders the key hint line.
func (m Model) renderFooter() string {
	hints := []string{
		keyStyle.Render("[q]") + " " + keyDescStyle.Render("quit"),
		keyStyle.Render("[l]") + " " + keyDescStyle.Render("logs"),
	}
	if m.logs.Open {
		hints = append(hints,
			keyStyle.Render("[1-4]")+" "+keyDescStyle.Render("filter"),
			keyStyle.Render("[↑↓]")+" "+keyDescStyle.Render("scroll"))
	}
	return "  " + strings.Join(hints, "  ")
}

// Run starts the dashboard and blocks until the user quits.
func Run(opts Options) error {
	model := NewModel(opts)
	defer logging.Unsubscribe(model.logs.Subscription)

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
