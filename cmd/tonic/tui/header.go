package tui

import (
	"fmt"
	"time"

	"github.com/jamesainslie/tonic/pkg/toolkit/types"
)

// renderAppHeader renders the dashboard header: app name, host line,
// uptime, and a live indicator when snapshots are streaming.
func renderAppHeader(info *types.SystemInfo, uptime time.Duration, source string, live bool) string {
	icon := "⚡"
	appName := titleStyle.Bold(true).Render("TONIC")

	host := "local system"
	if info != nil && info.Host.Hostname != "" {
		host = info.Host.Hostname
		if info.Host.Platform != "" {
			host = fmt.Sprintf("%s (%s %s)", host, info.Host.Platform, info.Host.Arch)
		}
	}

	stats := mutedTextStyle.Render(fmt.Sprintf("  %s  •  up %s", host, types.FormatUptime(uptime)))

	header := fmt.Sprintf(" %s %s%s", icon, appName, stats)

	if source != "" {
		header += mutedTextStyle.Render("  •  " + source)
	}

	if live {
		header += successTextStyle.Render("  ● LIVE")
	}

	return header
}
