package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/samuli/diskscope/internal/core"
	"github.com/samuli/diskscope/internal/model"
)

// Header renders the one-line status bar at the top of the screen.
type Header struct {
	width int
}

func (h *Header) SetWidth(w int) {
	h.width = w
}

// View renders the header for the current scan root and volume.
func (h *Header) View(scanRoot string, vol *model.VolumeInfo, freed core.FreedState, comprehensive bool) string {
	parts := []string{TitleStyle.Render("diskscope")}

	if scanRoot != "" {
		parts = append(parts, StatsStyle.Render(truncatePath(scanRoot, h.width/3)))
	}

	if vol != nil {
		parts = append(parts, StatsStyle.Render(fmt.Sprintf("%s free of %s",
			humanize.IBytes(vol.AvailableSpace), humanize.IBytes(vol.TotalSpace))))
	}

	if freed.Session > 0 || freed.Lifetime > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(ColorSuccess).Render(
			fmt.Sprintf("freed %s now / %s ever",
				humanize.IBytes(uint64(freed.Session)), humanize.IBytes(uint64(freed.Lifetime)))))
	}

	mode := "fast"
	if comprehensive {
		mode = "comprehensive"
	}
	parts = append(parts, lipgloss.NewStyle().Foreground(ColorMuted).Render(mode))

	line := strings.Join(parts, lipgloss.NewStyle().Foreground(ColorMuted).Render(" │ "))
	return HeaderStyle.Width(h.width).Render(line)
}

// truncatePath shortens long paths from the left, keeping the tail visible.
func truncatePath(path string, max int) string {
	if max < 4 || len(path) <= max {
		return path
	}
	return "…" + path[len(path)-max+1:]
}
