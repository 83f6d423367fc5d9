package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/samuli/diskscope/internal/model"
)

// Browser is the size-sorted list panel for the current directory.
type Browser struct {
	width  int
	height int
	offset int
}

func (b *Browser) SetSize(w, h int) {
	b.width = w
	b.height = h
}

// visibleRows is the number of entries that fit inside the panel frame.
func (b *Browser) visibleRows() int {
	rows := b.height - BrowserPanelStyle.GetVerticalFrameSize()
	if rows < 1 {
		rows = 1
	}
	return rows
}

// ensureVisible scrolls the window so the selected row is on screen.
func (b *Browser) ensureVisible(selected int) {
	rows := b.visibleRows()
	if selected < b.offset {
		b.offset = selected
	}
	if selected >= b.offset+rows {
		b.offset = selected - rows + 1
	}
	if b.offset < 0 {
		b.offset = 0
	}
}

// View renders dir's children with the given selection. Children are assumed
// already sorted by size, which is how scans produce them.
func (b *Browser) View(dir *model.Node, selected int, focused bool) string {
	if dir == nil {
		return BrowserPanelStyle.Width(b.width).Height(b.height).Render("")
	}

	b.ensureVisible(selected)
	rows := b.visibleRows()
	inner := b.width - BrowserPanelStyle.GetHorizontalFrameSize()

	var lines []string
	if len(dir.Children) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(ColorMuted).Render("(empty)"))
	}

	end := b.offset + rows
	if end > len(dir.Children) {
		end = len(dir.Children)
	}
	for i := b.offset; i < end; i++ {
		child := dir.Children[i]

		icon := " "
		nameColor := ColorFile
		if child.IsDir {
			icon = "▸"
			nameColor = ColorDir
		}

		share := 0.0
		if dir.Size > 0 {
			share = float64(child.Size) / float64(dir.Size)
		}
		bar := sizeShareBar(share, 10)

		size := fmt.Sprintf("%9s", humanize.IBytes(child.Size))
		nameWidth := inner - 2 - 10 - 1 - 9 - 2
		if nameWidth < 8 {
			nameWidth = 8
		}
		name := truncateName(child.Name, nameWidth)

		line := fmt.Sprintf("%s %-*s %s %s", icon, nameWidth, name, bar, size)

		switch {
		case i == selected && focused:
			lines = append(lines, ItemSelected.Render(line))
		case i == selected:
			lines = append(lines, ItemSelectedUnfocused.Render(line))
		case child.IsDir:
			lines = append(lines, lipgloss.NewStyle().Foreground(nameColor).Render(line))
		default:
			lines = append(lines, ItemStyle.Render(line))
		}
	}

	return BrowserPanelStyle.Width(b.width).Height(b.height).Render(strings.Join(lines, "\n"))
}

// sizeShareBar renders a mini bar proportional to a 0-1 share.
func sizeShareBar(share float64, width int) string {
	filled := int(share * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return SizeBarStyle.Render(strings.Repeat("▰", filled)) +
		lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat("▱", width-filled))
}

func truncateName(name string, max int) string {
	if max < 2 {
		return name
	}
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-1]) + "…"
}
