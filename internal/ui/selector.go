package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/samuli/diskscope/internal/model"
)

// VolumeSelector is the startup picker listing mounted volumes.
type VolumeSelector struct {
	volumes  []model.VolumeInfo
	selected int
	width    int
	height   int
}

func NewVolumeSelector(volumes []model.VolumeInfo) VolumeSelector {
	return VolumeSelector{volumes: volumes}
}

func (s *VolumeSelector) SetSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *VolumeSelector) SetVolumes(volumes []model.VolumeInfo) {
	s.volumes = volumes
	if s.selected >= len(volumes) {
		s.selected = 0
	}
}

func (s *VolumeSelector) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

func (s *VolumeSelector) MoveDown() {
	if s.selected < len(s.volumes)-1 {
		s.selected++
	}
}

// Selected returns the highlighted volume, or nil when the list is empty.
func (s *VolumeSelector) Selected() *model.VolumeInfo {
	if len(s.volumes) == 0 {
		return nil
	}
	return &s.volumes[s.selected]
}

func (s *VolumeSelector) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Select a volume"))
	b.WriteString("\n\n")

	if len(s.volumes) == 0 {
		b.WriteString(ItemStyle.Render("No volumes found. Press q to quit."))
	}

	for i, vol := range s.volumes {
		bar := usageBar(vol.UsedPercent(), 20)
		line := fmt.Sprintf("%-18s %-14s %s %6s free",
			vol.Name, vol.MountPoint, bar, humanize.IBytes(vol.AvailableSpace))

		style := ItemStyle
		if i == s.selected {
			style = ItemSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("↑/↓ move · enter scan · q quit"))

	box := BrowserPanelStyle.Render(b.String())
	if s.width > 0 && s.height > 0 {
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// usageBar renders a fixed-width fill bar for a 0-100 percentage.
func usageBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := ColorSuccess
	switch {
	case percent >= 90:
		color = ColorDanger
	case percent >= 70:
		color = ColorPrimary
	}
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}
