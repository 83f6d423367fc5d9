package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jeffwilliams/squarify"

	"github.com/samuli/diskscope/internal/model"
)

// Block is one rectangle in the treemap. Node is nil for the grouped
// remainder block.
type Block struct {
	Node          *model.Node
	X, Y          int
	Width, Height int
	GroupCount    int
	GroupSize     uint64
}

// treemapItem adapts a node for the squarify algorithm.
type treemapItem struct {
	node       *model.Node
	size       float64
	groupCount int
	groupSize  uint64
	children   []*treemapItem
}

func (t *treemapItem) Size() float64 { return t.size }

func (t *treemapItem) NumChildren() int { return len(t.children) }

func (t *treemapItem) Child(i int) squarify.TreeSizer { return t.children[i] }

const (
	// Items beyond this are collapsed into a single "N more" block
	maxVisibleItems = 15
)

// Treemap lays out and renders the children of one directory as nested
// rectangles. Selection is driven from outside; the panel itself is stateless
// between Layout calls.
type Treemap struct {
	width  int
	height int
	blocks []Block
	dir    *model.Node
}

func (t *Treemap) SetSize(w, h int) {
	if t.width == w && t.height == h {
		return
	}
	t.width = w
	t.height = h
	t.Layout(t.dir)
}

// Blocks returns the current layout, mainly for tests.
func (t *Treemap) Blocks() []Block {
	return t.blocks
}

// Layout computes block rectangles for dir's children within the panel.
func (t *Treemap) Layout(dir *model.Node) {
	t.dir = dir
	t.blocks = nil

	if dir == nil || t.width <= 2 || t.height <= 2 || len(dir.Children) == 0 {
		return
	}

	contentW := t.width
	contentH := t.height

	items := make([]*treemapItem, 0, len(dir.Children))
	for _, child := range dir.Children {
		size := float64(child.Size)
		if size < 1 {
			// Keep zero-size entries representable without skewing proportions
			size = 1
		}
		items = append(items, &treemapItem{node: child, size: size})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].size > items[j].size
	})

	// Collapse the long tail into a single grouped item. Never group a
	// single leftover; just show it.
	if len(items) > maxVisibleItems+1 {
		rest := items[maxVisibleItems:]
		var groupSize uint64
		var groupFloat float64
		for _, it := range rest {
			groupSize += it.node.Size
			groupFloat += it.size
		}
		items = append(items[:maxVisibleItems:maxVisibleItems], &treemapItem{
			size:       groupFloat,
			groupCount: len(rest),
			groupSize:  groupSize,
		})
	}

	root := &treemapItem{children: items}
	for _, it := range items {
		root.size += it.size
	}

	rect := squarify.Rect{W: float64(contentW), H: float64(contentH)}
	blocks, metas := squarify.Squarify(root, rect, squarify.Options{
		MaxDepth: 1,
		Sort:     true,
	})

	for i, b := range blocks {
		// Squarify reports the root's children at depth 0
		if i >= len(metas) || metas[i].Depth != 0 {
			continue
		}
		item, ok := b.TreeSizer.(*treemapItem)
		if !ok {
			continue
		}

		// Round both edges so adjacent blocks share boundaries instead of
		// overlapping
		x := int(math.Round(b.X))
		y := int(math.Round(b.Y))
		w := int(math.Round(b.X+b.W)) - x
		h := int(math.Round(b.Y+b.H)) - y

		if x+w > contentW {
			w = contentW - x
		}
		if y+h > contentH {
			h = contentH - y
		}
		if w < 1 || h < 1 || x >= contentW || y >= contentH {
			continue
		}

		t.blocks = append(t.blocks, Block{
			Node:       item.node,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			GroupCount: item.groupCount,
			GroupSize:  item.groupSize,
		})
	}
}

// View renders the treemap, highlighting selected.
func (t *Treemap) View(selected *model.Node, focused bool) string {
	if t.width < 1 || t.height < 1 {
		return ""
	}
	if len(t.blocks) == 0 {
		empty := lipgloss.NewStyle().Foreground(ColorMuted).Render("(nothing to show)")
		return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, empty)
	}

	type renderedBlock struct {
		block Block
		lines []string
	}

	rendered := make([]renderedBlock, 0, len(t.blocks))
	for _, block := range t.blocks {
		str := t.renderBlock(block, block.Node != nil && block.Node == selected, focused)
		rendered = append(rendered, renderedBlock{block, strings.Split(str, "\n")})
	}

	// Composite line by line: place each block's row at its X offset
	var out []string
	for y := 0; y < t.height; y++ {
		type segment struct {
			x, width int
			line     string
		}
		var segments []segment
		for _, rb := range rendered {
			idx := y - rb.block.Y
			if idx >= 0 && idx < len(rb.lines) && idx < rb.block.Height {
				segments = append(segments, segment{rb.block.X, rb.block.Width, rb.lines[idx]})
			}
		}
		sort.Slice(segments, func(i, j int) bool { return segments[i].x < segments[j].x })

		var line strings.Builder
		cursor := 0
		for _, seg := range segments {
			if seg.x > cursor {
				line.WriteString(strings.Repeat(" ", seg.x-cursor))
			}
			line.WriteString(seg.line)
			cursor = seg.x + seg.width
		}
		out = append(out, line.String())
	}

	return lipgloss.NewStyle().MaxHeight(t.height).Render(strings.Join(out, "\n"))
}

func (t *Treemap) renderBlock(block Block, selected, focused bool) string {
	var fg, border lipgloss.Color
	switch {
	case block.Node == nil:
		fg = lipgloss.Color("#6B7280")
		border = lipgloss.Color("#4B5563")
	case block.Node.IsDir:
		fg = ColorDir
		border = ColorDir
	default:
		fg = ColorFile
		border = lipgloss.Color("#6B7280")
	}
	if selected && focused {
		fg = lipgloss.Color("#FFFFFF")
		border = ColorPrimary
	} else if selected {
		fg = lipgloss.Color("#E0E0E0")
		border = lipgloss.Color("#9D7CD8")
	}

	var label, sizeStr string
	if block.Node != nil {
		label = block.Node.Name
		sizeStr = humanize.IBytes(block.Node.Size)
	} else {
		label = fmt.Sprintf("%d more", block.GroupCount)
		sizeStr = humanize.IBytes(block.GroupSize)
	}

	innerW := block.Width - 2
	innerH := block.Height - 2
	if innerW < 0 {
		innerW = 0
	}
	if innerH < 0 {
		innerH = 0
	}

	text := truncateName(label, innerW)
	if innerH > 1 {
		text += "\n" + sizeStr
	}

	style := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		MaxWidth(block.Width).
		MaxHeight(block.Height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(fg)
	if selected {
		style = style.Bold(true)
	}
	return style.Render(text)
}
