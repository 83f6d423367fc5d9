package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/samuli/diskscope/internal/core"
	"github.com/samuli/diskscope/internal/logging"
	"github.com/samuli/diskscope/internal/model"
	"github.com/samuli/diskscope/internal/scanner"
)

// Panel identifies which panel is active
type Panel int

const (
	PanelBrowser Panel = iota
	PanelTreemap
)

type viewState int

const (
	stateVolumes viewState = iota
	stateScanning
	stateBrowse
)

// Message types for Bubble Tea
type (
	scanStartMsg struct{ path string }
	scanDoneMsg  struct {
		root *model.Node
		err  error
	}
	progressMsg struct{ progress scanner.Progress }
	freedMsg    struct{ event core.FreedSpace }
	deleteMsg   struct {
		node *model.Node
		err  error
	}
	openDoneMsg struct{ err error }
)

// Config carries the command-line choices into the TUI.
type Config struct {
	Path    string
	Depth   int
	Options scanner.Options
	Version string
}

// App is the main TUI application model
type App struct {
	ctrl *core.Controller
	cfg  Config

	// UI components
	header   Header
	selector VolumeSelector
	browser  Browser
	treemap  Treemap
	keys     KeyMap
	spin     spinner.Model
	bar      progress.Model

	// State
	state       viewState
	activePanel Panel
	scanPath    string
	depth       int
	opts        scanner.Options
	lastScan    scanner.Progress
	scanning    bool
	confirming  bool
	status      string
	err         error

	// Navigation: stack of directories from the scan root down; the last
	// entry is the directory on screen
	path     []*model.Node
	selected int

	// Event channels (re-armed after each received event)
	progressCh <-chan core.Event
	freedCh    <-chan core.Event

	width  int
	height int
}

// NewApp creates the application model around an existing controller.
func NewApp(ctrl *core.Controller, cfg Config) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorCyan)

	bar := progress.New(progress.WithDefaultGradient())

	app := App{
		ctrl:       ctrl,
		cfg:        cfg,
		selector:   NewVolumeSelector(ctrl.Volumes()),
		keys:       DefaultKeyMap(),
		spin:       sp,
		bar:        bar,
		depth:      cfg.Depth,
		opts:       cfg.Options,
		state:      stateVolumes,
		progressCh: ctrl.Bus().Subscribe(scanner.ProgressChannel),
		freedCh:    ctrl.Bus().Subscribe(core.FreedChannel),
	}

	switch {
	case cfg.Path != "":
		app.scanPath = cfg.Path
	case ctrl.DefaultVolume() != "":
		app.scanPath = ctrl.DefaultVolume()
	}
	return app
}

// Init implements tea.Model
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.listenForFreed()}
	if a.scanPath != "" {
		path := a.scanPath
		cmds = append(cmds, func() tea.Msg { return scanStartMsg{path: path} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case scanStartMsg:
		return a.startScan(msg.path)

	case scanDoneMsg:
		return a.finalizeScan(msg)

	case progressMsg:
		a.lastScan = msg.progress
		if a.scanning {
			return a, a.listenForProgress()
		}
		return a, nil

	case freedMsg:
		a.status = fmt.Sprintf("freed %s", humanize.IBytes(msg.event.Size))
		return a, a.listenForFreed()

	case deleteMsg:
		if msg.err != nil {
			a.err = msg.err
			return a, nil
		}
		a.removeFromTree(msg.node)
		return a, nil

	case openDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		}
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		if a.scanning {
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

// startScan kicks off a scan of path and switches to the scanning view.
func (a App) startScan(path string) (tea.Model, tea.Cmd) {
	a.state = stateScanning
	a.scanning = true
	a.scanPath = path
	a.err = nil
	a.status = ""
	a.lastScan = scanner.Progress{CurrentPath: path}

	ctrl := a.ctrl
	depth := a.depth
	opts := a.opts
	return a, tea.Batch(
		a.spin.Tick,
		a.listenForProgress(),
		func() tea.Msg {
			root, err := ctrl.ScanDirectory(context.Background(), path, depth, opts)
			return scanDoneMsg{root: root, err: err}
		},
	)
}

// listenForProgress waits for the next progress record on the bus.
func (a App) listenForProgress() tea.Cmd {
	ch := a.progressCh
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		p, ok := event.Payload.(scanner.Progress)
		if !ok {
			return nil
		}
		return progressMsg{progress: p}
	}
}

// listenForFreed waits for the next freed-space announcement.
func (a App) listenForFreed() tea.Cmd {
	ch := a.freedCh
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		e, ok := event.Payload.(core.FreedSpace)
		if !ok {
			return nil
		}
		return freedMsg{event: e}
	}
}

// finalizeScan installs the scanned tree or reports the failure.
func (a App) finalizeScan(msg scanDoneMsg) (tea.Model, tea.Cmd) {
	a.scanning = false
	if msg.err != nil {
		a.err = msg.err
		a.state = stateVolumes
		return a, nil
	}

	a.state = stateBrowse
	a.path = []*model.Node{msg.root}
	a.selected = 0
	a.confirming = false
	a.updateLayout()
	a.treemap.Layout(msg.root)
	return a, nil
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit, but let a pending confirmation swallow keys first
	if !a.confirming && key.Matches(msg, a.keys.Quit) {
		return a, tea.Quit
	}

	switch a.state {
	case stateVolumes:
		return a.handleVolumeKey(msg)
	case stateScanning:
		// Scans run to completion; only quit is honored while scanning
		return a, nil
	case stateBrowse:
		return a.handleBrowseKey(msg)
	}
	return a, nil
}

func (a App) handleVolumeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Up):
		a.selector.MoveUp()
	case key.Matches(msg, a.keys.Down):
		a.selector.MoveDown()
	case key.Matches(msg, a.keys.Rescan):
		if err := a.ctrl.RefreshVolumes(); err != nil {
			a.err = err
		} else {
			a.selector.SetVolumes(a.ctrl.Volumes())
		}
	case key.Matches(msg, a.keys.Enter):
		if vol := a.selector.Selected(); vol != nil {
			a.ctrl.SetDefaultVolume(vol.MountPoint)
			return a.startScan(vol.MountPoint)
		}
	}
	return a, nil
}

func (a App) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	dir := a.currentDir()
	if dir == nil {
		return a, nil
	}

	// Pending delete confirmation
	if a.confirming {
		switch msg.String() {
		case "y", "Y":
			a.confirming = false
			return a.deleteSelected()
		default:
			a.confirming = false
			a.status = ""
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Up):
		if a.selected > 0 {
			a.selected--
			a.onSelectionChanged()
		}
	case key.Matches(msg, a.keys.Down):
		if a.selected < len(dir.Children)-1 {
			a.selected++
			a.onSelectionChanged()
		}
	case key.Matches(msg, a.keys.Enter):
		if node := a.selectedNode(); node != nil && node.IsDir && len(node.Children) > 0 {
			a.path = append(a.path, node)
			a.selected = 0
			a.treemap.Layout(node)
			a.onSelectionChanged()
		}
	case key.Matches(msg, a.keys.Back):
		if len(a.path) > 1 {
			leaving := a.path[len(a.path)-1]
			a.path = a.path[:len(a.path)-1]
			a.selected = indexOf(a.currentDir(), leaving)
			a.treemap.Layout(a.currentDir())
			a.onSelectionChanged()
		}
	case key.Matches(msg, a.keys.Tab):
		if a.activePanel == PanelBrowser {
			a.activePanel = PanelTreemap
		} else {
			a.activePanel = PanelBrowser
		}
	case key.Matches(msg, a.keys.Rescan):
		return a.startScan(a.scanPath)
	case key.Matches(msg, a.keys.ToggleMode):
		a.opts.FastMode = !a.opts.FastMode
		return a.startScan(a.scanPath)
	case key.Matches(msg, a.keys.SelectVolume):
		a.state = stateVolumes
		a.selector.SetVolumes(a.ctrl.Volumes())
	case key.Matches(msg, a.keys.OpenExplorer):
		if node := a.selectedNode(); node != nil {
			ctrl := a.ctrl
			path := node.Path
			return a, func() tea.Msg {
				return openDoneMsg{err: ctrl.OpenPath(path)}
			}
		}
	case key.Matches(msg, a.keys.Delete):
		if node := a.selectedNode(); node != nil {
			a.confirming = true
			a.status = fmt.Sprintf("Delete %s (%s)? y/n", node.Name, humanize.IBytes(node.Size))
		}
	}
	return a, nil
}

// deleteSelected runs the deletion off the UI loop.
func (a App) deleteSelected() (tea.Model, tea.Cmd) {
	node := a.selectedNode()
	if node == nil {
		return a, nil
	}
	ctrl := a.ctrl
	return a, func() tea.Msg {
		return deleteMsg{node: node, err: ctrl.DeletePath(node.Path)}
	}
}

// removeFromTree drops node from the current directory and walks the
// retained sizes back up the navigation stack.
func (a *App) removeFromTree(node *model.Node) {
	dir := a.currentDir()
	if dir == nil {
		return
	}
	idx := indexOf(dir, node)
	if idx < 0 {
		return
	}
	dir.Children = append(dir.Children[:idx], dir.Children[idx+1:]...)
	for _, ancestor := range a.path {
		if ancestor.Size >= node.Size {
			ancestor.Size -= node.Size
		} else {
			ancestor.Size = 0
		}
	}
	if a.selected >= len(dir.Children) && a.selected > 0 {
		a.selected--
	}
	a.treemap.Layout(dir)
	a.onSelectionChanged()
}

// onSelectionChanged refreshes the file-type status line.
func (a *App) onSelectionChanged() {
	a.status = ""
	node := a.selectedNode()
	if node == nil || node.IsDir {
		return
	}
	mtype, err := mimetype.DetectFile(node.Path)
	if err != nil {
		logging.Debug.Printf("type detection failed for %s: %v", node.Path, err)
		return
	}
	a.status = mtype.String()
}

func (a App) currentDir() *model.Node {
	if len(a.path) == 0 {
		return nil
	}
	return a.path[len(a.path)-1]
}

func (a App) selectedNode() *model.Node {
	dir := a.currentDir()
	if dir == nil || a.selected < 0 || a.selected >= len(dir.Children) {
		return nil
	}
	return dir.Children[a.selected]
}

func indexOf(dir *model.Node, node *model.Node) int {
	if dir == nil {
		return -1
	}
	for i, child := range dir.Children {
		if child == node {
			return i
		}
	}
	return -1
}

// updateLayout distributes the window between the panels.
func (a *App) updateLayout() {
	if a.width < 1 || a.height < 1 {
		return
	}
	a.header.SetWidth(a.width)
	a.selector.SetSize(a.width, a.height)
	a.bar.Width = a.width - 8
	if a.bar.Width < 10 {
		a.bar.Width = 10
	}

	// header + status + help
	bodyHeight := a.height - 3
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	browserWidth := a.width * 2 / 5
	if browserWidth < 30 {
		browserWidth = a.width
	}
	a.browser.SetSize(browserWidth, bodyHeight)
	if browserWidth < a.width {
		a.treemap.SetSize(a.width-browserWidth, bodyHeight)
	} else {
		a.treemap.SetSize(0, 0)
	}
	a.treemap.Layout(a.currentDir())
}

// View implements tea.Model
func (a App) View() string {
	switch a.state {
	case stateVolumes:
		if a.err != nil {
			return a.selector.View() + "\n" + DangerStyle.Render(a.err.Error())
		}
		return a.selector.View()
	case stateScanning:
		return a.scanningView()
	default:
		return a.browseView()
	}
}

func (a App) scanningView() string {
	var b strings.Builder
	b.WriteString(a.spin.View())
	b.WriteString(TitleStyle.Render(" Scanning "))
	b.WriteString(StatsStyle.Render(truncatePath(a.scanPath, a.width/2)))
	b.WriteString("\n\n")
	b.WriteString(a.bar.ViewAs(float64(a.lastScan.Percent) / 100))
	b.WriteString("\n\n")
	b.WriteString(StatsStyle.Render(fmt.Sprintf("%d / %d items",
		a.lastScan.ProcessedItems, a.lastScan.TotalItems)))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(truncatePath(a.lastScan.CurrentPath, a.width-4)))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, b.String())
}

func (a App) browseView() string {
	dir := a.currentDir()

	// Longest mount-point prefix wins, so /home beats / when both match
	var vol *model.VolumeInfo
	volumes := a.ctrl.Volumes()
	for i, v := range volumes {
		if strings.HasPrefix(a.scanPath, v.MountPoint) {
			if vol == nil || len(v.MountPoint) > len(vol.MountPoint) {
				vol = &volumes[i]
			}
		}
	}

	header := a.header.View(a.scanPath, vol, a.ctrl.FreedState(), !a.opts.FastMode)

	browser := a.browser.View(dir, a.selected, a.activePanel == PanelBrowser)
	body := browser
	if a.treemap.width > 0 {
		treemap := a.treemap.View(a.selectedNode(), a.activePanel == PanelTreemap)
		body = lipgloss.JoinHorizontal(lipgloss.Top, browser, treemap)
	}

	status := a.statusLine(dir)

	var help []string
	for _, binding := range a.keys.ShortHelp() {
		help = append(help, binding.Help().Key+" "+binding.Help().Desc)
	}
	if a.cfg.Version != "" {
		help = append(help, "v"+a.cfg.Version)
	}

	return strings.Join([]string{
		header,
		body,
		status,
		HelpStyle.Render(strings.Join(help, " · ")),
	}, "\n")
}

func (a App) statusLine(dir *model.Node) string {
	switch {
	case a.confirming:
		return DangerStyle.Render(a.status)
	case a.err != nil:
		return DangerStyle.Render(a.err.Error())
	case a.status != "":
		return StatusStyle.Render(a.status)
	case dir != nil:
		return StatusStyle.Render(fmt.Sprintf("%s · %d items · %s",
			truncatePath(dir.Path, a.width/2), len(dir.Children), humanize.IBytes(dir.Size)))
	default:
		return ""
	}
}
