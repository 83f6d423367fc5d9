package core

import (
	"context"
	"os"
	"sync"

	"github.com/samuli/diskscope/internal/logging"
	"github.com/samuli/diskscope/internal/model"
	"github.com/samuli/diskscope/internal/ops"
	"github.com/samuli/diskscope/internal/scanner"
	"github.com/samuli/diskscope/internal/stats"
)

// FreedChannel carries FreedSpace records whenever a deletion succeeds.
const FreedChannel = "freed-space"

// FreedSpace is the payload published on FreedChannel.
type FreedSpace struct {
	Path         string `json:"path"`
	Size         uint64 `json:"size"`
	SessionFreed int64  `json:"session_freed"`
	TotalFreed   int64  `json:"total_freed"`
}

// FreedState tracks bytes reclaimed through DeletePath.
type FreedState struct {
	Session  int64
	Lifetime int64
}

// Controller is the host boundary: it owns the event bus, runs scans, and
// exposes the filesystem actions. All methods are safe for concurrent use.
type Controller struct {
	mu sync.RWMutex

	// State
	volumes  []model.VolumeInfo
	root     *model.Node
	scanRoot string
	freed    FreedState

	// Internal services
	bus          *Bus
	engine       *scanner.Engine
	statsManager *stats.Manager
}

// NewController creates a controller, probing volumes and loading persisted
// stats. A volume probe failure is not fatal; the volume list is just empty.
func NewController() *Controller {
	bus := NewBus()

	statsMgr := stats.NewManager()
	if err := statsMgr.Load(); err != nil {
		logging.Debug.Printf("failed to load stats: %v", err)
	}

	volumes, err := model.ListVolumes()
	if err != nil {
		logging.Error.Printf("volume probe failed: %v", err)
	}

	return &Controller{
		volumes:      volumes,
		bus:          bus,
		engine:       scanner.NewEngine(bus),
		statsManager: statsMgr,
		freed: FreedState{
			Lifetime: statsMgr.FreedLifetime(),
		},
	}
}

// Bus returns the controller's event bus. Progress records appear on
// scanner.ProgressChannel while a scan runs.
func (c *Controller) Bus() *Bus {
	return c.bus
}

// Volumes returns the volumes found at startup or by the last refresh.
func (c *Controller) Volumes() []model.VolumeInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.volumes
}

// RefreshVolumes re-runs the platform probe.
func (c *Controller) RefreshVolumes() error {
	volumes, err := model.ListVolumes()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.volumes = volumes
	c.mu.Unlock()
	return nil
}

// ScanDirectory scans path with the given depth and options, publishing
// progress on the bus. The resulting tree is retained for DeletePath size
// accounting and returned to the caller.
func (c *Controller) ScanDirectory(ctx context.Context, path string, depth int, opts scanner.Options) (*model.Node, error) {
	logging.Debug.Printf("starting scan of %s (depth=%d fast=%v)", path, depth, opts.FastMode)

	root, err := c.engine.Scan(ctx, path, depth, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.root = root
	c.scanRoot = root.Path
	c.freed.Session = 0
	c.mu.Unlock()

	logging.Debug.Printf("scan complete: %s (%d bytes)", root.Path, root.Size)
	return root, nil
}

// Root returns the tree from the most recent scan, or nil.
func (c *Controller) Root() *model.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// ScanRoot returns the canonical path of the most recent scan, or "".
func (c *Controller) ScanRoot() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scanRoot
}

// FreedState returns the current freed-space counters.
func (c *Controller) FreedState() FreedState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.freed
}

// DefaultVolume returns the persisted default mount point, or "".
func (c *Controller) DefaultVolume() string {
	return c.statsManager.DefaultVolume()
}

// SetDefaultVolume persists the mount point to scan on startup.
func (c *Controller) SetDefaultVolume(mountPoint string) {
	c.statsManager.SetDefaultVolume(mountPoint)
}

// OpenPath opens a path with the OS default handler.
func (c *Controller) OpenPath(path string) error {
	return ops.Open(path)
}

// DeletePath removes a file or directory (recursively). When a scan is
// loaded, deletion is constrained to paths inside the scan root, and the
// freed bytes are credited and announced on FreedChannel.
func (c *Controller) DeletePath(path string) error {
	c.mu.RLock()
	scanRoot := c.scanRoot
	root := c.root
	c.mu.RUnlock()

	// Size before deletion: prefer the scanned tree, fall back to lstat
	var size uint64
	if root != nil {
		if node := root.Find(path); node != nil {
			size = node.Size
		}
	}
	if size == 0 {
		if info, err := os.Lstat(path); err == nil && !info.IsDir() {
			size = uint64(info.Size())
		}
	}

	if err := ops.Delete(path, scanRoot); err != nil {
		return err
	}

	c.mu.Lock()
	c.freed.Session += int64(size)
	c.freed.Lifetime += int64(size)
	freed := c.freed
	c.mu.Unlock()

	if size > 0 {
		c.statsManager.AddFreed(int64(size))
	}

	_ = c.bus.Publish(FreedChannel, FreedSpace{
		Path:         path,
		Size:         size,
		SessionFreed: freed.Session,
		TotalFreed:   freed.Lifetime,
	})

	logging.Debug.Printf("deleted %s (freed %d bytes)", path, size)
	return nil
}

// Stop flushes pending stats writes.
func (c *Controller) Stop() {
	if err := c.statsManager.Close(); err != nil {
		logging.Debug.Printf("failed to save stats: %v", err)
	}
}
