package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/samuli/diskscope/internal/model"
)

// Engine walks a directory tree up to a configured depth, publishing progress
// as it goes. Subdirectories of a node are scanned in parallel; files are
// processed inline.
type Engine struct {
	pub     Publisher
	workers int
}

// NewEngine creates a scan engine publishing progress through pub, which may
// be nil for silent scans.
func NewEngine(pub Publisher) *Engine {
	return &Engine{
		pub:     pub,
		workers: runtime.GOMAXPROCS(0) * 3,
	}
}

// Scan scans root and returns a tree materialized up to depth levels below
// it. The root is canonicalized once; symlinks below it are never followed.
// Per-entry I/O errors demote the entry's size to 0 and never abort the walk.
func (e *Engine) Scan(ctx context.Context, root string, depth int, opts Options) (*model.Node, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, root)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, root, err)
	}

	absPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, root, err)
	}
	canonical, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, root, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPathInaccessible, canonical, err)
	}

	rep := newReporter(e.pub, estimateCount(canonical, depth))
	rep.start(canonical)

	var node *model.Node
	switch {
	case !info.IsDir():
		node = &model.Node{
			Name:  filepath.Base(canonical),
			Path:  canonical,
			Size:  uint64(info.Size()),
			IsDir: false,
		}
	case opts.FastMode:
		node = e.fastScan(ctx, canonical, depth, opts, rep, make(chan struct{}, e.workers))
	default:
		node = e.comprehensiveScan(ctx, canonical, depth, opts, rep)
	}

	rep.finish(canonical)
	return node, nil
}

// fastScan expands dir using the estimating strategy: files inline,
// subdirectories data-parallel. Directories with no depth remaining, and
// large directories regardless of remaining depth, become leaves carrying a
// sampled estimate.
func (e *Engine) fastScan(ctx context.Context, dir string, depth int, opts Options, rep *reporter, sem chan struct{}) *model.Node {
	node := &model.Node{
		Name:     filepath.Base(dir),
		Path:     dir,
		IsDir:    true,
		Children: []*model.Node{},
	}

	if ctx.Err() != nil {
		return node
	}

	if depth == 0 || isLargeDir(dir) {
		node.Size = estimateDirSize(dir)
		return node
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logEntryError(dir, err)
		return node
	}

	children := make([]*model.Node, 0, len(entries))
	var subdirs []fs.DirEntry
	for _, entry := range entries {
		name := entry.Name()
		if hidden(name, opts) {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			// Fast mode omits system directories entirely
			if isSystemPath(path) {
				continue
			}
			subdirs = append(subdirs, entry)
			continue
		}

		rep.file(path)
		var size uint64
		if info, err := entry.Info(); err == nil {
			size = uint64(info.Size())
		} else {
			logEntryError(path, err)
		}
		children = append(children, &model.Node{
			Name: name,
			Path: path,
			Size: size,
		})
	}

	if len(subdirs) > 0 {
		dirNodes := make([]*model.Node, len(subdirs))

		// Scan subdirectories on the worker pool; when all workers are busy,
		// scan inline instead of spawning a blocked goroutine.
		var wg sync.WaitGroup
		for i, entry := range subdirs {
			path := filepath.Join(dir, entry.Name())
			rep.dir(path)

			select {
			case sem <- struct{}{}:
				wg.Add(1)
				go func(i int, path string) {
					defer wg.Done()
					defer func() { <-sem }()
					dirNodes[i] = e.fastScan(ctx, path, depth-1, opts, rep, sem)
				}(i, path)
			default:
				dirNodes[i] = e.fastScan(ctx, path, depth-1, opts, rep, sem)
			}
		}
		wg.Wait()

		children = append(children, dirNodes...)
	}

	model.SortBySize(children)
	node.Children = children

	var sum uint64
	for _, child := range children {
		sum += child.Size
	}
	node.Size = sum

	return node
}

// comprehensiveScan expands dir depth-first with exact sizes. Depth governs
// materialization of the returned tree only: directory leaves at depth 0
// still carry the exact recursive byte total.
func (e *Engine) comprehensiveScan(ctx context.Context, dir string, depth int, opts Options, rep *reporter) *model.Node {
	if isSystemPath(dir) {
		// Placeholder so the UI can still show the entry
		return &model.Node{
			Name:  filepath.Base(dir) + " (access denied)",
			Path:  dir,
			IsDir: true,
		}
	}

	node := &model.Node{
		Name:     filepath.Base(dir),
		Path:     dir,
		IsDir:    true,
		Children: []*model.Node{},
	}

	if ctx.Err() != nil {
		return node
	}

	if depth == 0 {
		node.Size = exactDirSize(dir)
		return node
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logEntryError(dir, err)
		return node
	}

	children := make([]*model.Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if hidden(name, opts) {
			continue
		}
		path := filepath.Join(dir, name)

		if entry.IsDir() {
			rep.dir(path)
			children = append(children, e.comprehensiveScan(ctx, path, depth-1, opts, rep))
			continue
		}

		rep.file(path)
		var size uint64
		if info, err := entry.Info(); err == nil {
			size = uint64(info.Size())
		} else {
			logEntryError(path, err)
		}
		children = append(children, &model.Node{
			Name: name,
			Path: path,
			Size: size,
		})
	}

	model.SortBySize(children)
	node.Children = children

	var sum uint64
	for _, child := range children {
		sum += child.Size
	}
	node.Size = sum

	return node
}

// Ensure Engine implements Scanner
var _ Scanner = (*Engine)(nil)
