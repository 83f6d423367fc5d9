package scanner

import (
	"context"
	"errors"

	"github.com/samuli/diskscope/internal/model"
)

// DefaultDepth is the number of levels below the root that are materialized
// when the caller does not ask for a specific depth.
const DefaultDepth = 2

// Options configures the scanner behavior.
type Options struct {
	// FastMode trades exact subtree sizes for parallelism and sampled
	// estimation of large directories.
	FastMode bool
	// SkipHidden omits entries whose name begins with a dot.
	SkipHidden bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		FastMode:   true,
		SkipHidden: true,
	}
}

var (
	// ErrPathNotFound reports that the scan root does not exist.
	ErrPathNotFound = errors.New("path does not exist")
	// ErrPathInaccessible reports that the scan root could not be canonicalized.
	ErrPathInaccessible = errors.New("path inaccessible")
)

// Scanner is the interface for bounded-depth directory scanning.
type Scanner interface {
	// Scan scans root and returns a tree whose children are materialized up
	// to depth levels below the root. Progress is published while it runs.
	Scan(ctx context.Context, root string, depth int, opts Options) (*model.Node, error)
}
