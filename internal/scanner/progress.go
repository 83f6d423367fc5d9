package scanner

import "sync/atomic"

// ProgressChannel is the event bus channel progress records are published on.
const ProgressChannel = "scan-progress"

// Progress reports scanning progress.
type Progress struct {
	// CurrentPath is the entry most recently processed or entered.
	CurrentPath string `json:"current_path"`
	// ProcessedItems is the count of entries charged against the traversal.
	ProcessedItems uint64 `json:"processed_items"`
	// TotalItems is the pre-computed upper bound. It never decreases.
	TotalItems uint64 `json:"total_items"`
	// Percent is processed/total, clamped to [0, 100].
	Percent float32 `json:"percent"`
}

// Publisher delivers records to a named channel on the host's event bus.
// Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(channel string, payload any) error
}

// reporter tracks the processed-item count and publishes throttled progress
// records. The counter is the only state shared between scan workers.
type reporter struct {
	pub       Publisher
	total     uint64
	processed atomic.Uint64
}

func newReporter(pub Publisher, total uint64) *reporter {
	return &reporter{pub: pub, total: total}
}

// start publishes the mandatory initial record with zero processed items.
func (r *reporter) start(path string) {
	r.emit(path, 0)
}

// file charges a file entry and publishes every entry below 100, then every
// 100th one.
func (r *reporter) file(path string) {
	n := r.processed.Add(1)
	if n < 100 || n%100 == 0 {
		r.emit(path, n)
	}
}

// dir charges a directory entry and publishes every entry below 100, then
// every 20th one.
func (r *reporter) dir(path string) {
	n := r.processed.Add(1)
	if n < 100 || n%20 == 0 {
		r.emit(path, n)
	}
}

// finish publishes the mandatory final record so clients always see 100%.
func (r *reporter) finish(path string) {
	r.emit(path, r.total)
}

func (r *reporter) emit(path string, processed uint64) {
	if r.pub == nil {
		return
	}

	var percent float32
	if r.total > 0 {
		percent = float32(processed) / float32(r.total) * 100
		if percent > 100 {
			percent = 100
		}
	}

	// Best effort: a publish failure never affects the walk.
	_ = r.pub.Publish(ProgressChannel, Progress{
		CurrentPath:    path,
		ProcessedItems: processed,
		TotalItems:     r.total,
		Percent:        percent,
	})
}
