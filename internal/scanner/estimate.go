package scanner

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/samuli/diskscope/internal/logging"
)

// Estimation policy constants. These tune cost/accuracy and are not invariants.
const (
	// largeDirThreshold classifies a directory as "large" when its immediate
	// entry count reaches this figure during a cheap probe.
	largeDirThreshold = 1000
	// sizeSampleLimit is how many immediate entries estimateDirSize stats.
	sizeSampleLimit = 100
	// entryCountCap bounds the entry count used for extrapolation.
	entryCountCap = 10000
	// largeDirItems is the synthetic item count reported for large directories.
	largeDirItems = 5000
)

// isLargeDir probes up to largeDirThreshold immediate entries. It never
// recurses; the handle is released before the caller descends.
func isLargeDir(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	names, _ := f.Readdirnames(largeDirThreshold)
	return len(names) >= largeDirThreshold
}

// estimateCount produces the upper bound used to scale the progress bar.
// Recursion is capped to the two shallowest levels to keep the estimate cheap.
func estimateCount(path string, depth int) uint64 {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return 1
	}

	if isLargeDir(path) {
		return largeDirItems
	}

	var count uint64 = 1 // the directory itself
	entries, err := os.ReadDir(path)
	if err != nil {
		return count
	}

	for _, entry := range entries {
		count++
		if depth > 0 && entry.IsDir() {
			subDepth := depth - 1
			if depth > 2 {
				subDepth = 0
			}
			count += estimateCount(filepath.Join(path, entry.Name()), subDepth)
		}
	}

	return count
}

// estimateDirSize extrapolates a directory's total size from the metadata of
// up to sizeSampleLimit immediate entries. It never recurses; accuracy is
// sacrificed for bounded cost.
func estimateDirSize(path string) uint64 {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	entries, _ := f.ReadDir(sizeSampleLimit)
	f.Close()

	var sampledBytes uint64
	samplesSummed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		sampledBytes += uint64(info.Size())
		samplesSummed++
	}

	total := countEntries(path)
	if samplesSummed > 0 && total > samplesSummed {
		avg := float64(sampledBytes) / float64(samplesSummed)
		return uint64(math.Round(avg * float64(total)))
	}
	return sampledBytes
}

// countEntries counts immediate entries, capped at entryCountCap.
func countEntries(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	for {
		names, err := f.Readdirnames(512)
		count += len(names)
		if count >= entryCountCap {
			return entryCountCap
		}
		if err != nil {
			return count
		}
	}
}

// exactDirSize walks the whole subtree and sums file lengths. Unreadable
// entries contribute 0. Symlinks are not followed.
func exactDirSize(root string) uint64 {
	var total atomic.Uint64

	conf := &fastwalk.Config{
		Follow: false,
	}
	err := fastwalk.Walk(conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logEntryError(path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			logEntryError(path, err)
			return nil
		}
		total.Add(uint64(info.Size()))
		return nil
	})
	if err != nil {
		logEntryError(root, err)
	}

	return total.Load()
}

// logEntryError records a recovered per-entry failure. Access-denied
// conditions are expected on system directories and log at debug level.
func logEntryError(path string, err error) {
	if os.IsPermission(err) {
		logging.Debug.Printf("access denied: %s: %v", path, err)
		return
	}
	logging.Error.Printf("error accessing entry %s: %v", path, err)
}
