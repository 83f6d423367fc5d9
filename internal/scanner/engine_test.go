package scanner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuli/diskscope/internal/model"
)

func scanTest(t *testing.T, root string, depth int, opts Options) (*model.Node, []Progress) {
	t.Helper()
	pub := &recordingPublisher{}
	engine := NewEngine(pub)
	node, err := engine.Scan(context.Background(), root, depth, opts)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	return node, pub.all()
}

// checkSorted verifies the size-descending ordering invariant over the tree.
func checkSorted(t *testing.T, n *model.Node) {
	t.Helper()
	for i := 1; i < len(n.Children); i++ {
		if n.Children[i-1].Size < n.Children[i].Size {
			t.Errorf("%s: children not sorted by size: %d before %d",
				n.Path, n.Children[i-1].Size, n.Children[i].Size)
		}
	}
	for _, child := range n.Children {
		checkSorted(t, child)
	}
}

func maxDepth(n *model.Node) int {
	deepest := 0
	for _, child := range n.Children {
		if d := maxDepth(child) + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

func TestScanFlatDirectory(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "a"), 100)
	writeFile(t, filepath.Join(tmp, "b"), 300)
	writeFile(t, filepath.Join(tmp, "c"), 50)

	root, _ := scanTest(t, tmp, 1, Options{FastMode: true, SkipHidden: true})

	if root.Size != 450 {
		t.Errorf("root size = %d, want 450", root.Size)
	}
	if len(root.Children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(root.Children))
	}
	want := []struct {
		name string
		size uint64
	}{{"b", 300}, {"a", 100}, {"c", 50}}
	for i, w := range want {
		if root.Children[i].Name != w.name || root.Children[i].Size != w.size {
			t.Errorf("children[%d] = %s (%d), want %s (%d)",
				i, root.Children[i].Name, root.Children[i].Size, w.name, w.size)
		}
	}
}

func TestScanNestedWithHidden(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmp, ".hidden"), 10)
	writeFile(t, filepath.Join(sub, "x"), 1000)

	root, _ := scanTest(t, tmp, 2, Options{FastMode: true, SkipHidden: true})
	if root.Size != 1000 {
		t.Errorf("root size = %d, want 1000", root.Size)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "sub" {
		t.Fatalf("expected single child sub, got %v", root.Children)
	}
	subNode := root.Children[0]
	if len(subNode.Children) != 1 || subNode.Children[0].Name != "x" {
		t.Errorf("expected sub to contain x, got %v", subNode.Children)
	}

	root, _ = scanTest(t, tmp, 2, Options{FastMode: true, SkipHidden: false})
	if root.Size != 1010 {
		t.Errorf("root size with hidden = %d, want 1010", root.Size)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children with hidden included, got %d", len(root.Children))
	}
	if root.Children[0].Name != "sub" || root.Children[1].Name != ".hidden" {
		t.Errorf("children order = [%s, %s], want [sub, .hidden]",
			root.Children[0].Name, root.Children[1].Name)
	}
}

func TestScanHiddenFilterInvariant(t *testing.T) {
	tmp := t.TempDir()
	hiddenDir := filepath.Join(tmp, ".git")
	if err := os.Mkdir(hiddenDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(hiddenDir, "objects"), 500)
	writeFile(t, filepath.Join(tmp, "visible"), 10)

	root, _ := scanTest(t, tmp, 3, Options{FastMode: true, SkipHidden: true})

	var walk func(*model.Node)
	walk = func(n *model.Node) {
		if n != root && n.Name[0] == '.' {
			t.Errorf("hidden entry %s present in output", n.Path)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}

func TestScanDepthCapComprehensive(t *testing.T) {
	tmp := t.TempDir()
	deep := filepath.Join(tmp, "a", "b")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(deep, "c.txt"), 42)

	root, _ := scanTest(t, tmp, 1, Options{FastMode: false, SkipHidden: true})

	if root.Size != 42 {
		t.Errorf("root size = %d, want 42", root.Size)
	}
	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	a := root.Children[0]
	if a.Name != "a" || a.Size != 42 {
		t.Errorf("a = %s (%d), want a (42)", a.Name, a.Size)
	}
	if a.Children == nil || len(a.Children) != 0 {
		t.Errorf("a.children should be present and empty, got %v", a.Children)
	}
}

func TestScanDepthBound(t *testing.T) {
	tmp := t.TempDir()
	deep := filepath.Join(tmp, "l1", "l2", "l3", "l4")
	if err := os.MkdirAll(deep, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(deep, "f"), 1)

	for _, fast := range []bool{true, false} {
		root, _ := scanTest(t, tmp, 2, Options{FastMode: fast, SkipHidden: true})
		if d := maxDepth(root); d > 2 {
			t.Errorf("fast=%v: materialized depth %d exceeds requested 2", fast, d)
		}
	}
}

func TestScanSizeConsistencyComprehensive(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmp, "f1"), 10)
	writeFile(t, filepath.Join(sub, "f2"), 20)
	writeFile(t, filepath.Join(sub, "f3"), 30)

	root, _ := scanTest(t, tmp, 2, Options{FastMode: false, SkipHidden: true})

	var check func(*model.Node)
	check = func(n *model.Node) {
		if n.IsDir && len(n.Children) > 0 {
			var sum uint64
			for _, c := range n.Children {
				sum += c.Size
			}
			if n.Size != sum {
				t.Errorf("%s: size %d != children sum %d", n.Path, n.Size, sum)
			}
		}
		for _, c := range n.Children {
			check(c)
		}
	}
	check(root)
	checkSorted(t, root)
}

func TestScanEmptyDirectory(t *testing.T) {
	tmp := t.TempDir()

	for _, fast := range []bool{true, false} {
		root, _ := scanTest(t, tmp, 2, Options{FastMode: fast, SkipHidden: true})
		if root.Size != 0 {
			t.Errorf("fast=%v: empty dir size = %d, want 0", fast, root.Size)
		}
		if root.Children == nil || len(root.Children) != 0 {
			t.Errorf("fast=%v: expected present empty children, got %v", fast, root.Children)
		}
	}
}

func TestScanSingleFileRoot(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "only.bin")
	writeFile(t, path, 1234)

	root, events := scanTest(t, path, 2, DefaultOptions())

	if root.IsDir {
		t.Error("file root should not be a directory")
	}
	if root.Size != 1234 {
		t.Errorf("size = %d, want 1234", root.Size)
	}
	if root.Children != nil {
		t.Errorf("file root should have no children, got %v", root.Children)
	}
	if len(events) < 2 {
		t.Errorf("expected initial and final progress, got %d events", len(events))
	}
}

func TestScanDepthZero(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(tmp, "a"), 100)
	writeFile(t, filepath.Join(sub, "b"), 400)

	root, _ := scanTest(t, tmp, 0, Options{FastMode: false, SkipHidden: true})
	if len(root.Children) != 0 || root.Children == nil {
		t.Errorf("depth 0 root should have present empty children, got %v", root.Children)
	}
	if root.Size != 500 {
		t.Errorf("comprehensive depth 0 size = %d, want exact 500", root.Size)
	}

	fastRoot, _ := scanTest(t, tmp, 0, Options{FastMode: true, SkipHidden: true})
	if len(fastRoot.Children) != 0 {
		t.Errorf("fast depth 0 root should have empty children, got %v", fastRoot.Children)
	}
}

func TestScanLargeDirectoryShortCircuit(t *testing.T) {
	tmp := t.TempDir()
	bulk := filepath.Join(tmp, "bulk")
	if err := os.Mkdir(bulk, 0755); err != nil {
		t.Fatal(err)
	}
	const n = 1200
	for i := 0; i < n; i++ {
		writeFile(t, filepath.Join(bulk, fmt.Sprintf("f%04d", i)), 10)
	}

	root, _ := scanTest(t, tmp, 2, Options{FastMode: true, SkipHidden: true})

	if len(root.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(root.Children))
	}
	bulkNode := root.Children[0]
	if len(bulkNode.Children) != 0 {
		t.Errorf("large directory should not materialize children, got %d", len(bulkNode.Children))
	}

	// Sampled estimate over uniform file sizes must land near the real total
	want := uint64(n * 10)
	if bulkNode.Size < want/2 || bulkNode.Size > want*3/2 {
		t.Errorf("estimated size %d outside ±50%% of %d", bulkNode.Size, want)
	}

	// A large directory as the scan root short-circuits the same way
	asRoot, _ := scanTest(t, bulk, 2, Options{FastMode: true, SkipHidden: true})
	if len(asRoot.Children) != 0 {
		t.Errorf("large root should not materialize children, got %d", len(asRoot.Children))
	}
	if asRoot.Size < want/2 || asRoot.Size > want*3/2 {
		t.Errorf("large root estimate %d outside ±50%% of %d", asRoot.Size, want)
	}
}

func TestScanProgressContract(t *testing.T) {
	tmp := t.TempDir()
	sub := filepath.Join(tmp, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 30; i++ {
		writeFile(t, filepath.Join(tmp, fmt.Sprintf("f%d", i)), 1)
		writeFile(t, filepath.Join(sub, fmt.Sprintf("g%d", i)), 1)
	}

	_, events := scanTest(t, tmp, 2, DefaultOptions())

	if len(events) < 2 {
		t.Fatalf("expected at least initial and final events, got %d", len(events))
	}
	if events[0].ProcessedItems != 0 {
		t.Errorf("initial processed = %d, want 0", events[0].ProcessedItems)
	}
	last := events[len(events)-1]
	if last.ProcessedItems != last.TotalItems {
		t.Errorf("final processed %d != total %d", last.ProcessedItems, last.TotalItems)
	}
	for _, ev := range events {
		if ev.TotalItems != events[0].TotalItems {
			t.Errorf("total changed mid-scan: %d -> %d", events[0].TotalItems, ev.TotalItems)
		}
		if ev.Percent < 0 || ev.Percent > 100 {
			t.Errorf("percent out of range: %f", ev.Percent)
		}
	}
}

func TestScanMissingRoot(t *testing.T) {
	engine := NewEngine(nil)
	_, err := engine.Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), 2, DefaultOptions())
	if !errors.Is(err, ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}

func TestScanFastSortOrder(t *testing.T) {
	tmp := t.TempDir()
	for i, size := range []int{5, 500, 50, 5000, 1} {
		writeFile(t, filepath.Join(tmp, fmt.Sprintf("f%d", i)), size)
	}
	sub := filepath.Join(tmp, "sub")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(sub, "big"), 9000)

	root, _ := scanTest(t, tmp, 2, DefaultOptions())
	checkSorted(t, root)

	if root.Children[0].Name != "sub" {
		t.Errorf("largest child = %s, want sub", root.Children[0].Name)
	}
}
