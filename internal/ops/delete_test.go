package ops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDeleteFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "victim.txt")
	if err := os.WriteFile(path, []byte("bye"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Delete(path, tmp); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after delete")
	}
}

func TestDeleteDirectoryRecursive(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "sub")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "f"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Delete(dir, tmp); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("directory still exists after delete")
	}
}

func TestDeleteRefusesOutsideRoot(t *testing.T) {
	tmp := t.TempDir()
	outside := filepath.Join(t.TempDir(), "other.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Delete(outside, tmp); err == nil {
		t.Error("expected refusal for path outside root")
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("file outside root was removed")
	}
}

func TestDeleteRefusesRootItself(t *testing.T) {
	tmp := t.TempDir()
	if err := Delete(tmp, tmp); err == nil {
		t.Error("expected refusal for the root itself")
	}
}

func TestDeleteUnconstrained(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Delete(path, ""); err != nil {
		t.Fatalf("unconstrained delete failed: %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	tmp := t.TempDir()
	if err := Delete(filepath.Join(tmp, "nope"), tmp); err == nil {
		t.Error("expected error for missing path")
	}
}
