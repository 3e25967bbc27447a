package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParentsAndKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.pdf")
	dst := filepath.Join(dir, "nested", "deeper", "b.pdf")
	if err := os.WriteFile(src, []byte("%PDF-1.4"), 0o640); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := (OSFS{}).CopyFile(src, dst); err != nil {
		t.Fatalf("copy: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected copy content %q (%v)", data, err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
}

func TestRenameReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "old.pdf")
	dst := filepath.Join(dir, "new.pdf")
	os.WriteFile(src, []byte("new"), 0o644)
	os.WriteFile(dst, []byte("old"), 0o644)

	if err := (OSFS{}).Rename(src, dst); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source gone, got %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Fatalf("expected replaced content, got %q", data)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	fsys := OSFS{}
	if ok, err := fsys.Exists(dir); err != nil || !ok {
		t.Fatalf("expected dir to exist: %v", err)
	}
	if ok, err := fsys.Exists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("expected missing file: ok=%v err=%v", ok, err)
	}
}
