package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"bibfile/internal/domain"
)

type mockFS struct {
	entries []mockEntry
	exists  map[string]bool
	copies  []string
	renames []string
	failOn  string
}

type mockEntry struct {
	path  string
	isDir bool
	size  int64
}

func (m *mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	var skipped []string
	for _, entry := range m.entries {
		if entry.path != root && !strings.HasPrefix(entry.path, root+string(filepath.Separator)) {
			continue
		}
		if underAny(entry.path, skipped) {
			continue
		}
		dirEntry := mockDirEntry{name: filepath.Base(entry.path), isDir: entry.isDir}
		err := fn(entry.path, dirEntry, nil)
		switch {
		case err == fs.SkipDir && entry.isDir:
			skipped = append(skipped, entry.path)
		case err == fs.SkipAll:
			return nil
		case err != nil:
			return err
		}
	}
	return nil
}

func underAny(path string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	for _, entry := range m.entries {
		if entry.path == path {
			return mockFileInfo{name: filepath.Base(path), size: entry.size}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	return m.exists[path], nil
}

func (m *mockFS) MkdirAll(path string, perm fs.FileMode) error {
	return nil
}

func (m *mockFS) CopyFile(src, dst string) error {
	if dst == m.failOn {
		return errors.New("disk full")
	}
	m.copies = append(m.copies, src+" -> "+dst)
	m.exists[dst] = true
	return nil
}

func (m *mockFS) Rename(src, dst string) error {
	if dst == m.failOn {
		return errors.New("disk full")
	}
	m.renames = append(m.renames, src+" -> "+dst)
	delete(m.exists, src)
	m.exists[dst] = true
	return nil
}

type mockImporter struct {
	entries map[string][]domain.Entry
	errs    map[string]error
}

func (m mockImporter) Import(ctx context.Context, path string) domain.ParserResult {
	if err := ctx.Err(); err != nil {
		return domain.ParserResultFromError(err)
	}
	if err, ok := m.errs[path]; ok {
		return domain.ParserResultFromError(err)
	}
	return domain.NewParserResult(m.entries[path])
}

func keyed(key string) []domain.Entry {
	e := domain.NewEntry("article")
	e.CiteKey = key
	return []domain.Entry{e}
}

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string { return m.name }
func (m mockDirEntry) IsDir() bool  { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	if m.isDir {
		return fs.ModeDir
	}
	return 0
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name string
	size int64
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return m.size }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return false }
func (m mockFileInfo) Sys() interface{}   { return nil }
