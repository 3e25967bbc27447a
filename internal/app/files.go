package app

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"bibfile/internal/domain"
	appErrors "bibfile/internal/errors"
	"bibfile/internal/logging"
	"bibfile/internal/paths"
)

// FileOps bundles the file operations behind linked documents: copy and
// rename with overwrite control, and searching directory trees.
type FileOps struct {
	FS     FileSystem
	Logger logging.Logger
}

// Copy copies src to dst. An existing dst is only replaced when replace is
// set.
func (f *FileOps) Copy(src, dst string, replace bool) error {
	if err := f.requireSource("copy", src); err != nil {
		return err
	}
	if err := f.guardTarget("copy", dst, replace); err != nil {
		return err
	}
	if err := f.FS.CopyFile(src, dst); err != nil {
		f.Logger.Errorf("copying %s to %s failed: %v", src, dst, err)
		return appErrors.Wrap(appErrors.IOFailure, "copy", dst, err)
	}
	f.Logger.Verbosef("Copied %s to %s", src, dst)
	return nil
}

// Rename moves from to to. A relative to is taken as a sibling of from.
func (f *FileOps) Rename(from, to string, replace bool) error {
	target := paths.ResolveSibling(from, to)
	if err := f.requireSource("rename", from); err != nil {
		return err
	}
	if filepath.Clean(from) == target {
		return nil
	}
	if err := f.guardTarget("rename", target, replace); err != nil {
		return err
	}
	if err := f.FS.Rename(from, target); err != nil {
		f.Logger.Errorf("renaming %s to %s failed: %v", from, target, err)
		return appErrors.Wrap(appErrors.IOFailure, "rename", target, err)
	}
	f.Logger.Verbosef("Renamed %s to %s", from, target)
	return nil
}

func (f *FileOps) requireSource(op, src string) error {
	exists, err := f.FS.Exists(src)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, op, src, err)
	}
	if !exists {
		f.Logger.Errorf("source file %s does not exist", src)
		return appErrors.Wrap(appErrors.NotFound, op, src, fs.ErrNotExist)
	}
	return nil
}

func (f *FileOps) guardTarget(op, dst string, replace bool) error {
	if replace {
		return nil
	}
	exists, err := f.FS.Exists(dst)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, op, dst, err)
	}
	if exists {
		f.Logger.Errorf("target file %s exists and may not be replaced", dst)
		return appErrors.Wrap(appErrors.AlreadyExists, op, dst, fs.ErrExist)
	}
	return nil
}

// Find walks root and returns the first regular file called name. Symlinks
// count when they point at a regular file.
func (f *FileOps) Find(name, root string) (string, bool) {
	var found string
	err := f.FS.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.Name() == name && f.isFile(path, d) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		f.Logger.Errorf("could not locate %s inside %s: %v", name, root, err)
		return "", false
	}
	return found, found != ""
}

// FindIn runs Find on every dir and returns the hits in dir order.
func (f *FileOps) FindIn(name string, dirs []string) []string {
	var hits []string
	for _, dir := range dirs {
		if path, ok := f.Find(name, dir); ok {
			hits = append(hits, path)
		}
	}
	return hits
}

// FindMatching returns the regular files (or symlinks to them) below dirs whose path relative to
// their dir matches the doublestar pattern, e.g. "**/*.pdf".
func (f *FileOps) FindMatching(pattern string, dirs []string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, appErrors.Wrap(appErrors.InvalidConfig, "find", "", errors.New("invalid glob pattern "+pattern))
	}

	var hits []string
	for _, dir := range dirs {
		err := f.FS.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if !f.isFile(path, d) {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			ok, err := doublestar.Match(filepath.ToSlash(pattern), filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			if ok {
				hits = append(hits, path)
			}
			return nil
		})
		if err != nil {
			return nil, appErrors.Wrap(appErrors.IOFailure, "find", dir, err)
		}
	}
	return hits, nil
}

// isFile reports whether the walked entry is a regular file or a symlink to
// one. Symlinked directories are not descended into.
func (f *FileOps) isFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := f.FS.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// LinkedFiles resolves the file field of every entry against dirs.
// Absolute links must exist as given; relative links are tried in each dir
// in order. Online links and files that cannot be found are skipped.
func (f *FileOps) LinkedFiles(entries []domain.Entry, dirs []string) []string {
	var resolved []string
	for _, entry := range entries {
		for _, file := range entry.Files() {
			if file.IsOnline() {
				continue
			}
			if path, ok := f.resolveLink(file.Link, dirs); ok {
				resolved = append(resolved, path)
			} else {
				f.Logger.Verbosef("Linked file %s of %s not found", file.Link, entry.CiteKey)
			}
		}
	}
	return resolved
}

func (f *FileOps) resolveLink(link string, dirs []string) (string, bool) {
	candidates := []string{link}
	if !filepath.IsAbs(link) {
		candidates = candidates[:0]
		for _, dir := range dirs {
			candidates = append(candidates, filepath.Join(dir, link))
		}
	}
	for _, candidate := range candidates {
		if ok, err := f.FS.Exists(candidate); err == nil && ok {
			return candidate, true
		}
	}
	return "", false
}
