// Package paths holds pure helpers for file names and path strings used when
// displaying and resolving linked documents. Nothing here touches the disk.
package paths

import (
	"path/filepath"
	"sort"
	"strings"
)

// FileName returns the part of name in front of the last ".".
func FileName(name string) string {
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		return name[:dot]
	}
	return name
}

// AddExtension appends ext to the last element of path without replacing the
// existing extension: "demo.bib" + ".sav" is "demo.bib.sav". A trailing
// separator is dropped first, so "dir/" + ".bak" is "dir.bak".
func AddExtension(path, ext string) string {
	if path == "" {
		return ext
	}
	return filepath.Clean(path) + ext
}

// ResolveSibling resolves to against the directory of from. An absolute to
// is returned unchanged.
func ResolveSibling(from, to string) string {
	if filepath.IsAbs(to) {
		return filepath.Clean(to)
	}
	return filepath.Join(filepath.Dir(from), to)
}

// Shorten makes an absolute file relative to the most specific directory in
// dirs that contains it. Relative files, and files outside every dir, are
// returned as is.
func Shorten(file string, dirs []string) string {
	if !filepath.IsAbs(file) {
		return file
	}

	ordered := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if dir != "" {
			ordered = append(ordered, filepath.Clean(dir))
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	clean := filepath.Clean(file)
	for _, dir := range ordered {
		if !HasPrefix(clean, dir) {
			continue
		}
		rel, err := filepath.Rel(dir, clean)
		if err == nil {
			return rel
		}
	}
	return file
}

// HasPrefix reports whether p is prefix or lies below it, respecting path
// boundaries: "/a/bc" is not under "/a/b".
func HasPrefix(p, prefix string) bool {
	prefix = filepath.Clean(prefix)
	if p == prefix {
		return true
	}
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		return strings.HasPrefix(p, prefix)
	}
	return strings.HasPrefix(p, prefix+string(filepath.Separator))
}
