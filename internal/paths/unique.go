package paths

import (
	"path/filepath"
	"strings"
)

// UniqueSuffixes returns, for every path, the shortest run of trailing
// segments that no other path in the set shares. Paths are split on the
// platform separator.
func UniqueSuffixes(paths []string) []string {
	return UniqueSuffixesSep(paths, string(filepath.Separator))
}

// UniqueSuffixesSep is UniqueSuffixes with an explicit separator.
//
// Suffixes grow one segment per round, right to left. After each round every
// suffix that occurs exactly once in the whole result set is settled and stops
// growing. Identical paths never settle and end up as their full path.
func UniqueSuffixesSep(paths []string, sep string) []string {
	segments := make([][]string, len(paths))
	cursors := make([]int, len(paths))
	for i, p := range paths {
		segments[i] = split(p, sep)
		cursors[i] = len(segments[i]) - 1
	}

	suffixes := make([]string, len(paths))
	for growing(cursors) {
		for i := range suffixes {
			if cursors[i] < 0 {
				continue
			}
			segment := segments[i][cursors[i]]
			if suffixes[i] == "" {
				suffixes[i] = segment
			} else {
				suffixes[i] = segment + sep + suffixes[i]
			}
			cursors[i]--
		}

		counts := make(map[string]int, len(suffixes))
		for _, s := range suffixes {
			counts[s]++
		}
		for i, s := range suffixes {
			if counts[s] == 1 {
				cursors[i] = -1
			}
		}
	}
	return suffixes
}

func growing(cursors []int) bool {
	for _, c := range cursors {
		if c >= 0 {
			return true
		}
	}
	return false
}

// split drops trailing empty segments but always keeps at least one, so ""
// becomes [""] and "a/b/" becomes ["a", "b"].
func split(path, sep string) []string {
	parts := strings.Split(path, sep)
	end := len(parts)
	for end > 1 && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
