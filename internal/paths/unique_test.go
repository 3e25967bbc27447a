package paths

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestUniqueSuffixesSep(t *testing.T) {
	cases := []struct {
		name  string
		paths []string
		want  []string
	}{
		{
			name:  "empty input",
			paths: []string{},
			want:  []string{},
		},
		{
			name:  "single path keeps file name",
			paths: []string{"home/user/docs/paper.bib"},
			want:  []string{"paper.bib"},
		},
		{
			name:  "same file name in different folders",
			paths: []string{"x/y/paper.bib", "x/z/paper.bib"},
			want:  []string{"y/paper.bib", "z/paper.bib"},
		},
		{
			name:  "shorter path exhausted first",
			paths: []string{"paper.bib", "dir/paper.bib"},
			want:  []string{"paper.bib", "dir/paper.bib"},
		},
		{
			name:  "duplicates stay full",
			paths: []string{"a/b/c.txt", "a/b/c.txt"},
			want:  []string{"a/b/c.txt", "a/b/c.txt"},
		},
		{
			name:  "different file names need no folder",
			paths: []string{"lit/one.pdf", "lit/two.pdf", "other/three.pdf"},
			want:  []string{"one.pdf", "two.pdf", "three.pdf"},
		},
		{
			name:  "settled path keeps its suffix while others grow",
			paths: []string{"a/x/doc.pdf", "b/x/doc.pdf", "c/y/doc.pdf"},
			want:  []string{"a/x/doc.pdf", "b/x/doc.pdf", "y/doc.pdf"},
		},
		{
			name:  "absolute paths",
			paths: []string{"/home/a/paper.pdf", "/home/b/paper.pdf", "/home/a/paper.pdf"},
			want:  []string{"/home/a/paper.pdf", "b/paper.pdf", "/home/a/paper.pdf"},
		},
		{
			name:  "trailing separator ignored",
			paths: []string{"lit/a/", "lit/b"},
			want:  []string{"a", "b"},
		},
		{
			name:  "empty path is a single empty segment",
			paths: []string{"", "doc.pdf"},
			want:  []string{"", "doc.pdf"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := UniqueSuffixesSep(tc.paths, "/")
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("UniqueSuffixesSep(%q) = %q, want %q", tc.paths, got, tc.want)
			}
		})
	}
}

func TestUniqueSuffixesUsesPlatformSeparator(t *testing.T) {
	in := []string{
		filepath.Join("lib", "2019", "paper.pdf"),
		filepath.Join("lib", "2020", "paper.pdf"),
	}
	want := []string{
		filepath.Join("2019", "paper.pdf"),
		filepath.Join("2020", "paper.pdf"),
	}
	if got := UniqueSuffixes(in); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected suffixes %q", got)
	}
}

func TestUniqueSuffixesDoesNotMutateInput(t *testing.T) {
	in := []string{"x/y/paper.bib", "x/z/paper.bib"}
	before := append([]string(nil), in...)
	UniqueSuffixesSep(in, "/")
	if !reflect.DeepEqual(in, before) {
		t.Fatalf("input changed: %q", in)
	}
}

func TestUniqueSuffixesProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	names := []string{"a", "b", "c", "lit", "paper.pdf", "notes.bib"}

	for round := 0; round < 200; round++ {
		n := rng.Intn(6)
		seen := map[string]bool{}
		var in []string
		for len(in) < n {
			depth := 1 + rng.Intn(4)
			parts := make([]string, depth)
			for d := range parts {
				parts[d] = names[rng.Intn(len(names))]
			}
			p := strings.Join(parts, "/")
			if seen[p] {
				continue
			}
			seen[p] = true
			in = append(in, p)
		}

		got := UniqueSuffixesSep(in, "/")
		if len(got) != len(in) {
			t.Fatalf("len mismatch for %q: %d", in, len(got))
		}

		counts := map[string]int{}
		for _, s := range got {
			counts[s]++
		}
		for i, s := range got {
			if counts[s] != 1 {
				t.Fatalf("suffix %q of %q is not unique in %q", s, in[i], got)
			}
			if s != in[i] && !strings.HasSuffix(in[i], "/"+s) {
				t.Fatalf("%q is not a segment suffix of %q", s, in[i])
			}
			assertMinimal(t, in, got, i)
		}
	}
}

// assertMinimal checks that one segment less would have collided with the
// state another path had in the previous round.
func assertMinimal(t *testing.T, in, got []string, i int) {
	t.Helper()
	k := len(strings.Split(got[i], "/"))
	if k == 1 {
		return
	}
	shorter := lastSegments(in[i], k-1)
	for j := range in {
		if j == i {
			continue
		}
		state := lastSegments(in[j], k-1)
		if len(strings.Split(got[j], "/")) <= k-1 {
			state = got[j]
		}
		if state == shorter {
			return
		}
	}
	t.Fatalf("suffix %q of %q is longer than needed (%q would do) in %q", got[i], in[i], shorter, in)
}

func lastSegments(p string, n int) string {
	parts := strings.Split(p, "/")
	if n > len(parts) {
		n = len(parts)
	}
	return strings.Join(parts[len(parts)-n:], "/")
}

func TestUniqueSuffixesConcurrentCalls(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := []string{fmt.Sprintf("r%d/x/doc.pdf", i), fmt.Sprintf("r%d/y/doc.pdf", i)}
			got := UniqueSuffixesSep(in, "/")
			if got[0] != "x/doc.pdf" || got[1] != "y/doc.pdf" {
				t.Errorf("unexpected result %q", got)
			}
		}(i)
	}
	wg.Wait()
}
