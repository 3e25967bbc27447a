package naming

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"bibfile/internal/domain"
	"bibfile/internal/logging"
)

func TestCleanFileName(t *testing.T) {
	cases := map[string]string{
		"Smith2019":            "Smith2019",
		"{On} Things: a Study": "On Things_ a Study",
		`a/b\c*d?e"f<g>h|i`:    "a_b_c_d_e_f_g_h_i",
		" .hidden. ":           "hidden",
		"tab\there":            "tab_here",
		"Ünïcödé – title":      "Ünïcödé – title",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanFileName(in), "CleanFileName(%q)", in)
	}
}

func TestFileNameFromPattern(t *testing.T) {
	entry := sampleEntry()

	t.Run("renders and cleans", func(t *testing.T) {
		got := FileNameFromPattern(nil, entry, `\bibtexkey - \title`, logging.Logger{})
		assert.Equal(t, "Smith2019 - On Things_ a Study", got)
	})

	t.Run("empty render falls back to key", func(t *testing.T) {
		got := FileNameFromPattern(nil, entry, `\volume`, logging.Logger{})
		assert.Equal(t, "Smith2019", got)
	})

	t.Run("no key falls back to default", func(t *testing.T) {
		bare := domain.NewEntry("misc")
		got := FileNameFromPattern(nil, bare, `\title`, logging.Logger{})
		assert.Equal(t, "default", got)
	})

	t.Run("broken pattern is logged and falls back", func(t *testing.T) {
		var buf bytes.Buffer
		got := FileNameFromPattern(nil, entry, `\begin{title}`, logging.New(&buf, false))
		assert.Equal(t, "Smith2019", got)
		assert.Contains(t, buf.String(), "Wrong format")
	})

	t.Run("default pattern", func(t *testing.T) {
		assert.Equal(t, "Smith2019", FileNameFromPattern(nil, entry, DefaultPattern, logging.Logger{}))
	})
}
