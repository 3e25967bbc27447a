package naming

import (
	"strings"

	"bibfile/internal/domain"
	"bibfile/internal/logging"
)

// DefaultPattern names files after the entry's citation key.
const DefaultPattern = `\bibtexkey`

const fallbackName = "default"

// FileNameFromPattern suggests a file name, without extension, for entry.
// A pattern that does not parse is logged and treated like an empty result,
// which falls back to the citation key and then to "default".
func FileNameFromPattern(db *domain.Database, entry domain.Entry, pattern string, logger logging.Logger) string {
	var target string
	layout, err := Parse(pattern)
	if err != nil {
		logger.Infof("Wrong format %v", err)
	} else {
		target = strings.TrimSpace(layout.Render(entry, db))
	}

	if target == "" {
		target = entry.CiteKey
	}
	if target == "" {
		target = fallbackName
	}

	if cleaned := CleanFileName(target); cleaned != "" {
		return cleaned
	}
	return fallbackName
}
