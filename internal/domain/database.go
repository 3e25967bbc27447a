package domain

import (
	"regexp"
	"strings"
)

var stringRefPattern = regexp.MustCompile(`#([^#\s]+)#`)

// Database is the set of entries a file name is rendered against. Strings
// holds @string definitions used by #name# references in field values.
type Database struct {
	Entries []Entry
	Strings map[string]string
}

// Resolve replaces #name# references with their @string values. Unknown
// names are left untouched.
func (d *Database) Resolve(value string) string {
	if d == nil || len(d.Strings) == 0 || !strings.Contains(value, "#") {
		return value
	}
	return stringRefPattern.ReplaceAllStringFunc(value, func(ref string) string {
		name := strings.ToLower(ref[1 : len(ref)-1])
		for key, replacement := range d.Strings {
			if strings.ToLower(key) == name {
				return replacement
			}
		}
		return ref
	})
}
