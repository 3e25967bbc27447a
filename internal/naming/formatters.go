package naming

import (
	"regexp"
	"strings"
	"unicode"
)

// Formatter transforms a field value inside \format[...].
type Formatter func(string) string

var yearPattern = regexp.MustCompile(`\d{4}`)

var formatters = map[string]Formatter{
	"removebrackets":   removeBrackets,
	"tolowercase":      strings.ToLower,
	"touppercase":      strings.ToUpper,
	"firstauthor":      firstAuthor,
	"authorlastfirst":  authorLastFirst,
	"year":             yearPattern.FindString,
	"removewhitespace": removeWhitespace,
}

// LookupFormatter finds a formatter by case-insensitive name.
func LookupFormatter(name string) (Formatter, bool) {
	f, ok := formatters[strings.ToLower(name)]
	return f, ok
}

func removeBrackets(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

func removeWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func splitAuthors(s string) []string {
	var authors []string
	for _, a := range strings.Split(removeBrackets(s), " and ") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// lastFirst splits "First Last" or "Last, First" into its parts.
func lastFirst(author string) (last, first string) {
	if comma := strings.Index(author, ","); comma >= 0 {
		return strings.TrimSpace(author[:comma]), strings.TrimSpace(author[comma+1:])
	}
	words := strings.Fields(author)
	if len(words) == 0 {
		return "", ""
	}
	return words[len(words)-1], strings.Join(words[:len(words)-1], " ")
}

func firstAuthor(s string) string {
	authors := splitAuthors(s)
	if len(authors) == 0 {
		return ""
	}
	last, _ := lastFirst(authors[0])
	return last
}

func authorLastFirst(s string) string {
	authors := splitAuthors(s)
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		last, first := lastFirst(a)
		if first == "" {
			out = append(out, last)
			continue
		}
		out = append(out, last+", "+first)
	}
	return strings.Join(out, " and ")
}
