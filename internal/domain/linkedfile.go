package domain

import "strings"

// LinkedFile is one element of an entry's file field.
type LinkedFile struct {
	Description string
	Link        string
	FileType    string
}

func (f LinkedFile) IsOnline() bool {
	link := strings.ToLower(f.Link)
	return strings.HasPrefix(link, "http://") ||
		strings.HasPrefix(link, "https://") ||
		strings.HasPrefix(link, "ftp://")
}

// ParseFileField decodes "description:link:type" records separated by ";".
// A backslash escapes the next character. A record with a single part is a
// bare link. Records without a link are dropped.
func ParseFileField(value string) []LinkedFile {
	var files []LinkedFile
	var parts []string
	var current strings.Builder
	escaped := false

	flush := func() {
		parts = append(parts, current.String())
		current.Reset()
		if file, ok := fileFromParts(parts); ok {
			files = append(files, file)
		}
		parts = nil
	}

	for _, r := range value {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			parts = append(parts, current.String())
			current.Reset()
		case r == ';':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 || len(parts) > 0 {
		flush()
	}
	return files
}

func fileFromParts(parts []string) (LinkedFile, bool) {
	var file LinkedFile
	switch {
	case len(parts) == 1:
		file.Link = parts[0]
	case len(parts) == 2:
		file.Description, file.Link = parts[0], parts[1]
	case len(parts) >= 3:
		file.Description = parts[0]
		file.Link = strings.Join(parts[1:len(parts)-1], ":")
		file.FileType = parts[len(parts)-1]
	}
	file.Link = strings.TrimSpace(file.Link)
	return file, file.Link != ""
}

// FormatFileField is the inverse of ParseFileField.
func FormatFileField(files []LinkedFile) string {
	records := make([]string, 0, len(files))
	for _, f := range files {
		records = append(records, escapeFilePart(f.Description)+":"+escapeFilePart(f.Link)+":"+escapeFilePart(f.FileType))
	}
	return strings.Join(records, ";")
}

func escapeFilePart(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\\' || r == ':' || r == ';' {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
