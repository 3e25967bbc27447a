package domain

import (
	"sort"
	"strings"
)

// Field names with special meaning.
const (
	FileField     = "file"
	KeyField      = "bibtexkey"
	TypeField     = "entrytype"
	DefaultType   = "misc"
	AuthorField   = "author"
	TitleField    = "title"
	YearField     = "year"
	MonthField    = "month"
	KeywordsField = "keywords"
)

// Entry is a single bibliography record. Field names are stored lower case.
type Entry struct {
	Type    string
	CiteKey string
	Fields  map[string]string
}

func NewEntry(entryType string) Entry {
	if entryType == "" {
		entryType = DefaultType
	}
	return Entry{
		Type:   strings.ToLower(entryType),
		Fields: map[string]string{},
	}
}

// Field returns the value of name. The pseudo fields "bibtexkey" and
// "entrytype" map to CiteKey and Type.
func (e Entry) Field(name string) (string, bool) {
	name = strings.ToLower(name)
	switch name {
	case KeyField:
		return e.CiteKey, e.CiteKey != ""
	case TypeField:
		return e.Type, e.Type != ""
	}
	value, ok := e.Fields[name]
	return value, ok && value != ""
}

func (e *Entry) SetField(name, value string) {
	name = strings.ToLower(name)
	switch name {
	case KeyField:
		e.CiteKey = value
		return
	case TypeField:
		e.Type = strings.ToLower(value)
		return
	}
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[name] = value
}

func (e *Entry) ClearField(name string) {
	delete(e.Fields, strings.ToLower(name))
}

// FieldNames returns the names of all set fields in sorted order.
func (e Entry) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name, value := range e.Fields {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Files decodes the file field.
func (e Entry) Files() []LinkedFile {
	value, ok := e.Field(FileField)
	if !ok {
		return nil
	}
	return ParseFileField(value)
}

// AddFile appends file to the file field.
func (e *Entry) AddFile(file LinkedFile) {
	files := append(e.Files(), file)
	e.SetField(FileField, FormatFileField(files))
}
