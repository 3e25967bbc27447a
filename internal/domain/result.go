package domain

// ParserResult is what an importer hands back: the entries it found, any
// non-fatal warnings, and the error that stopped it, if one did.
type ParserResult struct {
	Entries  []Entry
	Warnings []string
	Err      error
}

func NewParserResult(entries []Entry) ParserResult {
	return ParserResult{Entries: entries}
}

func ParserResultFromError(err error) ParserResult {
	return ParserResult{Err: err}
}

func (r *ParserResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

func (r ParserResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r ParserResult) IsEmpty() bool {
	return len(r.Entries) == 0
}

func (r ParserResult) Failed() bool {
	return r.Err != nil
}
