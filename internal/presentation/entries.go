package presentation

import (
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"bibfile/internal/domain"
)

// ReadEntries decodes entries from YAML in the layout PrintParserResult
// writes, so the output of "import --output yaml" can be fed back in.
func ReadEntries(r io.Reader) ([]domain.Entry, error) {
	dec := yaml.NewDecoder(r)
	var entries []domain.Entry
	for {
		var views []resultView
		err := dec.Decode(&views)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, err
		}
		for _, view := range views {
			for _, ev := range view.Entries {
				entry := domain.NewEntry(ev.Type)
				entry.CiteKey = ev.Key
				for name, value := range ev.Fields {
					entry.SetField(name, value)
				}
				entries = append(entries, entry)
			}
		}
	}
}
