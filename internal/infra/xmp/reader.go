// Package xmp reads Dublin Core metadata from XMP packets embedded in PDFs,
// images and .xmp sidecar files.
//
// Packets are located by scanning the raw bytes, so metadata stored in
// compressed PDF object streams is not seen.
package xmp

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"regexp"
	"strings"

	"bibfile/internal/domain"
)

const keyRelationPrefix = "bibtexkey/"

var (
	metaOpen  = []byte("<x:xmpmeta")
	metaClose = []byte("</x:xmpmeta>")
	rdfOpen   = []byte("<rdf:RDF")
	rdfClose  = []byte("</rdf:RDF>")

	yearPattern  = regexp.MustCompile(`^\s*(\d{4})`)
	monthPattern = regexp.MustCompile(`^\s*\d{4}-(\d{2})`)
)

type Reader struct{}

// ReadEntries returns one entry per rdf:Description carrying Dublin Core
// properties. A file without XMP yields no entries and no error.
func (Reader) ReadEntries(ctx context.Context, path string) ([]domain.Entry, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []domain.Entry
	for _, packet := range FindPackets(data) {
		parsed, err := Parse(packet)
		if err != nil {
			return nil, fmt.Errorf("xmp packet in %s: %w", path, err)
		}
		entries = append(entries, parsed...)
	}
	return entries, nil
}

func (r Reader) HasMetadata(ctx context.Context, path string) (bool, error) {
	entries, err := r.ReadEntries(ctx, path)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// FindPackets returns every x:xmpmeta element in data. Bare rdf:RDF
// elements are returned only when no x:xmpmeta is present.
func FindPackets(data []byte) [][]byte {
	if packets := between(data, metaOpen, metaClose); len(packets) > 0 {
		return packets
	}
	return between(data, rdfOpen, rdfClose)
}

func between(data, open, close []byte) [][]byte {
	var packets [][]byte
	for {
		start := bytes.Index(data, open)
		if start < 0 {
			return packets
		}
		end := bytes.Index(data[start:], close)
		if end < 0 {
			return packets
		}
		end += start + len(close)
		packets = append(packets, data[start:end])
		data = data[end:]
	}
}

type xmpMeta struct {
	RDF rdfRoot `xml:"RDF"`
}

type rdfRoot struct {
	Descriptions []description `xml:"Description"`
}

type description struct {
	Title       container `xml:"http://purl.org/dc/elements/1.1/ title"`
	Creator     container `xml:"http://purl.org/dc/elements/1.1/ creator"`
	Contributor container `xml:"http://purl.org/dc/elements/1.1/ contributor"`
	Date        container `xml:"http://purl.org/dc/elements/1.1/ date"`
	Description container `xml:"http://purl.org/dc/elements/1.1/ description"`
	Publisher   container `xml:"http://purl.org/dc/elements/1.1/ publisher"`
	Identifier  container `xml:"http://purl.org/dc/elements/1.1/ identifier"`
	Subject     container `xml:"http://purl.org/dc/elements/1.1/ subject"`
	Source      container `xml:"http://purl.org/dc/elements/1.1/ source"`
	Rights      container `xml:"http://purl.org/dc/elements/1.1/ rights"`
	Language    container `xml:"http://purl.org/dc/elements/1.1/ language"`
	Type        container `xml:"http://purl.org/dc/elements/1.1/ type"`
	Relation    container `xml:"http://purl.org/dc/elements/1.1/ relation"`
}

// container holds either an rdf:Alt, rdf:Seq or rdf:Bag, or plain text.
type container struct {
	Alt  rdfList `xml:"Alt"`
	Seq  rdfList `xml:"Seq"`
	Bag  rdfList `xml:"Bag"`
	Text string  `xml:",chardata"`
}

type rdfList struct {
	Items []string `xml:"li"`
}

func (c container) values() []string {
	var out []string
	for _, list := range []rdfList{c.Alt, c.Seq, c.Bag} {
		for _, item := range list.Items {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	if len(out) == 0 {
		if text := strings.TrimSpace(c.Text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (c container) first() string {
	if values := c.values(); len(values) > 0 {
		return values[0]
	}
	return ""
}

// Parse decodes one packet, either an x:xmpmeta or a bare rdf:RDF element.
func Parse(packet []byte) ([]domain.Entry, error) {
	var root rdfRoot
	if bytes.HasPrefix(packet, metaOpen) {
		var meta xmpMeta
		if err := xml.Unmarshal(packet, &meta); err != nil {
			return nil, err
		}
		root = meta.RDF
	} else if err := xml.Unmarshal(packet, &root); err != nil {
		return nil, err
	}

	var entries []domain.Entry
	for _, d := range root.Descriptions {
		if entry, ok := d.entry(); ok {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (d description) entry() (domain.Entry, bool) {
	entry := domain.NewEntry(strings.ToLower(d.Type.first()))

	for _, relation := range d.Relation.values() {
		if strings.HasPrefix(relation, keyRelationPrefix) {
			entry.CiteKey = strings.TrimPrefix(relation, keyRelationPrefix)
		}
	}

	setIfPresent(&entry, domain.TitleField, d.Title.first())
	setIfPresent(&entry, domain.AuthorField, strings.Join(d.Creator.values(), " and "))
	setIfPresent(&entry, "editor", strings.Join(d.Contributor.values(), " and "))
	setIfPresent(&entry, "abstract", d.Description.first())
	setIfPresent(&entry, "publisher", strings.Join(d.Publisher.values(), " and "))
	setIfPresent(&entry, domain.KeywordsField, strings.Join(d.Subject.values(), ", "))
	setIfPresent(&entry, "journal", d.Source.first())
	setIfPresent(&entry, "rights", d.Rights.first())
	setIfPresent(&entry, "language", d.Language.first())

	if id := d.Identifier.first(); id != "" {
		if strings.HasPrefix(strings.ToLower(id), "doi:") {
			id = strings.TrimSpace(id[len("doi:"):])
		}
		setIfPresent(&entry, "doi", id)
	}

	date := d.Date.first()
	if m := yearPattern.FindStringSubmatch(date); m != nil {
		entry.SetField(domain.YearField, m[1])
	}
	if m := monthPattern.FindStringSubmatch(date); m != nil {
		entry.SetField(domain.MonthField, m[1])
	}

	return entry, entry.CiteKey != "" || len(entry.FieldNames()) > 0
}

func setIfPresent(entry *domain.Entry, field, value string) {
	if value != "" {
		entry.SetField(field, value)
	}
}
