// Package importer wraps metadata readers as bibliography importers. An
// importer does no recognition of its own: it hands the file to a
// MetadataReader and packages whatever comes back as a ParserResult.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"bibfile/internal/domain"
	appErrors "bibfile/internal/errors"
)

// ErrUnsupported is returned by the stream based entry points, which
// metadata importers cannot serve.
var ErrUnsupported = fmt.Errorf("importer: %w", errors.ErrUnsupported)

// MetadataReader extracts entries from a file on disk.
type MetadataReader interface {
	ReadEntries(ctx context.Context, path string) ([]domain.Entry, error)
	HasMetadata(ctx context.Context, path string) (bool, error)
}

// XMPPreferences controls which fields survive an import.
type XMPPreferences struct {
	UsePrivacyFilter bool
	PrivacyFilter    []string
}

func (p XMPPreferences) filter(entries []domain.Entry) []domain.Entry {
	if !p.UsePrivacyFilter || len(p.PrivacyFilter) == 0 {
		return entries
	}
	for i := range entries {
		for _, field := range p.PrivacyFilter {
			entries[i].ClearField(strings.TrimSpace(field))
		}
	}
	return entries
}

type XMPImporter struct {
	reader MetadataReader
	prefs  XMPPreferences
}

func NewXMPImporter(reader MetadataReader, prefs XMPPreferences) *XMPImporter {
	return &XMPImporter{reader: reader, prefs: prefs}
}

func (i *XMPImporter) Name() string {
	return "XMP-annotated PDF"
}

func (i *XMPImporter) ID() string {
	return "xmp"
}

func (i *XMPImporter) Description() string {
	return "Reads bibliographic entries from the XMP metadata embedded in documents."
}

func (i *XMPImporter) Extensions() []string {
	return []string{".pdf", ".xmp", ".jpg", ".jpeg", ".tif", ".tiff"}
}

// Import reads the entries stored in the file at path. Failures are reported
// inside the result, never as a separate error.
func (i *XMPImporter) Import(ctx context.Context, path string) domain.ParserResult {
	entries, err := i.reader.ReadEntries(ctx, path)
	if err != nil {
		return domain.ParserResultFromError(appErrors.Wrap(appErrors.MetadataFailure, "import", path, err))
	}
	return domain.NewParserResult(i.prefs.filter(entries))
}

// Recognize reports whether path carries metadata the reader understands.
func (i *XMPImporter) Recognize(ctx context.Context, path string) (bool, error) {
	ok, err := i.reader.HasMetadata(ctx, path)
	if err != nil {
		return false, appErrors.Wrap(appErrors.MetadataFailure, "recognize", path, err)
	}
	return ok, nil
}

func (i *XMPImporter) ImportReader(r io.Reader) (domain.ParserResult, error) {
	if r == nil {
		return domain.ParserResult{}, errors.New("importer: nil reader")
	}
	return domain.ParserResult{}, appErrors.Wrap(appErrors.Unsupported, "import", "",
		fmt.Errorf("%w: %s cannot import from a stream, use Import with a file path", ErrUnsupported, i.Name()))
}

func (i *XMPImporter) RecognizeReader(r io.Reader) (bool, error) {
	if r == nil {
		return false, errors.New("importer: nil reader")
	}
	return false, appErrors.Wrap(appErrors.Unsupported, "recognize", "",
		fmt.Errorf("%w: %s cannot inspect a stream, use Recognize with a file path", ErrUnsupported, i.Name()))
}
