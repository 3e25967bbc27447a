package exif

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"bibfile/internal/domain"
)

// Reader turns the EXIF block of scanned pages and figures into entries.
type Reader struct{}

// ReadEntries maps ImageDescription, Artist, Copyright and the capture date
// to a single misc entry. An image without any of the text tags yields no
// entries.
func (Reader) ReadEntries(ctx context.Context, path string) ([]domain.Entry, error) {
	x, err := decode(ctx, path)
	if err != nil {
		return nil, err
	}

	entry := domain.NewEntry(domain.DefaultType)
	found := false
	for field, name := range map[string]goexif.FieldName{
		domain.TitleField:  goexif.ImageDescription,
		domain.AuthorField: goexif.Artist,
		"rights":           goexif.Copyright,
	} {
		if value := stringTag(x, name); value != "" {
			entry.SetField(field, value)
			found = true
		}
	}
	if !found {
		return nil, nil
	}
	if t, err := takenAt(x); err == nil {
		entry.SetField(domain.YearField, fmt.Sprintf("%04d", t.Year()))
		entry.SetField(domain.MonthField, fmt.Sprintf("%02d", int(t.Month())))
	}
	return []domain.Entry{entry}, nil
}

func (r Reader) HasMetadata(ctx context.Context, path string) (bool, error) {
	entries, err := r.ReadEntries(ctx, path)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

func decode(ctx context.Context, path string) (*goexif.Exif, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return goexif.Decode(file)
}

func takenAt(x *goexif.Exif) (time.Time, error) {
	if tag, err := x.Get(goexif.DateTimeOriginal); err == nil {
		if str, err := tag.StringVal(); err == nil {
			parsed, err := time.Parse("2006:01:02 15:04:05", str)
			if err == nil {
				return parsed, nil
			}
		}
	}

	if parsed, err := x.DateTime(); err == nil {
		return parsed, nil
	}

	return time.Time{}, errors.New("exif datetime not found")
}

func stringTag(x *goexif.Exif, name goexif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	value, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(value, "\x00"))
}
