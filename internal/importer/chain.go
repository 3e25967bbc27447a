package importer

import (
	"context"

	"bibfile/internal/domain"
)

type chain []MetadataReader

// FirstOf tries readers in order and returns the entries of the first one
// that finds any. When every reader fails, the first error is returned.
func FirstOf(readers ...MetadataReader) MetadataReader {
	return chain(readers)
}

func (c chain) ReadEntries(ctx context.Context, path string) ([]domain.Entry, error) {
	var firstErr error
	failures := 0
	for _, r := range c {
		entries, err := r.ReadEntries(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if firstErr == nil {
				firstErr = err
			}
			failures++
			continue
		}
		if len(entries) > 0 {
			return entries, nil
		}
	}
	if failures == len(c) {
		return nil, firstErr
	}
	return nil, nil
}

func (c chain) HasMetadata(ctx context.Context, path string) (bool, error) {
	entries, err := c.ReadEntries(ctx, path)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}
