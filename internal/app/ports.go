package app

import (
	"context"
	"io/fs"

	"bibfile/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Rename(src, dst string) error
}

type Importer interface {
	Import(ctx context.Context, path string) domain.ParserResult
}
