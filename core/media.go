package core

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrFileTooLarge        = errors.New("file too large")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// MediaStore stores uploaded images and hands back their public URL.
type MediaStore interface {
	// SaveImage checks, resizes and stores data under folder.
	// It fails with ErrFileTooLarge or ErrUnsupportedFileType on bad input.
	SaveImage(ctx context.Context, folder string, data []byte) (url string, err error)
	// Delete removes a file previously returned by SaveImage. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}
