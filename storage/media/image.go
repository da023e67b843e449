// Package media stores uploaded images on local disk or in a MinIO/S3 bucket.
package media

import (
	"bytes"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

// ThumbnailSize bounds the width and height of stored images.
const ThumbnailSize = 256

var allowedTypes = map[string]imaging.Format{
	"image/jpeg": imaging.JPEG,
	"image/png":  imaging.PNG,
	"image/gif":  imaging.GIF,
}

type preparedImage struct {
	data        []byte
	ext         string
	contentType string
}

// prepareImage sniffs data, rejects anything but JPEG/PNG/GIF under maxSize,
// and shrinks it to fit ThumbnailSize.
func prepareImage(data []byte, maxSize int64) (preparedImage, error) {
	if maxSize > 0 && int64(len(data)) > maxSize {
		return preparedImage{}, core.ErrFileTooLarge
	}
	mt := mimetype.Detect(data)
	format, ok := allowedTypes[mt.String()]
	if !ok {
		return preparedImage{}, core.ErrUnsupportedFileType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return preparedImage{}, core.ErrUnsupportedFileType
	}
	b := img.Bounds()
	if b.Dx() > ThumbnailSize || b.Dy() > ThumbnailSize {
		img = imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, format); err != nil {
		return preparedImage{}, errors.Wrap(err, "encoding image")
	}
	return preparedImage{data: buf.Bytes(), ext: mt.Extension(), contentType: mt.String()}, nil
}
