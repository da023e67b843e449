package media

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scsit/ges/core"
)

// DiskStore writes files under dir and serves them from baseURL (see apps/api/echo static route).
type DiskStore struct {
	dir     string
	baseURL string
	maxSize int64
}

var _ core.MediaStore = (*DiskStore)(nil)

func NewDiskStore(dir, baseURL string, maxSize int64) *DiskStore {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &DiskStore{dir: dir, baseURL: baseURL, maxSize: maxSize}
}

func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) SaveImage(_ context.Context, folder string, data []byte) (string, error) {
	img, err := prepareImage(data, s.maxSize)
	if err != nil {
		return "", err
	}

	name := path.Join(folder, uuid.New().String()+img.ext)
	fp := filepath.Join(s.dir, filepath.FromSlash(name))
	if err = os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
		return "", errors.Wrap(err, "creating media folder")
	}
	if err = os.WriteFile(fp, img.data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing media file")
	}
	return s.baseURL + name, nil
}

func (s *DiskStore) Delete(_ context.Context, url string) error {
	name := strings.TrimPrefix(url, s.baseURL)
	if name == url || name == "" || strings.Contains(name, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(name)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing media file")
	}
	return nil
}
