package session

import (
	"crypto/sha256"
	"crypto/sha512"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/pkg/errors"
)

const cookieName = "ges-session"

// FileStore keeps the session in a single signed and encrypted file.
type FileStore struct {
	path  string
	codec *securecookie.SecureCookie
}

var _ Store = (*FileStore)(nil)

// NewFileStore derives the signing and encryption keys from secret.
func NewFileStore(path, secret string) *FileStore {
	hashKey := sha512.Sum512([]byte(secret))
	blockKey := sha256.Sum256([]byte(secret))

	codec := securecookie.New(hashKey[:], blockKey[:])
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(0)
	codec.MaxLength(0)
	return &FileStore{path: path, codec: codec}
}

func (f *FileStore) Save(s Session) error {
	encoded, err := f.codec.Encode(cookieName, s)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err = os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(f.path, []byte(encoded), 0600), "writing session")
}

func (f *FileStore) Load() (Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		return Session{}, errors.Wrap(err, "reading session")
	}

	var s Session
	if err = f.codec.Decode(cookieName, strings.TrimSpace(string(data)), &s); err != nil {
		return Session{}, errors.Wrap(err, "decoding session")
	}
	if s.Access == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

func (f *FileStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session")
	}
	return nil
}
