package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload buckets, one directory each under the upload root.
const (
	MenuImages  = "menu_images"
	Logos       = "logos"
	ProfilePics = "profile_pics"
)

var (
	ErrInvalidExtension = errors.New("only jpg and png images are allowed")
	ErrTooLarge         = errors.New("file is too large")
	ErrUnknownBucket    = errors.New("unknown upload bucket")
)

var allowExtensions = []string{".jpg", ".jpeg", ".png"}

func isValidImageExtension(filename string) bool {
	fileExt := strings.ToLower(filepath.Ext(filename))
	for _, allowExt := range allowExtensions {
		if fileExt == allowExt {
			return true
		}
	}
	return false
}

func knownBucket(bucket string) bool {
	switch bucket {
	case MenuImages, Logos, ProfilePics:
		return true
	}
	return false
}

// makeUniqueFileName keeps only the extension of the client name.
func makeUniqueFileName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// LocalStore keeps uploads on the local disk under Root/<bucket>/<name>.
type LocalStore struct {
	Root     string
	MaxBytes int64
}

func NewLocalStore(root string, maxBytes int64) *LocalStore {
	return &LocalStore{Root: root, MaxBytes: maxBytes}
}

// Save writes file into bucket and returns the stored name.
func (s *LocalStore) Save(bucket string, file *multipart.FileHeader) (string, error) {
	if !knownBucket(bucket) {
		return "", ErrUnknownBucket
	}
	if !isValidImageExtension(file.Filename) {
		return "", ErrInvalidExtension
	}
	if s.MaxBytes > 0 && file.Size > s.MaxBytes {
		return "", ErrTooLarge
	}

	dir := filepath.Join(s.Root, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := makeUniqueFileName(file.Filename)
	path := filepath.Join(dir, name)
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *LocalStore) Remove(bucket, name string) error {
	if !knownBucket(bucket) {
		return ErrUnknownBucket
	}
	if name == "" || name != filepath.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Root, bucket, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
