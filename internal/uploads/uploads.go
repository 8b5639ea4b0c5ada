// Package uploads keeps event attachments on the local filesystem under
// generated names.
package uploads

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

var ErrTooLarge = errors.New("attachment exceeds the upload size limit")

type Store struct {
	Dir      string
	MaxBytes int64
}

// New creates dir if needed.
func New(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads.New: %w", err)
	}
	return &Store{Dir: dir, MaxBytes: maxBytes}, nil
}

// Save copies the uploaded file into the store and returns its stored name.
// The original extension is kept; the rest of the client's file name is not.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.MaxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("uploads.Save: open: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(fh.Filename)))
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("uploads.Save: create: %w", err)
	}

	// Size on the header comes from the client; count what is actually copied.
	n, err := io.Copy(dst, io.LimitReader(src, s.MaxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > s.MaxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(filepath.Join(s.Dir, name))
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("uploads.Save: copy: %w", err)
	}

	return name, nil
}

// Remove deletes a stored file. Missing files are not an error.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("uploads.Remove: %w", err)
	}
	return nil
}
