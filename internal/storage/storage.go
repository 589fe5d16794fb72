package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"go-society-manager/pkg/apierror"
)

// Storage keeps uploaded files beneath a single root directory. Every client
// path is resolved through a PathValidator before touching the disk.
type Storage struct {
	validator *PathValidator
}

func New(root string) (*Storage, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(validator.RootAbs(), 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{validator: validator}, nil
}

func (s *Storage) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *Storage) Resolve(clientPath string) (string, error) {
	return s.validator.ResolvePath(clientPath)
}

// Save streams r to clientPath, refusing content larger than maxBytes. The
// file is written under a temporary name and renamed into place once complete.
func (s *Storage) Save(clientPath string, r io.Reader, maxBytes int64) (int64, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return 0, err
	}
	if resolved == s.RootAbs() {
		return 0, apierror.New("INVALID_PATH", "cannot write to storage root", clientPath, http.StatusBadRequest)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	reader := r
	if maxBytes > 0 {
		reader = io.LimitReader(r, maxBytes+1)
	}

	written, copyErr := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if copyErr != nil {
		return 0, fmt.Errorf("write %q: %w", clientPath, copyErr)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close %q: %w", clientPath, closeErr)
	}
	if maxBytes > 0 && written > maxBytes {
		return 0, apierror.New("PAYLOAD_TOO_LARGE", "file exceeds maximum upload size", fmt.Sprintf("%d bytes", maxBytes), http.StatusRequestEntityTooLarge)
	}

	if err := os.Rename(tmpPath, resolved); err != nil {
		return 0, fmt.Errorf("move %q into place: %w", clientPath, err)
	}

	return written, nil
}

func (s *Storage) Open(clientPath string) (*os.File, fs.FileInfo, error) {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, nil, apierror.New("BAD_REQUEST", "path points to a directory", clientPath, http.StatusBadRequest)
	}

	return file, info, nil
}

// Remove deletes clientPath. A missing file is not an error.
func (s *Storage) Remove(clientPath string) error {
	resolved, err := s.Resolve(clientPath)
	if err != nil {
		return err
	}
	if resolved == s.RootAbs() {
		return apierror.New("INVALID_PATH", "cannot remove storage root", clientPath, http.StatusBadRequest)
	}

	if err := os.Remove(resolved); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %q: %w", clientPath, err)
	}
	return nil
}
