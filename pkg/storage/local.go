package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type localStorage struct {
	dir string
}

// NewLocalStorage stores documents on the local filesystem under dir.
// References are paths relative to dir, so the directory can be relocated
// between runs.
func NewLocalStorage(dir string) (DocumentStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) Save(ctx context.Context, r io.Reader, fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := uuid.NewString() + ext

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create document file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write document file: %w", err)
	}

	return name, nil
}

func (s *localStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	// References never contain path separators, but don't trust stored data.
	if ref != filepath.Base(ref) {
		return nil, fmt.Errorf("invalid document reference: %s", ref)
	}
	return os.Open(filepath.Join(s.dir, ref))
}

func (s *localStorage) Delete(ctx context.Context, ref string) error {
	if ref != filepath.Base(ref) {
		return fmt.Errorf("invalid document reference: %s", ref)
	}
	return os.Remove(filepath.Join(s.dir, ref))
}
