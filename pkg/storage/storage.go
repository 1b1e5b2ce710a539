package storage

import (
	"context"
	"io"
	"os"
)

// DocumentStorage defines the contract for storing uploaded contract
// documents. The returned reference is opaque to callers; only the storage
// implementation that produced it can resolve it again.
type DocumentStorage interface {
	// Save stores the content of r and returns an opaque reference.
	// fileName is the original upload name, used to keep a recognizable
	// extension on the stored object.
	Save(ctx context.Context, r io.Reader, fileName string) (string, error)
	// Open returns a reader for a previously stored document.
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	// Delete removes a stored document.
	Delete(ctx context.Context, ref string) error
}

// NewFromEnv picks the storage backend: Cloudinary when CLOUDINARY_URL is
// configured, local disk otherwise.
func NewFromEnv(localDir string) (DocumentStorage, error) {
	if os.Getenv("CLOUDINARY_URL") != "" {
		return NewCloudinaryStorage()
	}
	return NewLocalStorage(localDir)
}
