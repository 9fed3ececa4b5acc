package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"givelink/errors"

	"github.com/gabriel-vasile/mimetype"
)

// BlobStore keeps uploaded profile images on local disk and serves them
// back through a static URL prefix.
type BlobStore struct {
	log       *slog.Logger
	baseDir   string
	urlPrefix string
}

func NewBlobStore(log *slog.Logger, baseDir, urlPrefix string) (*BlobStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, err
	}
	return &BlobStore{log: log, baseDir: baseDir, urlPrefix: urlPrefix}, nil
}

// SaveImage sniffs the payload's real content type from its magic bytes and
// persists it under the owner's id. The declared filename or Content-Type of
// the upload is ignored, only the bytes decide. One image per owner: a new
// upload replaces the previous one.
func (b *BlobStore) SaveImage(ownerID string, data []byte) (string, error) {
	detected := mimetype.Detect(data)
	if !detected.Is("image/png") && !detected.Is("image/jpeg") &&
		!detected.Is("image/gif") && !detected.Is("image/webp") {
		b.log.Debug("Rejected upload", "owner", ownerID, "mime", detected.String())
		return "", errors.ErrUnsupportedImage
	}

	filename := fmt.Sprintf("%s%s", ownerID, detected.Extension())

	// A format change renames the file, so drop any previous upload first.
	stale, _ := filepath.Glob(filepath.Join(b.baseDir, ownerID+".*"))
	for _, path := range stale {
		if filepath.Base(path) != filename {
			_ = os.Remove(path)
		}
	}

	if err := os.WriteFile(filepath.Join(b.baseDir, filename), data, 0o644); err != nil {
		return "", err
	}
	return b.urlPrefix + "/" + filename, nil
}

// Dir exposes the storage root so the router can mount it as static files.
func (b *BlobStore) Dir() string {
	return b.baseDir
}
