package bulk

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

// ErrUnsupportedType rejects anything that is not one of the two
// accepted spreadsheet MIME types, before a byte leaves the client.
var ErrUnsupportedType = errors.New("unsupported file type")

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
)

// Uploader is the slice of the API client the bulk workflow needs.
type Uploader interface {
	BulkUpload(ctx context.Context, fileName string, file io.Reader, contentHash string) (*api.BulkUploadResult, error)
	ListUploadBatches(ctx context.Context) ([]models.UploadBatch, error)
	RollbackUploadBatch(ctx context.Context, uploadID string) error
}

type Service struct {
	client Uploader
}

func New(client Uploader) *Service {
	return &Service{client: client}
}

// ValidateFile sniffs the file content; the extension is not trusted.
func ValidateFile(path string) error {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect file type: %w", err)
	}
	if !mime.Is(mimeXLSX) && !mime.Is(mimeXLS) {
		return fmt.Errorf("%w: %s", ErrUnsupportedType, mime.String())
	}
	return nil
}

// HashFile is the SHA-256 of the file content, hex-encoded. The backend
// keys upload batches by it.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Upload validates, hashes and submits one spreadsheet. The caller is
// responsible for refreshing the catalog afterwards.
func (s *Service) Upload(ctx context.Context, path string) (*api.BulkUploadResult, error) {
	if err := ValidateFile(path); err != nil {
		return nil, err
	}
	hash, err := HashFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return s.client.BulkUpload(ctx, filepath.Base(path), f, hash)
}

func (s *Service) Batches(ctx context.Context) ([]models.UploadBatch, error) {
	return s.client.ListUploadBatches(ctx)
}

// Rollback undoes one batch: the backend deletes the product ids it
// inserted and reverts the quantity deltas it recorded. The confirmation
// step lives in the UI; an already-rolled-back batch is refused here
// before any request goes out, and again server-side.
func (s *Service) Rollback(ctx context.Context, batch models.UploadBatch) error {
	if batch.RolledBack {
		return fmt.Errorf("batch %s already rolled back", batch.UploadID)
	}
	return s.client.RollbackUploadBatch(ctx, batch.UploadID)
}
