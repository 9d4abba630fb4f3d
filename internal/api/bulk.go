package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/elitepos/pos-terminal/internal/models"
)

type BulkUploadResult struct {
	Success  bool   `json:"success"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	UploadID string `json:"uploadId"`
}

// BulkUpload sends one spreadsheet for server-side ingestion. The content
// hash travels with the file so the backend can key the batch by it.
func (c *Client) BulkUpload(ctx context.Context, fileName string, file io.Reader, contentHash string) (*BulkUploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := w.WriteField("hash", contentHash); err != nil {
		return nil, fmt.Errorf("write hash field: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var out BulkUploadResult
	if err := c.doRaw(ctx, http.MethodPost, "/product/bulk/add", nil, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type batchListEnvelope struct {
	Batches []models.UploadBatch `json:"batches"`
	Data    []models.UploadBatch `json:"data"`
}

func (c *Client) ListUploadBatches(ctx context.Context) ([]models.UploadBatch, error) {
	var env batchListEnvelope
	if err := c.do(ctx, http.MethodGet, "/product/bulk/batches", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Batches != nil {
		return env.Batches, nil
	}
	return env.Data, nil
}

// RollbackUploadBatch asks the backend to delete every product the batch
// inserted and revert every quantity delta it recorded. A batch already
// rolled back is rejected server-side, never double-applied.
func (c *Client) RollbackUploadBatch(ctx context.Context, uploadID string) error {
	return c.do(ctx, http.MethodDelete, "/product/bulk/rollback/"+url.PathEscape(uploadID), nil, nil, nil)
}
