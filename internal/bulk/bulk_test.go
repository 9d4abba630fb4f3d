package bulk

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elitepos/pos-terminal/internal/api"
	"github.com/elitepos/pos-terminal/internal/models"
)

type fakeUploader struct {
	uploadCalls   int
	uploadName    string
	uploadHash    string
	uploadBody    []byte
	rollbackCalls int
	rollbackID    string
}

func (f *fakeUploader) BulkUpload(_ context.Context, fileName string, file io.Reader, contentHash string) (*api.BulkUploadResult, error) {
	f.uploadCalls++
	f.uploadName = fileName
	f.uploadHash = contentHash
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	f.uploadBody = body
	return &api.BulkUploadResult{Success: true, Inserted: 3, UploadID: "batch-1"}, nil
}

func (f *fakeUploader) ListUploadBatches(context.Context) ([]models.UploadBatch, error) {
	return []models.UploadBatch{{UploadID: "batch-1"}}, nil
}

func (f *fakeUploader) RollbackUploadBatch(_ context.Context, uploadID string) error {
	f.rollbackCalls++
	f.rollbackID = uploadID
	return nil
}

// writeXLSX writes a minimal zip container with the workbook entry that
// identifies an OOXML spreadsheet to content sniffing.
func writeXLSX(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "stock.xlsx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	ct, err := zw.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = ct.Write([]byte(`<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/></Types>`))
	require.NoError(t, err)
	wb, err := zw.Create("xl/workbook.xml")
	require.NoError(t, err)
	_, err = wb.Write([]byte(`<?xml version="1.0"?><workbook/>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return path
}

func writeTextFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidateFile_RejectsNonSpreadsheet(t *testing.T) {
	t.Parallel()

	// .xlsx extension on plain text; the content decides
	path := writeTextFile(t, t.TempDir(), "fake.xlsx", "id,name,price\n1,shirt,100\n")
	err := ValidateFile(path)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestValidateFile_AcceptsXLSX(t *testing.T) {
	t.Parallel()

	path := writeXLSX(t, t.TempDir())
	require.NoError(t, ValidateFile(path))
}

func TestHashFile(t *testing.T) {
	t.Parallel()

	content := "stock spreadsheet bytes"
	path := writeTextFile(t, t.TempDir(), "data.bin", content)

	got, err := HashFile(path)
	require.NoError(t, err)

	sum := sha256.Sum256([]byte(content))
	assert.Equal(t, hex.EncodeToString(sum[:]), got)
}

func TestService_Upload(t *testing.T) {
	t.Parallel()

	path := writeXLSX(t, t.TempDir())
	client := &fakeUploader{}
	svc := New(client)

	res, err := svc.Upload(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "batch-1", res.UploadID)
	assert.Equal(t, "stock.xlsx", client.uploadName)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	sum := sha256.Sum256(raw)
	assert.Equal(t, hex.EncodeToString(sum[:]), client.uploadHash)
	assert.Equal(t, raw, client.uploadBody, "the file must be streamed unmodified")
}

func TestService_UploadRejectsBeforeNetwork(t *testing.T) {
	t.Parallel()

	path := writeTextFile(t, t.TempDir(), "notes.txt", "not a spreadsheet")
	client := &fakeUploader{}
	svc := New(client)

	_, err := svc.Upload(context.Background(), path)
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Zero(t, client.uploadCalls)
}

func TestService_Rollback(t *testing.T) {
	t.Parallel()

	client := &fakeUploader{}
	svc := New(client)

	require.NoError(t, svc.Rollback(context.Background(), models.UploadBatch{UploadID: "batch-1"}))
	assert.Equal(t, "batch-1", client.rollbackID)
}

func TestService_RollbackRefusesRepeat(t *testing.T) {
	t.Parallel()

	client := &fakeUploader{}
	svc := New(client)

	err := svc.Rollback(context.Background(), models.UploadBatch{UploadID: "batch-1", RolledBack: true})
	require.Error(t, err)
	assert.Zero(t, client.rollbackCalls, "a rolled-back batch must be refused locally")
}
