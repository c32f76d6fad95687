package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/annavlsk/closetkeeper/internal/catalog"
	"github.com/annavlsk/closetkeeper/internal/common"
	"github.com/annavlsk/closetkeeper/internal/identity"
	"github.com/annavlsk/closetkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	lastKey  string
	lastData []byte
	err      error
}

func (f *fakeStorage) Put(ctx context.Context, key string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastKey = key
	f.lastData = data
	return "https://storage.example/" + key, nil
}

type fakeStripper struct {
	out []byte
	err error
}

func (f *fakeStripper) Strip(ctx context.Context, image []byte) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeTempImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coat.jpg")
	require.NoError(t, os.WriteFile(path, []byte("raw-image-bytes"), 0o600))
	return path
}

var testOwner = &identity.Principal{ID: "u-1", Email: "a@x.com"}

func TestIngest_UploadsStrippedImage(t *testing.T) {
	storage := &fakeStorage{}
	stripper := &fakeStripper{out: []byte("stripped-bytes")}
	ing := NewIngestor(storage, stripper, discardLogger())

	url, err := ing.Ingest(context.Background(), testOwner, catalog.KindItem, writeTempImage(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("stripped-bytes"), storage.lastData)
	assert.True(t, strings.HasPrefix(storage.lastKey, "images/u-1/items/"))
	assert.True(t, strings.HasSuffix(storage.lastKey, ".jpg"))
	assert.Contains(t, url, storage.lastKey)
}

func TestIngest_StripperFailureFallsBackToOriginal(t *testing.T) {
	storage := &fakeStorage{}
	stripper := &fakeStripper{err: errors.New("service down")}
	ing := NewIngestor(storage, stripper, discardLogger())

	_, err := ing.Ingest(context.Background(), testOwner, catalog.KindItem, writeTempImage(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw-image-bytes"), storage.lastData)
}

func TestIngest_NilStripperSkipsStripping(t *testing.T) {
	storage := &fakeStorage{}
	ing := NewIngestor(storage, nil, discardLogger())

	_, err := ing.Ingest(context.Background(), testOwner, catalog.KindOutfit, writeTempImage(t))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw-image-bytes"), storage.lastData)
}

func TestIngest_UnreadableFile(t *testing.T) {
	ing := NewIngestor(&fakeStorage{}, nil, discardLogger())

	_, err := ing.Ingest(context.Background(), testOwner, catalog.KindItem, "/no/such/file.jpg")
	assert.ErrorIs(t, err, common.ErrImageRead)
}

func TestIngest_UploadFailure(t *testing.T) {
	storage := &fakeStorage{err: errors.New("bucket unavailable")}
	ing := NewIngestor(storage, nil, discardLogger())

	_, err := ing.Ingest(context.Background(), testOwner, catalog.KindItem, writeTempImage(t))
	assert.ErrorIs(t, err, common.ErrUpload)
}

func TestIngest_NilOwner(t *testing.T) {
	ing := NewIngestor(&fakeStorage{}, nil, discardLogger())

	_, err := ing.Ingest(context.Background(), nil, catalog.KindItem, "any.jpg")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}
