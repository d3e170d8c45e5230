package imagex

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n")

func openMap(t *testing.T, name string, data []byte) fs.File {
	t.Helper()
	fsys := fstest.MapFS{name: &fstest.MapFile{Data: data}}
	f, err := fsys.Open(name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// countingFile fails the test if anything is read from it.
type countingFile struct {
	fs.File
	reads int
}

func (c *countingFile) Read(p []byte) (int, error) {
	c.reads++
	return c.File.Read(p)
}

func TestIngest_EncodesDataURI(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 32)...)
	f := openMap(t, "a.png", data)

	got, err := NewIngestor().Ingest(context.Background(), f)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))
	payload := strings.TrimPrefix(got, "data:image/png;base64,")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	require.NoError(t, err)
	assert.Equal(t, data, decoded)
}

func TestIngest_RejectsOversizedWithoutReading(t *testing.T) {
	f := &countingFile{File: openMap(t, "big.png", make([]byte, MaxImageSize+1))}

	got, err := NewIngestor().Ingest(context.Background(), f)
	require.ErrorIs(t, err, ErrImageTooLarge)
	assert.Empty(t, got)
	assert.Zero(t, f.reads)

	var se *SizeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int64(MaxImageSize+1), se.Size)
	assert.Contains(t, err.Error(), "limit is 500 KiB")
}

func TestIngest_AcceptsExactlyTheLimit(t *testing.T) {
	f := openMap(t, "edge.bin", make([]byte, MaxImageSize))

	got, err := NewIngestor().Ingest(context.Background(), f)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestIngest_NoFormatValidation(t *testing.T) {
	f := openMap(t, "notes.txt", []byte("plain text, not an image"))

	got, err := NewIngestor().Ingest(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:text/plain;base64,"))
}

func TestIngest_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewIngestor().Ingest(ctx, openMap(t, "a.png", pngHeader))
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpen(t *testing.T) {
	f, err := Open("  ")
	require.NoError(t, err)
	assert.Nil(t, f)

	_, err = Open(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o600))
	f, err = Open(path)
	require.NoError(t, err)
	require.NotNil(t, f)
	require.NoError(t, f.Close())
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "none", Describe(""))
	assert.Equal(t, "unrecognized", Describe("https://example.com/a.png"))
	assert.Equal(t, "image/png, 8 B", Describe(Encode(pngHeader)))
}
