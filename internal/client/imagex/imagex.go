// Package imagex turns a user-selected image file into the inline data URI
// the API stores. The only check is the size limit; the content type is
// sniffed for the data URI label and nothing else.
package imagex

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted file, in bytes.
const MaxImageSize = 500 * 1024

var ErrImageTooLarge = errors.New("image too large")

// SizeError reports a rejected file. It matches ErrImageTooLarge.
type SizeError struct {
	Size  int64
	Limit int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("image is %s, limit is %s", humanize.IBytes(uint64(e.Size)), humanize.IBytes(uint64(e.Limit)))
}

func (e *SizeError) Unwrap() error { return ErrImageTooLarge }

type Ingestor struct {
	maxSize int64
}

func NewIngestor() *Ingestor {
	return &Ingestor{maxSize: MaxImageSize}
}

// Ingest checks the file size from Stat before reading anything, then reads
// the file and returns it as a data URI.
func (i *Ingestor) Ingest(ctx context.Context, f fs.File) (string, error) {
	st, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat image: %w", err)
	}
	if st.Size() > i.maxSize {
		return "", &SizeError{Size: st.Size(), Limit: i.maxSize}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// the file may have grown since Stat
	data, err := io.ReadAll(io.LimitReader(f, i.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(data)) > i.maxSize {
		return "", &SizeError{Size: int64(len(data)), Limit: i.maxSize}
	}

	return Encode(data), nil
}

// Encode returns data as "data:<media type>;base64,<payload>".
func Encode(data []byte) string {
	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return "data:" + strings.TrimSpace(mediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Open opens path for Ingest. An empty path means no file was selected and
// returns nil, nil.
func Open(path string) (fs.File, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

// Describe summarizes a data URI as "<media type>, <size>" for display.
func Describe(dataURI string) string {
	if dataURI == "" {
		return "none"
	}

	header, payload, ok := strings.Cut(strings.TrimPrefix(dataURI, "data:"), ",")
	if !ok || !strings.HasPrefix(dataURI, "data:") {
		return "unrecognized"
	}

	mediaType, _, _ := strings.Cut(header, ";")
	if mediaType == "" {
		mediaType = "unknown"
	}

	size := len(payload)
	if strings.HasSuffix(header, ";base64") {
		if n, err := base64.StdEncoding.DecodeString(payload); err == nil {
			size = len(n)
		}
	}
	return fmt.Sprintf("%s, %s", mediaType, humanize.IBytes(uint64(size)))
}
