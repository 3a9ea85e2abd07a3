// internal/receipt/sink/sink.go

// Package sink delivers rendered receipts to an HTTP response or to disk.
package sink

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"opera-backend/internal/common/errors"
)

// Document is a rendered receipt ready for delivery.
type Document interface {
	Output(w io.Writer) error
}

// StreamSink writes a document straight into an HTTP response as a download.
type StreamSink struct {
	w        http.ResponseWriter
	filename string
}

func NewStreamSink(w http.ResponseWriter, filename string) *StreamSink {
	return &StreamSink{w: w, filename: filename}
}

// Write sets the download headers and streams the PDF. Once the first byte
// is out the response is committed, so a late failure can only be reported
// to the caller, not to the client.
func (s *StreamSink) Write(doc Document) error {
	s.w.Header().Set("Content-Type", "application/pdf")
	s.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.filename))
	if err := doc.Output(s.w); err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, "streaming pdf failed", err)
	}
	return nil
}

// FileSink persists a document under dir, creating the directory as needed.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Write stores the document as filename and returns its absolute path. The
// file is synced to disk before Write returns, so the path it reports is
// immediately servable at full length.
func (s *FileSink) Write(doc Document, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistenceFailed, "creating receipts directory failed", err)
	}

	path := filepath.Join(s.dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodePersistenceFailed, "creating receipt file failed", err)
	}

	if err := doc.Output(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", errors.Wrap(errors.ErrCodePersistenceFailed, "writing receipt file failed", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return "", errors.Wrap(errors.ErrCodePersistenceFailed, "syncing receipt file failed", err)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodePersistenceFailed, "closing receipt file failed", err)
	}
	return path, nil
}
