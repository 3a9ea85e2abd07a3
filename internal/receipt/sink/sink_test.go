// internal/receipt/sink/sink_test.go
package sink

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opera-backend/internal/common/errors"
)

type fakeDocument struct {
	data []byte
	err  error
}

func (d *fakeDocument) Output(w io.Writer) error {
	if d.err != nil {
		return d.err
	}
	_, err := w.Write(d.data)
	return err
}

func TestStreamSink(t *testing.T) {
	rec := httptest.NewRecorder()
	doc := &fakeDocument{data: []byte("%PDF-1.4 fake")}

	err := NewStreamSink(rec, "pedido-opera_Torta_cliente.pdf").Write(doc)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="pedido-opera_Torta_cliente.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, []byte("%PDF-1.4 fake"), rec.Body.Bytes())
}

func TestStreamSinkOutputError(t *testing.T) {
	rec := httptest.NewRecorder()
	doc := &fakeDocument{err: errors.New("boom")}

	err := NewStreamSink(rec, "x.pdf").Write(doc)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeRenderFailed, apperrors.CodeOf(err))
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "pedidos")
	payload := []byte("%PDF-1.4 persisted")

	path, err := NewFileSink(dir).Write(&fakeDocument{data: payload}, "pedido.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pedido.pdf"), path)

	// Full length must be on disk the moment Write returns.
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFileSinkDistinctFilenames(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir)

	p1, err := sink.Write(&fakeDocument{data: []byte("one")}, "a.pdf")
	require.NoError(t, err)
	p2, err := sink.Write(&fakeDocument{data: []byte("two")}, "b.pdf")
	require.NoError(t, err)

	assert.NotEqual(t, p1, p2)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFileSinkCleansUpOnOutputError(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSink(dir).Write(&fakeDocument{err: errors.New("render broke")}, "broken.pdf")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePersistenceFailed, apperrors.CodeOf(err))

	_, statErr := os.Stat(filepath.Join(dir, "broken.pdf"))
	assert.True(t, os.IsNotExist(statErr), "partial file should be removed")
}
