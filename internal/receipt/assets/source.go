// internal/receipt/assets/source.go

// Package assets resolves receipt image references through ordered fallback
// chains of sources. Every step failure is swallowed locally; exhausting a
// chain yields an absent asset, never an error.
package assets

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	commonhttp "opera-backend/internal/common/http"
)

// Resolved holds fetched image bytes. The zero value is the Absent sentinel:
// drawing of the element is simply skipped.
type Resolved struct {
	Data        []byte
	ContentType string
}

// Absent reports whether resolution produced nothing to draw.
func (r Resolved) Absent() bool {
	return len(r.Data) == 0
}

// Source is one step of a fallback chain.
type Source interface {
	// Name identifies the step in logs and metrics.
	Name() string
	// Try attempts to resolve the asset. ok is false on any failure
	// (network error, non-2xx status, missing file); the chain then
	// advances to the next source.
	Try(ctx context.Context) (Resolved, bool)
}

// remoteSource fetches the asset over HTTP.
type remoteSource struct {
	name   string
	client *commonhttp.Client
	url    string
}

func newRemoteSource(name string, client *commonhttp.Client, url string) Source {
	return &remoteSource{name: name, client: client, url: url}
}

func (s *remoteSource) Name() string { return s.name }

func (s *remoteSource) Try(ctx context.Context) (Resolved, bool) {
	resp, err := s.client.Get(ctx, s.url)
	if err != nil {
		return Resolved{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Resolved{}, false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return Resolved{}, false
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Resolved{Data: data, ContentType: contentType}, true
}

// localSource reads the asset from disk.
type localSource struct {
	name string
	path string
}

func newLocalSource(name, path string) Source {
	return &localSource{name: name, path: path}
}

func (s *localSource) Name() string { return s.name }

func (s *localSource) Try(_ context.Context) (Resolved, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil || len(data) == 0 {
		return Resolved{}, false
	}
	return Resolved{Data: data, ContentType: contentTypeForPath(s.path, data)}, true
}

func contentTypeForPath(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	}
	return http.DetectContentType(data)
}
