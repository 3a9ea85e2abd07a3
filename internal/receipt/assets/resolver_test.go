// internal/receipt/assets/resolver_test.go
package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonhttp "opera-backend/internal/common/http"
	"opera-backend/internal/common/logger"
)

type stubSource struct {
	name  string
	data  []byte
	tried *[]string
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Try(_ context.Context) (Resolved, bool) {
	*s.tried = append(*s.tried, s.name)
	if s.data == nil {
		return Resolved{}, false
	}
	return Resolved{Data: s.data, ContentType: "image/jpeg"}, true
}

func createTestResolver(t *testing.T, assetsDir, staticDir, companionURL string) *Resolver {
	t.Helper()
	client := commonhttp.NewClient(2 * time.Second)
	return NewResolver(client, logger.NewNoOpLogger(), assetsDir, staticDir, companionURL)
}

func TestResolveOrderAndShortCircuit(t *testing.T) {
	tests := []struct {
		name      string
		data      [][]byte
		wantTried []string
		wantData  []byte
	}{
		{
			name:      "first source wins",
			data:      [][]byte{[]byte("a"), []byte("b")},
			wantTried: []string{"one"},
			wantData:  []byte("a"),
		},
		{
			name:      "falls through to second",
			data:      [][]byte{nil, []byte("b")},
			wantTried: []string{"one", "two"},
			wantData:  []byte("b"),
		},
		{
			name:      "exhausted chain is absent",
			data:      [][]byte{nil, nil},
			wantTried: []string{"one", "two"},
			wantData:  nil,
		},
	}

	names := []string{"one", "two"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createTestResolver(t, "", "", "")
			var tried []string
			var chain []Source
			for i, d := range tt.data {
				chain = append(chain, &stubSource{name: names[i], data: d, tried: &tried})
			}

			got := r.resolve(context.Background(), "background", chain)

			assert.Equal(t, tt.wantTried, tried)
			assert.Equal(t, tt.wantData, got.Data)
			assert.Equal(t, tt.wantData == nil, got.Absent())
		})
	}
}

func TestResolveBackgroundFallsBackToAssetsDir(t *testing.T) {
	assetsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "PlantillaPedido.jpg"), []byte("template-bytes"), 0o644))

	r := createTestResolver(t, assetsDir, t.TempDir(), "http://127.0.0.1:0")

	got := r.ResolveBackground(context.Background(), "")
	require.False(t, got.Absent())
	assert.Equal(t, []byte("template-bytes"), got.Data)
	assert.Equal(t, "image/jpeg", got.ContentType)
}

func TestResolveBackgroundPrefersExplicitURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("remote-template"))
	}))
	defer srv.Close()

	assetsDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(assetsDir, "PlantillaPedido.jpg"), []byte("local"), 0o644))

	r := createTestResolver(t, assetsDir, t.TempDir(), "http://127.0.0.1:0")

	got := r.ResolveBackground(context.Background(), srv.URL+"/tpl.png")
	require.False(t, got.Absent())
	assert.Equal(t, []byte("remote-template"), got.Data)
	assert.Equal(t, "image/png", got.ContentType)
}

func TestResolveBackgroundSkipsFailingExplicitURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "imagenes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "imagenes", "PlantillaPedido.jpg"), []byte("static-template"), 0o644))

	r := createTestResolver(t, t.TempDir(), staticDir, "http://127.0.0.1:0")

	got := r.ResolveBackground(context.Background(), srv.URL+"/missing.jpg")
	require.False(t, got.Absent())
	assert.Equal(t, []byte("static-template"), got.Data)
}

func TestResolveBackgroundCompanionLastResort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/imagenes/PlantillaPedido.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("companion-template"))
	}))
	defer srv.Close()

	r := createTestResolver(t, t.TempDir(), t.TempDir(), srv.URL)

	got := r.ResolveBackground(context.Background(), "")
	require.False(t, got.Absent())
	assert.Equal(t, []byte("companion-template"), got.Data)
}

func TestResolveSubject(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(staticDir, "imagenes", "tortas"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "imagenes", "tortas", "selva.jpg"), []byte("cake"), 0o644))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/imagenes/tortas/remota.jpg" {
			_, _ = w.Write([]byte("companion-cake"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := createTestResolver(t, t.TempDir(), staticDir, srv.URL)

	t.Run("empty ref resolves to absent without trying sources", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "")
		assert.True(t, got.Absent())
	})

	t.Run("relative path hits static dir", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "/imagenes/tortas/selva.jpg")
		require.False(t, got.Absent())
		assert.Equal(t, []byte("cake"), got.Data)
	})

	t.Run("relative path falls back to companion", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "/imagenes/tortas/remota.jpg")
		require.False(t, got.Absent())
		assert.Equal(t, []byte("companion-cake"), got.Data)
	})

	t.Run("absolute url is fetched directly", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), srv.URL+"/imagenes/tortas/remota.jpg")
		require.False(t, got.Absent())
		assert.Equal(t, []byte("companion-cake"), got.Data)
	})

	t.Run("failed absolute url falls back to static dir by path", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "http://127.0.0.1:0/imagenes/tortas/selva.jpg")
		require.False(t, got.Absent())
		assert.Equal(t, []byte("cake"), got.Data)
	})

	t.Run("failed absolute url falls back to companion by path", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "http://127.0.0.1:0/imagenes/tortas/remota.jpg")
		require.False(t, got.Absent())
		assert.Equal(t, []byte("companion-cake"), got.Data)
	})

	t.Run("unreachable absolute url with no fallback is absent, not an error", func(t *testing.T) {
		got := r.ResolveSubject(context.Background(), "http://127.0.0.1:0/nada.jpg")
		assert.True(t, got.Absent())
	})
}
