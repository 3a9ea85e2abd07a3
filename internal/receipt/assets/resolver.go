// internal/receipt/assets/resolver.go

package assets

import (
	"context"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	commonhttp "opera-backend/internal/common/http"
	"opera-backend/internal/common/logger"
	"opera-backend/internal/common/metrics"
)

const backgroundFile = "PlantillaPedido.jpg"

// Resolver builds fallback chains for the two receipt images.
type Resolver struct {
	client       *commonhttp.Client
	logger       logger.Logger
	assetsDir    string
	staticDir    string
	companionURL string
}

// NewResolver creates a resolver. companionURL is the base URL of the
// storefront that serves the shared static assets.
func NewResolver(client *commonhttp.Client, log logger.Logger, assetsDir, staticDir, companionURL string) *Resolver {
	return &Resolver{
		client:       client,
		logger:       log,
		assetsDir:    assetsDir,
		staticDir:    staticDir,
		companionURL: strings.TrimRight(companionURL, "/"),
	}
}

// ResolveBackground resolves the page background template. explicitURL, when
// non-empty, is tried first; the chain then falls back to the bundled asset
// directories and finally the companion host.
func (r *Resolver) ResolveBackground(ctx context.Context, explicitURL string) Resolved {
	var chain []Source
	if explicitURL != "" {
		chain = append(chain, newRemoteSource("explicit_url", r.client, explicitURL))
	}
	chain = append(chain,
		newLocalSource("assets_dir", filepath.Join(r.assetsDir, backgroundFile)),
		newLocalSource("static_dir", filepath.Join(r.staticDir, "imagenes", backgroundFile)),
		newRemoteSource("companion", r.client, r.companionURL+"/imagenes/"+backgroundFile),
	)
	return r.resolve(ctx, "background", chain)
}

// ResolveSubject resolves the selected cake image. An empty ref means the
// order carries no image and resolution is skipped entirely. An absolute URL
// is tried first and its path reused for the local and companion fallbacks.
func (r *Resolver) ResolveSubject(ctx context.Context, ref string) Resolved {
	if ref == "" {
		return Resolved{}
	}

	var chain []Source
	rel := ref
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		chain = append(chain, newRemoteSource("absolute_url", r.client, ref))
		rel = u.Path
	}
	rel = strings.TrimPrefix(rel, "/")
	chain = append(chain,
		newLocalSource("static_dir", filepath.Join(r.staticDir, filepath.FromSlash(rel))),
		newRemoteSource("companion", r.client, r.companionURL+"/"+path.Clean(rel)),
	)
	return r.resolve(ctx, "subject", chain)
}

// resolve walks the chain in order and returns the first success. Step
// failures are logged and counted, never surfaced.
func (r *Resolver) resolve(ctx context.Context, kind string, chain []Source) Resolved {
	for _, src := range chain {
		resolved, ok := src.Try(ctx)
		if ok {
			metrics.AssetResolveTotal.WithLabelValues(src.Name(), "hit").Inc()
			r.logger.Debug("asset resolved", map[string]interface{}{
				"kind":   kind,
				"source": src.Name(),
				"bytes":  len(resolved.Data),
			})
			return resolved
		}
		metrics.AssetResolveTotal.WithLabelValues(src.Name(), "miss").Inc()
		r.logger.Debug("asset source missed", map[string]interface{}{
			"kind":   kind,
			"source": src.Name(),
		})
	}

	r.logger.Warn("asset unresolved, element will be skipped", map[string]interface{}{
		"kind": kind,
	})
	return Resolved{}
}
