// Package thumbnail produces a still image for a playlist by trying providers in priority order.
//
// The chain is total: the last provider is a local synthesizer with no network
// dependency, so Resolve always returns an asset.
package thumbnail

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
)

// Provider is one tier of the fallback chain.
type Provider interface {
	// Attempt produces an image for the playlist or fails. Providers are
	// tried once each; any error advances the chain to the next tier.
	Attempt(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error)

	// Name returns the provenance tag recorded on a successful asset.
	Name() string
}

// Resolver tries each provider in order and returns the first success.
type Resolver struct {
	providers []Provider
	logger    *log.Logger
}

// NewResolver creates a Resolver over the given providers, tried in order.
func NewResolver(logger *log.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve walks the fallback chain and returns exactly one asset.
//
// No retry within a tier: the next tier is strictly cheaper and more reliable.
// Returns shared.ErrProviderExhausted only if every tier fails, which cannot
// happen when the synthesizer terminates the chain.
func (r *Resolver) Resolve(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error) {
	var lastErr error

	for _, p := range r.providers {
		asset, err := p.Attempt(ctx, playlist)
		if err != nil {
			r.logger.Warn("thumbnail provider failed, advancing chain", "provider", p.Name(), "err", err)
			lastErr = err
			continue
		}

		asset.Provenance = p.Name()
		r.logger.Info("thumbnail resolved", "provider", p.Name(), "bytes", len(asset.Data))
		return asset, nil
	}

	return nil, fmt.Errorf("%w: %v", shared.ErrProviderExhausted, lastErr)
}
