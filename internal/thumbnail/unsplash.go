package thumbnail

import (
	"context"
	"fmt"

	"github.com/playcast/playcast/internal/models"
	"resty.dev/v3"
)

const unsplashRandomURL = "https://api.unsplash.com/photos/random"

// UnsplashProvider searches stock photos keyed on the playlist name.
type UnsplashProvider struct {
	accessKey string
	baseURL   string
	client    *resty.Client
}

// NewUnsplashProvider creates the stock-photo provider.
func NewUnsplashProvider(accessKey string) *UnsplashProvider {
	return &UnsplashProvider{
		accessKey: accessKey,
		baseURL:   unsplashRandomURL,
		client:    resty.New(),
	}
}

func (p *UnsplashProvider) Name() string { return "unsplash" }

type unsplashPhoto struct {
	URLs struct {
		Full string `json:"full"`
	} `json:"urls"`
}

// Attempt fetches a random landscape photo matching the playlist's clean name.
func (p *UnsplashProvider) Attempt(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error) {
	var photo unsplashPhoto
	res, err := p.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":       playlist.CleanName(),
			"orientation": "landscape",
		}).
		SetHeader("Authorization", "Client-ID "+p.accessKey).
		SetResult(&photo).
		Get(p.baseURL)

	if err != nil {
		return nil, fmt.Errorf("unsplash request failed: %w", err)
	}
	if res.StatusCode() != 200 {
		return nil, fmt.Errorf("unsplash status %d: %s", res.StatusCode(), res.String())
	}
	if photo.URLs.Full == "" {
		return nil, fmt.Errorf("unsplash returned no photo URL")
	}

	data, err := downloadImage(ctx, p.client, photo.URLs.Full)
	if err != nil {
		return nil, err
	}

	return &models.ThumbnailAsset{Data: data}, nil
}
