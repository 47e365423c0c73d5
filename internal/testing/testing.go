// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/publish"
	"github.com/playcast/playcast/internal/shared"
)

// MockSource is a test double for [services.PlaylistSource]
type MockSource struct {
	Playlists []models.Playlist
	AuthErr   error
	ListErr   error
	MarkErr   map[string]error // playlist ID -> rename error
	Marked    []string         // playlist IDs marked done, in call order
}

func (m *MockSource) Authenticate(ctx context.Context) error { return m.AuthErr }

func (m *MockSource) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Playlists, nil
}

func (m *MockSource) ListEligible(ctx context.Context) ([]models.Playlist, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Playlists, nil
}

func (m *MockSource) MarkDone(ctx context.Context, playlist models.Playlist) error {
	if err := m.MarkErr[playlist.ID]; err != nil {
		return err
	}
	m.Marked = append(m.Marked, playlist.ID)
	return nil
}

func (m *MockSource) Name() string { return "mock" }

// MockResolver resolves every playlist to the same fixed asset.
type MockResolver struct {
	Asset *models.ThumbnailAsset
	Err   error
	Calls int
}

func (m *MockResolver) Resolve(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Asset != nil {
		return m.Asset, nil
	}
	return &models.ThumbnailAsset{Data: []byte("img"), Provenance: "mock"}, nil
}

// MockCollector yields one audio item per track, recording gaps for
// configured failing titles.
type MockCollector struct {
	Err        error
	FailTitles map[string]bool
}

func (m *MockCollector) Collect(ctx context.Context, playlist models.Playlist, workDir string) (*models.AudioAsset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	asset := &models.AudioAsset{}
	for _, track := range playlist.Tracks {
		if m.FailTitles[track.Title] {
			asset.Gaps = append(asset.Gaps, track)
			continue
		}
		asset.Items = append(asset.Items, models.TrackAudio{
			Track: track,
			Path:  filepath.Join(workDir, track.Title+".mp3"),
		})
	}
	return asset, nil
}

// MockComposer writes a small placeholder artifact, enforcing the no-silent-video rule.
type MockComposer struct {
	Err error
}

func (m *MockComposer) Compose(ctx context.Context, thumb *models.ThumbnailAsset, audio *models.AudioAsset, outPath string) (*models.VideoArtifact, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if audio.Empty() {
		return nil, fmt.Errorf("%w: no audio tracks to encode", shared.ErrEncodingFailed)
	}
	if err := os.WriteFile(outPath, []byte("video"), 0644); err != nil {
		return nil, err
	}
	return &models.VideoArtifact{Path: outPath, Size: int64(len("video"))}, nil
}

// MockPublisher records uploads and answers with a fixed video ID.
type MockPublisher struct {
	VideoID string
	AuthErr error
	Err     error
	Uploads []publish.Metadata
}

func (m *MockPublisher) Authenticate(ctx context.Context) error { return m.AuthErr }

func (m *MockPublisher) Upload(ctx context.Context, artifact *models.VideoArtifact, meta publish.Metadata) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.Uploads = append(m.Uploads, meta)
	if m.VideoID != "" {
		return m.VideoID, nil
	}
	return "mock-video-id", nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
