// package services defines interface PlaylistSource for the tagged-playlist provider
//
// Spotify is the only concrete implementation.
package services

import (
	"context"

	"github.com/playcast/playcast/internal/models"
)

// PlaylistSource is the service holding the tagged playlists that drive the pipeline.
type PlaylistSource interface {
	// Authenticate performs credential-based authentication with the service.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context) error

	// ListPlaylists retrieves every playlist in the user's library, without
	// tracks. Tag state is derived from each playlist's display name.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// ListEligible retrieves all playlists whose display name carries the
	// pending marker, including their tracks.
	ListEligible(ctx context.Context) ([]models.Playlist, error)

	// MarkDone rewrites the playlist's display name, replacing the pending
	// marker with the done marker. Fails with shared.ErrRenameConflict if the
	// name no longer matches the one the playlist was listed with.
	MarkDone(ctx context.Context, playlist models.Playlist) error

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}
