// Spotify API implementation of [PlaylistSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// transient-retry budget for a single API call
	spotifyMaxAttempts = 3
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Artists    []SpotifyArtist `json:"artists"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of playlist tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

type simplePlaylistTrack struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string              `json:"id"`
	Name   string              `json:"name"`
	Tracks simplePlaylistTrack `json:"tracks"`
	Images []SpotifyImage      `json:"images"`
	URI    string              `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyService implements [PlaylistSource] for Spotify API interactions.
// Uses [oauth2] with a stored refresh token so no browser flow is needed.
type SpotifyService struct {
	config       *oauth2.Config
	refreshToken string
	httpClient   *http.Client
	baseURL      string
	limiter      *rate.Limiter
}

// NewSpotifyService creates a new Spotify service with the given credentials.
func NewSpotifyService(cfg shared.SpotifyConfig) (*SpotifyService, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret required", shared.ErrMissingCredentials)
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w: spotify refresh_token required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8888/callback"
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-private",
			"playlist-modify-public",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:       config,
		refreshToken: cfg.RefreshToken,
		httpClient:   http.DefaultClient,
		baseURL:      spotifyBaseURL,
		limiter:      rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate builds an auto-refreshing HTTP client from the stored refresh token.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	token := &oauth2.Token{
		RefreshToken: s.refreshToken,
		// Expired on arrival so the first request performs a refresh.
		Expiry: time.Now().Add(-time.Hour),
	}
	s.httpClient = oauth2.NewClient(ctx, s.config.TokenSource(ctx, token))
	return nil
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// Transport errors, 429s and 5xx responses are retried within the call's own
// budget; exhausting it returns shared.ErrServiceUnavailable.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	apiURL := s.baseURL + endpoint

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= spotifyMaxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}

		var reader *bytes.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("spotify API error: status %d", resp.StatusCode)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			if resp.StatusCode == http.StatusNotFound {
				return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
			}
			return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				resp.Body.Close()
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		resp.Body.Close()
		return nil
	}

	return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, lastErr)
}

// ListPlaylists retrieves every playlist in the user's library, without tracks.
func (s *SpotifyService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

		var page SpotifyPaginatedPlaylists
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, sp := range page.Items {
			pl := models.Playlist{ID: sp.ID, Name: sp.Name}
			if len(sp.Images) > 0 {
				pl.CoverURL = sp.Images[0].URL
			}
			playlists = append(playlists, pl)
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += limit
	}

	return playlists, nil
}

// ListEligible retrieves all playlists whose name carries the pending marker, with their tracks.
func (s *SpotifyService) ListEligible(ctx context.Context) ([]models.Playlist, error) {
	playlists, err := s.ListPlaylists(ctx)
	if err != nil {
		return nil, err
	}

	var eligible []models.Playlist
	for _, pl := range playlists {
		if pl.State() != models.TagPending {
			continue
		}

		tracks, err := s.playlistTracks(ctx, pl.ID)
		if err != nil {
			return nil, err
		}
		pl.Tracks = tracks
		eligible = append(eligible, pl)
	}

	return eligible, nil
}

// playlistTracks fetches all tracks for a playlist, following pagination.
func (s *SpotifyService) playlistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	var tracks []models.Track
	limit := 100
	offset := 0

	for {
		endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, limit, offset)

		var page SpotifyPaginatedTracks
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			// Episodes and local files have no resolvable audio source.
			if item.Track.Name == "" || (item.Track.Type != "" && item.Track.Type != "track") {
				continue
			}

			track := models.Track{
				Title:    item.Track.Name,
				Duration: time.Duration(item.Track.DurationMS) * time.Millisecond,
				SourceID: item.Track.ID,
			}
			if len(item.Track.Artists) > 0 {
				track.Artist = item.Track.Artists[0].Name
			}
			tracks = append(tracks, track)
		}

		if page.Next == nil || len(page.Items) == 0 {
			break
		}
		offset += limit
	}

	return tracks, nil
}

// Rename sets a new display name after verifying the current name still
// matches expectedName.
//
// A mismatch means something else modified the playlist, which is reported as
// shared.ErrRenameConflict and never retried.
func (s *SpotifyService) Rename(ctx context.Context, playlistID, expectedName, newName string) error {
	var current struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &current); err != nil {
		return err
	}

	if current.Name != expectedName {
		return fmt.Errorf("%w: expected %q, found %q", shared.ErrRenameConflict, expectedName, current.Name)
	}

	body := struct {
		Name string `json:"name"`
	}{Name: newName}

	return s.doRequest(ctx, http.MethodPut, endpoint, body, nil)
}

// MarkDone renames the playlist, replacing the pending marker with the done marker.
func (s *SpotifyService) MarkDone(ctx context.Context, playlist models.Playlist) error {
	return s.Rename(ctx, playlist.ID, playlist.Name, playlist.DoneName())
}
