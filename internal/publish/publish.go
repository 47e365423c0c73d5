// Package publish uploads video artifacts to YouTube via the resumable
// upload protocol.
//
// Protocol reference: https://developers.google.com/youtube/v3/guides/using_resumable_upload_protocol
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
	"golang.org/x/oauth2"
)

const (
	youtubeAuthURL   = "https://accounts.google.com/o/oauth2/auth"
	youtubeTokenURL  = "https://oauth2.googleapis.com/token"
	youtubeUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"

	musicCategoryID = "10"

	defaultChunkSize  = 10 << 20 // 10 MiB, must stay a multiple of 256 KiB
	defaultMaxResumes = 5
)

// Metadata describes the video being published.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// MetadataFor derives video metadata from a playlist and its collected audio.
//
// The description carries the numbered tracklist so viewers can navigate the
// single-video compilation.
func MetadataFor(playlist models.Playlist, audio *models.AudioAsset, privacy string) Metadata {
	var b strings.Builder
	fmt.Fprintf(&b, "Playlist: %s\n\nTracks:\n", playlist.CleanName())
	for i, item := range audio.Items {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, item.Track.Artist, item.Track.Title)
	}

	if privacy == "" {
		privacy = "unlisted"
	}

	return Metadata{
		Title:       playlist.CleanName(),
		Description: b.String(),
		Tags:        []string{"music", "playlist", playlist.CleanName()},
		CategoryID:  musicCategoryID,
		Privacy:     privacy,
	}
}

type videoResource struct {
	ID      string `json:"id,omitempty"`
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags,omitempty"`
		CategoryID  string   `json:"categoryId"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus string `json:"privacyStatus"`
	} `json:"status"`
}

// YouTubeClient publishes videos through the resumable upload endpoint.
type YouTubeClient struct {
	config       *oauth2.Config
	refreshToken string
	httpClient   *http.Client
	uploadURL    string
	chunkSize    int64
	maxResumes   int
	logger       *log.Logger
}

// NewYouTubeClient creates a client with the given credentials and upload tuning.
func NewYouTubeClient(cfg shared.YouTubeConfig, chunkMB, maxResumes int, logger *log.Logger) (*YouTubeClient, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: youtube client_id and client_secret required", shared.ErrMissingCredentials)
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("%w: youtube refresh_token required", shared.ErrMissingCredentials)
	}

	chunkSize := int64(chunkMB) << 20
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if maxResumes <= 0 {
		maxResumes = defaultMaxResumes
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/youtube.upload"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  youtubeAuthURL,
			TokenURL: youtubeTokenURL,
		},
	}

	return &YouTubeClient{
		config:       config,
		refreshToken: cfg.RefreshToken,
		httpClient:   http.DefaultClient,
		uploadURL:    youtubeUploadURL,
		chunkSize:    chunkSize,
		maxResumes:   maxResumes,
		logger:       logger,
	}, nil
}

// Authenticate builds an auto-refreshing HTTP client from the stored refresh token.
func (c *YouTubeClient) Authenticate(ctx context.Context) error {
	token := &oauth2.Token{
		RefreshToken: c.refreshToken,
		// Expired on arrival so the first request performs a refresh.
		Expiry: time.Now().Add(-time.Hour),
	}
	c.httpClient = oauth2.NewClient(ctx, c.config.TokenSource(ctx, token))
	return nil
}

// Upload publishes the artifact and returns the YouTube video ID.
//
// Chunks are sent sequentially; a dropped or failed chunk re-queries the
// server's acknowledged offset and resumes from there, at most maxResumes
// times before giving up with shared.ErrUploadFailed.
func (c *YouTubeClient) Upload(ctx context.Context, artifact *models.VideoArtifact, meta Metadata) (string, error) {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return "", fmt.Errorf("%w: cannot open artifact: %v", shared.ErrUploadFailed, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("%w: cannot stat artifact: %v", shared.ErrUploadFailed, err)
	}
	total := info.Size()
	if total == 0 {
		return "", fmt.Errorf("%w: artifact is empty", shared.ErrUploadFailed)
	}

	session := NewUploadSession(total)

	uri, err := c.createSession(ctx, meta, total)
	if err != nil {
		session.Fail()
		return "", err
	}
	if err := session.Start(uri); err != nil {
		return "", err
	}

	c.logger.Info("upload session opened", "title", meta.Title, "bytes", total)

	resumes := 0
	for session.State == StateUploading {
		offset := session.Acknowledged
		size := c.chunkSize
		if remaining := session.Remaining(); remaining < size {
			size = remaining
		}

		chunk := make([]byte, size)
		if _, err := file.ReadAt(chunk, offset); err != nil {
			session.Fail()
			return "", fmt.Errorf("%w: cannot read artifact chunk: %v", shared.ErrUploadFailed, err)
		}

		status, acked, videoID, err := c.putChunk(ctx, uri, chunk, offset, total)
		if err != nil || status >= 500 {
			resumes++
			if resumes > c.maxResumes {
				session.Fail()
				return "", fmt.Errorf("%w: resume budget exhausted after %d attempts: %v", shared.ErrUploadFailed, resumes-1, err)
			}
			serverOffset, serverVideoID, qerr := c.queryOffset(ctx, uri, total)
			if qerr != nil {
				session.Fail()
				return "", fmt.Errorf("%w: offset query failed: %v", shared.ErrUploadFailed, qerr)
			}
			if aerr := session.Acknowledge(serverOffset); aerr != nil {
				return "", aerr
			}
			// The chunk's success response was lost but the server already
			// has the whole file; finalize instead of sending more bytes.
			if serverVideoID != "" {
				if cerr := session.Complete(serverVideoID); cerr != nil {
					return "", cerr
				}
				continue
			}
			c.logger.Warn("chunk interrupted, resuming", "offset", serverOffset, "attempt", resumes)
			continue
		}

		switch {
		case status == http.StatusPermanentRedirect: // 308: more chunks expected
			if err := session.Acknowledge(acked); err != nil {
				return "", err
			}
		case status == http.StatusOK || status == http.StatusCreated:
			if err := session.Acknowledge(total); err != nil {
				return "", err
			}
			if err := session.Complete(videoID); err != nil {
				return "", err
			}
		default:
			session.Fail()
			return "", fmt.Errorf("%w: upload rejected with status %d", shared.ErrUploadFailed, status)
		}
	}

	c.logger.Info("upload completed", "video_id", session.VideoID)
	return session.VideoID, nil
}

// createSession opens a resumable upload session and returns its URI.
func (c *YouTubeClient) createSession(ctx context.Context, meta Metadata, total int64) (string, error) {
	var resource videoResource
	resource.Snippet.Title = meta.Title
	resource.Snippet.Description = meta.Description
	resource.Snippet.Tags = meta.Tags
	resource.Snippet.CategoryID = meta.CategoryID
	resource.Status.PrivacyStatus = meta.Privacy

	payload, err := json.Marshal(resource)
	if err != nil {
		return "", fmt.Errorf("failed to marshal video resource: %w", err)
	}

	url := c.uploadURL + "?uploadType=resumable&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(total, 10))
	req.Header.Set("X-Upload-Content-Type", "video/mp4")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: session creation failed: %v", shared.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: session creation status %d", shared.ErrUploadFailed, resp.StatusCode)
	}

	uri := resp.Header.Get("Location")
	if uri == "" {
		return "", fmt.Errorf("%w: session response missing Location header", shared.ErrUploadFailed)
	}
	return uri, nil
}

// putChunk uploads one chunk and reports the response status, the server's
// acknowledged offset (for 308) and the video ID (for 200/201).
func (c *YouTubeClient) putChunk(ctx context.Context, uri string, chunk []byte, offset, total int64) (int, int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri, bytes.NewReader(chunk))
	if err != nil {
		return 0, 0, "", err
	}
	end := offset + int64(len(chunk)) - 1
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", offset, end, total))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPermanentRedirect {
		acked, err := parseRangeHeader(resp.Header.Get("Range"))
		if err != nil {
			return resp.StatusCode, 0, "", err
		}
		return resp.StatusCode, acked, "", nil
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var video videoResource
		if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
			return resp.StatusCode, 0, "", fmt.Errorf("failed to decode upload response: %w", err)
		}
		return resp.StatusCode, total, video.ID, nil
	}

	return resp.StatusCode, 0, "", nil
}

// queryOffset asks the server how many bytes it has durably received.
//
// A 200/201 response means the upload already completed server-side; the
// video ID from the response body is returned so the caller can finalize
// without sending another chunk.
func (c *YouTubeClient) queryOffset(ctx context.Context, uri string, total int64) (int64, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uri, nil)
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Range", fmt.Sprintf("bytes */%d", total))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusPermanentRedirect:
		// No Range header means the server has nothing yet.
		if resp.Header.Get("Range") == "" {
			return 0, "", nil
		}
		offset, err := parseRangeHeader(resp.Header.Get("Range"))
		return offset, "", err
	case http.StatusOK, http.StatusCreated:
		var video videoResource
		if err := json.NewDecoder(resp.Body).Decode(&video); err != nil {
			return 0, "", fmt.Errorf("failed to decode completed upload response: %w", err)
		}
		if video.ID == "" {
			return 0, "", fmt.Errorf("completed upload response missing video id")
		}
		return total, video.ID, nil
	default:
		return 0, "", fmt.Errorf("offset query status %d", resp.StatusCode)
	}
}

// parseRangeHeader converts a "bytes=0-N" acknowledgement into the next
// write offset N+1.
func parseRangeHeader(value string) (int64, error) {
	rest, ok := strings.CutPrefix(value, "bytes=")
	if !ok {
		return 0, fmt.Errorf("malformed Range header %q", value)
	}
	_, high, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, fmt.Errorf("malformed Range header %q", value)
	}
	n, err := strconv.ParseInt(high, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed Range header %q: %w", value, err)
	}
	return n + 1, nil
}
