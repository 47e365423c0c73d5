package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/publish"
	"github.com/playcast/playcast/internal/services"
	"github.com/playcast/playcast/internal/shared"
)

// Stage names the pipeline step a playlist failed at.
type Stage string

const (
	StageThumbnail Stage = "thumbnail"
	StageAudio     Stage = "audio"
	StageVideo     Stage = "video"
	StageUpload    Stage = "upload"
	StageRename    Stage = "rename"
)

// ThumbnailResolver resolves a playlist to thumbnail image bytes.
type ThumbnailResolver interface {
	Resolve(ctx context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error)
}

// AudioCollector fetches audio files for every playlist track.
type AudioCollector interface {
	Collect(ctx context.Context, playlist models.Playlist, workDir string) (*models.AudioAsset, error)
}

// VideoComposer builds the video artifact from a thumbnail and audio.
type VideoComposer interface {
	Compose(ctx context.Context, thumb *models.ThumbnailAsset, audio *models.AudioAsset, outPath string) (*models.VideoArtifact, error)
}

// Publisher uploads a finished artifact and returns the published video ID.
type Publisher interface {
	Authenticate(ctx context.Context) error
	Upload(ctx context.Context, artifact *models.VideoArtifact, meta publish.Metadata) (string, error)
}

// Options configures a pipeline run.
type Options struct {
	WorkDir       string // scratch space for downloads and intermediates
	OutputDir     string // where finished artifacts land
	KeepArtifacts bool   // retain uploaded videos on disk
	Privacy       string // privacy status for published videos
	DryRun        bool   // list eligible playlists, mutate nothing
}

// PlaylistResult records the outcome for one playlist.
//
// A nil Err means the playlist went all the way through to the rename.
type PlaylistResult struct {
	Playlist   models.Playlist
	VideoID    string
	Provenance string // which thumbnail tier won
	Stage      Stage  // stage the playlist failed at, empty on success
	Err        error
}

// Summary contains all per-playlist outcomes of a run.
type Summary struct {
	RunID   string
	Results []PlaylistResult
}

// Succeeded counts playlists that published and renamed cleanly.
func (s *Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts playlists that stopped at some stage.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// HardFailed reports whether any playlist failed; drives the process exit status.
func (s *Summary) HardFailed() bool {
	return s.Failed() > 0
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	source    services.PlaylistSource
	thumbs    ThumbnailResolver
	audio     AudioCollector
	video     VideoComposer
	publisher Publisher
	opts      Options
	logger    *log.Logger
}

// NewOrchestrator creates an Orchestrator over the given stage implementations.
func NewOrchestrator(source services.PlaylistSource, thumbs ThumbnailResolver, audio AudioCollector, video VideoComposer, publisher Publisher, opts Options, logger *log.Logger) *Orchestrator {
	if opts.WorkDir == "" {
		opts.WorkDir = "./tmp"
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "./output"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Orchestrator{
		source:    source,
		thumbs:    thumbs,
		audio:     audio,
		video:     video,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (o *Orchestrator) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run processes every tagged playlist in sequence and returns the run summary.
//
// A run with zero eligible playlists performs zero mutations and zero uploads.
// Per-playlist failures are recorded in the summary and never stop the run;
// only setup failures (authentication, listing) abort it.
func (o *Orchestrator) Run(ctx context.Context, progress chan<- ProgressUpdate) (*Summary, error) {
	if o.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}
	if !o.opts.DryRun && (o.thumbs == nil || o.audio == nil || o.video == nil || o.publisher == nil) {
		return nil, fmt.Errorf("%w: pipeline stage not initialized", shared.ErrServiceUnavailable)
	}

	summary := &Summary{RunID: shared.GenerateID()}
	logger := o.logger.With("run_id", summary.RunID)

	if err := o.source.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s authentication failed: %v", shared.ErrAuthFailed, o.source.Name(), err)
	}

	o.sendProgress(progress, listingUpdate())
	eligible, err := o.source.ListEligible(ctx)
	if err != nil {
		return nil, err
	}
	o.sendProgress(progress, foundEligibleUpdate(eligible))
	logger.Info("eligible playlists listed", "count", len(eligible))

	if len(eligible) == 0 {
		return summary, nil
	}

	if o.opts.DryRun {
		for _, pl := range eligible {
			summary.Results = append(summary.Results, PlaylistResult{Playlist: pl})
		}
		return summary, nil
	}

	if err := o.publisher.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: publisher authentication failed: %v", shared.ErrAuthFailed, err)
	}

	total := len(eligible)
	for i, pl := range eligible {
		result := o.processPlaylist(ctx, pl, i+1, total, progress, logger.With("playlist", pl.CleanName()))
		if result.Err != nil {
			o.sendProgress(progress, playlistFailedUpdate(i+1, total, pl.CleanName(), result.Err))
		}
		summary.Results = append(summary.Results, result)
	}

	logger.Info("run finished", "succeeded", summary.Succeeded(), "failed", summary.Failed())
	return summary, nil
}

// processPlaylist walks one playlist through the full stage sequence.
//
// Each stage's output feeds the next; the first error stops the sequence and
// is recorded with its stage. The rename happens exactly once, only after a
// successful upload.
func (o *Orchestrator) processPlaylist(ctx context.Context, pl models.Playlist, step, total int, progress chan<- ProgressUpdate, logger *log.Logger) PlaylistResult {
	result := PlaylistResult{Playlist: pl}
	name := pl.CleanName()

	workDir := filepath.Join(o.opts.WorkDir, shared.SanitizeFilename(name))
	if err := os.MkdirAll(workDir, 0755); err != nil {
		result.Stage = StageAudio
		result.Err = fmt.Errorf("cannot create work dir: %w", err)
		return result
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("could not clean work dir", "dir", workDir, "err", err)
		}
	}()

	o.sendProgress(progress, thumbnailUpdate(step, total, name))
	thumb, err := o.thumbs.Resolve(ctx, pl)
	if err != nil {
		result.Stage = StageThumbnail
		result.Err = err
		return result
	}
	result.Provenance = thumb.Provenance
	logger.Info("thumbnail resolved", "provenance", thumb.Provenance)

	o.sendProgress(progress, collectUpdate(step, total, name, len(pl.Tracks)))
	audio, err := o.audio.Collect(ctx, pl, workDir)
	if err != nil {
		result.Stage = StageAudio
		result.Err = err
		return result
	}

	if err := os.MkdirAll(o.opts.OutputDir, 0755); err != nil {
		result.Stage = StageVideo
		result.Err = fmt.Errorf("cannot create output dir: %w", err)
		return result
	}
	outPath := filepath.Join(o.opts.OutputDir, shared.SanitizeFilename(name)+".mp4")

	o.sendProgress(progress, composeUpdate(step, total, name))
	artifact, err := o.video.Compose(ctx, thumb, audio, outPath)
	if err != nil {
		result.Stage = StageVideo
		result.Err = err
		return result
	}
	logger.Info("artifact composed", "path", artifact.Path, "bytes", artifact.Size)

	o.sendProgress(progress, uploadUpdate(step, total, name))
	meta := publish.MetadataFor(pl, audio, o.opts.Privacy)
	videoID, err := o.publisher.Upload(ctx, artifact, meta)
	if err != nil {
		result.Stage = StageUpload
		result.Err = err
		return result
	}
	result.VideoID = videoID
	o.sendProgress(progress, uploadedUpdate(step, total, name, videoID))

	if !o.opts.KeepArtifacts {
		if err := os.Remove(artifact.Path); err != nil {
			logger.Warn("could not remove uploaded artifact", "path", artifact.Path, "err", err)
		}
	}

	o.sendProgress(progress, markUpdate(step, total, name))
	if err := o.source.MarkDone(ctx, pl); err != nil {
		result.Stage = StageRename
		result.Err = err
		return result
	}

	logger.Info("playlist published", "video_id", videoID)
	return result
}
