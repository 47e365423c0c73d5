package pipeline

import (
	"fmt"

	"github.com/playcast/playcast/internal/models"
)

// ProgressUpdate represents a progress event during a pipeline run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Pipeline phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Pipeline phase enumeration
type Phase int

const (
	ListPlaylists Phase = iota
	ResolveThumbnail
	CollectAudio
	ComposeVideo
	UploadVideo
	MarkPlaylist
)

func (p Phase) String() string {
	switch p {
	case ListPlaylists:
		return "list_playlists"
	case ResolveThumbnail:
		return "resolve_thumbnail"
	case CollectAudio:
		return "collect_audio"
	case ComposeVideo:
		return "compose_video"
	case UploadVideo:
		return "upload_video"
	case MarkPlaylist:
		return "mark_playlist"
	default:
		return ""
	}
}

func listingUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListPlaylists,
		Step:    1,
		Total:   1,
		Message: "Scanning for tagged playlists...",
	}
}

func foundEligibleUpdate(playlists []models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListPlaylists,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d tagged playlist(s)", len(playlists)),
		Data:    playlists,
	}
}

func thumbnailUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveThumbnail,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Resolving thumbnail for %s...", step, total, name),
	}
}

func collectUpdate(step, total int, name string, tracks int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CollectAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching %d track(s) for %s...", step, total, tracks, name),
	}
}

func composeUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ComposeVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Assembling video for %s...", step, total, name),
	}
}

func uploadUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %s...", step, total, name),
	}
}

func uploadedUpdate(step, total int, name, videoID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadVideo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s published (ID: %s)", step, total, name, videoID),
		Data:    videoID,
	}
}

func markUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MarkPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Marking %s done...", step, total, name),
	}
}

func playlistFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MarkPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
