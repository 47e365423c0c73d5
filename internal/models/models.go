// package models defines the data model for the playlist publishing pipeline
package models

import (
	"strings"
	"time"
)

// Display-name markers used as the sole persistence mechanism for pipeline state.
const (
	PendingMarker = "[YOUTUBE]"
	DoneMarker    = "[DONE]"
)

// TagState represents the pipeline state derived from a playlist's display name.
type TagState int

const (
	Untagged TagState = iota
	TagPending
	TagDone
)

func (s TagState) String() string {
	switch s {
	case TagPending:
		return "pending"
	case TagDone:
		return "done"
	default:
		return "untagged"
	}
}

// Playlist represents a tagged music playlist from the source service.
type Playlist struct {
	ID       string
	Name     string
	Tracks   []Track
	CoverURL string
}

// State derives the playlist's tag state from its display name.
//
// A name carrying both markers counts as done so the playlist is never reprocessed.
func (p Playlist) State() TagState {
	if strings.Contains(p.Name, DoneMarker) {
		return TagDone
	}
	if strings.Contains(p.Name, PendingMarker) {
		return TagPending
	}
	return Untagged
}

// CleanName returns the display name with all pipeline markers stripped.
func (p Playlist) CleanName() string {
	name := strings.ReplaceAll(p.Name, PendingMarker, "")
	name = strings.ReplaceAll(name, DoneMarker, "")
	return strings.TrimSpace(name)
}

// DoneName returns the display name with the pending marker replaced by the done marker.
func (p Playlist) DoneName() string {
	return strings.Replace(p.Name, PendingMarker, DoneMarker, 1)
}

// Track represents a single track within a playlist. Read-only pipeline input.
type Track struct {
	Title    string
	Artist   string
	Duration time.Duration
	SourceID string
}

// Query returns the "artist - title" search string used to resolve an audio source.
func (t Track) Query() string {
	return t.Artist + " - " + t.Title
}

// ThumbnailAsset is a still image produced for a playlist, tagged with the provider that made it.
type ThumbnailAsset struct {
	Data       []byte
	Provenance string
}

// TrackAudio pairs a track with the local path of its fetched audio.
type TrackAudio struct {
	Track Track
	Path  string
}

// AudioAsset is the ordered audio for a playlist run.
//
// Items order always matches the source playlist's track order. Gaps records
// tracks that could not be fetched under the skip policy.
type AudioAsset struct {
	Items []TrackAudio
	Gaps  []Track
}

// Empty reports whether no track audio was collected.
func (a *AudioAsset) Empty() bool {
	return a == nil || len(a.Items) == 0
}

// Paths returns the audio file paths in play order.
func (a *AudioAsset) Paths() []string {
	paths := make([]string, len(a.Items))
	for i, item := range a.Items {
		paths[i] = item.Path
	}
	return paths
}

// VideoArtifact is the encoded media file produced by the composer.
type VideoArtifact struct {
	Path string
	Size int64
}
