package publish

import (
	"fmt"

	"github.com/playcast/playcast/internal/shared"
)

// SessionState tracks where a resumable upload is in its lifecycle.
type SessionState int

const (
	// StateInitiated means the session exists but no session URI was granted yet.
	StateInitiated SessionState = iota
	// StateUploading means the server granted a session URI and chunks may flow.
	StateUploading
	// StateCompleted means every byte was acknowledged and a video ID exists.
	StateCompleted
	// StateFailed is terminal; no further transitions are legal.
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateInitiated:
		return "initiated"
	case StateUploading:
		return "uploading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// UploadSession is the explicit state machine for one resumable upload.
//
// Acknowledged only moves forward, and Completed is unreachable unless
// Acknowledged equals Total.
type UploadSession struct {
	URI          string
	Total        int64
	Acknowledged int64
	State        SessionState
	VideoID      string
}

// NewUploadSession creates a session for an artifact of the given byte size.
func NewUploadSession(total int64) *UploadSession {
	return &UploadSession{Total: total, State: StateInitiated}
}

// Start records the server-granted session URI and enters StateUploading.
func (s *UploadSession) Start(uri string) error {
	if s.State != StateInitiated {
		return fmt.Errorf("%w: cannot start session in state %s", shared.ErrUploadFailed, s.State)
	}
	if uri == "" {
		return fmt.Errorf("%w: empty session URI", shared.ErrUploadFailed)
	}
	s.URI = uri
	s.State = StateUploading
	return nil
}

// Acknowledge records that the server has confirmed bytes [0, offset).
//
// The offset never regresses; a server reporting less than what was already
// acknowledged indicates a protocol violation.
func (s *UploadSession) Acknowledge(offset int64) error {
	if s.State != StateUploading {
		return fmt.Errorf("%w: cannot acknowledge in state %s", shared.ErrUploadFailed, s.State)
	}
	if offset < s.Acknowledged {
		return fmt.Errorf("%w: acknowledged offset regressed from %d to %d", shared.ErrUploadFailed, s.Acknowledged, offset)
	}
	if offset > s.Total {
		return fmt.Errorf("%w: acknowledged offset %d exceeds total %d", shared.ErrUploadFailed, offset, s.Total)
	}
	s.Acknowledged = offset
	return nil
}

// Complete records the published video ID. Legal only once every byte is acknowledged.
func (s *UploadSession) Complete(videoID string) error {
	if s.State != StateUploading {
		return fmt.Errorf("%w: cannot complete in state %s", shared.ErrUploadFailed, s.State)
	}
	if s.Acknowledged != s.Total {
		return fmt.Errorf("%w: completion with %d of %d bytes acknowledged", shared.ErrUploadFailed, s.Acknowledged, s.Total)
	}
	if videoID == "" {
		return fmt.Errorf("%w: completion without a video ID", shared.ErrUploadFailed)
	}
	s.VideoID = videoID
	s.State = StateCompleted
	return nil
}

// Fail moves the session to its terminal failed state.
func (s *UploadSession) Fail() {
	if s.State == StateCompleted {
		return
	}
	s.State = StateFailed
}

// Remaining returns how many bytes the server has not acknowledged yet.
func (s *UploadSession) Remaining() int64 {
	return s.Total - s.Acknowledged
}
