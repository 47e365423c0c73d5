package publish

import (
	"errors"
	"testing"

	"github.com/playcast/playcast/internal/shared"
)

func TestUploadSession(t *testing.T) {
	t.Run("happy path walks initiated to completed", func(t *testing.T) {
		s := NewUploadSession(100)
		if s.State != StateInitiated {
			t.Fatalf("expected initiated, got %s", s.State)
		}

		if err := s.Start("https://upload.example.com/session/abc"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if s.State != StateUploading {
			t.Errorf("expected uploading, got %s", s.State)
		}

		if err := s.Acknowledge(50); err != nil {
			t.Fatalf("acknowledge failed: %v", err)
		}
		if err := s.Acknowledge(100); err != nil {
			t.Fatalf("acknowledge failed: %v", err)
		}

		if err := s.Complete("vid123"); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if s.State != StateCompleted || s.VideoID != "vid123" {
			t.Errorf("expected completed with video ID, got %s %q", s.State, s.VideoID)
		}
	})

	t.Run("complete requires every byte acknowledged", func(t *testing.T) {
		s := NewUploadSession(100)
		if err := s.Start("uri"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := s.Acknowledge(99); err != nil {
			t.Fatalf("acknowledge failed: %v", err)
		}

		err := s.Complete("vid123")
		if !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected ErrUploadFailed for partial completion, got %v", err)
		}
		if s.State == StateCompleted {
			t.Error("session must not complete with unacknowledged bytes")
		}
	})

	t.Run("acknowledged offset never regresses", func(t *testing.T) {
		s := NewUploadSession(100)
		if err := s.Start("uri"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := s.Acknowledge(60); err != nil {
			t.Fatalf("acknowledge failed: %v", err)
		}

		if err := s.Acknowledge(40); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected regression rejection, got %v", err)
		}
		if s.Acknowledged != 60 {
			t.Errorf("expected offset held at 60, got %d", s.Acknowledged)
		}
	})

	t.Run("acknowledge beyond total is rejected", func(t *testing.T) {
		s := NewUploadSession(100)
		if err := s.Start("uri"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := s.Acknowledge(101); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected overflow rejection, got %v", err)
		}
	})

	t.Run("start requires a session URI", func(t *testing.T) {
		s := NewUploadSession(100)
		if err := s.Start(""); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected rejection of empty URI, got %v", err)
		}
	})

	t.Run("transitions from terminal states are illegal", func(t *testing.T) {
		s := NewUploadSession(0)
		if err := s.Start("uri"); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := s.Complete("vid"); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		if err := s.Start("other"); err == nil {
			t.Error("expected start after completion to fail")
		}
		if err := s.Acknowledge(0); err == nil {
			t.Error("expected acknowledge after completion to fail")
		}

		// Fail never demotes a completed session.
		s.Fail()
		if s.State != StateCompleted {
			t.Errorf("expected completed to stay terminal, got %s", s.State)
		}
	})

	t.Run("fail is terminal from any active state", func(t *testing.T) {
		s := NewUploadSession(10)
		s.Fail()
		if s.State != StateFailed {
			t.Errorf("expected failed, got %s", s.State)
		}
		if err := s.Start("uri"); err == nil {
			t.Error("expected start after failure to fail")
		}
	})
}
