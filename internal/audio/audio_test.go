package audio

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
)

type fakeFetcher struct {
	failing map[string]bool // track titles that fail
	delay   func() time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, track models.Track, destDir string) (string, error) {
	if f.delay != nil {
		select {
		case <-time.After(f.delay()):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.failing[track.Title] {
		return "", fmt.Errorf("no source found")
	}
	return filepath.Join(destDir, track.Title+".mp3"), nil
}

func testTracks(titles ...string) []models.Track {
	tracks := make([]models.Track, len(titles))
	for i, title := range titles {
		tracks[i] = models.Track{Title: title, Artist: "Artist"}
	}
	return tracks
}

func TestCollect(t *testing.T) {
	t.Run("output order matches input order", func(t *testing.T) {
		titles := []string{"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7"}
		pl := models.Playlist{Name: "Mix [YOUTUBE]", Tracks: testTracks(titles...)}

		// Randomized per-fetch latency: completion order must not leak
		// into output order.
		fetcher := &fakeFetcher{delay: func() time.Duration {
			return time.Duration(rand.Intn(20)) * time.Millisecond
		}}

		collector := NewCollector(fetcher, 4, PolicySkip, nil)
		asset, err := collector.Collect(context.Background(), pl, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(asset.Items) != len(titles) {
			t.Fatalf("expected %d items, got %d", len(titles), len(asset.Items))
		}
		for i, item := range asset.Items {
			if item.Track.Title != titles[i] {
				t.Errorf("item %d: expected %s, got %s", i, titles[i], item.Track.Title)
			}
		}
	})

	t.Run("skip policy records gaps and keeps order", func(t *testing.T) {
		pl := models.Playlist{Tracks: testTracks("a", "b", "c", "d")}
		fetcher := &fakeFetcher{failing: map[string]bool{"b": true}}

		collector := NewCollector(fetcher, 2, PolicySkip, nil)
		asset, err := collector.Collect(context.Background(), pl, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error under skip policy, got %v", err)
		}

		want := []string{"a", "c", "d"}
		if len(asset.Items) != len(want) {
			t.Fatalf("expected %d items, got %d", len(want), len(asset.Items))
		}
		for i, item := range asset.Items {
			if item.Track.Title != want[i] {
				t.Errorf("item %d: expected %s, got %s", i, want[i], item.Track.Title)
			}
		}
		if len(asset.Gaps) != 1 || asset.Gaps[0].Title != "b" {
			t.Errorf("expected gap for 'b', got %v", asset.Gaps)
		}
	})

	t.Run("abort policy fails fast", func(t *testing.T) {
		pl := models.Playlist{Tracks: testTracks("a", "b", "c")}
		fetcher := &fakeFetcher{failing: map[string]bool{"b": true}}

		collector := NewCollector(fetcher, 1, PolicyAbort, nil)
		_, err := collector.Collect(context.Background(), pl, t.TempDir())
		if !errors.Is(err, shared.ErrTrackFetchFailed) {
			t.Errorf("expected ErrTrackFetchFailed, got %v", err)
		}
	})

	t.Run("all failures under skip policy yield empty asset", func(t *testing.T) {
		pl := models.Playlist{Tracks: testTracks("a", "b")}
		fetcher := &fakeFetcher{failing: map[string]bool{"a": true, "b": true}}

		collector := NewCollector(fetcher, 2, PolicySkip, nil)
		asset, err := collector.Collect(context.Background(), pl, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !asset.Empty() {
			t.Error("expected empty asset")
		}
		if len(asset.Gaps) != 2 {
			t.Errorf("expected 2 gaps, got %d", len(asset.Gaps))
		}
	})

	t.Run("empty playlist yields empty asset", func(t *testing.T) {
		collector := NewCollector(&fakeFetcher{}, 2, PolicySkip, nil)
		asset, err := collector.Collect(context.Background(), models.Playlist{}, t.TempDir())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !asset.Empty() {
			t.Error("expected empty asset")
		}
	})
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("abort") != PolicyAbort {
		t.Error("expected abort policy")
	}
	if ParsePolicy("skip") != PolicySkip {
		t.Error("expected skip policy")
	}
	if ParsePolicy("") != PolicySkip {
		t.Error("expected default skip policy")
	}
}

func TestYTDLPFetcher(t *testing.T) {
	track := models.Track{Title: "Go Your Own Way", Artist: "Fleetwood Mac"}

	t.Run("builds search command and verifies output", func(t *testing.T) {
		dir := t.TempDir()
		var gotName string
		var gotArgs []string

		f := NewYTDLPFetcher("yt-dlp", "")
		f.runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotName = name
			gotArgs = args
			// Simulate yt-dlp writing the expected file.
			path := filepath.Join(dir, shared.SanitizeFilename(track.Query())+".mp3")
			return nil, os.WriteFile(path, []byte("audio"), 0644)
		}

		path, err := f.Fetch(context.Background(), track, dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotName != "yt-dlp" {
			t.Errorf("expected yt-dlp binary, got %s", gotName)
		}

		joined := strings.Join(gotArgs, " ")
		if !strings.Contains(joined, "ytsearch1:Fleetwood Mac - Go Your Own Way") {
			t.Errorf("expected search query in args, got %s", joined)
		}
		if !strings.Contains(joined, "--audio-format mp3") {
			t.Errorf("expected mp3 extraction args, got %s", joined)
		}
		if !strings.HasSuffix(path, ".mp3") {
			t.Errorf("expected mp3 output path, got %s", path)
		}
	})

	t.Run("reuses existing download without invoking tool", func(t *testing.T) {
		dir := t.TempDir()
		existing := filepath.Join(dir, shared.SanitizeFilename(track.Query())+".mp3")
		if err := os.WriteFile(existing, []byte("audio"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		f := NewYTDLPFetcher("yt-dlp", "")
		f.runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			t.Error("runner should not be invoked for cached file")
			return nil, nil
		}

		path, err := f.Fetch(context.Background(), track, dir)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if path != existing {
			t.Errorf("expected cached path %s, got %s", existing, path)
		}
	})

	t.Run("tool failure surfaces", func(t *testing.T) {
		f := NewYTDLPFetcher("yt-dlp", "")
		f.runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("ERROR: no video found"), fmt.Errorf("exit status 1")
		}

		if _, err := f.Fetch(context.Background(), track, t.TempDir()); err == nil {
			t.Error("expected error when tool fails")
		}
	})

	t.Run("missing output is an error", func(t *testing.T) {
		f := NewYTDLPFetcher("yt-dlp", "")
		f.runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, nil // tool "succeeds" but writes nothing
		}

		if _, err := f.Fetch(context.Background(), track, t.TempDir()); err == nil {
			t.Error("expected error for missing output file")
		}
	})

	t.Run("cookies flag included when configured", func(t *testing.T) {
		dir := t.TempDir()
		var gotArgs []string

		f := NewYTDLPFetcher("yt-dlp", "/etc/cookies.txt")
		f.runner = func(ctx context.Context, name string, args ...string) ([]byte, error) {
			gotArgs = args
			path := filepath.Join(dir, shared.SanitizeFilename(track.Query())+".mp3")
			return nil, os.WriteFile(path, []byte("audio"), 0644)
		}

		if _, err := f.Fetch(context.Background(), track, dir); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(strings.Join(gotArgs, " "), "--cookies /etc/cookies.txt") {
			t.Error("expected cookies flag in args")
		}
	})
}
