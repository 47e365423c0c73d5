package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		content := `
[credentials.spotify]
client_id = "abc"
client_secret = "def"
refresh_token = "ghi"

[pipeline]
work_dir = "/tmp/playcast"
track_policy = "abort"
fetch_workers = 5
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write temp config: %v", err)
		}

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if config.Credentials.Spotify.ClientID != "abc" {
			t.Errorf("expected client_id 'abc', got %s", config.Credentials.Spotify.ClientID)
		}
		if config.Pipeline.TrackPolicy != "abort" {
			t.Errorf("expected track_policy 'abort', got %s", config.Pipeline.TrackPolicy)
		}
		if config.Pipeline.FetchWorkers != 5 {
			t.Errorf("expected fetch_workers 5, got %d", config.Pipeline.FetchWorkers)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.toml")
		if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write temp config: %v", err)
		}

		if _, err := LoadConfig(path); err == nil {
			t.Error("expected error for malformed config")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Pipeline.WorkDir == "" {
		t.Error("expected default work_dir to be set")
	}
	if config.Pipeline.TrackPolicy != "skip" {
		t.Errorf("expected default track_policy 'skip', got %s", config.Pipeline.TrackPolicy)
	}
	if config.Pipeline.VideoWidth != 1920 || config.Pipeline.VideoHeight != 1080 {
		t.Errorf("expected 1920x1080 defaults, got %dx%d", config.Pipeline.VideoWidth, config.Pipeline.VideoHeight)
	}
	if config.Pipeline.UploadChunkMB != 10 {
		t.Errorf("expected default upload_chunk_mb 10, got %d", config.Pipeline.UploadChunkMB)
	}
	if config.Credentials.YouTube.Privacy != "unlisted" {
		t.Errorf("expected default privacy 'unlisted', got %s", config.Credentials.YouTube.Privacy)
	}
	if config.Tools.FFmpegPath != "ffmpeg" {
		t.Errorf("expected default ffmpeg path, got %s", config.Tools.FFmpegPath)
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("creates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Error("expected config file to exist")
		}

		// The written scaffold must itself parse.
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("expected scaffold to parse, got %v", err)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
			t.Fatalf("failed to seed file: %v", err)
		}

		if err := CreateConfigFile(path); err == nil {
			t.Error("expected error for existing file")
		}
	})
}
