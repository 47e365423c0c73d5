package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
	tu "github.com/playcast/playcast/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "playcast",
		Commands: r.register(),
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := &tu.MockSource{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Source: source,
				Logger: logger,
				Output: output,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})
}

func TestRunCommand(t *testing.T) {
	eligible := models.Playlist{
		ID:     "p1",
		Name:   "Road Trip [YOUTUBE]",
		Tracks: []models.Track{{Title: "a", Artist: "Artist"}},
	}

	t.Run("full run publishes and reports the summary", func(t *testing.T) {
		base := t.TempDir()
		output := &bytes.Buffer{}
		source := &tu.MockSource{Playlists: []models.Playlist{eligible}}

		runner := NewRunner(RunnerOpts{
			Source:    source,
			Resolver:  &tu.MockResolver{},
			Collector: &tu.MockCollector{},
			Composer:  &tu.MockComposer{},
			Publisher: &tu.MockPublisher{VideoID: "vid1"},
			Output:    output,
		})

		err := newTestApp(runner).Run(context.Background(), []string{
			"playcast", "run",
			"--work-dir", filepath.Join(base, "work"),
			"--output-dir", filepath.Join(base, "out"),
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(source.Marked) != 1 || source.Marked[0] != "p1" {
			t.Errorf("expected playlist marked done, got %v", source.Marked)
		}
		out := output.String()
		if !strings.Contains(out, "Run Summary") {
			t.Errorf("expected summary header, got %q", out)
		}
		if !strings.Contains(out, "vid1") {
			t.Errorf("expected video ID in output, got %q", out)
		}
	})

	t.Run("dry run mutates nothing", func(t *testing.T) {
		output := &bytes.Buffer{}
		source := &tu.MockSource{Playlists: []models.Playlist{eligible}}
		publisher := &tu.MockPublisher{}

		runner := NewRunner(RunnerOpts{
			Source:    source,
			Publisher: publisher,
			Output:    output,
		})

		err := newTestApp(runner).Run(context.Background(), []string{"playcast", "run", "--dry-run"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(source.Marked) != 0 || len(publisher.Uploads) != 0 {
			t.Error("dry run must not mutate anything")
		}
		if !strings.Contains(output.String(), "Road Trip") {
			t.Errorf("expected eligible playlist listed, got %q", output.String())
		}
	})

	t.Run("playlist failure yields a non-zero exit error", func(t *testing.T) {
		base := t.TempDir()
		source := &tu.MockSource{Playlists: []models.Playlist{
			{ID: "p1", Name: "Empty [YOUTUBE]"}, // no tracks, composition fails
		}}

		runner := NewRunner(RunnerOpts{
			Source:    source,
			Resolver:  &tu.MockResolver{},
			Collector: &tu.MockCollector{},
			Composer:  &tu.MockComposer{},
			Publisher: &tu.MockPublisher{},
			Output:    &bytes.Buffer{},
		})

		err := newTestApp(runner).Run(context.Background(), []string{
			"playcast", "run",
			"--work-dir", filepath.Join(base, "work"),
			"--output-dir", filepath.Join(base, "out"),
		})
		if err == nil {
			t.Fatal("expected error when a playlist fails")
		}
		if !strings.Contains(err.Error(), "failed") {
			t.Errorf("expected failure count in error, got %v", err)
		}
	})
}

func TestPlaylistsCommand(t *testing.T) {
	playlists := []models.Playlist{
		{ID: "p1", Name: "Road Trip [YOUTUBE]"},
		{ID: "p2", Name: "Published [DONE]"},
		{ID: "p3", Name: "Plain"},
	}

	t.Run("plain output shows states", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Source: &tu.MockSource{Playlists: playlists},
			Output: output,
		})

		err := newTestApp(runner).Run(context.Background(), []string{"playcast", "playlists"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		for _, want := range []string{"Road Trip", "pending", "Published", "done", "Plain", "untagged", "3 playlist(s), 1 pending"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output, got %q", want, out)
			}
		}
	})

	t.Run("json output", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Source: &tu.MockSource{Playlists: playlists},
			Output: output,
		})

		err := newTestApp(runner).Run(context.Background(), []string{"playcast", "playlists", "--json"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		if !strings.Contains(out, `"state":"pending"`) {
			t.Errorf("expected JSON state field, got %q", out)
		}
		if !strings.Contains(out, `"id":"p1"`) {
			t.Errorf("expected JSON id field, got %q", out)
		}
	})
}

func TestThumbnailCommand(t *testing.T) {
	t.Run("writes resolved image to disk", func(t *testing.T) {
		outPath := filepath.Join(t.TempDir(), "thumb.png")
		output := &bytes.Buffer{}

		runner := NewRunner(RunnerOpts{
			Resolver: &tu.MockResolver{Asset: &models.ThumbnailAsset{Data: []byte("png-bytes"), Provenance: "synthesized"}},
			Output:   output,
		})

		err := newTestApp(runner).Run(context.Background(), []string{
			"playcast", "thumbnail", "--playlist", "Road Trip", "-o", outPath,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		data, err := os.ReadFile(outPath)
		if err != nil {
			t.Fatalf("expected image written, got %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("unexpected image content: %q", data)
		}
		if !strings.Contains(output.String(), "synthesized") {
			t.Errorf("expected provenance reported, got %q", output.String())
		}
	})
}

func TestSetupCommand(t *testing.T) {
	t.Run("creates config scaffold", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		err := newTestApp(runner).Run(context.Background(), []string{"playcast", "setup", "--config", configPath})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Error("expected config file created")
		}
		if !strings.Contains(output.String(), configPath) {
			t.Errorf("expected path in output, got %q", output.String())
		}
	})

	t.Run("refuses to overwrite an existing config", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("existing"), 0644); err != nil {
			t.Fatalf("failed to seed config: %v", err)
		}

		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})
		err := newTestApp(runner).Run(context.Background(), []string{"playcast", "setup", "--config", configPath})
		if err == nil {
			t.Fatal("expected error for existing config")
		}
	})
}
