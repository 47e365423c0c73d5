package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
)

// commandRunner executes an external command and returns its combined output.
// Injectable so tests can exercise argument construction without yt-dlp.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// YTDLPFetcher downloads track audio by searching YouTube with yt-dlp.
type YTDLPFetcher struct {
	binary      string
	cookiesFile string
	runner      commandRunner
}

// NewYTDLPFetcher creates a fetcher shelling out to the given yt-dlp binary.
func NewYTDLPFetcher(binary, cookiesFile string) *YTDLPFetcher {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &YTDLPFetcher{binary: binary, cookiesFile: cookiesFile, runner: runCommand}
}

// Fetch downloads the best audio match for the track as an mp3 under destDir.
//
// An already-downloaded file is reused, so a re-run after a partial failure
// only fetches what is missing.
func (f *YTDLPFetcher) Fetch(ctx context.Context, track models.Track, destDir string) (string, error) {
	query := track.Query()
	safe := shared.SanitizeFilename(query)
	outputPath := filepath.Join(destDir, safe+".mp3")

	if _, err := os.Stat(outputPath); err == nil {
		return outputPath, nil
	}

	args := []string{
		"--no-playlist",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", filepath.Join(destDir, safe+".%(ext)s"),
		"--quiet",
		"--no-warnings",
	}
	if f.cookiesFile != "" {
		args = append(args, "--cookies", f.cookiesFile)
	}
	args = append(args, "ytsearch1:"+query)

	if out, err := f.runner(ctx, f.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp failed for %q: %w: %s", query, err, out)
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("expected output file not found: %s", outputPath)
	}

	return outputPath, nil
}
