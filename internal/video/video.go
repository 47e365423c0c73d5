// Package video muxes a still image against concatenated audio with ffmpeg.
package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
)

// commandRunner executes an external command and returns its combined output.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Composer builds a single video artifact from a thumbnail and an audio asset.
type Composer struct {
	binary string
	width  int
	height int
	runner commandRunner
	logger *log.Logger
}

// NewComposer creates a Composer invoking the given ffmpeg binary at the given resolution.
func NewComposer(binary string, width, height int, logger *log.Logger) *Composer {
	if binary == "" {
		binary = "ffmpeg"
	}
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Composer{binary: binary, width: width, height: height, runner: runCommand, logger: logger}
}

// Compose encodes the still image looped over the concatenated audio into outPath.
//
// An empty audio asset is rejected with shared.ErrEncodingFailed before the
// encoder runs: a playlist video is never silently published without audio.
func (c *Composer) Compose(ctx context.Context, thumb *models.ThumbnailAsset, audio *models.AudioAsset, outPath string) (*models.VideoArtifact, error) {
	if audio.Empty() {
		return nil, fmt.Errorf("%w: no audio tracks to encode", shared.ErrEncodingFailed)
	}
	if thumb == nil || len(thumb.Data) == 0 {
		return nil, fmt.Errorf("%w: missing thumbnail image", shared.ErrEncodingFailed)
	}

	imagePath, err := writeTempImage(thumb.Data)
	if err != nil {
		return nil, err
	}
	defer os.Remove(imagePath)

	concatPath, err := writeConcatFile(audio.Paths())
	if err != nil {
		return nil, err
	}
	defer os.Remove(concatPath)

	args := []string{
		"-y",
		"-loop", "1",
		"-i", imagePath,
		"-f", "concat",
		"-safe", "0",
		"-i", concatPath,
		"-vf", fmt.Sprintf("scale=%d:%d", c.width, c.height),
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		"-movflags", "+faststart",
		outPath,
	}

	c.logger.Debug("invoking encoder", "binary", c.binary, "tracks", len(audio.Items), "out", outPath)

	if out, err := c.runner(ctx, c.binary, args...); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", shared.ErrEncodingFailed, err, out)
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: encoder produced no output: %v", shared.ErrEncodingFailed, err)
	}

	c.logger.Info("video assembled", "path", outPath, "bytes", info.Size())
	return &models.VideoArtifact{Path: outPath, Size: info.Size()}, nil
}

// writeTempImage writes the thumbnail bytes to a temp file for the encoder.
// Intermediates never land next to the finished artifact.
func writeTempImage(data []byte) (string, error) {
	f, err := os.CreateTemp("", "playcast-thumb-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}
	return f.Name(), nil
}

// writeConcatFile writes an ffmpeg concat demuxer list of absolute, escaped paths.
func writeConcatFile(paths []string) (string, error) {
	f, err := os.CreateTemp("", "playcast-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create concat file: %w", err)
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to resolve audio path: %w", err)
		}
		escaped := strings.ReplaceAll(filepath.ToSlash(abs), "'", `\'`)
		if _, err := fmt.Fprintf(f, "file '%s'\n", escaped); err != nil {
			f.Close()
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write concat file: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to close concat file: %w", err)
	}
	return f.Name(), nil
}
