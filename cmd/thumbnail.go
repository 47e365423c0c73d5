package main

import (
	"context"
	"fmt"
	"os"

	"github.com/playcast/playcast/internal/models"
	"github.com/urfave/cli/v3"
)

// Thumbnail resolves a thumbnail for a playlist name and writes the image to disk.
//
// Debug aid: runs only the fallback chain, no playlist mutation, no upload.
func (r *Runner) Thumbnail(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigFrom(cmd)
	name := cmd.String("playlist")
	outPath := cmd.String("output")

	resolver := r.buildResolver(config)

	asset, err := resolver.Resolve(ctx, models.Playlist{Name: name})
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, asset.Data, 0644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}

	r.logger.Info("thumbnail resolved", "provider", asset.Provenance, "bytes", len(asset.Data))
	r.writePlain("✓ Thumbnail written to %s (provider: %s)\n", outPath, asset.Provenance)
	return nil
}
