package main

import (
	"context"

	"github.com/playcast/playcast/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes the configuration scaffold for the user to fill in.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config scaffold created", "path", configPath)
	r.writePlain("✓ Config written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in Spotify and YouTube credentials (client id, secret, refresh token)\n")
	r.writePlain("2. Optionally add OpenAI and Unsplash keys for richer thumbnails\n")
	r.writePlain("3. Tag a Spotify playlist with %s and run 'playcast run'\n", "[YOUTUBE]")
	return nil
}
