// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// runCommand drives the full playlist-to-video pipeline.
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Publish every tagged playlist as a YouTube video",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "work-dir",
				Usage: "Scratch directory for downloads and intermediates",
			},
			&cli.StringFlag{
				Name:  "output-dir",
				Usage: "Directory for finished video artifacts",
			},
			&cli.BoolFlag{
				Name:  "keep-artifacts",
				Usage: "Retain uploaded videos on disk",
			},
			&cli.BoolFlag{
				Name:  "abort-on-track-failure",
				Usage: "Fail a playlist on the first unfetchable track instead of skipping it",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "List eligible playlists and stop before any mutation",
			},
		},
		Action: r.Run,
	}
}

// playlistsCommand lists playlists with their derived tag state.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List playlists with their derived tag state",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Playlists,
	}
}

// thumbnailCommand runs only the thumbnail fallback chain, as a debugging aid.
func thumbnailCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "thumbnail",
		Usage: "Resolve a thumbnail for a playlist name and write it to disk",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "playlist",
				Usage:    "Playlist name to resolve a thumbnail for",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output image path",
				Value:   "thumbnail.png",
			},
		},
		Action: r.Thumbnail,
	}
}

// setupCommand writes the configuration scaffold.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Write a config.toml scaffold to fill in",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
