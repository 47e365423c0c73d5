package main

import (
	"context"

	"github.com/playcast/playcast/internal/ui"
	"github.com/urfave/cli/v3"
)

type playlistRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// Playlists lists every playlist with its derived tag state.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigFrom(cmd)

	source, err := r.resolveSource(config)
	if err != nil {
		return err
	}
	if err := source.Authenticate(ctx); err != nil {
		return err
	}

	playlists, err := source.ListPlaylists(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		rows := make([]playlistRow, len(playlists))
		for i, pl := range playlists {
			rows[i] = playlistRow{ID: pl.ID, Name: pl.Name, State: pl.State().String()}
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	pending := 0
	for _, pl := range playlists {
		state := pl.State()
		if state.String() == "pending" {
			pending++
		}
		r.writePlain("%s\n", ui.RenderPlaylistLine(pl.CleanName(), state.String()))
	}
	r.writePlainln("%d playlist(s), %d pending", len(playlists), pending)

	return nil
}
