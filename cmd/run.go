package main

import (
	"context"
	"fmt"

	"github.com/playcast/playcast/internal/pipeline"
	"github.com/playcast/playcast/internal/ui"
	"github.com/urfave/cli/v3"
)

// Run executes the full pipeline over every tagged playlist.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfigFrom(cmd)
	dryRun := cmd.Bool("dry-run")

	source, err := r.resolveSource(config)
	if err != nil {
		return err
	}

	var (
		resolver  pipeline.ThumbnailResolver
		collector pipeline.AudioCollector
		composer  pipeline.VideoComposer
		publisher pipeline.Publisher
	)
	if !dryRun {
		resolver = r.buildResolver(config)
		collector = r.buildCollector(config, cmd.Bool("abort-on-track-failure"))
		composer = r.buildComposer(config)
		if publisher, err = r.buildPublisher(config); err != nil {
			return err
		}
	}

	opts := pipeline.Options{
		WorkDir:       stringOr(cmd.String("work-dir"), config.Pipeline.WorkDir),
		OutputDir:     stringOr(cmd.String("output-dir"), config.Pipeline.OutputDir),
		KeepArtifacts: cmd.Bool("keep-artifacts") || config.Pipeline.KeepArtifacts,
		Privacy:       config.Credentials.YouTube.Privacy,
		DryRun:        dryRun,
	}

	orchestrator := pipeline.NewOrchestrator(source, resolver, collector, composer, publisher, opts, r.logger)

	r.logger.Info("starting pipeline run", "dry_run", dryRun)
	if dryRun {
		r.writePlain("Dry run: listing tagged playlists...\n\n")
	} else {
		r.writePlain("Starting playlist publishing run...\n\n")
	}

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan pipeline.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case pipeline.ListPlaylists:
				r.writePlain("🔎 %s\n", update.Message)
			case pipeline.ResolveThumbnail:
				r.writePlain("\n🖼  %s\n", update.Message)
			case pipeline.CollectAudio:
				r.writePlain("🎵 %s\n", update.Message)
			case pipeline.ComposeVideo:
				r.writePlain("🎬 %s\n", update.Message)
			case pipeline.UploadVideo:
				r.writePlain("📤 %s\n", update.Message)
			case pipeline.MarkPlaylist:
				r.writePlain("🏷  %s\n", update.Message)
			}
		}
	}()

	summary, err := orchestrator.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n%s", ui.RenderSummary(summary))

	if summary.HardFailed() {
		return fmt.Errorf("%d playlist(s) failed", summary.Failed())
	}
	return nil
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
