package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/audio"
	"github.com/playcast/playcast/internal/pipeline"
	"github.com/playcast/playcast/internal/publish"
	"github.com/playcast/playcast/internal/services"
	"github.com/playcast/playcast/internal/shared"
	"github.com/playcast/playcast/internal/thumbnail"
	"github.com/playcast/playcast/internal/video"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config    *shared.Config
	source    services.PlaylistSource
	resolver  pipeline.ThumbnailResolver
	collector pipeline.AudioCollector
	composer  pipeline.VideoComposer
	publisher pipeline.Publisher
	logger    *log.Logger
	output    io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Stage fields left nil are built from the loaded config at command time.
type RunnerOpts struct {
	Config    *shared.Config
	Source    services.PlaylistSource
	Resolver  pipeline.ThumbnailResolver
	Collector pipeline.AudioCollector
	Composer  pipeline.VideoComposer
	Publisher pipeline.Publisher
	Logger    *log.Logger
	Output    io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:    opts.Config,
		source:    opts.Source,
		resolver:  opts.Resolver,
		collector: opts.Collector,
		composer:  opts.Composer,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		output:    opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, playlistsCommand, thumbnailCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfigFrom reloads the runner's config from the --config flag when the
// file exists; otherwise the config provided at construction stands.
func (r *Runner) loadConfigFrom(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using existing", "path", path, "error", err)
		return r.config
	}
	r.config = config
	return config
}

func (r *Runner) resolveSource(config *shared.Config) (services.PlaylistSource, error) {
	if r.source != nil {
		return r.source, nil
	}
	source, err := services.NewSpotifyService(config.Credentials.Spotify)
	if err != nil {
		return nil, err
	}
	r.source = source
	return source, nil
}

// buildResolver assembles the thumbnail fallback chain from configured
// credentials. The synthesizer is always the last tier, so the chain is total.
func (r *Runner) buildResolver(config *shared.Config) pipeline.ThumbnailResolver {
	if r.resolver != nil {
		return r.resolver
	}

	var providers []thumbnail.Provider
	if key := config.Credentials.OpenAI.APIKey; key != "" {
		providers = append(providers, thumbnail.NewOpenAIProvider(key))
	}
	if key := config.Credentials.Unsplash.AccessKey; key != "" {
		providers = append(providers, thumbnail.NewUnsplashProvider(key))
	}
	providers = append(providers, thumbnail.NewSynthProvider(config.Pipeline.VideoWidth, config.Pipeline.VideoHeight))

	return thumbnail.NewResolver(r.logger, providers...)
}

func (r *Runner) buildCollector(config *shared.Config, abortOnFailure bool) pipeline.AudioCollector {
	if r.collector != nil {
		return r.collector
	}

	policy := audio.ParsePolicy(config.Pipeline.TrackPolicy)
	if abortOnFailure {
		policy = audio.PolicyAbort
	}
	fetcher := audio.NewYTDLPFetcher(config.Tools.YTDLPPath, config.Tools.CookiesFile)
	return audio.NewCollector(fetcher, config.Pipeline.FetchWorkers, policy, r.logger)
}

func (r *Runner) buildComposer(config *shared.Config) pipeline.VideoComposer {
	if r.composer != nil {
		return r.composer
	}
	return video.NewComposer(config.Tools.FFmpegPath, config.Pipeline.VideoWidth, config.Pipeline.VideoHeight, r.logger)
}

func (r *Runner) buildPublisher(config *shared.Config) (pipeline.Publisher, error) {
	if r.publisher != nil {
		return r.publisher, nil
	}
	return publish.NewYouTubeClient(config.Credentials.YouTube, config.Pipeline.UploadChunkMB, config.Pipeline.UploadMaxResumes, r.logger)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
