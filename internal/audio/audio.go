// Package audio resolves playlist tracks to local audio files.
//
// Fetches run concurrently across a bounded worker pool but the returned
// asset always lists tracks in source playlist order.
package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/playcast/playcast/internal/models"
	"github.com/playcast/playcast/internal/shared"
)

// Policy controls what a per-track fetch failure does to the run.
type Policy int

const (
	// PolicySkip records a gap for the failed track and continues.
	PolicySkip Policy = iota
	// PolicyAbort fails the whole collection on the first track failure.
	PolicyAbort
)

// ParsePolicy maps a config string to a Policy. Unknown values default to skip.
func ParsePolicy(s string) Policy {
	if s == "abort" {
		return PolicyAbort
	}
	return PolicySkip
}

// Fetcher resolves one track to a local audio file.
type Fetcher interface {
	Fetch(ctx context.Context, track models.Track, destDir string) (string, error)
}

// Collector fetches audio for every track of a playlist.
type Collector struct {
	fetcher Fetcher
	workers int
	policy  Policy
	logger  *log.Logger
}

// NewCollector creates a Collector with the given fetcher and worker count.
func NewCollector(fetcher Fetcher, workers int, policy Policy, logger *log.Logger) *Collector {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Collector{fetcher: fetcher, workers: workers, policy: policy, logger: logger}
}

type fetchResult struct {
	index int
	path  string
	err   error
}

// Collect fetches audio for every track and reassembles results in source order.
//
// Under PolicySkip failed tracks are recorded as gaps; an all-failed run
// returns an empty asset, which downstream composing rejects. Under
// PolicyAbort the first failure cancels outstanding fetches and returns
// shared.ErrTrackFetchFailed.
func (c *Collector) Collect(ctx context.Context, playlist models.Playlist, workDir string) (*models.AudioAsset, error) {
	total := len(playlist.Tracks)
	results := make([]fetchResult, total)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < c.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				track := playlist.Tracks[i]
				path, err := c.fetcher.Fetch(ctx, track, workDir)
				// Each worker writes a distinct index; no lock needed.
				results[i] = fetchResult{index: i, path: path, err: err}
				if err != nil && c.policy == PolicyAbort {
					cancel()
				}
			}
		}()
	}

	for i := 0; i < total; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			i = total // stop feeding, workers drain via channel close
		}
	}
	close(jobs)
	wg.Wait()

	asset := &models.AudioAsset{}
	for i, res := range results {
		track := playlist.Tracks[i]
		if res.err != nil {
			if c.policy == PolicyAbort {
				return nil, fmt.Errorf("%w: %s - %s: %v", shared.ErrTrackFetchFailed, track.Artist, track.Title, res.err)
			}
			c.logger.Warn("could not fetch track, skipping", "artist", track.Artist, "title", track.Title, "err", res.err)
			asset.Gaps = append(asset.Gaps, track)
			continue
		}
		if res.path == "" {
			// Unscheduled slot after an abort-driven cancel.
			continue
		}
		asset.Items = append(asset.Items, models.TrackAudio{Track: track, Path: res.path})
	}

	c.logger.Info("audio collection finished", "fetched", len(asset.Items), "total", total, "gaps", len(asset.Gaps))
	return asset, nil
}
