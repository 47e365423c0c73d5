package thumbnail

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/playcast/playcast/internal/models"
)

// SynthProvider draws a gradient background with the playlist name overlaid.
//
// Pure function of the playlist name with no network dependency, so it
// terminates the fallback chain and always succeeds.
type SynthProvider struct {
	width  int
	height int
}

// NewSynthProvider creates the local synthesizer at the given resolution.
func NewSynthProvider(width, height int) *SynthProvider {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	return &SynthProvider{width: width, height: height}
}

func (p *SynthProvider) Name() string { return "synth" }

// Attempt renders the image. The error return satisfies [Provider]; it is
// non-nil only if PNG encoding fails, which does not happen for a valid context.
func (p *SynthProvider) Attempt(_ context.Context, playlist models.Playlist) (*models.ThumbnailAsset, error) {
	dc := gg.NewContext(p.width, p.height)

	// Top-to-bottom gradient, dark blue into dark purple.
	for y := 0; y < p.height; y++ {
		ratio := float64(y) / float64(p.height)
		r := (10 + ratio*30) / 255
		g := (10 + ratio*5) / 255
		b := (60 + ratio*40) / 255
		dc.SetRGB(r, g, b)
		dc.DrawLine(0, float64(y), float64(p.width), float64(y))
		dc.Stroke()
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(playlist.CleanName(), float64(p.width)/2, float64(p.height)/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode synthesized image: %w", err)
	}

	return &models.ThumbnailAsset{Data: buf.Bytes()}, nil
}
