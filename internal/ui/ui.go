// package ui provides lipgloss styling for terminal output
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/playcast/playcast/internal/pipeline"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// RenderSummary formats a pipeline run summary for terminal display.
func RenderSummary(s *pipeline.Summary) string {
	var b strings.Builder

	b.WriteString(styles.title.Render("Run Summary"))
	b.WriteString("\n")

	if len(s.Results) == 0 {
		b.WriteString(styles.help.Render("No tagged playlists found."))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range s.Results {
		name := r.Playlist.CleanName()
		switch {
		case r.Err != nil:
			b.WriteString(styles.err.Render("✗"))
			fmt.Fprintf(&b, " %s failed at %s: %v\n", name, r.Stage, r.Err)
		case r.VideoID != "":
			b.WriteString(styles.ok.Render("✓"))
			fmt.Fprintf(&b, " %s → https://youtu.be/%s (thumbnail: %s)\n", name, r.VideoID, r.Provenance)
		default:
			b.WriteString(styles.warn.Render("•"))
			fmt.Fprintf(&b, " %s (%d tracks, not processed)\n", name, len(r.Playlist.Tracks))
		}
	}

	b.WriteString(styles.help.Render(fmt.Sprintf("%d succeeded, %d failed", s.Succeeded(), s.Failed())))
	b.WriteString("\n")
	return b.String()
}

// RenderPlaylistLine formats one playlist with its derived tag state.
func RenderPlaylistLine(name, state string) string {
	var badge string
	switch state {
	case "pending":
		badge = styles.warn.Render("[pending]")
	case "done":
		badge = styles.ok.Render("[done]")
	default:
		badge = styles.help.Render("[untagged]")
	}
	return fmt.Sprintf("%s %s", badge, name)
}
