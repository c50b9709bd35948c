package render

import (
	"fmt"
	"strings"

	"github.com/soustitre/soustitre/internal/models"
)

// VTTRenderer renders a track in WebVTT format: the WEBVTT header followed by
// cues with dot-millisecond timestamps.
type VTTRenderer struct{}

// Render implements the Renderer interface.
func (VTTRenderer) Render(track *models.Track) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, cue := range track.Cues {
		start := formatTimestamp(cue.Start, ".")
		end := formatTimestamp(cue.Start+cue.Duration, ".")
		fmt.Fprintf(&sb, "%s --> %s\n%s\n\n", start, end, cue.Text)
	}
	return sb.String()
}
