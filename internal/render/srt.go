package render

import (
	"fmt"
	"strings"

	"github.com/soustitre/soustitre/internal/models"
)

// SRTRenderer renders a track in SubRip format: 1-based sequence index,
// comma-millisecond timestamps, the raw cue text, and a blank line per cue.
type SRTRenderer struct{}

// Render implements the Renderer interface.
func (SRTRenderer) Render(track *models.Track) string {
	var sb strings.Builder
	for i, cue := range track.Cues {
		start := formatTimestamp(cue.Start, ",")
		end := formatTimestamp(cue.Start+cue.Duration, ",")
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", i+1, start, end, cue.Text)
	}
	return sb.String()
}
