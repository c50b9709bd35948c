package render

import (
	"regexp"
	"strings"

	"github.com/soustitre/soustitre/internal/models"
)

var (
	// bracketed annotations like [Music] or [Applaudissements]
	annotationRe = regexp.MustCompile(`\[.*?\]`)
	// terminal punctuation followed by whitespace marks a paragraph boundary
	sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)
)

// TextRenderer renders a track as readable plain text: annotations stripped,
// cues joined with spaces, and a paragraph break after each sentence.
type TextRenderer struct{}

// Render implements the Renderer interface.
func (TextRenderer) Render(track *models.Track) string {
	parts := make([]string, 0, len(track.Cues))
	for _, cue := range track.Cues {
		text := strings.TrimSpace(annotationRe.ReplaceAllString(cue.Text, ""))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}

	joined := strings.Join(parts, " ")
	joined = sentenceEndRe.ReplaceAllString(joined, "$1\n\n")

	return strings.TrimSpace(joined)
}
