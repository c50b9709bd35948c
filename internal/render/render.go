package render

import (
	"github.com/soustitre/soustitre/internal/models"
)

// Renderer serializes a timed track into one output format. Implementations
// are pure: the same track always renders to the same string, and an empty
// track yields a minimal valid rendering rather than an error.
type Renderer interface {
	Render(track *models.Track) string
}

// ForFormat returns the renderer for the given format, or nil when the
// format is not recognized.
func ForFormat(format models.Format) Renderer {
	switch format {
	case models.FormatText:
		return TextRenderer{}
	case models.FormatSRT:
		return SRTRenderer{}
	case models.FormatVTT:
		return VTTRenderer{}
	default:
		return nil
	}
}
