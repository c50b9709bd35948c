package services

import (
	"context"

	"github.com/soustitre/soustitre/internal/models"
)

// SubtitleService coordinates the acquisition pipeline: track selection,
// payload retrieval, parsing, and rendering. All failures it returns belong
// to the apperrors taxonomy.
type SubtitleService interface {
	// GetSubtitles retrieves the captions of a video rendered in the requested
	// format, applying the language fallback policy.
	GetSubtitles(ctx context.Context, videoID, format, language string) (*models.SubtitleResult, error)

	// ListLanguages lists the caption languages available for a video, manual
	// tracks first.
	ListLanguages(ctx context.Context, videoID string) ([]models.LanguageInfo, error)
}
