package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/config"
	"github.com/soustitre/soustitre/internal/languages"
	"github.com/soustitre/soustitre/internal/metrics"
	"github.com/soustitre/soustitre/internal/models"
	"github.com/soustitre/soustitre/internal/parser"
	"github.com/soustitre/soustitre/internal/provider"
	"github.com/soustitre/soustitre/internal/render"
	"github.com/soustitre/soustitre/internal/selector"
)

// preferredPayloadFormat is the structured encoding the parser understands natively.
const preferredPayloadFormat = "json3"

// DefaultSubtitleService is the default implementation of SubtitleService.
type DefaultSubtitleService struct {
	provider provider.Provider
	parser   *parser.PayloadParser
	logger   zerolog.Logger
}

// NewSubtitleService creates a new DefaultSubtitleService on top of a caption provider.
func NewSubtitleService(p provider.Provider) SubtitleService {
	return &DefaultSubtitleService{
		provider: p,
		parser:   parser.NewPayloadParser(),
		logger:   config.GetLogger(),
	}
}

// GetSubtitles implements the SubtitleService interface.
func (s *DefaultSubtitleService) GetSubtitles(ctx context.Context, videoID, format, language string) (*models.SubtitleResult, error) {
	result, err := s.getSubtitles(ctx, videoID, format, language)

	// Only parsed format names become label values; raw client input would
	// grow the label cardinality without bound.
	formatLabel := "invalid"
	if parsed, ok := models.ParseFormat(format); ok {
		formatLabel = string(parsed)
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SubtitleRequestsTotal.WithLabelValues(formatLabel, status).Inc()

	return result, err
}

func (s *DefaultSubtitleService) getSubtitles(ctx context.Context, videoID, format, language string) (*models.SubtitleResult, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, apperrors.NewMissingFieldError("videoId")
	}

	parsedFormat, ok := models.ParseFormat(format)
	if !ok {
		return nil, apperrors.NewInvalidFormatError(format, models.FormatNames())
	}

	requested := languages.Canonicalize(language)

	snapshot, err := s.provider.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if snapshot.Empty() {
		return nil, apperrors.NewNoCaptionsError(videoID)
	}

	selection, err := selector.SelectTrack(snapshot, requested)
	if err != nil {
		return nil, apperrors.NewNoCaptionsError(videoID)
	}

	s.logger.Debug().
		Str("video_id", videoID).
		Str("requested", requested).
		Str("chosen", selection.Language).
		Bool("auto_generated", selection.IsAutoGenerated).
		Msg("Caption track selected")

	descriptor := pickDescriptor(selection.Track.Descriptors)
	raw, err := s.provider.FetchPayload(ctx, descriptor)
	if err != nil {
		return nil, err
	}

	track, err := s.parser.Parse(raw)
	if err != nil {
		if errors.Is(err, &apperrors.ErrEmptyTranscript{}) {
			return nil, apperrors.NewNoCaptionsError(videoID)
		}
		return nil, err
	}

	content := render.ForFormat(parsedFormat).Render(track)

	s.logger.Info().
		Str("video_id", videoID).
		Str("language", selection.Language).
		Str("format", string(parsedFormat)).
		Int("cues", len(track.Cues)).
		Msg("Subtitles rendered")

	return &models.SubtitleResult{
		VideoID:         videoID,
		Language:        selection.Language,
		Format:          parsedFormat,
		Content:         content,
		LineCount:       len(track.Cues),
		IsAutoGenerated: selection.IsAutoGenerated,
	}, nil
}

// ListLanguages implements the SubtitleService interface.
func (s *DefaultSubtitleService) ListLanguages(ctx context.Context, videoID string) ([]models.LanguageInfo, error) {
	if strings.TrimSpace(videoID) == "" {
		return nil, apperrors.NewMissingFieldError("videoId")
	}

	snapshot, err := s.provider.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}

	infos := make([]models.LanguageInfo, 0, len(snapshot.Manual)+len(snapshot.Auto))
	for _, code := range sortedKeys(snapshot.Manual) {
		ref := snapshot.Manual[code]
		infos = append(infos, models.LanguageInfo{
			Code:            code,
			DisplayName:     languages.DisplayName(code),
			IsAutoGenerated: false,
			IsTranslatable:  ref.IsTranslatable,
		})
	}
	for _, code := range sortedKeys(snapshot.Auto) {
		if _, covered := snapshot.Manual[code]; covered {
			continue
		}
		ref := snapshot.Auto[code]
		infos = append(infos, models.LanguageInfo{
			Code:            code,
			DisplayName:     languages.DisplayName(code),
			IsAutoGenerated: true,
			IsTranslatable:  ref.IsTranslatable,
		})
	}

	return infos, nil
}

// pickDescriptor prefers the structured format the parser expects, falling
// back to the first descriptor as delivered.
func pickDescriptor(descriptors []models.PayloadDescriptor) models.PayloadDescriptor {
	if len(descriptors) == 0 {
		return models.PayloadDescriptor{}
	}
	for _, descriptor := range descriptors {
		if descriptor.Format == preferredPayloadFormat {
			return descriptor
		}
	}
	return descriptors[0]
}

func sortedKeys(tracks map[string]models.TrackRef) []string {
	keys := make([]string, 0, len(tracks))
	for key := range tracks {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
