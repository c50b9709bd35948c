package parser

import (
	"encoding/json"
	"strings"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/models"
)

// rawPayload mirrors the json3 timedtext document returned by the provider.
// The Events field is a pointer so a missing "events" key can be told apart
// from an empty event list.
type rawPayload struct {
	Events *[]rawEvent `json:"events"`
}

type rawEvent struct {
	StartMs    int64        `json:"tStartMs"`
	DurationMs int64        `json:"dDurationMs"`
	Segments   []rawSegment `json:"segs"`
}

type rawSegment struct {
	UTF8 string `json:"utf8"`
}

// PayloadParser converts raw json3 caption payloads into timed tracks.
type PayloadParser struct{}

// NewPayloadParser creates a new payload parser instance.
func NewPayloadParser() *PayloadParser {
	return &PayloadParser{}
}

// Parse decodes a json3 caption payload into a Track.
//
// Events without a segment list, and events whose concatenated text is empty
// after trimming, are dropped silently. A payload without the event-list shape
// fails with ErrUnsupportedPayload; a well-formed payload that produces zero
// cues fails with ErrEmptyTranscript so the caller can decide how to surface it.
func (p *PayloadParser) Parse(data []byte) (*models.Track, error) {
	var payload rawPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperrors.NewUnsupportedPayloadError("not a json3 document")
	}
	if payload.Events == nil {
		return nil, apperrors.NewUnsupportedPayloadError("missing events list")
	}

	cues := make([]models.Cue, 0, len(*payload.Events))
	for _, event := range *payload.Events {
		if event.Segments == nil {
			continue
		}

		var text strings.Builder
		for _, seg := range event.Segments {
			text.WriteString(seg.UTF8)
		}

		trimmed := strings.TrimSpace(text.String())
		if trimmed == "" {
			continue
		}

		cues = append(cues, models.Cue{
			Text:     trimmed,
			Start:    float64(event.StartMs) / 1000,
			Duration: float64(event.DurationMs) / 1000,
		})
	}

	if len(cues) == 0 {
		return nil, apperrors.NewEmptyTranscriptError()
	}

	return &models.Track{Cues: cues}, nil
}
