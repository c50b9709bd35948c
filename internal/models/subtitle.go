package models

// Cue is a single timed caption line.
type Cue struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`    // seconds from the beginning of the video
	Duration float64 `json:"duration"` // seconds
}

// Track is the ordered sequence of cues for one language/source.
// Cues are kept in the order the provider delivered them; no re-sorting happens.
type Track struct {
	Cues []Cue
}

// PayloadDescriptor references one retrievable encoding of a caption track.
type PayloadDescriptor struct {
	Format string // e.g. "json3", "srv3"
	URL    string
}

// TrackRef identifies a selectable caption track before its payload is downloaded.
type TrackRef struct {
	LanguageCode    string
	Name            string
	IsAutoGenerated bool
	IsTranslatable  bool
	Descriptors     []PayloadDescriptor
}

// TracksSnapshot is the full set of caption tracks available for a video at
// request time, keyed by language code and split by origin.
type TracksSnapshot struct {
	Manual map[string]TrackRef
	Auto   map[string]TrackRef
}

// Empty reports whether the snapshot contains no tracks at all.
func (s *TracksSnapshot) Empty() bool {
	return len(s.Manual) == 0 && len(s.Auto) == 0
}

// SubtitleResult is the response record for a successful subtitle request.
type SubtitleResult struct {
	VideoID         string `json:"videoId"`
	Language        string `json:"language"`
	Format          Format `json:"format"`
	Content         string `json:"content"`
	LineCount       int    `json:"lineCount"`
	IsAutoGenerated bool   `json:"isAutoGenerated"`
}

// LanguageInfo describes one available caption language for the listing operation.
type LanguageInfo struct {
	Code            string `json:"code"`
	DisplayName     string `json:"displayName"`
	IsAutoGenerated bool   `json:"isAutoGenerated"`
	IsTranslatable  bool   `json:"isTranslatable"`
}
