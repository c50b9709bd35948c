package models

import "strings"

// Format identifies a subtitle rendering format.
type Format string

const (
	FormatText Format = "txt"
	FormatSRT  Format = "srt"
	FormatVTT  Format = "vtt"
)

// Formats returns every accepted rendering format, in documentation order.
func Formats() []Format {
	return []Format{FormatText, FormatSRT, FormatVTT}
}

// FormatNames returns the accepted format identifiers as strings, for error messages.
func FormatNames() []string {
	formats := Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// ParseFormat validates a user-supplied format identifier.
func ParseFormat(s string) (Format, bool) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, true
	case FormatSRT:
		return FormatSRT, true
	case FormatVTT:
		return FormatVTT, true
	default:
		return "", false
	}
}
