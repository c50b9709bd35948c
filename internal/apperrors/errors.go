package apperrors

import (
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned when the requested rendering format is not recognized.
type ErrInvalidFormat struct {
	Format   string
	Accepted []string
}

// Error implements the error interface.
func (e *ErrInvalidFormat) Error() string {
	return fmt.Sprintf("invalid format %q, accepted formats: %s", e.Format, strings.Join(e.Accepted, ", "))
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidFormat) Is(target error) bool {
	_, ok := target.(*ErrInvalidFormat)
	return ok
}

// NewInvalidFormatError creates a new ErrInvalidFormat.
func NewInvalidFormatError(format string, accepted []string) *ErrInvalidFormat {
	return &ErrInvalidFormat{Format: format, Accepted: accepted}
}

// ErrMissingField is returned when a required request field is absent.
type ErrMissingField struct {
	Field string
}

// Error implements the error interface.
func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Is allows for error checking with errors.Is().
func (e *ErrMissingField) Is(target error) bool {
	_, ok := target.(*ErrMissingField)
	return ok
}

// NewMissingFieldError creates a new ErrMissingField.
func NewMissingFieldError(field string) *ErrMissingField {
	return &ErrMissingField{Field: field}
}

// ErrNoCaptions is returned when a video has no caption tracks at all, or when
// the chosen track produced zero cues.
type ErrNoCaptions struct {
	VideoID string
}

// Error implements the error interface.
func (e *ErrNoCaptions) Error() string {
	if e.VideoID != "" {
		return fmt.Sprintf("no captions available for video %s", e.VideoID)
	}
	return "no captions available"
}

// Is allows for error checking with errors.Is().
func (e *ErrNoCaptions) Is(target error) bool {
	_, ok := target.(*ErrNoCaptions)
	return ok
}

// NewNoCaptionsError creates a new ErrNoCaptions.
func NewNoCaptionsError(videoID string) *ErrNoCaptions {
	return &ErrNoCaptions{VideoID: videoID}
}

// ErrVideoUnavailable is returned when the provider reports the video as
// deleted, region-locked, or otherwise not playable.
type ErrVideoUnavailable struct {
	VideoID string
	Reason  string
}

// Error implements the error interface.
func (e *ErrVideoUnavailable) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("video %s is unavailable: %s", e.VideoID, e.Reason)
	}
	return fmt.Sprintf("video %s is unavailable", e.VideoID)
}

// Is allows for error checking with errors.Is().
func (e *ErrVideoUnavailable) Is(target error) bool {
	_, ok := target.(*ErrVideoUnavailable)
	return ok
}

// NewVideoUnavailableError creates a new ErrVideoUnavailable.
func NewVideoUnavailableError(videoID, reason string) *ErrVideoUnavailable {
	return &ErrVideoUnavailable{VideoID: videoID, Reason: reason}
}

// ErrPrivateVideo is returned when the provider reports the video as private
// or requiring a signed-in session the service does not have.
type ErrPrivateVideo struct {
	VideoID string
}

// Error implements the error interface.
func (e *ErrPrivateVideo) Error() string {
	return fmt.Sprintf("video %s is private", e.VideoID)
}

// Is allows for error checking with errors.Is().
func (e *ErrPrivateVideo) Is(target error) bool {
	_, ok := target.(*ErrPrivateVideo)
	return ok
}

// NewPrivateVideoError creates a new ErrPrivateVideo.
func NewPrivateVideoError(videoID string) *ErrPrivateVideo {
	return &ErrPrivateVideo{VideoID: videoID}
}

// ErrAuthenticationRequired is returned when acquisition needs credential
// material that is absent.
type ErrAuthenticationRequired struct {
	Reason string
}

// Error implements the error interface.
func (e *ErrAuthenticationRequired) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("authentication required: %s", e.Reason)
	}
	return "authentication required: provide a cookie bundle via YOUTUBE_COOKIES or the cookie_file setting"
}

// Is allows for error checking with errors.Is().
func (e *ErrAuthenticationRequired) Is(target error) bool {
	_, ok := target.(*ErrAuthenticationRequired)
	return ok
}

// NewAuthenticationRequiredError creates a new ErrAuthenticationRequired.
func NewAuthenticationRequiredError(reason string) *ErrAuthenticationRequired {
	return &ErrAuthenticationRequired{Reason: reason}
}

// ErrAuthenticationExpired is returned when the configured credential material
// is present but stale.
type ErrAuthenticationExpired struct {
	Source string
}

// Error implements the error interface.
func (e *ErrAuthenticationExpired) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("authentication expired: cookie bundle from %s is stale, export a fresh one", e.Source)
	}
	return "authentication expired: cookie bundle is stale, export a fresh one"
}

// Is allows for error checking with errors.Is().
func (e *ErrAuthenticationExpired) Is(target error) bool {
	_, ok := target.(*ErrAuthenticationExpired)
	return ok
}

// NewAuthenticationExpiredError creates a new ErrAuthenticationExpired.
func NewAuthenticationExpiredError(source string) *ErrAuthenticationExpired {
	return &ErrAuthenticationExpired{Source: source}
}

// ErrProviderThrottled is returned when the provider rate-limited the request
// or flagged it as automated access. It is never retried internally; callers
// may retry later.
type ErrProviderThrottled struct {
	VideoID string
}

// Error implements the error interface.
func (e *ErrProviderThrottled) Error() string {
	if e.VideoID != "" {
		return fmt.Sprintf("provider throttled the request for video %s, retry later", e.VideoID)
	}
	return "provider throttled the request, retry later"
}

// Is allows for error checking with errors.Is().
func (e *ErrProviderThrottled) Is(target error) bool {
	_, ok := target.(*ErrProviderThrottled)
	return ok
}

// NewProviderThrottledError creates a new ErrProviderThrottled.
func NewProviderThrottledError(videoID string) *ErrProviderThrottled {
	return &ErrProviderThrottled{VideoID: videoID}
}

// ErrUnsupportedPayload is returned when a caption payload does not have the
// expected event-list shape. It signals provider format drift rather than a
// user mistake.
type ErrUnsupportedPayload struct {
	Detail string
}

// Error implements the error interface.
func (e *ErrUnsupportedPayload) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unsupported caption payload: %s", e.Detail)
	}
	return "unsupported caption payload"
}

// Is allows for error checking with errors.Is().
func (e *ErrUnsupportedPayload) Is(target error) bool {
	_, ok := target.(*ErrUnsupportedPayload)
	return ok
}

// NewUnsupportedPayloadError creates a new ErrUnsupportedPayload.
func NewUnsupportedPayloadError(detail string) *ErrUnsupportedPayload {
	return &ErrUnsupportedPayload{Detail: detail}
}

// ErrEmptyTranscript is returned by the payload parser when a well-formed
// payload yields zero cues. The orchestrator decides how to surface it.
type ErrEmptyTranscript struct{}

// Error implements the error interface.
func (e *ErrEmptyTranscript) Error() string {
	return "transcript is empty"
}

// Is allows for error checking with errors.Is().
func (e *ErrEmptyTranscript) Is(target error) bool {
	_, ok := target.(*ErrEmptyTranscript)
	return ok
}

// NewEmptyTranscriptError creates a new ErrEmptyTranscript.
func NewEmptyTranscriptError() *ErrEmptyTranscript {
	return &ErrEmptyTranscript{}
}
