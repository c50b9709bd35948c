package provider

import (
	"context"

	"github.com/soustitre/soustitre/internal/models"
)

// Provider exposes the two operations of the external caption-extraction
// capability. Implementations map their own failure modes onto the apperrors
// taxonomy; no provider-specific error type crosses this boundary.
type Provider interface {
	// ListTracks fetches the available caption tracks for a video.
	ListTracks(ctx context.Context, videoID string) (*models.TracksSnapshot, error)

	// FetchPayload downloads the raw caption payload behind a descriptor.
	FetchPayload(ctx context.Context, descriptor models.PayloadDescriptor) ([]byte, error)
}
