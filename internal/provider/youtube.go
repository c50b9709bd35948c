package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/timeout"
	"github.com/rs/zerolog"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/config"
	"github.com/soustitre/soustitre/internal/metrics"
	"github.com/soustitre/soustitre/internal/models"
	"github.com/soustitre/soustitre/internal/parser"
)

const (
	defaultBaseURL = "https://www.youtube.com"
	playerEndpoint = "/youtubei/v1/player?prettyPrint=false"

	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20250925.01.00"

	// autoGeneratedKind marks machine-transcribed tracks in the player response
	autoGeneratedKind = "asr"
)

// playerRequest is the body of an innertube player call.
type playerRequest struct {
	Context        innertubeContext `json:"context"`
	VideoID        string           `json:"videoId"`
	ContentCheckOK bool             `json:"contentCheckOk"`
	RacyCheckOK    bool             `json:"racyCheckOk"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName       string `json:"clientName"`
	ClientVersion    string `json:"clientVersion"`
	HL               string `json:"hl"`
	TimeZone         string `json:"timeZone"`
	UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
}

// playerResponse is the subset of the player document this service reads.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		TracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Translatable bool   `json:"isTranslatable"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// youtubeProvider implements Provider against the YouTube player API, with
// the public watch page as a fallback source for the same document.
type youtubeProvider struct {
	httpClient     *http.Client
	executor       failsafe.Executor[*http.Response]
	requestTimeout time.Duration
	baseURL        string
	userAgent      string
	acceptLanguage string
	logger         zerolog.Logger
}

// NewYouTubeProvider creates a provider configured with network timeouts, a
// browser identity, and the optional cookie bundle for authenticated access.
func NewYouTubeProvider(cfg *config.Config, bundle *CookieBundle) Provider {
	requestTimeout := 30 * time.Second // default
	if cfg.ClientTimeout != "" {
		if parsed, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			requestTimeout = parsed
		}
	}

	// Clone DefaultTransport to preserve its settings (connection pooling, HTTP/2, etc.)
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	jar, _ := cookiejar.New(nil)
	if bundle != nil {
		bundle.Apply(jar, defaultBaseURL)
	}

	httpClient := &http.Client{
		Transport: newCompressionTransport(baseTransport),
		Jar:       jar,
	}

	return newYouTubeProvider(defaultBaseURL, httpClient, requestTimeout, cfg.UserAgent, cfg.AcceptLanguage)
}

func newYouTubeProvider(baseURL string, httpClient *http.Client, requestTimeout time.Duration, userAgent, acceptLanguage string) *youtubeProvider {
	return &youtubeProvider{
		httpClient:     httpClient,
		executor:       failsafe.With[*http.Response](timeout.New[*http.Response](requestTimeout)),
		requestTimeout: requestTimeout,
		baseURL:        baseURL,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		logger:         config.GetLogger(),
	}
}

// ListTracks implements the Provider interface.
func (p *youtubeProvider) ListTracks(ctx context.Context, videoID string) (*models.TracksSnapshot, error) {
	player, err := p.fetchPlayerResponse(ctx, videoID)
	if err != nil {
		// A throttled verdict or a dead caller context makes the fallback
		// pointless; surface the error as-is.
		if errors.Is(err, &apperrors.ErrProviderThrottled{}) || ctx.Err() != nil {
			return nil, err
		}
		p.logger.Warn().Err(err).Str("video_id", videoID).Msg("Player API failed, falling back to watch page")
		player, err = p.fetchWatchPagePlayerResponse(ctx, videoID)
		if err != nil {
			return nil, err
		}
	}

	if err := checkPlayability(videoID, player); err != nil {
		return nil, err
	}

	snapshot := buildSnapshot(player)
	p.logger.Debug().
		Str("video_id", videoID).
		Int("manual", len(snapshot.Manual)).
		Int("auto", len(snapshot.Auto)).
		Msg("Caption tracks listed")
	return snapshot, nil
}

// FetchPayload implements the Provider interface.
func (p *youtubeProvider) FetchPayload(ctx context.Context, descriptor models.PayloadDescriptor) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, descriptor.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building payload request: %w", err)
	}
	p.setBrowserHeaders(req)

	resp, err := p.do(ctx, "fetch_payload", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewProviderThrottledError("")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("payload fetch returned status %d", resp.StatusCode)
	}

	reader, err := parser.NewUTF8Reader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding payload charset: %w", err)
	}
	return io.ReadAll(reader)
}

// do runs one outbound call under the timeout policy and records its duration.
// The per-call deadline is carried by the request context so the transport
// aborts the in-flight call when it fires, and it keeps bounding body reads
// after do returns; Close on the response body releases the timer.
func (p *youtubeProvider) do(ctx context.Context, operation string, req *http.Request) (*http.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	req = req.WithContext(callCtx)

	start := time.Now()
	resp, err := p.executor.WithContext(callCtx).Get(func() (*http.Response, error) {
		return p.httpClient.Do(req)
	})
	metrics.ProviderRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		cancel()
		if errors.Is(err, timeout.ErrExceeded) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("provider call exceeded %s: %w", p.requestTimeout, err)
		}
		return nil, err
	}

	resp.Body = &cancelOnCloseBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnCloseBody ties a per-call context to the response body lifetime.
type cancelOnCloseBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnCloseBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func (p *youtubeProvider) setBrowserHeaders(req *http.Request) {
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}
	if p.acceptLanguage != "" {
		req.Header.Set("Accept-Language", p.acceptLanguage)
	}
}

func (p *youtubeProvider) fetchPlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	body := playerRequest{
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:       innertubeClientName,
				ClientVersion:    innertubeClientVersion,
				HL:               "en",
				TimeZone:         "UTC",
				UTCOffsetMinutes: 0,
			},
		},
		VideoID:        videoID,
		ContentCheckOK: true,
		RacyCheckOK:    true,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling player request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+playerEndpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("building player request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	p.setBrowserHeaders(req)

	resp, err := p.do(ctx, "list_tracks", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusForbidden:
		return nil, apperrors.NewProviderThrottledError(videoID)
	default:
		return nil, fmt.Errorf("player API returned status %d", resp.StatusCode)
	}

	var player playerResponse
	if err := json.NewDecoder(resp.Body).Decode(&player); err != nil {
		return nil, fmt.Errorf("decoding player response: %w", err)
	}
	return &player, nil
}

// checkPlayability maps the provider's playability verdict onto the error taxonomy.
func checkPlayability(videoID string, player *playerResponse) error {
	status := player.PlayabilityStatus.Status
	reason := player.PlayabilityStatus.Reason

	switch status {
	case "", "OK":
		return nil
	case "LOGIN_REQUIRED":
		lower := strings.ToLower(reason)
		if strings.Contains(lower, "bot") || strings.Contains(lower, "confirm") {
			return apperrors.NewProviderThrottledError(videoID)
		}
		return apperrors.NewPrivateVideoError(videoID)
	case "ERROR", "UNPLAYABLE":
		return apperrors.NewVideoUnavailableError(videoID, reason)
	default:
		return apperrors.NewVideoUnavailableError(videoID, fmt.Sprintf("%s: %s", status, reason))
	}
}

// buildSnapshot splits the player document's caption tracks into manual and
// auto-generated mappings keyed by language code.
func buildSnapshot(player *playerResponse) *models.TracksSnapshot {
	snapshot := &models.TracksSnapshot{
		Manual: make(map[string]models.TrackRef),
		Auto:   make(map[string]models.TrackRef),
	}

	for _, track := range player.Captions.TracklistRenderer.CaptionTracks {
		if track.BaseURL == "" || track.LanguageCode == "" {
			continue
		}

		ref := models.TrackRef{
			LanguageCode:    track.LanguageCode,
			Name:            track.Name.SimpleText,
			IsAutoGenerated: track.Kind == autoGeneratedKind,
			IsTranslatable:  track.Translatable,
			Descriptors:     descriptorsFor(track.BaseURL),
		}

		if ref.IsAutoGenerated {
			snapshot.Auto[ref.LanguageCode] = ref
		} else {
			snapshot.Manual[ref.LanguageCode] = ref
		}
	}

	return snapshot
}

// descriptorsFor lists the retrievable encodings of a track, json3 first.
func descriptorsFor(baseURL string) []models.PayloadDescriptor {
	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return []models.PayloadDescriptor{
		{Format: "json3", URL: baseURL + sep + "fmt=json3"},
		{Format: "srv3", URL: baseURL},
	}
}
