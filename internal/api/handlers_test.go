package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/config"
	"github.com/soustitre/soustitre/internal/models"
)

// stubService returns canned responses and records the arguments it was called with.
type stubService struct {
	result       *models.SubtitleResult
	err          error
	languages    []models.LanguageInfo
	languagesErr error

	gotVideoID  string
	gotFormat   string
	gotLanguage string
}

func (s *stubService) GetSubtitles(_ context.Context, videoID, format, language string) (*models.SubtitleResult, error) {
	s.gotVideoID = videoID
	s.gotFormat = format
	s.gotLanguage = language
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) ListLanguages(_ context.Context, videoID string) ([]models.LanguageInfo, error) {
	s.gotVideoID = videoID
	if s.languagesErr != nil {
		return nil, s.languagesErr
	}
	return s.languages, nil
}

func newTestServer(stub *stubService, health HealthStatus, development bool) *echo.Echo {
	cfg := &config.Config{DefaultLanguage: "fr", Development: development}
	return NewServer(stub, health, cfg)
}

func availableHealth() HealthStatus {
	return HealthStatus{SubtitlesAvailable: true, CookiesLoaded: true}
}

func postSubtitles(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/subtitles", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding error response failed: %v", err)
	}
	return body
}

func TestGetSubtitles_OK(t *testing.T) {
	t.Parallel()

	stub := &stubService{result: &models.SubtitleResult{
		VideoID:   "abc123",
		Language:  "fr",
		Format:    models.FormatSRT,
		Content:   "1\n00:00:00,000 --> 00:00:01,500\nHi\n\n",
		LineCount: 1,
	}}
	e := newTestServer(stub, availableHealth(), false)

	rec := postSubtitles(e, `{"videoId":"abc123","format":"srt","language":"fr"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var result models.SubtitleResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if result.Content != stub.result.Content {
		t.Errorf("content = %q, want %q", result.Content, stub.result.Content)
	}
	if stub.gotVideoID != "abc123" || stub.gotFormat != "srt" || stub.gotLanguage != "fr" {
		t.Errorf("service called with (%q, %q, %q)", stub.gotVideoID, stub.gotFormat, stub.gotLanguage)
	}
}

func TestGetSubtitles_Defaults(t *testing.T) {
	t.Parallel()

	stub := &stubService{result: &models.SubtitleResult{VideoID: "abc"}}
	e := newTestServer(stub, availableHealth(), false)

	rec := postSubtitles(e, `{"videoId":"abc"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if stub.gotFormat != "txt" {
		t.Errorf("default format = %q, want txt", stub.gotFormat)
	}
	if stub.gotLanguage != "fr" {
		t.Errorf("default language = %q, want fr", stub.gotLanguage)
	}
}

func TestGetSubtitles_MissingBody(t *testing.T) {
	t.Parallel()

	e := newTestServer(&stubService{}, availableHealth(), false)

	rec := postSubtitles(e, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeError(t, rec); body.Error != "request body is required" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestGetSubtitles_MalformedBody(t *testing.T) {
	t.Parallel()

	e := newTestServer(&stubService{}, availableHealth(), false)

	rec := postSubtitles(e, `{"videoId":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetSubtitles_ErrorMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "missing field", err: apperrors.NewMissingFieldError("videoId"), status: http.StatusBadRequest},
		{name: "invalid format", err: apperrors.NewInvalidFormatError("mp4", models.FormatNames()), status: http.StatusBadRequest},
		{name: "no captions", err: apperrors.NewNoCaptionsError("abc"), status: http.StatusNotFound},
		{name: "video unavailable", err: apperrors.NewVideoUnavailableError("abc", "gone"), status: http.StatusNotFound},
		{name: "private video", err: apperrors.NewPrivateVideoError("abc"), status: http.StatusNotFound},
		{name: "throttled", err: apperrors.NewProviderThrottledError("abc"), status: http.StatusNotFound},
		{name: "auth required", err: apperrors.NewAuthenticationRequiredError("no cookies"), status: http.StatusServiceUnavailable},
		{name: "auth expired", err: apperrors.NewAuthenticationExpiredError("cookies.txt"), status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestServer(&stubService{err: tt.err}, availableHealth(), false)

			rec := postSubtitles(e, `{"videoId":"abc"}`)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Error != tt.err.Error() {
				t.Errorf("error = %q, want %q", body.Error, tt.err.Error())
			}
		})
	}
}

func TestGetSubtitles_UnclassifiedError(t *testing.T) {
	t.Parallel()

	e := newTestServer(&stubService{err: context.DeadlineExceeded}, availableHealth(), false)

	rec := postSubtitles(e, `{"videoId":"abc"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeError(t, rec)
	if body.Error != "internal server error" {
		t.Errorf("error = %q, want generic message", body.Error)
	}
	if body.Details != "" {
		t.Errorf("details leaked outside development mode: %q", body.Details)
	}
}

func TestGetSubtitles_UnclassifiedErrorDevelopment(t *testing.T) {
	t.Parallel()

	e := newTestServer(&stubService{err: context.DeadlineExceeded}, availableHealth(), true)

	rec := postSubtitles(e, `{"videoId":"abc"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeError(t, rec); body.Details != context.DeadlineExceeded.Error() {
		t.Errorf("details = %q, want %q", body.Details, context.DeadlineExceeded.Error())
	}
}

func TestGetSubtitles_Unavailable(t *testing.T) {
	t.Parallel()

	stub := &stubService{}
	e := newTestServer(stub, HealthStatus{}, false)

	rec := postSubtitles(e, `{"videoId":"abc"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if stub.gotVideoID != "" {
		t.Error("service should not be called when subtitles are unavailable")
	}
}

func TestListLanguages_OK(t *testing.T) {
	t.Parallel()

	stub := &stubService{languages: []models.LanguageInfo{
		{Code: "fr", DisplayName: "French"},
		{Code: "en", DisplayName: "English", IsAutoGenerated: true},
	}}
	e := newTestServer(stub, availableHealth(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/subtitles/languages/abc123", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var body languagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if body.VideoID != "abc123" {
		t.Errorf("videoId = %q, want abc123", body.VideoID)
	}
	if len(body.Languages) != 2 || body.Languages[0].Code != "fr" {
		t.Errorf("languages = %+v", body.Languages)
	}
}

func TestListLanguages_NoCaptions(t *testing.T) {
	t.Parallel()

	stub := &stubService{languagesErr: apperrors.NewNoCaptionsError("abc123")}
	e := newTestServer(stub, availableHealth(), false)

	req := httptest.NewRequest(http.MethodGet, "/api/subtitles/languages/abc123", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	e := newTestServer(&stubService{}, HealthStatus{SubtitlesAvailable: true, CookiesLoaded: false}, false)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if !body.SubtitlesAvailable || body.CookiesLoaded {
		t.Errorf("capability flags = %+v", body)
	}
}
