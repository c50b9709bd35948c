// Package provider tests exercise the YouTube provider against httptest
// servers: snapshot construction, playability mapping, throttling detection,
// the watch-page fallback, and payload fetching.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/models"
)

const testPlayerResponse = `{
	"playabilityStatus": {"status": "OK"},
	"captions": {
		"playerCaptionsTracklistRenderer": {
			"captionTracks": [
				{
					"baseUrl": "https://captions.example/api/timedtext?v=abc&lang=fr",
					"languageCode": "fr",
					"isTranslatable": true,
					"name": {"simpleText": "French"}
				},
				{
					"baseUrl": "https://captions.example/api/timedtext?v=abc&lang=en&kind=asr",
					"languageCode": "en",
					"kind": "asr",
					"isTranslatable": true,
					"name": {"simpleText": "English (auto-generated)"}
				}
			]
		}
	}
}`

func newTestProvider(serverURL string) *youtubeProvider {
	httpClient := &http.Client{Transport: newCompressionTransport(nil)}
	return newYouTubeProvider(serverURL, httpClient, 5*time.Second, "test-agent", "fr")
}

func TestListTracks_BuildsSnapshot(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtubei/v1/player" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q, want %q", got, "test-agent")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, testPlayerResponse)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	snapshot, err := p.ListTracks(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTracks returned unexpected error: %v", err)
	}

	manual, ok := snapshot.Manual["fr"]
	if !ok {
		t.Fatal("expected manual track for fr")
	}
	if manual.IsAutoGenerated {
		t.Error("manual track should not be auto-generated")
	}
	if manual.Name != "French" {
		t.Errorf("Name = %q, want %q", manual.Name, "French")
	}

	auto, ok := snapshot.Auto["en"]
	if !ok {
		t.Fatal("expected auto track for en")
	}
	if !auto.IsAutoGenerated {
		t.Error("asr track should be auto-generated")
	}

	if len(manual.Descriptors) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(manual.Descriptors))
	}
	if manual.Descriptors[0].Format != "json3" {
		t.Errorf("first descriptor format = %q, want json3", manual.Descriptors[0].Format)
	}
	if want := "https://captions.example/api/timedtext?v=abc&lang=fr&fmt=json3"; manual.Descriptors[0].URL != want {
		t.Errorf("json3 descriptor URL = %q, want %q", manual.Descriptors[0].URL, want)
	}
	if manual.Descriptors[1].Format != "srv3" {
		t.Errorf("second descriptor format = %q, want srv3", manual.Descriptors[1].Format)
	}
}

func TestListTracks_PlayabilityMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status string
		reason string
		target error
	}{
		{
			name:   "error status",
			status: "ERROR",
			reason: "This video is unavailable",
			target: &apperrors.ErrVideoUnavailable{},
		},
		{
			name:   "unplayable status",
			status: "UNPLAYABLE",
			reason: "Video unavailable in your country",
			target: &apperrors.ErrVideoUnavailable{},
		},
		{
			name:   "login required is private",
			status: "LOGIN_REQUIRED",
			reason: "This is a private video",
			target: &apperrors.ErrPrivateVideo{},
		},
		{
			name:   "bot check is throttling",
			status: "LOGIN_REQUIRED",
			reason: "Sign in to confirm you're not a bot",
			target: &apperrors.ErrProviderThrottled{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprintf(w, `{"playabilityStatus": {"status": %q, "reason": %q}}`, tt.status, tt.reason)
			}))
			defer server.Close()

			p := newTestProvider(server.URL)
			_, err := p.ListTracks(context.Background(), "abc")
			if err == nil {
				t.Fatal("ListTracks should fail")
			}
			if !errors.Is(err, tt.target) {
				t.Errorf("error = %v (%T), want %T", err, err, tt.target)
			}
		})
	}
}

func TestListTracks_TooManyRequests(t *testing.T) {
	t.Parallel()

	watchCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/watch" {
			watchCalled = true
		}
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.ListTracks(context.Background(), "abc")
	if !errors.Is(err, &apperrors.ErrProviderThrottled{}) {
		t.Errorf("error = %v, want ErrProviderThrottled", err)
	}
	if watchCalled {
		t.Error("throttling must not trigger the watch page fallback")
	}
}

func TestListTracks_WatchPageFallback(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/youtubei/v1/player":
			w.WriteHeader(http.StatusInternalServerError)
		case "/watch":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<html><head><script>var ytInitialPlayerResponse = %s;</script></head><body></body></html>`, testPlayerResponse)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	snapshot, err := p.ListTracks(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTracks returned unexpected error: %v", err)
	}
	if _, ok := snapshot.Manual["fr"]; !ok {
		t.Error("fallback snapshot should contain the manual fr track")
	}
	if _, ok := snapshot.Auto["en"]; !ok {
		t.Error("fallback snapshot should contain the auto en track")
	}
}

func TestListTracks_NoFallbackAfterCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	watchCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/watch" {
			watchCalled = true
			return
		}
		cancel()
		<-r.Context().Done()
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.ListTracks(ctx, "abc")
	if err == nil {
		t.Fatal("ListTracks should fail when the context is canceled")
	}
	if watchCalled {
		t.Error("a canceled context must not trigger the watch page fallback")
	}
}

func TestListTracks_NoCaptionsYieldsEmptySnapshot(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"playabilityStatus": {"status": "OK"}}`)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	snapshot, err := p.ListTracks(context.Background(), "abc")
	if err != nil {
		t.Fatalf("ListTracks returned unexpected error: %v", err)
	}
	if !snapshot.Empty() {
		t.Error("snapshot without caption tracks should be empty")
	}
}

func TestFetchPayload(t *testing.T) {
	t.Parallel()

	payload := `{"events":[{"tStartMs":0,"dDurationMs":100,"segs":[{"utf8":"salut"}]}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("expected fmt=json3 in query, got %q", r.URL.RawQuery)
		}
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	data, err := p.FetchPayload(context.Background(), models.PayloadDescriptor{
		Format: "json3",
		URL:    server.URL + "/api/timedtext?fmt=json3",
	})
	if err != nil {
		t.Fatalf("FetchPayload returned unexpected error: %v", err)
	}
	if string(data) != payload {
		t.Errorf("payload = %q, want %q", data, payload)
	}
}

func TestFetchPayload_Throttled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestProvider(server.URL)
	_, err := p.FetchPayload(context.Background(), models.PayloadDescriptor{URL: server.URL + "/api/timedtext"})
	if !errors.Is(err, &apperrors.ErrProviderThrottled{}) {
		t.Errorf("error = %v, want ErrProviderThrottled", err)
	}
}

func TestFetchPayload_TimeoutBoundsCall(t *testing.T) {
	t.Parallel()

	requestDone := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(requestDone)
	}))
	defer server.Close()

	httpClient := &http.Client{Transport: newCompressionTransport(nil)}
	p := newYouTubeProvider(server.URL, httpClient, 200*time.Millisecond, "test-agent", "fr")

	start := time.Now()
	_, err := p.FetchPayload(context.Background(), models.PayloadDescriptor{URL: server.URL + "/api/timedtext"})
	elapsed := time.Since(start)

	if err == nil {
		t.Fatal("FetchPayload should fail when the provider hangs past the timeout")
	}
	if elapsed > time.Second {
		t.Errorf("FetchPayload returned after %s, the 200ms timeout should bound the call", elapsed)
	}

	select {
	case <-requestDone:
	case <-time.After(time.Second):
		t.Error("the in-flight request was not aborted at the timeout")
	}
}

func TestFetchPayload_ContextCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	p := newTestProvider(server.URL)
	_, err := p.FetchPayload(ctx, models.PayloadDescriptor{URL: server.URL + "/api/timedtext"})
	if err == nil {
		t.Fatal("FetchPayload should fail when the context is canceled")
	}
}
