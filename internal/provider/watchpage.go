package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/soustitre/soustitre/internal/apperrors"
)

// playerResponsePattern locates the inline player document in a watch page script.
var playerResponsePattern = regexp.MustCompile(`ytInitialPlayerResponse\s*=\s*\{`)

// fetchWatchPagePlayerResponse retrieves the public watch page and extracts
// the same player document the player API serves, from the inline script that
// assigns ytInitialPlayerResponse.
func (p *youtubeProvider) fetchWatchPagePlayerResponse(ctx context.Context, videoID string) (*playerResponse, error) {
	pageURL := p.baseURL + "/watch?v=" + url.QueryEscape(videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building watch page request: %w", err)
	}
	req.Header.Set("Accept", "text/html")
	p.setBrowserHeaders(req)

	resp, err := p.do(ctx, "watch_page", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, apperrors.NewProviderThrottledError(videoID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing watch page: %w", err)
	}

	var raw string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		loc := playerResponsePattern.FindStringIndex(text)
		if loc == nil {
			return true
		}
		// loc[1]-1 points at the opening brace matched by the pattern
		if extracted, ok := extractJSONObject(text[loc[1]-1:]); ok {
			raw = extracted
			return false
		}
		return true
	})

	if raw == "" {
		return nil, fmt.Errorf("player response not found in watch page for video %s", videoID)
	}

	var player playerResponse
	if err := json.Unmarshal([]byte(raw), &player); err != nil {
		return nil, fmt.Errorf("decoding watch page player response: %w", err)
	}
	return &player, nil
}

// extractJSONObject returns the balanced JSON object starting at s[0] == '{',
// tracking string literals so braces inside caption text don't end the scan.
func extractJSONObject(s string) (string, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1], true
			}
		}
	}
	return "", false
}
