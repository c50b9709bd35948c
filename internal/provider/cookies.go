package provider

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soustitre/soustitre/internal/apperrors"
	"github.com/soustitre/soustitre/internal/config"
)

// CookieEnvVar is the environment variable holding a Netscape-format cookie export.
const CookieEnvVar = "YOUTUBE_COOKIES"

// requiredMarkers are the session cookies an authenticated YouTube session carries.
var requiredMarkers = []string{"SID", "HSID", "SSID", "APISID", "SAPISID"}

// CookieBundle holds validated session cookies for authenticated provider calls.
type CookieBundle struct {
	Source  string
	Cookies []*http.Cookie
}

// LoadCookieBundle sources a cookie bundle from the YOUTUBE_COOKIES environment
// variable, or from the configured cookie file when the variable is unset.
// Returns (nil, nil) when neither source is configured: the provider then runs
// unauthenticated, which is enough for public videos.
func LoadCookieBundle(cfg *config.Config) (*CookieBundle, error) {
	if raw := os.Getenv(CookieEnvVar); raw != "" {
		return parseCookieBundle("env:"+CookieEnvVar, raw)
	}
	if cfg.CookieFile != "" {
		data, err := os.ReadFile(cfg.CookieFile)
		if err != nil {
			return nil, apperrors.NewAuthenticationRequiredError(
				fmt.Sprintf("cannot read cookie file %s: %v", cfg.CookieFile, err))
		}
		return parseCookieBundle(cfg.CookieFile, string(data))
	}
	return nil, nil
}

// parseCookieBundle decodes a Netscape-format cookie export and validates that
// the required session markers are present and not all expired.
func parseCookieBundle(source, raw string) (*CookieBundle, error) {
	var cookies []*http.Cookie

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if rest, ok := strings.CutPrefix(line, "#HttpOnly_"); ok {
			line = rest
		} else if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		// domain, include-subdomains flag, path, secure, expiry, name, value
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			continue
		}

		cookie := &http.Cookie{
			Domain: fields[0],
			Path:   fields[2],
			Secure: strings.EqualFold(fields[3], "TRUE"),
			Name:   fields[5],
			Value:  fields[6],
		}
		if expiry, err := strconv.ParseInt(fields[4], 10, 64); err == nil && expiry > 0 {
			cookie.Expires = time.Unix(expiry, 0)
		}
		cookies = append(cookies, cookie)
	}

	if len(cookies) == 0 {
		return nil, apperrors.NewAuthenticationRequiredError(
			fmt.Sprintf("no cookies found in %s", source))
	}

	byName := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		byName[cookie.Name] = cookie
	}

	var missing []string
	for _, marker := range requiredMarkers {
		if _, ok := byName[marker]; !ok {
			missing = append(missing, marker)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewAuthenticationRequiredError(
			fmt.Sprintf("cookie bundle from %s is missing session markers: %s", source, strings.Join(missing, ", ")))
	}

	// Session-only markers (no expiry) never count as stale
	stale := true
	now := time.Now()
	for _, marker := range requiredMarkers {
		cookie := byName[marker]
		if cookie.Expires.IsZero() || cookie.Expires.After(now) {
			stale = false
			break
		}
	}
	if stale {
		return nil, apperrors.NewAuthenticationExpiredError(source)
	}

	return &CookieBundle{Source: source, Cookies: cookies}, nil
}

// Apply installs the bundle's cookies into a jar for the provider host.
func (b *CookieBundle) Apply(jar http.CookieJar, baseURL string) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return
	}
	jar.SetCookies(u, b.Cookies)
}
