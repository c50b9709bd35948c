package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/soustitre/soustitre/internal/config"
	"github.com/soustitre/soustitre/internal/services"
)

// HealthStatus carries the capability flags exposed by /api/health. The flags
// are fixed at construction time; there is no ambient mutable state.
type HealthStatus struct {
	SubtitlesAvailable bool `json:"subtitlesAvailable"`
	CookiesLoaded      bool `json:"cookiesLoaded"`
}

// NewServer builds the echo HTTP server: API routes, CORS middleware, and
// static frontend assets when a static directory is configured.
func NewServer(service services.SubtitleService, health HealthStatus, cfg *config.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Cors.Origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType},
	}))

	h := &Handler{
		service:         service,
		health:          health,
		defaultLanguage: cfg.DefaultLanguage,
		development:     cfg.Development,
		logger:          config.GetLogger(),
	}

	e.POST("/api/subtitles", h.GetSubtitles)
	e.GET("/api/subtitles/languages/:videoId", h.ListLanguages)
	e.GET("/api/health", h.Health)

	if cfg.StaticDir != "" {
		e.Static("/", cfg.StaticDir)
	}

	return e
}
