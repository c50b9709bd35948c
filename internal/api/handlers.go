package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/soustitre/soustitre/internal/models"
	"github.com/soustitre/soustitre/internal/services"
)

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	service         services.SubtitleService
	health          HealthStatus
	defaultLanguage string
	development     bool
	logger          zerolog.Logger
}

type subtitleRequest struct {
	VideoID  string `json:"videoId"`
	Format   string `json:"format"`
	Language string `json:"language"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type languagesResponse struct {
	VideoID   string                `json:"videoId"`
	Languages []models.LanguageInfo `json:"languages"`
}

type healthResponse struct {
	Status             string `json:"status"`
	SubtitlesAvailable bool   `json:"subtitlesAvailable"`
	CookiesLoaded      bool   `json:"cookiesLoaded"`
}

// GetSubtitles handles POST /api/subtitles. Format defaults to txt and
// language to the configured default when the fields are omitted.
func (h *Handler) GetSubtitles(c echo.Context) error {
	if !h.health.SubtitlesAvailable {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "subtitle service is unavailable"})
	}
	if c.Request().ContentLength == 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "request body is required"})
	}

	var req subtitleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Format == "" {
		req.Format = string(models.FormatText)
	}
	if req.Language == "" {
		req.Language = h.defaultLanguage
	}

	result, err := h.service.GetSubtitles(c.Request().Context(), req.VideoID, req.Format, req.Language)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListLanguages handles GET /api/subtitles/languages/:videoId.
func (h *Handler) ListLanguages(c echo.Context) error {
	videoID := c.Param("videoId")

	infos, err := h.service.ListLanguages(c.Request().Context(), videoID)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, languagesResponse{VideoID: videoID, Languages: infos})
}

// Health handles GET /api/health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:             "ok",
		SubtitlesAvailable: h.health.SubtitlesAvailable,
		CookiesLoaded:      h.health.CookiesLoaded,
	})
}
