package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shortlink/internal/middleware"
	"shortlink/internal/models"
	"shortlink/internal/repository"
	"shortlink/internal/service"
)

// The two analytics endpoints deliberately take differently grained
// parameters: per-code analytics wants full datetimes, totalClicks wants
// date-only values that the service expands to day boundaries.
const (
	dateTimeLayout = "2006-01-02T15:04:05"
	dateLayout     = "2006-01-02"
)

type LinkHandler struct {
	links     service.LinkService
	analytics service.AnalyticsService
	clicks    service.ClickProcessor
	logger    *zap.Logger
}

func NewLinkHandler(
	links service.LinkService,
	analytics service.AnalyticsService,
	clicks service.ClickProcessor,
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		links:     links,
		analytics: analytics,
		clicks:    clicks,
		logger:    logger,
	}
}

type ShortenRequest struct {
	OriginalURL string `json:"originalUrl" binding:"required"`
}

func (h *LinkHandler) Shorten(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: err.Error(),
		})
		return
	}

	link, err := h.links.Shorten(c.Request.Context(), req.OriginalURL, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyURL):
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_url",
				Message: "Original URL cannot be empty",
			})
		case errors.Is(err, service.ErrCodeSpaceExhausted):
			h.logger.Error("Short code generation exhausted", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "generation_exhausted",
				Message: "Could not allocate a unique short code",
			})
		default:
			h.logger.Error("Failed to shorten URL", zap.Error(err))
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "internal_error",
				Message: "Failed to shorten URL",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, link.DTO())
}

func (h *LinkHandler) MyURLs(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	links, err := h.links.ListByUser(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to list links", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to list links",
		})
		return
	}

	dtos := make([]models.LinkDTO, 0, len(links))
	for i := range links {
		dtos = append(dtos, links[i].DTO())
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *LinkHandler) Analytics(c *gin.Context) {
	code := c.Param("code")

	start, err := time.Parse(dateTimeLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "startDate must be formatted as " + dateTimeLayout,
		})
		return
	}
	end, err := time.Parse(dateTimeLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "endDate must be formatted as " + dateTimeLayout,
		})
		return
	}

	stats, err := h.analytics.DailyClicksForCode(c.Request.Context(), code, start, end)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to get analytics", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get analytics",
		})
		return
	}

	if stats == nil {
		stats = []models.DailyClicks{}
	}
	c.JSON(http.StatusOK, stats)
}

func (h *LinkHandler) TotalClicks(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	start, err := time.Parse(dateLayout, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "startDate must be formatted as " + dateLayout,
		})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_date",
			Message: "endDate must be formatted as " + dateLayout,
		})
		return
	}

	totals, err := h.analytics.DailyClicksForUser(c.Request.Context(), user, start, end)
	if err != nil {
		h.logger.Error("Failed to get total clicks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to get total clicks",
		})
		return
	}

	c.JSON(http.StatusOK, totals)
}

// Redirect resolves a short code publicly. Click recording is handed to
// the worker pool; a failed or dropped recording never blocks the
// redirect itself.
func (h *LinkHandler) Redirect(c *gin.Context) {
	code := c.Param("code")

	link, err := h.links.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Link not found",
			})
			return
		}
		h.logger.Error("Failed to resolve short code", zap.String("code", code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to resolve short code",
		})
		return
	}

	if err := h.clicks.Enqueue(c.Request.Context(), &models.ClickEvent{ShortCode: code}); err != nil {
		h.logger.Debug("Failed to enqueue click", zap.Error(err))
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}
