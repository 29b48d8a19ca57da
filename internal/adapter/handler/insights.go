package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	httpmw "github.com/cirrusops/conversation-miner/internal/infrastructure/http/middleware"
	"github.com/cirrusops/conversation-miner/internal/usecase/insights"
)

// Insights exposes mined story analytics.
type Insights struct {
	service insights.Service
	logger  *zap.Logger
}

// NewInsights creates the insights handler
func NewInsights(service insights.Service, logger *zap.Logger) *Insights {
	return &Insights{
		service: service,
		logger:  logger,
	}
}

// Themes returns theme frequencies across the org's stories.
// GET /v1/analytics/themes
func (h *Insights) Themes(c echo.Context) error {
	counts, err := h.service.Themes(c.Request().Context(), httpmw.GetOrgID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, counts)
}

// Sentiment returns the story sentiment breakdown for the org.
// GET /v1/analytics/sentiment
func (h *Insights) Sentiment(c echo.Context) error {
	counts, err := h.service.Sentiment(c.Request().Context(), httpmw.GetOrgID(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, http.StatusOK, counts)
}
