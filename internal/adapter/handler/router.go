package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cirrusops/conversation-miner/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg     *config.Config
	sync    *Sync
	mining  *Mining
	profile *Profile
	meeting *Meeting
	insight *Insights
	webhook *ZoomWebhook
	orgAuth echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	syncHandler *Sync,
	miningHandler *Mining,
	profileHandler *Profile,
	meetingHandler *Meeting,
	insightsHandler *Insights,
	webhookHandler *ZoomWebhook,
	orgAuth echo.MiddlewareFunc,
) *Router {
	return &Router{
		cfg:     cfg,
		sync:    syncHandler,
		mining:  miningHandler,
		profile: profileHandler,
		meeting: meetingHandler,
		insight: insightsHandler,
		webhook: webhookHandler,
		orgAuth: orgAuth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Webhooks authenticate by signature, not bearer token.
	e.POST("/v1/webhooks/zoom", rt.webhook.Handle)

	// API v1 group, org-scoped
	v1 := e.Group("/v1", rt.orgAuth)

	rt.setupSyncRoutes(v1)
	rt.setupMiningRoutes(v1)
	rt.setupProfileRoutes(v1)
	rt.setupBrowseRoutes(v1)
	rt.setupAnalyticsRoutes(v1)
}

// setupSyncRoutes configures sync trigger and inspection routes
func (rt *Router) setupSyncRoutes(g *echo.Group) {
	syncGroup := g.Group("/sync")

	syncGroup.POST("/:platform/bulk", rt.sync.TriggerBulk)
	syncGroup.POST("/:platform/incremental", rt.sync.TriggerIncremental)
	syncGroup.GET("/:platform/status", rt.sync.PlatformStatus)
	syncGroup.GET("/status", rt.sync.Status)
	syncGroup.GET("/jobs", rt.sync.ListJobs)
	syncGroup.GET("/jobs/:id", rt.sync.GetJob)
}

// setupMiningRoutes configures extraction and generation routes
func (rt *Router) setupMiningRoutes(g *echo.Group) {
	miningGroup := g.Group("/mining")

	miningGroup.POST("/meetings/:id/extract", rt.mining.Extract)
	miningGroup.POST("/stories/:id/generate", rt.mining.Generate)
	miningGroup.POST("/stories/:id/generate/batch", rt.mining.BatchGenerate)
	miningGroup.POST("/content/:id/regenerate", rt.mining.Regenerate)
	miningGroup.PATCH("/content/:id/status", rt.mining.UpdateContentStatus)
}

// setupProfileRoutes configures mining profile management routes
func (rt *Router) setupProfileRoutes(g *echo.Group) {
	profileGroup := g.Group("/profiles")

	profileGroup.POST("", rt.profile.Create)
	profileGroup.GET("", rt.profile.List)
	profileGroup.GET("/:name", rt.profile.Get)
}

// setupBrowseRoutes configures meeting and story browse routes
func (rt *Router) setupBrowseRoutes(g *echo.Group) {
	g.GET("/meetings", rt.meeting.List)
	g.GET("/meetings/:id", rt.meeting.GetDetail)
	g.GET("/stories", rt.mining.ListStories)
	g.GET("/stories/:id", rt.mining.GetStory)
	g.GET("/stories/:id/content", rt.mining.StoryContent)
}

// setupAnalyticsRoutes configures mined story analytics routes
func (rt *Router) setupAnalyticsRoutes(g *echo.Group) {
	analyticsGroup := g.Group("/analytics")

	analyticsGroup.GET("/themes", rt.insight.Themes)
	analyticsGroup.GET("/sentiment", rt.insight.Sentiment)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
