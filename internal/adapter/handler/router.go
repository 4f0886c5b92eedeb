package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	interviewHandler  *Interview
	indicatorHandler  *IndicatorHandler
	assessmentHandler *AssessmentHandler
	liveHandler       *LiveHandler
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	interviewHandler *Interview,
	indicatorHandler *IndicatorHandler,
	assessmentHandler *AssessmentHandler,
	liveHandler *LiveHandler,
) *Router {
	return &Router{
		cfg:               cfg,
		interviewHandler:  interviewHandler,
		indicatorHandler:  indicatorHandler,
		assessmentHandler: assessmentHandler,
		liveHandler:       liveHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// Live channel
	e.GET("/ws/interviews/:id", rt.liveHandler.HandleSession)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupInterviewRoutes(v1)
	rt.setupSettingsRoutes(v1)
}

// setupInterviewRoutes configures interview, indicator, and assessment routes
func (rt *Router) setupInterviewRoutes(g *echo.Group) {
	interviews := g.Group("/interviews")

	interviews.POST("", rt.interviewHandler.CreateInterview)
	interviews.GET("", rt.interviewHandler.ListInterviews)
	interviews.GET("/:id", rt.interviewHandler.GetInterview)
	interviews.GET("/:id/snapshot", rt.interviewHandler.GetSnapshot)
	interviews.GET("/:id/emotions", rt.interviewHandler.GetEmotionLog)
	interviews.GET("/:id/transcript", rt.interviewHandler.GetTranscript)

	interviews.POST("/:id/indicators", rt.indicatorHandler.CreateIndicator)
	interviews.GET("/:id/indicators", rt.indicatorHandler.ListIndicators)
	interviews.PUT("/:id/indicators/:indicatorId", rt.indicatorHandler.UpdateIndicator)
	interviews.DELETE("/:id/indicators/:indicatorId", rt.indicatorHandler.DeleteIndicator)

	interviews.GET("/:id/report", rt.assessmentHandler.GetReport)
	interviews.POST("/:id/reassess", rt.assessmentHandler.Reassess)
	interviews.PUT("/:id/indicators/:indicatorId/manual-score", rt.assessmentHandler.SetManualScore)
}

// setupSettingsRoutes configures scoring configuration routes
func (rt *Router) setupSettingsRoutes(g *echo.Group) {
	settings := g.Group("/settings")

	settings.GET("/scoring-weights", rt.assessmentHandler.GetScoringWeights)
	settings.PUT("/scoring-weights", rt.assessmentHandler.UpdateScoringWeights)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
