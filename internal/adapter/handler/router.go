package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-tasks/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-tasks/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	meetingHandler    *Meeting
	transcriptHandler *Transcript
	taskHandler       *Task
	exportHandler     *Export
}

// NewRouter creates a new router with all handlers
func NewRouter(
	cfg *config.Config,
	meetingHandler *Meeting,
	transcriptHandler *Transcript,
	taskHandler *Task,
	exportHandler *Export,
) *Router {
	return &Router{
		cfg:               cfg,
		meetingHandler:    meetingHandler,
		transcriptHandler: transcriptHandler,
		taskHandler:       taskHandler,
		exportHandler:     exportHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)

	rt.setupMeetingRoutes(e)
	rt.setupTranscriptRoutes(e)
	rt.setupTaskRoutes(e)
	rt.setupExportRoutes(e)
}

func (rt *Router) setupMeetingRoutes(e *echo.Echo) {
	g := e.Group("/meetings")
	g.POST("/start", rt.meetingHandler.Start)
	g.GET("/", rt.meetingHandler.List)
	g.GET("", rt.meetingHandler.List)
	g.GET("/:id", rt.meetingHandler.Get)
	g.GET("/:id/status", rt.meetingHandler.Status)
	g.POST("/:id/complete", rt.meetingHandler.Complete)
}

func (rt *Router) setupTranscriptRoutes(e *echo.Echo) {
	g := e.Group("/transcripts")
	g.GET("/:id", rt.transcriptHandler.Get)
	g.POST("/:id/process", rt.transcriptHandler.Process)
}

func (rt *Router) setupTaskRoutes(e *echo.Echo) {
	g := e.Group("/tasks")
	g.GET("/:meetingId", rt.taskHandler.List)
	g.POST("/:meetingId/modify", rt.taskHandler.Modify)
	g.PATCH("/:id/complete", rt.taskHandler.Complete)
	g.GET("/:meetingId/export", rt.exportHandler.ExportJSON)
}

func (rt *Router) setupExportRoutes(e *echo.Echo) {
	g := e.Group("/exports")
	g.GET("/:meetingId/pdf", rt.exportHandler.ExportPDF)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:  "ok",
		Service: "meeting-tasks",
	})
}
