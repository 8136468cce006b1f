package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/internal/adapter/presenter"
	exportUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/export"
)

// Export handles export HTTP requests
type Export struct {
	exportService *exportUsecase.Service
	logger        *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *exportUsecase.Service, logger *zap.Logger) *Export {
	return &Export{
		exportService: exportService,
		logger:        logger,
	}
}

// ExportJSON handles GET /tasks/:meetingId/export
func (h *Export) ExportJSON(c echo.Context) error {
	meetingID, err := parseIDParam(c, "meetingId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	meeting, tasks, err := h.exportService.Snapshot(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToExportResponse(meeting, tasks))
}

// ExportPDF handles GET /exports/:meetingId/pdf. Streams the rendered
// action items report.
func (h *Export) ExportPDF(c echo.Context) error {
	meetingID, err := parseIDParam(c, "meetingId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	pdf, err := h.exportService.BuildPDF(c.Request().Context(), meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	filename := fmt.Sprintf("action_items_%s.pdf", meetingID)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
