package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-tasks/errors"
	meetingDto "github.com/johnquangdev/meeting-tasks/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-tasks/internal/adapter/presenter"
	botUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/bot"
	extractionUsecase "github.com/johnquangdev/meeting-tasks/internal/usecase/extraction"
)

// Transcript handles transcript HTTP requests
type Transcript struct {
	botService        *botUsecase.Service
	extractionService *extractionUsecase.Service
	logger            *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler
func NewTranscriptHandler(botService *botUsecase.Service, extractionService *extractionUsecase.Service, logger *zap.Logger) *Transcript {
	return &Transcript{
		botService:        botService,
		extractionService: extractionService,
		logger:            logger,
	}
}

// Process handles POST /transcripts/:id/process. Runs task extraction over
// the stored transcript and replaces the meeting's task set.
func (h *Transcript) Process(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meetingDto.ProcessTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidInput(err.Error()))
	}

	tasks, err := h.extractionService.Process(c.Request().Context(), id, req.AdditionalContext)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	taskList := presenter.ToTaskListResponse(id.String(), tasks)
	return HandleSuccess(h.logger, c, &meetingDto.ProcessTranscriptResponse{
		MeetingID: id.String(),
		Tasks:     taskList.Tasks,
		Total:     taskList.Total,
	})
}

// Get handles GET /transcripts/:id
func (h *Transcript) Get(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	transcript, err := h.botService.GetTranscript(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToTranscriptResponse(transcript))
}
