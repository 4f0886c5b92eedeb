package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appErrors "github.com/interview-assistant-team/interview-assistant/errors"
	assessmentDTO "github.com/interview-assistant-team/interview-assistant/internal/adapter/dto/assessment"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	assessmentUsecase "github.com/interview-assistant-team/interview-assistant/internal/usecase/assessment"
)

// AssessmentHandler handles assessment report and scoring HTTP requests
type AssessmentHandler struct {
	service   assessmentUsecase.Service
	weightSvc *assessmentUsecase.WeightService
	logger    *zap.Logger
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(
	service assessmentUsecase.Service,
	weightSvc *assessmentUsecase.WeightService,
	logger *zap.Logger,
) *AssessmentHandler {
	return &AssessmentHandler{
		service:   service,
		weightSvc: weightSvc,
		logger:    logger,
	}
}

// GetReport handles GET /interviews/:id/report
func (h *AssessmentHandler) GetReport(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	report, err := h.service.GetReport(c.Request().Context(), interviewID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, report)
}

// Reassess handles POST /interviews/:id/reassess
func (h *AssessmentHandler) Reassess(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	if err := h.service.Reassess(c.Request().Context(), interviewID); err != nil {
		return HandleError(h.logger, c, err)
	}

	report, err := h.service.GetReport(c.Request().Context(), interviewID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, report)
}

// SetManualScore handles PUT /interviews/:id/indicators/:indicatorId/manual-score
func (h *AssessmentHandler) SetManualScore(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}
	indicatorID, err := uuid.Parse(c.Param("indicatorId"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid indicator ID"))
	}

	var req assessmentDTO.ManualScoreRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument(err.Error()))
	}

	if err := h.service.SetManualScore(c.Request().Context(), interviewID, indicatorID, req.Score); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]interface{}{
		"interview_id": interviewID.String(),
		"indicator_id": indicatorID.String(),
		"score":        req.Score,
	})
}

// GetScoringWeights handles GET /settings/scoring-weights
func (h *AssessmentHandler) GetScoringWeights(c echo.Context) error {
	weights := h.weightSvc.Get()
	return HandleSuccess(h.logger, c, assessmentDTO.ScoringWeightsResponse{
		AIWeight:     weights.AIWeight,
		ManualWeight: weights.ManualWeight,
	})
}

// UpdateScoringWeights handles PUT /settings/scoring-weights. An invalid
// pair is refused and the previous weights stay active.
func (h *AssessmentHandler) UpdateScoringWeights(c echo.Context) error {
	var req assessmentDTO.ScoringWeightsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidPayload())
	}

	weights := entities.ScoringWeights{
		AIWeight:     req.AIWeight,
		ManualWeight: req.ManualWeight,
	}
	if err := h.weightSvc.Update(c.Request().Context(), weights); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, assessmentDTO.ScoringWeightsResponse{
		AIWeight:     weights.AIWeight,
		ManualWeight: weights.ManualWeight,
	})
}
