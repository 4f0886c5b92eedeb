package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appErrors "github.com/interview-assistant-team/interview-assistant/errors"
	indicatorDTO "github.com/interview-assistant-team/interview-assistant/internal/adapter/dto/indicator"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
)

// IndicatorHandler handles assessment indicator CRUD
type IndicatorHandler struct {
	indicatorRepo repositories.IndicatorRepository
	interviewRepo repositories.InterviewRepository
	logger        *zap.Logger
}

// NewIndicatorHandler creates a new indicator handler
func NewIndicatorHandler(
	indicatorRepo repositories.IndicatorRepository,
	interviewRepo repositories.InterviewRepository,
	logger *zap.Logger,
) *IndicatorHandler {
	return &IndicatorHandler{
		indicatorRepo: indicatorRepo,
		interviewRepo: interviewRepo,
		logger:        logger,
	}
}

// CreateIndicator handles POST /interviews/:id/indicators
func (h *IndicatorHandler) CreateIndicator(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	var req indicatorDTO.CreateIndicatorRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument(err.Error()))
	}

	interview, err := h.interviewRepo.FindByID(c.Request().Context(), interviewID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if interview == nil {
		return HandleError(h.logger, c, appErrors.ErrSessionNotFound(interviewID.String()))
	}

	indicator := entities.NewIndicator(interviewID, req.Name, req.Description, req.Weight)
	indicator.Keywords = req.Keywords
	if err := h.indicatorRepo.Create(c.Request().Context(), indicator); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, indicatorDTO.FromEntity(indicator))
}

// ListIndicators handles GET /interviews/:id/indicators
func (h *IndicatorHandler) ListIndicators(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	indicators, err := h.indicatorRepo.ListByInterview(c.Request().Context(), interviewID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := make([]*indicatorDTO.IndicatorResponse, 0, len(indicators))
	for _, indicator := range indicators {
		resp = append(resp, indicatorDTO.FromEntity(indicator))
	}
	return HandleSuccess(h.logger, c, resp)
}

// UpdateIndicator handles PUT /interviews/:id/indicators/:indicatorId
func (h *IndicatorHandler) UpdateIndicator(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}
	indicatorID, err := uuid.Parse(c.Param("indicatorId"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid indicator ID"))
	}

	var req indicatorDTO.UpdateIndicatorRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument(err.Error()))
	}

	indicator, err := h.indicatorRepo.FindByID(c.Request().Context(), indicatorID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if indicator == nil || indicator.InterviewID != interviewID {
		return HandleError(h.logger, c, appErrors.ErrNotFound("indicator"))
	}

	indicator.Name = req.Name
	indicator.Description = req.Description
	indicator.Weight = req.Weight
	indicator.Keywords = req.Keywords
	if err := h.indicatorRepo.Update(c.Request().Context(), indicator); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, indicatorDTO.FromEntity(indicator))
}

// DeleteIndicator handles DELETE /interviews/:id/indicators/:indicatorId
func (h *IndicatorHandler) DeleteIndicator(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}
	indicatorID, err := uuid.Parse(c.Param("indicatorId"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid indicator ID"))
	}

	indicator, err := h.indicatorRepo.FindByID(c.Request().Context(), indicatorID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if indicator == nil || indicator.InterviewID != interviewID {
		return HandleError(h.logger, c, appErrors.ErrNotFound("indicator"))
	}

	if err := h.indicatorRepo.Delete(c.Request().Context(), indicatorID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"id": indicatorID.String()})
}
