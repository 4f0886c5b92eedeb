package indicator

import (
	"time"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// CreateIndicatorRequest is the payload to add an assessment indicator
type CreateIndicatorRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"required,min=1"`
	Weight      float64  `json:"weight" validate:"required,gt=0,lte=100"`
	Keywords    []string `json:"keywords" validate:"omitempty,dive,min=1"`
}

// UpdateIndicatorRequest is the payload to change an indicator
type UpdateIndicatorRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description string   `json:"description" validate:"required,min=1"`
	Weight      float64  `json:"weight" validate:"required,gt=0,lte=100"`
	Keywords    []string `json:"keywords" validate:"omitempty,dive,min=1"`
}

// IndicatorResponse is the API shape of one indicator
type IndicatorResponse struct {
	ID          string    `json:"id"`
	InterviewID string    `json:"interview_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Weight      float64   `json:"weight"`
	Keywords    []string  `json:"keywords"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromEntity converts an indicator entity to its API shape
func FromEntity(e *entities.Indicator) *IndicatorResponse {
	return &IndicatorResponse{
		ID:          e.ID.String(),
		InterviewID: e.InterviewID.String(),
		Name:        e.Name,
		Description: e.Description,
		Weight:      e.Weight,
		Keywords:    e.Keywords,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
