package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// IndicatorRepository defines the interface for indicator data access
type IndicatorRepository interface {
	// Create creates a new indicator
	Create(ctx context.Context, indicator *entities.Indicator) error

	// FindByID finds an indicator by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Indicator, error)

	// ListByInterview returns the interview's indicators in creation order
	ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.Indicator, error)

	// Update persists indicator changes
	Update(ctx context.Context, indicator *entities.Indicator) error

	// Delete removes an indicator and its assessment
	Delete(ctx context.Context, id uuid.UUID) error
}
