package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// InterviewRepository defines the interface for interview data access
type InterviewRepository interface {
	// Create creates a new interview
	Create(ctx context.Context, interview *entities.Interview) error

	// FindByID finds an interview by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error)

	// List returns interviews ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Interview, error)

	// Update persists interview changes
	Update(ctx context.Context, interview *entities.Interview) error

	// UpdateStatus transitions the interview status only if it currently
	// holds the expected status; returns false if the guard did not match
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.InterviewStatus) (bool, error)
}
