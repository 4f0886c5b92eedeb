package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// AssessmentJobRepository defines the interface for assessment job data access
type AssessmentJobRepository interface {
	// Create enqueues a new job
	Create(ctx context.Context, job *entities.AssessmentJob) error

	// FindByID finds a job by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.AssessmentJob, error)

	// FindLatestByInterview returns the most recent job for an interview
	FindLatestByInterview(ctx context.Context, interviewID uuid.UUID) (*entities.AssessmentJob, error)

	// ClaimNextPending atomically claims the oldest pending or retrying job
	// and moves it to transcribing; returns nil when the queue is empty
	ClaimNextPending(ctx context.Context) (*entities.AssessmentJob, error)

	// Update persists job changes
	Update(ctx context.Context, job *entities.AssessmentJob) error

	// ResetStale returns jobs stuck in an in-flight state since before the
	// cutoff back to pending so a worker can pick them up again
	ResetStale(ctx context.Context, before time.Time) (int64, error)
}
