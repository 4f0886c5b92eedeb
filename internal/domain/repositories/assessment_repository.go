package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// AssessmentRepository defines the interface for assessment data access.
// Each (interview, indicator) pair holds at most one row.
type AssessmentRepository interface {
	// FindByPair finds the assessment for one (interview, indicator) pair
	FindByPair(ctx context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, error)

	// ListByInterview returns all assessments for an interview
	ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.Assessment, error)

	// ClaimForExtraction atomically moves the pair's row into the extracting
	// state, creating a pending row first if none exists. Returns false when
	// another extraction already holds the claim, so concurrent re-assessment
	// of the same pair never interleaves.
	ClaimForExtraction(ctx context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, bool, error)

	// SaveAIResult overwrites the AI-owned fields of a claimed row and
	// releases the claim; the manual score column is never touched
	SaveAIResult(ctx context.Context, assessment *entities.Assessment) error

	// SaveFailure records a terminal extraction failure and releases the claim
	SaveFailure(ctx context.Context, interviewID, indicatorID uuid.UUID, errMsg string) error

	// SetManualScore stores the interviewer's score for a pair, creating the
	// row if extraction has not run yet
	SetManualScore(ctx context.Context, interviewID, indicatorID uuid.UUID, score float64) error
}
