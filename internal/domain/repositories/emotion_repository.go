package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// EmotionRepository defines the interface for emotion sample data access
type EmotionRepository interface {
	// BatchCreate appends samples in one insert; called once at session close
	BatchCreate(ctx context.Context, samples []*entities.EmotionSample) error

	// ListByInterview returns all samples for an interview ordered by
	// timestamp within each modality
	ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.EmotionSample, error)

	// ListByInterviewAndModality returns samples for one modality ordered by timestamp
	ListByInterviewAndModality(ctx context.Context, interviewID uuid.UUID, modality entities.Modality) ([]*entities.EmotionSample, error)
}
