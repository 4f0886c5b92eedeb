package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// EmotionRepository handles emotion sample data operations
type EmotionRepository struct {
	db *gorm.DB
}

// NewEmotionRepository creates a new emotion repository
func NewEmotionRepository(db *gorm.DB) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// BatchCreate appends samples in one insert
func (r *EmotionRepository) BatchCreate(ctx context.Context, samples []*entities.EmotionSample) error {
	if len(samples) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(samples, 200).Error
}

// ListByInterview returns all samples for an interview ordered by timestamp
// within each modality
func (r *EmotionRepository) ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.EmotionSample, error) {
	var samples []*entities.EmotionSample
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("modality ASC, timestamp_seconds ASC").
		Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

// ListByInterviewAndModality returns samples for one modality ordered by timestamp
func (r *EmotionRepository) ListByInterviewAndModality(ctx context.Context, interviewID uuid.UUID, modality entities.Modality) ([]*entities.EmotionSample, error) {
	var samples []*entities.EmotionSample
	if err := r.db.WithContext(ctx).
		Where("interview_id = ? AND modality = ?", interviewID, modality).
		Order("timestamp_seconds ASC").
		Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}
