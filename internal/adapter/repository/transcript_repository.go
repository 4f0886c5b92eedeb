package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// TranscriptRepository handles transcript data operations
type TranscriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// ReplaceForInterview deletes any prior transcript for the interview and
// inserts the new entries in one transaction
func (r *TranscriptRepository) ReplaceForInterview(ctx context.Context, interviewID uuid.UUID, entries []*entities.TranscriptEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("interview_id = ?", interviewID).
			Delete(&entities.TranscriptEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.CreateInBatches(entries, 200).Error
	})
}

// ListByInterview returns all entries ordered by start time
func (r *TranscriptRepository) ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error) {
	var entries []*entities.TranscriptEntry
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("start_seconds ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCandidateEntries returns only the candidate's entries ordered by start time
func (r *TranscriptRepository) ListCandidateEntries(ctx context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error) {
	var entries []*entities.TranscriptEntry
	if err := r.db.WithContext(ctx).
		Where("interview_id = ? AND role = ?", interviewID, entities.SpeakerRoleCandidate).
		Order("start_seconds ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
