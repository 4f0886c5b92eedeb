package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// AssessmentRepository handles assessment data operations
type AssessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// FindByPair finds the assessment for one (interview, indicator) pair
func (r *AssessmentRepository) FindByPair(ctx context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, error) {
	var assessment entities.Assessment
	if err := r.db.WithContext(ctx).
		Where("interview_id = ? AND indicator_id = ?", interviewID, indicatorID).
		First(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrAssessmentNotFound
		}
		return nil, err
	}
	return &assessment, nil
}

// ListByInterview returns all assessments for an interview
func (r *AssessmentRepository) ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.Assessment, error) {
	var assessments []*entities.Assessment
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&assessments).Error; err != nil {
		return nil, err
	}
	return assessments, nil
}

// ClaimForExtraction atomically moves the pair's row into the extracting state.
// The guarded update only matches rows not already claimed, so two concurrent
// extraction runs for the same pair can never both proceed.
func (r *AssessmentRepository) ClaimForExtraction(ctx context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, bool, error) {
	assessment, err := r.FindByPair(ctx, interviewID, indicatorID)
	if errors.Is(err, entities.ErrAssessmentNotFound) {
		assessment = entities.NewAssessment(interviewID, indicatorID)
		if createErr := r.db.WithContext(ctx).Create(assessment).Error; createErr != nil {
			// Lost the creation race; re-read the winner's row
			assessment, err = r.FindByPair(ctx, interviewID, indicatorID)
			if err != nil {
				return nil, false, err
			}
		}
	} else if err != nil {
		return nil, false, err
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Assessment{}).
		Where("id = ? AND status <> ?", assessment.ID, entities.AssessmentStatusExtracting).
		Updates(map[string]interface{}{
			"status":     entities.AssessmentStatusExtracting,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		return assessment, false, nil
	}
	assessment.Status = entities.AssessmentStatusExtracting
	return assessment, true, nil
}

// SaveAIResult overwrites the AI-owned fields of a claimed row and releases
// the claim. The manual_score column is deliberately not listed.
func (r *AssessmentRepository) SaveAIResult(ctx context.Context, assessment *entities.Assessment) error {
	if assessment == nil {
		return errors.New("assessment cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Assessment{}).
		Where("id = ?", assessment.ID).
		Updates(map[string]interface{}{
			"status":     entities.AssessmentStatusAssessed,
			"ai_score":   assessment.AIScore,
			"evidence":   assessment.Evidence,
			"reasoning":  assessment.Reasoning,
			"spans":      assessment.Spans,
			"last_error": nil,
			"updated_at": time.Now(),
		}).Error
}

// SaveFailure records a terminal extraction failure and releases the claim
func (r *AssessmentRepository) SaveFailure(ctx context.Context, interviewID, indicatorID uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Assessment{}).
		Where("interview_id = ? AND indicator_id = ?", interviewID, indicatorID).
		Updates(map[string]interface{}{
			"status":     entities.AssessmentStatusFailed,
			"last_error": errMsg,
			"updated_at": time.Now(),
		}).Error
}

// SetManualScore stores the interviewer's score for a pair, creating the row
// if extraction has not run yet
func (r *AssessmentRepository) SetManualScore(ctx context.Context, interviewID, indicatorID uuid.UUID, score float64) error {
	if score < 0 || score > 100 {
		return entities.ErrInvalidScore
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assessment entities.Assessment
		err := tx.Where("interview_id = ? AND indicator_id = ?", interviewID, indicatorID).
			First(&assessment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			created := entities.NewAssessment(interviewID, indicatorID)
			created.ManualScore = &score
			return tx.Create(created).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&entities.Assessment{}).
			Where("id = ?", assessment.ID).
			Updates(map[string]interface{}{
				"manual_score": score,
				"updated_at":   time.Now(),
			}).Error
	})
}
