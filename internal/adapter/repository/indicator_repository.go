package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// IndicatorRepository handles indicator data operations
type IndicatorRepository struct {
	db *gorm.DB
}

// NewIndicatorRepository creates a new indicator repository
func NewIndicatorRepository(db *gorm.DB) *IndicatorRepository {
	return &IndicatorRepository{db: db}
}

// Create creates a new indicator
func (r *IndicatorRepository) Create(ctx context.Context, indicator *entities.Indicator) error {
	if indicator == nil {
		return errors.New("indicator cannot be nil")
	}
	if indicator.Weight <= 0 {
		return entities.ErrInvalidWeight
	}
	return r.db.WithContext(ctx).Create(indicator).Error
}

// FindByID finds an indicator by ID
func (r *IndicatorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Indicator, error) {
	var indicator entities.Indicator
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&indicator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrIndicatorNotFound
		}
		return nil, err
	}
	return &indicator, nil
}

// ListByInterview returns the interview's indicators in creation order
func (r *IndicatorRepository) ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.Indicator, error) {
	var indicators []*entities.Indicator
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at ASC").
		Find(&indicators).Error; err != nil {
		return nil, err
	}
	return indicators, nil
}

// Update persists indicator changes
func (r *IndicatorRepository) Update(ctx context.Context, indicator *entities.Indicator) error {
	if indicator == nil {
		return errors.New("indicator cannot be nil")
	}
	if indicator.Weight <= 0 {
		return entities.ErrInvalidWeight
	}
	return r.db.WithContext(ctx).
		Model(&entities.Indicator{}).
		Where("id = ?", indicator.ID).
		Save(indicator).Error
}

// Delete removes an indicator and its assessment
func (r *IndicatorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("indicator_id = ?", id).
			Delete(&entities.Assessment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Indicator{}, id).Error
	})
}
