package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// InterviewRepository handles interview data operations
type InterviewRepository struct {
	db *gorm.DB
}

// NewInterviewRepository creates a new interview repository
func NewInterviewRepository(db *gorm.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// Create creates a new interview
func (r *InterviewRepository) Create(ctx context.Context, interview *entities.Interview) error {
	if interview == nil {
		return errors.New("interview cannot be nil")
	}
	return r.db.WithContext(ctx).Create(interview).Error
}

// FindByID finds an interview by ID
func (r *InterviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Interview, error) {
	var interview entities.Interview
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&interview).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrInterviewNotFound
		}
		return nil, err
	}
	return &interview, nil
}

// List returns interviews ordered by creation time, newest first
func (r *InterviewRepository) List(ctx context.Context, limit, offset int) ([]*entities.Interview, error) {
	if limit == 0 {
		limit = 50
	}
	var interviews []*entities.Interview
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

// Update persists interview changes
func (r *InterviewRepository) Update(ctx context.Context, interview *entities.Interview) error {
	if interview == nil {
		return errors.New("interview cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ?", interview.ID).
		Save(interview).Error
}

// UpdateStatus transitions status only when the current status matches the guard
func (r *InterviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.InterviewStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.Interview{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
