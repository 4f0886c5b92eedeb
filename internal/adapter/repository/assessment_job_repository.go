package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// AssessmentJobRepository handles assessment job data operations
type AssessmentJobRepository struct {
	db *gorm.DB
}

// NewAssessmentJobRepository creates a new assessment job repository
func NewAssessmentJobRepository(db *gorm.DB) *AssessmentJobRepository {
	return &AssessmentJobRepository{db: db}
}

// Create enqueues a new job
func (r *AssessmentJobRepository) Create(ctx context.Context, job *entities.AssessmentJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID finds a job by ID
func (r *AssessmentJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.AssessmentJob, error) {
	var job entities.AssessmentJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindLatestByInterview returns the most recent job for an interview
func (r *AssessmentJobRepository) FindLatestByInterview(ctx context.Context, interviewID uuid.UUID) (*entities.AssessmentJob, error) {
	var job entities.AssessmentJob
	if err := r.db.WithContext(ctx).
		Where("interview_id = ?", interviewID).
		Order("created_at DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// ClaimNextPending atomically claims the oldest pending or retrying job.
// The status-guarded update makes the claim safe across multiple workers; a
// worker that loses the race simply gets zero affected rows and moves on.
func (r *AssessmentJobRepository) ClaimNextPending(ctx context.Context) (*entities.AssessmentJob, error) {
	var job entities.AssessmentJob
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.AssessmentJobStatus{
			entities.AssessmentJobStatusPending,
			entities.AssessmentJobStatusRetrying,
		}).
		Order("created_at ASC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.AssessmentJob{}).
		Where("id = ? AND status = ?", job.ID, job.Status).
		Updates(map[string]interface{}{
			"status":     entities.AssessmentJobStatusTranscribing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	job.Status = entities.AssessmentJobStatusTranscribing
	job.StartedAt = &now
	return &job, nil
}

// Update persists job changes
func (r *AssessmentJobRepository) Update(ctx context.Context, job *entities.AssessmentJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).
		Model(&entities.AssessmentJob{}).
		Where("id = ?", job.ID).
		Save(job).Error
}

// ResetStale returns jobs stuck in an in-flight state back to pending so a
// worker can pick them up again after a crash
func (r *AssessmentJobRepository) ResetStale(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.AssessmentJob{}).
		Where("status IN ? AND updated_at < ?", []entities.AssessmentJobStatus{
			entities.AssessmentJobStatusTranscribing,
			entities.AssessmentJobStatusExtracting,
		}, before).
		Updates(map[string]interface{}{
			"status":     entities.AssessmentJobStatusPending,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
