package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AssessmentJobStatus represents the status of a batch assessment job
type AssessmentJobStatus string

const (
	AssessmentJobStatusPending      AssessmentJobStatus = "pending"      // Waiting to be picked up by a worker
	AssessmentJobStatusTranscribing AssessmentJobStatus = "transcribing" // Audio submitted for transcription
	AssessmentJobStatusExtracting   AssessmentJobStatus = "extracting"   // Per-indicator evidence extraction running
	AssessmentJobStatusCompleted    AssessmentJobStatus = "completed"    // All indicators processed
	AssessmentJobStatusFailed       AssessmentJobStatus = "failed"       // Processing failed
	AssessmentJobStatusRetrying     AssessmentJobStatus = "retrying"     // Retrying after a transient failure
)

// AssessmentJob represents one batch assessment run for an interview.
// The live session hands off the finalized audio artifact by enqueueing a job.
type AssessmentJob struct {
	ID          uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID uuid.UUID           `json:"interview_id" gorm:"type:uuid;not null;index"`
	Status      AssessmentJobStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`

	// Object key of the audio artifact to transcribe
	AudioArtifactKey string `json:"audio_artifact_key" gorm:"type:text;not null"`

	// AssemblyAI transcript ID once submitted (nullable)
	ExternalJobID *string `json:"external_job_id,omitempty" gorm:"type:varchar(255);index"`

	// Processing details
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	RetryCount  int        `json:"retry_count" gorm:"type:integer;default:0"`
	MaxRetries  int        `json:"max_retries" gorm:"type:integer;default:3"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	// Metadata
	Metadata AssessmentJobMetadata `json:"metadata,omitempty" gorm:"type:jsonb;serializer:json"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AssessmentJobMetadata stores additional metadata for assessment jobs
type AssessmentJobMetadata struct {
	DurationSeconds  int                    `json:"duration_seconds,omitempty"`
	Language         string                 `json:"language,omitempty"`
	SegmentCount     int                    `json:"segment_count,omitempty"`
	IndicatorCount   int                    `json:"indicator_count,omitempty"`
	ProcessingTimeMs int64                  `json:"processing_time_ms,omitempty"`
	ErrorDetails     map[string]interface{} `json:"error_details,omitempty"`
}

// Scan implements sql.Scanner interface for GORM
func (m *AssessmentJobMetadata) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &m)
}

// Value implements driver.Valuer interface for GORM
func (m AssessmentJobMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// NewAssessmentJob creates a new assessment job
func NewAssessmentJob(interviewID uuid.UUID, audioArtifactKey string) *AssessmentJob {
	return &AssessmentJob{
		ID:               uuid.New(),
		InterviewID:      interviewID,
		Status:           AssessmentJobStatusPending,
		AudioArtifactKey: audioArtifactKey,
		RetryCount:       0,
		MaxRetries:       3,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
}

// IsRetryable checks if job can be retried
func (j *AssessmentJob) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries && j.Status == AssessmentJobStatusFailed
}

// MarkAsTranscribing marks job as submitted to the transcription service
func (j *AssessmentJob) MarkAsTranscribing(externalJobID string) {
	j.Status = AssessmentJobStatusTranscribing
	j.ExternalJobID = &externalJobID
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsExtracting marks job as running per-indicator extraction
func (j *AssessmentJob) MarkAsExtracting() {
	j.Status = AssessmentJobStatusExtracting
	j.UpdatedAt = time.Now()
}

// MarkAsCompleted marks job as completed successfully
func (j *AssessmentJob) MarkAsCompleted() {
	j.Status = AssessmentJobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *AssessmentJob) MarkAsFailed(errMsg string) {
	j.Status = AssessmentJobStatusFailed
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// IncrementRetry increments retry count and marks for retry
func (j *AssessmentJob) IncrementRetry(errMsg string) {
	j.RetryCount++
	j.Status = AssessmentJobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (AssessmentJob) TableName() string {
	return "assessment_jobs"
}
