package entities

import (
	"time"

	"github.com/google/uuid"
)

// InterviewStatus represents the lifecycle of an interview's processing pipeline
type InterviewStatus string

const (
	InterviewStatusScheduled  InterviewStatus = "scheduled"  // Created, no live session yet
	InterviewStatusRecording  InterviewStatus = "recording"  // Live session in progress
	InterviewStatusProcessing InterviewStatus = "processing" // Batch assessment running
	InterviewStatusCompleted  InterviewStatus = "completed"  // Assessment finished
	InterviewStatusFailed     InterviewStatus = "failed"     // Assessment terminally failed
)

// Interview represents one candidate interview instance
type Interview struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CandidateName string          `json:"candidate_name" gorm:"type:varchar(255);not null"`
	Position      string          `json:"position" gorm:"type:varchar(255)"`
	Status        InterviewStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'scheduled'"`

	// Live session bookkeeping
	StartedAt *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	EndedAt   *time.Time `json:"ended_at,omitempty" gorm:"type:timestamp"`

	// Object key of the finalized audio artifact; set when the live session closes
	AudioArtifactKey *string `json:"audio_artifact_key,omitempty" gorm:"type:text"`

	// Set when batch assessment fails terminally
	LastError *string `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewInterview creates a new interview
func NewInterview(candidateName, position string) *Interview {
	return &Interview{
		ID:            uuid.New(),
		CandidateName: candidateName,
		Position:      position,
		Status:        InterviewStatusScheduled,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// MarkRecording marks the interview as having an active live session
func (i *Interview) MarkRecording() {
	now := time.Now()
	i.Status = InterviewStatusRecording
	i.StartedAt = &now
	i.UpdatedAt = now
}

// MarkProcessing marks the interview as entering batch assessment
func (i *Interview) MarkProcessing(audioArtifactKey string) {
	now := time.Now()
	i.Status = InterviewStatusProcessing
	i.EndedAt = &now
	i.AudioArtifactKey = &audioArtifactKey
	i.UpdatedAt = now
}

// MarkCompleted marks the assessment as finished
func (i *Interview) MarkCompleted() {
	i.Status = InterviewStatusCompleted
	i.UpdatedAt = time.Now()
}

// MarkFailed marks the assessment as terminally failed
func (i *Interview) MarkFailed(errMsg string) {
	i.Status = InterviewStatusFailed
	i.LastError = &errMsg
	i.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Interview) TableName() string {
	return "interviews"
}
