package entities

import (
	"time"

	"github.com/google/uuid"
)

// Modality is the detection channel an emotion sample came from
type Modality string

const (
	ModalityFacial Modality = "facial" // From video frames
	ModalityVoice  Modality = "voice"  // From audio chunks
)

// IsValid reports whether the modality is a known detection channel
func (m Modality) IsValid() bool {
	return m == ModalityFacial || m == ModalityVoice
}

// EmotionSample is one timestamped detection for a single modality.
// Samples are append-only and never mutated after creation.
type EmotionSample struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID uuid.UUID `json:"interview_id" gorm:"type:uuid;not null;index:idx_emotion_samples_interview_modality"`
	Modality    Modality  `json:"modality" gorm:"type:varchar(20);not null;index:idx_emotion_samples_interview_modality"`
	Label       string    `json:"label" gorm:"type:varchar(50);not null"`
	Confidence  float64   `json:"confidence" gorm:"type:double precision;not null"`

	// Seconds since session start, as reported by the client
	TimestampSeconds float64 `json:"timestamp_seconds" gorm:"type:double precision;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewEmotionSample creates a new emotion sample
func NewEmotionSample(interviewID uuid.UUID, modality Modality, label string, confidence, timestampSeconds float64) *EmotionSample {
	return &EmotionSample{
		ID:               uuid.New(),
		InterviewID:      interviewID,
		Modality:         modality,
		Label:            label,
		Confidence:       confidence,
		TimestampSeconds: timestampSeconds,
		CreatedAt:        time.Now(),
	}
}

// TableName specifies the table name for GORM
func (EmotionSample) TableName() string {
	return "emotion_samples"
}
