package entities

import (
	"time"

	"github.com/google/uuid"
)

// SpeakerRole distinguishes who produced a transcript segment
type SpeakerRole string

const (
	SpeakerRoleCandidate   SpeakerRole = "candidate"
	SpeakerRoleInterviewer SpeakerRole = "interviewer"
)

// TranscriptEntry is one diarized segment of the finalized transcript
type TranscriptEntry struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID uuid.UUID   `json:"interview_id" gorm:"type:uuid;not null;index"`
	Speaker     string      `json:"speaker" gorm:"type:varchar(50);not null"`
	Role        SpeakerRole `json:"role" gorm:"type:varchar(20);not null;index"`
	Text        string      `json:"text" gorm:"type:text;not null"`

	// Segment boundaries in seconds from the start of the recording
	StartSeconds float64 `json:"start_seconds" gorm:"type:double precision;not null"`
	EndSeconds   float64 `json:"end_seconds" gorm:"type:double precision;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewTranscriptEntry creates a transcript entry
func NewTranscriptEntry(interviewID uuid.UUID, speaker string, role SpeakerRole, text string, startSeconds, endSeconds float64) *TranscriptEntry {
	return &TranscriptEntry{
		ID:           uuid.New(),
		InterviewID:  interviewID,
		Speaker:      speaker,
		Role:         role,
		Text:         text,
		StartSeconds: startSeconds,
		EndSeconds:   endSeconds,
		CreatedAt:    time.Now(),
	}
}

// IsCandidate reports whether the segment is attributed to the candidate
func (t *TranscriptEntry) IsCandidate() bool {
	return t.Role == SpeakerRoleCandidate
}

// TableName specifies the table name for GORM
func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}
