package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Indicator is an interviewer-defined trait to be scored from the transcript
type Indicator struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID uuid.UUID `json:"interview_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`

	// Weight used in the overall weighted mean; must be positive
	Weight float64 `json:"weight" gorm:"type:double precision;not null"`

	// Optional exact-match keywords for the hybrid relevance ranking
	Keywords datatypes.JSONSlice[string] `json:"keywords,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewIndicator creates a new indicator
func NewIndicator(interviewID uuid.UUID, name, description string, weight float64) *Indicator {
	return &Indicator{
		ID:          uuid.New(),
		InterviewID: interviewID,
		Name:        name,
		Description: description,
		Weight:      weight,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// TableName specifies the table name for GORM
func (Indicator) TableName() string {
	return "indicators"
}
