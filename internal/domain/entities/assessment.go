package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssessmentStatus represents the extraction state of one (interview, indicator) pair
type AssessmentStatus string

const (
	AssessmentStatusPending    AssessmentStatus = "pending"    // Waiting for extraction
	AssessmentStatusExtracting AssessmentStatus = "extracting" // Extraction in flight; guards concurrent re-runs
	AssessmentStatusAssessed   AssessmentStatus = "assessed"   // AI fields populated
	AssessmentStatusFailed     AssessmentStatus = "failed"     // Extraction failed; reported as not assessed
)

// Assessment holds the AI and optional manual score for one (interview, indicator) pair.
// At most one row exists per pair; re-assessment overwrites the AI fields and
// preserves any manual score.
type Assessment struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	InterviewID uuid.UUID        `json:"interview_id" gorm:"type:uuid;not null;uniqueIndex:idx_assessments_interview_indicator"`
	IndicatorID uuid.UUID        `json:"indicator_id" gorm:"type:uuid;not null;uniqueIndex:idx_assessments_interview_indicator"`
	Status      AssessmentStatus `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`

	// AI fields, owned by the extractor
	AIScore   *float64                    `json:"ai_score,omitempty" gorm:"type:double precision"`
	Evidence  *string                     `json:"evidence,omitempty" gorm:"type:text"`
	Reasoning *string                     `json:"reasoning,omitempty" gorm:"type:text"`
	Spans     datatypes.JSONSlice[string] `json:"spans,omitempty" gorm:"type:jsonb"`

	// Manual field, owned by the interviewer; nil means not yet entered
	ManualScore *float64 `json:"manual_score,omitempty" gorm:"type:double precision"`

	LastError *string `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// NewAssessment creates a pending assessment for one pair
func NewAssessment(interviewID, indicatorID uuid.UUID) *Assessment {
	return &Assessment{
		ID:          uuid.New(),
		InterviewID: interviewID,
		IndicatorID: indicatorID,
		Status:      AssessmentStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// IsAssessed reports whether the AI score has been produced
func (a *Assessment) IsAssessed() bool {
	return a.Status == AssessmentStatusAssessed && a.AIScore != nil
}

// SetAIResult overwrites the AI-owned fields; the manual score is untouched
func (a *Assessment) SetAIResult(aiScore float64, evidence, reasoning string, spans []string) {
	a.AIScore = &aiScore
	a.Evidence = &evidence
	a.Reasoning = &reasoning
	a.Spans = spans
	a.Status = AssessmentStatusAssessed
	a.LastError = nil
	a.UpdatedAt = time.Now()
}

// MarkFailed records a terminal extraction failure for this pair
func (a *Assessment) MarkFailed(errMsg string) {
	a.Status = AssessmentStatusFailed
	a.LastError = &errMsg
	a.UpdatedAt = time.Now()
}

// TableName specifies the table name for GORM
func (Assessment) TableName() string {
	return "assessments"
}
