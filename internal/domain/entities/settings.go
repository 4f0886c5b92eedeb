package entities

import (
	"time"
)

// Setting keys recognized by the application
const (
	SettingKeyAIScoreWeight     = "ai_score_weight"
	SettingKeyManualScoreWeight = "manual_score_weight"
)

// AppSetting is one key/value configuration row
type AppSetting struct {
	Key       string    `json:"key" gorm:"type:varchar(100);primary_key"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (AppSetting) TableName() string {
	return "app_settings"
}

// ScoringWeights is the AI/manual weight pair used by the score combiner.
// The pair is always read and replaced as a whole.
type ScoringWeights struct {
	AIWeight     float64 `json:"ai_score_weight"`
	ManualWeight float64 `json:"manual_score_weight"`
}

// DefaultScoringWeights returns the weight pair used before any configuration
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{AIWeight: 60, ManualWeight: 40}
}

// Validate rejects pairs that do not sum to 100 or carry negative weights
func (w ScoringWeights) Validate() error {
	if w.AIWeight < 0 || w.ManualWeight < 0 {
		return ErrNegativeWeight
	}
	if w.AIWeight+w.ManualWeight != 100 {
		return ErrWeightSum
	}
	return nil
}
