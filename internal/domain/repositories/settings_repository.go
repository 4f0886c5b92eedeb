package repositories

import (
	"context"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// SettingsRepository defines the interface for application settings access
type SettingsRepository interface {
	// Get returns the value for a key
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key/value pair
	Set(ctx context.Context, key, value string) error

	// GetScoringWeights reads both weight rows as one pair; missing rows
	// fall back to the defaults
	GetScoringWeights(ctx context.Context) (entities.ScoringWeights, error)

	// SetScoringWeights writes both weight rows in one transaction so a
	// reader never observes a half-updated pair
	SetScoringWeights(ctx context.Context, weights entities.ScoringWeights) error
}
