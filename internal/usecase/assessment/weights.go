package assessment

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	appErrors "github.com/interview-assistant-team/interview-assistant/errors"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
)

// WeightService caches the scoring weight pair in front of the settings
// store. Readers always see a complete pair; an invalid update is refused
// and leaves the previous weights in effect.
type WeightService struct {
	repo    repositories.SettingsRepository
	current atomic.Pointer[entities.ScoringWeights]
	logger  *zap.Logger
}

func NewWeightService(repo repositories.SettingsRepository, logger *zap.Logger) *WeightService {
	s := &WeightService{
		repo:   repo,
		logger: logger,
	}
	defaults := entities.DefaultScoringWeights()
	s.current.Store(&defaults)
	return s
}

// Load refreshes the cache from the settings store. Called once at startup;
// a store failure keeps the defaults so scoring stays available.
func (s *WeightService) Load(ctx context.Context) error {
	weights, err := s.repo.GetScoringWeights(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to load scoring weights, keeping defaults", zap.Error(err))
		}
		return err
	}
	s.current.Store(&weights)
	return nil
}

// Get returns the active weight pair.
func (s *WeightService) Get() entities.ScoringWeights {
	return *s.current.Load()
}

// Update validates and persists a new weight pair, then swaps the cache.
// Both weights must be non-negative and sum to exactly 100.
func (s *WeightService) Update(ctx context.Context, weights entities.ScoringWeights) error {
	if err := weights.Validate(); err != nil {
		return appErrors.ErrWeightsInvalid(weights.AIWeight, weights.ManualWeight)
	}
	if err := s.repo.SetScoringWeights(ctx, weights); err != nil {
		return err
	}
	s.current.Store(&weights)
	if s.logger != nil {
		s.logger.Info("✅ Scoring weights updated",
			zap.Float64("ai_weight", weights.AIWeight),
			zap.Float64("manual_weight", weights.ManualWeight))
	}
	return nil
}
