package repository

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// SettingsRepository handles application settings data operations
type SettingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the value for a key
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var setting entities.AppSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// Set stores a key/value pair
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entities.AppSetting{Key: key, Value: value}).Error
}

// GetScoringWeights reads both weight rows as one pair. Missing rows fall
// back to the defaults so a fresh database still combines scores.
func (r *SettingsRepository) GetScoringWeights(ctx context.Context) (entities.ScoringWeights, error) {
	weights := entities.DefaultScoringWeights()

	var settings []entities.AppSetting
	if err := r.db.WithContext(ctx).
		Where("key IN ?", []string{entities.SettingKeyAIScoreWeight, entities.SettingKeyManualScoreWeight}).
		Find(&settings).Error; err != nil {
		return weights, err
	}

	for _, s := range settings {
		value, err := strconv.ParseFloat(s.Value, 64)
		if err != nil {
			return weights, errors.New("malformed scoring weight setting: " + s.Key)
		}
		switch s.Key {
		case entities.SettingKeyAIScoreWeight:
			weights.AIWeight = value
		case entities.SettingKeyManualScoreWeight:
			weights.ManualWeight = value
		}
	}

	if err := weights.Validate(); err != nil {
		return entities.DefaultScoringWeights(), err
	}
	return weights, nil
}

// SetScoringWeights writes both weight rows in one transaction. Invalid pairs
// are rejected before touching the database, so the previous pair stays in
// effect.
func (r *SettingsRepository) SetScoringWeights(ctx context.Context, weights entities.ScoringWeights) error {
	if err := weights.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := []entities.AppSetting{
			{Key: entities.SettingKeyAIScoreWeight, Value: strconv.FormatFloat(weights.AIWeight, 'f', -1, 64)},
			{Key: entities.SettingKeyManualScoreWeight, Value: strconv.FormatFloat(weights.ManualWeight, 'f', -1, 64)},
		}
		for _, row := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
