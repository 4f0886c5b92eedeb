package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

type fakeSettingsRepo struct {
	weights entities.ScoringWeights
	getErr  error
	setErr  error
	setN    int
}

func (f *fakeSettingsRepo) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (f *fakeSettingsRepo) Set(ctx context.Context, key, value string) error    { return nil }

func (f *fakeSettingsRepo) GetScoringWeights(ctx context.Context) (entities.ScoringWeights, error) {
	if f.getErr != nil {
		return entities.ScoringWeights{}, f.getErr
	}
	return f.weights, nil
}

func (f *fakeSettingsRepo) SetScoringWeights(ctx context.Context, weights entities.ScoringWeights) error {
	f.setN++
	if f.setErr != nil {
		return f.setErr
	}
	f.weights = weights
	return nil
}

func TestWeightService_DefaultsBeforeLoad(t *testing.T) {
	svc := NewWeightService(&fakeSettingsRepo{}, nil)
	if got := svc.Get(); got != entities.DefaultScoringWeights() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestWeightService_LoadFromStore(t *testing.T) {
	repo := &fakeSettingsRepo{weights: entities.ScoringWeights{AIWeight: 70, ManualWeight: 30}}
	svc := NewWeightService(repo, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Get(); got.AIWeight != 70 || got.ManualWeight != 30 {
		t.Fatalf("expected stored weights, got %+v", got)
	}
}

func TestWeightService_LoadFailureKeepsDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{getErr: errors.New("db down")}
	svc := NewWeightService(repo, nil)
	if err := svc.Load(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got := svc.Get(); got != entities.DefaultScoringWeights() {
		t.Fatalf("expected defaults after failed load, got %+v", got)
	}
}

func TestWeightService_Update(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewWeightService(repo, nil)

	if err := svc.Update(context.Background(), entities.ScoringWeights{AIWeight: 70, ManualWeight: 30}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := svc.Get(); got.AIWeight != 70 || got.ManualWeight != 30 {
		t.Fatalf("expected updated weights, got %+v", got)
	}
	if repo.weights.AIWeight != 70 {
		t.Fatalf("expected weights persisted, got %+v", repo.weights)
	}
}

func TestWeightService_UpdateInvalidPairRefused(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewWeightService(repo, nil)

	if err := svc.Update(context.Background(), entities.ScoringWeights{AIWeight: 70, ManualWeight: 40}); err == nil {
		t.Fatal("expected error for weights not summing to 100")
	}
	if repo.setN != 0 {
		t.Fatal("invalid pair must not reach the store")
	}
	if got := svc.Get(); got != entities.DefaultScoringWeights() {
		t.Fatalf("expected previous weights retained, got %+v", got)
	}
}

func TestWeightService_UpdateStoreFailureKeepsCache(t *testing.T) {
	repo := &fakeSettingsRepo{setErr: errors.New("write failed")}
	svc := NewWeightService(repo, nil)

	if err := svc.Update(context.Background(), entities.ScoringWeights{AIWeight: 70, ManualWeight: 30}); err == nil {
		t.Fatal("expected error")
	}
	if got := svc.Get(); got != entities.DefaultScoringWeights() {
		t.Fatalf("expected cache unchanged after store failure, got %+v", got)
	}
}
