package assessment

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gorm.io/datatypes"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

type stubEmbedder struct {
	vectors map[string][]float64
	err     error
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, ok := s.vectors[t]
		if !ok {
			v = []float64{0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func leadershipIndicator() *entities.Indicator {
	return &entities.Indicator{
		Name:        "Leadership",
		Description: "Demonstrates leadership of engineering teams",
		Weight:      50,
	}
}

func candidateEntries(text string) []*entities.TranscriptEntry {
	return []*entities.TranscriptEntry{
		{Role: entities.SpeakerRoleCandidate, Text: text},
	}
}

func scoringCfg() config.ScoringConfig {
	return config.ScoringConfig{RelevanceThreshold: 0.5, EvidenceLimit: 2}
}

func TestExtract_RanksBySimilarity(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams": {1, 0},
		"I led a team of five engineers.":              {1, 0}, // sim 1.0
		"The weather was nice yesterday.":              {0, 1}, // sim 0
		"We shipped the product on schedule.":          {1, 1}, // sim ~0.707
	}}
	ex := NewExtractor(embedder, scoringCfg(), nil)

	result, err := ex.Extract(context.Background(), leadershipIndicator(), candidateEntries(
		"I led a team of five engineers. The weather was nice yesterday. We shipped the product on schedule.",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantEvidence := "I led a team of five engineers. | We shipped the product on schedule."
	if result.Evidence != wantEvidence {
		t.Fatalf("evidence = %q, want %q", result.Evidence, wantEvidence)
	}

	// 2 relevant spans, avg sim (1+0.7071)/2: count 20+ln(3)*15=36.479,
	// similarity clamped to 60, no keyword bonus
	if result.AIScore != 96.5 {
		t.Fatalf("score = %v, want 96.5", result.AIScore)
	}
	if !strings.Contains(result.Reasoning, "2 relevant spans") {
		t.Fatalf("reasoning missing span count: %q", result.Reasoning)
	}
	if !strings.Contains(result.Reasoning, `"Leadership"`) {
		t.Fatalf("reasoning missing indicator name: %q", result.Reasoning)
	}
}

func TestExtract_KeywordBumpAndBonus(t *testing.T) {
	// Similarity 0.4 alone misses the 0.5 threshold; the keyword bump
	// (sim + 0.15 = 0.55) carries the span over it.
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams":    {1, 0},
		"We migrated everything to kubernetes last year.": {0.4, 0.9165151389911680},
	}}
	indicator := leadershipIndicator()
	indicator.Keywords = datatypes.JSONSlice[string]{"Kubernetes"}
	ex := NewExtractor(embedder, scoringCfg(), nil)

	result, err := ex.Extract(context.Background(), indicator, candidateEntries(
		"We migrated everything to kubernetes last year.",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Evidence == NoEvidenceSentinel {
		t.Fatal("keyword bump should have lifted the span over the threshold")
	}
	// count 20+ln(2)*15=30.397, similarity floor 30, one exact hit = +8
	if result.AIScore != 68.4 {
		t.Fatalf("score = %v, want 68.4", result.AIScore)
	}
	if !strings.Contains(result.Reasoning, "1 exact keyword matches") {
		t.Fatalf("reasoning missing keyword hits: %q", result.Reasoning)
	}
}

func TestExtract_NoRelevantSpans(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams": {1, 0},
		"The weather was nice yesterday.":              {0, 1},
	}}
	ex := NewExtractor(embedder, scoringCfg(), nil)

	result, err := ex.Extract(context.Background(), leadershipIndicator(), candidateEntries(
		"The weather was nice yesterday.",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Evidence != NoEvidenceSentinel {
		t.Fatalf("evidence = %q, want sentinel", result.Evidence)
	}
	if result.AIScore != 15.0 {
		t.Fatalf("score = %v, want insufficient-evidence baseline 15.0", result.AIScore)
	}
	if result.Spans != nil {
		t.Fatalf("expected no spans, got %v", result.Spans)
	}
}

func TestExtract_EmptyTranscript(t *testing.T) {
	ex := NewExtractor(&stubEmbedder{}, scoringCfg(), nil)

	result, err := ex.Extract(context.Background(), leadershipIndicator(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Evidence != NoEvidenceSentinel {
		t.Fatalf("evidence = %q, want sentinel", result.Evidence)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams": {1, 0},
		"I led a team of five engineers.":              {1, 0},
		"We shipped the product on schedule.":          {1, 1},
	}}
	ex := NewExtractor(embedder, scoringCfg(), nil)
	entries := candidateEntries("I led a team of five engineers. We shipped the product on schedule.")

	first, err := ex.Extract(context.Background(), leadershipIndicator(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ex.Extract(context.Background(), leadershipIndicator(), entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("extraction not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestExtract_EvidenceLimitTruncatesQuotesOnly(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams": {1, 0},
		"I led a team of five engineers.":              {1, 0},
		"We shipped the product on schedule.":          {1, 1},
	}}
	cfg := scoringCfg()
	cfg.EvidenceLimit = 1
	ex := NewExtractor(embedder, cfg, nil)

	result, err := ex.Extract(context.Background(), leadershipIndicator(), candidateEntries(
		"I led a team of five engineers. We shipped the product on schedule.",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Spans) != 1 {
		t.Fatalf("expected 1 quoted span, got %d", len(result.Spans))
	}
	// The score still reflects both relevant spans, same as with limit 2
	if result.AIScore != 96.5 {
		t.Fatalf("score = %v, want 96.5", result.AIScore)
	}
}

func TestExtract_EmbedderErrorPropagates(t *testing.T) {
	ex := NewExtractor(&stubEmbedder{err: errors.New("service down")}, scoringCfg(), nil)

	_, err := ex.Extract(context.Background(), leadershipIndicator(), candidateEntries(
		"I led a team of five engineers.",
	))
	if err == nil {
		t.Fatal("expected error")
	}
}
