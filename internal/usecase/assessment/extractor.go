package assessment

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/pkg/ai"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// NoEvidenceSentinel is stored as the evidence string when no transcript
// span clears the relevance threshold. Downstream consumers key on the
// literal value, so it must never change.
const NoEvidenceSentinel = "no specific evidence found in the transcript"

// EvidenceSeparator joins the top-ranked spans so consumers can split
// them back into distinct quotes.
const EvidenceSeparator = " | "

// baselineScore is the low-but-nonzero score assigned when the transcript
// holds no relevant evidence: "insufficient evidence", not "trait absent".
const baselineScore = 15.0

// ExtractionResult is the outcome of one extraction run for a single
// indicator. Re-running on the same transcript yields an identical result.
type ExtractionResult struct {
	AIScore   float64
	Evidence  string
	Reasoning string
	Spans     []string
}

type rankedSpan struct {
	text       string
	similarity float64
	rank       float64
	keywordHit bool
}

// Extractor scores transcript evidence against indicators using a hybrid
// of embedding similarity and exact keyword matching. Short factual
// answers often use exact terminology without embedding-space proximity,
// so neither signal alone is enough.
type Extractor struct {
	embedder ai.EmbeddingClient
	cfg      config.ScoringConfig
	logger   *zap.Logger
}

func NewExtractor(embedder ai.EmbeddingClient, cfg config.ScoringConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		embedder: embedder,
		cfg:      cfg,
		logger:   logger,
	}
}

// Extract produces the AI score, evidence, and reasoning for one indicator
// over the candidate's transcript entries. Interviewer speech must already
// be filtered out by the caller.
func (e *Extractor) Extract(ctx context.Context, indicator *entities.Indicator, entries []*entities.TranscriptEntry) (*ExtractionResult, error) {
	spans := splitSentences(joinEntries(entries))
	if len(spans) == 0 {
		return noEvidenceResult(indicator.Name), nil
	}

	ranked, err := e.rankSpans(ctx, indicator, spans)
	if err != nil {
		return nil, err
	}

	relevant := make([]rankedSpan, 0, len(ranked))
	for _, r := range ranked {
		if r.rank >= e.cfg.RelevanceThreshold {
			relevant = append(relevant, r)
		}
	}
	if len(relevant) == 0 {
		return noEvidenceResult(indicator.Name), nil
	}

	// Stable sort keeps extraction deterministic on equal ranks.
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].rank > relevant[j].rank
	})
	limit := e.cfg.EvidenceLimit
	if limit <= 0 || limit > len(relevant) {
		limit = len(relevant)
	}
	top := relevant[:limit]

	var simSum float64
	exactHits := 0
	for _, r := range relevant {
		simSum += r.similarity
		if r.keywordHit {
			exactHits++
		}
	}
	avgSim := simSum / float64(len(relevant))

	countScore := math.Min(50, 20+math.Log(float64(len(relevant))+1)*15)
	simScore := clamp((avgSim-0.5)*100+30, 30, 60)
	bonus := math.Min(15, float64(exactHits)*8)
	score := math.Round(clamp(countScore+simScore+bonus, 0, 100)*10) / 10

	texts := make([]string, len(top))
	for i, r := range top {
		texts[i] = r.text
	}

	reasoning := fmt.Sprintf(
		"Found %d relevant spans for %q (avg similarity %.2f, %d exact keyword matches). Top evidence: %q",
		len(relevant), indicator.Name, avgSim, exactHits, texts[0],
	)

	return &ExtractionResult{
		AIScore:   score,
		Evidence:  strings.Join(texts, EvidenceSeparator),
		Reasoning: reasoning,
		Spans:     texts,
	}, nil
}

// rankSpans embeds the indicator description together with every span in
// one call, then scores each span by cosine similarity plus a fixed bump
// for exact keyword hits.
func (e *Extractor) rankSpans(ctx context.Context, indicator *entities.Indicator, spans []string) ([]rankedSpan, error) {
	inputs := make([]string, 0, len(spans)+1)
	inputs = append(inputs, indicator.Description)
	inputs = append(inputs, spans...)

	vectors, err := e.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(inputs) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(inputs))
	}

	keywords := make([]string, 0, len(indicator.Keywords))
	for _, k := range indicator.Keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}

	descVec := vectors[0]
	ranked := make([]rankedSpan, len(spans))
	for i, span := range spans {
		sim := ai.CosineSimilarity(descVec, vectors[i+1])
		hit := hasKeyword(span, keywords)
		rank := sim
		if hit {
			rank += 0.15
		}
		ranked[i] = rankedSpan{text: span, similarity: sim, rank: rank, keywordHit: hit}
	}
	return ranked, nil
}

func hasKeyword(span string, keywords []string) bool {
	lower := strings.ToLower(span)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

func joinEntries(entries []*entities.TranscriptEntry) string {
	var b strings.Builder
	for _, e := range entries {
		if t := strings.TrimSpace(e.Text); t != "" {
			if b.Len() > 0 {
				b.WriteString(" ")
			}
			b.WriteString(t)
		}
	}
	return b.String()
}

func noEvidenceResult(indicatorName string) *ExtractionResult {
	return &ExtractionResult{
		AIScore:   baselineScore,
		Evidence:  NoEvidenceSentinel,
		Reasoning: fmt.Sprintf("No transcript span cleared the relevance threshold for %q; assigned insufficient-evidence baseline", indicatorName),
		Spans:     nil,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
