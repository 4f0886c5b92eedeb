package assessment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/transcriber"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

type fakeInterviewRepo struct {
	interviews map[uuid.UUID]*entities.Interview
}

func (r *fakeInterviewRepo) Create(_ context.Context, i *entities.Interview) error {
	r.interviews[i.ID] = i
	return nil
}

func (r *fakeInterviewRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Interview, error) {
	return r.interviews[id], nil
}

func (r *fakeInterviewRepo) List(context.Context, int, int) ([]*entities.Interview, error) {
	return nil, nil
}

func (r *fakeInterviewRepo) Update(_ context.Context, i *entities.Interview) error {
	r.interviews[i.ID] = i
	return nil
}

func (r *fakeInterviewRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to entities.InterviewStatus) (bool, error) {
	i, ok := r.interviews[id]
	if !ok || i.Status != from {
		return false, nil
	}
	i.Status = to
	return true, nil
}

type fakeIndicatorRepo struct {
	indicators []*entities.Indicator
}

func (r *fakeIndicatorRepo) Create(_ context.Context, i *entities.Indicator) error {
	r.indicators = append(r.indicators, i)
	return nil
}

func (r *fakeIndicatorRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Indicator, error) {
	for _, i := range r.indicators {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, nil
}

func (r *fakeIndicatorRepo) ListByInterview(_ context.Context, interviewID uuid.UUID) ([]*entities.Indicator, error) {
	var out []*entities.Indicator
	for _, i := range r.indicators {
		if i.InterviewID == interviewID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeIndicatorRepo) Update(context.Context, *entities.Indicator) error { return nil }
func (r *fakeIndicatorRepo) Delete(context.Context, uuid.UUID) error           { return nil }

type pairKey struct{ interview, indicator uuid.UUID }

type fakeAssessmentRepo struct {
	mu           sync.Mutex
	rows         map[pairKey]*entities.Assessment
	manualScores map[pairKey]float64
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{
		rows:         make(map[pairKey]*entities.Assessment),
		manualScores: make(map[pairKey]float64),
	}
}

func (r *fakeAssessmentRepo) FindByPair(_ context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[pairKey{interviewID, indicatorID}], nil
}

func (r *fakeAssessmentRepo) ListByInterview(_ context.Context, interviewID uuid.UUID) ([]*entities.Assessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Assessment
	for key, a := range r.rows {
		if key.interview == interviewID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAssessmentRepo) ClaimForExtraction(_ context.Context, interviewID, indicatorID uuid.UUID) (*entities.Assessment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{interviewID, indicatorID}
	a, ok := r.rows[key]
	if !ok {
		a = entities.NewAssessment(interviewID, indicatorID)
		r.rows[key] = a
	}
	if a.Status == entities.AssessmentStatusExtracting {
		return nil, false, nil
	}
	a.Status = entities.AssessmentStatusExtracting
	return a, true, nil
}

func (r *fakeAssessmentRepo) SaveAIResult(_ context.Context, assessment *entities.Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[pairKey{assessment.InterviewID, assessment.IndicatorID}] = assessment
	return nil
}

func (r *fakeAssessmentRepo) SaveFailure(_ context.Context, interviewID, indicatorID uuid.UUID, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{interviewID, indicatorID}
	if a, ok := r.rows[key]; ok {
		a.MarkFailed(errMsg)
	}
	return nil
}

func (r *fakeAssessmentRepo) SetManualScore(_ context.Context, interviewID, indicatorID uuid.UUID, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey{interviewID, indicatorID}
	r.manualScores[key] = score
	a, ok := r.rows[key]
	if !ok {
		a = entities.NewAssessment(interviewID, indicatorID)
		r.rows[key] = a
	}
	a.ManualScore = &score
	return nil
}

type fakeTranscriptRepo struct {
	entries []*entities.TranscriptEntry
}

func (r *fakeTranscriptRepo) ReplaceForInterview(_ context.Context, interviewID uuid.UUID, entries []*entities.TranscriptEntry) error {
	var kept []*entities.TranscriptEntry
	for _, e := range r.entries {
		if e.InterviewID != interviewID {
			kept = append(kept, e)
		}
	}
	r.entries = append(kept, entries...)
	return nil
}

func (r *fakeTranscriptRepo) ListByInterview(_ context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error) {
	var out []*entities.TranscriptEntry
	for _, e := range r.entries {
		if e.InterviewID == interviewID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTranscriptRepo) ListCandidateEntries(_ context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error) {
	var out []*entities.TranscriptEntry
	for _, e := range r.entries {
		if e.InterviewID == interviewID && e.IsCandidate() {
			out = append(out, e)
		}
	}
	return out, nil
}

type serviceFixture struct {
	service        Service
	interviewRepo  *fakeInterviewRepo
	indicatorRepo  *fakeIndicatorRepo
	assessmentRepo *fakeAssessmentRepo
	transcriptRepo *fakeTranscriptRepo
	weightSvc      *WeightService
}

func newServiceFixture(embedder *stubEmbedder) *serviceFixture {
	cfg := &config.Config{Scoring: scoringCfg()}
	cfg.Scoring.JobTimeout = time.Minute

	f := &serviceFixture{
		interviewRepo:  &fakeInterviewRepo{interviews: make(map[uuid.UUID]*entities.Interview)},
		indicatorRepo:  &fakeIndicatorRepo{},
		assessmentRepo: newFakeAssessmentRepo(),
		transcriptRepo: &fakeTranscriptRepo{},
		weightSvc:      NewWeightService(&fakeSettingsRepo{weights: entities.DefaultScoringWeights()}, nil),
	}
	f.service = NewService(
		nil, // job repo unused by the paths under test
		f.assessmentRepo,
		f.transcriptRepo,
		f.indicatorRepo,
		f.interviewRepo,
		f.weightSvc,
		NewExtractor(embedder, cfg.Scoring, nil),
		nil, // transcriber
		nil, // artifact store
		cfg,
		nil,
	)
	return f
}

func TestMapSegments_RoleAttribution(t *testing.T) {
	interviewID := uuid.New()
	entries := mapSegments(interviewID, []transcriber.Segment{
		{Speaker: "A", Text: "Tell me about a project.", StartSeconds: 0, EndSeconds: 4},
		{Speaker: "B", Text: "I led the migration of our payment service.", StartSeconds: 5, EndSeconds: 20},
		{Speaker: "A", Text: "What was the hardest part?", StartSeconds: 21, EndSeconds: 25},
	})

	if len(entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(entries))
	}
	// B talks 15s vs A's 8s, so B is the candidate
	for _, e := range entries {
		want := entities.SpeakerRoleInterviewer
		if e.Speaker == "B" {
			want = entities.SpeakerRoleCandidate
		}
		if e.Role != want {
			t.Fatalf("speaker %s role = %v, want %v", e.Speaker, e.Role, want)
		}
		if e.InterviewID != interviewID {
			t.Fatal("entry bound to wrong interview")
		}
	}
}

func TestMapSegments_TieBreaksDeterministically(t *testing.T) {
	entries := mapSegments(uuid.New(), []transcriber.Segment{
		{Speaker: "B", Text: "Equal talk time here.", StartSeconds: 0, EndSeconds: 10},
		{Speaker: "A", Text: "Equal talk time too.", StartSeconds: 10, EndSeconds: 20},
	})

	for _, e := range entries {
		want := entities.SpeakerRoleInterviewer
		if e.Speaker == "A" {
			want = entities.SpeakerRoleCandidate
		}
		if e.Role != want {
			t.Fatalf("speaker %s role = %v, want %v", e.Speaker, e.Role, want)
		}
	}
}

func TestMapSegments_Empty(t *testing.T) {
	if entries := mapSegments(uuid.New(), nil); len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestService_SetManualScore(t *testing.T) {
	f := newServiceFixture(&stubEmbedder{})
	interview := entities.NewInterview("Ada", "Backend Engineer")
	f.interviewRepo.interviews[interview.ID] = interview
	indicator := entities.NewIndicator(interview.ID, "Leadership", "Leads teams", 50)
	f.indicatorRepo.indicators = append(f.indicatorRepo.indicators, indicator)

	if err := f.service.SetManualScore(context.Background(), interview.ID, indicator.ID, 120); err == nil {
		t.Fatal("expected error for score above 100")
	}
	if err := f.service.SetManualScore(context.Background(), interview.ID, indicator.ID, -5); err == nil {
		t.Fatal("expected error for negative score")
	}
	if err := f.service.SetManualScore(context.Background(), uuid.New(), indicator.ID, 80); err == nil {
		t.Fatal("expected error for indicator of a different interview")
	}
	if err := f.service.SetManualScore(context.Background(), interview.ID, uuid.New(), 80); err == nil {
		t.Fatal("expected error for unknown indicator")
	}

	if err := f.service.SetManualScore(context.Background(), interview.ID, indicator.ID, 80); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.assessmentRepo.manualScores[pairKey{interview.ID, indicator.ID}]; got != 80 {
		t.Fatalf("manual score = %v, want 80", got)
	}
}

func TestService_GetReport(t *testing.T) {
	f := newServiceFixture(&stubEmbedder{})
	interview := entities.NewInterview("Ada", "Backend Engineer")
	f.interviewRepo.interviews[interview.ID] = interview

	assessed := entities.NewIndicator(interview.ID, "Leadership", "Leads teams", 30)
	unassessed := entities.NewIndicator(interview.ID, "Communication", "Communicates clearly", 70)
	f.indicatorRepo.indicators = append(f.indicatorRepo.indicators, assessed, unassessed)

	row := entities.NewAssessment(interview.ID, assessed.ID)
	row.SetAIResult(70, "evidence", "reasoning", []string{"evidence"})
	manual := 80.0
	row.ManualScore = &manual
	f.assessmentRepo.rows[pairKey{interview.ID, assessed.ID}] = row

	report, err := f.service.GetReport(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Indicators) != 2 {
		t.Fatalf("indicators = %d, want 2", len(report.Indicators))
	}
	if report.Weights != entities.DefaultScoringWeights() {
		t.Fatalf("weights = %+v, want defaults", report.Weights)
	}

	var assessedItem, unassessedItem *IndicatorReport
	for i := range report.Indicators {
		switch report.Indicators[i].Indicator.ID {
		case assessed.ID:
			assessedItem = &report.Indicators[i]
		case unassessed.ID:
			unassessedItem = &report.Indicators[i]
		}
	}

	// 70*0.6 + 80*0.4 = 74.0
	if assessedItem.Combined == nil || *assessedItem.Combined != 74.0 {
		t.Fatalf("combined = %v, want 74.0", assessedItem.Combined)
	}
	if unassessedItem.Combined != nil || unassessedItem.Assessment != nil {
		t.Fatal("unassessed indicator must carry no scores")
	}

	// Only the assessed indicator contributes to the overall
	if report.OverallScore == nil || *report.OverallScore != 74.0 {
		t.Fatalf("overall = %v, want 74.0", report.OverallScore)
	}
}

func TestService_GetReport_NoAssessments(t *testing.T) {
	f := newServiceFixture(&stubEmbedder{})
	interview := entities.NewInterview("Ada", "Backend Engineer")
	f.interviewRepo.interviews[interview.ID] = interview
	f.indicatorRepo.indicators = append(f.indicatorRepo.indicators,
		entities.NewIndicator(interview.ID, "Leadership", "Leads teams", 50))

	report, err := f.service.GetReport(context.Background(), interview.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.OverallScore != nil {
		t.Fatalf("expected no overall score, got %v", *report.OverallScore)
	}
}

func TestService_Reassess(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float64{
		"Demonstrates leadership of engineering teams": {1, 0},
		"I led a team of five engineers.":              {1, 0},
	}}
	f := newServiceFixture(embedder)

	interview := entities.NewInterview("Ada", "Backend Engineer")
	f.interviewRepo.interviews[interview.ID] = interview
	indicator := entities.NewIndicator(interview.ID, "Leadership", "Demonstrates leadership of engineering teams", 50)
	f.indicatorRepo.indicators = append(f.indicatorRepo.indicators, indicator)
	f.transcriptRepo.entries = []*entities.TranscriptEntry{
		entities.NewTranscriptEntry(interview.ID, "B", entities.SpeakerRoleCandidate,
			"I led a team of five engineers.", 5, 20),
		entities.NewTranscriptEntry(interview.ID, "A", entities.SpeakerRoleInterviewer,
			"Tell me about your experience.", 0, 4),
	}

	if err := f.service.SetManualScore(context.Background(), interview.ID, indicator.ID, 85); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.service.Reassess(context.Background(), interview.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row := f.assessmentRepo.rows[pairKey{interview.ID, indicator.ID}]
	if row == nil || !row.IsAssessed() {
		t.Fatalf("expected assessed row, got %+v", row)
	}
	if row.Evidence == nil || *row.Evidence != "I led a team of five engineers." {
		t.Fatalf("unexpected evidence %v", row.Evidence)
	}
	if *row.AIScore <= 0 || *row.AIScore > 100 {
		t.Fatalf("AI score %v outside (0,100]", *row.AIScore)
	}
	if row.ManualScore == nil || *row.ManualScore != 85 {
		t.Fatalf("re-assessment must preserve the manual score, got %v", row.ManualScore)
	}

	firstScore := *row.AIScore
	if err := f.service.Reassess(context.Background(), interview.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row = f.assessmentRepo.rows[pairKey{interview.ID, indicator.ID}]
	if *row.AIScore != firstScore {
		t.Fatalf("re-run on an unchanged transcript changed the score: %v vs %v", *row.AIScore, firstScore)
	}
}

func TestService_Reassess_Guards(t *testing.T) {
	f := newServiceFixture(&stubEmbedder{})

	if err := f.service.Reassess(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown interview")
	}

	interview := entities.NewInterview("Ada", "Backend Engineer")
	f.interviewRepo.interviews[interview.ID] = interview
	if err := f.service.Reassess(context.Background(), interview.ID); err == nil {
		t.Fatal("expected error when no transcript exists")
	}
}
