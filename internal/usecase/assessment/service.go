package assessment

import (
	"context"
	"fmt"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/interview-assistant-team/interview-assistant/errors"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/transcriber"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/storage"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
	"github.com/interview-assistant-team/interview-assistant/pkg/jobcontext"
)

// IndicatorReport is one indicator's line in the assessment report. The
// combined score is computed at read time from the active weights, never
// stored.
type IndicatorReport struct {
	Indicator  *entities.Indicator  `json:"indicator"`
	Assessment *entities.Assessment `json:"assessment,omitempty"`
	Combined   *float64             `json:"combined_score,omitempty"`
}

// Report is the full assessment view for one interview.
type Report struct {
	InterviewID  uuid.UUID               `json:"interview_id"`
	Indicators   []IndicatorReport       `json:"indicators"`
	OverallScore *float64                `json:"overall_score,omitempty"`
	Weights      entities.ScoringWeights `json:"weights"`
}

// Service orchestrates the batch assessment pipeline: transcription of the
// finalized audio artifact, per-indicator evidence extraction, and the
// read-time score report.
type Service interface {
	StartWorkerPool(ctx context.Context, workerCount int) error
	StopWorkerPool() error

	// Reassess re-runs extraction for every indicator over the stored
	// transcript. Deterministic for an unchanged transcript; manual
	// scores are preserved.
	Reassess(ctx context.Context, interviewID uuid.UUID) error

	// SetManualScore records the interviewer's score for one indicator.
	SetManualScore(ctx context.Context, interviewID, indicatorID uuid.UUID, score float64) error

	// GetReport returns all indicators with combined and overall scores
	// computed from the active weights.
	GetReport(ctx context.Context, interviewID uuid.UUID) (*Report, error)
}

type assessmentService struct {
	jobRepo        repositories.AssessmentJobRepository
	assessmentRepo repositories.AssessmentRepository
	transcriptRepo repositories.TranscriptRepository
	indicatorRepo  repositories.IndicatorRepository
	interviewRepo  repositories.InterviewRepository
	weightSvc      *WeightService
	extractor      *Extractor
	transcriber    transcriber.Client
	store          *storage.MinIOClient
	cfg            *config.Config
	logger         *zap.Logger

	workerStopChan      chan struct{}
	workerWg            sync.WaitGroup
	isWorkerPoolRunning bool
	workerMutex         sync.Mutex
}

// NewService constructs the batch assessment service
func NewService(
	jobRepo repositories.AssessmentJobRepository,
	assessmentRepo repositories.AssessmentRepository,
	transcriptRepo repositories.TranscriptRepository,
	indicatorRepo repositories.IndicatorRepository,
	interviewRepo repositories.InterviewRepository,
	weightSvc *WeightService,
	extractor *Extractor,
	trans transcriber.Client,
	store *storage.MinIOClient,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	return &assessmentService{
		jobRepo:        jobRepo,
		assessmentRepo: assessmentRepo,
		transcriptRepo: transcriptRepo,
		indicatorRepo:  indicatorRepo,
		interviewRepo:  interviewRepo,
		weightSvc:      weightSvc,
		extractor:      extractor,
		transcriber:    trans,
		store:          store,
		cfg:            cfg,
		logger:         logger,
		workerStopChan: make(chan struct{}),
	}
}

// StartWorkerPool starts background workers that drain the assessment
// job queue, plus a cleanup routine for zombie jobs
func (s *assessmentService) StartWorkerPool(ctx context.Context, workerCount int) error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool already running")
	}

	s.isWorkerPoolRunning = true
	s.workerStopChan = make(chan struct{})

	if s.logger != nil {
		s.logger.Info("🚀 Starting assessment worker pool",
			zap.Int("worker_count", workerCount),
		)
	}

	for i := 0; i < workerCount; i++ {
		s.workerWg.Add(1)
		go s.jobWorker(ctx, i)
	}

	s.workerWg.Add(1)
	go s.cleanupZombieJobs(ctx)

	return nil
}

// StopWorkerPool gracefully stops all worker goroutines
func (s *assessmentService) StopWorkerPool() error {
	s.workerMutex.Lock()
	defer s.workerMutex.Unlock()

	if !s.isWorkerPoolRunning {
		return fmt.Errorf("worker pool not running")
	}

	if s.logger != nil {
		s.logger.Info("🛑 Stopping assessment worker pool...")
	}

	close(s.workerStopChan)
	s.workerWg.Wait()
	s.isWorkerPoolRunning = false

	if s.logger != nil {
		s.logger.Info("✅ Assessment worker pool stopped")
	}

	return nil
}

// jobWorker polls for pending jobs and runs them end to end
func (s *assessmentService) jobWorker(parentCtx context.Context, workerID int) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	if s.logger != nil {
		s.logger.Info("👷 Assessment worker started",
			zap.Int("worker_id", workerID),
		)
	}

	for {
		select {
		case <-s.workerStopChan:
			if s.logger != nil {
				s.logger.Info("👷 Assessment worker stopping",
					zap.Int("worker_id", workerID),
				)
			}
			return

		case <-ticker.C:
			job, err := s.jobRepo.ClaimNextPending(parentCtx)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to claim job",
						zap.Int("worker_id", workerID),
						zap.Error(err),
					)
				}
				continue
			}
			if job == nil {
				continue
			}

			if s.logger != nil {
				s.logger.Info("👷 Worker claimed job",
					zap.Int("worker_id", workerID),
					zap.String("job_id", job.ID.String()),
					zap.String("interview_id", job.InterviewID.String()),
					zap.Int("retry_count", job.RetryCount),
				)
			}

			jobCtx, cancel := jobcontext.JobBegin(parentCtx, job.ID, "assessment", workerID, s.cfg.Scoring.JobTimeout)
			err = jobcontext.JobEnd(jobCtx, func(ctx context.Context) error {
				return s.processJob(ctx, job)
			})
			cancel()

			if err != nil {
				s.handleJobFailure(parentCtx, job, err)
				continue
			}

			job.MarkAsCompleted()
			if err := s.jobRepo.Update(parentCtx, job); err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to persist completed job",
						zap.String("job_id", job.ID.String()),
						zap.Error(err),
					)
				}
				continue
			}

			if _, err := s.interviewRepo.UpdateStatus(parentCtx, job.InterviewID,
				entities.InterviewStatusProcessing, entities.InterviewStatusCompleted); err != nil {
				if s.logger != nil {
					s.logger.Warn("⚠️ Failed to mark interview completed",
						zap.String("interview_id", job.InterviewID.String()),
						zap.Error(err),
					)
				}
			}

			if s.logger != nil {
				s.logger.Info("✅ Job completed successfully",
					zap.String("job_id", job.ID.String()),
				)
			}
		}
	}
}

// handleJobFailure retries transient failures and marks the job and its
// interview as failed once retries are exhausted. A scoring pipeline must
// surface a terminal status rather than silently score partial evidence.
func (s *assessmentService) handleJobFailure(ctx context.Context, job *entities.AssessmentJob, jobErr error) {
	if job.RetryCount < job.MaxRetries {
		job.IncrementRetry(jobErr.Error())
		if err := s.jobRepo.Update(ctx, job); err != nil && s.logger != nil {
			s.logger.Error("❌ Failed to persist retry", zap.String("job_id", job.ID.String()), zap.Error(err))
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Job failed, will retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Error(jobErr),
			)
		}
		return
	}

	job.MarkAsFailed(jobErr.Error())
	if err := s.jobRepo.Update(ctx, job); err != nil && s.logger != nil {
		s.logger.Error("❌ Failed to persist failed job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	interview, err := s.interviewRepo.FindByID(ctx, job.InterviewID)
	if err == nil && interview != nil {
		interview.MarkFailed(jobErr.Error())
		if err := s.interviewRepo.Update(ctx, interview); err != nil && s.logger != nil {
			s.logger.Error("❌ Failed to mark interview failed", zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Error("💀 Job failed permanently",
			zap.String("job_id", job.ID.String()),
			zap.String("interview_id", job.InterviewID.String()),
			zap.Error(jobErr),
		)
	}
}

// processJob runs one assessment end to end: transcribe the audio artifact,
// persist the diarized transcript, then extract evidence per indicator.
func (s *assessmentService) processJob(ctx context.Context, job *entities.AssessmentJob) error {
	startTime := time.Now()

	audioURL, err := s.store.GetFileURL(ctx, job.AudioArtifactKey, 15*time.Minute)
	if err != nil {
		return fmt.Errorf("failed to presign audio artifact: %w", err)
	}

	var result *transcriber.Result
	transcribeFn := func() error {
		r, err := s.transcriber.Transcribe(ctx, audioURL)
		if err != nil {
			return err
		}
		result = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 5 * time.Minute

	if err := backoff.Retry(transcribeFn, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	job.MarkAsTranscribing(result.TranscriptID)
	job.Metadata.DurationSeconds = result.DurationSeconds
	job.Metadata.Language = result.Language
	job.Metadata.SegmentCount = len(result.Segments)
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to record transcript ID: %w", err)
	}

	entries := mapSegments(job.InterviewID, result.Segments)
	if err := s.transcriptRepo.ReplaceForInterview(ctx, job.InterviewID, entries); err != nil {
		return fmt.Errorf("failed to store transcript: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcript stored",
			zap.String("interview_id", job.InterviewID.String()),
			zap.Int("segment_count", len(entries)),
		)
	}

	job.MarkAsExtracting()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	assessed, err := s.extractAll(ctx, job.InterviewID)
	if err != nil {
		return err
	}

	job.Metadata.IndicatorCount = assessed
	job.Metadata.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	return nil
}

// extractAll runs evidence extraction for every indicator of the interview.
// A single indicator's failure leaves that indicator unassessed and the run
// continues; only a run where every indicator failed is an error.
func (s *assessmentService) extractAll(ctx context.Context, interviewID uuid.UUID) (int, error) {
	indicators, err := s.indicatorRepo.ListByInterview(ctx, interviewID)
	if err != nil {
		return 0, fmt.Errorf("failed to list indicators: %w", err)
	}
	if len(indicators) == 0 {
		if s.logger != nil {
			s.logger.Warn("⚠️ No indicators configured, nothing to extract",
				zap.String("interview_id", interviewID.String()),
			)
		}
		return 0, nil
	}

	entries, err := s.transcriptRepo.ListCandidateEntries(ctx, interviewID)
	if err != nil {
		return 0, fmt.Errorf("failed to load candidate transcript: %w", err)
	}

	assessed := 0
	failed := 0
	for _, indicator := range indicators {
		assessment, claimed, err := s.assessmentRepo.ClaimForExtraction(ctx, interviewID, indicator.ID)
		if err != nil {
			return assessed, fmt.Errorf("failed to claim assessment for indicator %s: %w", indicator.ID, err)
		}
		if !claimed {
			if s.logger != nil {
				s.logger.Info("⏭️ Extraction already running for indicator",
					zap.String("indicator_id", indicator.ID.String()),
				)
			}
			continue
		}

		result, err := s.extractor.Extract(ctx, indicator, entries)
		if err != nil {
			failed++
			if s.logger != nil {
				s.logger.Error("❌ Extraction failed for indicator",
					zap.String("indicator_id", indicator.ID.String()),
					zap.String("indicator_name", indicator.Name),
					zap.Error(err),
				)
			}
			if err := s.assessmentRepo.SaveFailure(ctx, interviewID, indicator.ID, err.Error()); err != nil && s.logger != nil {
				s.logger.Error("❌ Failed to record extraction failure", zap.Error(err))
			}
			continue
		}

		assessment.SetAIResult(result.AIScore, result.Evidence, result.Reasoning, result.Spans)
		if err := s.assessmentRepo.SaveAIResult(ctx, assessment); err != nil {
			return assessed, fmt.Errorf("failed to save assessment: %w", err)
		}
		assessed++

		if s.logger != nil {
			s.logger.Info("✅ Indicator assessed",
				zap.String("indicator_name", indicator.Name),
				zap.Float64("ai_score", result.AIScore),
			)
		}
	}

	if assessed == 0 && failed > 0 {
		return 0, fmt.Errorf("extraction failed for all %d indicators", failed)
	}
	return assessed, nil
}

// Reassess re-runs extraction over the stored transcript for every indicator
func (s *assessmentService) Reassess(ctx context.Context, interviewID uuid.UUID) error {
	interview, err := s.interviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return err
	}
	if interview == nil {
		return appErrors.ErrSessionNotFound(interviewID.String())
	}

	entries, err := s.transcriptRepo.ListByInterview(ctx, interviewID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return appErrors.ErrExtractionFailed(fmt.Errorf("no transcript available for reassessment"))
	}

	if s.logger != nil {
		s.logger.Info("🔄 Reassessing interview",
			zap.String("interview_id", interviewID.String()),
		)
	}

	_, err = s.extractAll(ctx, interviewID)
	return err
}

// SetManualScore records the interviewer's score for one indicator
func (s *assessmentService) SetManualScore(ctx context.Context, interviewID, indicatorID uuid.UUID, score float64) error {
	if score < 0 || score > 100 {
		return appErrors.ErrInvalidArgument("manual score must be between 0 and 100")
	}
	indicator, err := s.indicatorRepo.FindByID(ctx, indicatorID)
	if err != nil {
		return err
	}
	if indicator == nil || indicator.InterviewID != interviewID {
		return entities.ErrIndicatorNotFound
	}
	return s.assessmentRepo.SetManualScore(ctx, interviewID, indicatorID, score)
}

// GetReport assembles the read-time view: per-indicator combined scores
// under the active weights, plus the overall weighted mean. Unassessed
// indicators appear with no scores and are excluded from the overall.
func (s *assessmentService) GetReport(ctx context.Context, interviewID uuid.UUID) (*Report, error) {
	indicators, err := s.indicatorRepo.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	assessments, err := s.assessmentRepo.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	byIndicator := make(map[uuid.UUID]*entities.Assessment, len(assessments))
	for _, a := range assessments {
		byIndicator[a.IndicatorID] = a
	}

	weights := s.weightSvc.Get()
	report := &Report{
		InterviewID: interviewID,
		Indicators:  make([]IndicatorReport, 0, len(indicators)),
		Weights:     weights,
	}

	scores := make([]IndicatorScore, 0, len(indicators))
	for _, indicator := range indicators {
		item := IndicatorReport{Indicator: indicator}
		if a, ok := byIndicator[indicator.ID]; ok {
			item.Assessment = a
			if a.IsAssessed() && a.AIScore != nil {
				combined, err := Combine(*a.AIScore, a.ManualScore, weights)
				if err != nil {
					return nil, err
				}
				item.Combined = &combined
				scores = append(scores, IndicatorScore{
					Weight:   indicator.Weight,
					Score:    combined,
					Assessed: true,
				})
			}
		}
		report.Indicators = append(report.Indicators, item)
	}

	if overall, ok := Overall(scores); ok {
		report.OverallScore = &overall
	}
	return report, nil
}

// cleanupZombieJobs resets jobs stuck in an in-flight state, usually after
// a crashed worker, so they are claimed again
func (s *assessmentService) cleanupZombieJobs(parentCtx context.Context) {
	defer s.workerWg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.workerStopChan:
			return

		case <-ticker.C:
			cutoff := time.Now().Add(-s.cfg.Scoring.JobTimeout)
			reset, err := s.jobRepo.ResetStale(parentCtx, cutoff)
			if err != nil {
				if s.logger != nil {
					s.logger.Error("❌ Failed to reset stale jobs", zap.Error(err))
				}
				continue
			}
			if reset > 0 && s.logger != nil {
				s.logger.Warn("🧹 Reset zombie jobs to pending",
					zap.Int64("count", reset),
				)
			}
		}
	}
}

// mapSegments converts diarized transcription segments into transcript
// entries, attributing roles by speaking time: the speaker who talks the
// most is assumed to be the candidate.
func mapSegments(interviewID uuid.UUID, segments []transcriber.Segment) []*entities.TranscriptEntry {
	talkTime := make(map[string]float64)
	for _, seg := range segments {
		talkTime[seg.Speaker] += seg.EndSeconds - seg.StartSeconds
	}

	candidate := ""
	best := -1.0
	for speaker, total := range talkTime {
		if total > best || (total == best && speaker < candidate) {
			candidate = speaker
			best = total
		}
	}

	entries := make([]*entities.TranscriptEntry, 0, len(segments))
	for _, seg := range segments {
		role := entities.SpeakerRoleInterviewer
		if seg.Speaker == candidate {
			role = entities.SpeakerRoleCandidate
		}
		entries = append(entries, entities.NewTranscriptEntry(
			interviewID, seg.Speaker, role, seg.Text, seg.StartSeconds, seg.EndSeconds,
		))
	}
	return entries
}
