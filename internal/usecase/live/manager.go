package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/interview-assistant-team/interview-assistant/errors"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/detector"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// trackedSession pairs a session with its one-shot batch handoff
type trackedSession struct {
	session     *Session
	handoffOnce sync.Once
	handoffErr  error
}

// Manager tracks live sessions, one per interview, and hands finished
// sessions off to the batch pipeline. Closed sessions stay tracked until a
// new open replaces them, so repeated close calls return the same result.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*trackedSession

	interviewRepo repositories.InterviewRepository
	emotionRepo   repositories.EmotionRepository
	jobRepo       repositories.AssessmentJobRepository

	detector  detector.Client
	store     ArtifactStore
	snapshots SnapshotCache

	cfg    config.LiveConfig
	logger *zap.Logger
}

// NewManager creates a session manager
func NewManager(
	interviewRepo repositories.InterviewRepository,
	emotionRepo repositories.EmotionRepository,
	jobRepo repositories.AssessmentJobRepository,
	det detector.Client,
	store ArtifactStore,
	snapshots SnapshotCache,
	cfg config.LiveConfig,
	logger *zap.Logger,
) *Manager {
	return &Manager{
		sessions:      make(map[uuid.UUID]*trackedSession),
		interviewRepo: interviewRepo,
		emotionRepo:   emotionRepo,
		jobRepo:       jobRepo,
		detector:      det,
		store:         store,
		snapshots:     snapshots,
		cfg:           cfg,
		logger:        logger,
	}
}

// OpenSession allocates live state for an interview and marks it recording.
// A second open for the same interview fails while the first is active.
func (m *Manager) OpenSession(ctx context.Context, interviewID uuid.UUID) (*Session, error) {
	interview, err := m.interviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if existing, exists := m.sessions[interviewID]; exists && existing.session.State() != StateClosed {
		m.mu.Unlock()
		return nil, apperrors.ErrSessionAlreadyOpen(interviewID.String())
	}
	session := NewSession(interviewID, m.detector, m.emotionRepo, m.store, m.snapshots, m.cfg, m.logger)
	m.sessions[interviewID] = &trackedSession{session: session}
	m.mu.Unlock()

	interview.MarkRecording()
	if err := m.interviewRepo.Update(ctx, interview); err != nil {
		m.mu.Lock()
		delete(m.sessions, interviewID)
		m.mu.Unlock()
		return nil, err
	}

	if m.logger != nil {
		m.logger.Info("🎬 Live session opened",
			zap.String("interview_id", interviewID.String()),
		)
	}
	return session, nil
}

// GetSession returns the tracked session for an interview
func (m *Manager) GetSession(interviewID uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tracked, ok := m.sessions[interviewID]
	if !ok {
		return nil, apperrors.ErrSessionNotFound(interviewID.String())
	}
	return tracked.session, nil
}

// CloseSession finalizes the session and enqueues the batch assessment job.
// Closing twice returns the same finalized result; the handoff runs once.
func (m *Manager) CloseSession(ctx context.Context, interviewID uuid.UUID) (*CloseResult, error) {
	m.mu.Lock()
	tracked, ok := m.sessions[interviewID]
	m.mu.Unlock()
	if !ok {
		return nil, apperrors.ErrSessionNotFound(interviewID.String())
	}

	result, err := tracked.session.Close(ctx)
	if err != nil {
		return nil, err
	}

	tracked.handoffOnce.Do(func() {
		tracked.handoffErr = m.handoff(ctx, interviewID, result)
	})
	return result, tracked.handoffErr
}

// handoff transitions the interview into batch processing
func (m *Manager) handoff(ctx context.Context, interviewID uuid.UUID, result *CloseResult) error {
	interview, err := m.interviewRepo.FindByID(ctx, interviewID)
	if err != nil {
		return err
	}

	if result.AudioArtifactKey == "" {
		// Nothing to transcribe; the interview completes without assessment
		interview.MarkCompleted()
		return m.interviewRepo.Update(ctx, interview)
	}

	interview.MarkProcessing(result.AudioArtifactKey)
	if err := m.interviewRepo.Update(ctx, interview); err != nil {
		return err
	}

	job := entities.NewAssessmentJob(interviewID, result.AudioArtifactKey)
	if err := m.jobRepo.Create(ctx, job); err != nil {
		return err
	}

	if m.logger != nil {
		m.logger.Info("🏁 Live session closed, assessment job enqueued",
			zap.String("interview_id", interviewID.String()),
			zap.String("job_id", job.ID.String()),
			zap.String("audio_artifact_key", result.AudioArtifactKey),
			zap.Int("sample_count", result.SampleCount),
		)
	}
	return nil
}

// ActiveSessions returns the number of currently open sessions
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown closes every active session; used during graceful shutdown
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		if _, err := m.CloseSession(ctx, id); err != nil && m.logger != nil {
			m.logger.Error("❌ Failed to close session during shutdown",
				zap.String("interview_id", id.String()),
				zap.Error(err),
			)
		}
	}
}
