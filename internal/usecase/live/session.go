package live

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/interview-assistant-team/interview-assistant/errors"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/detector"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// SessionState is the lifecycle state of one live session
type SessionState int32

const (
	StateIdle SessionState = iota
	StateOpen
	StateClosing
	StateClosed
)

// String returns the state name
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ArtifactStore persists the finalized audio artifact
type ArtifactStore interface {
	UploadAudioArtifact(ctx context.Context, objectName string, data []byte) error
}

// SnapshotCache keeps the latest snapshot per session for out-of-band readers
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, interviewID uuid.UUID, snapshot Snapshot) error
}

// CloseResult is the finalized outcome of a session, returned by every Close call
type CloseResult struct {
	AudioArtifactKey string
	SampleCount      int
}

// Session owns the lifecycle of one live interview capture. Frames fan into
// the detectors without blocking the caller; accepted detections update the
// aggregator and surface on the outbound event channel.
type Session struct {
	interviewID uuid.UUID

	agg      *Aggregator
	recorder *Recorder
	detector detector.Client

	emotionRepo repositories.EmotionRepository
	store       ArtifactStore
	snapshots   SnapshotCache

	cfg    config.LiveConfig
	logger *zap.Logger

	mu    sync.Mutex
	state SessionState

	// One token per modality; a frame that cannot take the token is dropped,
	// never queued
	inFlight map[entities.Modality]chan struct{}

	wg sync.WaitGroup

	// Cancels in-flight detector calls that outlive the close drain
	detectorCtx    context.Context
	detectorCancel context.CancelFunc

	// Coalescing outbound channel: holds only the most recent snapshot
	events chan Snapshot

	closeOnce    sync.Once
	closeResult  *CloseResult
	closeErr     error
	eventsClosed bool

	startedAt time.Time
}

// NewSession creates a session in the Open state
func NewSession(
	interviewID uuid.UUID,
	det detector.Client,
	emotionRepo repositories.EmotionRepository,
	store ArtifactStore,
	snapshots SnapshotCache,
	cfg config.LiveConfig,
	logger *zap.Logger,
) *Session {
	detectorCtx, detectorCancel := context.WithCancel(context.Background())
	return &Session{
		interviewID: interviewID,
		agg:         NewAggregator(interviewID, cfg.StabilityWindow, cfg.EmptyWindowStable),
		recorder:    NewRecorder(16000),
		detector:    det,
		emotionRepo: emotionRepo,
		store:       store,
		snapshots:   snapshots,
		cfg:         cfg,
		logger:      logger,
		state:       StateOpen,
		inFlight: map[entities.Modality]chan struct{}{
			entities.ModalityFacial: make(chan struct{}, 1),
			entities.ModalityVoice:  make(chan struct{}, 1),
		},
		detectorCtx:    detectorCtx,
		detectorCancel: detectorCancel,
		events:         make(chan Snapshot, 1),
		startedAt:      time.Now(),
	}
}

// InterviewID returns the owning interview's ID
func (s *Session) InterviewID() uuid.UUID {
	return s.interviewID
}

// State returns the current lifecycle state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Events returns the outbound snapshot channel. Slow consumers see the most
// recent snapshot, not a backlog.
func (s *Session) Events() <-chan Snapshot {
	return s.events
}

// IngestFrame routes a frame to the matching detector asynchronously. Frames
// arriving while the prior detection for the same modality is still pending
// are dropped. Frames after close begins are silently discarded.
func (s *Session) IngestFrame(modality entities.Modality, payload []byte, timestampSeconds float64) error {
	if !modality.IsValid() {
		return apperrors.ErrFrameRejected("unknown modality " + string(modality))
	}
	if s.cfg.MaxFrameBytes > 0 && int64(len(payload)) > s.cfg.MaxFrameBytes {
		return apperrors.ErrFrameRejected(fmt.Sprintf("frame of %d bytes exceeds limit", len(payload)))
	}

	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	switch state {
	case StateOpen:
	case StateClosing, StateClosed:
		// Stream loss is acceptable after close begins; the batch score
		// derives from the durable audio artifact, not live frames
		return nil
	default:
		return apperrors.ErrSessionInvalidState(s.interviewID.String(), state.String(), StateOpen.String())
	}

	// The durable audio path must not be lossy, so voice chunks are recorded
	// before the live detector gets a chance to drop them
	if modality == entities.ModalityVoice {
		s.recorder.Append(payload)
	}

	select {
	case s.inFlight[modality] <- struct{}{}:
	default:
		// Prior detection for this modality still pending; latest-wins
		return nil
	}

	s.wg.Add(1)
	go s.detect(modality, payload, timestampSeconds)
	return nil
}

// detect runs one detector call and feeds the aggregator on success
func (s *Session) detect(modality entities.Modality, payload []byte, timestampSeconds float64) {
	defer s.wg.Done()
	defer func() { <-s.inFlight[modality] }()

	var (
		result *detector.Detection
		err    error
	)
	if modality == entities.ModalityFacial {
		result, err = s.detector.DetectFacial(s.detectorCtx, payload)
	} else {
		result, err = s.detector.DetectVoice(s.detectorCtx, payload)
	}
	if err != nil {
		// Best-effort by design: a detector failure drops the frame and the
		// session continues
		if s.logger != nil {
			s.logger.Warn("⚠️ Detector call failed, dropping frame",
				zap.String("interview_id", s.interviewID.String()),
				zap.String("modality", string(modality)),
				zap.Error(err),
			)
		}
		return
	}

	s.mu.Lock()
	discard := s.state == StateClosed
	s.mu.Unlock()
	if discard {
		// Close already finalized the log; a late result never lands partially
		return
	}

	if err := s.agg.Record(modality, result.Label, result.Confidence, timestampSeconds); err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Rejected detector result",
				zap.String("interview_id", s.interviewID.String()),
				zap.String("modality", string(modality)),
				zap.Error(err),
			)
		}
		return
	}

	snapshot := s.agg.Snapshot()
	s.emit(snapshot)

	if s.snapshots != nil {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if cacheErr := s.snapshots.SetSnapshot(cacheCtx, s.interviewID, snapshot); cacheErr != nil && s.logger != nil {
			s.logger.Debug("snapshot cache write failed",
				zap.String("interview_id", s.interviewID.String()),
				zap.Error(cacheErr),
			)
		}
		cancel()
	}
}

// emit publishes a snapshot, replacing a stale undelivered one under load.
// The mutex keeps a straggler detection from racing the channel close.
func (s *Session) emit(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eventsClosed {
		return
	}
	select {
	case s.events <- snapshot:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- snapshot:
		default:
		}
	}
}

// RequestSnapshot returns the current live view; valid while Open or Closing
func (s *Session) RequestSnapshot() (Snapshot, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()

	if state != StateOpen && state != StateClosing {
		return Snapshot{}, apperrors.ErrSessionInvalidState(s.interviewID.String(), state.String(), StateOpen.String())
	}
	return s.agg.Snapshot(), nil
}

// Close drains in-flight detector calls with a bounded timeout, persists the
// sample log, uploads the finalized audio artifact, and moves to Closed.
// A second call returns the same finalized result without re-draining.
func (s *Session) Close(ctx context.Context) (*CloseResult, error) {
	s.closeOnce.Do(func() {
		s.closeResult, s.closeErr = s.doClose(ctx)
	})
	return s.closeResult, s.closeErr
}

func (s *Session) doClose(ctx context.Context) (*CloseResult, error) {
	s.mu.Lock()
	if s.state == StateOpen {
		s.state = StateClosing
	}
	s.mu.Unlock()

	// Bounded drain: in-flight detector calls get the drain window to finish,
	// then are cancelled and their samples discarded
	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()

	drainTimeout := s.cfg.DrainTimeout
	if drainTimeout <= 0 {
		drainTimeout = 5 * time.Second
	}
	select {
	case <-drained:
	case <-time.After(drainTimeout):
		if s.logger != nil {
			s.logger.Warn("⏰ Drain timeout reached, cancelling in-flight detections",
				zap.String("interview_id", s.interviewID.String()),
			)
		}
	}
	s.detectorCancel()

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()

	// Persist only detections the detector was reasonably sure about
	samples := s.agg.Samples(s.cfg.MinPersistConf)
	if err := s.emotionRepo.BatchCreate(ctx, samples); err != nil {
		// A persistence failure must not keep the session from closing; the
		// batch path does not depend on the live sample log
		if s.logger != nil {
			s.logger.Error("❌ Failed to persist emotion samples",
				zap.String("interview_id", s.interviewID.String()),
				zap.Int("sample_count", len(samples)),
				zap.Error(err),
			)
		}
	} else if s.logger != nil {
		s.logger.Info("✅ Emotion sample log persisted",
			zap.String("interview_id", s.interviewID.String()),
			zap.Int("persisted", len(samples)),
			zap.Int("recorded", s.agg.SampleCount()),
		)
	}

	result := &CloseResult{SampleCount: len(samples)}

	// Finalize and upload the audio artifact for the batch pipeline
	wav := s.recorder.Finalize()
	if s.recorder.Len() > 0 {
		key := fmt.Sprintf("interviews/%s/audio-%d.wav", s.interviewID, s.startedAt.Unix())
		if err := s.store.UploadAudioArtifact(ctx, key, wav); err != nil {
			if s.logger != nil {
				s.logger.Error("❌ Failed to upload audio artifact",
					zap.String("interview_id", s.interviewID.String()),
					zap.String("object_key", key),
					zap.Error(err),
				)
			}
			return nil, apperrors.ErrStorageFailed("upload audio artifact", err)
		}
		result.AudioArtifactKey = key
		if s.logger != nil {
			s.logger.Info("✅ Audio artifact uploaded",
				zap.String("interview_id", s.interviewID.String()),
				zap.String("object_key", key),
				zap.Int("bytes", len(wav)),
			)
		}
	} else if s.logger != nil {
		s.logger.Warn("⚠️ Session closed with no audio; batch assessment will be skipped",
			zap.String("interview_id", s.interviewID.String()),
		)
	}

	s.mu.Lock()
	s.eventsClosed = true
	close(s.events)
	s.mu.Unlock()
	return result, nil
}
