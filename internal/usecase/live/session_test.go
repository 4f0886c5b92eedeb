package live

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/external/detector"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

type scriptedDetector struct {
	mu     sync.Mutex
	calls  int
	err    error
	block  chan struct{} // when set, detections wait until it closes
	result detector.Detection
}

func (d *scriptedDetector) detect(ctx context.Context) (*detector.Detection, error) {
	d.mu.Lock()
	d.calls++
	block := d.block
	err := d.err
	result := d.result
	d.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (d *scriptedDetector) DetectFacial(ctx context.Context, _ []byte) (*detector.Detection, error) {
	return d.detect(ctx)
}

func (d *scriptedDetector) DetectVoice(ctx context.Context, _ []byte) (*detector.Detection, error) {
	return d.detect(ctx)
}

func (d *scriptedDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type memEmotionRepo struct {
	mu      sync.Mutex
	samples []*entities.EmotionSample
	err     error
}

func (r *memEmotionRepo) BatchCreate(_ context.Context, samples []*entities.EmotionSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.samples = append(r.samples, samples...)
	return nil
}

func (r *memEmotionRepo) ListByInterview(context.Context, uuid.UUID) ([]*entities.EmotionSample, error) {
	return nil, nil
}

func (r *memEmotionRepo) ListByInterviewAndModality(context.Context, uuid.UUID, entities.Modality) ([]*entities.EmotionSample, error) {
	return nil, nil
}

type memArtifactStore struct {
	mu   sync.Mutex
	keys []string
	data map[string][]byte
	err  error
}

func (s *memArtifactStore) UploadAudioArtifact(_ context.Context, objectName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.data == nil {
		s.data = make(map[string][]byte)
	}
	s.keys = append(s.keys, objectName)
	s.data[objectName] = data
	return nil
}

func liveCfg() config.LiveConfig {
	return config.LiveConfig{
		StabilityWindow:   5,
		MinPersistConf:    0.5,
		DrainTimeout:      2 * time.Second,
		EmptyWindowStable: true,
		MaxFrameBytes:     1 << 20,
	}
}

func newTestSession(det detector.Client, repo *memEmotionRepo, store *memArtifactStore) *Session {
	return NewSession(uuid.New(), det, repo, store, nil, liveCfg(), nil)
}

func waitSnapshot(t *testing.T, s *Session) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-s.Events():
		if !ok {
			t.Fatal("events channel closed before snapshot arrived")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot event")
	}
	return Snapshot{}
}

func TestSession_IngestFrameEmitsSnapshot(t *testing.T) {
	det := &scriptedDetector{result: detector.Detection{Label: "happy", Confidence: 0.9}}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	if err := s.IngestFrame(entities.ModalityFacial, []byte("frame"), 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := waitSnapshot(t, s)
	if snap.Facial.Label != "happy" || snap.Facial.Confidence != 0.9 {
		t.Fatalf("unexpected facial snapshot: %+v", snap.Facial)
	}
	if snap.Facial.Stability != 1.0 {
		t.Fatalf("single sample stability = %v, want 1.0", snap.Facial.Stability)
	}
}

func TestSession_RejectsBadFrames(t *testing.T) {
	det := &scriptedDetector{result: detector.Detection{Label: "happy", Confidence: 0.9}}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	if err := s.IngestFrame(entities.Modality("thermal"), []byte("frame"), 1.0); err == nil {
		t.Fatal("expected error for unknown modality")
	}

	cfg := liveCfg()
	cfg.MaxFrameBytes = 4
	small := NewSession(uuid.New(), det, &memEmotionRepo{}, &memArtifactStore{}, nil, cfg, nil)
	if err := small.IngestFrame(entities.ModalityFacial, []byte("too big frame"), 1.0); err == nil {
		t.Fatal("expected error for oversized frame")
	}
	if det.callCount() != 0 {
		t.Fatal("rejected frames must not reach the detector")
	}
}

func TestSession_DropsFrameWhileDetectionPending(t *testing.T) {
	block := make(chan struct{})
	det := &scriptedDetector{
		result: detector.Detection{Label: "happy", Confidence: 0.9},
		block:  block,
	}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	if err := s.IngestFrame(entities.ModalityFacial, []byte("first"), 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Second frame for the same modality while the first is still pending
	if err := s.IngestFrame(entities.ModalityFacial, []byte("second"), 2.0); err != nil {
		t.Fatalf("dropped frame must not error: %v", err)
	}

	close(block)
	waitSnapshot(t, s)

	if got := det.callCount(); got != 1 {
		t.Fatalf("detector calls = %d, want 1", got)
	}
}

func TestSession_DetectorFailureKeepsSessionOpen(t *testing.T) {
	det := &scriptedDetector{err: context.DeadlineExceeded}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	if err := s.IngestFrame(entities.ModalityFacial, []byte("frame"), 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Give the detect goroutine time to fail, then confirm the session
	// still answers snapshot requests
	time.Sleep(50 * time.Millisecond)
	if s.State() != StateOpen {
		t.Fatalf("state = %v, want open", s.State())
	}
	if _, err := s.RequestSnapshot(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSession_VoiceChunksAlwaysRecorded(t *testing.T) {
	block := make(chan struct{})
	det := &scriptedDetector{
		result: detector.Detection{Label: "calm", Confidence: 0.8},
		block:  block,
	}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	// Both chunks land in the recorder even though the second one is
	// dropped by the live detector path
	s.IngestFrame(entities.ModalityVoice, []byte("aaaa"), 1.0)
	s.IngestFrame(entities.ModalityVoice, []byte("bbbb"), 2.0)

	if got := s.recorder.Len(); got != 8 {
		t.Fatalf("recorded PCM bytes = %d, want 8", got)
	}
	close(block)
}

func TestSession_Close(t *testing.T) {
	det := &scriptedDetector{result: detector.Detection{Label: "happy", Confidence: 0.9}}
	repo := &memEmotionRepo{}
	store := &memArtifactStore{}
	s := newTestSession(det, repo, store)

	s.IngestFrame(entities.ModalityVoice, []byte("audio-pcm"), 1.0)
	waitSnapshot(t, s)

	result, err := s.Close(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.State() != StateClosed {
		t.Fatalf("state = %v, want closed", s.State())
	}
	if result.SampleCount != 1 {
		t.Fatalf("sample count = %d, want 1", result.SampleCount)
	}
	if len(repo.samples) != 1 {
		t.Fatalf("persisted samples = %d, want 1", len(repo.samples))
	}
	if result.AudioArtifactKey == "" || !strings.HasPrefix(result.AudioArtifactKey, "interviews/"+s.InterviewID().String()+"/") {
		t.Fatalf("unexpected artifact key %q", result.AudioArtifactKey)
	}
	if len(store.keys) != 1 || store.keys[0] != result.AudioArtifactKey {
		t.Fatalf("expected one upload under the result key, got %v", store.keys)
	}
	if string(store.data[result.AudioArtifactKey][0:4]) != "RIFF" {
		t.Fatal("uploaded artifact is not a WAV file")
	}

	// Frames after close are silently discarded
	calls := det.callCount()
	if err := s.IngestFrame(entities.ModalityFacial, []byte("late"), 9.0); err != nil {
		t.Fatalf("late frame must not error: %v", err)
	}
	if det.callCount() != calls {
		t.Fatal("late frame must not reach the detector")
	}

	// Second close returns the identical finalized result
	again, err := s.Close(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again != result {
		t.Fatal("repeated close must return the same result")
	}
	if len(store.keys) != 1 {
		t.Fatal("repeated close must not upload again")
	}
}

func TestSession_CloseWithoutAudio(t *testing.T) {
	det := &scriptedDetector{result: detector.Detection{Label: "happy", Confidence: 0.9}}
	store := &memArtifactStore{}
	s := newTestSession(det, &memEmotionRepo{}, store)

	result, err := s.Close(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.AudioArtifactKey != "" {
		t.Fatalf("expected empty artifact key, got %q", result.AudioArtifactKey)
	}
	if len(store.keys) != 0 {
		t.Fatal("no audio means no upload")
	}
}

func TestSession_CloseClosesEventsChannel(t *testing.T) {
	det := &scriptedDetector{result: detector.Detection{Label: "happy", Confidence: 0.9}}
	s := newTestSession(det, &memEmotionRepo{}, &memArtifactStore{})

	if _, err := s.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case _, ok := <-s.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel not closed")
	}

	if _, err := s.RequestSnapshot(); err == nil {
		t.Fatal("expected error requesting snapshot after close")
	}
}
