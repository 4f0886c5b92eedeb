package live

import (
	"sync"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// ModalitySnapshot is the live view of one detection channel
type ModalitySnapshot struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Stability  float64 `json:"stability"`
}

// Snapshot is the live emotion view across both modalities
type Snapshot struct {
	Facial ModalitySnapshot `json:"facial"`
	Voice  ModalitySnapshot `json:"voice"`
}

// Aggregator converts raw per-modality detections into a durable sample log
// and a stability-adjusted live snapshot. One aggregator belongs to one
// session; the mutex covers the two detector goroutines feeding it.
type Aggregator struct {
	mu sync.Mutex

	interviewID uuid.UUID

	// Number of most recent samples per modality considered by stability
	windowSize int

	// Stability reported for a window with no samples. Stable-by-absence is
	// the default; flipping the flag reports 0 instead.
	emptyWindowStable bool

	samples map[entities.Modality][]*entities.EmotionSample
	latest  map[entities.Modality]*entities.EmotionSample
}

// NewAggregator creates an aggregator for one session
func NewAggregator(interviewID uuid.UUID, windowSize int, emptyWindowStable bool) *Aggregator {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Aggregator{
		interviewID:       interviewID,
		windowSize:        windowSize,
		emptyWindowStable: emptyWindowStable,
		samples:           make(map[entities.Modality][]*entities.EmotionSample),
		latest:            make(map[entities.Modality]*entities.EmotionSample),
	}
}

// Record appends a sample and updates the modality's latest view
func (a *Aggregator) Record(modality entities.Modality, label string, confidence, timestampSeconds float64) error {
	if !modality.IsValid() {
		return entities.ErrInvalidModality
	}
	if confidence < 0 || confidence > 1 {
		return entities.ErrInvalidConfidence
	}

	sample := entities.NewEmotionSample(a.interviewID, modality, label, confidence, timestampSeconds)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.samples[modality] = append(a.samples[modality], sample)
	a.latest[modality] = sample
	return nil
}

// Stability returns the fraction of samples in the modality's window sharing
// the most frequent label. A single sample yields 1.0; an empty window yields
// the configured default.
func (a *Aggregator) Stability(modality entities.Modality) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stabilityLocked(modality)
}

func (a *Aggregator) stabilityLocked(modality entities.Modality) float64 {
	window := a.windowLocked(modality)
	if len(window) == 0 {
		if a.emptyWindowStable {
			return 1.0
		}
		return 0.0
	}

	counts := make(map[string]int, len(window))
	modalCount := 0
	for _, s := range window {
		counts[s.Label]++
		if counts[s.Label] > modalCount {
			modalCount = counts[s.Label]
		}
	}
	return float64(modalCount) / float64(len(window))
}

func (a *Aggregator) windowLocked(modality entities.Modality) []*entities.EmotionSample {
	all := a.samples[modality]
	if len(all) <= a.windowSize {
		return all
	}
	return all[len(all)-a.windowSize:]
}

// Snapshot returns the current live view. Confidence is the latest sample's
// confidence, not an average; stability reflects consistency over the window.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return Snapshot{
		Facial: a.modalitySnapshotLocked(entities.ModalityFacial),
		Voice:  a.modalitySnapshotLocked(entities.ModalityVoice),
	}
}

func (a *Aggregator) modalitySnapshotLocked(modality entities.Modality) ModalitySnapshot {
	snap := ModalitySnapshot{
		Label:     "neutral",
		Stability: a.stabilityLocked(modality),
	}
	if latest := a.latest[modality]; latest != nil {
		snap.Label = latest.Label
		snap.Confidence = latest.Confidence
	}
	return snap
}

// Samples returns every sample whose confidence exceeds the threshold, for
// persistence at session close
func (a *Aggregator) Samples(minConfidence float64) []*entities.EmotionSample {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []*entities.EmotionSample
	for _, modality := range []entities.Modality{entities.ModalityFacial, entities.ModalityVoice} {
		for _, s := range a.samples[modality] {
			if s.Confidence > minConfidence {
				out = append(out, s)
			}
		}
	}
	return out
}

// SampleCount returns the total number of recorded samples
func (a *Aggregator) SampleCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	n := 0
	for _, list := range a.samples {
		n += len(list)
	}
	return n
}
