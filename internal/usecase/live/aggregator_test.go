package live

import (
	"testing"

	"github.com/google/uuid"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

func TestAggregator_Stability(t *testing.T) {
	agg := NewAggregator(uuid.New(), 5, true)

	for _, label := range []string{"happy", "happy", "happy", "happy", "sad"} {
		if err := agg.Record(entities.ModalityFacial, label, 0.9, 1.0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := agg.Stability(entities.ModalityFacial); got != 0.8 {
		t.Fatalf("stability = %v, want 0.8", got)
	}
}

func TestAggregator_StabilityWindowSlides(t *testing.T) {
	agg := NewAggregator(uuid.New(), 3, true)

	for _, label := range []string{"happy", "happy", "happy", "sad", "sad"} {
		if err := agg.Record(entities.ModalityFacial, label, 0.9, 1.0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Window holds the last 3 samples: happy, sad, sad
	want := 2.0 / 3.0
	if got := agg.Stability(entities.ModalityFacial); got != want {
		t.Fatalf("stability = %v, want %v", got, want)
	}
}

func TestAggregator_StabilityMonotoneOnAgreement(t *testing.T) {
	agg := NewAggregator(uuid.New(), 5, true)
	agg.Record(entities.ModalityFacial, "happy", 0.9, 1.0)
	agg.Record(entities.ModalityFacial, "sad", 0.9, 2.0)

	// Every further sample agreeing with the modal label can only raise
	// the stability, never lower it
	prev := agg.Stability(entities.ModalityFacial)
	for ts := 3.0; ts < 7; ts++ {
		agg.Record(entities.ModalityFacial, "sad", 0.9, ts)
		cur := agg.Stability(entities.ModalityFacial)
		if cur < prev {
			t.Fatalf("stability dropped from %v to %v on an agreeing sample", prev, cur)
		}
		prev = cur
	}
	if prev != 1.0 {
		t.Fatalf("expected full agreement in the window, got %v", prev)
	}
}

func TestAggregator_EmptyWindow(t *testing.T) {
	stable := NewAggregator(uuid.New(), 5, true)
	if got := stable.Stability(entities.ModalityVoice); got != 1.0 {
		t.Fatalf("stable-by-absence: got %v, want 1.0", got)
	}

	unstable := NewAggregator(uuid.New(), 5, false)
	if got := unstable.Stability(entities.ModalityVoice); got != 0.0 {
		t.Fatalf("got %v, want 0.0", got)
	}
}

func TestAggregator_RecordValidation(t *testing.T) {
	agg := NewAggregator(uuid.New(), 5, true)

	if err := agg.Record(entities.Modality("thermal"), "happy", 0.9, 1.0); err == nil {
		t.Fatal("expected error for unknown modality")
	}
	if err := agg.Record(entities.ModalityFacial, "happy", 1.2, 1.0); err == nil {
		t.Fatal("expected error for confidence above 1")
	}
	if err := agg.Record(entities.ModalityFacial, "happy", -0.1, 1.0); err == nil {
		t.Fatal("expected error for negative confidence")
	}
	if agg.SampleCount() != 0 {
		t.Fatal("rejected samples must not be recorded")
	}
}

func TestAggregator_Snapshot(t *testing.T) {
	agg := NewAggregator(uuid.New(), 5, true)

	snap := agg.Snapshot()
	if snap.Facial.Label != "neutral" || snap.Facial.Confidence != 0 {
		t.Fatalf("expected neutral default, got %+v", snap.Facial)
	}
	if snap.Facial.Stability != 1.0 {
		t.Fatalf("expected stable-by-absence default, got %v", snap.Facial.Stability)
	}

	if err := agg.Record(entities.ModalityFacial, "happy", 0.7, 1.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.Record(entities.ModalityFacial, "sad", 0.6, 2.0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap = agg.Snapshot()
	// Latest sample wins for label and confidence
	if snap.Facial.Label != "sad" || snap.Facial.Confidence != 0.6 {
		t.Fatalf("expected latest sample view, got %+v", snap.Facial)
	}
	if snap.Facial.Stability != 0.5 {
		t.Fatalf("stability = %v, want 0.5", snap.Facial.Stability)
	}
	// Voice untouched
	if snap.Voice.Label != "neutral" {
		t.Fatalf("expected untouched voice modality, got %+v", snap.Voice)
	}
}

func TestAggregator_SamplesFilterByConfidence(t *testing.T) {
	agg := NewAggregator(uuid.New(), 5, true)

	agg.Record(entities.ModalityFacial, "happy", 0.9, 1.0)
	agg.Record(entities.ModalityFacial, "sad", 0.3, 2.0)
	agg.Record(entities.ModalityVoice, "neutral", 0.6, 3.0)

	kept := agg.Samples(0.5)
	if len(kept) != 2 {
		t.Fatalf("expected 2 samples above threshold, got %d", len(kept))
	}
	for _, s := range kept {
		if s.Confidence <= 0.5 {
			t.Fatalf("sample with confidence %v should have been filtered", s.Confidence)
		}
	}
	if agg.SampleCount() != 3 {
		t.Fatalf("expected 3 recorded samples, got %d", agg.SampleCount())
	}
}
