package jobcontext

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJobBegin_Metadata(t *testing.T) {
	jobID := uuid.New()
	ctx, cancel := JobBegin(context.Background(), jobID, "assessment", 2, time.Minute)
	defer cancel()

	if got, ok := GetJobID(ctx); !ok || got != jobID {
		t.Fatalf("job id = %v (%v), want %v", got, ok, jobID)
	}
	if got, ok := GetJobKind(ctx); !ok || got != "assessment" {
		t.Fatalf("job kind = %q, want assessment", got)
	}
	if got := GetWorkerID(ctx); got != 2 {
		t.Fatalf("worker id = %d, want 2", got)
	}
	if got := GetRetryAttempt(ctx); got != 0 {
		t.Fatalf("retry attempt = %d, want 0", got)
	}
	if _, ok := GetJobStartTime(ctx); !ok {
		t.Fatal("missing start time")
	}
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("deadline = %v (%v), want within a minute", deadline, ok)
	}
}

func TestJobEnd_Success(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "assessment", 0, time.Minute)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestJobEnd_NonRetryableFailsFast(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "assessment", 0, time.Minute)
	defer cancel()

	calls := 0
	err := JobEnd(ctx, func(context.Context) error {
		calls++
		return errors.New("validation failed: bad transcript")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("non-retryable error must not retry, got %d calls", calls)
	}
}

func TestJobEnd_RecoversPanic(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), uuid.New(), "assessment", 0, time.Minute)
	defer cancel()

	err := JobEnd(ctx, func(context.Context) error {
		panic("boom")
	})
	if err == nil {
		t.Fatal("expected error from recovered panic")
	}
}

func TestIsRetryableError(t *testing.T) {
	retryable := []error{
		errors.New("dial tcp: connection refused"),
		errors.New("read: connection reset by peer"),
		errors.New("pq: deadlock detected (SQLSTATE 40P01)"),
		errors.New("AssemblyAI error: too many requests"),
		errors.New("artifact store returned status 503: service unavailable"),
		errors.New("context deadline exceeded"),
	}
	for _, err := range retryable {
		if !IsRetryableError(err) {
			t.Errorf("expected retryable: %v", err)
		}
	}

	permanent := []error{
		nil,
		errors.New("indicator weight must be positive"),
		errors.New("artifact store returned status 404"),
	}
	for _, err := range permanent {
		if IsRetryableError(err) {
			t.Errorf("expected non-retryable: %v", err)
		}
	}
}
