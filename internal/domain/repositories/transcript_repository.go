package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// ReplaceForInterview deletes any prior transcript for the interview and
	// inserts the new entries in one transaction, so a re-transcription never
	// leaves a mixed transcript behind
	ReplaceForInterview(ctx context.Context, interviewID uuid.UUID, entries []*entities.TranscriptEntry) error

	// ListByInterview returns all entries ordered by start time
	ListByInterview(ctx context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error)

	// ListCandidateEntries returns only the candidate's entries ordered by start time
	ListCandidateEntries(ctx context.Context, interviewID uuid.UUID) ([]*entities.TranscriptEntry, error)
}
