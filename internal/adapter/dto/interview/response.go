package interview

import (
	"time"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
)

// InterviewResponse is the API shape of one interview
type InterviewResponse struct {
	ID            string     `json:"id"`
	CandidateName string     `json:"candidate_name"`
	Position      string     `json:"position"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	AudioURL      string     `json:"audio_url,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// FromEntity converts an interview entity to its API shape. audioURL is the
// presigned artifact URL, empty when no recording exists yet.
func FromEntity(e *entities.Interview, audioURL string) *InterviewResponse {
	resp := &InterviewResponse{
		ID:            e.ID.String(),
		CandidateName: e.CandidateName,
		Position:      e.Position,
		Status:        string(e.Status),
		StartedAt:     e.StartedAt,
		EndedAt:       e.EndedAt,
		AudioURL:      audioURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.LastError != nil {
		resp.LastError = *e.LastError
	}
	return resp
}

// ListInterviewsResponse is a page of interviews
type ListInterviewsResponse struct {
	Interviews []*InterviewResponse `json:"interviews"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
}
