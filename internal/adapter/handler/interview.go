package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	appErrors "github.com/interview-assistant-team/interview-assistant/errors"
	interviewDTO "github.com/interview-assistant-team/interview-assistant/internal/adapter/dto/interview"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/repositories"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/cache"
	"github.com/interview-assistant-team/interview-assistant/internal/infrastructure/storage"
)

// Interview handles interview metadata and read-side HTTP requests
type Interview struct {
	interviewRepo  repositories.InterviewRepository
	emotionRepo    repositories.EmotionRepository
	transcriptRepo repositories.TranscriptRepository
	snapshots      *cache.SnapshotStore
	store          *storage.MinIOClient
	logger         *zap.Logger
}

// NewInterviewHandler creates a new interview handler
func NewInterviewHandler(
	interviewRepo repositories.InterviewRepository,
	emotionRepo repositories.EmotionRepository,
	transcriptRepo repositories.TranscriptRepository,
	snapshots *cache.SnapshotStore,
	store *storage.MinIOClient,
	logger *zap.Logger,
) *Interview {
	return &Interview{
		interviewRepo:  interviewRepo,
		emotionRepo:    emotionRepo,
		transcriptRepo: transcriptRepo,
		snapshots:      snapshots,
		store:          store,
		logger:         logger,
	}
}

// CreateInterview handles POST /interviews
func (h *Interview) CreateInterview(c echo.Context) error {
	var req interviewDTO.CreateInterviewRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument(err.Error()))
	}

	interview := entities.NewInterview(req.CandidateName, req.Position)
	if err := h.interviewRepo.Create(c.Request().Context(), interview); err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("✅ Interview created",
			zap.String("interview_id", interview.ID.String()),
			zap.String("candidate", interview.CandidateName),
		)
	}

	return HandleSuccess(h.logger, c, interviewDTO.FromEntity(interview, ""))
}

// ListInterviews handles GET /interviews
func (h *Interview) ListInterviews(c echo.Context) error {
	page := getQueryInt(c, "page", 1)
	pageSize := getQueryInt(c, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	interviews, err := h.interviewRepo.List(c.Request().Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := &interviewDTO.ListInterviewsResponse{
		Interviews: make([]*interviewDTO.InterviewResponse, 0, len(interviews)),
		Page:       page,
		PageSize:   pageSize,
	}
	for _, interview := range interviews {
		resp.Interviews = append(resp.Interviews, interviewDTO.FromEntity(interview, ""))
	}

	return HandleSuccess(h.logger, c, resp)
}

// GetInterview handles GET /interviews/:id
func (h *Interview) GetInterview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	interview, err := h.interviewRepo.FindByID(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if interview == nil {
		return HandleError(h.logger, c, appErrors.ErrSessionNotFound(id.String()))
	}

	audioURL := ""
	if interview.AudioArtifactKey != nil && *interview.AudioArtifactKey != "" {
		url, err := h.store.GetFileURL(c.Request().Context(), *interview.AudioArtifactKey, time.Hour)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("⚠️ Failed to presign audio artifact",
					zap.String("interview_id", id.String()),
					zap.Error(err),
				)
			}
		} else {
			audioURL = url
		}
	}

	return HandleSuccess(h.logger, c, interviewDTO.FromEntity(interview, audioURL))
}

// GetSnapshot handles GET /interviews/:id/snapshot — the latest live emotion
// view, served from the cache so it never touches the session's hot path
func (h *Interview) GetSnapshot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	snapshot, err := h.snapshots.GetSnapshot(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if snapshot == nil {
		return HandleError(h.logger, c, appErrors.ErrNotFound("snapshot"))
	}

	return HandleSuccess(h.logger, c, snapshot)
}

// GetEmotionLog handles GET /interviews/:id/emotions
func (h *Interview) GetEmotionLog(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	modality := c.QueryParam("modality")
	var samples []*entities.EmotionSample
	if modality != "" {
		m := entities.Modality(modality)
		if !m.IsValid() {
			return HandleError(h.logger, c, appErrors.ErrInvalidArgument("modality must be facial or voice"))
		}
		samples, err = h.emotionRepo.ListByInterviewAndModality(c.Request().Context(), id, m)
	} else {
		samples, err = h.emotionRepo.ListByInterview(c.Request().Context(), id)
	}
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, samples)
}

// GetTranscript handles GET /interviews/:id/transcript
func (h *Interview) GetTranscript(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, appErrors.ErrInvalidArgument("invalid interview ID"))
	}

	entries, err := h.transcriptRepo.ListByInterview(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, entries)
}
