package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	liveDTO "github.com/interview-assistant-team/interview-assistant/internal/adapter/dto/live"
	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
)

// LiveHandler owns the bidirectional live channel: inbound frames fan into
// the session, outbound emotion updates flow back. One connection per
// interview; closing the connection finalizes the session.
type LiveHandler struct {
	manager  *live.Manager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewLiveHandler creates a new live channel handler
func NewLiveHandler(manager *live.Manager, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the dashboard origin; origin
			// enforcement happens at the reverse proxy
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleSession handles GET /ws/interviews/:id
func (h *LiveHandler) HandleSession(c echo.Context) error {
	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid interview ID"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ WebSocket upgrade failed",
				zap.String("interview_id", interviewID.String()),
				zap.Error(err),
			)
		}
		return err
	}
	defer conn.Close()

	session, err := h.manager.OpenSession(c.Request().Context(), interviewID)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Failed to open live session",
				zap.String("interview_id", interviewID.String()),
				zap.Error(err),
			)
		}
		conn.WriteJSON(liveDTO.ErrorMessage(err.Error()))
		return nil
	}

	if h.logger != nil {
		h.logger.Info("🎬 Live session opened",
			zap.String("interview_id", interviewID.String()),
		)
	}

	// replies carries direct responses to client requests; the writer
	// goroutine is the only one touching the connection for writes
	replies := make(chan liveDTO.OutboundMessage, 4)
	writerDone := make(chan struct{})
	go h.writeLoop(conn, session.Events(), replies, writerDone)

	h.readLoop(conn, session, replies)

	// Reader finished: finalize the session and drain the writer. The
	// request context is about to die with the handler, so closing runs
	// on its own deadline.
	closeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := h.manager.CloseSession(closeCtx, interviewID); err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Failed to finalize live session",
				zap.String("interview_id", interviewID.String()),
				zap.Error(err),
			)
		}
	}

	close(replies)
	<-writerDone

	if h.logger != nil {
		h.logger.Info("🏁 Live session connection closed",
			zap.String("interview_id", interviewID.String()),
		)
	}
	return nil
}

// readLoop consumes client messages until the connection drops
func (h *LiveHandler) readLoop(conn *websocket.Conn, session *live.Session, replies chan<- liveDTO.OutboundMessage) {
	for {
		var msg liveDTO.InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if h.logger != nil {
					h.logger.Warn("⚠️ Live connection read error",
						zap.String("interview_id", session.InterviewID().String()),
						zap.Error(err),
					)
				}
			}
			return
		}

		switch msg.Type {
		case liveDTO.MessageTypeVideoFrame:
			if err := session.IngestFrame(entities.ModalityFacial, msg.Data, msg.TimestampSeconds); err != nil {
				h.reply(replies, liveDTO.ErrorMessage(err.Error()))
			}

		case liveDTO.MessageTypeAudioChunk:
			if err := session.IngestFrame(entities.ModalityVoice, msg.Data, msg.TimestampSeconds); err != nil {
				h.reply(replies, liveDTO.ErrorMessage(err.Error()))
			}

		case liveDTO.MessageTypeGetAnalysis:
			snapshot, err := session.RequestSnapshot()
			if err != nil {
				h.reply(replies, liveDTO.ErrorMessage(err.Error()))
				continue
			}
			h.reply(replies, liveDTO.AnalysisUpdate(snapshot))

		default:
			h.reply(replies, liveDTO.ErrorMessage("unknown message type: "+msg.Type))
		}
	}
}

// reply enqueues an outbound message without ever blocking the read loop
func (h *LiveHandler) reply(replies chan<- liveDTO.OutboundMessage, msg liveDTO.OutboundMessage) {
	select {
	case replies <- msg:
	default:
	}
}

// writeLoop is the single writer on the connection. It forwards coalesced
// session events and direct replies until both sources are exhausted.
func (h *LiveHandler) writeLoop(conn *websocket.Conn, events <-chan live.Snapshot, replies <-chan liveDTO.OutboundMessage, done chan<- struct{}) {
	defer close(done)

	for events != nil || replies != nil {
		select {
		case snapshot, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if err := conn.WriteJSON(liveDTO.EmotionUpdate(snapshot)); err != nil {
				return
			}

		case msg, ok := <-replies:
			if !ok {
				replies = nil
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
