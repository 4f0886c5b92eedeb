package live

import (
	"github.com/interview-assistant-team/interview-assistant/internal/usecase/live"
)

// Inbound message types on the live channel
const (
	MessageTypeVideoFrame  = "video_frame"
	MessageTypeAudioChunk  = "audio_chunk"
	MessageTypeGetAnalysis = "get_analysis"
)

// Outbound message types on the live channel
const (
	MessageTypeEmotionUpdate  = "emotion_update"
	MessageTypeAnalysisUpdate = "analysis_update"
	MessageTypeError          = "error"
)

// InboundMessage is one client message on the live channel. Frame payloads
// are base64-encoded by the JSON codec.
type InboundMessage struct {
	Type             string  `json:"type"`
	Data             []byte  `json:"data,omitempty"`
	TimestampSeconds float64 `json:"timestamp_seconds,omitempty"`
}

// OutboundMessage is one server message on the live channel
type OutboundMessage struct {
	Type     string         `json:"type"`
	Snapshot *live.Snapshot `json:"snapshot,omitempty"`
	Message  string         `json:"message,omitempty"`
}

// EmotionUpdate wraps a snapshot as a pushed live update
func EmotionUpdate(snapshot live.Snapshot) OutboundMessage {
	return OutboundMessage{Type: MessageTypeEmotionUpdate, Snapshot: &snapshot}
}

// AnalysisUpdate wraps a snapshot as a reply to an explicit request
func AnalysisUpdate(snapshot live.Snapshot) OutboundMessage {
	return OutboundMessage{Type: MessageTypeAnalysisUpdate, Snapshot: &snapshot}
}

// ErrorMessage reports a rejected frame or invalid request to the client
func ErrorMessage(message string) OutboundMessage {
	return OutboundMessage{Type: MessageTypeError, Message: message}
}
