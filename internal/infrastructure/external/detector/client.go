package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/interview-assistant-team/interview-assistant/internal/domain/entities"
	"github.com/interview-assistant-team/interview-assistant/pkg/config"
)

// Detection is one emotion classification result
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Client wraps the facial and voice emotion detector services
type Client interface {
	// DetectFacial classifies one decoded video frame (JPEG/PNG bytes)
	DetectFacial(ctx context.Context, frame []byte) (*Detection, error)

	// DetectVoice classifies one windowed audio buffer (PCM bytes)
	DetectVoice(ctx context.Context, audio []byte) (*Detection, error)
}

// NewClient creates a detector client. With useMock set, a deterministic
// in-process client is returned so live sessions run without the model
// services.
func NewClient(facialURL, voiceURL string, timeout time.Duration, useMock bool) Client {
	if useMock {
		return &mockClient{}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &realClient{
		facialURL: facialURL,
		voiceURL:  voiceURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig creates a detector client from application config
func NewClientFromConfig(cfg *config.DetectorConfig) Client {
	if cfg == nil {
		return &mockClient{}
	}
	return NewClient(cfg.FacialURL, cfg.VoiceURL, cfg.Timeout, cfg.UseMock)
}

// realClient calls the detector HTTP services
type realClient struct {
	facialURL string
	voiceURL  string
	client    *http.Client
}

// detectRequest is the payload for /v1/detect
type detectRequest struct {
	Data []byte `json:"data"` // base64 by encoding/json
}

// detectResponse is a minimal response shape
type detectResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

func (c *realClient) DetectFacial(ctx context.Context, frame []byte) (*Detection, error) {
	return c.detect(ctx, c.facialURL, string(entities.ModalityFacial), frame)
}

func (c *realClient) DetectVoice(ctx context.Context, audio []byte) (*Detection, error) {
	return c.detect(ctx, c.voiceURL, string(entities.ModalityVoice), audio)
}

func (c *realClient) detect(ctx context.Context, baseURL, modality string, payload []byte) (*Detection, error) {
	b, err := json.Marshal(detectRequest{Data: payload})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", baseURL+"/v1/detect", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s detector unreachable: %w", modality, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s detector returned status %d", modality, resp.StatusCode)
	}

	var dr detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, err
	}
	if dr.Label == "" {
		return nil, fmt.Errorf("%s detector returned empty label", modality)
	}
	if dr.Confidence < 0 || dr.Confidence > 1 {
		return nil, fmt.Errorf("%s detector returned confidence %g outside [0,1]", modality, dr.Confidence)
	}
	return &Detection{Label: dr.Label, Confidence: dr.Confidence}, nil
}

// mockClient is a deterministic implementation for development and testing.
// The label is derived from the payload hash, so identical frames always
// classify identically.
type mockClient struct{}

var mockLabels = []string{"neutral", "happy", "sad", "angry", "surprised", "fearful"}

func (m *mockClient) DetectFacial(_ context.Context, frame []byte) (*Detection, error) {
	return mockDetect(frame), nil
}

func (m *mockClient) DetectVoice(_ context.Context, audio []byte) (*Detection, error) {
	return mockDetect(audio), nil
}

func mockDetect(payload []byte) *Detection {
	h := fnv.New32a()
	h.Write(payload)
	sum := h.Sum32()
	return &Detection{
		Label:      mockLabels[sum%uint32(len(mockLabels))],
		Confidence: 0.5 + float64(sum%50)/100.0,
	}
}
