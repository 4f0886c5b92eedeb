package transcriber

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"
)

// Segment is one diarized portion of the transcript.
type Segment struct {
	Speaker      string
	Text         string
	StartSeconds float64
	EndSeconds   float64
}

// Result is the finished transcription for one audio artifact.
type Result struct {
	TranscriptID    string
	Language        string
	DurationSeconds int
	Segments        []Segment
}

// Client transcribes an audio artifact reachable at audioURL and returns
// diarized segments. Blocks until the transcript is final or ctx expires.
type Client interface {
	Transcribe(ctx context.Context, audioURL string) (*Result, error)
}

// NewClient creates a transcription client. In mock mode a deterministic
// local transcriber is returned, useful for development and tests without
// an AssemblyAI account.
func NewClient(apiKey string, useMock bool, logger *zap.Logger) Client {
	if useMock {
		if logger != nil {
			logger.Info("🎭 Using mock transcription client")
		}
		return &mockClient{}
	}
	return &realClient{
		sdk:          aai.NewClient(apiKey),
		logger:       logger,
		pollInterval: 5 * time.Second,
	}
}

type realClient struct {
	sdk          *aai.Client
	logger       *zap.Logger
	pollInterval time.Duration
}

// Transcribe downloads the artifact, uploads it to AssemblyAI, submits a
// diarized transcription job, and polls until it is final.
func (c *realClient) Transcribe(ctx context.Context, audioURL string) (*Result, error) {
	cleanURL := strings.TrimSpace(audioURL)

	if c.logger != nil {
		c.logger.Info("📥 Downloading audio artifact", zap.String("audio_url", cleanURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cleanURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download audio artifact: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artifact store returned status %d", resp.StatusCode)
	}

	uploadURL, err := c.sdk.Upload(ctx, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}

	if c.logger != nil {
		c.logger.Info("📤 Audio uploaded to AssemblyAI", zap.String("upload_url", uploadURL))
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(true),
	}
	transcript, err := c.sdk.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, fmt.Errorf("failed to submit transcription: %w", err)
	}
	if transcript.ID == nil {
		return nil, fmt.Errorf("transcription submitted without an ID")
	}
	transcriptID := *transcript.ID

	if c.logger != nil {
		c.logger.Info("🎙️ Transcription submitted, polling for completion",
			zap.String("transcript_id", transcriptID),
		)
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("transcription cancelled: %w", ctx.Err())
		case <-ticker.C:
			transcript, err := c.sdk.Transcripts.Get(ctx, transcriptID)
			if err != nil {
				if c.logger != nil {
					c.logger.Warn("⚠️ Failed to poll transcript status",
						zap.String("transcript_id", transcriptID),
						zap.Error(err),
					)
				}
				continue
			}

			switch transcript.Status {
			case aai.TranscriptStatusCompleted:
				return buildResult(transcriptID, &transcript), nil
			case aai.TranscriptStatusError:
				errMsg := "transcription failed"
				if transcript.Error != nil {
					errMsg = *transcript.Error
				}
				return nil, fmt.Errorf("AssemblyAI error: %s", errMsg)
			case aai.TranscriptStatusQueued, aai.TranscriptStatusProcessing:
				// keep polling
			}
		}
	}
}

func buildResult(transcriptID string, transcript *aai.Transcript) *Result {
	result := &Result{TranscriptID: transcriptID}

	if transcript.LanguageCode != "" {
		result.Language = string(transcript.LanguageCode)
	}
	if transcript.AudioDuration != nil {
		result.DurationSeconds = int(*transcript.AudioDuration)
	}

	for _, utt := range transcript.Utterances {
		seg := Segment{}
		if utt.Text != nil {
			seg.Text = *utt.Text
		}
		if utt.Speaker != nil {
			seg.Speaker = *utt.Speaker
		}
		if utt.Start != nil {
			seg.StartSeconds = float64(*utt.Start) / 1000.0 // ms to seconds
		}
		if utt.End != nil {
			seg.EndSeconds = float64(*utt.End) / 1000.0
		}
		result.Segments = append(result.Segments, seg)
	}
	return result
}

// mockClient produces a deterministic two-speaker transcript derived from
// the artifact URL, so identical inputs transcribe identically.
type mockClient struct{}

var mockAnswers = []string{
	"I led the migration of our payment service to a new platform.",
	"In my previous role I mentored two junior engineers.",
	"I usually start by writing a small prototype to validate the approach.",
	"We reduced deployment time significantly by automating the release pipeline.",
}

func (c *mockClient) Transcribe(_ context.Context, audioURL string) (*Result, error) {
	h := fnv.New32a()
	h.Write([]byte(audioURL))
	seed := h.Sum32()

	result := &Result{
		TranscriptID:    fmt.Sprintf("mock-%08x", seed),
		Language:        "en",
		DurationSeconds: 120,
	}

	offset := 0.0
	for i := 0; i < 3; i++ {
		answer := mockAnswers[(int(seed)+i)%len(mockAnswers)]
		result.Segments = append(result.Segments,
			Segment{Speaker: "A", Text: "Can you tell me about that?", StartSeconds: offset, EndSeconds: offset + 4},
			Segment{Speaker: "B", Text: answer, StartSeconds: offset + 5, EndSeconds: offset + 20},
		)
		offset += 25
	}
	return result, nil
}
