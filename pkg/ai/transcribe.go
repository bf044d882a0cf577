package ai

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAITranscriber implements Transcriber using the Whisper transcription endpoint.
type OpenAITranscriber struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

// NewOpenAITranscriber builds a Whisper-backed transcriber.
func NewOpenAITranscriber(apiKey string, logger zerolog.Logger) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	return &OpenAITranscriber{
		client: openai.NewClient(apiKey),
		model:  openai.Whisper1,
		logger: logger.With().Str("component", "openai_transcriber").Logger(),
	}, nil
}

// Transcribe sends the audio bytes to the transcription API and returns the text.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: filename,
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	t.logger.Debug().Str("file", filename).Int("chars", len(text)).Msg("audio transcribed")
	return text, nil
}
