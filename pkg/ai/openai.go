package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig defines configuration options for the OpenAI text generator.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIGenerator implements TextGenerator against the OpenAI chat completion API.
type OpenAIGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	logger zerolog.Logger
}

// NewOpenAIGenerator builds a new generator using the provided configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIGenerator{
		client: client,
		cfg:    cfg,
		logger: logger.With().Str("component", "openai_generator").Logger(),
	}, nil
}

// Generate sends the prompt as a single chat completion request and returns the raw
// response text. The JSON response format is requested, but the pipeline still
// defends against fenced or prose-wrapped output.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("openai generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from openai")
	}

	g.logger.Debug().
		Str("model", g.cfg.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("completion received")

	return resp.Choices[0].Message.Content, nil
}
