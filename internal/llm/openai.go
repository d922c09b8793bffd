package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

var ErrOpenAINoAPIKey = errors.New("openai: api key not configured")

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIGenerator asks a chat completion model for a program.
type OpenAIGenerator struct {
	cfg    OpenAIConfig
	client *openai.Client
	logger *slog.Logger
}

func NewOpenAIGenerator(cfg OpenAIConfig, logger *slog.Logger) *OpenAIGenerator {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OpenAIGenerator{cfg: cfg, logger: logger}
}

func (g *OpenAIGenerator) ensureClient() error {
	if g.cfg.APIKey == "" {
		return ErrOpenAINoAPIKey
	}
	if g.client == nil {
		opts := []option.RequestOption{option.WithAPIKey(g.cfg.APIKey)}
		if g.cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(g.cfg.BaseURL))
		}
		client := openai.NewClient(opts...)
		g.client = &client
	}
	return nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (Result, error) {
	if err := g.ensureClient(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGeneration, err)
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(g.cfg.Temperature),
	})
	if err != nil {
		return Result{}, generationError("openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, generationError("openai: empty response")
	}
	g.logger.Debug("openai reply", "model", g.cfg.Model, "took", time.Since(start), "tokens", resp.Usage.TotalTokens)
	return Decode(resp.Choices[0].Message.Content)
}
