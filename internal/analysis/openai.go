package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// OpenAIGenerator calls an OpenAI-compatible Chat Completions endpoint.
// The default configuration targets Gemini's compatibility endpoint.
type OpenAIGenerator struct {
	client openai.Client
	model  string
}

type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	baseURL    string
	httpClient *http.Client
}

func WithBaseURL(baseURL string) GeneratorOption {
	return func(c *generatorConfig) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(hc *http.Client) GeneratorOption {
	return func(c *generatorConfig) {
		c.httpClient = hc
	}
}

// NewOpenAIGenerator builds a generator for model using apiKey. The SDK's
// automatic retries are disabled: each analysis is a single attempt.
func NewOpenAIGenerator(apiKey, model string, opts ...GeneratorOption) (*OpenAIGenerator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("analysis: api key must not be empty")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("analysis: model must not be empty")
	}

	var cfg generatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}

	return &OpenAIGenerator{
		client: openai.NewClient(reqOpts...),
		model:  model,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("analysis: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("analysis: no choices in response")
	}
	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", errors.New("analysis: no text in response")
	}
	return text, nil
}
