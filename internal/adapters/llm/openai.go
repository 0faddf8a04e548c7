package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT3Dot5Turbo

type openAICompleter struct {
	client *openai.Client
	model  string
}

func newOpenAI(s Settings, hc *http.Client) *openAICompleter {
	cfg := openai.DefaultConfig(s.APIKey)
	cfg.HTTPClient = hc
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	model := s.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAICompleter{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *openAICompleter) Name() string { return ProviderOpenAI + ":" + c.model }

func (c *openAICompleter) Complete(ctx context.Context, req Request) (string, error) {
	temperature := float32(req.Temperature)
	if temperature == 0 {
		// The request field is omitempty; an exact zero would fall back to the API default.
		temperature = math.SmallestNonzeroFloat32
	}
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
