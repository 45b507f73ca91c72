package adapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sashabaranov/go-openai"
)

// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

var (
	// ErrMissingAPIKey is returned when no credential is configured.
	ErrMissingAPIKey = errors.New("API key is required")
	// ErrNoChoices is returned when the service answers without any choice.
	ErrNoChoices = errors.New("response contained no choices")
)

// LLMConfig configures the OpenAI-compatible client.
type LLMConfig struct {
	APIKey       string
	BaseURL      string
	SystemPrompt string
}

// TextGenerator is the generative-text contract: one prompt in, one text out.
type TextGenerator interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

// ModelCatalog lists the model identifiers the service accepts.
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]string, error)
}

// OpenAIClient implements TextGenerator and ModelCatalog over any
// OpenAI-compatible chat completion API.
type OpenAIClient struct {
	client       *openai.Client
	systemPrompt string
}

// NewOpenAIClient constructs an OpenAIClient from cfg.
func NewOpenAIClient(cfg LLMConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	} else {
		clientConfig.BaseURL = DefaultBaseURL
	}

	slog.Info("Initializing text generation client", "baseURL", clientConfig.BaseURL)

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(clientConfig),
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// Generate sends prompt as a single user message and returns the top choice.
func (o *OpenAIClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	slog.Debug("Generating text", "model", model, "promptBytes", len(prompt))

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if o.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: o.systemPrompt})
	}

	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("Chat completion call failed", "model", model, "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("Chat completion returned no choices", "model", model)
		return "", ErrNoChoices
	}

	slog.Debug("Received chat completion", "model", model, "finish_reason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the ids of the models the service offers, sorted.
func (o *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	list, err := o.client.ListModels(ctx)
	if err != nil {
		slog.Error("Listing models failed", "error", err)
		return nil, fmt.Errorf("list models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		ids = append(ids, model.ID)
	}

	sort.Strings(ids)

	return ids, nil
}

// LLMClient is a TextGenerator and ModelCatalog that can report whether it is
// usable before the first call.
type LLMClient interface {
	TextGenerator
	ModelCatalog
	Ready() error
}

// LazyOpenAIClient builds an OpenAIClient on first use, so commands that never
// talk to the service do not require a credential.
type LazyOpenAIClient struct {
	config func() LLMConfig

	once   sync.Once
	client *OpenAIClient
	err    error
}

// NewLazyOpenAIClient constructs a LazyOpenAIClient reading its settings from config.
func NewLazyOpenAIClient(config func() LLMConfig) *LazyOpenAIClient {
	return &LazyOpenAIClient{config: config}
}

// Ready builds the client and reports configuration errors such as a missing key.
func (l *LazyOpenAIClient) Ready() error {
	l.once.Do(func() {
		l.client, l.err = NewOpenAIClient(l.config())
	})

	return l.err
}

// Generate implements TextGenerator.
func (l *LazyOpenAIClient) Generate(ctx context.Context, prompt, model string) (string, error) {
	if err := l.Ready(); err != nil {
		return "", err
	}

	return l.client.Generate(ctx, prompt, model)
}

// ListModels implements ModelCatalog.
func (l *LazyOpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	if err := l.Ready(); err != nil {
		return nil, err
	}

	return l.client.ListModels(ctx)
}
