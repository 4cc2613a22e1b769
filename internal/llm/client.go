// Package llm provides a unified interface for LLM providers using CloudWeGo Eino.
package llm

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"
)

// Provider identifies the LLM provider to use.
type Provider string

// Config holds configuration for creating an LLM client.
type Config struct {
	Provider Provider
	Model    string
	APIKey   string // Required for OpenAI, Anthropic and Gemini
	BaseURL  string // Ollama server, or an OpenAI-compatible endpoint
}

// CloseableChatModel is a chat model that may hold a client needing release.
type CloseableChatModel struct {
	model.BaseChatModel
	closer io.Closer
}

// Close releases the underlying client, if any. It is safe to call twice.
func (c *CloseableChatModel) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer = nil
	return err
}

// genaiClientCloser drops the reference to a genai client; the SDK has no
// explicit shutdown.
type genaiClientCloser struct {
	client *genai.Client
}

func (g *genaiClientCloser) Close() error {
	g.client = nil
	return nil
}

// NewCloseableChatModel wraps NewChatModel so callers can release provider clients.
func NewCloseableChatModel(ctx context.Context, cfg Config) (*CloseableChatModel, error) {
	if cfg.Provider == ProviderGemini {
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		cm, err := gemini.NewChatModel(ctx, &gemini.Config{
			Client: client,
			Model:  modelOrDefault(cfg),
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini chat model: %w", err)
		}
		return &CloseableChatModel{BaseChatModel: cm, closer: &genaiClientCloser{client: client}}, nil
	}

	cm, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &CloseableChatModel{BaseChatModel: cm}, nil
}

// NewChatModel creates a ChatModel instance based on the provider configuration.
// Gemini needs a client that must be released, so it is only available
// through NewCloseableChatModel.
func NewChatModel(ctx context.Context, cfg Config) (model.BaseChatModel, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			Model:   modelOrDefault(cfg),
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})

	case ProviderOllama:
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: baseURL,
			Model:   modelOrDefault(cfg),
		})

	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic API key is required")
		}
		return claude.NewChatModel(ctx, &claude.Config{
			APIKey:    cfg.APIKey,
			Model:     modelOrDefault(cfg),
			MaxTokens: DefaultMaxTokens,
		})

	case ProviderGemini:
		return nil, fmt.Errorf("gemini requires NewCloseableChatModel")

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: openai, ollama, anthropic, gemini)", cfg.Provider)
	}
}

func modelOrDefault(cfg Config) string {
	if cfg.Model != "" {
		return cfg.Model
	}
	return DefaultModelForProvider(cfg.Provider)
}

// ValidateProvider checks if the given provider string is supported.
func ValidateProvider(p string) (Provider, error) {
	for _, known := range Providers {
		if Provider(p) == known {
			return known, nil
		}
	}
	return "", fmt.Errorf("unsupported provider: %s", p)
}
