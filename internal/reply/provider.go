package reply

import (
	"context"
	"errors"
	"fmt"

	"mindguard/internal/config"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/ollama/ollama/api"
)

// Defaults applied when llm.base_url or llm.model are left empty
const (
	DefaultOpenAIBaseURL = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel   = "llama3-8b-8192"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultOllamaModel   = "llama3"
	DefaultDeepSeekModel = "deepseek-chat"
)

// ErrUnknownProvider is returned for an unsupported llm.provider
var ErrUnknownProvider = errors.New("unknown llm provider")

// NewChatModel builds the chat model selected by cfg.Provider. A credentialed
// provider without an API key yields (nil, nil): the service is unavailable and
// the generator falls back to fixed replies.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (model.BaseChatModel, error) {
	maxTokens := cfg.MaxTokens
	temperature := cfg.Temperature

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, nil
		}
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     orDefault(cfg.BaseURL, DefaultOpenAIBaseURL),
			Model:       orDefault(cfg.Model, DefaultOpenAIModel),
			Timeout:     cfg.Timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating openai chat model: %w", err)
		}
		return cm, nil

	case config.ProviderDeepSeek:
		if cfg.APIKey == "" {
			return nil, nil
		}
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       orDefault(cfg.Model, DefaultDeepSeekModel),
			Timeout:     cfg.Timeout,
			MaxTokens:   maxTokens,
			Temperature: temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating deepseek chat model: %w", err)
		}
		return cm, nil

	case config.ProviderArk:
		if cfg.APIKey == "" {
			return nil, nil
		}
		if cfg.Model == "" {
			return nil, fmt.Errorf("ark provider requires llm.model (endpoint id)")
		}
		timeout := cfg.Timeout
		cm, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Region:      cfg.Region,
			Model:       cfg.Model,
			Timeout:     &timeout,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ark chat model: %w", err)
		}
		return cm, nil

	case config.ProviderOllama:
		cm, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
			BaseURL: orDefault(cfg.BaseURL, DefaultOllamaBaseURL),
			Model:   orDefault(cfg.Model, DefaultOllamaModel),
			Timeout: cfg.Timeout,
			Options: &api.Options{
				Temperature: temperature,
				NumPredict:  maxTokens,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("error creating ollama chat model: %w", err)
		}
		return cm, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
