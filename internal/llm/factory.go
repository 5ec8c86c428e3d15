package llm

import (
	"fmt"

	"github.com/studyhall/quizdeck-backend/internal/config"
)

// NewProvider creates a Provider from application configuration, wrapped
// with bounded retry for transient transport failures.
func NewProvider(cfg *config.Config) (Provider, error) {
	var base Provider
	var err error

	switch cfg.LLMProvider {
	case "openai":
		base, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		})
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.LLMProvider, err)
	}

	retryCfg := DefaultRetryConfig
	if cfg.GenMaxRetries > 0 {
		retryCfg.MaxAttempts = cfg.GenMaxRetries
	}

	return WithRetry(base, retryCfg), nil
}
