package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ProviderConfig holds the credentials for one provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override
}

// Config selects and configures the question-generation provider.
type Config struct {
	Provider string
	ProviderConfig
	Retry RetryConfig

	// Timeout bounds a single logical request, retries included.
	Timeout time.Duration
}

// DefaultModels is the model used when Config.Model is empty.
var DefaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
}

// keyEnv is the conventional API key variable for each provider, in the
// order DiscoverConfig probes them.
var keyEnv = []struct{ provider, env string }{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DefaultConfig returns a Config with sensible defaults and no provider.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// DiscoverConfig probes GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY
// and OPENROUTER_API_KEY in that order and configures the first one found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, k := range keyEnv {
		if v := os.Getenv(k.env); v != "" {
			cfg.Provider = k.provider
			cfg.APIKey = v
			return cfg, true
		}
	}
	return Config{}, false
}

// Enabled reports whether a provider is selected at all.
func (c Config) Enabled() bool {
	return c.Provider != ""
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider", c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}

// NewProvider builds the configured provider wrapped as
// retry → logging → base, so each attempt is recorded separately.
// A nil rec skips logging.
func NewProvider(ctx context.Context, cfg Config, rec Recorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pc := cfg.ProviderConfig
	if pc.Model == "" {
		pc.Model = DefaultModels[cfg.Provider]
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(pc)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(pc)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(pc)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, pc)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		base = WithLogging(base, cfg.Provider, rec)
	}
	return WithRetry(base, cfg.Retry), nil
}
