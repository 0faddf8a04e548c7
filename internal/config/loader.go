package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "CHESSCOACH_"
	envConfigFile = "CHESSCOACH_CONFIG"

	// Sampling temperature ceilings per provider.
	maxTemp          = 2.0
	maxAnthropicTemp = 1.0

	// Sample bounds shown to the model.
	maxLossSamples = 8
	maxWinSamples  = 3
)

var listKeys = map[string]struct{}{
	"allowed_origins":         {},
	"metrics_http_buckets_ms": {},
	"metrics_llm_buckets_ms":  {},
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if CHESSCOACH_CONFIG is set
//  3. env (prefix CHESSCOACH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CHESSCOACH_RECENT_MONTHS -> recent_months. List keys take
	// comma-separated values.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if key == "config" {
			return "", nil
		}
		if _, ok := listKeys[key]; ok {
			return key, splitList(value)
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ArchiveBaseURL) == "":
		return fmt.Errorf("%w: archive_base_url must not be empty", ErrInvalidConfig)
	case c.RecentMonths < 1:
		return fmt.Errorf("%w: recent_months must be at least 1", ErrInvalidConfig)
	case c.FetchConcurrency < 1:
		return fmt.Errorf("%w: fetch_concurrency must be at least 1", ErrInvalidConfig)
	case c.ArchiveTimeoutSeconds < 1:
		return fmt.Errorf("%w: archive_timeout_seconds must be at least 1", ErrInvalidConfig)
	case c.LLMTimeoutSeconds < 1:
		return fmt.Errorf("%w: llm_timeout_seconds must be at least 1", ErrInvalidConfig)
	case c.LossSampleLimit < 0 || c.LossSampleLimit > maxLossSamples:
		return fmt.Errorf("%w: loss_sample_limit must be within [0,%d]", ErrInvalidConfig, maxLossSamples)
	case c.WinSampleLimit < 0 || c.WinSampleLimit > maxWinSamples:
		return fmt.Errorf("%w: win_sample_limit must be within [0,%d]", ErrInvalidConfig, maxWinSamples)
	}

	var ceiling float64
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
		ceiling = maxTemp
	case ProviderAnthropic:
		ceiling = maxAnthropicTemp
	default:
		return fmt.Errorf("%w: unknown llm_provider %q", ErrInvalidConfig, c.LLMProvider)
	}
	if c.DraftTemperature < 0 || c.DraftTemperature > ceiling {
		return fmt.Errorf("%w: draft_temperature must be within [0,%g] for %s", ErrInvalidConfig, ceiling, c.LLMProvider)
	}
	if c.ReviewTemperature < 0 || c.ReviewTemperature > ceiling {
		return fmt.Errorf("%w: review_temperature must be within [0,%g] for %s", ErrInvalidConfig, ceiling, c.LLMProvider)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
