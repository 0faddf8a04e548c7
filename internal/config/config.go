// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - External errors are wrapped with this package's sentinel kinds.
package config

import "time"

// LLM providers understood by the analysis adapters.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists browser origins accepted by CORS.
	AllowedOrigins []string `koanf:"allowed_origins"`

	// ArchiveBaseURL is the root of the public game archive API.
	ArchiveBaseURL string `koanf:"archive_base_url"`

	// UserAgent is sent with every archive request.
	UserAgent string `koanf:"user_agent"`

	// ArchiveTimeoutSeconds bounds each archive request.
	ArchiveTimeoutSeconds int `koanf:"archive_timeout_seconds"`

	// RecentMonths caps how many of the newest monthly archives are read.
	RecentMonths int `koanf:"recent_months"`

	// FetchConcurrency bounds parallel month fetches.
	FetchConcurrency int `koanf:"fetch_concurrency"`

	// LLMProvider selects the hosted model: openai, anthropic or gemini.
	LLMProvider string `koanf:"llm_provider"`

	// LLMModel overrides the provider's default model.
	LLMModel string `koanf:"llm_model"`

	// LLMBaseURL overrides the provider endpoint.
	LLMBaseURL string `koanf:"llm_base_url"`

	OpenAIAPIKey    string `koanf:"openai_api_key"`
	AnthropicAPIKey string `koanf:"anthropic_api_key"`
	GeminiAPIKey    string `koanf:"gemini_api_key"`

	// LLMTimeoutSeconds bounds each model call.
	LLMTimeoutSeconds int `koanf:"llm_timeout_seconds"`

	DraftTemperature  float64 `koanf:"draft_temperature"`
	ReviewTemperature float64 `koanf:"review_temperature"`
	DraftMaxTokens    int     `koanf:"draft_max_tokens"`
	ReviewMaxTokens   int     `koanf:"review_max_tokens"`

	// LossSampleLimit and WinSampleLimit bound the games shown to the model.
	LossSampleLimit int `koanf:"loss_sample_limit"`
	WinSampleLimit  int `koanf:"win_sample_limit"`

	// TailMoves is how many final numbered moves are quoted per loss.
	TailMoves int `koanf:"tail_moves"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// HTTPBucketsMs and LLMBucketsMs override latency histogram buckets.
	HTTPBucketsMs []float64 `koanf:"metrics_http_buckets_ms"`
	LLMBucketsMs  []float64 `koanf:"metrics_llm_buckets_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":8000",
		AllowedOrigins:        []string{"http://localhost:5173", "http://localhost:3000"},
		ArchiveBaseURL:        "https://api.chess.com/pub",
		UserAgent:             "ChessGameAnalyzer/1.0",
		ArchiveTimeoutSeconds: 30,
		RecentMonths:          12,
		FetchConcurrency:      4,
		LLMProvider:           ProviderOpenAI,
		LLMTimeoutSeconds:     60,
		DraftTemperature:      0.7,
		ReviewTemperature:     0.3,
		DraftMaxTokens:        2000,
		ReviewMaxTokens:       2200,
		LossSampleLimit:       8,
		WinSampleLimit:        3,
		TailMoves:             5,
		MetricsNamespace:      "chesscoach",
		MetricsSubsystem:      "service",
	}
}

// ArchiveTimeout returns the per-request archive timeout.
func (c *Config) ArchiveTimeout() time.Duration {
	return time.Duration(c.ArchiveTimeoutSeconds) * time.Second
}

// LLMTimeout returns the per-call model timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

// AnalysisBudget is the longest a recent-games analysis can take: the archive
// listing, every wave of bounded month fetches, then the draft and review calls.
func (c *Config) AnalysisBudget() time.Duration {
	concurrency := max(c.FetchConcurrency, 1)
	waves := (max(c.RecentMonths, 1) + concurrency - 1) / concurrency
	return time.Duration(1+waves)*c.ArchiveTimeout() + 2*c.LLMTimeout()
}

// LLMAPIKey returns the credential for the selected provider, empty when unset.
func (c *Config) LLMAPIKey() string {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}
