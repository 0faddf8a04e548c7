// Package llm adapts hosted language models to a single completion call.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider names accepted by New.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

const defaultTimeout = 60 * time.Second

// Request is one system+user exchange.
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Completer turns a Request into text.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Capability is a language model that is either present or absent. The zero
// value is absent.
type Capability struct {
	completer Completer
}

// Present wraps a configured completer.
func Present(c Completer) Capability { return Capability{completer: c} }

// Absent returns a capability with no model behind it.
func Absent() Capability { return Capability{} }

// Completer returns the model and whether one is configured.
func (c Capability) Completer() (Completer, bool) {
	return c.completer, c.completer != nil
}

// Available reports whether a model is configured.
func (c Capability) Available() bool { return c.completer != nil }

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// New builds the capability described by s. A missing API key yields an
// absent capability rather than an error.
func New(ctx context.Context, s Settings) (Capability, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return Absent(), nil
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	hc := &http.Client{Timeout: s.Timeout}

	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "", ProviderOpenAI:
		return Present(newOpenAI(s, hc)), nil
	case ProviderAnthropic:
		return Present(newAnthropic(s, hc)), nil
	case ProviderGemini:
		c, err := newGemini(ctx, s, hc)
		if err != nil {
			return Absent(), err
		}
		return Present(c), nil
	default:
		return Absent(), fmt.Errorf("%w: %s", ErrUnknownProvider, s.Provider)
	}
}
