package archive

import (
	"net/http"
	"time"

	"github.com/okian/chesscoach/pkg/logger"
)

const (
	DefaultBaseURL     = "https://api.chess.com/pub"
	DefaultUserAgent   = "ChessGameAnalyzer/1.0"
	DefaultTimeout     = 30 * time.Second
	DefaultConcurrency = 4
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another archive host.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithUserAgent sets the User-Agent sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each upstream request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithConcurrency bounds how many months are fetched at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithHTTPClient replaces the transport. The per-request timeout still applies.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
