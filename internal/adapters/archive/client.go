// Package archive reads a player's monthly game archives from the public
// chess.com API.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/chesscoach/pkg/logger"
	"github.com/okian/chesscoach/pkg/metrics"
)

const (
	kindArchives = "archives"
	kindMonth    = "month"

	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"

	maxErrorSnippet = 200
)

// Client fetches archive listings and month pages.
type Client struct {
	baseURL     string
	userAgent   string
	timeout     time.Duration
	concurrency int
	http        *http.Client
	log         logger.Logger
}

// New returns a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		http:        &http.Client{},
		log:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseURL = strings.TrimRight(c.baseURL, "/")
	return c
}

// player returns the escaped, lower-cased path segment for username.
func player(username string) string {
	return url.PathEscape(strings.ToLower(strings.TrimSpace(username)))
}

// MonthURL returns the archive location for one month.
func (c *Client) MonthURL(username string, year, month int) string {
	return fmt.Sprintf("%s/player/%s/games/%d/%02d", c.baseURL, player(username), year, month)
}

// Archives lists the player's month archive locations, oldest first.
func (c *Client) Archives(ctx context.Context, username string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/player/%s/games/archives", c.baseURL, player(username))
	c.log.Debug(ctx, "fetching archives", logger.String("url", endpoint))

	var body struct {
		Archives []string `json:"archives"`
	}
	status, err := c.getJSON(ctx, endpoint, &body)
	switch {
	case status == http.StatusNotFound:
		metrics.RecordArchiveRequest(kindArchives, outcomeNotFound)
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	case err != nil:
		metrics.RecordArchiveRequest(kindArchives, outcomeError)
		return nil, fmt.Errorf("%w: archives for %s: %w", ErrUpstream, username, err)
	}
	metrics.RecordArchiveRequest(kindArchives, outcomeOK)
	if body.Archives == nil {
		body.Archives = []string{}
	}
	return body.Archives, nil
}

// MonthGames returns the raw game records at location. Any failure yields an
// empty result so one bad month never aborts a wider retrieval.
func (c *Client) MonthGames(ctx context.Context, location string) []json.RawMessage {
	var body struct {
		Games []json.RawMessage `json:"games"`
	}
	if _, err := c.getJSON(ctx, location, &body); err != nil {
		metrics.RecordArchiveRequest(kindMonth, outcomeError)
		metrics.RecordMonthFailed()
		c.log.Warn(ctx, "month fetch failed", logger.String("url", location), logger.Error(err))
		return []json.RawMessage{}
	}
	metrics.RecordArchiveRequest(kindMonth, outcomeOK)
	metrics.RecordMonthFetched()
	if body.Games == nil {
		return []json.RawMessage{}
	}
	return body.Games
}

// FetchRecentGames resolves the player's archives, keeps the last months of
// them and returns their records in chronological order. Months are fetched
// concurrently; a failed month contributes nothing.
func (c *Client) FetchRecentGames(ctx context.Context, username string, months int) ([]json.RawMessage, error) {
	archives, err := c.Archives(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoArchives, username)
	}
	if months > 0 && len(archives) > months {
		archives = archives[len(archives)-months:]
	}
	c.log.Info(ctx, "fetching recent months",
		logger.String("username", username),
		logger.Int("months", len(archives)),
	)

	pages := make([][]json.RawMessage, len(archives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, location := range archives {
		g.Go(func() error {
			pages[i] = c.MonthGames(gctx, location)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range pages {
		total += len(p)
	}
	out := make([]json.RawMessage, 0, total)
	for _, p := range pages {
		out = append(out, p...)
	}
	return out, nil
}

// getJSON issues a GET and decodes a 2xx body into v. The status code is
// returned whenever a response was received.
func (c *Client) getJSON(ctx context.Context, endpoint string, v any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
