// Package resolver fetches the single most recent tweet for an account
// through an ordered list of Nitter RSS mirrors.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"tweetwatch/internal/model"
)

// ErrNotFound is returned when no mirror yields a parseable latest tweet.
var ErrNotFound = errors.New("no tweet found on any mirror")

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultMirrors are the upstream instances tried in priority order.
var DefaultMirrors = []string{
	"https://nitter.net",
	"https://nitter.it",
	"https://nitter.privacydev.net",
}

// Resolver resolves an account handle to its latest tweet. Mirrors are
// tried in order; the first one that answers with a parseable feed wins.
type Resolver struct {
	client  HTTPClient
	mirrors []string
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Resolver. An empty mirror list falls back to DefaultMirrors.
func New(client HTTPClient, mirrors []string, log *slog.Logger) *Resolver {
	if len(mirrors) == 0 {
		mirrors = DefaultMirrors
	}
	return &Resolver{
		client:  client,
		mirrors: mirrors,
		timeout: 10 * time.Second,
		log:     log,
	}
}

// SetAttemptTimeout overrides the default 10-second per-mirror timeout.
func (r *Resolver) SetAttemptTimeout(d time.Duration) {
	r.timeout = d
}

// FetchLatest returns the most recent tweet for handle, or ErrNotFound
// when every mirror fails. Which mirror answered is logged, not returned.
func (r *Resolver) FetchLatest(ctx context.Context, handle string) (*model.Item, error) {
	for _, mirror := range r.mirrors {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		item, err := r.fetchFrom(ctx, mirror, handle)
		if err != nil {
			r.log.Debug("mirror attempt failed", "mirror", mirror, "account", handle, "error", err)
			continue
		}
		r.log.Debug("resolved latest tweet", "mirror", mirror, "account", handle, "id", item.ID)
		return item, nil
	}
	return nil, fmt.Errorf("%w: @%s", ErrNotFound, handle)
}

func (r *Resolver) fetchFrom(ctx context.Context, mirror, handle string) (*model.Item, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feedURL := fmt.Sprintf("%s/%s/rss", strings.TrimRight(mirror, "/"), handle)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "TweetWatchBot/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	if len(feed.Items) == 0 {
		return nil, errors.New("feed has no entries")
	}

	entry := feed.Items[0]
	id := tweetID(entry)
	if id == "" {
		return nil, errors.New("no tweet id in latest entry")
	}

	text := entry.Title
	if text == "" {
		text = entry.Description
	}

	return &model.Item{
		ID:         id,
		URL:        canonicalURL(entry.Link),
		Text:       text,
		Account:    handle,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// tweetID extracts the numeric status id from an entry's GUID, falling
// back to the link. Nitter links carry a trailing "#m" fragment.
func tweetID(entry *gofeed.Item) string {
	for _, raw := range []string{entry.GUID, entry.Link} {
		if raw == "" {
			continue
		}
		trimmed := strings.TrimSuffix(raw, "#m")
		if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
			return trimmed[i+1:]
		}
	}
	return ""
}

// canonicalURL rewrites a mirror status link to point at x.com.
func canonicalURL(link string) string {
	u, err := url.Parse(strings.TrimSuffix(link, "#m"))
	if err != nil || u.Host == "" {
		return link
	}
	u.Scheme = "https"
	u.Host = "x.com"
	return u.String()
}
