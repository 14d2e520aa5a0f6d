package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"tweetwatch/internal/dedup"
	"tweetwatch/internal/model"
)

// ErrAccountUnreachable is returned when a watch is requested for an
// account no mirror can resolve.
var ErrAccountUnreachable = errors.New("account unreachable")

// Fetcher resolves an account handle to its latest tweet.
type Fetcher interface {
	FetchLatest(ctx context.Context, handle string) (*model.Item, error)
}

// Service composes the registry, resolver, and ledger for the watch
// lifecycle operations.
type Service struct {
	reg     *Registry
	fetcher Fetcher
	ledger  *dedup.Ledger
	log     *slog.Logger
}

// NewService creates a Service.
func NewService(reg *Registry, fetcher Fetcher, ledger *dedup.Ledger, log *slog.Logger) *Service {
	return &Service{reg: reg, fetcher: fetcher, ledger: ledger, log: log}
}

// NormalizeHandle strips the leading @ and surrounding whitespace from
// a user-supplied account handle.
func NormalizeHandle(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), "@")
}

// Watch confirms the account is reachable, records the watch, and seeds
// the watermark with the observed item so the next poll does not
// re-announce it. The seed item is returned for the confirmation message.
func (s *Service) Watch(ctx context.Context, guildID, channelID, account string) (*model.Item, error) {
	account = NormalizeHandle(account)

	item, err := s.fetcher.FetchLatest(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: @%s: %v", ErrAccountUnreachable, account, err)
	}

	if err := s.reg.Add(guildID, channelID, account); err != nil {
		return nil, err
	}
	s.ledger.Advance(account, item.ID)

	s.log.Info("watch added",
		"guild_id", guildID,
		"channel_id", channelID,
		"account", account,
		"seed_id", item.ID,
	)
	return item, nil
}

// Unwatch removes the watch and drops the account's watermark. The
// watermark is scoped per account globally, so if the account is still
// watched elsewhere its watermark is rebuilt on the next poll; that can
// emit one duplicate notification, which is accepted.
func (s *Service) Unwatch(guildID, channelID, account string) error {
	account = NormalizeHandle(account)

	stillWatched, err := s.reg.Remove(guildID, channelID, account)
	if err != nil {
		return err
	}
	s.ledger.Forget(account)

	s.log.Info("watch removed",
		"guild_id", guildID,
		"channel_id", channelID,
		"account", account,
		"still_watched_elsewhere", stillWatched,
	)
	return nil
}

// TestFetch performs a one-shot fetch without touching the watermark.
func (s *Service) TestFetch(ctx context.Context, account string) (*model.Item, error) {
	account = NormalizeHandle(account)
	item, err := s.fetcher.FetchLatest(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("%w: @%s: %v", ErrAccountUnreachable, account, err)
	}
	return item, nil
}
