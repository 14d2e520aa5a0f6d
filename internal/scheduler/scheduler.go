// Package scheduler drives the periodic polling of watched accounts.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"tweetwatch/internal/dedup"
	"tweetwatch/internal/filter"
	"tweetwatch/internal/metrics"
	"tweetwatch/internal/model"
	"tweetwatch/internal/watch"
)

// Notifier is the interface for delivering notifications to channels.
type Notifier interface {
	Deliver(ctx context.Context, channelID, account string, item model.Item, isTest bool) error
	ChannelExists(channelID string) bool
}

// Resolver resolves an account handle to its latest tweet.
type Resolver interface {
	FetchLatest(ctx context.Context, handle string) (*model.Item, error)
}

// Scheduler walks due guilds on a fixed tick and announces new tweets.
// All watermark and last-check mutation happens on its single goroutine.
type Scheduler struct {
	reg      *watch.Registry
	ledger   *dedup.Ledger
	resolver Resolver
	notifier Notifier
	classify filter.Classifier
	log      *slog.Logger

	tick           time.Duration
	accountDelay   time.Duration
	channelDelay   time.Duration
	restartBackoff time.Duration

	mu        sync.Mutex
	lastCheck map[string]time.Time
	running   bool
}

// New creates a Scheduler with default pacing.
func New(reg *watch.Registry, ledger *dedup.Ledger, resolver Resolver, notifier Notifier, classify filter.Classifier, log *slog.Logger) *Scheduler {
	return &Scheduler{
		reg:            reg,
		ledger:         ledger,
		resolver:       resolver,
		notifier:       notifier,
		classify:       classify,
		log:            log,
		tick:           30 * time.Second,
		accountDelay:   1 * time.Second,
		channelDelay:   2 * time.Second,
		restartBackoff: 1 * time.Minute,
		lastCheck:      make(map[string]time.Time),
	}
}

// SetTickInterval overrides the default 30-second tick.
func (s *Scheduler) SetTickInterval(d time.Duration) {
	s.tick = d
}

// SetPacing overrides the per-account and per-channel delivery delays.
func (s *Scheduler) SetPacing(account, channel time.Duration) {
	s.accountDelay = account
	s.channelDelay = channel
}

// SetRestartBackoff overrides the pause before a crashed loop restarts.
func (s *Scheduler) SetRestartBackoff(d time.Duration) {
	s.restartBackoff = d
}

// Running reports whether the poll loop is currently active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastChecked returns when the guild was last polled.
func (s *Scheduler) LastChecked(guildID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastCheck[guildID]
	return t, ok
}

// Run starts the supervised poll loop, blocking until ctx is cancelled.
// A crash inside the loop is logged and the loop restarts after a
// constant backoff instead of taking the process down.
func (s *Scheduler) Run(ctx context.Context) {
	backoff := retry.NewConstant(s.restartBackoff)
	_ = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.runLoop(ctx); err != nil {
			s.log.Error("poll loop crashed, restarting", "error", err, "backoff", s.restartBackoff)
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Scheduler) runLoop(ctx context.Context) (err error) {
	defer func() {
		s.setRunning(false)
		if r := recover(); r != nil {
			err = fmt.Errorf("poll loop panic: %v", r)
		}
	}()
	s.setRunning(true)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	s.checkAll(ctx, time.Now().UTC())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.checkAll(ctx, time.Now().UTC())
		}
	}
}

func (s *Scheduler) setRunning(v bool) {
	s.mu.Lock()
	s.running = v
	s.mu.Unlock()
	if v {
		metrics.SchedulerRunning.Set(1)
	} else {
		metrics.SchedulerRunning.Set(0)
	}
}

func (s *Scheduler) checkAll(ctx context.Context, now time.Time) {
	for _, group := range s.reg.Snapshot() {
		if ctx.Err() != nil {
			return
		}
		settings := s.reg.Settings(group.GuildID)
		if !s.due(group.GuildID, now, settings.CheckInterval) {
			continue
		}
		// Mark before working so an overrunning check cannot be
		// re-entered by the next tick.
		s.markChecked(group.GuildID, now)
		metrics.PollsTotal.Inc()

		s.log.Debug("checking guild", "guild_id", group.GuildID)
		s.checkGroup(ctx, group, settings)
	}
	metrics.WatchedAccounts.Set(float64(s.ledger.Len()))
}

// due reports whether the guild's interval has elapsed. A guild that was
// never checked is always due.
func (s *Scheduler) due(guildID string, now time.Time, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastCheck[guildID]
	return !ok || now.Sub(last) >= interval
}

func (s *Scheduler) markChecked(guildID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck[guildID] = now
}

func (s *Scheduler) checkGroup(ctx context.Context, group watch.GroupWatches, settings model.GroupSettings) {
	rules := s.reg.Filters(group.GuildID)

	for _, ch := range group.Channels {
		if ctx.Err() != nil {
			return
		}
		if !s.notifier.ChannelExists(ch.ChannelID) {
			s.log.Warn("channel gone, skipping its accounts",
				"guild_id", group.GuildID, "channel_id", ch.ChannelID)
			continue
		}
		for _, account := range ch.Accounts {
			if ctx.Err() != nil {
				return
			}
			s.checkAccount(ctx, ch.ChannelID, account, settings, rules)
			if !sleep(ctx, s.accountDelay) {
				return
			}
		}
		if !sleep(ctx, s.channelDelay) {
			return
		}
	}
}

func (s *Scheduler) checkAccount(ctx context.Context, channelID, account string, settings model.GroupSettings, rules []model.FilterRule) {
	item, err := s.resolver.FetchLatest(ctx, account)
	if err != nil {
		// Per-account failures never abort the rest of the cycle.
		metrics.FetchErrors.Inc()
		s.log.Error("fetch latest", "account", account, "error", err)
		return
	}

	if !s.ledger.IsNew(account, item.ID) {
		return
	}

	if !settings.IncludeRetweets && s.classify(*item) {
		// Filtered items still advance the watermark so they are
		// never re-evaluated and never block the next genuine item.
		metrics.ItemsFiltered.Inc()
		s.log.Info("retweet skipped", "account", account, "id", item.ID)
		s.ledger.Advance(account, item.ID)
		return
	}

	if !filter.Match(item.Text, rules) {
		metrics.ItemsFiltered.Inc()
		s.log.Info("item rejected by filters", "account", account, "id", item.ID)
		s.ledger.Advance(account, item.ID)
		return
	}

	if err := s.notifier.Deliver(ctx, channelID, account, *item, false); err != nil {
		// Duplicate suppression beats guaranteed delivery: the
		// watermark advances even when the send failed.
		metrics.DeliveryErrors.Inc()
		s.log.Error("deliver notification",
			"account", account, "channel_id", channelID, "id", item.ID, "error", err)
	} else {
		metrics.NotificationsSent.Inc()
		s.log.Info("notified", "account", account, "channel_id", channelID, "id", item.ID)
	}
	s.ledger.Advance(account, item.ID)
}

// sleep pauses for d unless ctx is cancelled first. It reports whether
// the caller should continue.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
