// Package watch owns the guild/channel/account subscription state and
// per-guild settings. All mutation goes through the Registry.
package watch

import (
	"errors"
	"sort"
	"sync"
	"time"

	"tweetwatch/internal/filter"
	"tweetwatch/internal/model"
)

// Structural outcomes surfaced to callers.
var (
	ErrAlreadyWatched   = errors.New("account already watched in this channel")
	ErrNotWatched       = errors.New("account not watched in this channel")
	ErrIntervalTooShort = errors.New("check interval must be at least 60 seconds")
	ErrFilterNotFound   = errors.New("filter not found")
)

// GroupWatches is one guild's full channel/account mapping.
type GroupWatches struct {
	GuildID  string
	Channels []model.ChannelWatches
}

// Registry is the in-memory store of watches, settings, and filter rules.
// It lives for the process lifetime; nothing is persisted.
type Registry struct {
	mu           sync.Mutex
	watches      map[string]map[string][]string // guild -> channel -> accounts
	settings     map[string]*model.GroupSettings
	filters      map[string][]model.FilterRule
	nextFilterID int64
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		watches:  make(map[string]map[string][]string),
		settings: make(map[string]*model.GroupSettings),
		filters:  make(map[string][]model.FilterRule),
	}
}

// Add records a watch. A channel never holds two watches for the same
// account; duplicates return ErrAlreadyWatched.
func (r *Registry) Add(guildID, channelID, account string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	channels, ok := r.watches[guildID]
	if !ok {
		channels = make(map[string][]string)
		r.watches[guildID] = channels
	}
	for _, a := range channels[channelID] {
		if a == account {
			return ErrAlreadyWatched
		}
	}
	channels[channelID] = append(channels[channelID], account)
	return nil
}

// Remove deletes a watch. stillWatched reports whether any other channel
// in any guild still watches the account, so the caller can decide what
// to do with its watermark.
func (r *Registry) Remove(guildID, channelID, account string) (stillWatched bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	accounts := r.watches[guildID][channelID]
	idx := -1
	for i, a := range accounts {
		if a == account {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrNotWatched
	}
	r.watches[guildID][channelID] = append(accounts[:idx], accounts[idx+1:]...)
	if len(r.watches[guildID][channelID]) == 0 {
		delete(r.watches[guildID], channelID)
	}

	for _, channels := range r.watches {
		for _, accs := range channels {
			for _, a := range accs {
				if a == account {
					return true, nil
				}
			}
		}
	}
	return false, nil
}

// List returns the guild's watches grouped by channel, sorted for
// stable output.
func (r *Registry) List(guildID string) []model.ChannelWatches {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listLocked(guildID)
}

func (r *Registry) listLocked(guildID string) []model.ChannelWatches {
	var out []model.ChannelWatches
	for channelID, accounts := range r.watches[guildID] {
		accs := make([]string, len(accounts))
		copy(accs, accounts)
		sort.Strings(accs)
		out = append(out, model.ChannelWatches{ChannelID: channelID, Accounts: accs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out
}

// Snapshot returns every guild's watches, sorted by guild id. The
// scheduler walks this copy so a concurrent command cannot perturb an
// in-flight cycle.
func (r *Registry) Snapshot() []GroupWatches {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []GroupWatches
	for guildID := range r.watches {
		channels := r.listLocked(guildID)
		if len(channels) == 0 {
			continue
		}
		out = append(out, GroupWatches{GuildID: guildID, Channels: channels})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GuildID < out[j].GuildID })
	return out
}

// Settings returns a copy of the guild's settings, creating defaults on
// first access.
func (r *Registry) Settings(guildID string) model.GroupSettings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.settingsLocked(guildID)
}

func (r *Registry) settingsLocked(guildID string) *model.GroupSettings {
	s, ok := r.settings[guildID]
	if !ok {
		def := model.DefaultSettings(guildID)
		s = &def
		r.settings[guildID] = s
	}
	return s
}

// SetInterval updates the guild's check interval, rejecting values below
// the 60-second floor. On rejection the previous value is kept.
func (r *Registry) SetInterval(guildID string, d time.Duration) error {
	if d < model.MinCheckInterval {
		return ErrIntervalTooShort
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settingsLocked(guildID).CheckInterval = d
	return nil
}

// SetIncludeRetweets toggles retweet delivery for the guild.
func (r *Registry) SetIncludeRetweets(guildID string, include bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settingsLocked(guildID).IncludeRetweets = include
}

// SetMentionRole sets the role mentioned on notifications. An empty id
// clears it.
func (r *Registry) SetMentionRole(guildID, roleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settingsLocked(guildID).MentionRole = roleID
}

// SetEmbedColor sets the embed accent color for the guild.
func (r *Registry) SetEmbedColor(guildID string, color int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settingsLocked(guildID).EmbedColor = color
}

// AddFilter attaches a content rule to the guild. Regex kinds are
// validated before any state changes.
func (r *Registry) AddFilter(guildID string, kind model.FilterKind, value string) (model.FilterRule, error) {
	if kind == model.FilterIncludeRe || kind == model.FilterExcludeRe {
		if err := filter.ValidateRegex(value); err != nil {
			return model.FilterRule{}, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextFilterID++
	rule := model.FilterRule{
		ID:      r.nextFilterID,
		GuildID: guildID,
		Kind:    kind,
		Value:   value,
	}
	r.filters[guildID] = append(r.filters[guildID], rule)
	return rule, nil
}

// Filters returns a copy of the guild's content rules.
func (r *Registry) Filters(guildID string) []model.FilterRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	rules := make([]model.FilterRule, len(r.filters[guildID]))
	copy(rules, r.filters[guildID])
	return rules
}

// RemoveFilter deletes a content rule by id.
func (r *Registry) RemoveFilter(guildID string, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rules := r.filters[guildID]
	for i, rule := range rules {
		if rule.ID == id {
			r.filters[guildID] = append(rules[:i], rules[i+1:]...)
			return nil
		}
	}
	return ErrFilterNotFound
}

// Stats returns the number of watched accounts and configured channels
// in the guild.
func (r *Registry) Stats(guildID string) (accounts, channels int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, accs := range r.watches[guildID] {
		if len(accs) == 0 {
			continue
		}
		channels++
		accounts += len(accs)
	}
	return accounts, channels
}
