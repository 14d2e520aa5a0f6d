// Package model defines the domain types used across the application.
package model

import "time"

// MinCheckInterval is the lowest allowed per-guild polling interval.
const MinCheckInterval = 60 * time.Second

// DefaultCheckInterval is applied to guilds that never changed theirs.
const DefaultCheckInterval = 5 * time.Minute

// DefaultEmbedColor is the embed accent color for new guilds.
const DefaultEmbedColor = 0x00d4ff

// Item is the latest tweet observed for an account during one poll.
type Item struct {
	ID         string
	URL        string
	Text       string
	Account    string
	ObservedAt time.Time
}

// GroupSettings holds the per-guild polling and delivery configuration.
type GroupSettings struct {
	GuildID         string
	CheckInterval   time.Duration
	IncludeRetweets bool
	MentionRole     string
	EmbedColor      int
}

// DefaultSettings returns the settings a guild starts with.
func DefaultSettings(guildID string) GroupSettings {
	return GroupSettings{
		GuildID:       guildID,
		CheckInterval: DefaultCheckInterval,
		EmbedColor:    DefaultEmbedColor,
	}
}

// ChannelWatches is the set of accounts watched in one channel.
type ChannelWatches struct {
	ChannelID string
	Accounts  []string
}

// FilterKind defines the type of filter rule.
type FilterKind string

// Supported filter kinds.
const (
	FilterInclude   FilterKind = "include"
	FilterExclude   FilterKind = "exclude"
	FilterIncludeRe FilterKind = "include_re"
	FilterExcludeRe FilterKind = "exclude_re"
)

// FilterRule is a single content rule attached to a guild.
// Rules match against the tweet text.
type FilterRule struct {
	ID      int64
	GuildID string
	Kind    FilterKind
	Value   string
}
