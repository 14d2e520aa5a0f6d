package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tweetwatch/internal/watch"
)

func (b *Bot) handleWatch(ctx context.Context, c command) {
	handle, channelID, err := ParseWatchArgs(c.Args)
	if err != nil {
		b.reply(c.ChannelID, fmt.Sprintf("Usage: %swatch <@handle> [#channel]", b.cfg.CommandPrefix))
		return
	}
	if channelID == "" {
		channelID = c.ChannelID
	}

	ch, err := b.session.Channel(channelID)
	if err != nil || ch.GuildID != c.GuildID {
		b.reply(c.ChannelID, "That channel does not exist in this server.")
		return
	}

	item, err := b.svc.Watch(ctx, c.GuildID, channelID, handle)
	switch {
	case errors.Is(err, watch.ErrAccountUnreachable):
		b.reply(c.ChannelID, fmt.Sprintf("Could not reach account %s. Check that it exists and is public.", handle))
		return
	case errors.Is(err, watch.ErrAlreadyWatched):
		b.reply(c.ChannelID, fmt.Sprintf("Account %s is already watched in <#%s>.", handle, channelID))
		return
	case err != nil:
		b.reply(c.ChannelID, fmt.Sprintf("Error: %v", err))
		return
	}

	account := watch.NormalizeHandle(handle)
	b.replyEmbed(c.ChannelID, WatchConfirmEmbed(account, channelID, item, b.reg.Settings(c.GuildID)))
}

func (b *Bot) handleUnwatch(c command) {
	handle, channelID, err := ParseWatchArgs(c.Args)
	if err != nil {
		b.reply(c.ChannelID, fmt.Sprintf("Usage: %sunwatch <@handle> [#channel]", b.cfg.CommandPrefix))
		return
	}
	if channelID == "" {
		channelID = c.ChannelID
	}

	err = b.svc.Unwatch(c.GuildID, channelID, handle)
	if errors.Is(err, watch.ErrNotWatched) {
		b.reply(c.ChannelID, fmt.Sprintf("Account %s was not watched in <#%s>.", handle, channelID))
		return
	}
	if err != nil {
		b.reply(c.ChannelID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(c.ChannelID, fmt.Sprintf("Account %s is no longer watched in <#%s>.", watch.NormalizeHandle(handle), channelID))
}

func (b *Bot) handleList(c command) {
	channels := b.reg.List(c.GuildID)
	if len(channels) == 0 {
		b.reply(c.ChannelID, fmt.Sprintf("No accounts watched in this server. Use %swatch to add one.", b.cfg.CommandPrefix))
		return
	}
	b.replyEmbed(c.ChannelID, ListEmbed(channels, b.reg.Settings(c.GuildID).EmbedColor))
}

func (b *Bot) handleSettings(c command) {
	b.replyEmbed(c.ChannelID, SettingsEmbed(b.reg.Settings(c.GuildID), b.cfg.CommandPrefix))
}

func (b *Bot) handleSet(c command) {
	parts := strings.SplitN(strings.TrimSpace(c.Args), " ", 2)
	if len(parts) < 2 {
		b.reply(c.ChannelID, fmt.Sprintf("Usage: %sset <interval|retweets|role|color> <value>", b.cfg.CommandPrefix))
		return
	}
	key, value := strings.ToLower(parts[0]), strings.TrimSpace(parts[1])

	switch key {
	case "interval":
		secs, err := ParseIntervalSeconds(value)
		if err != nil {
			b.reply(c.ChannelID, err.Error())
			return
		}
		if err := b.reg.SetInterval(c.GuildID, time.Duration(secs)*time.Second); err != nil {
			b.reply(c.ChannelID, "The minimum interval is 60 seconds.")
			return
		}
		b.reply(c.ChannelID, fmt.Sprintf("Check interval set to %d seconds.", secs))

	case "retweets", "rt":
		include, err := ParseBoolToken(value)
		if err != nil {
			b.reply(c.ChannelID, err.Error())
			return
		}
		b.reg.SetIncludeRetweets(c.GuildID, include)
		if include {
			b.reply(c.ChannelID, "Retweets: included.")
		} else {
			b.reply(c.ChannelID, "Retweets: excluded.")
		}

	case "role":
		roleID, clear, err := ParseRoleValue(value)
		if err != nil {
			b.reply(c.ChannelID, err.Error())
			return
		}
		if clear {
			b.reg.SetMentionRole(c.GuildID, "")
			b.reply(c.ChannelID, "Mention role cleared.")
			return
		}
		if !b.roleExists(c.GuildID, roleID) {
			b.reply(c.ChannelID, "Role not found in this server.")
			return
		}
		b.reg.SetMentionRole(c.GuildID, roleID)
		b.reply(c.ChannelID, fmt.Sprintf("Mention role set to <@&%s>.", roleID))

	case "color":
		color, err := ParseColor(value)
		if err != nil {
			b.reply(c.ChannelID, err.Error())
			return
		}
		b.reg.SetEmbedColor(c.GuildID, color)
		b.reply(c.ChannelID, fmt.Sprintf("Embed color set to #%06x.", color))

	default:
		b.reply(c.ChannelID, fmt.Sprintf("Unknown setting %q. Use %ssettings to see the options.", key, b.cfg.CommandPrefix))
	}
}

func (b *Bot) roleExists(guildID, roleID string) bool {
	roles, err := b.session.GuildRoles(guildID)
	if err != nil {
		b.log.Error("list guild roles", "guild_id", guildID, "error", err)
		return false
	}
	for _, r := range roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

func (b *Bot) handleFilters(c command) {
	b.reply(c.ChannelID, FilterListText(b.reg.Filters(c.GuildID), b.cfg.CommandPrefix))
}

func (b *Bot) handleFilter(c command) {
	parts := strings.SplitN(strings.TrimSpace(c.Args), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		b.reply(c.ChannelID, fmt.Sprintf("Usage: %sfilter add <kind> <value> | %sfilter rm <id>", b.cfg.CommandPrefix, b.cfg.CommandPrefix))
		return
	}

	sub := strings.ToLower(parts[0])
	rest := ""
	if len(parts) > 1 {
		rest = parts[1]
	}

	switch sub {
	case "add":
		kind, value, err := ParseFilterAddArgs(rest)
		if err != nil {
			b.reply(c.ChannelID, err.Error())
			return
		}
		rule, err := b.reg.AddFilter(c.GuildID, kind, value)
		if err != nil {
			b.reply(c.ChannelID, fmt.Sprintf("Invalid filter: %v", err))
			return
		}
		b.reply(c.ChannelID, fmt.Sprintf("Filter F%d added: %s %s", rule.ID, rule.Kind, rule.Value))

	case "rm":
		id, err := ParseIDArg(rest)
		if err != nil {
			b.reply(c.ChannelID, fmt.Sprintf("Usage: %sfilter rm <id>", b.cfg.CommandPrefix))
			return
		}
		if err := b.reg.RemoveFilter(c.GuildID, id); err != nil {
			b.reply(c.ChannelID, fmt.Sprintf("Filter F%d not found.", id))
			return
		}
		b.reply(c.ChannelID, fmt.Sprintf("Filter F%d removed.", id))

	default:
		b.reply(c.ChannelID, fmt.Sprintf("Unknown subcommand %q. Use add or rm.", sub))
	}
}

func (b *Bot) handleTest(ctx context.Context, c command) {
	handle := strings.TrimSpace(c.Args)
	if handle == "" {
		b.reply(c.ChannelID, fmt.Sprintf("Usage: %stest <@handle>", b.cfg.CommandPrefix))
		return
	}

	item, err := b.svc.TestFetch(ctx, handle)
	if err != nil {
		b.reply(c.ChannelID, fmt.Sprintf("Could not fetch the latest tweet for %s.", handle))
		return
	}

	if err := b.Deliver(ctx, c.ChannelID, item.Account, *item, true); err != nil {
		b.reply(c.ChannelID, fmt.Sprintf("Delivery failed: %v", err))
	}
}

func (b *Bot) handleAccounts(c command) {
	b.replyEmbed(c.ChannelID, AccountsEmbed(b.cfg.CommandPrefix, b.reg.Settings(c.GuildID).EmbedColor))
}

func (b *Bot) handleStatus(c command) {
	accounts, channels := b.reg.Stats(c.GuildID)
	settings := b.reg.Settings(c.GuildID)

	running := false
	var lastCheck time.Time
	hasChecked := false
	if b.sched != nil {
		running = b.sched.Running()
		lastCheck, hasChecked = b.sched.LastChecked(c.GuildID)
	}

	b.replyEmbed(c.ChannelID, StatusEmbed(accounts, channels, settings, running, lastCheck, hasChecked, time.Now().UTC()))
}

func (b *Bot) handleHelp(c command) {
	b.reply(c.ChannelID, HelpText(b.cfg.CommandPrefix))
}
