// Package bot is the Discord adapter: command handling, notification
// delivery, and message formatting.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"tweetwatch/internal/config"
	"tweetwatch/internal/scheduler"
	"tweetwatch/internal/watch"
)

// session is the slice of discordgo.Session the bot needs.
type session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	UserChannelPermissions(userID string, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

// Bot handles user commands and delivers tweet notifications.
type Bot struct {
	session session
	dg      *discordgo.Session
	svc     *watch.Service
	reg     *watch.Registry
	sched   *scheduler.Scheduler
	cfg     *config.Config
	log     *slog.Logger
}

// New creates a Bot with a live Discord session.
func New(svc *watch.Service, reg *watch.Registry, cfg *config.Config, log *slog.Logger) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent |
		discordgo.IntentsGuilds

	b := &Bot{
		session: dg,
		dg:      dg,
		svc:     svc,
		reg:     reg,
		cfg:     cfg,
		log:     log,
	}

	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onGuildCreate)

	return b, nil
}

// SetScheduler wires the scheduler in after construction; the scheduler
// needs the bot as its Notifier, so the two are created in sequence.
func (b *Bot) SetScheduler(s *scheduler.Scheduler) {
	b.sched = s
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.log.Info("discord session open")

	<-ctx.Done()

	if err := b.dg.Close(); err != nil {
		b.log.Error("close discord session", "error", err)
	}
	return nil
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	// First settings access creates the defaults.
	b.reg.Settings(g.ID)
	b.log.Info("guild available", "guild_id", g.ID, "name", g.Name)
}

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, b.cfg.CommandPrefix) {
		return
	}

	rest := strings.TrimPrefix(m.Content, b.cfg.CommandPrefix)
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}
	cmd := strings.ToLower(fields[0])
	args := strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))

	b.handleCommand(context.Background(), command{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Name:      cmd,
		Args:      args,
	})
}

// command is one parsed invocation, independent of the gateway event
// shape so handlers can be driven directly in tests.
type command struct {
	GuildID   string
	ChannelID string
	AuthorID  string
	Name      string
	Args      string
}

func (b *Bot) handleCommand(ctx context.Context, c command) {
	b.log.Debug("command", "cmd", c.Name, "args", c.Args, "guild_id", c.GuildID, "channel_id", c.ChannelID)

	switch c.Name {
	case "watch":
		b.requireAdmin(c, func() { b.handleWatch(ctx, c) })
	case "unwatch":
		b.requireAdmin(c, func() { b.handleUnwatch(c) })
	case "list":
		b.handleList(c)
	case "settings":
		b.handleSettings(c)
	case "set":
		b.requireAdmin(c, func() { b.handleSet(c) })
	case "filters":
		b.handleFilters(c)
	case "filter":
		b.requireAdmin(c, func() { b.handleFilter(c) })
	case "test":
		b.requireAdmin(c, func() { b.handleTest(ctx, c) })
	case "accounts":
		b.handleAccounts(c)
	case "status":
		b.handleStatus(c)
	case "help":
		b.handleHelp(c)
	default:
		b.reply(c.ChannelID, fmt.Sprintf("Unknown command %q. Use %shelp for a list of commands.", c.Name, b.cfg.CommandPrefix))
	}
}

// requireAdmin runs fn only when the invoking member has the
// administrator permission in the channel.
func (b *Bot) requireAdmin(c command, fn func()) {
	perms, err := b.session.UserChannelPermissions(c.AuthorID, c.ChannelID)
	if err != nil {
		b.log.Error("permission lookup", "user_id", c.AuthorID, "channel_id", c.ChannelID, "error", err)
		b.reply(c.ChannelID, "Could not verify your permissions.")
		return
	}
	if perms&discordgo.PermissionAdministrator == 0 {
		b.reply(c.ChannelID, "You need the Administrator permission for this command.")
		return
	}
	fn()
}

func (b *Bot) reply(channelID, text string) {
	if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
		b.log.Error("send message", "channel_id", channelID, "error", err)
	}
}

func (b *Bot) replyEmbed(channelID string, embed *discordgo.MessageEmbed) {
	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		b.log.Error("send embed", "channel_id", channelID, "error", err)
	}
}
