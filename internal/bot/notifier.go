package bot

import (
	"context"
	"fmt"

	"tweetwatch/internal/model"
)

// Deliver implements scheduler.Notifier. The role mention is prefixed
// for regular notifications only; the settings come from the channel's
// guild so the scheduler never needs to know about guild configuration.
func (b *Bot) Deliver(_ context.Context, channelID, account string, item model.Item, isTest bool) error {
	ch, err := b.session.Channel(channelID)
	if err != nil {
		return fmt.Errorf("resolve channel: %w", err)
	}
	settings := b.reg.Settings(ch.GuildID)

	mention := ""
	if settings.MentionRole != "" && !isTest {
		mention = fmt.Sprintf("<@&%s>", settings.MentionRole)
	}

	content := FormatNotification(account, item, mention, isTest)
	if _, err := b.session.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

// ChannelExists implements scheduler.Notifier.
func (b *Bot) ChannelExists(channelID string) bool {
	_, err := b.session.Channel(channelID)
	return err == nil
}
