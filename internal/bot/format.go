package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"tweetwatch/internal/model"
)

// FormatNotification renders the message content for a tweet delivery.
// The mention prefix is empty when no role is configured or the send is
// a test.
func FormatNotification(account string, item model.Item, mention string, isTest bool) string {
	var b strings.Builder
	if mention != "" {
		b.WriteString(mention)
		b.WriteString(" ")
	}
	if isTest {
		b.WriteString("[TEST] ")
	}
	fmt.Fprintf(&b, "New tweet from **@%s**:\n%s", account, item.URL)
	if isTest {
		fmt.Fprintf(&b, "\n`ID: %s`", item.ID)
	}
	return b.String()
}

// WatchConfirmEmbed renders the confirmation after a watch is added.
func WatchConfirmEmbed(account, channelID string, item *model.Item, settings model.GroupSettings) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Watch configured",
		Description: fmt.Sprintf("**@%s** will be announced in <#%s>", account, channelID),
		Color:       settings.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Interval", Value: settings.CheckInterval.String(), Inline: true},
			{Name: "Last tweet seen", Value: fmt.Sprintf("`%s`", item.ID), Inline: true},
		},
	}
}

// ListEmbed renders the guild's watches grouped by channel.
func ListEmbed(channels []model.ChannelWatches, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Watched accounts",
		Color: color,
	}
	total := 0
	for _, ch := range channels {
		var lines []string
		for _, account := range ch.Accounts {
			lines = append(lines, "• @"+account)
		}
		total += len(ch.Accounts)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("<#%s>", ch.ChannelID),
			Value: strings.Join(lines, "\n"),
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Total: %d account(s)", total),
	}
	return embed
}

// SettingsEmbed renders the guild's current settings.
func SettingsEmbed(settings model.GroupSettings, prefix string) *discordgo.MessageEmbed {
	role := "None"
	if settings.MentionRole != "" {
		role = fmt.Sprintf("<@&%s>", settings.MentionRole)
	}
	retweets := "Excluded"
	if settings.IncludeRetweets {
		retweets = "Included"
	}
	return &discordgo.MessageEmbed{
		Title: "Settings",
		Color: settings.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Check interval", Value: settings.CheckInterval.String(), Inline: true},
			{Name: "Retweets", Value: retweets, Inline: true},
			{Name: "Mention role", Value: role, Inline: true},
			{Name: "Embed color", Value: fmt.Sprintf("#%06x", settings.EmbedColor), Inline: true},
			{
				Name: "Commands",
				Value: fmt.Sprintf("`%sset interval <seconds>` (min 60)\n`%sset retweets <true|false>`\n`%sset role <@role|none>`\n`%sset color <hex>`",
					prefix, prefix, prefix, prefix),
			},
		},
	}
}

// FilterListText renders the guild's filter rules.
func FilterListText(rules []model.FilterRule, prefix string) string {
	if len(rules) == 0 {
		return fmt.Sprintf("No filters configured. Use `%sfilter add <kind> <value>` to add one.", prefix)
	}
	var b strings.Builder
	b.WriteString("Filters:\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "  F%d: %s %s\n", r.ID, r.Kind, r.Value)
	}
	return b.String()
}

// StatusEmbed renders the aggregate bot status for a guild.
func StatusEmbed(accounts, channels int, settings model.GroupSettings, running bool, lastCheck time.Time, hasChecked bool, now time.Time) *discordgo.MessageEmbed {
	loop := "Stopped"
	if running {
		loop = "Running"
	}
	embed := &discordgo.MessageEmbed{
		Title: "Status",
		Color: settings.EmbedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Watched accounts", Value: fmt.Sprintf("%d", accounts), Inline: true},
			{Name: "Channels", Value: fmt.Sprintf("%d", channels), Inline: true},
			{Name: "Interval", Value: settings.CheckInterval.String(), Inline: true},
			{Name: "Poll loop", Value: loop, Inline: true},
		},
	}
	if hasChecked {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Last check",
			Value:  fmt.Sprintf("%ds ago", int(now.Sub(lastCheck).Seconds())),
			Inline: true,
		})
	}
	return embed
}

// suggestedAccounts are the official accounts offered by the accounts
// command.
var suggestedAccounts = []struct {
	Handle string
	Note   string
}{
	{Handle: "Wuthering_Waves_Global", Note: "Official global account"},
	{Handle: "Narushio_wuwa", Note: "Developer Narushio"},
	{Handle: "WutheringWavesOfficialDiscord", Note: "Official Discord news"},
}

// AccountsEmbed renders the suggested accounts listing.
func AccountsEmbed(prefix string, color int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Suggested official accounts",
		Description: "The main accounts worth watching:",
		Color:       color,
	}
	for _, a := range suggestedAccounts {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "@" + a.Handle,
			Value: fmt.Sprintf("%s\n`%swatch @%s #your-channel`", a.Note, prefix, a.Handle),
		})
	}
	return embed
}

// HelpText renders the command reference.
func HelpText(prefix string) string {
	var b strings.Builder
	b.WriteString("Account watching:\n")
	fmt.Fprintf(&b, "`%swatch <@handle> [#channel]` — watch an account\n", prefix)
	fmt.Fprintf(&b, "`%sunwatch <@handle> [#channel]` — stop watching\n", prefix)
	fmt.Fprintf(&b, "`%slist` — show watched accounts\n", prefix)
	fmt.Fprintf(&b, "`%stest <@handle>` — one-shot fetch and test delivery\n", prefix)
	fmt.Fprintf(&b, "`%saccounts` — suggested official accounts\n\n", prefix)
	b.WriteString("Configuration:\n")
	fmt.Fprintf(&b, "`%ssettings` — show current settings\n", prefix)
	fmt.Fprintf(&b, "`%sset interval <seconds>` — change the check interval (min 60)\n", prefix)
	fmt.Fprintf(&b, "`%sset retweets <true|false>` — include retweets\n", prefix)
	fmt.Fprintf(&b, "`%sset role <@role|none>` — role to mention\n", prefix)
	fmt.Fprintf(&b, "`%sset color <hex>` — embed color\n\n", prefix)
	b.WriteString("Filters:\n")
	fmt.Fprintf(&b, "`%sfilters` — show content filters\n", prefix)
	fmt.Fprintf(&b, "`%sfilter add <kind> <value>` — add a rule (include, exclude, include_re, exclude_re)\n", prefix)
	fmt.Fprintf(&b, "`%sfilter rm <id>` — remove a rule\n\n", prefix)
	fmt.Fprintf(&b, "`%sstatus` — bot status", prefix)
	return b.String()
}
