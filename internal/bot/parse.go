package bot

import (
	"fmt"
	"strconv"
	"strings"

	"tweetwatch/internal/model"
)

// ParseWatchArgs parses "<@handle> [#channel]" for watch/unwatch.
// The channel id is empty when no channel mention was given.
func ParseWatchArgs(args string) (handle, channelID string, err error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", "", fmt.Errorf("account handle is required")
	}
	handle = parts[0]
	if len(parts) > 1 {
		id, ok := ParseChannelMention(parts[1])
		if !ok {
			return "", "", fmt.Errorf("invalid channel %q, mention it like #news", parts[1])
		}
		channelID = id
	}
	return handle, channelID, nil
}

// ParseChannelMention extracts the id from a <#123> channel mention.
func ParseChannelMention(s string) (string, bool) {
	if !strings.HasPrefix(s, "<#") || !strings.HasSuffix(s, ">") {
		return "", false
	}
	id := s[2 : len(s)-1]
	if id == "" {
		return "", false
	}
	return id, true
}

// ParseBoolToken parses the accepted boolean vocabulary.
func ParseBoolToken(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q, use true/false, yes/no, on/off, 1/0", s)
}

// ParseRoleValue parses the value of "set role": a <@&123> role mention,
// or a clear token (none/off/reset).
func ParseRoleValue(s string) (roleID string, clear bool, err error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "none", "off", "reset":
		return "", true, nil
	}
	if strings.HasPrefix(s, "<@&") && strings.HasSuffix(s, ">") {
		id := s[3 : len(s)-1]
		if _, convErr := strconv.ParseUint(id, 10, 64); convErr != nil {
			return "", false, fmt.Errorf("invalid role id %q", id)
		}
		return id, false, nil
	}
	return "", false, fmt.Errorf("mention a role (@role) or use \"none\" to clear")
}

// ParseColor parses a hex color value like #00d4ff, 0x00d4ff, or 00d4ff.
func ParseColor(s string) (int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || v > 0xffffff {
		return 0, fmt.Errorf("invalid color %q, use hex like #00d4ff", s)
	}
	return int(v), nil
}

// ParseFilterKind validates a filter kind token.
func ParseFilterKind(s string) (model.FilterKind, error) {
	switch model.FilterKind(strings.ToLower(s)) {
	case model.FilterInclude:
		return model.FilterInclude, nil
	case model.FilterExclude:
		return model.FilterExclude, nil
	case model.FilterIncludeRe:
		return model.FilterIncludeRe, nil
	case model.FilterExcludeRe:
		return model.FilterExcludeRe, nil
	}
	return "", fmt.Errorf("invalid filter kind %q, use include, exclude, include_re, exclude_re", s)
}

// ParseFilterAddArgs parses "add <kind> <value...>" minus the leading add.
func ParseFilterAddArgs(args string) (model.FilterKind, string, error) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("usage: filter add <kind> <value>")
	}
	kind, err := ParseFilterKind(parts[0])
	if err != nil {
		return "", "", err
	}
	value := strings.TrimSpace(parts[1])
	if value == "" {
		return "", "", fmt.Errorf("filter value is required")
	}
	return kind, value, nil
}

// ParseIDArg extracts a numeric id from a command argument string.
func ParseIDArg(args string) (int64, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return 0, fmt.Errorf("id is required")
	}
	id, err := strconv.ParseInt(strings.Fields(s)[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// ParseIntervalSeconds parses the "set interval" value in seconds.
func ParseIntervalSeconds(s string) (int, error) {
	secs, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("invalid interval %q, use a number of seconds", s)
	}
	return secs, nil
}
