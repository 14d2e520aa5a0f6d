// Package filter implements tweet content matching: per-guild keyword
// rules and the retweet classifier.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"tweetwatch/internal/model"
)

// Match checks whether tweet text passes the given set of rules.
// If no rules are provided, the text always passes.
// Include rules use OR logic (at least one must match).
// Exclude rules use AND logic (none must match).
func Match(text string, rules []model.FilterRule) bool {
	if len(rules) == 0 {
		return true
	}

	hasIncludes := false
	anyIncludeMatched := false

	for _, r := range rules {
		switch r.Kind {
		case model.FilterInclude, model.FilterIncludeRe:
			hasIncludes = true
			if matchesRule(text, r) {
				anyIncludeMatched = true
			}
		case model.FilterExclude, model.FilterExcludeRe:
			if matchesRule(text, r) {
				return false
			}
		}
	}

	if hasIncludes && !anyIncludeMatched {
		return false
	}
	return true
}

func matchesRule(text string, r model.FilterRule) bool {
	lowered := strings.ToLower(text)
	switch r.Kind {
	case model.FilterInclude, model.FilterExclude:
		return strings.Contains(lowered, strings.ToLower(r.Value))
	case model.FilterIncludeRe, model.FilterExcludeRe:
		re, err := regexp.Compile("(?i)" + r.Value)
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	return false
}

// ValidateRegex checks whether a pattern is a valid regular expression.
func ValidateRegex(pattern string) error {
	_, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return fmt.Errorf("invalid regex: %w", err)
	}
	return nil
}
