package filter

import (
	"strings"

	"tweetwatch/internal/model"
)

// Classifier reports whether an item is a retweet of other content.
// The scheduler applies it but does not define it, so the heuristic can
// change without touching the poll loop.
type Classifier func(item model.Item) bool

// IsRetweet is the default Classifier: a text-prefix heuristic over the
// rendered tweet text, which Nitter prefixes with "RT @" for retweets.
func IsRetweet(item model.Item) bool {
	text := strings.ToLower(strings.TrimSpace(item.Text))
	return strings.HasPrefix(text, "rt @") || strings.HasPrefix(text, "retweet")
}
