package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tweetwatch/internal/model"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		rules []model.FilterRule
		want  bool
	}{
		{
			name: "no rules passes",
			text: "Version 2.4 special broadcast",
			want: true,
		},
		{
			name: "include matches",
			text: "Version 2.4 special broadcast",
			rules: []model.FilterRule{
				{Kind: model.FilterInclude, Value: "broadcast"},
			},
			want: true,
		},
		{
			name: "include is case-insensitive",
			text: "MAINTENANCE complete",
			rules: []model.FilterRule{
				{Kind: model.FilterInclude, Value: "maintenance"},
			},
			want: true,
		},
		{
			name: "include misses",
			text: "Maintenance complete",
			rules: []model.FilterRule{
				{Kind: model.FilterInclude, Value: "broadcast"},
			},
			want: false,
		},
		{
			name: "any include suffices",
			text: "Maintenance complete",
			rules: []model.FilterRule{
				{Kind: model.FilterInclude, Value: "broadcast"},
				{Kind: model.FilterInclude, Value: "maintenance"},
			},
			want: true,
		},
		{
			name: "exclude vetoes",
			text: "Giveaway: win a promo code",
			rules: []model.FilterRule{
				{Kind: model.FilterExclude, Value: "giveaway"},
			},
			want: false,
		},
		{
			name: "exclude beats include",
			text: "Broadcast giveaway tonight",
			rules: []model.FilterRule{
				{Kind: model.FilterInclude, Value: "broadcast"},
				{Kind: model.FilterExclude, Value: "giveaway"},
			},
			want: false,
		},
		{
			name: "regex include",
			text: "Patch 2.4.1 notes",
			rules: []model.FilterRule{
				{Kind: model.FilterIncludeRe, Value: `patch \d+\.\d+`},
			},
			want: true,
		},
		{
			name: "regex exclude",
			text: "Survey: tell us about the event",
			rules: []model.FilterRule{
				{Kind: model.FilterExcludeRe, Value: `survey.*event`},
			},
			want: false,
		},
		{
			name: "invalid regex never matches",
			text: "anything",
			rules: []model.FilterRule{
				{Kind: model.FilterIncludeRe, Value: "("},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Match(tt.text, tt.rules)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateRegex(t *testing.T) {
	if err := ValidateRegex(`patch \d+`); err != nil {
		t.Errorf("unexpected error for valid pattern: %v", err)
	}
	if err := ValidateRegex("("); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestIsRetweet(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "rt prefix", text: "RT @Narushio_wuwa: notes are live", want: true},
		{name: "lowercase rt", text: "rt @someone: hello", want: true},
		{name: "retweet word", text: "Retweet to enter", want: true},
		{name: "leading whitespace", text: "  RT @a: b", want: true},
		{name: "plain tweet", text: "Version 2.4 broadcast", want: false},
		{name: "rt mid-text", text: "Starting soon, RT @a", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsRetweet(model.Item{Text: tt.text})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
