package watch

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tweetwatch/internal/model"
)

func TestRegistryAddRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	if err := r.Add("g1", "c1", "alpha"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := r.Add("g1", "c1", "alpha"); !errors.Is(err, ErrAlreadyWatched) {
		t.Errorf("expected ErrAlreadyWatched, got %v", err)
	}
	// Same account in another channel is a separate watch.
	if err := r.Add("g1", "c2", "alpha"); err != nil {
		t.Errorf("add in second channel: %v", err)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	mustAdd(t, r, "g1", "c1", "alpha")
	mustAdd(t, r, "g1", "c2", "alpha")
	mustAdd(t, r, "g1", "c1", "beta")

	stillWatched, err := r.Remove("g1", "c1", "alpha")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !stillWatched {
		t.Error("alpha is still watched in c2, expected stillWatched=true")
	}

	stillWatched, err = r.Remove("g1", "c2", "alpha")
	if err != nil {
		t.Fatalf("remove second: %v", err)
	}
	if stillWatched {
		t.Error("alpha no longer watched anywhere, expected stillWatched=false")
	}

	if _, err := r.Remove("g1", "c1", "alpha"); !errors.Is(err, ErrNotWatched) {
		t.Errorf("expected ErrNotWatched, got %v", err)
	}
}

func TestRegistryListOrdering(t *testing.T) {
	r := NewRegistry()
	mustAdd(t, r, "g1", "c2", "zeta")
	mustAdd(t, r, "g1", "c2", "alpha")
	mustAdd(t, r, "g1", "c1", "beta")

	want := []model.ChannelWatches{
		{ChannelID: "c1", Accounts: []string{"beta"}},
		{ChannelID: "c2", Accounts: []string{"alpha", "zeta"}},
	}
	if diff := cmp.Diff(want, r.List("g1")); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}

	if got := r.List("unknown"); len(got) != 0 {
		t.Errorf("expected empty list for unknown guild, got %v", got)
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	mustAdd(t, r, "g2", "c1", "alpha")
	mustAdd(t, r, "g1", "c1", "beta")

	want := []GroupWatches{
		{GuildID: "g1", Channels: []model.ChannelWatches{{ChannelID: "c1", Accounts: []string{"beta"}}}},
		{GuildID: "g2", Channels: []model.ChannelWatches{{ChannelID: "c1", Accounts: []string{"alpha"}}}},
	}
	if diff := cmp.Diff(want, r.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrySettingsDefaults(t *testing.T) {
	r := NewRegistry()

	got := r.Settings("g1")
	want := model.DefaultSettings("g1")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}

	// Idempotent: second access returns the same settings.
	if diff := cmp.Diff(got, r.Settings("g1")); diff != "" {
		t.Errorf("repeat access mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistrySetInterval(t *testing.T) {
	r := NewRegistry()

	if err := r.SetInterval("g1", 2*time.Minute); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	if got := r.Settings("g1").CheckInterval; got != 2*time.Minute {
		t.Errorf("interval = %v, want 2m", got)
	}

	if err := r.SetInterval("g1", 59*time.Second); !errors.Is(err, ErrIntervalTooShort) {
		t.Errorf("expected ErrIntervalTooShort, got %v", err)
	}
	// Rejection leaves the previous value unchanged.
	if got := r.Settings("g1").CheckInterval; got != 2*time.Minute {
		t.Errorf("interval after rejection = %v, want 2m", got)
	}
}

func TestRegistrySettingsMutationIsolatedPerGuild(t *testing.T) {
	r := NewRegistry()
	r.SetIncludeRetweets("g1", true)
	r.SetMentionRole("g1", "role-1")
	r.SetEmbedColor("g1", 0xff0000)

	g1 := r.Settings("g1")
	if !g1.IncludeRetweets || g1.MentionRole != "role-1" || g1.EmbedColor != 0xff0000 {
		t.Errorf("g1 settings not applied: %+v", g1)
	}

	g2 := r.Settings("g2")
	if diff := cmp.Diff(model.DefaultSettings("g2"), g2); diff != "" {
		t.Errorf("g2 settings affected by g1 mutation (-want +got):\n%s", diff)
	}
}

func TestRegistryClearMentionRole(t *testing.T) {
	r := NewRegistry()
	r.SetMentionRole("g1", "role-1")
	r.SetMentionRole("g1", "")
	if got := r.Settings("g1").MentionRole; got != "" {
		t.Errorf("mention role = %q, want empty", got)
	}
}

func TestRegistryFilters(t *testing.T) {
	r := NewRegistry()

	rule, err := r.AddFilter("g1", model.FilterInclude, "broadcast")
	if err != nil {
		t.Fatalf("add filter: %v", err)
	}
	if rule.ID == 0 {
		t.Error("expected non-zero rule id")
	}

	if _, err := r.AddFilter("g1", model.FilterIncludeRe, "("); err == nil {
		t.Error("expected error for invalid regex")
	}
	if got := len(r.Filters("g1")); got != 1 {
		t.Errorf("rejected filter mutated state: got %d rules", got)
	}

	if err := r.RemoveFilter("g1", rule.ID); err != nil {
		t.Fatalf("remove filter: %v", err)
	}
	if err := r.RemoveFilter("g1", rule.ID); !errors.Is(err, ErrFilterNotFound) {
		t.Errorf("expected ErrFilterNotFound, got %v", err)
	}
}

func TestRegistryStats(t *testing.T) {
	r := NewRegistry()
	mustAdd(t, r, "g1", "c1", "alpha")
	mustAdd(t, r, "g1", "c1", "beta")
	mustAdd(t, r, "g1", "c2", "gamma")
	mustAdd(t, r, "g2", "c9", "delta")

	accounts, channels := r.Stats("g1")
	if accounts != 3 || channels != 2 {
		t.Errorf("stats = (%d accounts, %d channels), want (3, 2)", accounts, channels)
	}

	accounts, channels = r.Stats("empty")
	if accounts != 0 || channels != 0 {
		t.Errorf("stats for empty guild = (%d, %d), want (0, 0)", accounts, channels)
	}
}

func mustAdd(t *testing.T, r *Registry, guildID, channelID, account string) {
	t.Helper()
	if err := r.Add(guildID, channelID, account); err != nil {
		t.Fatalf("add %s/%s/%s: %v", guildID, channelID, account, err)
	}
}
