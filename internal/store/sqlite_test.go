package store

import (
	"context"
	"testing"
	"time"

	"github.com/peake100/stalkbroker/internal/domain"
)

func openTestRepo(t *testing.T) *SQLiteRepo {
	t.Helper()
	repo, err := OpenSQLite(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUpsertUserIdempotent(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertUser(ctx, "discord-1", "guild-a")
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := repo.UpsertUser(ctx, "discord-1", "guild-a")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	// The internal id is assigned once and never reassigned.
	if first.ID != second.ID {
		t.Fatalf("internal id changed across upserts: %s vs %s", first.ID, second.ID)
	}
	if len(second.Servers) != 1 || second.Servers[0] != "guild-a" {
		t.Fatalf("want single membership guild-a, got %v", second.Servers)
	}
}

func TestUpsertUserMembershipSetUnion(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.UpsertUser(ctx, "discord-1", "guild-a"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := repo.UpsertUser(ctx, "discord-1", "guild-b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// DM contact adds nothing.
	user, err := repo.UpsertUser(ctx, "discord-1", "")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if len(user.Servers) != 2 {
		t.Fatalf("want 2 memberships, got %v", user.Servers)
	}
	if !user.MemberOf("guild-a") || !user.MemberOf("guild-b") {
		t.Fatalf("missing membership: %v", user.Servers)
	}
}

func TestUpdateTimezoneCreatesMissingUser(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	tz, err := time.LoadLocation("US/Pacific")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}

	// The user does not exist yet; the update must still succeed.
	if err := repo.UpdateTimezone(ctx, "discord-tz", "guild-a", tz); err != nil {
		t.Fatalf("update timezone: %v", err)
	}

	user, err := repo.UpsertUser(ctx, "discord-tz", "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if user.Timezone == nil || user.Timezone.String() != "US/Pacific" {
		t.Fatalf("want US/Pacific, got %v", user.Timezone)
	}
	if !user.MemberOf("guild-a") {
		t.Fatalf("membership should be recorded on the fallback path: %v", user.Servers)
	}
}

func TestUpdateNotifyOnBulletin(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user, err := repo.UpdateNotifyOnBulletin(ctx, "discord-sub", "", true)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !user.NotifyOnBulletin {
		t.Fatal("want subscribed")
	}

	user, err = repo.UpdateNotifyOnBulletin(ctx, "discord-sub", "", false)
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	if user.NotifyOnBulletin {
		t.Fatal("want unsubscribed")
	}
}

func TestServerSettings(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first, err := repo.UpsertServer(ctx, "guild-1")
	if err != nil {
		t.Fatalf("upsert server: %v", err)
	}

	server, err := repo.SetBulletinChannel(ctx, "guild-1", "channel-9")
	if err != nil {
		t.Fatalf("set channel: %v", err)
	}
	if server.ID != first.ID {
		t.Fatal("setter must not recreate the server")
	}
	if server.BulletinChannel != "channel-9" {
		t.Fatalf("want channel-9, got %s", server.BulletinChannel)
	}

	server, err = repo.SetBulletinMinimum(ctx, "guild-1", 200)
	if err != nil {
		t.Fatalf("set minimum: %v", err)
	}
	if server.BulletinMinimum != 200 {
		t.Fatalf("want minimum 200, got %d", server.BulletinMinimum)
	}
	if server.BulletinChannel != "channel-9" {
		t.Fatal("narrow setter clobbered the bulletin channel")
	}

	// Narrow setters also create-on-first-contact.
	server, err = repo.SetHeatMinimum(ctx, "guild-2", 50)
	if err != nil {
		t.Fatalf("set heat minimum: %v", err)
	}
	if server.HeatMinimum != 50 {
		t.Fatalf("want heat minimum 50, got %d", server.HeatMinimum)
	}
}

func TestTickerLifecycle(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user, err := repo.UpsertUser(ctx, "discord-ticker", "guild-a")
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	// 2020-05-10 was a Sunday.
	weekOf := time.Date(2020, time.May, 10, 0, 0, 0, 0, time.UTC)
	monday := weekOf.Add(24 * time.Hour)

	// Absent ticker comes back fresh and unpersisted.
	ticker, err := repo.FetchTicker(ctx, user, weekOf)
	if err != nil {
		t.Fatalf("fetch ticker: %v", err)
	}
	if ticker.PurchasePrice != nil || len(ticker.Phases) != 0 {
		t.Fatal("fresh ticker should be empty")
	}

	// Sunday buy-in price lands on purchase_price.
	ticker, err = repo.UpdateTickerPrice(ctx, user, weekOf, weekOf, nil, 101)
	if err != nil {
		t.Fatalf("sunday update: %v", err)
	}
	if ticker.PurchasePrice == nil || *ticker.PurchasePrice != 101 {
		t.Fatalf("want purchase price 101, got %v", ticker.PurchasePrice)
	}

	// A weekday price lands on exactly one phase slot.
	am := domain.AM
	ticker, err = repo.UpdateTickerPrice(ctx, user, weekOf, monday, &am, 88)
	if err != nil {
		t.Fatalf("monday update: %v", err)
	}
	if got := ticker.Phases[0]; got != 88 {
		t.Fatalf("want phase 0 = 88, got %d", got)
	}
	if ticker.PurchasePrice == nil || *ticker.PurchasePrice != 101 {
		t.Fatal("phase update clobbered the purchase price")
	}

	// Updating a second phase leaves the first untouched.
	pm := domain.PM
	ticker, err = repo.UpdateTickerPrice(ctx, user, weekOf, monday, &pm, 74)
	if err != nil {
		t.Fatalf("monday PM update: %v", err)
	}
	if ticker.Phases[0] != 88 || ticker.Phases[1] != 74 {
		t.Fatalf("want phases {0:88, 1:74}, got %v", ticker.Phases)
	}

	// Invalid period is rejected before any write.
	if _, err := repo.UpdateTickerPrice(ctx, user, weekOf, monday, nil, 50); err == nil {
		t.Fatal("weekday update with nil time of day should fail")
	}
}

func TestTickerPatternAndPreviousWeek(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user, err := repo.UpsertUser(ctx, "discord-pattern", "")
	if err != nil {
		t.Fatalf("upsert user: %v", err)
	}

	lastWeek := time.Date(2020, time.May, 3, 0, 0, 0, 0, time.UTC)
	thisWeek := time.Date(2020, time.May, 10, 0, 0, 0, 0, time.UTC)

	// No record at all: unknown.
	pattern, err := repo.FetchPreviousPattern(ctx, user, thisWeek)
	if err != nil {
		t.Fatalf("fetch previous pattern: %v", err)
	}
	if pattern != domain.PatternUnknown {
		t.Fatalf("want unknown, got %v", pattern)
	}

	if err := repo.UpdateTickerPattern(ctx, user, lastWeek, domain.PatternBigSpike); err != nil {
		t.Fatalf("update pattern: %v", err)
	}

	pattern, err = repo.FetchPreviousPattern(ctx, user, thisWeek)
	if err != nil {
		t.Fatalf("fetch previous pattern: %v", err)
	}
	if pattern != domain.PatternBigSpike {
		t.Fatalf("want big spike, got %v", pattern)
	}

	ticker, err := repo.FetchTicker(ctx, user, lastWeek)
	if err != nil {
		t.Fatalf("fetch ticker: %v", err)
	}
	if ticker.FinalPattern == nil || *ticker.FinalPattern != domain.PatternBigSpike {
		t.Fatalf("want stored final pattern, got %v", ticker.FinalPattern)
	}
}

func TestListSubscribers(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	if _, err := repo.UpdateNotifyOnBulletin(ctx, "alice", "guild-1", true); err != nil {
		t.Fatalf("subscribe alice: %v", err)
	}
	if _, err := repo.UpdateNotifyOnBulletin(ctx, "bob", "guild-1", true); err != nil {
		t.Fatalf("subscribe bob: %v", err)
	}
	// Member of the guild, but not subscribed.
	if _, err := repo.UpsertUser(ctx, "carol", "guild-1"); err != nil {
		t.Fatalf("upsert carol: %v", err)
	}
	// Subscribed, but on a different guild.
	if _, err := repo.UpdateNotifyOnBulletin(ctx, "dave", "guild-2", true); err != nil {
		t.Fatalf("subscribe dave: %v", err)
	}

	subscribers, err := repo.ListSubscribers(ctx, "guild-1")
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	want := []string{"alice", "bob"}
	if len(subscribers) != len(want) {
		t.Fatalf("subscribers = %v, want %v", subscribers, want)
	}
	for i := range want {
		if subscribers[i] != want[i] {
			t.Fatalf("subscribers = %v, want %v", subscribers, want)
		}
	}

	// Unsubscribing removes the ping.
	if _, err := repo.UpdateNotifyOnBulletin(ctx, "bob", "guild-1", false); err != nil {
		t.Fatalf("unsubscribe bob: %v", err)
	}
	subscribers, err = repo.ListSubscribers(ctx, "guild-1")
	if err != nil {
		t.Fatalf("list subscribers: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0] != "alice" {
		t.Fatalf("subscribers = %v, want [alice]", subscribers)
	}
}
