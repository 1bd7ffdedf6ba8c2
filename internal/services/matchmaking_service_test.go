package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/pkg/errors"
)

func TestStartMatchmaking_NoCandidateStaysQueued(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)

	outcome, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs())
	if err != nil {
		t.Fatalf("StartMatchmaking() error = %v", err)
	}
	if outcome.Matched() {
		t.Fatalf("StartMatchmaking() matched with empty queue: %+v", outcome.Match)
	}
	if outcome.Entry == nil || outcome.Entry.AnalyzedSentiment != "neutral" {
		t.Errorf("Entry = %+v, want neutral annotation", outcome.Entry)
	}
	if got := f.waitingCount(t, alice.ID); got != 1 {
		t.Errorf("waiting entries = %d, want 1", got)
	}
}

func TestStartMatchmaking_PairsCompatibleUsers(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)
	bob := f.profile(t, "bob", models.RoleSupport)
	carol := f.profile(t, "carol", models.RoleTank)

	if _, err := f.matchmaking.StartMatchmaking(ctx, carol.ID, sundayPrefs()); err != nil {
		t.Fatalf("carol StartMatchmaking() error = %v", err)
	}
	if _, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs()); err != nil {
		t.Fatalf("alice StartMatchmaking() error = %v", err)
	}

	f.clock.Advance(time.Minute)
	outcome, err := f.matchmaking.StartMatchmaking(ctx, bob.ID, eveningPrefs())
	if err != nil {
		t.Fatalf("bob StartMatchmaking() error = %v", err)
	}
	if !outcome.Matched() {
		t.Fatal("StartMatchmaking() did not match bob")
	}

	match := outcome.Match
	if match.User1ID != bob.ID || match.User2ID != alice.ID {
		t.Errorf("match users = %s/%s, want bob/alice", match.User1ID, match.User2ID)
	}
	if match.MatchScore != 0.8 {
		t.Errorf("MatchScore = %v, want 0.8", match.MatchScore)
	}
	if match.MatchExplanation != "매칭 점수 80%로 좋은 궁합입니다! 함께 게임을 즐겨보세요." {
		t.Errorf("MatchExplanation = %q", match.MatchExplanation)
	}
	if outcome.Partner.ID != alice.ID {
		t.Errorf("Partner = %s, want alice", outcome.Partner.Nickname)
	}

	for _, id := range []string{alice.ID, bob.ID} {
		if got := f.waitingCount(t, id); got != 0 {
			t.Errorf("waiting entries for %s = %d, want 0", id, got)
		}
	}
	if got := f.waitingCount(t, carol.ID); got != 1 {
		t.Errorf("carol waiting entries = %d, want 1", got)
	}

	for _, tc := range []struct {
		user    *models.UserProfile
		partner string
	}{{alice, "bob"}, {bob, "alice"}} {
		list, err := f.notifications.List(ctx, tc.user.ID, 0)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("notifications for %s = %d, want 1", tc.user.Nickname, len(list))
		}
		n := list[0]
		if n.Type != models.NotificationTypeMatchFound || n.Title != "매칭 성공!" {
			t.Errorf("notification = %+v", n)
		}
		if !strings.HasPrefix(n.Message, tc.partner+"님과") || n.MatchID == nil || *n.MatchID != match.ID {
			t.Errorf("notification for %s = %q (match %v)", tc.user.Nickname, n.Message, n.MatchID)
		}
	}

	if got := len(f.publisher.ofType(realtime.EventMatchCreated)); got != 2 {
		t.Errorf("match_created events = %d, want 2", got)
	}
	if got := len(f.publisher.ofType(realtime.EventNotificationCreated)); got != 2 {
		t.Errorf("notification_created events = %d, want 2", got)
	}
}

func TestStartMatchmaking_ExpiredPartnerIsIgnored(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)
	bob := f.profile(t, "bob", models.RoleSupport)

	if _, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs()); err != nil {
		t.Fatalf("alice StartMatchmaking() error = %v", err)
	}
	f.clock.Advance(6 * time.Minute)

	outcome, err := f.matchmaking.StartMatchmaking(ctx, bob.ID, eveningPrefs())
	if err != nil {
		t.Fatalf("bob StartMatchmaking() error = %v", err)
	}
	if outcome.Matched() {
		t.Error("bob matched an expired ticket")
	}
	if got := f.waitingCount(t, alice.ID); got != 0 {
		t.Errorf("alice waiting entries = %d, want 0 after sweep", got)
	}
}

func TestStartMatchmaking_RateLimited(t *testing.T) {
	f := newFixture(t, middleware.Limits{middleware.ActionMatching: 2})
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)

	for i := 0; i < 2; i++ {
		if _, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs()); err != nil {
			t.Fatalf("attempt %d error = %v", i+1, err)
		}
	}
	_, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs())
	assertCode(t, err, errors.ErrCodeRateLimitExceeded)

	if got := f.waitingCount(t, alice.ID); got != 1 {
		t.Errorf("waiting entries = %d, want 1", got)
	}
}

func TestStartMatchmaking_Rejects(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)

	badHours := eveningPrefs()
	badHours.PlayTimeStart, badHours.PlayTimeEnd = 20, 25

	tests := []struct {
		name   string
		userID string
		prefs  models.MatchmakingPreferences
		code   string
	}{
		{name: "Malformed user id", userID: "not-a-uuid", prefs: eveningPrefs(), code: errors.ErrCodeInvalidIdentifier},
		{name: "Unknown profile", userID: "7b0c4a52-1111-4c1e-9a55-6c0b1f0b9a11", prefs: eveningPrefs(), code: errors.ErrCodeNotFound},
		{name: "End hour out of range", userID: alice.ID, prefs: badHours, code: errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.matchmaking.StartMatchmaking(ctx, tt.userID, tt.prefs)
			assertCode(t, err, tt.code)
		})
	}
}

func TestStartMatchmaking_Cancel(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)

	if _, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs()); err != nil {
		t.Fatalf("StartMatchmaking() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := f.matchmaking.Cancel(ctx, alice.ID); err != nil {
			t.Fatalf("Cancel() #%d error = %v", i+1, err)
		}
	}
	if got := f.waitingCount(t, alice.ID); got != 0 {
		t.Errorf("waiting entries = %d, want 0", got)
	}
}

func TestStartMatchmaking_OvernightWindowIsQueued(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)

	overnight := eveningPrefs()
	overnight.PlayTimeStart, overnight.PlayTimeEnd = 22, 2
	overnight.MinTier, overnight.MaxTier = "Diamond1", "Gold5"

	outcome, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, overnight)
	if err != nil {
		t.Fatalf("StartMatchmaking() error = %v", err)
	}
	if outcome.Matched() {
		t.Fatal("StartMatchmaking() matched with empty queue")
	}
	entry := outcome.Entry
	if entry.PlayTimeStart != 22 || entry.PlayTimeEnd != 2 {
		t.Errorf("entry hours = %d-%d, want 22-2", entry.PlayTimeStart, entry.PlayTimeEnd)
	}
	if entry.MinTier != "Diamond1" || entry.MaxTier != "Gold5" {
		t.Errorf("entry tiers = %s-%s, want Diamond1-Gold5", entry.MinTier, entry.MaxTier)
	}
	if got := f.waitingCount(t, alice.ID); got != 1 {
		t.Errorf("waiting entries = %d, want 1", got)
	}
}

func TestStartMatchmaking_ConcurrentRequestersMatchOnce(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.profile(t, "alice", models.RoleTank)
	if _, err := f.matchmaking.StartMatchmaking(ctx, alice.ID, eveningPrefs()); err != nil {
		t.Fatalf("alice StartMatchmaking() error = %v", err)
	}
	f.clock.Advance(time.Minute)

	names := []string{"bob", "carol", "dave", "erin", "frank", "grace"}
	users := make([]*models.UserProfile, len(names))
	for i, name := range names {
		users[i] = f.profile(t, name, models.RoleSupport)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(users))
	for _, u := range users {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			if _, err := f.matchmaking.StartMatchmaking(ctx, userID, eveningPrefs()); err != nil {
				errs <- err
			}
		}(u.ID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("StartMatchmaking() error = %v", err)
	}

	history, err := f.matches.History(ctx, alice.ID)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("alice matched %d times, want 1", len(history))
	}

	all := append([]*models.UserProfile{alice}, users...)
	matched := 0
	for _, u := range all {
		h, err := f.matches.History(ctx, u.ID)
		if err != nil {
			t.Fatalf("History(%s) error = %v", u.Nickname, err)
		}
		if len(h) > 1 {
			t.Errorf("%s matched %d times, want at most 1", u.Nickname, len(h))
		}
		waiting := f.waitingCount(t, u.ID)
		if len(h) == 1 && waiting != 0 {
			t.Errorf("%s is matched and still waiting", u.Nickname)
		}
		matched += len(h)
	}
	if matched%2 != 0 {
		t.Errorf("matched users = %d, want an even count", matched)
	}
}
