package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mroshb/duo_finder/internal/analysis"
	"github.com/mroshb/duo_finder/internal/database/dbtest"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event realtime.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType string) []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []realtime.Event
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordingPusher struct {
	mu     sync.Mutex
	chats  []int64
	failOn int64
}

func (p *recordingPusher) Push(_ context.Context, chatID int64, _ *models.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if chatID == p.failOn {
		return errors.New(errors.ErrCodeDependencyUnavailable, "telegram down")
	}
	p.chats = append(p.chats, chatID)
	return nil
}

type fixture struct {
	db    *gorm.DB
	clock *testClock

	profileRepo      *repositories.ProfileRepository
	queueRepo        *repositories.QueueRepository
	matchRepo        *repositories.MatchRepository
	notificationRepo *repositories.NotificationRepository

	publisher *recordingPublisher
	pusher    *recordingPusher
	limiter   *middleware.MemoryRateLimiter

	profiles      *ProfileService
	queue         *QueueService
	matchmaker    *Matchmaker
	matches       *MatchService
	notifications *NotificationService
	matchmaking   *MatchmakingService
}

func newFixture(t *testing.T, limits middleware.Limits) *fixture {
	t.Helper()
	f := &fixture{
		db:        dbtest.New(t),
		clock:     &testClock{t: baseTime},
		publisher: &recordingPublisher{},
		pusher:    &recordingPusher{},
	}
	if limits == nil {
		limits = middleware.Limits{}
	}
	f.limiter = middleware.NewMemoryRateLimiter(limits, time.Minute)
	t.Cleanup(f.limiter.Close)

	f.profileRepo = repositories.NewProfileRepository(f.db)
	f.queueRepo = repositories.NewQueueRepository(f.db)
	f.matchRepo = repositories.NewMatchRepository(f.db)
	f.notificationRepo = repositories.NewNotificationRepository(f.db)

	f.profiles = NewProfileService(f.profileRepo)
	f.queue = NewQueueService(f.queueRepo, f.profileRepo, nil, 5*time.Minute, f.clock.Now)
	f.matchmaker = NewMatchmaker(f.queueRepo, f.profileRepo, nil, f.clock.Now)
	f.matches = NewMatchService(f.matchRepo, f.publisher, nil, f.clock.Now)
	f.notifications = NewNotificationService(f.notificationRepo, f.profileRepo, NotificationServiceOptions{
		Limiter:   f.limiter,
		Publisher: f.publisher,
		Pusher:    f.pusher,
		Now:       f.clock.Now,
	})
	f.matchmaking = NewMatchmakingService(MatchmakingDeps{
		Queue:         f.queue,
		Matchmaker:    f.matchmaker,
		Matches:       f.matches,
		Notifications: f.notifications,
		Annotator:     analysis.NewAnnotator(nil, nil),
		Limiter:       f.limiter,
	})
	return f
}

func (f *fixture) profile(t *testing.T, nickname string, role models.Role) *models.UserProfile {
	t.Helper()
	p, err := f.profileRepo.Upsert(context.Background(), &models.UserProfile{
		ID:       uuid.NewString(),
		Nickname: nickname,
		MainRole: role,
	})
	if err != nil {
		t.Fatalf("seed profile %q: %v", nickname, err)
	}
	return p
}

func (f *fixture) waitingCount(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Model(&models.QueueEntry{}).
		Where("user_id = ? AND status = ?", userID, models.QueueStatusWaiting).
		Count(&n).Error; err != nil {
		t.Fatalf("count waiting: %v", err)
	}
	return n
}

// eveningPrefs scores 0.80 against itself for profiles without MBTI or
// communication styles.
func eveningPrefs() models.MatchmakingPreferences {
	return models.MatchmakingPreferences{
		GameModes:     []models.GameMode{models.GameModeCompetitive},
		PlayDays:      []models.DayOfWeek{models.Monday, models.Tuesday},
		PlayTimeStart: 18,
		PlayTimeEnd:   23,
	}
}

func sundayPrefs() models.MatchmakingPreferences {
	return models.MatchmakingPreferences{
		GameModes:     []models.GameMode{models.GameModeArcade},
		PlayDays:      []models.DayOfWeek{models.Sunday},
		PlayTimeStart: 9,
		PlayTimeEnd:   12,
		PreferredRole: models.RoleDamage,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Errorf("error = %v, want code %s", err, code)
	}
}
