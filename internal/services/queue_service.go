package services

import (
	"context"
	"time"

	"github.com/mroshb/duo_finder/internal/analysis"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

type QueueService struct {
	queue    *repositories.QueueRepository
	profiles *repositories.ProfileRepository
	metrics  *metrics.Manager
	ttl      time.Duration
	now      Clock
}

func NewQueueService(queue *repositories.QueueRepository, profiles *repositories.ProfileRepository, m *metrics.Manager, ttl time.Duration, now Clock) *QueueService {
	if now == nil {
		now = utcNow
	}
	return &QueueService{queue: queue, profiles: profiles, metrics: m, ttl: ttl, now: now}
}

// Enqueue replaces the user's waiting ticket with a fresh one built from prefs.
func (s *QueueService) Enqueue(ctx context.Context, userID string, prefs models.MatchmakingPreferences, annotation analysis.TextAnalysis) (*models.QueueEntry, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	prefs, err := prefs.Normalize()
	if err != nil {
		return nil, errors.New(errors.ErrCodeValidation, err.Error())
	}
	prefs.PriorityRequirements = security.SanitizeText(prefs.PriorityRequirements, security.MaxTextLength)

	if _, err := s.profiles.Get(ctx, userID); err != nil {
		return nil, err
	}

	entry := models.NewQueueEntry(userID, prefs, annotation.Keywords, annotation.Sentiment, s.now(), s.ttl)
	if err := s.queue.Enqueue(ctx, entry); err != nil {
		return nil, err
	}
	logger.Debug("User enqueued", "user_id", userID, "expires_at", entry.ExpiresAt)
	return entry, nil
}

func (s *QueueService) Withdraw(ctx context.Context, userID string) error {
	if err := security.ValidateUUID(userID); err != nil {
		return err
	}
	_, err := s.queue.Withdraw(ctx, userID)
	return err
}

// SweepExpired deletes dead tickets of every user and refreshes the queue gauge.
func (s *QueueService) SweepExpired(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.queue.SweepExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	s.metrics.AddQueueSwept(n)

	if waiting, err := s.queue.CountWaiting(ctx, now); err == nil {
		s.metrics.SetQueueWaiting(waiting)
	}
	if n > 0 {
		logger.Info("Swept expired queue entries", "count", n)
	}
	return n, nil
}

// Status returns the user's live ticket, or nil when there is none.
func (s *QueueService) Status(ctx context.Context, userID string) (*models.QueueEntry, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	entry, err := s.queue.GetWaiting(ctx, userID, s.now())
	if errors.Is(err, errors.ErrCodeNotWaiting) {
		return nil, nil
	}
	return entry, err
}
