package services

import (
	"context"

	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

// Pusher delivers a stored notification outside the app.
type Pusher interface {
	Push(ctx context.Context, chatID int64, n *models.Notification) error
}

type NotificationService struct {
	repo      *repositories.NotificationRepository
	profiles  *repositories.ProfileRepository
	limiter   middleware.RateLimiter
	publisher realtime.Publisher
	pusher    Pusher
	metrics   *metrics.Manager
	now       Clock
}

type NotificationServiceOptions struct {
	Limiter   middleware.RateLimiter
	Publisher realtime.Publisher
	Pusher    Pusher
	Metrics   *metrics.Manager
	Now       Clock
}

func NewNotificationService(repo *repositories.NotificationRepository, profiles *repositories.ProfileRepository, opts NotificationServiceOptions) *NotificationService {
	if opts.Now == nil {
		opts.Now = utcNow
	}
	return &NotificationService{
		repo:      repo,
		profiles:  profiles,
		limiter:   opts.Limiter,
		publisher: opts.Publisher,
		pusher:    opts.Pusher,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
}

// Notify stores a notification for userID, announces it on the feed and
// pushes it when the user linked a Telegram chat. Only storing can fail.
func (s *NotificationService) Notify(ctx context.Context, userID, notificationType, title, message string, matchID *string) (*models.Notification, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	if err := checkRate(ctx, s.limiter, s.metrics, middleware.ActionNotification, userID); err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    notificationType,
		Title:   security.SanitizeText(title, 100),
		Message: security.SanitizeText(message, security.MaxTextLength),
		MatchID: matchID,
	}
	err := s.repo.Create(ctx, n)
	s.metrics.RecordNotification("store", err)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := realtime.Event{
			Type:           realtime.EventNotificationCreated,
			UserID:         userID,
			NotificationID: n.ID,
			OccurredAt:     s.now(),
		}
		if matchID != nil {
			event.MatchID = *matchID
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Warn("Failed to publish notification event", "notification_id", n.ID, "error", err)
		}
	}

	s.push(ctx, n)
	return n, nil
}

func (s *NotificationService) push(ctx context.Context, n *models.Notification) {
	if s.pusher == nil {
		return
	}
	profile, err := s.profiles.Get(ctx, n.UserID)
	if err != nil || profile.TelegramChatID == 0 {
		return
	}
	err = s.pusher.Push(ctx, profile.TelegramChatID, n)
	s.metrics.RecordNotification("telegram", err)
	if err != nil {
		logger.Warn("Failed to push notification", "notification_id", n.ID, "user_id", n.UserID, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := validateIDs(notificationID, userID); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, notificationID, userID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return 0, err
	}
	return s.repo.CountUnread(ctx, userID)
}
