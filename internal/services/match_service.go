package services

import (
	"context"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

// MatchService owns the match record lifecycle.
type MatchService struct {
	repo      *repositories.MatchRepository
	publisher realtime.Publisher
	metrics   *metrics.Manager
	now       Clock
}

func NewMatchService(repo *repositories.MatchRepository, publisher realtime.Publisher, m *metrics.Manager, now Clock) *MatchService {
	if now == nil {
		now = utcNow
	}
	return &MatchService{repo: repo, publisher: publisher, metrics: m, now: now}
}

// CommitMatch records the pairing and consumes both waiting tickets
// atomically. CONFLICT means one of the tickets was already gone.
func (s *MatchService) CommitMatch(ctx context.Context, user1ID, user2ID string, score float64, explanation string) (*models.Match, error) {
	if err := validateIDs(user1ID, user2ID); err != nil {
		return nil, err
	}

	match := models.NewMatch(user1ID, user2ID, score, explanation, s.now())
	if err := s.repo.CommitMatch(ctx, match); err != nil {
		return nil, err
	}
	s.metrics.ObserveMatchScore(score)
	logger.Info("Match committed", "match_id", match.ID, "user1_id", user1ID, "user2_id", user2ID, "score", score)

	s.publish(ctx, realtime.EventMatchCreated, match)
	return match, nil
}

// Get returns the match if userID is one of its parties.
func (s *MatchService) Get(ctx context.Context, matchID, userID string) (*models.Match, error) {
	if err := validateIDs(matchID, userID); err != nil {
		return nil, err
	}
	match, err := s.repo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(userID) {
		return nil, errors.New(errors.ErrCodeForbidden, "user is not part of this match")
	}
	return match, nil
}

func (s *MatchService) History(ctx context.Context, userID string) ([]models.Match, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	return s.repo.ListForUser(ctx, userID)
}

// SetStatus writes userID's own status on the match.
func (s *MatchService) SetStatus(ctx context.Context, matchID, userID string, status models.MatchStatus) (*models.Match, error) {
	if err := validateIDs(matchID, userID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, errors.New(errors.ErrCodeValidation, "invalid match status: "+string(status))
	}

	match, err := s.repo.UpdateStatus(ctx, matchID, userID, status)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.EventMatchUpdated, match)
	return match, nil
}

// SetDiscordShared writes userID's own disclosure flag on the match.
func (s *MatchService) SetDiscordShared(ctx context.Context, matchID, userID string, shared bool) (*models.Match, error) {
	if err := validateIDs(matchID, userID); err != nil {
		return nil, err
	}

	match, err := s.repo.SetDiscordShared(ctx, matchID, userID, shared)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, realtime.EventMatchUpdated, match)
	return match, nil
}

func (s *MatchService) publish(ctx context.Context, eventType string, match *models.Match) {
	if s.publisher == nil {
		return
	}
	for _, userID := range []string{match.User1ID, match.User2ID} {
		event := realtime.Event{
			Type:       eventType,
			UserID:     userID,
			MatchID:    match.ID,
			Score:      match.MatchScore,
			OccurredAt: s.now(),
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			logger.Warn("Failed to publish match event", "type", eventType, "match_id", match.ID, "user_id", userID, "error", err)
		}
	}
}

func validateIDs(ids ...string) error {
	for _, id := range ids {
		if err := security.ValidateUUID(id); err != nil {
			return err
		}
	}
	return nil
}
