package services

import (
	"context"

	"github.com/mroshb/duo_finder/internal/analysis"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

const matchFoundTitle = "매칭 성공!"

// Outcome of one matchmaking attempt. Match is nil when the requester was
// left waiting.
type Outcome struct {
	Entry   *models.QueueEntry  `json:"entry,omitempty"`
	Match   *models.Match       `json:"match,omitempty"`
	Partner *models.UserProfile `json:"partner,omitempty"`
}

func (o *Outcome) Matched() bool {
	return o != nil && o.Match != nil
}

type MatchmakingService struct {
	queue         *QueueService
	matchmaker    *Matchmaker
	matches       *MatchService
	notifications *NotificationService
	annotator     *analysis.Annotator
	limiter       middleware.RateLimiter
	metrics       *metrics.Manager
}

type MatchmakingDeps struct {
	Queue         *QueueService
	Matchmaker    *Matchmaker
	Matches       *MatchService
	Notifications *NotificationService
	Annotator     *analysis.Annotator
	Limiter       middleware.RateLimiter
	Metrics       *metrics.Manager
}

func NewMatchmakingService(deps MatchmakingDeps) *MatchmakingService {
	if deps.Annotator == nil {
		deps.Annotator = analysis.NewAnnotator(nil, deps.Metrics)
	}
	return &MatchmakingService{
		queue:         deps.Queue,
		matchmaker:    deps.Matchmaker,
		matches:       deps.Matches,
		notifications: deps.Notifications,
		annotator:     deps.Annotator,
		limiter:       deps.Limiter,
		metrics:       deps.Metrics,
	}
}

// StartMatchmaking queues the user with prefs and tries to pair them at once.
// With no qualified partner, or when the partner was taken concurrently, the
// user stays queued and the outcome carries no match.
func (s *MatchmakingService) StartMatchmaking(ctx context.Context, userID string, prefs models.MatchmakingPreferences) (*Outcome, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	if err := checkRate(ctx, s.limiter, s.metrics, middleware.ActionMatching, userID); err != nil {
		return nil, err
	}

	if _, err := s.queue.SweepExpired(ctx); err != nil {
		logger.Warn("Expiry sweep failed before matchmaking", "user_id", userID, "error", err)
	}

	entry, err := s.queue.Enqueue(ctx, userID, prefs, s.analyze(ctx, userID, prefs.PriorityRequirements))
	if err != nil {
		s.metrics.RecordMatchmakingAttempt(metrics.OutcomeError)
		return nil, err
	}
	outcome := &Outcome{Entry: entry}

	proposal, err := s.matchmaker.FindMatch(ctx, userID)
	if err != nil {
		s.metrics.RecordMatchmakingAttempt(metrics.OutcomeError)
		return nil, err
	}
	if proposal == nil {
		s.metrics.RecordMatchmakingAttempt(metrics.OutcomeQueued)
		return outcome, nil
	}

	explanation := s.annotator.Explain(ctx, proposal.Requester, proposal.Partner, proposal.Score)
	match, err := s.matches.CommitMatch(ctx, userID, proposal.Partner.ID, proposal.Score, explanation)
	if errors.Is(err, errors.ErrCodeConflict) {
		logger.Info("Partner was matched concurrently, staying queued", "user_id", userID, "partner_id", proposal.Partner.ID)
		s.metrics.RecordMatchmakingAttempt(metrics.OutcomeConflict)
		return outcome, nil
	}
	if err != nil {
		s.metrics.RecordMatchmakingAttempt(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.RecordMatchmakingAttempt(metrics.OutcomeMatched)
	s.notifyMatched(ctx, match, proposal.Requester, proposal.Partner)

	match.User1 = *proposal.Requester
	match.User2 = *proposal.Partner
	outcome.Match = match
	outcome.Partner = proposal.Partner
	return outcome, nil
}

// analyze annotates the priority text. Rate limited or failed analysis
// falls back to a neutral annotation.
func (s *MatchmakingService) analyze(ctx context.Context, userID, text string) analysis.TextAnalysis {
	text = security.SanitizeText(text, security.MaxTextLength)
	if text == "" {
		return analysis.NeutralAnalysis()
	}
	if err := checkRate(ctx, s.limiter, s.metrics, middleware.ActionAnalysis, userID); err != nil {
		logger.Warn("Skipping text analysis", "user_id", userID, "error", err)
		return analysis.NeutralAnalysis()
	}
	return s.annotator.Analyze(ctx, text)
}

// notifyMatched tells both users about the match. Each send is independent.
func (s *MatchmakingService) notifyMatched(ctx context.Context, match *models.Match, requester, partner *models.UserProfile) {
	if s.notifications == nil {
		return
	}

	var g errgroup.Group
	for _, pair := range [][2]*models.UserProfile{{requester, partner}, {partner, requester}} {
		recipient, other := pair[0], pair[1]
		g.Go(func() error {
			matchID := match.ID
			_, err := s.notifications.Notify(ctx, recipient.ID, models.NotificationTypeMatchFound,
				matchFoundTitle, other.Nickname+"님과 매칭되었습니다!", &matchID)
			if err != nil {
				logger.Warn("Failed to send match notification", "match_id", match.ID, "user_id", recipient.ID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Cancel withdraws the user's waiting ticket.
func (s *MatchmakingService) Cancel(ctx context.Context, userID string) error {
	return s.queue.Withdraw(ctx, userID)
}
