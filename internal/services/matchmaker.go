package services

import (
	"context"

	"github.com/mroshb/duo_finder/internal/matching"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/security"
)

// Proposal is the best qualified partner found for a requester.
type Proposal struct {
	Requester      *models.UserProfile
	RequesterEntry *models.QueueEntry
	Partner        *models.UserProfile
	PartnerEntry   *models.QueueEntry
	Score          float64
}

// Matchmaker scans the queue on behalf of one requester.
type Matchmaker struct {
	queue    *repositories.QueueRepository
	profiles *repositories.ProfileRepository
	ranker   *matching.Ranker
	now      Clock
}

func NewMatchmaker(queue *repositories.QueueRepository, profiles *repositories.ProfileRepository, ranker *matching.Ranker, now Clock) *Matchmaker {
	if ranker == nil {
		ranker = matching.NewRanker(matching.NewScorer(matching.DefaultWeights), matching.AcceptanceThreshold)
	}
	if now == nil {
		now = utcNow
	}
	return &Matchmaker{queue: queue, profiles: profiles, ranker: ranker, now: now}
}

// FindMatch returns the highest scoring waiting candidate at or above the
// acceptance threshold, or nil when none qualifies. The requester must hold a
// live ticket, otherwise NOT_WAITING.
func (m *Matchmaker) FindMatch(ctx context.Context, requesterID string) (*Proposal, error) {
	if err := security.ValidateUUID(requesterID); err != nil {
		return nil, err
	}

	now := m.now()
	profile, err := m.profiles.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	entry, err := m.queue.GetWaiting(ctx, requesterID, now)
	if err != nil {
		return nil, err
	}

	entries, err := m.queue.ListWaitingExcept(ctx, requesterID, now)
	if err != nil {
		return nil, err
	}
	candidates := make([]matching.Candidate, len(entries))
	for i := range entries {
		candidates[i] = matching.Candidate{Profile: &entries[i].User, Entry: &entries[i]}
	}

	best, ok := m.ranker.Best(matching.Candidate{Profile: profile, Entry: entry}, candidates)
	if !ok {
		return nil, nil
	}
	return &Proposal{
		Requester:      profile,
		RequesterEntry: entry,
		Partner:        best.Profile,
		PartnerEntry:   best.Entry,
		Score:          best.Score,
	}, nil
}
