package matching

import (
	"math"

	"github.com/mroshb/duo_finder/internal/models"
)

// Weights of each sub-score in the total. DefaultWeights sums to 1.
type Weights struct {
	Time          float64
	Tier          float64
	Role          float64
	GameMode      float64
	Communication float64
	Personality   float64
}

var DefaultWeights = Weights{
	Time:          0.25,
	Tier:          0.20,
	Role:          0.20,
	GameMode:      0.15,
	Communication: 0.12,
	Personality:   0.08,
}

func (w Weights) Sum() float64 {
	return w.Time + w.Tier + w.Role + w.GameMode + w.Communication + w.Personality
}

// Candidate is a player as seen by the scorer: who they are and what they queued for.
type Candidate struct {
	Profile *models.UserProfile
	Entry   *models.QueueEntry
}

func (c Candidate) UserID() string {
	if c.Entry != nil {
		return c.Entry.UserID
	}
	if c.Profile != nil {
		return c.Profile.ID
	}
	return ""
}

func (c Candidate) schedule() Schedule {
	return Schedule{Days: c.Entry.PlayDays, Start: c.Entry.PlayTimeStart, End: c.Entry.PlayTimeEnd}
}

func (c Candidate) tierRange() TierRange {
	return TierRange{Min: c.Entry.MinTier, Max: c.Entry.MaxTier}
}

// Breakdown keeps every sub-score next to the rounded total.
type Breakdown struct {
	Time          float64 `json:"time"`
	Tier          float64 `json:"tier"`
	Role          float64 `json:"role"`
	GameMode      float64 `json:"gameMode"`
	Communication float64 `json:"communication"`
	Personality   float64 `json:"personality"`
	Total         float64 `json:"total"`
}

type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score is the compatibility of b for requester a, rounded to two decimals.
// Communication is judged from a's side only, so Score(a, b) and Score(b, a) can differ.
func (s *Scorer) Score(a, b Candidate) float64 {
	return s.Breakdown(a, b).Total
}

func (s *Scorer) Breakdown(a, b Candidate) Breakdown {
	bd := Breakdown{
		Time:          TimeOverlap(a.schedule(), b.schedule()),
		Tier:          TierOverlap(a.tierRange(), b.tierRange()),
		Role:          RoleFit(a.Entry.PreferredRole, a.Profile.MainRole, b.Entry.PreferredRole, b.Profile.MainRole),
		GameMode:      GameModeOverlap(a.Entry.GameModes, b.Entry.GameModes),
		Communication: CommunicationFit(a.Profile.PreferredTeammateCommunication, b.Profile.SelfCommunicationStyle),
		Personality:   PersonalityFit(a.Profile.MBTI, b.Profile.MBTI),
	}

	w := s.weights
	total := bd.Time*w.Time +
		bd.Tier*w.Tier +
		bd.Role*w.Role +
		bd.GameMode*w.GameMode +
		bd.Communication*w.Communication +
		bd.Personality*w.Personality
	bd.Total = round2(total)
	return bd
}

var defaultScorer = NewScorer(DefaultWeights)

// Score uses DefaultWeights.
func Score(a, b Candidate) float64 {
	return defaultScorer.Score(a, b)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
