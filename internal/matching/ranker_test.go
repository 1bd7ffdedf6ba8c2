package matching

import (
	"testing"

	"github.com/mroshb/duo_finder/internal/models"
)

type fixedScorer map[string]float64

func (f fixedScorer) Score(_, b Candidate) float64 {
	return f[b.UserID()]
}

func queued(id string) Candidate {
	return Candidate{Profile: &models.UserProfile{ID: id}, Entry: &models.QueueEntry{UserID: id}}
}

func TestRanker_Best(t *testing.T) {
	tests := []struct {
		name       string
		scores     fixedScorer
		candidates []string
		wantID     string
		wantOK     bool
	}{
		{
			name:       "Highest qualifying candidate wins",
			scores:     fixedScorer{"c1": 0.55, "c2": 0.61, "c3": 0.75},
			candidates: []string{"c1", "c2", "c3"},
			wantID:     "c3",
			wantOK:     true,
		},
		{
			name:       "Threshold is inclusive",
			scores:     fixedScorer{"c1": 0.60, "c2": 0.59},
			candidates: []string{"c1", "c2"},
			wantID:     "c1",
			wantOK:     true,
		},
		{
			name:       "Ties go to the first candidate",
			scores:     fixedScorer{"c1": 0.70, "c2": 0.80, "c3": 0.80},
			candidates: []string{"c1", "c2", "c3"},
			wantID:     "c2",
			wantOK:     true,
		},
		{
			name:       "Nobody qualifies",
			scores:     fixedScorer{"c1": 0.55, "c2": 0.10},
			candidates: []string{"c1", "c2"},
			wantOK:     false,
		},
		{
			name:       "Requester is never its own partner",
			scores:     fixedScorer{"me": 1.0, "c1": 0.65},
			candidates: []string{"me", "c1"},
			wantID:     "c1",
			wantOK:     true,
		},
		{
			name:   "Empty queue",
			scores: fixedScorer{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var candidates []Candidate
			for _, id := range tt.candidates {
				candidates = append(candidates, queued(id))
			}

			ranker := NewRanker(tt.scores, AcceptanceThreshold)
			best, ok := ranker.Best(queued("me"), candidates)
			if ok != tt.wantOK {
				t.Fatalf("Best() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if best.UserID() != tt.wantID {
				t.Errorf("Best() = %q, want %q", best.UserID(), tt.wantID)
			}
			if best.Score < AcceptanceThreshold {
				t.Errorf("Best() score = %v, below threshold", best.Score)
			}
		})
	}
}
