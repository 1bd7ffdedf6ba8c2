package matching

// AcceptanceThreshold is the lowest total a partner may score.
const AcceptanceThreshold = 0.60

// PairScorer scores candidate b for requester a.
type PairScorer interface {
	Score(a, b Candidate) float64
}

type Ranked struct {
	Candidate
	Score float64
}

type Ranker struct {
	scorer    PairScorer
	threshold float64
}

func NewRanker(scorer PairScorer, threshold float64) *Ranker {
	return &Ranker{scorer: scorer, threshold: threshold}
}

// Best scans candidates in order and returns the first one holding the
// highest score at or above the threshold. ok is false when none qualify.
// Candidates owned by the requester are skipped.
func (r *Ranker) Best(requester Candidate, candidates []Candidate) (best Ranked, ok bool) {
	self := requester.UserID()
	for _, c := range candidates {
		if c.UserID() == self {
			continue
		}
		score := r.scorer.Score(requester, c)
		if score < r.threshold {
			continue
		}
		if !ok || score > best.Score {
			best = Ranked{Candidate: c, Score: score}
			ok = true
		}
	}
	return best, ok
}
