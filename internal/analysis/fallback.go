package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

const SentimentNeutral = "neutral"

func NeutralAnalysis() TextAnalysis {
	return TextAnalysis{Keywords: []string{}, Sentiment: SentimentNeutral}
}

func FallbackExplanation(score float64) string {
	return fmt.Sprintf("매칭 점수 %d%%로 좋은 궁합입니다! 함께 게임을 즐겨보세요.", int(math.Round(score*100)))
}

// Annotator never fails: oracle errors, or a missing oracle, yield the
// fallback values.
type Annotator struct {
	oracle  Oracle
	metrics *metrics.Manager
}

func NewAnnotator(oracle Oracle, m *metrics.Manager) *Annotator {
	return &Annotator{oracle: oracle, metrics: m}
}

func (a *Annotator) Analyze(ctx context.Context, text string) TextAnalysis {
	if a.oracle == nil || text == "" {
		return NeutralAnalysis()
	}
	out, err := a.oracle.Analyze(ctx, text)
	if err != nil {
		logger.Warn("Text analysis failed, using neutral analysis", "error", err)
		a.metrics.RecordOracleFallback("analyze")
		return NeutralAnalysis()
	}
	if out.Sentiment == "" {
		out.Sentiment = SentimentNeutral
	}
	return out
}

func (a *Annotator) Explain(ctx context.Context, x, y *models.UserProfile, score float64) string {
	if a.oracle == nil {
		return FallbackExplanation(score)
	}
	text, err := a.oracle.Explain(ctx, x, y, score)
	if err != nil {
		logger.Warn("Match explanation failed, using fallback", "error", err)
		a.metrics.RecordOracleFallback("explain")
		return FallbackExplanation(score)
	}
	return text
}
