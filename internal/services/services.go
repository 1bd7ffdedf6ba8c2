// Package services composes the stores, the scorer and the collaborators
// into the operations the API exposes.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/pkg/errors"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

// Clock returns the current time. Services default to time.Now in UTC.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// checkRate asks the limiter about (action, userID). An unreachable limiter
// lets the request through.
func checkRate(ctx context.Context, limiter middleware.RateLimiter, m *metrics.Manager, action, userID string) error {
	if limiter == nil {
		return nil
	}
	decision, err := limiter.Allow(ctx, action, userID)
	if err != nil {
		logger.Warn("Rate limiter unavailable, allowing request", "action", action, "user_id", userID, "error", err)
		return nil
	}
	if !decision.Allowed {
		m.RecordRateLimited(action)
		return errors.New(errors.ErrCodeRateLimitExceeded,
			fmt.Sprintf("too many %s requests, retry in %s", action, decision.ResetIn.Round(time.Second)))
	}
	return nil
}
