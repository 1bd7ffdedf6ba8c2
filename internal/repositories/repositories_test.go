package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedProfile(t *testing.T, db *gorm.DB, nickname string) *models.UserProfile {
	t.Helper()
	p, err := NewProfileRepository(db).Upsert(context.Background(), &models.UserProfile{Nickname: nickname})
	if err != nil {
		t.Fatalf("seed profile %q: %v", nickname, err)
	}
	return p
}

func seedEntry(t *testing.T, repo *QueueRepository, userID string, createdAt time.Time, ttl time.Duration) *models.QueueEntry {
	t.Helper()
	entry := models.NewQueueEntry(userID, models.MatchmakingPreferences{PlayTimeEnd: 24}, nil, "neutral", createdAt, ttl)
	if err := repo.Enqueue(context.Background(), entry); err != nil {
		t.Fatalf("enqueue %s: %v", userID, err)
	}
	return entry
}

func countWaiting(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.QueueEntry{}).
		Where("user_id = ? AND status = ?", userID, models.QueueStatusWaiting).
		Count(&n).Error; err != nil {
		t.Fatalf("count waiting: %v", err)
	}
	return n
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	if !errors.Is(err, code) {
		t.Errorf("error = %v, want code %s", err, code)
	}
}
