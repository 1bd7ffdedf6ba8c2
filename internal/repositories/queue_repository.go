package repositories

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QueueRepository struct {
	db *gorm.DB
}

func NewQueueRepository(db *gorm.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Enqueue replaces the user's waiting entry, if any, with entry
func (r *QueueRepository) Enqueue(ctx context.Context, entry *models.QueueEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND status = ?", entry.UserID, models.QueueStatusWaiting).
			Delete(&models.QueueEntry{}).Error; err != nil {
			return storeError(err, "failed to withdraw previous queue entry")
		}
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			// A concurrent enqueue for the same user won the unique index.
			if stderrors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.Wrap(err, errors.ErrCodeConflict, "user enqueued concurrently")
			}
			return storeError(err, "failed to add to queue")
		}
		return nil
	})
}

// Withdraw deletes the user's waiting entry. Missing entries are not an error.
func (r *QueueRepository) Withdraw(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.QueueStatusWaiting).
		Delete(&models.QueueEntry{})
	if result.Error != nil {
		return 0, storeError(result.Error, "failed to remove from queue")
	}
	return result.RowsAffected, nil
}

// SweepExpired deletes every entry whose expiry is before now, for any owner
func (r *QueueRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.QueueEntry{})
	if result.Error != nil {
		return 0, storeError(result.Error, "failed to sweep expired queue entries")
	}
	return result.RowsAffected, nil
}

// GetWaiting returns the user's live entry, or NOT_WAITING
func (r *QueueRepository) GetWaiting(ctx context.Context, userID string, now time.Time) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, models.QueueStatusWaiting, now).
		First(&entry).Error
	if err != nil {
		return nil, storeError(err, "user has no live queue entry", errors.ErrCodeNotWaiting)
	}
	return &entry, nil
}

// ListWaitingExcept returns every other live entry with its owner's profile, oldest first
func (r *QueueRepository) ListWaitingExcept(ctx context.Context, userID string, now time.Time) ([]models.QueueEntry, error) {
	var entries []models.QueueEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id <> ? AND status = ? AND expires_at > ?", userID, models.QueueStatusWaiting, now).
		Order("created_at ASC").
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		return nil, storeError(err, "failed to load waiting queue")
	}
	return entries, nil
}

// CountWaiting counts live entries
func (r *QueueRepository) CountWaiting(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.QueueEntry{}).
		Where("status = ? AND expires_at > ?", models.QueueStatusWaiting, now).
		Count(&count).Error
	if err != nil {
		return 0, storeError(err, "failed to count queue")
	}
	return count, nil
}
