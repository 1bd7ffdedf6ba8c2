package repositories

import (
	"context"
	"time"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepository struct {
	db *gorm.DB
}

func NewMatchRepository(db *gorm.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// CommitMatch consumes both users' waiting tickets and records the match in
// one transaction. If either ticket is already gone the match is not created
// and CONFLICT is returned.
func (r *MatchRepository) CommitMatch(ctx context.Context, match *models.Match) error {
	if match.User1ID == match.User2ID {
		return errors.New(errors.ErrCodeValidation, "a user cannot be matched with themselves")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id IN ? AND status = ?",
			[]string{match.User1ID, match.User2ID}, models.QueueStatusWaiting).
			Delete(&models.QueueEntry{})
		if result.Error != nil {
			return storeError(result.Error, "failed to consume queue entries")
		}
		if result.RowsAffected != 2 {
			return errors.New(errors.ErrCodeConflict, "queue entry already consumed by another match")
		}

		if err := tx.Omit(clause.Associations).Create(match).Error; err != nil {
			return storeError(err, "failed to create match")
		}
		return nil
	})
}

// GetByID retrieves a match with both profiles
func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("id = ?", matchID).
		First(&match).Error
	if err != nil {
		return nil, storeError(err, "match not found", errors.ErrCodeNotFound)
	}
	return &match, nil
}

// ListForUser returns every match naming the user on either side, newest first
func (r *MatchRepository) ListForUser(ctx context.Context, userID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, storeError(err, "failed to load match history")
	}
	return matches, nil
}

// ListSince returns every match created at or after since, oldest first
func (r *MatchRepository) ListSince(ctx context.Context, since time.Time) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&matches).Error
	if err != nil {
		return nil, storeError(err, "failed to load matches")
	}
	return matches, nil
}

// UpdateStatus sets userID's own status column
func (r *MatchRepository) UpdateStatus(ctx context.Context, matchID, userID string, status models.MatchStatus) (*models.Match, error) {
	if !status.Valid() {
		return nil, errors.New(errors.ErrCodeValidation, "invalid match status")
	}
	return r.updateOwnColumn(ctx, matchID, userID, func(m *models.Match) (string, interface{}) {
		return m.StatusColumn(userID), status
	})
}

// SetDiscordShared sets userID's own disclosure flag
func (r *MatchRepository) SetDiscordShared(ctx context.Context, matchID, userID string, shared bool) (*models.Match, error) {
	return r.updateOwnColumn(ctx, matchID, userID, func(m *models.Match) (string, interface{}) {
		return m.DiscordColumn(userID), shared
	})
}

func (r *MatchRepository) updateOwnColumn(ctx context.Context, matchID, userID string, column func(*models.Match) (string, interface{})) (*models.Match, error) {
	match, err := r.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.HasUser(userID) {
		return nil, errors.New(errors.ErrCodeForbidden, "user is not a party of this match")
	}

	name, value := column(match)
	err = r.db.WithContext(ctx).Model(&models.Match{}).
		Where("id = ?", matchID).
		Update(name, value).Error
	if err != nil {
		return nil, storeError(err, "failed to update match")
	}

	return r.GetByID(ctx, matchID)
}
