package repositories

import (
	"context"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns a profile edit may overwrite. created_at is kept from the first insert.
var profileUpdateColumns = []string{
	"nickname", "bio", "profile_picture", "discord_id", "telegram_chat_id",
	"mbti", "hero", "main_role", "preferred_tanks", "preferred_damage", "preferred_supports",
	"max_tiers", "preferred_teammate_communication", "self_communication_style",
	"teammate_preference", "updated_at",
}

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by user id
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error; err != nil {
		return nil, storeError(err, "profile not found", errors.ErrCodeNotFound)
	}
	return &profile, nil
}

// Upsert inserts the profile or overwrites the editable columns of an existing one
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if err := profile.Validate(); err != nil {
		return nil, errors.New(errors.ErrCodeValidation, err.Error())
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(profileUpdateColumns),
	}).Create(profile).Error
	if err != nil {
		return nil, storeError(err, "failed to save profile")
	}

	return r.Get(ctx, profile.ID)
}
