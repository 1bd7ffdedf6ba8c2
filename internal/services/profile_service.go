package services

import (
	"context"
	"strings"

	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/security"
	"github.com/mroshb/duo_finder/pkg/errors"
)

type ProfileService struct {
	repo *repositories.ProfileRepository
}

func NewProfileService(repo *repositories.ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if err := security.ValidateUUID(userID); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Upsert cleans the free text fields and saves the profile under its own id.
func (s *ProfileService) Upsert(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if err := security.ValidateUUID(profile.ID); err != nil {
		return nil, err
	}

	profile.Nickname = security.SanitizeNickname(profile.Nickname)
	if profile.Nickname == "" {
		return nil, errors.New(errors.ErrCodeValidation, "nickname is required")
	}
	profile.Bio = security.SanitizeText(profile.Bio, security.MaxTextLength)
	profile.Hero = security.SanitizeText(profile.Hero, 50)
	profile.ProfilePicture = strings.TrimSpace(profile.ProfilePicture)

	profile.DiscordID = strings.TrimSpace(profile.DiscordID)
	if profile.DiscordID != "" && !security.ValidateDiscordID(profile.DiscordID) {
		return nil, errors.New(errors.ErrCodeValidation, "invalid discord id")
	}

	return s.repo.Upsert(ctx, profile)
}
