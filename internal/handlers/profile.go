package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/models"
	"github.com/mroshb/duo_finder/internal/services"
	"gorm.io/datatypes"
)

type ProfileHandler struct {
	profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

type profileRequest struct {
	Nickname                       string                       `json:"nickname" binding:"required"`
	Bio                            string                       `json:"bio"`
	ProfilePicture                 string                       `json:"profilePicture"`
	DiscordID                      string                       `json:"discordId"`
	TelegramChatID                 int64                        `json:"telegramChatId"`
	MBTI                           models.MBTI                  `json:"mbti"`
	Hero                           string                       `json:"hero"`
	MainRole                       models.Role                  `json:"mainRole"`
	PreferredTanks                 []string                     `json:"preferredTanks"`
	PreferredDamage                []string                     `json:"preferredDamage"`
	PreferredSupports              []string                     `json:"preferredSupports"`
	MaxTiers                       models.RoleTiers             `json:"maxTiers"`
	PreferredTeammateCommunication models.TeammateCommunication `json:"preferredTeammateCommunication"`
	SelfCommunicationStyle         models.SelfCommunication     `json:"selfCommunicationStyle"`
	TeammatePreference             models.TeammatePreference    `json:"teammatePreference"`
}

func (r profileRequest) toModel(userID string) *models.UserProfile {
	return &models.UserProfile{
		ID:                             userID,
		Nickname:                       r.Nickname,
		Bio:                            r.Bio,
		ProfilePicture:                 r.ProfilePicture,
		DiscordID:                      r.DiscordID,
		TelegramChatID:                 r.TelegramChatID,
		MBTI:                           r.MBTI,
		Hero:                           r.Hero,
		MainRole:                       r.MainRole,
		PreferredTanks:                 datatypes.JSONSlice[string](r.PreferredTanks),
		PreferredDamage:                datatypes.JSONSlice[string](r.PreferredDamage),
		PreferredSupports:              datatypes.JSONSlice[string](r.PreferredSupports),
		MaxTiers:                       datatypes.NewJSONType(r.MaxTiers),
		PreferredTeammateCommunication: r.PreferredTeammateCommunication,
		SelfCommunicationStyle:         r.SelfCommunicationStyle,
		TeammatePreference:             r.TeammatePreference,
	}
}

// GET /api/profile
func (h *ProfileHandler) GetMe(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ownProfileView(profile))
}

// PUT /api/profile
func (h *ProfileHandler) UpsertMe(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	profile, err := h.profiles.Upsert(c.Request.Context(), req.toModel(middleware.UserID(c)))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, ownProfileView(profile))
}
