package handlers

import (
	"time"

	"github.com/mroshb/duo_finder/internal/models"
)

type ProfileView struct {
	ID                             string                       `json:"id"`
	Nickname                       string                       `json:"nickname"`
	Bio                            string                       `json:"bio,omitempty"`
	ProfilePicture                 string                       `json:"profilePicture,omitempty"`
	DiscordID                      string                       `json:"discordId,omitempty"`
	MBTI                           models.MBTI                  `json:"mbti,omitempty"`
	Hero                           string                       `json:"hero,omitempty"`
	MainRole                       models.Role                  `json:"mainRole"`
	PreferredTanks                 []string                     `json:"preferredTanks"`
	PreferredDamage                []string                     `json:"preferredDamage"`
	PreferredSupports              []string                     `json:"preferredSupports"`
	MaxTiers                       models.RoleTiers             `json:"maxTiers"`
	PreferredTeammateCommunication models.TeammateCommunication `json:"preferredTeammateCommunication,omitempty"`
	SelfCommunicationStyle         models.SelfCommunication     `json:"selfCommunicationStyle,omitempty"`
	TeammatePreference             models.TeammatePreference    `json:"teammatePreference,omitempty"`
	UpdatedAt                      time.Time                    `json:"updatedAt"`
}

// newProfileView renders p with discordID in place of the stored Discord id.
func newProfileView(p *models.UserProfile, discordID string) ProfileView {
	return ProfileView{
		ID:                             p.ID,
		Nickname:                       p.Nickname,
		Bio:                            p.Bio,
		ProfilePicture:                 p.ProfilePicture,
		DiscordID:                      discordID,
		MBTI:                           p.MBTI,
		Hero:                           p.Hero,
		MainRole:                       p.MainRole,
		PreferredTanks:                 nonNil(p.PreferredTanks),
		PreferredDamage:                nonNil(p.PreferredDamage),
		PreferredSupports:              nonNil(p.PreferredSupports),
		MaxTiers:                       p.MaxTiers.Data(),
		PreferredTeammateCommunication: p.PreferredTeammateCommunication,
		SelfCommunicationStyle:         p.SelfCommunicationStyle,
		TeammatePreference:             p.TeammatePreference,
		UpdatedAt:                      p.UpdatedAt,
	}
}

func ownProfileView(p *models.UserProfile) ProfileView {
	return newProfileView(p, p.DiscordID)
}

type MatchView struct {
	ID                   string             `json:"id"`
	Score                float64            `json:"score"`
	Explanation          string             `json:"explanation"`
	Status               models.MatchStatus `json:"status"`
	PartnerStatus        models.MatchStatus `json:"partnerStatus"`
	DiscordShared        bool               `json:"discordShared"`
	PartnerSharedDiscord bool               `json:"partnerSharedDiscord"`
	Partner              ProfileView        `json:"partner"`
	CreatedAt            time.Time          `json:"createdAt"`
}

// newMatchView renders m as viewerID sees it. The partner's Discord id is
// present only when the partner shared it.
func newMatchView(m *models.Match, viewerID string) MatchView {
	partnerID := m.OtherUserID(viewerID)
	view := MatchView{
		ID:                   m.ID,
		Score:                m.MatchScore,
		Explanation:          m.MatchExplanation,
		DiscordShared:        m.DiscordSharedBy(viewerID),
		PartnerSharedDiscord: m.DiscordSharedBy(partnerID),
		CreatedAt:            m.CreatedAt,
	}
	if viewerID == m.User1ID {
		view.Status, view.PartnerStatus = m.User1Status, m.User2Status
	} else {
		view.Status, view.PartnerStatus = m.User2Status, m.User1Status
	}
	if partner := m.Counterpart(viewerID); partner != nil {
		view.Partner = newProfileView(partner, m.VisibleDiscordID(viewerID))
	}
	return view
}

type QueueEntryView struct {
	Preferences       models.MatchmakingPreferences `json:"preferences"`
	AnalyzedKeywords  []string                      `json:"analyzedKeywords"`
	AnalyzedSentiment string                        `json:"analyzedSentiment"`
	CreatedAt         time.Time                     `json:"createdAt"`
	ExpiresAt         time.Time                     `json:"expiresAt"`
}

func newQueueEntryView(e *models.QueueEntry) *QueueEntryView {
	if e == nil {
		return nil
	}
	return &QueueEntryView{
		Preferences:       e.Preferences(),
		AnalyzedKeywords:  nonNil(e.AnalyzedKeywords),
		AnalyzedSentiment: e.AnalyzedSentiment,
		CreatedAt:         e.CreatedAt,
		ExpiresAt:         e.ExpiresAt,
	}
}

type NotificationView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	MatchID   *string   `json:"matchId,omitempty"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func newNotificationView(n *models.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		MatchID:   n.MatchID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
