package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MatchStatus string

// Match status constants
const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusAccepted, MatchStatusRejected:
		return true
	}
	return false
}

// Match pairs two users. User1 is the requester that committed the match.
// Per-user fields are only ever written by their own user.
type Match struct {
	ID      string      `gorm:"type:varchar(36);primaryKey"`
	User1ID string      `gorm:"type:varchar(36);not null;index"`
	User1   UserProfile `gorm:"foreignKey:User1ID;constraint:OnDelete:CASCADE"`
	User2ID string      `gorm:"type:varchar(36);not null;index"`
	User2   UserProfile `gorm:"foreignKey:User2ID;constraint:OnDelete:CASCADE"`

	MatchScore       float64 `gorm:"not null"`
	MatchExplanation string  `gorm:"type:text"`

	User1Status        MatchStatus `gorm:"type:varchar(20);default:'pending'"`
	User2Status        MatchStatus `gorm:"type:varchar(20);default:'pending'"`
	User1DiscordShared bool        `gorm:"default:false"`
	User2DiscordShared bool        `gorm:"default:false"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Match) TableName() string {
	return "matches"
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func NewMatch(user1ID, user2ID string, score float64, explanation string, now time.Time) *Match {
	return &Match{
		User1ID:          user1ID,
		User2ID:          user2ID,
		MatchScore:       score,
		MatchExplanation: explanation,
		User1Status:      MatchStatusPending,
		User2Status:      MatchStatusPending,
		CreatedAt:        now,
	}
}

func (m *Match) HasUser(userID string) bool {
	return userID != "" && (m.User1ID == userID || m.User2ID == userID)
}

// OtherUserID returns the counterpart of userID, or "" when userID is not a party.
func (m *Match) OtherUserID(userID string) string {
	switch userID {
	case m.User1ID:
		return m.User2ID
	case m.User2ID:
		return m.User1ID
	}
	return ""
}

// Counterpart returns the other party's profile as loaded with the match.
func (m *Match) Counterpart(userID string) *UserProfile {
	switch userID {
	case m.User1ID:
		return &m.User2
	case m.User2ID:
		return &m.User1
	}
	return nil
}

// StatusColumn and DiscordColumn name the columns owned by userID.
func (m *Match) StatusColumn(userID string) string {
	if userID == m.User1ID {
		return "user1_status"
	}
	return "user2_status"
}

func (m *Match) DiscordColumn(userID string) string {
	if userID == m.User1ID {
		return "user1_discord_shared"
	}
	return "user2_discord_shared"
}

func (m *Match) DiscordSharedBy(userID string) bool {
	switch userID {
	case m.User1ID:
		return m.User1DiscordShared
	case m.User2ID:
		return m.User2DiscordShared
	}
	return false
}

// VisibleDiscordID is the counterpart's Discord id as viewerID may see it:
// empty unless the counterpart chose to share it.
func (m *Match) VisibleDiscordID(viewerID string) string {
	other := m.OtherUserID(viewerID)
	if other == "" || !m.DiscordSharedBy(other) {
		return ""
	}
	if p := m.Counterpart(viewerID); p != nil {
		return p.DiscordID
	}
	return ""
}
