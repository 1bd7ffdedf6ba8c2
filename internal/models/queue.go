package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

const QueueStatusWaiting = "waiting"

// MatchmakingPreferences is submitted with every matchmaking attempt.
type MatchmakingPreferences struct {
	MinTier              FullTier    `json:"minTier,omitempty"`
	MaxTier              FullTier    `json:"maxTier,omitempty"`
	GameModes            []GameMode  `json:"gameModes"`
	PlayDays             []DayOfWeek `json:"playDays"`
	PlayTimeStart        int         `json:"playTimeStart"`
	PlayTimeEnd          int         `json:"playTimeEnd"`
	PriorityRequirements string      `json:"priorityRequirements"`
	PreferredRole        Role        `json:"preferredRole,omitempty"`
}

// Normalize validates the preferences and returns them with tiers in
// canonical form. Inverted hour or tier ranges are kept as given and score 0
// on the matching sub-score.
func (p MatchmakingPreferences) Normalize() (MatchmakingPreferences, error) {
	if p.PlayTimeStart < 0 || p.PlayTimeStart > 24 || p.PlayTimeEnd < 0 || p.PlayTimeEnd > 24 {
		return p, fmt.Errorf("play time must be within 0-24")
	}
	for _, mode := range p.GameModes {
		if !mode.Valid() {
			return p, fmt.Errorf("invalid game mode: %q", mode)
		}
	}
	for _, day := range p.PlayDays {
		if !day.Valid() {
			return p, fmt.Errorf("invalid play day: %q", day)
		}
	}
	if err := validateOptional("preferred role", p.PreferredRole, p.PreferredRole.Valid()); err != nil {
		return p, err
	}

	var err error
	if p.MinTier.IsSet() {
		if p.MinTier, err = ParseFullTier(string(p.MinTier)); err != nil {
			return p, err
		}
	}
	if p.MaxTier.IsSet() {
		if p.MaxTier, err = ParseFullTier(string(p.MaxTier)); err != nil {
			return p, err
		}
	}
	return p, nil
}

// QueueEntry is a waiting ticket. At most one waiting entry exists per user.
type QueueEntry struct {
	ID     uint        `gorm:"primaryKey"`
	UserID string      `gorm:"type:varchar(36);not null;index:idx_queue_waiting_user,unique,where:status = 'waiting'"`
	User   UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	MinTier              FullTier                       `gorm:"type:varchar(32)"`
	MaxTier              FullTier                       `gorm:"type:varchar(32)"`
	GameModes            datatypes.JSONSlice[GameMode]  `gorm:"type:text"`
	PlayDays             datatypes.JSONSlice[DayOfWeek] `gorm:"type:text"`
	PlayTimeStart        int                            `gorm:"not null;default:0"`
	PlayTimeEnd          int                            `gorm:"not null"`
	PriorityRequirements string                         `gorm:"type:text"`
	PreferredRole        Role                           `gorm:"type:varchar(20)"`

	// Annotations from the text analysis oracle; scoring ignores them.
	AnalyzedKeywords  datatypes.JSONSlice[string] `gorm:"type:text"`
	AnalyzedSentiment string                      `gorm:"type:varchar(20)"`

	Status    string    `gorm:"type:varchar(20);default:'waiting';index"`
	CreatedAt time.Time `gorm:"index"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (QueueEntry) TableName() string {
	return "matching_queue"
}

func NewQueueEntry(userID string, prefs MatchmakingPreferences, keywords []string, sentiment string, now time.Time, ttl time.Duration) *QueueEntry {
	return &QueueEntry{
		UserID:               userID,
		MinTier:              prefs.MinTier,
		MaxTier:              prefs.MaxTier,
		GameModes:            datatypes.JSONSlice[GameMode](prefs.GameModes),
		PlayDays:             datatypes.JSONSlice[DayOfWeek](prefs.PlayDays),
		PlayTimeStart:        prefs.PlayTimeStart,
		PlayTimeEnd:          prefs.PlayTimeEnd,
		PriorityRequirements: prefs.PriorityRequirements,
		PreferredRole:        prefs.PreferredRole,
		AnalyzedKeywords:     datatypes.JSONSlice[string](keywords),
		AnalyzedSentiment:    sentiment,
		Status:               QueueStatusWaiting,
		CreatedAt:            now,
		ExpiresAt:            now.Add(ttl),
	}
}

// Expired reports whether the ticket is dead at now.
func (q *QueueEntry) Expired(now time.Time) bool {
	return !q.ExpiresAt.After(now)
}

func (q *QueueEntry) Preferences() MatchmakingPreferences {
	return MatchmakingPreferences{
		MinTier:              q.MinTier,
		MaxTier:              q.MaxTier,
		GameModes:            q.GameModes,
		PlayDays:             q.PlayDays,
		PlayTimeStart:        q.PlayTimeStart,
		PlayTimeEnd:          q.PlayTimeEnd,
		PriorityRequirements: q.PriorityRequirements,
		PreferredRole:        q.PreferredRole,
	}
}
