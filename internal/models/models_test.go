package models

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestUserProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		wantErr bool
	}{
		{
			name:    "Minimal profile",
			profile: UserProfile{Nickname: "tracer"},
			wantErr: false,
		},
		{
			name: "Complete profile",
			profile: UserProfile{
				Nickname:                       "mercy_main",
				MBTI:                           "ENFP",
				MainRole:                       RoleSupport,
				PreferredTeammateCommunication: WantTalkative,
				SelfCommunicationStyle:         SelfTalkativeBriefing,
				TeammatePreference:             PreferMannersOverSkill,
				MaxTiers:                       datatypes.NewJSONType(RoleTiers{Support: "Diamond2"}),
			},
			wantErr: false,
		},
		{
			name:    "Missing nickname",
			profile: UserProfile{},
			wantErr: true,
		},
		{
			name:    "Invalid role",
			profile: UserProfile{Nickname: "x", MainRole: "HEALER"},
			wantErr: true,
		},
		{
			name:    "Invalid mbti",
			profile: UserProfile{Nickname: "x", MBTI: "ABCD"},
			wantErr: true,
		},
		{
			name:    "Invalid max tier",
			profile: UserProfile{Nickname: "x", MaxTiers: datatypes.NewJSONType(RoleTiers{Tank: "Gold9"})},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMatchmakingPreferences_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		prefs   MatchmakingPreferences
		wantMin FullTier
		wantErr bool
	}{
		{
			name:    "Localized tiers are canonicalized",
			prefs:   MatchmakingPreferences{MinTier: "골드3", MaxTier: "Platinum3", PlayTimeStart: 18, PlayTimeEnd: 24},
			wantMin: "Gold3",
		},
		{
			name:  "Unset tiers stay unset",
			prefs: MatchmakingPreferences{GameModes: []GameMode{GameModeCompetitive}, PlayDays: []DayOfWeek{Friday}},
		},
		{
			name:    "End hour beyond midnight",
			prefs:   MatchmakingPreferences{PlayTimeStart: 20, PlayTimeEnd: 25},
			wantErr: true,
		},
		{
			name:  "Overnight window is accepted",
			prefs: MatchmakingPreferences{PlayTimeStart: 22, PlayTimeEnd: 2},
		},
		{
			name:    "Inverted tier range is accepted",
			prefs:   MatchmakingPreferences{MinTier: "Diamond1", MaxTier: "Gold5", PlayTimeEnd: 24},
			wantMin: "Diamond1",
		},
		{
			name:    "Negative start hour",
			prefs:   MatchmakingPreferences{PlayTimeStart: -1, PlayTimeEnd: 2},
			wantErr: true,
		},
		{
			name:    "Unknown game mode",
			prefs:   MatchmakingPreferences{GameModes: []GameMode{"battle royale"}, PlayTimeEnd: 24},
			wantErr: true,
		},
		{
			name:    "Unknown day",
			prefs:   MatchmakingPreferences{PlayDays: []DayOfWeek{"월"}, PlayTimeEnd: 24},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.prefs.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.MinTier != tt.wantMin {
				t.Errorf("Normalize().MinTier = %q, want %q", got.MinTier, tt.wantMin)
			}
		})
	}
}

func TestQueueEntry_Expired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := NewQueueEntry("u1", MatchmakingPreferences{PlayTimeEnd: 24}, nil, "neutral", now, 5*time.Minute)

	if entry.Status != QueueStatusWaiting {
		t.Errorf("Status = %q, want %q", entry.Status, QueueStatusWaiting)
	}
	if entry.Expired(now.Add(4 * time.Minute)) {
		t.Error("Expired() = true before the horizon")
	}
	if !entry.Expired(now.Add(5 * time.Minute)) {
		t.Error("Expired() = false at the horizon")
	}
}

func TestMatch_PartyHelpers(t *testing.T) {
	m := NewMatch("a", "b", 0.72, "", time.Now())
	m.User1 = UserProfile{ID: "a", DiscordID: "alpha"}
	m.User2 = UserProfile{ID: "b", DiscordID: "bravo"}

	if !m.HasUser("a") || !m.HasUser("b") || m.HasUser("c") || m.HasUser("") {
		t.Error("HasUser() reported wrong membership")
	}
	if got := m.OtherUserID("b"); got != "a" {
		t.Errorf("OtherUserID(b) = %q, want %q", got, "a")
	}
	if got := m.StatusColumn("b"); got != "user2_status" {
		t.Errorf("StatusColumn(b) = %q, want user2_status", got)
	}

	if got := m.VisibleDiscordID("a"); got != "" {
		t.Errorf("VisibleDiscordID(a) = %q before b shared, want empty", got)
	}
	m.User2DiscordShared = true
	if got := m.VisibleDiscordID("a"); got != "bravo" {
		t.Errorf("VisibleDiscordID(a) = %q, want %q", got, "bravo")
	}
	if got := m.VisibleDiscordID("b"); got != "" {
		t.Errorf("VisibleDiscordID(b) = %q, a never shared", got)
	}
}
