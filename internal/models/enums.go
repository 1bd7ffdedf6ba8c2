package models

import "fmt"

type Role string

const (
	RoleNone       Role = "NONE"
	RoleTank       Role = "TANK"
	RoleDamage     Role = "DAMAGE"
	RoleSupport    Role = "SUPPORT"
	RoleAllRounder Role = "ALLROUNDER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleNone, RoleTank, RoleDamage, RoleSupport, RoleAllRounder:
		return true
	}
	return false
}

type GameMode string

const (
	GameModeQuickPlay       GameMode = "빠른대전"
	GameModeCompetitive     GameMode = "경쟁전"
	GameModeFlexCompetitive GameMode = "자유경쟁전"
	GameModeArcade          GameMode = "아케이드"
	GameModeCustomGame      GameMode = "사설방"
	GameModeDeathmatch      GameMode = "데스매치"
	GameModeOneVsOne        GameMode = "1vs1"
	GameModeScrim           GameMode = "스크림"
)

func (m GameMode) Valid() bool {
	switch m {
	case GameModeQuickPlay, GameModeCompetitive, GameModeFlexCompetitive, GameModeArcade,
		GameModeCustomGame, GameModeDeathmatch, GameModeOneVsOne, GameModeScrim:
		return true
	}
	return false
}

type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

func (d DayOfWeek) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

// CommChannel is the voice/text channel both communication style sets
// resolve to before they are compared.
type CommChannel string

const (
	ChannelTalkative CommChannel = "TALKATIVE"
	ChannelMicOnly   CommChannel = "MIC_ONLY"
	ChannelChatOnly  CommChannel = "CHAT_ONLY"
	ChannelQuiet     CommChannel = "QUIET"
)

// TeammateCommunication is what a player wants from a teammate.
type TeammateCommunication string

const (
	WantTalkative TeammateCommunication = "TALKATIVE"
	WantChatOnly  TeammateCommunication = "CHAT_ONLY"
	WantQuiet     TeammateCommunication = "QUIET"
	WantAny       TeammateCommunication = "ANY"
)

func (c TeammateCommunication) Valid() bool {
	switch c {
	case WantTalkative, WantChatOnly, WantQuiet, WantAny:
		return true
	}
	return false
}

// Channel returns the channel the preference asks for. ANY has none.
func (c TeammateCommunication) Channel() (CommChannel, bool) {
	switch c {
	case WantTalkative:
		return ChannelTalkative, true
	case WantChatOnly:
		return ChannelChatOnly, true
	case WantQuiet:
		return ChannelQuiet, true
	}
	return "", false
}

// SelfCommunication is how a player communicates in game.
type SelfCommunication string

const (
	SelfTalkativeBriefing SelfCommunication = "TALKATIVE_BRIEFING"
	SelfChatOnly          SelfCommunication = "CHAT_ONLY"
	SelfQuietPlay         SelfCommunication = "QUIET_PLAY"
)

func (c SelfCommunication) Valid() bool {
	switch c {
	case SelfTalkativeBriefing, SelfChatOnly, SelfQuietPlay:
		return true
	}
	return false
}

func (c SelfCommunication) Channel() (CommChannel, bool) {
	switch c {
	case SelfTalkativeBriefing:
		return ChannelTalkative, true
	case SelfChatOnly:
		return ChannelChatOnly, true
	case SelfQuietPlay:
		return ChannelQuiet, true
	}
	return "", false
}

type TeammatePreference string

const (
	PreferSkillOverTemper  TeammatePreference = "SKILL_OVER_TEMPER"
	PreferMannersOverSkill TeammatePreference = "MANNERS_OVER_SKILL"
	PreferCasual           TeammatePreference = "CASUAL"
	PreferAny              TeammatePreference = "ANY"
)

func (p TeammatePreference) Valid() bool {
	switch p {
	case PreferSkillOverTemper, PreferMannersOverSkill, PreferCasual, PreferAny:
		return true
	}
	return false
}

// MBTI is a four letter personality code such as "INTJ".
type MBTI string

var mbtiAxes = [4][2]byte{{'E', 'I'}, {'N', 'S'}, {'T', 'F'}, {'J', 'P'}}

func (m MBTI) Valid() bool {
	if len(m) != 4 {
		return false
	}
	for i, axis := range mbtiAxes {
		if m[i] != axis[0] && m[i] != axis[1] {
			return false
		}
	}
	return true
}

// validateOptional checks a value only when it is set.
func validateOptional(field string, value fmt.Stringer, valid bool) error {
	if value.String() == "" || valid {
		return nil
	}
	return fmt.Errorf("invalid %s: %q", field, value.String())
}

func (r Role) String() string                  { return string(r) }
func (m GameMode) String() string              { return string(m) }
func (d DayOfWeek) String() string             { return string(d) }
func (c TeammateCommunication) String() string { return string(c) }
func (c SelfCommunication) String() string     { return string(c) }
func (p TeammatePreference) String() string    { return string(p) }
func (m MBTI) String() string                  { return string(m) }
