package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleTiers holds the highest tier a player reached on each role.
// Unset roles are empty.
type RoleTiers struct {
	Tank    FullTier `json:"TANK,omitempty"`
	Damage  FullTier `json:"DAMAGE,omitempty"`
	Support FullTier `json:"SUPPORT,omitempty"`
}

type UserProfile struct {
	ID             string `gorm:"type:varchar(36);primaryKey"`
	Nickname       string `gorm:"type:varchar(50);not null"`
	Bio            string `gorm:"type:text"`
	ProfilePicture string `gorm:"type:varchar(500)"`
	DiscordID      string `gorm:"type:varchar(40)"`
	TelegramChatID int64  `gorm:"default:0"` // 0 disables push delivery

	MBTI              MBTI                          `gorm:"type:varchar(4)"`
	Hero              string                        `gorm:"type:varchar(50)"`
	MainRole          Role                          `gorm:"type:varchar(20);default:'NONE'"`
	PreferredTanks    datatypes.JSONSlice[string]   `gorm:"type:text"`
	PreferredDamage   datatypes.JSONSlice[string]   `gorm:"type:text"`
	PreferredSupports datatypes.JSONSlice[string]   `gorm:"type:text"`
	MaxTiers          datatypes.JSONType[RoleTiers] `gorm:"type:text"`

	PreferredTeammateCommunication TeammateCommunication `gorm:"type:varchar(20)"`
	SelfCommunicationStyle         SelfCommunication     `gorm:"type:varchar(20)"`
	TeammatePreference             TeammatePreference    `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}

func (p *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave hook to validate the closed sets
func (p *UserProfile) BeforeSave(tx *gorm.DB) error {
	return p.Validate()
}

func (p *UserProfile) Validate() error {
	if p.Nickname == "" {
		return fmt.Errorf("nickname is required")
	}
	if p.MainRole == "" {
		p.MainRole = RoleNone
	}
	checks := []error{
		validateOptional("main role", p.MainRole, p.MainRole.Valid()),
		validateOptional("mbti", p.MBTI, p.MBTI.Valid()),
		validateOptional("preferred teammate communication", p.PreferredTeammateCommunication, p.PreferredTeammateCommunication.Valid()),
		validateOptional("self communication style", p.SelfCommunicationStyle, p.SelfCommunicationStyle.Valid()),
		validateOptional("teammate preference", p.TeammatePreference, p.TeammatePreference.Valid()),
	}
	tiers := p.MaxTiers.Data()
	for _, ft := range []FullTier{tiers.Tank, tiers.Damage, tiers.Support} {
		if ft.IsSet() {
			if _, err := ParseFullTier(string(ft)); err != nil {
				checks = append(checks, err)
			}
		}
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}
	return nil
}
