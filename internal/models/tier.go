package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mroshb/duo_finder/pkg/utils"
)

type Tier string

const (
	TierBronze      Tier = "Bronze"
	TierSilver      Tier = "Silver"
	TierGold        Tier = "Gold"
	TierPlatinum    Tier = "Platinum"
	TierDiamond     Tier = "Diamond"
	TierMaster      Tier = "Master"
	TierGrandmaster Tier = "Grandmaster"
	TierChallenger  Tier = "Challenger"
)

// Tiers lists every tier from lowest to highest.
var Tiers = []Tier{
	TierBronze, TierSilver, TierGold, TierPlatinum,
	TierDiamond, TierMaster, TierGrandmaster, TierChallenger,
}

const (
	divisionsPerTier = 5
	midpointOffset   = 3
)

var tierAliases = map[string]Tier{
	"브론즈":    TierBronze,
	"실버":     TierSilver,
	"골드":     TierGold,
	"플래티넘":   TierPlatinum,
	"다이아몬드":  TierDiamond,
	"마스터":    TierMaster,
	"그랜드마스터": TierGrandmaster,
	"챌린저":    TierChallenger,
}

// Base is the tier's offset on the rank scale: Bronze 0, Silver 5 ... Challenger 35.
// Unknown tiers have base 0.
func (t Tier) Base() int {
	for i, tier := range Tiers {
		if tier == t {
			return i * divisionsPerTier
		}
	}
	return 0
}

func (t Tier) Valid() bool {
	for _, tier := range Tiers {
		if tier == t {
			return true
		}
	}
	return false
}

// lookupTier resolves a canonical name (any case) or a localized alias.
func lookupTier(name string) (Tier, bool) {
	name = strings.TrimSpace(name)
	if tier, ok := tierAliases[name]; ok {
		return tier, true
	}
	for _, tier := range Tiers {
		if strings.EqualFold(string(tier), name) {
			return tier, true
		}
	}
	return "", false
}

// Division runs from 5 (lowest) to 1 (highest) within a tier.
type Division int

func (d Division) Valid() bool {
	return d >= 1 && d <= divisionsPerTier
}

// FullTier is a tier name followed by a division digit, e.g. "Gold3".
// The empty value means "not set".
type FullTier string

func NewFullTier(tier Tier, division Division) FullTier {
	return FullTier(fmt.Sprintf("%s%d", tier, division))
}

// split separates the trailing digits from the tier name. Whitespace and
// full-width digits are normalized first.
func (f FullTier) split() (name, digits string) {
	s := utils.CollapseSpaces(utils.NormalizeDigits(string(f)))
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	return s[:i], s[i:]
}

// Rank maps the tier onto the 1..40 scale: Bronze5 is 1, Challenger1 is 40.
// A missing division counts as the tier's midpoint. A numeric division
// outside 1..5 still goes through the division formula; ParseFullTier
// rejects such labels before they are stored.
func (f FullTier) Rank() int {
	name, digits := f.split()
	tier, _ := lookupTier(name)
	division, err := strconv.Atoi(digits)
	if err != nil {
		return tier.Base() + midpointOffset
	}
	return tier.Base() + (divisionsPerTier + 1 - division)
}

func (f FullTier) IsSet() bool {
	return strings.TrimSpace(string(f)) != ""
}

func (f FullTier) String() string {
	return string(f)
}

// ParseFullTier validates s and returns its canonical form. A bare tier name
// without a division is accepted and kept without a digit.
func ParseFullTier(s string) (FullTier, error) {
	name, digits := FullTier(s).split()
	tier, ok := lookupTier(name)
	if !ok {
		return "", fmt.Errorf("unknown tier %q", s)
	}
	if digits == "" {
		return FullTier(tier), nil
	}
	division, err := strconv.Atoi(digits)
	if err != nil || !Division(division).Valid() {
		return "", fmt.Errorf("invalid division in tier %q", s)
	}
	return NewFullTier(tier, Division(division)), nil
}

// AllFullTiers returns the 40 tier/division combinations in ascending order.
func AllFullTiers() []FullTier {
	all := make([]FullTier, 0, len(Tiers)*divisionsPerTier)
	for _, tier := range Tiers {
		for d := divisionsPerTier; d >= 1; d-- {
			all = append(all, NewFullTier(tier, Division(d)))
		}
	}
	return all
}
