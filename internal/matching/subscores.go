// Package matching scores how well two queued players fit as a duo.
// Every calculator is pure and returns a value in [0,1]; missing input
// degrades to a fixed neutral or zero value instead of an error.
package matching

import (
	"math"

	"github.com/mroshb/duo_finder/internal/models"
)

const (
	neutralScore    = 0.5
	fullTimeOverlap = 3.0 // hours of shared play time that score 1.0
	fullTierOverlap = 5   // rank steps of shared tier range that score 1.0
	tierStepScore   = 0.2
	multiDayScore   = 1.0
	singleDayScore  = 0.5
	sameMBTIScore   = 0.8
	sameAxisScore   = 0.25
	otherAxisScore  = 0.15
)

// Schedule is the when-can-we-play part of a queue entry.
type Schedule struct {
	Days  []models.DayOfWeek
	Start int
	End   int
}

// TimeOverlap averages a shared-days score with a shared-hours score.
// No common day means no overlap at all.
func TimeOverlap(a, b Schedule) float64 {
	if len(a.Days) == 0 || len(b.Days) == 0 {
		return 0
	}

	common := len(intersect(a.Days, b.Days))
	var dayScore float64
	switch {
	case common == 0:
		return 0
	case common >= 2:
		dayScore = multiDayScore
	default:
		dayScore = singleDayScore
	}

	overlapHours := math.Max(0, float64(min(a.End, b.End)-max(a.Start, b.Start)))
	timeScore := math.Min(1, overlapHours/fullTimeOverlap)

	return (dayScore + timeScore) / 2
}

// TierRange is an inclusive min/max tier bound. Unset bounds are empty.
type TierRange struct {
	Min models.FullTier
	Max models.FullTier
}

func (r TierRange) complete() bool {
	return r.Min.IsSet() && r.Max.IsSet()
}

// TierOverlap scores the number of shared rank steps: 0.2 per step,
// capped at 1.0 from five steps.
func TierOverlap(a, b TierRange) float64 {
	if !a.complete() || !b.complete() {
		return neutralScore
	}

	lo := max(a.Min.Rank(), b.Min.Rank())
	hi := min(a.Max.Rank(), b.Max.Rank())
	steps := max(0, hi-lo+1)
	if steps >= fullTierOverlap {
		return 1.0
	}
	return tierStepScore * float64(steps)
}

// RoleFit averages both directions of "does the other player play what I want".
func RoleFit(preferredA, actualA, preferredB, actualB models.Role) float64 {
	return (roleDirection(preferredA, actualB) + roleDirection(preferredB, actualA)) / 2
}

func roleDirection(preferred, actual models.Role) float64 {
	switch {
	case preferred == "":
		return 1
	case preferred == models.RoleAllRounder, actual == models.RoleAllRounder:
		return 1
	case preferred == actual:
		return 1
	}
	return 0
}

// GameModeOverlap is the Jaccard similarity of the two mode sets.
func GameModeOverlap(a, b []models.GameMode) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	union := make(map[models.GameMode]struct{}, len(a)+len(b))
	for _, m := range a {
		union[m] = struct{}{}
	}
	for _, m := range b {
		union[m] = struct{}{}
	}
	return float64(len(intersect(a, b))) / float64(len(union))
}

type channelPair struct {
	want, have models.CommChannel
}

var channelCompatibility = map[channelPair]float64{
	{models.ChannelTalkative, models.ChannelMicOnly}:  0.8,
	{models.ChannelTalkative, models.ChannelChatOnly}: 0.3,
	{models.ChannelTalkative, models.ChannelQuiet}:    0.1,
	{models.ChannelMicOnly, models.ChannelTalkative}:  0.8,
	{models.ChannelMicOnly, models.ChannelChatOnly}:   0.5,
	{models.ChannelMicOnly, models.ChannelQuiet}:      0.3,
	{models.ChannelChatOnly, models.ChannelTalkative}: 0.3,
	{models.ChannelChatOnly, models.ChannelMicOnly}:   0.5,
	{models.ChannelChatOnly, models.ChannelQuiet}:     0.7,
	{models.ChannelQuiet, models.ChannelTalkative}:    0.1,
	{models.ChannelQuiet, models.ChannelMicOnly}:      0.3,
	{models.ChannelQuiet, models.ChannelChatOnly}:     0.7,
}

// CommunicationFit scores how well other's own style satisfies what
// preferred asks for. It is directional by construction.
func CommunicationFit(preferred models.TeammateCommunication, other models.SelfCommunication) float64 {
	want, ok := preferred.Channel()
	if !ok {
		return neutralScore
	}
	have, ok := other.Channel()
	if !ok {
		return neutralScore
	}
	if want == have {
		return 1.0
	}
	if score, ok := channelCompatibility[channelPair{want, have}]; ok {
		return score
	}
	return neutralScore
}

// PersonalityFit compares two MBTI codes axis by axis. Identical codes
// score a flat 0.8, which some differing codes outscore.
func PersonalityFit(a, b models.MBTI) float64 {
	if !a.Valid() || !b.Valid() {
		return neutralScore
	}
	if a == b {
		return sameMBTIScore
	}
	var score float64
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			score += sameAxisScore
		} else {
			score += otherAxisScore
		}
	}
	return score
}

// intersect returns the distinct values present in both slices, in a's order.
func intersect[T comparable](a, b []T) []T {
	inB := make(map[T]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	seen := make(map[T]struct{}, len(a))
	var out []T
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
