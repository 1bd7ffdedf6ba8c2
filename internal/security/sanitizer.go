package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mroshb/duo_finder/pkg/errors"
)

const (
	MaxTextLength     = 1000
	MaxNicknameLength = 20
)

var (
	htmlPolicy = bluemonday.StrictPolicy()

	discordUsernameRegex = regexp.MustCompile(`(?i)^[a-z0-9._]{2,32}$`)
	discordLegacyRegex   = regexp.MustCompile(`^.{2,32}#[0-9]{4}$`)
	sqlKeywordRegex      = regexp.MustCompile(`(?i)\b(select|insert|update|delete|drop|union|exec|script)\b`)
)

// SanitizeText strips markup and control bytes and caps the length in runes
func SanitizeText(input string, maxRunes int) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = htmlPolicy.Sanitize(input)
	input = strings.TrimSpace(input)

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}
	return input
}

// SanitizeNickname also removes SQL keywords, which nicknames never need
func SanitizeNickname(input string) string {
	input = sqlKeywordRegex.ReplaceAllString(input, "")
	return SanitizeText(strings.Join(strings.Fields(input), " "), MaxNicknameLength)
}

// ValidateUUID returns INVALID_IDENTIFIER for anything that is not a UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil || id == "" {
		return errors.New(errors.ErrCodeInvalidIdentifier, "malformed identifier")
	}
	return nil
}

// ValidateDiscordID accepts new style usernames and legacy name#1234 tags
func ValidateDiscordID(id string) bool {
	id = strings.TrimSpace(id)
	return discordUsernameRegex.MatchString(id) || discordLegacyRegex.MatchString(id)
}
