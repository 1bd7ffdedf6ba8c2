package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mroshb/duo_finder/pkg/errors"
)

const testSecret = "test_secret_key_minimum_32_chars"

func TestGenerateJWT(t *testing.T) {
	tests := []struct {
		name     string
		userID   string
		nickname string
	}{
		{
			name:     "Regular user",
			userID:   "6f1c3c0e-3c9a-4a4e-9a8f-3f0f1f1a2b3c",
			nickname: "tracer",
		},
		{
			name:   "Without nickname",
			userID: "0b8e5f32-6c4f-4b1a-8f2e-1d2c3b4a5f6e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateJWT(tt.userID, tt.nickname, testSecret, time.Now())
			if err != nil {
				t.Fatalf("GenerateJWT() error = %v", err)
			}

			claims, err := ValidateJWT(token, testSecret)
			if err != nil {
				t.Fatalf("ValidateJWT() error = %v", err)
			}
			if claims.UserID() != tt.userID {
				t.Errorf("UserID() = %q, want %q", claims.UserID(), tt.userID)
			}
			if claims.Nickname != tt.nickname {
				t.Errorf("Nickname = %q, want %q", claims.Nickname, tt.nickname)
			}
		})
	}
}

func TestValidateJWT_Rejects(t *testing.T) {
	userID := "6f1c3c0e-3c9a-4a4e-9a8f-3f0f1f1a2b3c"

	expired, _ := GenerateJWT(userID, "", testSecret, time.Now().Add(-48*time.Hour))
	wrongSecret, _ := GenerateJWT(userID, "", "another_secret_key_of_32_characters", time.Now())
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
	}{
		{name: "Expired", token: expired},
		{name: "Wrong secret", token: wrongSecret},
		{name: "Subject is not a UUID", token: badSubject},
		{name: "Garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateJWT(tt.token, testSecret)
			if !errors.Is(err, errors.ErrCodeUnauthorized) {
				t.Errorf("ValidateJWT() error = %v, want UNAUTHORIZED", err)
			}
		})
	}

	if _, err := GenerateJWT("42", "", testSecret, time.Now()); !errors.Is(err, errors.ErrCodeInvalidIdentifier) {
		t.Errorf("GenerateJWT(non-uuid) error = %v, want INVALID_IDENTIFIER", err)
	}
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "Valid", id: "6f1c3c0e-3c9a-4a4e-9a8f-3f0f1f1a2b3c", wantErr: false},
		{name: "Empty", id: "", wantErr: true},
		{name: "Numeric", id: "12345", wantErr: true},
		{name: "Injection", id: "1' OR '1'='1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUUID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDiscordID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{id: "genji.main", want: true},
		{id: "Reaper_76", want: true},
		{id: "OldName#1234", want: true},
		{id: "x", want: false},
		{id: "has space", want: false},
		{id: "name#12", want: false},
		{id: strings.Repeat("a", 33), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidateDiscordID(tt.id); got != tt.want {
				t.Errorf("ValidateDiscordID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "Strips tags", input: "<b>hello</b>", max: 100, want: "hello"},
		{name: "Drops scripts", input: "hi<script>alert(1)</script>", max: 100, want: "hi"},
		{name: "Trims", input: "  gg  ", max: 100, want: "gg"},
		{name: "Caps by rune", input: "트레이서입니다", max: 3, want: "트레이"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input, tt.max); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if got := SanitizeNickname("drop  table   ana"); got != "table ana" {
		t.Errorf("SanitizeNickname() = %q, want %q", got, "table ana")
	}
}
