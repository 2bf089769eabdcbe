package domain

import (
	"context"
	"regexp"
	"strings"
)

// SupabaseUser represents a user from Supabase Auth
type SupabaseUser struct {
	ID           string
	Email        string
	UserMetadata map[string]interface{}
	CreatedAt    string
	UpdatedAt    string
}

// UserProfile is a row of users_public.
type UserProfile struct {
	ID                   string `json:"id"`
	FullName             string `json:"full_name"`
	Phone                string `json:"phone"`
	CountryCode          string `json:"country_code"`
	LocalPhone           string `json:"local_phone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	FirstVisit           bool   `json:"first_visit"`
}

// ProfileUpdate carries the editable profile fields. Phone is the local number;
// it is prefixed with CountryCode before validation.
type ProfileUpdate struct {
	FullName             string `json:"full_name"`
	CountryCode          string `json:"country_code"`
	Phone                string `json:"phone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string, token string) (*UserProfile, error)
	Update(ctx context.Context, profile *UserProfile, token string) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, auth AuthContext) (*UserProfile, error)
	UpdateProfile(ctx context.Context, auth AuthContext, update ProfileUpdate) (*UserProfile, error)
}

// DefaultCountryCode is assumed for numbers stored without a known prefix.
const DefaultCountryCode = "+55"

// Longest first so "+598" wins over "+59"-like prefixes.
var supportedCountryCodes = []string{
	"+598", "+351", "+55", "+54", "+57", "+56", "+52", "+51", "+49", "+44", "+39", "+34", "+33", "+1",
}

var (
	e164Pattern    = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)
	phoneSeparator = regexp.MustCompile(`[\s-]`)
)

// ValidPhone reports whether value looks like an E.164 number once spaces and
// dashes are removed.
func ValidPhone(value string) bool {
	return e164Pattern.MatchString(phoneSeparator.ReplaceAllString(value, ""))
}

// SplitPhone separates a stored phone into country code and local part.
func SplitPhone(full string) (countryCode, local string) {
	if !strings.HasPrefix(full, "+") {
		return DefaultCountryCode, full
	}
	for _, code := range supportedCountryCodes {
		if strings.HasPrefix(full, code) {
			return code, strings.TrimSpace(full[len(code):])
		}
	}
	return DefaultCountryCode, full[1:]
}
