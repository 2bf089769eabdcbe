package service

import (
	"context"
	"strings"

	"notafiscal-server/internal/domain"
)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

type profileService struct {
	profiles domain.ProfileRepository
	logger   domain.Logger
}

func NewProfileService(profiles domain.ProfileRepository, logger domain.Logger) *profileService {
	return &profileService{profiles: profiles, logger: logger}
}

func (s *profileService) GetProfile(ctx context.Context, auth domain.AuthContext) (*domain.UserProfile, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	return s.profiles.Get(ctx, auth.UserID, auth.Token)
}

// UpdateProfile stores the editable fields. The phone is the local number joined
// to its country code; an empty local number clears it.
func (s *profileService) UpdateProfile(ctx context.Context, auth domain.AuthContext, update domain.ProfileUpdate) (*domain.UserProfile, error) {
	if !auth.Authenticated() {
		return nil, domain.ErrNotAuthenticated
	}

	phone := ""
	if local := phoneSeparators.Replace(strings.TrimSpace(update.Phone)); local != "" {
		code := strings.TrimSpace(update.CountryCode)
		if code == "" {
			code = domain.DefaultCountryCode
		}
		phone = code + local
		if !domain.ValidPhone(phone) {
			return nil, domain.ErrInvalidPhone
		}
	}

	profile := &domain.UserProfile{
		ID:                   auth.UserID,
		FullName:             strings.TrimSpace(update.FullName),
		Phone:                phone,
		NotificationsEnabled: update.NotificationsEnabled,
		FirstVisit:           false,
	}
	if err := s.profiles.Update(ctx, profile, auth.Token); err != nil {
		s.logger.Error("Failed to update profile", err, "user_id", auth.UserID)
		return nil, err
	}

	profile.CountryCode, profile.LocalPhone = domain.SplitPhone(phone)
	return profile, nil
}
