package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"notafiscal-server/internal/domain"
)

const profilesTable = "users_public"

// SupabaseProfileRepository implements the domain.ProfileRepository interface
type SupabaseProfileRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

// NewSupabaseProfileRepository creates a new Supabase profile repository
func NewSupabaseProfileRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) domain.ProfileRepository {
	return &SupabaseProfileRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

// Get retrieves the public profile of userID
func (r *SupabaseProfileRepository) Get(ctx context.Context, userID string, token string) (*domain.UserProfile, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated client: %w", err)
	}

	data, _, err := client.From(profilesTable).
		Select("id, full_name, phone, notifications_enabled, first_visit", "", false).
		Eq("id", userID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}

	return mapToProfile(rows[0], userID), nil
}

// Update writes the editable profile fields and clears the first-visit flag
func (r *SupabaseProfileRepository) Update(ctx context.Context, profile *domain.UserProfile, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get authenticated client: %w", err)
	}

	data := map[string]interface{}{
		"full_name":             profile.FullName,
		"phone":                 profile.Phone,
		"notifications_enabled": profile.NotificationsEnabled,
		"first_visit":           false,
	}

	_, _, err = client.From(profilesTable).
		Update(data, "minimal", "").
		Eq("id", profile.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	r.logger.Info("Profile updated successfully", "user_id", profile.ID)
	return nil
}

func mapToProfile(data map[string]interface{}, userID string) *domain.UserProfile {
	profile := &domain.UserProfile{
		ID:                   getString(data, "id"),
		FullName:             getString(data, "full_name"),
		Phone:                getString(data, "phone"),
		NotificationsEnabled: getBool(data, "notifications_enabled", false),
		FirstVisit:           getBool(data, "first_visit", false),
	}
	if profile.ID == "" {
		profile.ID = userID
	}
	profile.CountryCode, profile.LocalPhone = domain.SplitPhone(profile.Phone)
	return profile
}
