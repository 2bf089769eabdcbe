package supabase

import (
	"fmt"
	"strings"
	"time"

	"notafiscal-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SupabaseClient implements the domain.SupabaseClient interface
type SupabaseClient struct {
	client *supabase.Client
	config domain.Config
	logger domain.Logger
}

// NewSupabaseClient creates a new Supabase client instance
func NewSupabaseClient(config domain.Config, logger domain.Logger) domain.SupabaseClient {
	return &SupabaseClient{
		config: config,
		logger: logger,
	}
}

// Initialize establishes a connection to Supabase
func (s *SupabaseClient) Initialize() error {
	supabaseURL := s.config.GetSupabaseURL()
	supabaseKey := s.config.GetSupabaseKey()

	if supabaseURL == "" || supabaseKey == "" {
		return fmt.Errorf("supabase URL and key must be provided")
	}

	client, err := supabase.NewClient(supabaseURL, supabaseKey, &supabase.ClientOptions{})
	if err != nil {
		return fmt.Errorf("failed to create Supabase client: %w", err)
	}

	s.client = client
	s.logger.Info("Supabase client initialized successfully", "url", supabaseURL)
	return nil
}

// GetClientWithToken returns a client that sends the user's access token on
// PostgREST and storage requests so row level security applies.
func (s *SupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domain.ErrNotAuthenticated
	}

	client, err := supabase.NewClient(s.config.GetSupabaseURL(), s.config.GetSupabaseKey(), &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}

// ValidateToken validates a Supabase JWT token and returns user info
func (s *SupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	if s.client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	// Passing "Authorization" via client headers does not reach GoTrue, so the
	// auth client is re-bound to the token instead.
	user, err := s.client.Auth.WithToken(token).GetUser()
	if err != nil {
		s.logger.Warn("Failed to validate token with Supabase", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}

	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	return &domain.SupabaseUser{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: user.UserMetadata,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    user.UpdatedAt.Format(time.RFC3339),
	}, nil
}
