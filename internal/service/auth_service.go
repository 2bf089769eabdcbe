package service

import (
	"fmt"
	"sync"
	"time"

	"notafiscal-server/internal/domain"
)

const validatedTokenCacheTTL = 30 * time.Second

type validatedTokenEntry struct {
	user      *domain.SupabaseUser
	expiresAt time.Time
}

type authService struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger

	tokenCacheMu sync.RWMutex
	tokenCache   map[string]validatedTokenEntry
	now          func() time.Time
}

func NewAuthService(
	supabaseClient domain.SupabaseClient,
	logger domain.Logger,
) *authService {
	return &authService{
		supabaseClient: supabaseClient,
		logger:         logger,
		tokenCache:     make(map[string]validatedTokenEntry),
		now:            time.Now,
	}
}

// ValidateToken resolves the user behind token. Successful lookups are cached
// for validatedTokenCacheTTL.
func (s *authService) ValidateToken(token string) (*domain.SupabaseUser, error) {
	now := s.now()

	s.tokenCacheMu.RLock()
	entry, ok := s.tokenCache[token]
	s.tokenCacheMu.RUnlock()
	if ok && now.Before(entry.expiresAt) {
		return entry.user, nil
	}

	user, err := s.supabaseClient.ValidateToken(token)
	if err != nil {
		s.logger.Warn("Failed to validate token with Supabase", "error", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	s.tokenCacheMu.Lock()
	for k, e := range s.tokenCache {
		if !now.Before(e.expiresAt) {
			delete(s.tokenCache, k)
		}
	}
	s.tokenCache[token] = validatedTokenEntry{user: user, expiresAt: now.Add(validatedTokenCacheTTL)}
	s.tokenCacheMu.Unlock()

	return user, nil
}
