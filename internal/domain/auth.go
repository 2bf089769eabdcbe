package domain

type AuthService interface {
	ValidateToken(token string) (*SupabaseUser, error)
}

// AuthContext is the resolved identity a request acts as. Token is forwarded to
// Supabase so row level security applies to every query and upload.
type AuthContext struct {
	UserID string
	Token  string
}

// Authenticated reports whether both the user id and the access token are known.
func (a AuthContext) Authenticated() bool {
	return a.UserID != "" && a.Token != ""
}
