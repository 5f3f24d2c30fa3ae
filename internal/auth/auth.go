// Package auth abstracts the identity collaborator the repositories depend on.
package auth

import "strings"

// Source exposes the signed-in user's identity and credential.
type Source interface {
	// CurrentUserID returns the signed-in user id, or empty when signed out.
	CurrentUserID() string

	// IsAuthenticated reports whether a user is currently signed in.
	IsAuthenticated() bool

	// Token returns the credential attached to document store requests.
	// Empty means no valid credential.
	Token() string
}

// Static is a Source backed by fixed values, fed from configuration.
// Tests and the offline mode use it directly.
type Static struct {
	UserID    string
	AuthToken string
}

// NewStatic creates a Static source.
func NewStatic(userID, token string) *Static {
	return &Static{UserID: strings.TrimSpace(userID), AuthToken: strings.TrimSpace(token)}
}

func (s *Static) CurrentUserID() string { return s.UserID }

func (s *Static) IsAuthenticated() bool { return s.UserID != "" }

func (s *Static) Token() string { return s.AuthToken }
