package client

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenStore hands out the stored credential token, if any. Implementations
// wrap whatever persistent storage the host application uses.
type TokenStore interface {
	Token() (string, bool)
}

// StaticTokenStore is the trivial store: an empty value means no token.
type StaticTokenStore string

func (s StaticTokenStore) Token() (string, bool) {
	return string(s), s != ""
}

// Identity is what the resolver extracts from a credential token.
type Identity struct {
	TherapistID string
	Role        string
}

// IdentityResolver extracts the subject identifier from the stored token.
// It never touches the network; a missing or undecodable token resolves to
// the configured fallback identifier with the weakest role.
type IdentityResolver struct {
	store    TokenStore
	fallback string
}

func NewIdentityResolver(store TokenStore, fallbackID string) *IdentityResolver {
	return &IdentityResolver{store: store, fallback: fallbackID}
}

func (r *IdentityResolver) Resolve() Identity {
	fallback := Identity{TherapistID: r.fallback, Role: "viewer"}

	tokenString, ok := r.store.Token()
	if !ok {
		return fallback
	}

	// The client only needs the claims; signature verification is the
	// server's job.
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return fallback
	}

	id, _ := claims["therapist_id"].(string)
	if id == "" {
		if sub, err := claims.GetSubject(); err == nil {
			id = sub
		}
	}
	if id == "" {
		return fallback
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = "therapist"
	}
	return Identity{TherapistID: id, Role: role}
}
