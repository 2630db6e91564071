package client

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mindcare/therapist-api/pkg/auth"
	"github.com/stretchr/testify/assert"
)

const testFallbackID = "00000000-0000-0000-0000-000000000001"

func mintToken(t *testing.T, therapistID uuid.UUID, role string) string {
	t.Helper()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	token, err := jwtSvc.GenerateToken(therapistID, role)
	assert.NoError(t, err)
	return token
}

func TestResolve_TokenWithClaim(t *testing.T) {
	therapistID := uuid.New()
	token := mintToken(t, therapistID, auth.RoleTherapist)

	resolver := NewIdentityResolver(StaticTokenStore(token), testFallbackID)
	identity := resolver.Resolve()

	assert.Equal(t, therapistID.String(), identity.TherapistID)
	assert.Equal(t, auth.RoleTherapist, identity.Role)
}

func TestResolve_MissingToken(t *testing.T) {
	resolver := NewIdentityResolver(StaticTokenStore(""), testFallbackID)
	identity := resolver.Resolve()

	assert.Equal(t, testFallbackID, identity.TherapistID)
	assert.Equal(t, "viewer", identity.Role)
}

func TestResolve_MalformedToken(t *testing.T) {
	resolver := NewIdentityResolver(StaticTokenStore("not.a.jwt"), testFallbackID)
	identity := resolver.Resolve()

	assert.Equal(t, testFallbackID, identity.TherapistID)
}
