package access

import (
	"testing"
	"time"

	"github.com/Srushti-17/Docolab/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	gate := NewGate(testSecret)
	userId := uuid.New()

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{
			name: "valid token",
			token: signToken(t, testSecret, jwt.MapClaims{
				"user_id": userId.String(),
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name:    "missing token",
			token:   "",
			wantErr: true,
		},
		{
			name:    "malformed token",
			token:   "not-a-jwt",
			wantErr: true,
		},
		{
			name: "expired token",
			token: signToken(t, testSecret, jwt.MapClaims{
				"user_id": userId.String(),
				"exp":     time.Now().Add(-time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "wrong secret",
			token: signToken(t, "other-secret", jwt.MapClaims{
				"user_id": userId.String(),
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "missing user_id claim",
			token: signToken(t, testSecret, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
		{
			name: "user_id not a uuid",
			token: signToken(t, testSecret, jwt.MapClaims{
				"user_id": "42",
				"exp":     time.Now().Add(time.Hour).Unix(),
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal, err := gate.Authenticate(tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthenticated)
				assert.Nil(t, principal)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userId, principal.UserID)
		})
	}
}

func TestResolveRole(t *testing.T) {
	owner := uuid.New()
	collaborator := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	doc := &entity.Document{
		Id:            uuid.New(),
		OwnerId:       owner,
		Collaborators: []uuid.UUID{collaborator},
		SharedWith:    []uuid.UUID{viewer},
	}

	tests := []struct {
		name string
		user uuid.UUID
		want Role
	}{
		{"owner", owner, RoleOwner},
		{"collaborator", collaborator, RoleCollaborator},
		{"shared viewer", viewer, RoleViewer},
		{"stranger", stranger, RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRole(&Principal{UserID: tt.user}, doc)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A user in both membership sets resolves to the more privileged role:
// comparison runs owner, collaborators, shared-viewers in priority order.
func TestResolveRoleOverlap(t *testing.T) {
	both := uuid.New()
	doc := &entity.Document{
		Id:            uuid.New(),
		OwnerId:       uuid.New(),
		Collaborators: []uuid.UUID{both},
		SharedWith:    []uuid.UUID{both},
	}

	assert.Equal(t, RoleCollaborator, ResolveRole(&Principal{UserID: both}, doc))
}

func TestAuthorize(t *testing.T) {
	gate := NewGate(testSecret)
	owner := uuid.New()
	collaborator := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	doc := &entity.Document{
		Id:            uuid.New(),
		OwnerId:       owner,
		Collaborators: []uuid.UUID{collaborator},
		SharedWith:    []uuid.UUID{viewer},
	}

	tests := []struct {
		name     string
		user     uuid.UUID
		required Role
		wantErr  bool
	}{
		{"owner can read", owner, RoleViewer, false},
		{"owner can write", owner, RoleCollaborator, false},
		{"owner can administer", owner, RoleOwner, false},
		{"collaborator can read", collaborator, RoleViewer, false},
		{"collaborator can write", collaborator, RoleCollaborator, false},
		{"collaborator cannot administer", collaborator, RoleOwner, true},
		{"viewer can read", viewer, RoleViewer, false},
		{"viewer cannot write", viewer, RoleCollaborator, true},
		{"viewer cannot administer", viewer, RoleOwner, true},
		{"stranger cannot read", stranger, RoleViewer, true},
		{"stranger cannot write", stranger, RoleCollaborator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(&Principal{UserID: tt.user}, doc, tt.required)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrForbidden)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
