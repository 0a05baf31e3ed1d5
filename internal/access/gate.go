package access

import (
	"errors"

	"github.com/Srushti-17/Docolab/internal/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrUnauthenticated covers missing, malformed, badly signed and expired
	// tokens. Callers map it to 401.
	ErrUnauthenticated = errors.New("token is not valid")
	// ErrForbidden means the principal is authenticated but its resolved role
	// is below the required one. Callers map it to 403.
	ErrForbidden = errors.New("access denied")
)

// Role is ordered by privilege. Comparisons use the numeric order, so
// RoleOwner satisfies any requirement.
type Role int

const (
	RoleNone Role = iota
	RoleViewer
	RoleCollaborator
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	case RoleViewer:
		return "viewer"
	default:
		return "none"
	}
}

// Principal is the identity derived from a verified token. It is rebuilt on
// every request and never persisted.
type Principal struct {
	UserID uuid.UUID
}

// Gate verifies bearer tokens and authorizes operations against a document's
// membership sets. Token issuance belongs to the identity service; the gate
// only validates.
type Gate struct {
	secret []byte
}

func NewGate(secret string) *Gate {
	return &Gate{secret: []byte(secret)}
}

// Authenticate verifies an HS256 token and extracts the user id claim.
func (g *Gate) Authenticate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrUnauthenticated
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthenticated
	}
	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrUnauthenticated
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return &Principal{UserID: userId}, nil
}

// ResolveRole compares the principal against owner, collaborators and
// shared-viewers in that priority order. First match wins.
func ResolveRole(p *Principal, doc *entity.Document) Role {
	if p == nil || doc == nil {
		return RoleNone
	}
	if doc.OwnerId == p.UserID {
		return RoleOwner
	}
	if doc.HasCollaborator(p.UserID) {
		return RoleCollaborator
	}
	if doc.HasSharedViewer(p.UserID) {
		return RoleViewer
	}
	return RoleNone
}

// Authorize fails with ErrForbidden when the principal's resolved role is
// below required. Shared-viewers are read-only: write requires at least
// RoleCollaborator, membership changes and delete require RoleOwner.
func (g *Gate) Authorize(p *Principal, doc *entity.Document, required Role) error {
	if ResolveRole(p, doc) < required {
		return ErrForbidden
	}
	return nil
}
