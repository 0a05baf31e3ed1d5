package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a read-only projection of the external identity directory.
// Credential issuance and password state live in the identity service,
// never in this core.
type User struct {
	Id        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
}
