package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRef mirrors the identity service's users table. This backend only
// reads it (email lookups and membership joins); writes belong to the
// identity service.
type UserRef struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username  string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserRef) TableName() string {
	return "users"
}
