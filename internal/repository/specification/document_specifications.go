package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccessibleBy filters documents where the user is the owner OR a
// collaborator. Shared-viewers are deliberately excluded from listings:
// sharing grants visibility of a single document, not dashboard presence.
type AccessibleBy struct {
	UserID uuid.UUID
}

func (s AccessibleBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"owner_id = ? OR id IN (?)",
		s.UserID,
		db.Session(&gorm.Session{NewDB: true}).
			Table("document_collaborators").
			Select("document_id").
			Where("user_ref_id = ?", s.UserID),
	)
}
