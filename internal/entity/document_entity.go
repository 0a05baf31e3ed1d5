package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the domain view of a document record. Collaborators and
// SharedWith are sets: the repository enforces uniqueness of membership.
type Document struct {
	Id            uuid.UUID
	Title         string
	Content       string
	OwnerId       uuid.UUID
	Collaborators []uuid.UUID
	SharedWith    []uuid.UUID
	LastModified  time.Time
	CreatedAt     time.Time
}

// HasCollaborator reports whether userId is in the collaborator set.
func (d *Document) HasCollaborator(userId uuid.UUID) bool {
	for _, id := range d.Collaborators {
		if id == userId {
			return true
		}
	}
	return false
}

// HasSharedViewer reports whether userId is in the shared-viewer set.
func (d *Document) HasSharedViewer(userId uuid.UUID) bool {
	for _, id := range d.SharedWith {
		if id == userId {
			return true
		}
	}
	return false
}
