package model

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string    `gorm:"type:varchar(255);not null;default:'Untitled Document'"`
	Content       string    `gorm:"type:text"`
	OwnerId       uuid.UUID `gorm:"type:uuid;not null;index"`
	Collaborators []UserRef `gorm:"many2many:document_collaborators;constraint:OnDelete:CASCADE"`
	SharedWith    []UserRef `gorm:"many2many:document_shared_viewers;constraint:OnDelete:CASCADE"`
	LastModified  time.Time `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (Document) TableName() string {
	return "documents"
}
