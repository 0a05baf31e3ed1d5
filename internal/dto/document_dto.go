package dto

import (
	"time"

	"github.com/Srushti-17/Docolab/internal/entity"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateDocumentRequest carries partial updates: a nil field means "leave
// unchanged", which is distinct from an empty string.
type UpdateDocumentRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type AddCollaboratorRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ShareDocumentRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// DocumentResponse keeps the wire format the web client already speaks,
// including the Mongo-era "_id" key.
type DocumentResponse struct {
	Id            uuid.UUID   `json:"_id"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	Owner         uuid.UUID   `json:"owner"`
	Collaborators []uuid.UUID `json:"collaborators"`
	SharedWith    []uuid.UUID `json:"sharedWith"`
	LastModified  time.Time   `json:"lastModified"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func NewDocumentResponse(d *entity.Document) *DocumentResponse {
	if d == nil {
		return nil
	}
	collaborators := d.Collaborators
	if collaborators == nil {
		collaborators = []uuid.UUID{}
	}
	sharedWith := d.SharedWith
	if sharedWith == nil {
		sharedWith = []uuid.UUID{}
	}
	return &DocumentResponse{
		Id:            d.Id,
		Title:         d.Title,
		Content:       d.Content,
		Owner:         d.OwnerId,
		Collaborators: collaborators,
		SharedWith:    sharedWith,
		LastModified:  d.LastModified,
		CreatedAt:     d.CreatedAt,
	}
}

func NewDocumentResponses(docs []*entity.Document) []*DocumentResponse {
	responses := make([]*DocumentResponse, len(docs))
	for i, d := range docs {
		responses[i] = NewDocumentResponse(d)
	}
	return responses
}
