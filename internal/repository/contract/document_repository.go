package contract

import (
	"context"

	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/repository/specification"

	"github.com/google/uuid"
)

// DocumentRepository owns the canonical document record. Update is
// last-write-wins by design: there is no version token and no row lock,
// the most recently completed write determines each field's value.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	// Update overwrites only the given columns and always bumps
	// last_modified. Fields absent from the map are left unchanged.
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddCollaborator(ctx context.Context, docId, userId uuid.UUID) error
	RemoveCollaborator(ctx context.Context, docId, userId uuid.UUID) error
	AddSharedViewer(ctx context.Context, docId, userId uuid.UUID) error
}
