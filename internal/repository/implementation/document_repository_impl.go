package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/mapper"
	"github.com/Srushti-17/Docolab/internal/model"
	"github.com/Srushti-17/Docolab/internal/repository/contract"
	"github.com/Srushti-17/Docolab/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrAlreadyCollaborator is returned when adding a user already in the
	// collaborator set. Membership is a set, adds must be idempotent-checked.
	ErrAlreadyCollaborator = errors.New("user is already a collaborator")
	// ErrNotACollaborator is returned when removing a user who is not in the
	// collaborator set.
	ErrNotACollaborator = errors.New("user is not a collaborator")
)

type DocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentMapper
}

func NewDocumentRepository(db *gorm.DB) contract.DocumentRepository {
	return &DocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentMapper(),
	}
}

func (r *DocumentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *entity.Document) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error) {
	var m model.Document
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Collaborators").Preload("SharedWith"), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var models []*model.Document
	query := r.applySpecifications(r.db.WithContext(ctx).Preload("Collaborators").Preload("SharedWith"), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// Update is last-write-wins: no row lock, no version check. Concurrent
// writers overwrite each other per column, which is the accepted policy for
// the collaborative editor (the realtime channel mirrors edits, persistence
// just records the latest save).
func (r *DocumentRepositoryImpl) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	fields["last_modified"] = time.Now()
	res := r.db.WithContext(ctx).Model(&model.Document{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Select(clause.Associations).Delete(&model.Document{Id: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DocumentRepositoryImpl) AddCollaborator(ctx context.Context, docId, userId uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).
		Table("document_collaborators").
		Where("document_id = ? AND user_ref_id = ?", docId, userId).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return ErrAlreadyCollaborator
	}

	doc := model.Document{Id: docId}
	return r.db.WithContext(ctx).Model(&doc).
		Association("Collaborators").
		Append(&model.UserRef{Id: userId})
}

// RemoveCollaborator is a pure set-membership operation: it checks the
// collaborator set, never the user directory.
func (r *DocumentRepositoryImpl) RemoveCollaborator(ctx context.Context, docId, userId uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).
		Table("document_collaborators").
		Where("document_id = ? AND user_ref_id = ?", docId, userId).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotACollaborator
	}

	doc := model.Document{Id: docId}
	return r.db.WithContext(ctx).Model(&doc).
		Association("Collaborators").
		Delete(&model.UserRef{Id: userId})
}

// AddSharedViewer is idempotent: re-sharing with an already-shared user is a
// silent no-op, not an error.
func (r *DocumentRepositoryImpl) AddSharedViewer(ctx context.Context, docId, userId uuid.UUID) error {
	var n int64
	if err := r.db.WithContext(ctx).
		Table("document_shared_viewers").
		Where("document_id = ? AND user_ref_id = ?", docId, userId).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	doc := model.Document{Id: docId}
	return r.db.WithContext(ctx).Model(&doc).
		Association("SharedWith").
		Append(&model.UserRef{Id: userId})
}
