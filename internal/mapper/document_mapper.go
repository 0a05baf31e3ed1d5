package mapper

import (
	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/model"

	"github.com/google/uuid"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	return &entity.Document{
		Id:            d.Id,
		Title:         d.Title,
		Content:       d.Content,
		OwnerId:       d.OwnerId,
		Collaborators: refIds(d.Collaborators),
		SharedWith:    refIds(d.SharedWith),
		LastModified:  d.LastModified,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	return &model.Document{
		Id:            d.Id,
		Title:         d.Title,
		Content:       d.Content,
		OwnerId:       d.OwnerId,
		Collaborators: idRefs(d.Collaborators),
		SharedWith:    idRefs(d.SharedWith),
		LastModified:  d.LastModified,
		CreatedAt:     d.CreatedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func refIds(refs []model.UserRef) []uuid.UUID {
	ids := make([]uuid.UUID, len(refs))
	for i, r := range refs {
		ids[i] = r.Id
	}
	return ids
}

func idRefs(ids []uuid.UUID) []model.UserRef {
	refs := make([]model.UserRef, len(ids))
	for i, id := range ids {
		refs[i] = model.UserRef{Id: id}
	}
	return refs
}
