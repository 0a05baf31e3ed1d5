package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Srushti-17/Docolab/internal/access"
	"github.com/Srushti-17/Docolab/internal/dto"
	"github.com/Srushti-17/Docolab/internal/entity"
	"github.com/Srushti-17/Docolab/internal/pkg/logger"
	"github.com/Srushti-17/Docolab/internal/repository/contract"
	"github.com/Srushti-17/Docolab/internal/repository/implementation"
	"github.com/Srushti-17/Docolab/internal/repository/specification"
	"github.com/Srushti-17/Docolab/pkg/events"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultTitle = "Untitled Document"

type IDocumentService interface {
	List(ctx context.Context, principal *access.Principal) ([]*dto.DocumentResponse, error)
	Create(ctx context.Context, principal *access.Principal, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.DocumentResponse, error)
	Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error
	AddCollaborator(ctx context.Context, principal *access.Principal, id uuid.UUID, email string) (*dto.DocumentResponse, error)
	RemoveCollaborator(ctx context.Context, principal *access.Principal, id, userId uuid.UUID) (*dto.DocumentResponse, error)
	Share(ctx context.Context, principal *access.Principal, id uuid.UUID, email string) error

	// CanRead backs the websocket hub's join authorization.
	CanRead(ctx context.Context, principal *access.Principal, documentId uuid.UUID) error
}

type documentService struct {
	documentRepo     contract.DocumentRepository
	userRepo         contract.UserRepository
	gate             *access.Gate
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewDocumentService(
	documentRepo contract.DocumentRepository,
	userRepo contract.UserRepository,
	gate *access.Gate,
	publisherService IPublisherService,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		documentRepo:     documentRepo,
		userRepo:         userRepo,
		gate:             gate,
		publisherService: publisherService,
		logger:           log,
	}
}

// List returns documents the user owns or collaborates on, most recently
// modified first. Shared-viewer documents are excluded from the listing.
func (s *documentService) List(ctx context.Context, principal *access.Principal) ([]*dto.DocumentResponse, error) {
	docs, err := s.documentRepo.FindAll(ctx,
		specification.AccessibleBy{UserID: principal.UserID},
		specification.OrderBy{Field: "last_modified", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponses(docs), nil
}

func (s *documentService) Create(ctx context.Context, principal *access.Principal, req *dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	title := req.Title
	if title == "" {
		title = defaultTitle
	}

	doc := entity.Document{
		Id:           uuid.New(),
		Title:        title,
		Content:      req.Content,
		OwnerId:      principal.UserID,
		LastModified: time.Now(),
		CreatedAt:    time.Now(),
	}
	if err := s.documentRepo.Create(ctx, &doc); err != nil {
		return nil, err
	}
	return dto.NewDocumentResponse(&doc), nil
}

func (s *documentService) Show(ctx context.Context, principal *access.Principal, id uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleViewer); err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Access denied")
	}
	return dto.NewDocumentResponse(doc), nil
}

// Update applies a partial, last-write-wins write. Omitted fields stay
// untouched; lastModified is bumped even when only the title changed.
func (s *documentService) Update(ctx context.Context, principal *access.Principal, id uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleCollaborator); err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Access denied")
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}

	if err := s.documentRepo.Update(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		return nil, err
	}

	updated, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponse(updated), nil
}

func (s *documentService) Delete(ctx context.Context, principal *access.Principal, id uuid.UUID) error {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleOwner); err != nil {
		return fiber.NewError(fiber.StatusForbidden, "Only the owner can delete this document")
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Document not found")
		}
		return err
	}
	return nil
}

func (s *documentService) AddCollaborator(ctx context.Context, principal *access.Principal, id uuid.UUID, email string) (*dto.DocumentResponse, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleOwner); err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the owner can add collaborators")
	}

	user, err := s.userRepo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	if err := s.documentRepo.AddCollaborator(ctx, id, user.Id); err != nil {
		if errors.Is(err, implementation.ErrAlreadyCollaborator) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "User is already a collaborator")
		}
		return nil, err
	}

	updated, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponse(updated), nil
}

// RemoveCollaborator only consults the collaborator set, never the user
// directory: a stale id that still appears in the set is removable.
func (s *documentService) RemoveCollaborator(ctx context.Context, principal *access.Principal, id, userId uuid.UUID) (*dto.DocumentResponse, error) {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleOwner); err != nil {
		return nil, fiber.NewError(fiber.StatusForbidden, "Only the owner can remove collaborators")
	}

	if err := s.documentRepo.RemoveCollaborator(ctx, id, userId); err != nil {
		if errors.Is(err, implementation.ErrNotACollaborator) {
			return nil, fiber.NewError(fiber.StatusBadRequest, "User is not a collaborator")
		}
		return nil, err
	}

	updated, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponse(updated), nil
}

// Share grants notify-and-read visibility. Re-sharing with an already-shared
// user succeeds silently.
func (s *documentService) Share(ctx context.Context, principal *access.Principal, id uuid.UUID, email string) error {
	doc, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.gate.Authorize(principal, doc, access.RoleOwner); err != nil {
		return fiber.NewError(fiber.StatusForbidden, "Only the owner can share this document")
	}

	user, err := s.userRepo.FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		return err
	}
	if user == nil {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}

	if err := s.documentRepo.AddSharedViewer(ctx, id, user.Id); err != nil {
		return err
	}

	s.publishShared(ctx, doc, user)
	return nil
}

func (s *documentService) CanRead(ctx context.Context, principal *access.Principal, documentId uuid.UUID) error {
	doc, err := s.documentRepo.FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return err
	}
	if doc == nil {
		return access.ErrForbidden
	}
	return s.gate.Authorize(principal, doc, access.RoleViewer)
}

// publishShared emits a DOCUMENT_SHARED event. Notification delivery is
// auxiliary: failures are logged and never fail the share request.
func (s *documentService) publishShared(ctx context.Context, doc *entity.Document, target *entity.User) {
	if s.publisherService == nil {
		return
	}
	evt := events.BaseEvent{
		Type: events.TypeDocumentShared,
		Data: map[string]interface{}{
			"document_id":    doc.Id,
			"document_title": doc.Title,
			"target_user_id": target.Id,
			"target_email":   target.Email,
		},
		OccurredAt: time.Now(),
	}
	payload, err := json.Marshal(events.Envelope(evt))
	if err != nil {
		s.logger.Error("DocumentService", "Failed to encode share event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("DocumentService", "Failed to publish share event", map[string]interface{}{"error": err.Error()})
	}
}

// fetch maps both absence and lookup failure of the id to the API's 404.
func (s *documentService) fetch(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	doc, err := s.documentRepo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	return doc, nil
}
