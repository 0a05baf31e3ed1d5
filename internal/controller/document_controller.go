package controller

import (
	"github.com/Srushti-17/Docolab/internal/dto"
	"github.com/Srushti-17/Docolab/internal/pkg/serverutils"
	"github.com/Srushti-17/Docolab/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router, auth fiber.Handler)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AddCollaborator(ctx *fiber.Ctx) error
	RemoveCollaborator(ctx *fiber.Ctx) error
	Share(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	h := r.Group("/documents")
	h.Use(auth)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
	h.Post(":id/collaborators", c.AddCollaborator)
	h.Delete(":id/collaborators/:userId", c.RemoveCollaborator)
	h.Post(":id/share", c.Share)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)

	res, err := c.documentService.List(ctx.Context(), principal)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)

	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.documentService.Create(ctx.Context(), principal, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.Show(ctx.Context(), principal, id)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Update(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.documentService.Update(ctx.Context(), principal, id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	if err := c.documentService.Delete(ctx.Context(), principal, id); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Document removed"})
}

func (c *documentController) AddCollaborator(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	var req dto.AddCollaboratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.AddCollaborator(ctx.Context(), principal, id, req.Email)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) RemoveCollaborator(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	userId, err := uuid.Parse(ctx.Params("userId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "User is not a collaborator")
	}

	res, err := c.documentService.RemoveCollaborator(ctx.Context(), principal, id, userId)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) Share(ctx *fiber.Ctx) error {
	principal := serverutils.PrincipalFromCtx(ctx)
	id, err := parseDocumentId(ctx)
	if err != nil {
		return err
	}

	var req dto.ShareDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.documentService.Share(ctx.Context(), principal, id, req.Email); err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"message": "Document shared"})
}

// parseDocumentId treats a malformed id exactly like a missing document.
func parseDocumentId(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, "Document not found")
	}
	return id, nil
}
