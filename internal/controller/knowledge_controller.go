package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/pkg/serverutils"
	"helpdesk-knowledge-be/internal/service"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	UploadFile(ctx *fiber.Ctx) error
	IngestFile(ctx *fiber.Ctx) error
	ActivateFile(ctx *fiber.Ctx) error
	ShowDocument(ctx *fiber.Ctx) error
	ListBases(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	fileService      service.IFileService
	knowledgeService service.IKnowledgeService
	ingestionService service.IIngestionService
}

func NewKnowledgeController(
	fileService service.IFileService,
	knowledgeService service.IKnowledgeService,
	ingestionService service.IIngestionService,
) IKnowledgeController {
	return &knowledgeController{
		fileService:      fileService,
		knowledgeService: knowledgeService,
		ingestionService: ingestionService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("files", c.UploadFile)
	h.Post("files/:id/ingest", c.IngestFile)
	h.Post("files/:id/activate", c.ActivateFile)
	h.Get("documents/:id", c.ShowDocument)
	h.Get("bases", c.ListBases)
}

func (c *knowledgeController) UploadFile(ctx *fiber.Ctx) error {
	workspaceId := localUUID(ctx, "workspace_id")
	if workspaceId == nil {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Workspace membership required"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "File is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.fileService.UploadFile(ctx.Context(), *workspaceId, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("File uploaded, ingestion queued", res))
}

func (c *knowledgeController) IngestFile(ctx *fiber.Ctx) error {
	workspaceId := localUUID(ctx, "workspace_id")
	if workspaceId == nil {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Workspace membership required"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid file record id"))
	}

	if err := c.knowledgeService.EnqueueIngestion(ctx.Context(), id, *workspaceId); err != nil {
		if errorsIsNotFound(err) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "File record not found"))
		}
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse[any]("Ingestion queued", nil))
}

func (c *knowledgeController) ActivateFile(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid file record id"))
	}

	record, err := c.ingestionService.ActivateRetrieval(ctx.Context(), id)
	if err != nil {
		if errorsIsNotFound(err) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "File record not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Retrieval activated", dto.CapabilityUpdateResponse{
		FileRecordId: record.Id,
		Capabilities: record.Capabilities,
	}))
}

func (c *knowledgeController) ShowDocument(ctx *fiber.Ctx) error {
	workspaceId := localUUID(ctx, "workspace_id")
	if workspaceId == nil {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Workspace membership required"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid document id"))
	}

	res, err := c.knowledgeService.GetDocumentStatus(ctx.Context(), id, *workspaceId)
	if err != nil {
		return err
	}
	if res == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Document not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *knowledgeController) ListBases(ctx *fiber.Ctx) error {
	workspaceId := localUUID(ctx, "workspace_id")
	if workspaceId == nil {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Workspace membership required"))
	}

	res, err := c.knowledgeService.ListKnowledgeBases(ctx.Context(), *workspaceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list knowledge bases", res))
}
