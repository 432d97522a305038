package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/dto"
	"helpdesk-knowledge-be/internal/pkg/serverutils"
	"helpdesk-knowledge-be/internal/service"
)

type IIssueController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type issueController struct {
	issueService service.IIssueService
}

func NewIssueController(issueService service.IIssueService) IIssueController {
	return &issueController{
		issueService: issueService,
	}
}

func (c *issueController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/issue/v1")
	// Reads allow anonymous callers (public issues only); writes require login.
	h.Get("", serverutils.OptionalJwtMiddleware, c.List)
	h.Get(":id", serverutils.OptionalJwtMiddleware, c.Show)
	h.Post("", serverutils.JwtMiddleware, c.Create)
	h.Put(":id", serverutils.JwtMiddleware, c.Update)
	h.Delete(":id", serverutils.JwtMiddleware, c.Delete)
}

func (c *issueController) Create(ctx *fiber.Ctx) error {
	callerId := localUUID(ctx, "user_id")
	if callerId == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	var req dto.CreateIssueRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	// Non-admins may only publish into their own workspace.
	if req.WorkspaceId == nil && !localIsAdmin(ctx) {
		req.WorkspaceId = localUUID(ctx, "workspace_id")
	}

	res, err := c.issueService.CreateIssue(ctx.Context(), req, *callerId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create issue", res))
}

func (c *issueController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid issue id"))
	}

	res, err := c.issueService.ShowIssue(ctx.Context(), id, issueVisibility(ctx))
	if err != nil {
		if errors.Is(err, service.ErrIssueNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Issue not found"))
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show issue", res))
}

func (c *issueController) List(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	res, err := c.issueService.ListIssues(ctx.Context(), issueVisibility(ctx), limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list issues", res))
}

func (c *issueController) Update(ctx *fiber.Ctx) error {
	callerId := localUUID(ctx, "user_id")
	if callerId == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid issue id"))
	}

	var req dto.UpdateIssueRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.issueService.UpdateIssue(ctx.Context(), req, *callerId, localIsAdmin(ctx))
	if err != nil {
		return issueError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update issue", res))
}

func (c *issueController) Delete(ctx *fiber.Ctx) error {
	callerId := localUUID(ctx, "user_id")
	if callerId == nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid issue id"))
	}

	if err := c.issueService.DeleteIssue(ctx.Context(), id, *callerId, localIsAdmin(ctx)); err != nil {
		return issueError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete issue", nil))
}

func issueError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIssueNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Issue not found"))
	case errors.Is(err, service.ErrIssueForbidden):
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Issue does not belong to caller"))
	default:
		return err
	}
}
