package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/repository/specification"
	"helpdesk-knowledge-be/internal/service"
	"helpdesk-knowledge-be/pkg/search"
)

// localUUID reads a UUID claim set by the JWT middleware; nil when the
// request is anonymous or the claim is malformed.
func localUUID(ctx *fiber.Ctx, key string) *uuid.UUID {
	raw, ok := ctx.Locals(key).(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}

func localIsAdmin(ctx *fiber.Ctx) bool {
	isAdmin, ok := ctx.Locals("is_admin").(bool)
	return ok && isAdmin
}

func callerVisibility(ctx *fiber.Ctx) search.Visibility {
	return search.Visibility{
		CallerId:    localUUID(ctx, "user_id"),
		WorkspaceId: localUUID(ctx, "workspace_id"),
		IsAdmin:     localIsAdmin(ctx),
	}
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, service.ErrFileRecordNotFound) || errors.Is(err, service.ErrIssueNotFound)
}

func issueVisibility(ctx *fiber.Ctx) specification.IssueVisibility {
	v := callerVisibility(ctx)
	return specification.IssueVisibility{
		CallerId:    v.CallerId,
		WorkspaceId: v.WorkspaceId,
		IsAdmin:     v.IsAdmin,
		PublicOnly:  v.IsPublicOnly(),
	}
}
