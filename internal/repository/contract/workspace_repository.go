package contract

import (
	"context"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *entity.Workspace) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Workspace, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
