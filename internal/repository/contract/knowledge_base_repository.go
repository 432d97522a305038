package contract

import (
	"context"

	"github.com/google/uuid"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
)

type KnowledgeBaseRepository interface {
	Create(ctx context.Context, kb *entity.KnowledgeBase) error
	Update(ctx context.Context, kb *entity.KnowledgeBase) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeBase, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeBase, error)
	// FindActiveVector returns the workspace's single active vector-retrieval base, or nil.
	FindActiveVector(ctx context.Context, workspaceId uuid.UUID) (*entity.KnowledgeBase, error)
	IncrementDocumentCount(ctx context.Context, id uuid.UUID, delta int) error
	// DeactivateByWorkspace soft-disables all bases for a torn-down workspace (never hard-deletes).
	DeactivateByWorkspace(ctx context.Context, workspaceId uuid.UUID) error
}
