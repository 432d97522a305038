package contract

import (
	"context"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/repository/specification"
)

type FileRecordRepository interface {
	Create(ctx context.Context, record *entity.FileRecord) error
	Update(ctx context.Context, record *entity.FileRecord) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileRecord, error)
}
