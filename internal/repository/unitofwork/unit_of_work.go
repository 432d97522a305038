package unitofwork

import (
	"context"

	"helpdesk-knowledge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	WorkspaceRepository() contract.WorkspaceRepository
	IssueRepository() contract.IssueRepository
	FileRecordRepository() contract.FileRecordRepository
	KnowledgeBaseRepository() contract.KnowledgeBaseRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	DocumentChunkRepository() contract.DocumentChunkRepository
}
