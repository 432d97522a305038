package entity

import (
	"time"

	"github.com/google/uuid"
)

// CapabilityAiChat marks a file record as usable by retrieval-backed chat.
const CapabilityAiChat = "ai_chat"

type FileRecord struct {
	Id              uuid.UUID
	WorkspaceId     uuid.UUID
	Filename        string
	SizeBytes       int64
	ContentType     string
	StorageKey      string
	KnowledgeBaseId *uuid.UUID
	Capabilities    []string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// HasCapability reports whether the record already carries the given capability.
func (f *FileRecord) HasCapability(capability string) bool {
	for _, c := range f.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
