package mapper

import (
	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/model"
)

type FileRecordMapper struct{}

func NewFileRecordMapper() *FileRecordMapper {
	return &FileRecordMapper{}
}

func (m *FileRecordMapper) ToEntity(f *model.FileRecord) *entity.FileRecord {
	if f == nil {
		return nil
	}
	return &entity.FileRecord{
		Id:              f.Id,
		WorkspaceId:     f.WorkspaceId,
		Filename:        f.Filename,
		SizeBytes:       f.SizeBytes,
		ContentType:     f.ContentType,
		StorageKey:      f.StorageKey,
		KnowledgeBaseId: f.KnowledgeBaseId,
		Capabilities:    jsonToStrings(f.Capabilities),
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       optionalTime(f.UpdatedAt),
	}
}

func (m *FileRecordMapper) ToModel(f *entity.FileRecord) *model.FileRecord {
	if f == nil {
		return nil
	}
	out := &model.FileRecord{
		Id:              f.Id,
		WorkspaceId:     f.WorkspaceId,
		Filename:        f.Filename,
		SizeBytes:       f.SizeBytes,
		ContentType:     f.ContentType,
		StorageKey:      f.StorageKey,
		KnowledgeBaseId: f.KnowledgeBaseId,
		Capabilities:    stringsToJSON(f.Capabilities),
		CreatedAt:       f.CreatedAt,
	}
	if f.UpdatedAt != nil {
		out.UpdatedAt = *f.UpdatedAt
	}
	return out
}
