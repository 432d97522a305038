package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/mapper"
	"helpdesk-knowledge-be/internal/model"
	"helpdesk-knowledge-be/internal/repository/contract"
	"helpdesk-knowledge-be/internal/repository/specification"
)

type FileRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileRecordMapper
}

func NewFileRecordRepository(db *gorm.DB) contract.FileRecordRepository {
	return &FileRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileRecordMapper(),
	}
}

func (r *FileRecordRepositoryImpl) Create(ctx context.Context, record *entity.FileRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileRecordRepositoryImpl) Update(ctx context.Context, record *entity.FileRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *FileRecordRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.FileRecord, error) {
	var m model.FileRecord
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
