package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"helpdesk-knowledge-be/internal/entity"
	"helpdesk-knowledge-be/internal/mapper"
	"helpdesk-knowledge-be/internal/model"
	"helpdesk-knowledge-be/internal/repository/contract"
	"helpdesk-knowledge-be/internal/repository/specification"
)

type IssueRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.IssueMapper
}

func NewIssueRepository(db *gorm.DB) contract.IssueRepository {
	return &IssueRepositoryImpl{
		db:     db,
		mapper: mapper.NewIssueMapper(),
	}
}

func (r *IssueRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *IssueRepositoryImpl) Create(ctx context.Context, issue *entity.Issue) error {
	m := r.mapper.ToModel(issue)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*issue = *r.mapper.ToEntity(m)
	return nil
}

func (r *IssueRepositoryImpl) Update(ctx context.Context, issue *entity.Issue) error {
	m := r.mapper.ToModel(issue)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*issue = *r.mapper.ToEntity(m)
	return nil
}

func (r *IssueRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Issue{}, id).Error
}

func (r *IssueRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Issue, error) {
	var m model.Issue
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *IssueRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Issue, error) {
	var models []*model.Issue
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Issue, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *IssueRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.Issue{}).Count(&count).Error
	return count, err
}
