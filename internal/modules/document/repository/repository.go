package repository

import (
	"context"

	"contractdesk/internal/entity"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindByID(ctx context.Context, id uint) (*entity.Document, error)
	FindByContract(ctx context.Context, contractID uint) ([]*entity.Document, error)
	Delete(ctx context.Context, id uint) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*entity.Document, error) {
	var doc entity.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByContract(ctx context.Context, contractID uint) ([]*entity.Document, error) {
	var docs []*entity.Document
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("uploaded_at ASC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.Document{}, id).Error
}
