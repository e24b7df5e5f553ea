package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// DocumentRepository defines compliance document persistence operations.
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	Update(ctx context.Context, doc *model.Document) error
	Delete(ctx context.Context, doc *model.Document) error
	FindForUser(ctx context.Context, uid string, id uuid.UUID) (*model.Document, error)
	FindManyForUser(ctx context.Context, uid string, ids []uuid.UUID) ([]model.Document, error)
	ListByUser(ctx context.Context, uid string) ([]model.Document, error)
	ListPending(ctx context.Context) ([]model.Document, error)
	CountByStatus(ctx context.Context, status model.ReviewStatus) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository.
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) Delete(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Delete(doc).Error
}

func (r *documentRepository) FindForUser(ctx context.Context, uid string, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, uid).First(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindManyForUser(ctx context.Context, uid string, ids []uuid.UUID) ([]model.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []model.Document
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Where(clause.IN{Column: clause.Column{Name: "id"}, Values: uuidValues(ids)}).Find(&out).Error
	return out, err
}

func (r *documentRepository) ListByUser(ctx context.Context, uid string) ([]model.Document, error) {
	var out []model.Document
	err := r.db.WithContext(ctx).Where("user_id = ?", uid).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *documentRepository) ListPending(ctx context.Context) ([]model.Document, error) {
	var out []model.Document
	err := r.db.WithContext(ctx).Where("status = ?", model.ReviewPending).Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *documentRepository) CountByStatus(ctx context.Context, status model.ReviewStatus) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Document{}).Where("status = ?", status).Count(&n).Error
	return n, err
}

func uuidValues(ids []uuid.UUID) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}
