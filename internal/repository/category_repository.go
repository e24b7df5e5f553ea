package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yoohoo/internal/model"
)

// CategoryRepository persists marketplace categories.
type CategoryRepository interface {
	Upsert(ctx context.Context, cats []model.Category) error
	List(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Upsert inserts or overwrites each category and its requirement row.
func (r *categoryRepository) Upsert(ctx context.Context, cats []model.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range cats {
			c := cats[i]
			req := c.Requirement
			c.Requirement = nil
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&c).Error; err != nil {
				return err
			}
			if req == nil {
				continue
			}
			req.Slug = c.Slug
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(req).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns every category with its requirement, launch set first.
func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := r.db.WithContext(ctx).Preload("Requirement").
		Order("coming_soon ASC").Order("slug ASC").Find(&out).Error
	return out, err
}
