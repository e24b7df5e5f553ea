package service

import (
	"context"

	"yoohoo/internal/catalog"
	"yoohoo/internal/model"
	"yoohoo/internal/repository"
)

// CategoryService seeds and lists marketplace categories.
type CategoryService interface {
	Seed(ctx context.Context) (int, error)
	List(ctx context.Context) ([]model.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService builds a CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

// Seed upserts the launch categories and returns how many were written.
func (s *categoryService) Seed(ctx context.Context) (int, error) {
	cats := catalog.LaunchCategories()
	if err := s.repo.Upsert(ctx, cats); err != nil {
		return 0, err
	}
	return len(cats), nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	cats, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []model.Category{}
	}
	return cats, nil
}
