package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// CategoryService provides helpers around categories.
type CategoryService struct {
	repo     *repository.CategoryRepository
	taskRepo *repository.TaskRepository
	now      func() time.Time
}

func NewCategoryService(repo *repository.CategoryRepository, taskRepo *repository.TaskRepository) *CategoryService {
	return &CategoryService{repo: repo, taskRepo: taskRepo, now: systemClock}
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("category name is required")
	}

	taken, err := s.repo.NameTaken(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflictf("category %q already exists", name)
	}

	now := s.now()
	category := model.Category{Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, &category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictf("category %q already exists", name)
		}
		return nil, err
	}
	return &category, nil
}

// GetCategory returns the category together with its tasks.
func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	return s.repo.GetWithTasks(ctx, id)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id uint, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("category name is required")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.NameTaken(ctx, name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, conflictf("category name %q already exists", name)
	}

	if err := s.repo.Rename(ctx, id, name, model.NextUpdatedAt(s.now(), current.UpdatedAt)); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictf("category name %q already exists", name)
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// DeleteCategory removes the category, keeping its tasks uncategorized, and
// returns how many tasks were affected.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (int64, error) {
	return s.repo.Delete(ctx, id, s.now())
}

func (s *CategoryService) ListWithCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	return s.repo.ListWithCounts(ctx)
}

// Stats computes per-category completion figures plus the uncategorized bucket.
func (s *CategoryService) Stats(ctx context.Context) (CategoryStats, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return CategoryStats{}, err
	}
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return CategoryStats{}, err
	}
	return BuildCategoryStats(categories, tasks), nil
}

// Names maps category ids to names.
func (s *CategoryService) Names(ctx context.Context) (map[uint]string, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return categoryNames(categories), nil
}

func categoryNames(categories []model.Category) map[uint]string {
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}
