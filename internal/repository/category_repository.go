package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// CategoryCount is a category annotated with the number of tasks it holds.
type CategoryCount struct {
	ID        uint
	Name      string
	TaskCount int64
}

// CategoryRepository manages task categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return wrap("create category", r.db.WithContext(ctx).Create(category).Error)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &category, nil
}

// GetWithTasks loads the category and its tasks ordered by id.
func (r *CategoryRepository) GetWithTasks(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("tasks.id ASC") }).
		First(&category, id).Error
	if err != nil {
		return nil, wrap("find category", err)
	}
	return &category, nil
}

// NameTaken reports whether a category other than exceptID already uses name.
// Pass exceptID 0 to check against every category.
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	var n int64
	query := r.db.WithContext(ctx).Model(&model.Category{}).Where("name = ?", name)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}
	if err := query.Count(&n).Error; err != nil {
		return false, wrap("check category name", err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, wrap("check category", err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, wrap("list categories", err)
	}
	return categories, nil
}

// ListWithCounts returns every category with its current task count.
func (r *CategoryRepository) ListWithCounts(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Category{}).
		Select("categories.id AS id, categories.name AS name, COUNT(tasks.id) AS task_count").
		Joins("LEFT JOIN tasks ON tasks.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrap("list categories", err)
	}
	return rows, nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"name": name, "updated_at": updatedAt})
	if res.Error != nil {
		return wrap("rename category", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("rename category", ErrNotFound)
	}
	return nil
}

// Delete detaches every task from the category and then removes it, in one
// transaction. It returns the number of tasks that lost their category.
func (r *CategoryRepository) Delete(ctx context.Context, id uint, now time.Time) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category model.Category
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}

		n, err := detachTasks(tx, now, "category_id = ?", id)
		if err != nil {
			return err
		}
		affected = n

		return tx.Delete(&category).Error
	})
	if err != nil {
		return 0, wrap("delete category", err)
	}
	return affected, nil
}

// DeleteAll detaches every categorized task and removes all categories in one
// transaction. It returns categories removed and tasks detached.
func (r *CategoryRepository) DeleteAll(ctx context.Context, now time.Time) (int64, int64, error) {
	var removed, detached int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := detachTasks(tx, now, "category_id IS NOT NULL")
		if err != nil {
			return err
		}
		detached = n

		res := tx.Where("1 = 1").Delete(&model.Category{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, 0, wrap("delete all categories", err)
	}
	return removed, detached, nil
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Category{}).Count(&n).Error; err != nil {
		return 0, wrap("count categories", err)
	}
	return n, nil
}

// detachTasks clears category_id on the tasks matching query. Each task's
// updated_at moves to now, or just past its stored value if that is later.
func detachTasks(tx *gorm.DB, now time.Time, query string, args ...interface{}) (int64, error) {
	var tasks []model.Task
	if err := tx.Select("id", "updated_at").Where(query, args...).Find(&tasks).Error; err != nil {
		return 0, err
	}
	for _, task := range tasks {
		err := tx.Model(&model.Task{}).Where("id = ?", task.ID).
			UpdateColumns(map[string]interface{}{
				"category_id": nil,
				"updated_at":  model.NextUpdatedAt(now, task.UpdatedAt),
			}).Error
		if err != nil {
			return 0, err
		}
	}
	return int64(len(tasks)), nil
}
