package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// TaskFilter narrows List. Nil fields impose no constraint.
type TaskFilter struct {
	CategoryID *uint
	Status     *model.Status
	Priority   *model.Priority
}

// TaskRepository handles CRUD for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return wrap("create task", r.db.WithContext(ctx).Create(task).Error)
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, wrap("find task", err)
	}
	return &task, nil
}

// List returns tasks matching every set field of filter, oldest first.
// Status and priority are compared case-insensitively.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("LOWER(status) = LOWER(?)", string(*filter.Status))
	}
	if filter.Priority != nil {
		query = query.Where("LOWER(priority) = LOWER(?)", string(*filter.Priority))
	}

	var tasks []model.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.List(ctx, TaskFilter{})
}

// ListUncategorized returns tasks without a category.
func (r *TaskRepository) ListUncategorized(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Where("category_id IS NULL").Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, wrap("list uncategorized tasks", err)
	}
	return tasks, nil
}

// Update writes the given columns and updated_at. Hooks are skipped so the
// caller fully controls the timestamp.
func (r *TaskRepository) Update(ctx context.Context, id uint, columns map[string]interface{}, updatedAt time.Time) error {
	values := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		values[k] = v
	}
	values["updated_at"] = updatedAt

	res := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).UpdateColumns(values)
	if res.Error != nil {
		return wrap("update task", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update task", ErrNotFound)
	}
	return nil
}

// Delete removes a task and reports whether it existed.
func (r *TaskRepository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, id)
	if res.Error != nil {
		return false, wrap("delete task", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteAll removes every task and returns how many were removed.
func (r *TaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("1 = 1").Delete(&model.Task{})
	if res.Error != nil {
		return 0, wrap("delete all tasks", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Count(&n).Error; err != nil {
		return 0, wrap("count tasks", err)
	}
	return n, nil
}
