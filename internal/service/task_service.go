package service

import (
	"context"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Description string
	CategoryID  *uint
	Priority    string
	Deadline    string
}

// TaskPatch lists the fields an update may change. Only fields with Set are
// written; a set CategoryID or Deadline holding nil clears the column.
type TaskPatch struct {
	Title       model.Optional[string]  `json:"title"`
	Description model.Optional[string]  `json:"description"`
	CategoryID  model.Optional[*uint]   `json:"category_id"`
	Priority    model.Optional[string]  `json:"priority"`
	Deadline    model.Optional[*string] `json:"deadline"`
	Status      model.Optional[string]  `json:"status"`
}

// TaskQuery filters ListTasks. Empty fields impose no constraint.
type TaskQuery struct {
	CategoryID *uint
	Status     string
	Priority   string
}

// TaskService wraps task-related business logic.
type TaskService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	now          func() time.Time
}

func NewTaskService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, categoryRepo: categoryRepo, now: systemClock}
}

func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}

	priority := model.PriorityMedium
	if input.Priority != "" {
		p, ok := model.ParsePriority(input.Priority)
		if !ok {
			return nil, validationf("priority must be one of: Low, Medium, High")
		}
		priority = p
	}

	var deadline *time.Time
	if strings.TrimSpace(input.Deadline) != "" {
		d, err := ParseDeadline(input.Deadline)
		if err != nil {
			return nil, err
		}
		deadline = &d
	}

	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	task := model.Task{
		CategoryID:  input.CategoryID,
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		Deadline:    deadline,
		Status:      model.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask returns the task or an error wrapping ErrNotFound.
func (s *TaskService) GetTask(ctx context.Context, id uint) (*model.Task, error) {
	return s.taskRepo.FindByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, query TaskQuery) ([]model.Task, error) {
	filter := repository.TaskFilter{CategoryID: query.CategoryID}
	if query.Status != "" {
		status := model.Status(query.Status)
		filter.Status = &status
	}
	if query.Priority != "" {
		priority := model.Priority(query.Priority)
		filter.Priority = &priority
	}
	return s.taskRepo.List(ctx, filter)
}

// UpdateTask applies patch to the task. updated_at advances even when no
// field actually changes.
func (s *TaskService) UpdateTask(ctx context.Context, id uint, patch TaskPatch) (*model.Task, error) {
	columns, err := taskColumns(patch)
	if err != nil {
		return nil, err
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.CategoryID.Set && patch.CategoryID.Value != nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID.Value); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, id, columns, model.NextUpdatedAt(s.now(), task.UpdatedAt)); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByID(ctx, id)
}

// MarkStatus is UpdateTask with only the status changed.
func (s *TaskService) MarkStatus(ctx context.Context, id uint, status model.Status) (*model.Task, error) {
	return s.UpdateTask(ctx, id, TaskPatch{Status: model.Some(string(status))})
}

// DeleteTask removes a task and reports whether it existed.
func (s *TaskService) DeleteTask(ctx context.Context, id uint) (bool, error) {
	return s.taskRepo.Delete(ctx, id)
}

func (s *TaskService) ensureCategory(ctx context.Context, id uint) error {
	ok, err := s.categoryRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundf("category %d", id)
	}
	return nil
}

// taskColumns validates every supplied field and maps it to its column.
func taskColumns(patch TaskPatch) (map[string]interface{}, error) {
	columns := make(map[string]interface{})

	if patch.Title.Set {
		title := strings.TrimSpace(patch.Title.Value)
		if title == "" {
			return nil, validationf("title is required")
		}
		columns["title"] = title
	}
	if patch.Description.Set {
		columns["description"] = patch.Description.Value
	}
	if patch.CategoryID.Set {
		if patch.CategoryID.Value == nil {
			columns["category_id"] = nil
		} else {
			columns["category_id"] = *patch.CategoryID.Value
		}
	}
	if patch.Priority.Set {
		p, ok := model.ParsePriority(patch.Priority.Value)
		if !ok {
			return nil, validationf("priority must be one of: Low, Medium, High")
		}
		columns["priority"] = p
	}
	if patch.Status.Set {
		st, ok := model.ParseStatus(patch.Status.Value)
		if !ok {
			return nil, validationf("status must be one of: Pending, Completed")
		}
		columns["status"] = st
	}
	if patch.Deadline.Set {
		if patch.Deadline.Value == nil || strings.TrimSpace(*patch.Deadline.Value) == "" {
			columns["deadline"] = nil
		} else {
			d, err := ParseDeadline(*patch.Deadline.Value)
			if err != nil {
				return nil, err
			}
			columns["deadline"] = d
		}
	}
	return columns, nil
}

// ParseDeadline accepts "YYYY-MM-DD HH:MM:SS" or, failing that, "YYYY-MM-DD".
func ParseDeadline(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(model.DateTimeLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(model.DateLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, validationf("invalid deadline %q, use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", raw)
}

// ParseDate parses a strict "YYYY-MM-DD" calendar date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, validationf("invalid date %q, use YYYY-MM-DD", raw)
	}
	return t, nil
}
