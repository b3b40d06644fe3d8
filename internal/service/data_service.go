package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Clear targets accepted by ConfirmClear.
const (
	ClearTasks      = "tasks"
	ClearCategories = "categories"
	ClearAll        = "all"

	// ClearConfirmation must be sent verbatim to ConfirmClear.
	ClearConfirmation = "CONFIRM"
)

// DataStats summarizes what is stored.
type DataStats struct {
	TotalCategories    int64 `json:"total_categories"`
	UncategorizedTasks int   `json:"uncategorized_tasks"`
	Breakdown
}

// ClearResult reports what a clear operation removed.
type ClearResult struct {
	TasksDeleted      int64           `json:"tasks_deleted"`
	CategoriesDeleted int64           `json:"categories_deleted"`
	TasksAffected     int64           `json:"tasks_affected"`
	SettingsReset     bool            `json:"settings_reset"`
	Settings          *model.Settings `json:"-"`
}

// Backup is a full logical export of the stored data.
type Backup struct {
	BackupID      string           `json:"backup_id"`
	CreatedAt     string           `json:"created_at"`
	TaskCount     int              `json:"task_count"`
	CategoryCount int              `json:"category_count"`
	Tasks         []BackupTask     `json:"tasks"`
	Categories    []BackupCategory `json:"categories"`
	Settings      BackupSettings   `json:"settings"`
}

type BackupTask struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type BackupCategory struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type BackupSettings struct {
	Theme         string `json:"theme"`
	FontSize      string `json:"font_size"`
	Notifications bool   `json:"notifications"`
}

// BuildBackup assembles a snapshot with RFC 3339 timestamps.
func BuildBackup(id string, now time.Time, tasks []model.Task, categories []model.Category, settings model.Settings) Backup {
	b := Backup{
		BackupID:      id,
		CreatedAt:     now.UTC().Format(time.RFC3339),
		TaskCount:     len(tasks),
		CategoryCount: len(categories),
		Tasks:         make([]BackupTask, 0, len(tasks)),
		Categories:    make([]BackupCategory, 0, len(categories)),
		Settings: BackupSettings{
			Theme:         settings.Theme,
			FontSize:      settings.FontSize,
			Notifications: settings.Notifications,
		},
	}
	for _, t := range tasks {
		bt := BackupTask{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			CategoryID:  t.CategoryID,
			Priority:    string(t.Priority),
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if t.Deadline != nil {
			d := t.Deadline.UTC().Format(time.RFC3339)
			bt.Deadline = &d
		}
		b.Tasks = append(b.Tasks, bt)
	}
	for _, c := range categories {
		b.Categories = append(b.Categories, BackupCategory{ID: c.ID, Name: c.Name})
	}
	return b
}

// DataService implements bulk data management: stats, backup and clearing.
type DataService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	settingsRepo *repository.SettingsRepository
	now          func() time.Time
	newID        func() string
}

func NewDataService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, settingsRepo *repository.SettingsRepository) *DataService {
	return &DataService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		now:          systemClock,
		newID:        uuid.NewString,
	}
}

func (s *DataService) Stats(ctx context.Context) (DataStats, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return DataStats{}, err
	}
	categories, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return DataStats{}, err
	}

	uncategorized, err := s.taskRepo.ListUncategorized(ctx)
	if err != nil {
		return DataStats{}, err
	}
	return DataStats{
		TotalCategories:    categories,
		UncategorizedTasks: len(uncategorized),
		Breakdown:          BreakdownOf(tasks),
	}, nil
}

func (s *DataService) Backup(ctx context.Context) (Backup, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return Backup{}, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return Backup{}, err
	}
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return Backup{}, err
	}
	return BuildBackup(s.newID(), s.now(), tasks, categories, *settings), nil
}

func (s *DataService) ClearTasks(ctx context.Context) (ClearResult, error) {
	n, err := s.taskRepo.DeleteAll(ctx)
	if err != nil {
		return ClearResult{}, err
	}
	return ClearResult{TasksDeleted: n}, nil
}

// ClearCategories removes every category, keeping the tasks uncategorized.
func (s *DataService) ClearCategories(ctx context.Context) (ClearResult, error) {
	removed, detached, err := s.categoryRepo.DeleteAll(ctx, s.now())
	if err != nil {
		return ClearResult{}, err
	}
	return ClearResult{CategoriesDeleted: removed, TasksAffected: detached}, nil
}

// ClearAll deletes tasks, then categories, then resets settings. The steps
// run one after another; an error stops the sequence and earlier steps stay
// applied.
func (s *DataService) ClearAll(ctx context.Context) (ClearResult, error) {
	res, err := s.ClearTasks(ctx)
	if err != nil {
		return res, err
	}
	cats, err := s.ClearCategories(ctx)
	if err != nil {
		return res, err
	}
	res.CategoriesDeleted = cats.CategoriesDeleted
	res.TasksAffected = cats.TasksAffected

	settings, err := s.settingsRepo.Reset(ctx)
	if err != nil {
		return res, err
	}
	res.SettingsReset = true
	res.Settings = settings
	return res, nil
}

// ConfirmClear runs the clear named by target once confirmation matches
// ClearConfirmation exactly.
func (s *DataService) ConfirmClear(ctx context.Context, target, confirmation string) (ClearResult, error) {
	if confirmation != ClearConfirmation {
		return ClearResult{}, validationf("confirmation must be %q", ClearConfirmation)
	}
	switch target {
	case ClearTasks:
		return s.ClearTasks(ctx)
	case ClearCategories:
		return s.ClearCategories(ctx)
	case ClearAll:
		return s.ClearAll(ctx)
	default:
		return ClearResult{}, validationf("target must be one of: tasks, categories, all")
	}
}
