package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

type testEnv struct {
	tasks      *TaskService
	categories *CategoryService
	settings   *SettingsService
	reports    *ReportService
	data       *DataService

	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	settingsRepo *repository.SettingsRepository
}

// newTestEnv wires every service over a fresh SQLite file. When now is
// non-nil it replaces the clock of every service.
func newTestEnv(t *testing.T, now func() time.Time) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	env := &testEnv{
		taskRepo:     repository.NewTaskRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		settingsRepo: repository.NewSettingsRepository(db),
	}
	env.tasks = NewTaskService(env.taskRepo, env.categoryRepo)
	env.categories = NewCategoryService(env.categoryRepo, env.taskRepo)
	env.settings = NewSettingsService(env.settingsRepo)
	env.reports = NewReportService(env.taskRepo, env.categoryRepo)
	env.data = NewDataService(env.taskRepo, env.categoryRepo, env.settingsRepo)
	if now != nil {
		env.tasks.now = now
		env.categories.now = now
		env.reports.now = now
		env.data.now = now
	}
	return env
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	task, err := env.tasks.CreateTask(ctx, TaskInput{Title: "  Buy milk  "})
	require.NoError(t, err)
	assert.NotZero(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Nil(t, task.Deadline)
	assert.Nil(t, task.CategoryID)
	assert.False(t, task.UpdatedAt.Before(task.CreatedAt))
}

func TestCreateTaskValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.tasks.CreateTask(ctx, TaskInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.CreateTask(ctx, TaskInput{Title: "x", Priority: "urgent"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.CreateTask(ctx, TaskInput{Title: "x", Deadline: "15/03/2024"})
	assert.ErrorIs(t, err, ErrValidation)

	task, err := env.tasks.CreateTask(ctx, TaskInput{Title: "x", Priority: "high", Deadline: "2024-03-15 14:30:00"})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityHigh, task.Priority)
	require.NotNil(t, task.Deadline)
	assert.Equal(t, time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC), *task.Deadline)
}

func TestCreateTaskUnknownCategoryPersistsNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	missing := uint(99)
	_, err := env.tasks.CreateTask(ctx, TaskInput{Title: "A", CategoryID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := env.taskRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateTaskStatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, fixedClock(time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)))

	task, err := env.tasks.CreateTask(ctx, TaskInput{Title: "A"})
	require.NoError(t, err)

	completed, err := env.tasks.UpdateTask(ctx, task.ID, TaskPatch{Status: model.Some("Completed")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.True(t, completed.UpdatedAt.After(task.UpdatedAt))

	pending, err := env.tasks.UpdateTask(ctx, task.ID, TaskPatch{Status: model.Some("Pending")})
	require.NoError(t, err)
	assert.Equal(t, task.Status, pending.Status)
	assert.True(t, pending.UpdatedAt.After(completed.UpdatedAt))
	assert.True(t, pending.CreatedAt.Equal(task.CreatedAt))
}

func TestUpdateTaskPartialFields(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	work, err := env.categories.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	task, err := env.tasks.CreateTask(ctx, TaskInput{
		Title:       "A",
		Description: "keep me",
		CategoryID:  &work.ID,
		Deadline:    "2024-03-15",
	})
	require.NoError(t, err)

	updated, err := env.tasks.UpdateTask(ctx, task.ID, TaskPatch{
		Title:      model.Some("B"),
		CategoryID: model.Some[*uint](nil),
		Deadline:   model.Some[*string](nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Deadline)

	// An empty patch still advances updated_at.
	touched, err := env.tasks.UpdateTask(ctx, task.ID, TaskPatch{})
	require.NoError(t, err)
	assert.True(t, touched.UpdatedAt.After(updated.UpdatedAt))

	missing := uint(1234)
	_, err = env.tasks.UpdateTask(ctx, task.ID, TaskPatch{CategoryID: model.Some(&missing)})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.tasks.UpdateTask(ctx, task.ID, TaskPatch{Priority: model.Some("none")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.UpdateTask(ctx, task.ID, TaskPatch{Status: model.Some("done")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.tasks.UpdateTask(ctx, 999, TaskPatch{Title: model.Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkStatusAndDelete(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	task, err := env.tasks.CreateTask(ctx, TaskInput{Title: "A"})
	require.NoError(t, err)

	done, err := env.tasks.MarkStatus(ctx, task.ID, model.StatusCompleted)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted())

	existed, err := env.tasks.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = env.tasks.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	existed, err = env.tasks.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestListTasksFilters(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	work, err := env.categories.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, TaskInput{Title: "a", CategoryID: &work.ID, Priority: "High"})
	require.NoError(t, err)
	b, err := env.tasks.CreateTask(ctx, TaskInput{Title: "b", CategoryID: &work.ID})
	require.NoError(t, err)
	_, err = env.tasks.MarkStatus(ctx, b.ID, model.StatusCompleted)
	require.NoError(t, err)
	_, err = env.tasks.CreateTask(ctx, TaskInput{Title: "c", Priority: "high"})
	require.NoError(t, err)

	all, err := env.tasks.ListTasks(ctx, TaskQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	high, err := env.tasks.ListTasks(ctx, TaskQuery{Priority: "HIGH"})
	require.NoError(t, err)
	assert.Len(t, high, 2)

	got, err := env.tasks.ListTasks(ctx, TaskQuery{CategoryID: &work.ID, Status: "completed"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Title)
}

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	_, err := env.categories.CreateCategory(ctx, " ")
	assert.ErrorIs(t, err, ErrValidation)

	work, err := env.categories.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	home, err := env.categories.CreateCategory(ctx, "Home")
	require.NoError(t, err)

	_, err = env.categories.CreateCategory(ctx, "Work")
	assert.ErrorIs(t, err, ErrConflict)

	// Names are compared exactly.
	_, err = env.categories.CreateCategory(ctx, "work")
	require.NoError(t, err)

	_, err = env.categories.UpdateCategory(ctx, home.ID, "Work")
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := env.categories.UpdateCategory(ctx, work.ID, "Work")
	require.NoError(t, err)
	assert.Equal(t, "Work", renamed.Name)

	renamed, err = env.categories.UpdateCategory(ctx, work.ID, "Office")
	require.NoError(t, err)
	assert.Equal(t, "Office", renamed.Name)

	_, err = env.categories.UpdateCategory(ctx, 999, "Nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.categories.DeleteCategory(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCategoryKeepsTasks(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	work, err := env.categories.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	a, err := env.tasks.CreateTask(ctx, TaskInput{Title: "A", CategoryID: &work.ID})
	require.NoError(t, err)

	affected, err := env.categories.DeleteCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := env.tasks.GetTask(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)

	rows, _, err := env.reports.ExportRows(ctx, ReportAll, "", "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Uncategorized, rows[0].Category)
}

func TestCategoryStatsAndCounts(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	work, err := env.categories.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	_, err = env.categories.CreateCategory(ctx, "Empty")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		task, err := env.tasks.CreateTask(ctx, TaskInput{Title: "w", CategoryID: &work.ID})
		require.NoError(t, err)
		if i == 0 {
			_, err = env.tasks.MarkStatus(ctx, task.ID, model.StatusCompleted)
			require.NoError(t, err)
		}
	}
	_, err = env.tasks.CreateTask(ctx, TaskInput{Title: "loose"})
	require.NoError(t, err)

	stats, err := env.categories.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCategories)
	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, "Work", stats.CategoryBreakdown[0].Name)
	assert.Equal(t, 3, stats.CategoryBreakdown[0].TotalTasks)
	assert.Equal(t, 1, stats.CategoryBreakdown[0].CompletedTasks)
	assert.Equal(t, 33.3, stats.CategoryBreakdown[0].CompletionRate)
	assert.Equal(t, Breakdown{}, stats.CategoryBreakdown[1].Breakdown)
	assert.Equal(t, 1, stats.Uncategorized.TotalTasks)
	assert.Equal(t, 1, stats.Uncategorized.PendingTasks)

	counts, err := env.categories.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, int64(3), counts[0].TaskCount)
	assert.Zero(t, counts[1].TaskCount)

	detail, err := env.categories.GetCategory(ctx, work.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Tasks, 3)
}

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ThemeLight, settings.Theme)
	assert.Equal(t, model.FontMedium, settings.FontSize)
	assert.True(t, settings.Notifications)

	bad := "blue"
	_, err = env.settings.Update(ctx, SettingsPatch{Theme: &bad})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.settings.Update(ctx, SettingsPatch{FontSize: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	off := false
	updated, err := env.settings.Update(ctx, SettingsPatch{Notifications: &off})
	require.NoError(t, err)
	assert.False(t, updated.Notifications)
	assert.Equal(t, model.ThemeLight, updated.Theme)

	dark := model.ThemeDark
	updated, err = env.settings.Update(ctx, SettingsPatch{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, model.ThemeDark, updated.Theme)
	assert.False(t, updated.Notifications)

	reset, err := env.settings.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), *reset)
}
