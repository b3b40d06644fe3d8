package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Notifier delivers a plain-text message to the user.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DigestService builds the daily summary and pushes it through a Notifier
// when the user has notifications enabled.
type DigestService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	settingsRepo *repository.SettingsRepository
	notifier     Notifier
	now          func() time.Time
}

func NewDigestService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository, settingsRepo *repository.SettingsRepository, notifier Notifier) *DigestService {
	return &DigestService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		settingsRepo: settingsRepo,
		notifier:     notifier,
		now:          systemClock,
	}
}

// Send delivers the digest and reports whether anything was sent.
func (s *DigestService) Send(ctx context.Context) (bool, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx)
	if err != nil {
		return false, err
	}
	if !settings.Notifications {
		slog.Debug("digest skipped, notifications disabled")
		return false, nil
	}

	text, err := s.Summary(ctx)
	if err != nil {
		return false, err
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		return false, fmt.Errorf("send digest: %w", err)
	}
	return true, nil
}

func (s *DigestService) Summary(ctx context.Context) (string, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return "", err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return "", err
	}
	return buildDigest(tasks, categoryNames(categories), s.now()), nil
}

func buildDigest(tasks []model.Task, names map[uint]string, now time.Time) string {
	overview := BuildOverview(tasks, now)
	overdue := sortByDeadline(FilterOverdue(tasks, now))

	var dueToday []model.Task
	for _, task := range FilterByRange(tasks, DayRange(now)) {
		if task.Status == model.StatusPending {
			dueToday = append(dueToday, task)
		}
	}
	dueToday = sortByDeadline(dueToday)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📋 Daily summary %s\n", formatDate(now)))
	b.WriteString(fmt.Sprintf("Total %d · Pending %d · Completed %d · Overdue %d · Due this week %d\n",
		overview.TotalTasks, overview.PendingTasks, overview.CompletedTasks, overview.OverdueTasks, overview.UpcomingWeekTasks))

	b.WriteString("\n⚠️ Overdue\n")
	writeDigestTasks(&b, overdue, names)

	b.WriteString("\n⏳ Due today\n")
	writeDigestTasks(&b, dueToday, names)

	return strings.TrimSpace(b.String())
}

func writeDigestTasks(b *strings.Builder, tasks []model.Task, names map[uint]string) {
	if len(tasks) == 0 {
		b.WriteString("- nothing\n")
		return
	}
	for _, task := range tasks {
		b.WriteString(fmt.Sprintf("- %s (%s)", strings.TrimSpace(task.Title), categoryLabel(task.CategoryID, names)))
		if task.Deadline != nil {
			b.WriteString(fmt.Sprintf(" · due %s", formatDate(*task.Deadline)))
		}
		if task.Priority == model.PriorityHigh {
			b.WriteString(" · high priority")
		}
		b.WriteByte('\n')
	}
}

func sortByDeadline(tasks []model.Task) []model.Task {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Deadline.Before(*tasks[j].Deadline)
	})
	return tasks
}
