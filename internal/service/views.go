package service

import (
	"math"
	"sort"
	"strconv"
	"time"

	"taskmaster/internal/model"
)

// DateRange is an inclusive span of calendar days in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether day falls on or between Start and End.
func (r DateRange) Contains(day time.Time) bool {
	d := model.DateOf(day)
	return !d.Before(r.Start) && !d.After(r.End)
}

// DayRange covers a single calendar day.
func DayRange(day time.Time) DateRange {
	d := model.DateOf(day)
	return DateRange{Start: d, End: d}
}

// WeekRange covers today through today+7 days.
func WeekRange(now time.Time) DateRange {
	today := model.DateOf(now)
	return DateRange{Start: today, End: today.AddDate(0, 0, 7)}
}

// MonthRange covers the first through the last day of the current month.
func MonthRange(now time.Time) DateRange {
	today := model.DateOf(now)
	first := today.AddDate(0, 0, 1-today.Day())
	return DateRange{Start: first, End: first.AddDate(0, 1, -1)}
}

// CustomRange parses both bounds and rejects an inverted span.
func CustomRange(startRaw, endRaw string) (DateRange, error) {
	start, err := ParseDate(startRaw)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return DateRange{}, err
	}
	if start.After(end) {
		return DateRange{}, validationf("start_date %s is after end_date %s", startRaw, endRaw)
	}
	return DateRange{Start: start, End: end}, nil
}

// FilterByRange keeps tasks whose deadline date lies within r.
func FilterByRange(tasks []model.Task, r DateRange) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range tasks {
		if task.Deadline != nil && r.Contains(*task.Deadline) {
			out = append(out, task)
		}
	}
	return out
}

// IsOverdue reports whether a pending task's deadline date is before today.
func IsOverdue(task model.Task, now time.Time) bool {
	day, ok := task.DeadlineDate()
	return ok && task.Status == model.StatusPending && day.Before(model.DateOf(now))
}

func FilterOverdue(tasks []model.Task, now time.Time) []model.Task {
	out := make([]model.Task, 0)
	for _, task := range tasks {
		if IsOverdue(task, now) {
			out = append(out, task)
		}
	}
	return out
}

// Overview holds the dashboard counters.
type Overview struct {
	TotalTasks        int `json:"total_tasks"`
	PendingTasks      int `json:"pending_tasks"`
	CompletedTasks    int `json:"completed_tasks"`
	OverdueTasks      int `json:"overdue_tasks"`
	UpcomingWeekTasks int `json:"upcoming_week_tasks"`
}

// BuildOverview counts tasks in a single pass.
func BuildOverview(tasks []model.Task, now time.Time) Overview {
	week := WeekRange(now)
	var o Overview
	for _, task := range tasks {
		o.TotalTasks++
		switch task.Status {
		case model.StatusPending:
			o.PendingTasks++
		case model.StatusCompleted:
			o.CompletedTasks++
		}
		if IsOverdue(task, now) {
			o.OverdueTasks++
		}
		if task.Deadline != nil && week.Contains(*task.Deadline) {
			o.UpcomingWeekTasks++
		}
	}
	return o
}

// CompletionRate is completed/total as a percentage rounded to one decimal,
// halves to even, and 0 for an empty set.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.RoundToEven(float64(completed)/float64(total)*1000) / 10
}

// Breakdown counts a task set by status.
type Breakdown struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

func (b *Breakdown) add(task model.Task) {
	b.TotalTasks++
	switch task.Status {
	case model.StatusCompleted:
		b.CompletedTasks++
	case model.StatusPending:
		b.PendingTasks++
	}
	b.CompletionRate = CompletionRate(b.CompletedTasks, b.TotalTasks)
}

// BreakdownOf summarizes tasks.
func BreakdownOf(tasks []model.Task) Breakdown {
	var b Breakdown
	for _, task := range tasks {
		b.add(task)
	}
	return b
}

// CategoryBreakdown is a Breakdown labelled with a category name.
type CategoryBreakdown struct {
	Category string `json:"category"`
	Breakdown
}

// BuildCategoryBreakdown groups tasks by category name, labelling tasks with
// no category as Uncategorized. Groups are sorted by name.
func BuildCategoryBreakdown(tasks []model.Task, names map[uint]string) []CategoryBreakdown {
	groups := make(map[string]*Breakdown)
	for _, task := range tasks {
		label := categoryLabel(task.CategoryID, names)
		b, ok := groups[label]
		if !ok {
			b = &Breakdown{}
			groups[label] = b
		}
		b.add(task)
	}

	out := make([]CategoryBreakdown, 0, len(groups))
	for label, b := range groups {
		out = append(out, CategoryBreakdown{Category: label, Breakdown: *b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// CategoryStat is the Breakdown of one stored category.
type CategoryStat struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Breakdown
}

// CategoryStats reports every category plus tasks with no category.
type CategoryStats struct {
	TotalCategories   int            `json:"total_categories"`
	CategoryBreakdown []CategoryStat `json:"category_breakdown"`
	Uncategorized     Breakdown      `json:"uncategorized_tasks"`
}

// BuildCategoryStats computes figures for every category, including empty ones.
func BuildCategoryStats(categories []model.Category, tasks []model.Task) CategoryStats {
	byID := make(map[uint]*Breakdown, len(categories))
	for _, c := range categories {
		byID[c.ID] = &Breakdown{}
	}

	var uncategorized Breakdown
	for _, task := range tasks {
		if task.CategoryID == nil {
			uncategorized.add(task)
			continue
		}
		if b, ok := byID[*task.CategoryID]; ok {
			b.add(task)
		}
	}

	stats := CategoryStats{
		TotalCategories:   len(categories),
		CategoryBreakdown: make([]CategoryStat, 0, len(categories)),
		Uncategorized:     uncategorized,
	}
	for _, c := range categories {
		stats.CategoryBreakdown = append(stats.CategoryBreakdown, CategoryStat{ID: c.ID, Name: c.Name, Breakdown: *byID[c.ID]})
	}
	return stats
}

// TaskView is a task rendered for responses.
type TaskView struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    *string        `json:"category"`
	CategoryID  *uint          `json:"category_id"`
	Priority    model.Priority `json:"priority"`
	Deadline    *string        `json:"deadline"`
	Status      model.Status   `json:"status"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

func NewTaskView(task model.Task, names map[uint]string) TaskView {
	v := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		CategoryID:  task.CategoryID,
		Priority:    task.Priority,
		Status:      task.Status,
		CreatedAt:   formatDateTime(task.CreatedAt),
		UpdatedAt:   formatDateTime(task.UpdatedAt),
	}
	if task.CategoryID != nil {
		if name, ok := names[*task.CategoryID]; ok {
			v.Category = &name
		}
	}
	if task.Deadline != nil {
		d := formatDateTime(*task.Deadline)
		v.Deadline = &d
	}
	return v
}

func NewTaskViews(tasks []model.Task, names map[uint]string) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewTaskView(task, names))
	}
	return out
}

// ExportColumns are the header labels of an export, in order.
var ExportColumns = []string{"ID", "Title", "Description", "Category", "Priority", "Deadline", "Status", "Created At", "Updated At"}

// ExportRow is the flat record handed to the export writers.
type ExportRow struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    string
	Deadline    string
	Status      string
	CreatedAt   string
	UpdatedAt   string
}

// Values returns the row in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{r.ID, r.Title, r.Description, r.Category, r.Priority, r.Deadline, r.Status, r.CreatedAt, r.UpdatedAt}
}

// NewExportRow projects a task, using Uncategorized for a missing category
// and empty strings for missing optional fields.
func NewExportRow(task model.Task, names map[uint]string) ExportRow {
	row := ExportRow{
		ID:          strconv.FormatUint(uint64(task.ID), 10),
		Title:       task.Title,
		Description: task.Description,
		Category:    categoryLabel(task.CategoryID, names),
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		CreatedAt:   formatDateTime(task.CreatedAt),
		UpdatedAt:   formatDateTime(task.UpdatedAt),
	}
	if task.Deadline != nil {
		row.Deadline = formatDateTime(*task.Deadline)
	}
	return row
}

func NewExportRows(tasks []model.Task, names map[uint]string) []ExportRow {
	out := make([]ExportRow, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, NewExportRow(task, names))
	}
	return out
}

func categoryLabel(id *uint, names map[uint]string) string {
	if id == nil {
		return model.Uncategorized
	}
	if name, ok := names[*id]; ok {
		return name
	}
	return model.Uncategorized
}

func formatDateTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(model.DateTimeLayout)
}

func formatDate(ts time.Time) string {
	return ts.UTC().Format(model.DateLayout)
}
