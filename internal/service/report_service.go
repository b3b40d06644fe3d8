package service

import (
	"context"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// Report kinds.
const (
	ReportWeekly  = "weekly"
	ReportMonthly = "monthly"
	ReportCustom  = "custom"
	ReportAll     = "all"
)

// Report summarizes the tasks due within a period.
type Report struct {
	ReportType        string              `json:"report_type"`
	PeriodStart       string              `json:"period_start"`
	PeriodEnd         string              `json:"period_end"`
	CategoryBreakdown []CategoryBreakdown `json:"category_breakdown"`
	Tasks             []TaskView          `json:"tasks"`
	Breakdown
}

// CalendarWeek lists the tasks due in the coming week.
type CalendarWeek struct {
	WeekStart string     `json:"week_start"`
	WeekEnd   string     `json:"week_end"`
	Tasks     []TaskView `json:"tasks"`
}

// ReportService builds dashboard, calendar and report views.
type ReportService struct {
	taskRepo     *repository.TaskRepository
	categoryRepo *repository.CategoryRepository
	now          func() time.Time
}

func NewReportService(taskRepo *repository.TaskRepository, categoryRepo *repository.CategoryRepository) *ReportService {
	return &ReportService{taskRepo: taskRepo, categoryRepo: categoryRepo, now: systemClock}
}

func (s *ReportService) Overview(ctx context.Context) (Overview, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	return BuildOverview(tasks, s.now()), nil
}

func (s *ReportService) Overdue(ctx context.Context) ([]TaskView, error) {
	tasks, names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return NewTaskViews(FilterOverdue(tasks, s.now()), names), nil
}

// TasksOnDate lists tasks due on the given YYYY-MM-DD day.
func (s *ReportService) TasksOnDate(ctx context.Context, raw string) ([]TaskView, error) {
	day, err := ParseDate(raw)
	if err != nil {
		return nil, err
	}
	tasks, names, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return NewTaskViews(FilterByRange(tasks, DayRange(day)), names), nil
}

func (s *ReportService) ThisWeek(ctx context.Context) (CalendarWeek, error) {
	tasks, names, err := s.load(ctx)
	if err != nil {
		return CalendarWeek{}, err
	}
	week := WeekRange(s.now())
	return CalendarWeek{
		WeekStart: formatDate(week.Start),
		WeekEnd:   formatDate(week.End),
		Tasks:     NewTaskViews(FilterByRange(tasks, week), names),
	}, nil
}

// Build computes the report of the given kind. start and end are only read
// for ReportCustom.
func (s *ReportService) Build(ctx context.Context, kind, start, end string) (Report, error) {
	period, err := s.period(kind, start, end)
	if err != nil {
		return Report{}, err
	}
	tasks, names, err := s.load(ctx)
	if err != nil {
		return Report{}, err
	}

	selected := FilterByRange(tasks, period)
	return Report{
		ReportType:        kind,
		PeriodStart:       formatDate(period.Start),
		PeriodEnd:         formatDate(period.End),
		CategoryBreakdown: BuildCategoryBreakdown(selected, names),
		Tasks:             NewTaskViews(selected, names),
		Breakdown:         BreakdownOf(selected),
	}, nil
}

// ExportRows projects the tasks of a report kind, or every task for
// ReportAll, into export rows. It also returns the base file name.
func (s *ReportService) ExportRows(ctx context.Context, kind, start, end string) ([]ExportRow, string, error) {
	now := s.now()
	var period *DateRange
	if kind != ReportAll {
		p, err := s.period(kind, start, end)
		if err != nil {
			return nil, "", err
		}
		period = &p
	}

	tasks, names, err := s.load(ctx)
	if err != nil {
		return nil, "", err
	}

	base := "all_tasks_" + formatDate(now)
	if period != nil {
		tasks = FilterByRange(tasks, *period)
		base = kind + "_report_" + formatDate(now)
	}
	return NewExportRows(tasks, names), base, nil
}

func (s *ReportService) period(kind, start, end string) (DateRange, error) {
	switch kind {
	case ReportWeekly:
		return WeekRange(s.now()), nil
	case ReportMonthly:
		return MonthRange(s.now()), nil
	case ReportCustom:
		if start == "" || end == "" {
			return DateRange{}, validationf("start_date and end_date are required (YYYY-MM-DD)")
		}
		return CustomRange(start, end)
	default:
		return DateRange{}, validationf("unknown report type %q", kind)
	}
}

func (s *ReportService) load(ctx context.Context) ([]model.Task, map[uint]string, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tasks, categoryNames(categories), nil
}
