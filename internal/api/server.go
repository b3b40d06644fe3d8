// Package api exposes the task services over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

// Services groups the dependencies of the HTTP handlers.
type Services struct {
	Tasks      *service.TaskService
	Categories *service.CategoryService
	Settings   *service.SettingsService
	Reports    *service.ReportService
	Data       *service.DataService
}

// Server serves the JSON API.
type Server struct {
	svc    Services
	logger *slog.Logger
}

func NewServer(svc Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Handler builds the router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Get("/status/{status}", s.tasksByStatus)
		r.Get("/priority/{priority}", s.tasksByPriority)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getTask)
			r.Put("/", s.updateTask)
			r.Delete("/", s.deleteTask)
			r.Patch("/complete", s.markTask(model.StatusCompleted))
			r.Patch("/pending", s.markTask(model.StatusPending))
		})
	})

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", s.listCategories)
		r.Post("/", s.createCategory)
		r.Get("/stats", s.categoryStats)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getCategory)
			r.Put("/", s.updateCategory)
			r.Delete("/", s.deleteCategory)
		})
	})

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/overview", s.dashboardOverview)
		r.Get("/overdue", s.dashboardOverdue)
	})

	r.Route("/calendar", func(r chi.Router) {
		r.Get("/", s.calendarDay)
		r.Get("/week", s.calendarWeek)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/{kind}", s.report)
		r.Get("/{kind}/export/{format}", s.exportReport)
	})

	r.Route("/settings", func(r chi.Router) {
		r.Get("/", s.getSettings)
		r.Put("/", s.updateSettings)
		r.Post("/reset", s.resetSettings)
		r.Route("/data", func(r chi.Router) {
			r.Get("/stats", s.dataStats)
			r.Get("/backup", s.dataBackup)
			r.Delete("/clear-tasks", s.clear(service.ClearTasks))
			r.Delete("/clear-categories", s.clear(service.ClearCategories))
			r.Delete("/clear-all", s.clear(service.ClearAll))
			r.Post("/confirm-clear", s.confirmClear)
		})
	})

	return r
}
