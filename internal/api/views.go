package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"taskmaster/internal/export"
	"taskmaster/internal/service"
)

func (s *Server) dashboardOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := s.svc.Reports.Overview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) dashboardOverdue(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.svc.Reports.Overdue(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) calendarDay(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		s.writeError(w, r, badRequest("date query parameter is required (YYYY-MM-DD)"))
		return
	}
	tasks, err := s.svc.Reports.TasksOnDate(r.Context(), date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) calendarWeek(w http.ResponseWriter, r *http.Request) {
	week, err := s.svc.Reports.ThisWeek(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, week)
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := s.svc.Reports.Build(r.Context(), chi.URLParam(r, "kind"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) exportReport(w http.ResponseWriter, r *http.Request) {
	writer, err := export.ForFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, badRequest("%v", err))
		return
	}

	q := r.URL.Query()
	rows, base, err := s.svc.Reports.ExportRows(r.Context(), chi.URLParam(r, "kind"), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sheet := export.Sheet{Name: "Tasks", Header: service.ExportColumns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		sheet.Rows = append(sheet.Rows, row.Values())
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, sheet); err != nil {
		s.writeError(w, r, fmt.Errorf("render export: %w", err))
		return
	}

	w.Header().Set("Content-Type", writer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(base, writer)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
