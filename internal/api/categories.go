package api

import (
	"net/http"

	"taskmaster/internal/service"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	TaskCount int64  `json:"task_count"`
}

type categoryDetail struct {
	categoryItem
	Tasks []service.TaskView `json:"tasks"`
}

type categoryResponse struct {
	Message  string       `json:"message"`
	Category categoryItem `json:"category"`
}

type categoryDeleteResponse struct {
	Message       string `json:"message"`
	TasksAffected int64  `json:"tasks_affected"`
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Categories.ListWithCounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items := make([]categoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, categoryItem{ID: row.ID, Name: row.Name, TaskCount: row.TaskCount})
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.svc.Categories.GetCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	names := map[uint]string{category.ID: category.Name}
	writeJSON(w, http.StatusOK, categoryDetail{
		categoryItem: categoryItem{ID: category.ID, Name: category.Name, TaskCount: int64(len(category.Tasks))},
		Tasks:        service.NewTaskViews(category.Tasks, names),
	})
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.svc.Categories.CreateCategory(r.Context(), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, categoryResponse{
		Message:  "Category created successfully",
		Category: categoryItem{ID: category.ID, Name: category.Name},
	})
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, err := s.svc.Categories.UpdateCategory(r.Context(), id, req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	category, err := s.svc.Categories.GetCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{
		Message:  "Category updated successfully",
		Category: categoryItem{ID: category.ID, Name: category.Name, TaskCount: int64(len(category.Tasks))},
	})
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	affected, err := s.svc.Categories.DeleteCategory(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryDeleteResponse{Message: "Category deleted successfully", TasksAffected: affected})
}

func (s *Server) categoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Categories.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
