package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

type createTaskRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	Priority    string  `json:"priority"`
	Deadline    *string `json:"deadline"`
}

type taskResponse struct {
	Message string           `json:"message"`
	Task    service.TaskView `json:"task"`
}

type filteredTasksResponse struct {
	Status   string             `json:"status,omitempty"`
	Priority string             `json:"priority,omitempty"`
	Count    int                `json:"count"`
	Tasks    []service.TaskView `json:"tasks"`
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.TaskQuery{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
	}
	if raw := q.Get("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			s.writeError(w, r, badRequest("invalid category_id %q", raw))
			return
		}
		cid := uint(id)
		query.CategoryID = &cid
	}

	tasks, err := s.svc.Tasks.ListTasks(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views, err := s.taskViews(r, tasks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.svc.Tasks.GetTask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.taskView(r, *task)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	input := service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    req.Priority,
	}
	if req.Deadline != nil {
		input.Deadline = *req.Deadline
	}

	task, err := s.svc.Tasks.CreateTask(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.taskView(r, *task)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{Message: "Task created successfully", Task: view})
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var patch service.TaskPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.svc.Tasks.UpdateTask(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.taskView(r, *task)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task updated successfully", Task: view})
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	deleted, err := s.svc.Tasks.DeleteTask(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Task not found"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (s *Server) markTask(status model.Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		task, err := s.svc.Tasks.MarkStatus(r.Context(), id, status)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		view, err := s.taskView(r, *task)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		msg := "Task marked as " + strings.ToLower(string(status))
		writeJSON(w, http.StatusOK, taskResponse{Message: msg, Task: view})
	}
}

func (s *Server) tasksByStatus(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "status")
	status, ok := model.ParseStatus(raw)
	if !ok {
		s.writeError(w, r, badRequest("status must be one of: pending, completed"))
		return
	}
	s.writeFiltered(w, r, service.TaskQuery{Status: string(status)}, filteredTasksResponse{Status: string(status)})
}

func (s *Server) tasksByPriority(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "priority")
	priority, ok := model.ParsePriority(raw)
	if !ok {
		s.writeError(w, r, badRequest("priority must be one of: low, medium, high"))
		return
	}
	s.writeFiltered(w, r, service.TaskQuery{Priority: string(priority)}, filteredTasksResponse{Priority: string(priority)})
}

func (s *Server) writeFiltered(w http.ResponseWriter, r *http.Request, query service.TaskQuery, resp filteredTasksResponse) {
	tasks, err := s.svc.Tasks.ListTasks(r.Context(), query)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views, err := s.taskViews(r, tasks)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.Count = len(views)
	resp.Tasks = views
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) taskView(r *http.Request, task model.Task) (service.TaskView, error) {
	names, err := s.svc.Categories.Names(r.Context())
	if err != nil {
		return service.TaskView{}, err
	}
	return service.NewTaskView(task, names), nil
}

func (s *Server) taskViews(r *http.Request, tasks []model.Task) ([]service.TaskView, error) {
	names, err := s.svc.Categories.Names(r.Context())
	if err != nil {
		return nil, err
	}
	return service.NewTaskViews(tasks, names), nil
}
