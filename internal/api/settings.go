package api

import (
	"fmt"
	"net/http"
	"time"

	"taskmaster/internal/model"
	"taskmaster/internal/service"
)

type settingsBody struct {
	Theme         string `json:"theme"`
	FontSize      string `json:"font_size"`
	Notifications bool   `json:"notifications"`
}

type settingsResponse struct {
	Message  string       `json:"message"`
	Settings settingsBody `json:"settings"`
}

type confirmClearRequest struct {
	Target       string `json:"target"`
	Confirmation string `json:"confirmation"`
}

type clearResponse struct {
	Message string `json:"message"`
	service.ClearResult
}

func toSettingsBody(s *model.Settings) settingsBody {
	return settingsBody{Theme: s.Theme, FontSize: s.FontSize, Notifications: s.Notifications}
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings.Get(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsBody(settings))
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var patch service.SettingsPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	settings, err := s.svc.Settings.Update(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Message: "Settings updated successfully", Settings: toSettingsBody(settings)})
}

func (s *Server) resetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings.Reset(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingsResponse{Message: "Settings reset to defaults", Settings: toSettingsBody(settings)})
}

func (s *Server) dataStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Data.Stats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) dataBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := s.svc.Data.Backup(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	filename := fmt.Sprintf("taskmaster_backup_%s.json", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	writeJSON(w, http.StatusOK, backup)
}

func (s *Server) clear(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.runClear(w, r, target, service.ClearConfirmation)
	}
}

func (s *Server) confirmClear(w http.ResponseWriter, r *http.Request) {
	var req confirmClearRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.runClear(w, r, req.Target, req.Confirmation)
}

func (s *Server) runClear(w http.ResponseWriter, r *http.Request, target, confirmation string) {
	res, err := s.svc.Data.ConfirmClear(r.Context(), target, confirmation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("data cleared",
		"target", target,
		"tasks_deleted", res.TasksDeleted,
		"categories_deleted", res.CategoriesDeleted,
		"tasks_affected", res.TasksAffected,
	)
	writeJSON(w, http.StatusOK, clearResponse{Message: clearMessage(target), ClearResult: res})
}

func clearMessage(target string) string {
	switch target {
	case service.ClearTasks:
		return "All tasks cleared"
	case service.ClearCategories:
		return "All categories cleared"
	default:
		return "All data cleared"
	}
}
