package service

import (
	"context"

	"taskmaster/internal/model"
	"taskmaster/internal/repository"
)

// SettingsPatch lists the preferences an update may change. A nil field is
// left alone; Notifications is written whenever it is non-nil, false included.
type SettingsPatch struct {
	Theme         *string `json:"theme"`
	FontSize      *string `json:"font_size"`
	Notifications *bool   `json:"notifications"`
}

// SettingsService reads and writes user preferences.
type SettingsService struct {
	repo *repository.SettingsRepository
}

func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Get returns the settings, persisting the defaults on first access.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	return s.repo.GetOrCreate(ctx)
}

func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (*model.Settings, error) {
	columns := make(map[string]interface{})
	if patch.Theme != nil {
		if !model.ValidTheme(*patch.Theme) {
			return nil, validationf("theme must be one of: light, dark")
		}
		columns["theme"] = *patch.Theme
	}
	if patch.FontSize != nil {
		if !model.ValidFontSize(*patch.FontSize) {
			return nil, validationf("font_size must be one of: small, medium, large")
		}
		columns["font_size"] = *patch.FontSize
	}
	if patch.Notifications != nil {
		columns["notifications"] = *patch.Notifications
	}
	return s.repo.Update(ctx, columns)
}

// Reset restores light theme, medium font and notifications on.
func (s *SettingsService) Reset(ctx context.Context) (*model.Settings, error) {
	return s.repo.Reset(ctx)
}
