package repository

import (
	"context"

	"gorm.io/gorm"

	"taskmaster/internal/model"
)

// SettingsRepository reads and writes the singleton settings row.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate returns the stored settings, inserting the defaults first if
// the row does not exist yet.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*model.Settings, error) {
	settings, err := getOrCreateSettings(r.db.WithContext(ctx))
	if err != nil {
		return nil, wrap("get settings", err)
	}
	return settings, nil
}

// Update writes the given columns, creating the row with defaults first when
// needed, and returns the stored result.
func (r *SettingsRepository) Update(ctx context.Context, columns map[string]interface{}) (*model.Settings, error) {
	var settings *model.Settings
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := getOrCreateSettings(tx)
		if err != nil {
			return err
		}
		if len(columns) > 0 {
			if err := tx.Model(current).UpdateColumns(columns).Error; err != nil {
				return err
			}
		}
		var reloaded model.Settings
		if err := tx.First(&reloaded, current.ID).Error; err != nil {
			return err
		}
		settings = &reloaded
		return nil
	})
	if err != nil {
		return nil, wrap("update settings", err)
	}
	return settings, nil
}

// Reset restores the default preferences.
func (r *SettingsRepository) Reset(ctx context.Context) (*model.Settings, error) {
	defaults := model.DefaultSettings()
	return r.Update(ctx, map[string]interface{}{
		"theme":         defaults.Theme,
		"font_size":     defaults.FontSize,
		"notifications": defaults.Notifications,
	})
}

func getOrCreateSettings(db *gorm.DB) (*model.Settings, error) {
	defaults := model.DefaultSettings()
	var settings model.Settings
	if err := db.Where("id = ?", defaults.ID).Attrs(defaults).FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}
