package model

// SettingsID is the primary key of the only meaningful settings row.
const SettingsID uint = 1

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	FontSmall  = "small"
	FontMedium = "medium"
	FontLarge  = "large"
)

var (
	Themes    = []string{ThemeLight, ThemeDark}
	FontSizes = []string{FontSmall, FontMedium, FontLarge}
)

// Settings stores user preferences.
type Settings struct {
	ID            uint   `gorm:"primaryKey"`
	Theme         string `gorm:"size:20;not null"`
	FontSize      string `gorm:"size:10;not null"`
	Notifications bool   `gorm:"not null"`
}

// DefaultSettings returns the preferences used when nothing is stored yet.
func DefaultSettings() Settings {
	return Settings{
		ID:            SettingsID,
		Theme:         ThemeLight,
		FontSize:      FontMedium,
		Notifications: true,
	}
}

// ValidTheme reports whether theme is one of Themes.
func ValidTheme(theme string) bool {
	return contains(Themes, theme)
}

// ValidFontSize reports whether size is one of FontSizes.
func ValidFontSize(size string) bool {
	return contains(FontSizes, size)
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
