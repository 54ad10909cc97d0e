package driving

import "github.com/LeCongThuong/facescape/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its config key.
	Set(key, value string) error

	// Unset restores a single setting to its default.
	Unset(key string) error

	// Keys lists the settable config keys.
	Keys() []string

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Path returns where settings are persisted.
	Path() string
}
