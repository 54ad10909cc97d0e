package services

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/LeCongThuong/facescape/internal/core/domain"
	"github.com/LeCongThuong/facescape/internal/core/ports/driven"
	"github.com/LeCongThuong/facescape/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyModelPath      = "generate.model_path"
	keyMaterialDir    = "generate.material_dir"
	keyOutputPath     = "generate.output_path"
	keyWorkers        = "generate.workers"
	keyExpressionMode = "generate.expression_mode"
	keyLayout         = "generate.layout"
	keyLedgerEnabled  = "ledger.enabled"
	keyUploadBucket   = "upload.bucket"
	keyUploadPrefix   = "upload.prefix"
	keyUploadRegion   = "upload.region"
	keyUploadEndpoint = "upload.endpoint"
	keyUploadKeyID    = "upload.access_key_id"
	keyUploadSecret   = "upload.secret_access_key"
	keyUploadRate     = "upload.rate_per_second"
)

// settingKind tells Set how to parse a raw value.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindFloat
	kindExpressionMode
	kindLayout
)

var settingKinds = map[string]settingKind{
	keyModelPath:      kindString,
	keyMaterialDir:    kindString,
	keyOutputPath:     kindString,
	keyWorkers:        kindInt,
	keyExpressionMode: kindExpressionMode,
	keyLayout:         kindLayout,
	keyLedgerEnabled:  kindBool,
	keyUploadBucket:   kindString,
	keyUploadPrefix:   kindString,
	keyUploadRegion:   kindString,
	keyUploadEndpoint: kindString,
	keyUploadKeyID:    kindString,
	keyUploadSecret:   kindString,
	keyUploadRate:     kindFloat,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Generate: domain.GenerateSettings{
			ModelPath:      s.configStore.GetString(keyModelPath),
			MaterialDir:    s.configStore.GetString(keyMaterialDir),
			OutputPath:     s.configStore.GetString(keyOutputPath),
			Workers:        s.getInt(keyWorkers, defaults.Generate.Workers),
			ExpressionMode: s.getExpressionMode(defaults.Generate.ExpressionMode),
			Layout:         s.getLayout(defaults.Generate.Layout),
		},
		Ledger: domain.LedgerSettings{
			Enabled: s.getBool(keyLedgerEnabled, defaults.Ledger.Enabled),
		},
		Upload: domain.UploadSettings{
			Bucket:          s.configStore.GetString(keyUploadBucket),
			Prefix:          s.configStore.GetString(keyUploadPrefix),
			Region:          s.getString(keyUploadRegion, defaults.Upload.Region),
			Endpoint:        s.configStore.GetString(keyUploadEndpoint),
			AccessKeyID:     s.configStore.GetString(keyUploadKeyID),
			SecretAccessKey: s.configStore.GetString(keyUploadSecret),
			RatePerSecond:   s.getFloat(keyUploadRate, defaults.Upload.RatePerSecond),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key string
		val any
	}{
		{keyModelPath, settings.Generate.ModelPath},
		{keyMaterialDir, settings.Generate.MaterialDir},
		{keyOutputPath, settings.Generate.OutputPath},
		{keyWorkers, settings.Generate.Workers},
		{keyExpressionMode, settings.Generate.ExpressionMode.String()},
		{keyLayout, settings.Generate.Layout.String()},
		{keyLedgerEnabled, settings.Ledger.Enabled},
		{keyUploadBucket, settings.Upload.Bucket},
		{keyUploadPrefix, settings.Upload.Prefix},
		{keyUploadRegion, settings.Upload.Region},
		{keyUploadEndpoint, settings.Upload.Endpoint},
		{keyUploadRate, settings.Upload.RatePerSecond},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.val); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Credentials are only written when present.
	if settings.Upload.AccessKeyID != "" {
		if err := s.configStore.Set(keyUploadKeyID, settings.Upload.AccessKeyID); err != nil {
			return fmt.Errorf("save %s: %w", keyUploadKeyID, err)
		}
	}
	if settings.Upload.SecretAccessKey != "" {
		if err := s.configStore.Set(keyUploadSecret, settings.Upload.SecretAccessKey); err != nil {
			return fmt.Errorf("save %s: %w", keyUploadSecret, err)
		}
	}

	return nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var parsed any
	switch kind {
	case kindString:
		parsed = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindExpressionMode:
		if !domain.ExpressionMode(value).IsValid() {
			return fmt.Errorf("%w: invalid expression mode: %s", domain.ErrInvalidInput, value)
		}
		parsed = value
	case kindLayout:
		if !domain.TextureLayout(value).IsValid() {
			return fmt.Errorf("%w: invalid texture layout: %s", domain.ErrInvalidInput, value)
		}
		parsed = value
	}

	return s.configStore.Set(key, parsed)
}

// Unset removes a stored value so the default applies again.
func (s *SettingsService) Unset(key string) error {
	if _, ok := settingKinds[key]; !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	return s.configStore.Unset(key)
}

// Keys lists the settable config keys in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	// TOML may decode whole numbers as integers
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getExpressionMode(defaultVal domain.ExpressionMode) domain.ExpressionMode {
	mode := domain.ExpressionMode(s.configStore.GetString(keyExpressionMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getLayout(defaultVal domain.TextureLayout) domain.TextureLayout {
	layout := domain.TextureLayout(s.configStore.GetString(keyLayout))
	if !layout.IsValid() {
		return defaultVal
	}
	return layout
}
