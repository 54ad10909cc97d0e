package domain

// GenerateSettings holds defaults for the generate command.
type GenerateSettings struct {
	// ModelPath is the default bilinear model archive.
	ModelPath string

	// MaterialDir is the default material root.
	MaterialDir string

	// OutputPath is the default dataset root.
	OutputPath string

	// Workers is the default worker count.
	Workers int

	// ExpressionMode is the default expression mode.
	ExpressionMode ExpressionMode

	// Layout is the default texture layout.
	Layout TextureLayout
}

// LedgerSettings controls the run ledger.
type LedgerSettings struct {
	// Enabled records runs in the local database.
	Enabled bool
}

// UploadSettings configures the S3-compatible artifact sink.
type UploadSettings struct {
	// Bucket is the destination bucket. Empty disables uploads.
	Bucket string

	// Prefix is prepended to every object key.
	Prefix string

	// Region is the bucket region. Empty defers to the AWS default chain,
	// or to "auto" when Endpoint is set.
	Region string

	// Endpoint overrides the service endpoint (R2, MinIO).
	Endpoint string

	// AccessKeyID and SecretAccessKey are static credentials.
	// When empty the default credential chain is used.
	AccessKeyID     string
	SecretAccessKey string

	// RatePerSecond limits object uploads. Zero means unlimited.
	RatePerSecond float64
}

// ResolvedRegion returns the region to request. An empty result leaves
// the choice to the AWS default chain.
func (u UploadSettings) ResolvedRegion() string {
	if u.Region == "" && u.Endpoint != "" {
		return "auto"
	}
	return u.Region
}

// IsConfigured returns true if a bucket is set.
func (u UploadSettings) IsConfigured() bool {
	return u.Bucket != ""
}

// AppSettings holds all persisted application settings.
type AppSettings struct {
	Generate GenerateSettings
	Ledger   LedgerSettings
	Upload   UploadSettings
}

// DefaultAppSettings returns sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Generate: GenerateSettings{
			Workers:        1,
			ExpressionMode: ExpressionModeRandom,
			Layout:         TextureLayoutReference,
		},
		Ledger: LedgerSettings{
			Enabled: true,
		},
		Upload: UploadSettings{},
	}
}
