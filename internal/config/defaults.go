package config

const (
	defaultWorkspaceRoot = "~/DVDWorkspace"
	defaultAPIBind       = "127.0.0.1:9876"

	defaultCatalogBaseURL       = "https://api.themoviedb.org/3"
	defaultNotificationBaseURL  = "https://ntfy.sh"
	defaultNotificationTimeout  = 10
	defaultAutoApproveThreshold = 0.85
	defaultMaxCandidates        = 10

	defaultMinFeatureSeconds = 60 * 60
	defaultRipTimeoutSeconds = 4 * 3600

	defaultDrivePollInterval = 15
	defaultWorkerIdleSleep   = 5
	defaultShutdownTimeout   = 30
	defaultOversightInterval = 60

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with every field's default value
// (spec.md §6's configuration table), before any TOML overlay is applied.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceRoot: defaultWorkspaceRoot,
			StagingDir:    defaultWorkspaceRoot + "/staging",
			EncodingDir:   defaultWorkspaceRoot + "/encoding",
			LogDir:        defaultWorkspaceRoot + "/logs",
			DataDir:       defaultWorkspaceRoot + "/data",
			APIBind:       defaultAPIBind,
		},
		Drives: Drives{},
		Library: Library{
			MoviesDir: "",
			TVDir:     "",
		},
		Catalog: Catalog{
			Token:   "",
			BaseURL: defaultCatalogBaseURL,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotificationTimeout,
			BaseURL:        defaultNotificationBaseURL,
		},
		Identification: Identification{
			AutoApproveThreshold: defaultAutoApproveThreshold,
			MaxCandidates:        defaultMaxCandidates,
		},
		Ripping: Ripping{
			MinFeatureSeconds: defaultMinFeatureSeconds,
			RipTimeoutSeconds: defaultRipTimeoutSeconds,
		},
		Workflow: Workflow{
			DrivePollInterval: defaultDrivePollInterval,
			WorkerIdleSleep:   defaultWorkerIdleSleep,
			ShutdownTimeout:   defaultShutdownTimeout,
			OversightInterval: defaultOversightInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
