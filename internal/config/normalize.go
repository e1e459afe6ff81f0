package config

import (
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLibrary(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeNotifications()
	c.normalizeIdentification()
	c.normalizeRipping()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceRoot, err = expandPath(c.Paths.WorkspaceRoot); err != nil {
		return err
	}

	// Sub-directories default to a path under the workspace root, but an
	// explicit override always wins.
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = c.Paths.WorkspaceRoot + "/staging"
	}
	if strings.TrimSpace(c.Paths.EncodingDir) == "" {
		c.Paths.EncodingDir = c.Paths.WorkspaceRoot + "/encoding"
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = c.Paths.WorkspaceRoot + "/logs"
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = c.Paths.WorkspaceRoot + "/data"
	}

	for _, field := range []*string{&c.Paths.StagingDir, &c.Paths.EncodingDir, &c.Paths.LogDir, &c.Paths.DataDir} {
		if *field, err = expandPath(*field); err != nil {
			return err
		}
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLibrary() error {
	var err error
	if c.Library.MoviesDir, err = expandPath(c.Library.MoviesDir); err != nil {
		return err
	}
	if c.Library.TVDir, err = expandPath(c.Library.TVDir); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	if c.Catalog.Token == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.Catalog.Token = strings.TrimSpace(value)
		}
	}
	c.Catalog.BaseURL = strings.TrimSpace(c.Catalog.BaseURL)
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaultCatalogBaseURL
	}
}

func (c *Config) normalizeNotifications() {
	if c.Notifications.UserKey == "" {
		if value, ok := os.LookupEnv("NTFY_USER_KEY"); ok {
			c.Notifications.UserKey = strings.TrimSpace(value)
		}
	}
	if c.Notifications.AppToken == "" {
		if value, ok := os.LookupEnv("NTFY_APP_TOKEN"); ok {
			c.Notifications.AppToken = strings.TrimSpace(value)
		}
	}
	c.Notifications.BaseURL = strings.TrimSpace(c.Notifications.BaseURL)
	if c.Notifications.BaseURL == "" {
		c.Notifications.BaseURL = defaultNotificationBaseURL
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotificationTimeout
	}
}

func (c *Config) normalizeIdentification() {
	if c.Identification.AutoApproveThreshold <= 0 {
		c.Identification.AutoApproveThreshold = defaultAutoApproveThreshold
	}
	if c.Identification.MaxCandidates <= 0 {
		c.Identification.MaxCandidates = defaultMaxCandidates
	}
}

func (c *Config) normalizeRipping() {
	if c.Ripping.MinFeatureSeconds <= 0 {
		c.Ripping.MinFeatureSeconds = defaultMinFeatureSeconds
	}
	if c.Ripping.RipTimeoutSeconds <= 0 {
		c.Ripping.RipTimeoutSeconds = defaultRipTimeoutSeconds
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.DrivePollInterval <= 0 {
		c.Workflow.DrivePollInterval = defaultDrivePollInterval
	}
	if c.Workflow.WorkerIdleSleep <= 0 {
		c.Workflow.WorkerIdleSleep = defaultWorkerIdleSleep
	}
	if c.Workflow.ShutdownTimeout <= 0 {
		c.Workflow.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.Workflow.OversightInterval <= 0 {
		c.Workflow.OversightInterval = defaultOversightInterval
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
