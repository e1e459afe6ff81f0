package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains workspace directory and control-surface bind configuration
// (spec.md §6 "Filesystem layout").
type Paths struct {
	WorkspaceRoot string `toml:"workspace_root"`
	StagingDir    string `toml:"staging_dir"`
	EncodingDir   string `toml:"encoding_dir"`
	LogDir        string `toml:"log_dir"`
	DataDir       string `toml:"data_dir"`
	APIBind       string `toml:"api_bind"`
}

// Drives lists the opaque drive identifiers the disc probe polls
// (spec.md §6 "drive ids").
type Drives struct {
	IDs []string `toml:"ids"`
}

// Library contains destination roots for finished artifacts (spec.md §6
// "library roots").
type Library struct {
	MoviesDir string `toml:"movies_dir"`
	TVDir     string `toml:"tv_dir"`
}

// Catalog contains TMDb-shaped identification API configuration.
type Catalog struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

// Notifications contains ntfy push configuration.
type Notifications struct {
	UserKey        string `toml:"user_key"`
	AppToken       string `toml:"app_token"`
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Identification contains identifier tuning parameters (spec.md §4.5).
type Identification struct {
	AutoApproveThreshold float64 `toml:"auto_approve_threshold"`
	MaxCandidates        int     `toml:"max_candidates"`
}

// Ripping contains rip worker tuning parameters (spec.md §4.3).
type Ripping struct {
	MinFeatureSeconds int `toml:"min_feature_seconds"`
	RipTimeoutSeconds int `toml:"rip_timeout_seconds"`
}

// Workflow contains daemon polling cadence (spec.md §6 "drive poll interval").
type Workflow struct {
	DrivePollInterval int `toml:"drive_poll_interval"`
	WorkerIdleSleep   int `toml:"worker_idle_sleep"`
	ShutdownTimeout   int `toml:"shutdown_timeout"`
	OversightInterval int `toml:"oversight_interval"`
}

// Logging contains structured-log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for platterd.
//
// Configuration sections by subsystem:
//   - Paths: workspace directories and control-surface bind address
//   - Drives: opaque drive identifiers the disc probe polls
//   - Library: movie/tv destination roots
//   - Catalog: TMDb-shaped identification API credentials
//   - Notifications: ntfy push notification settings
//   - Identification: confidence threshold and candidate fan-out
//   - Ripping: main-title selection and timeout tuning
//   - Workflow: daemon polling intervals and shutdown grace period
//   - Logging: log format and level
type Config struct {
	Paths          Paths          `toml:"paths"`
	Drives         Drives         `toml:"drives"`
	Library        Library        `toml:"library"`
	Catalog        Catalog        `toml:"catalog"`
	Notifications  Notifications  `toml:"notifications"`
	Identification Identification `toml:"identification"`
	Ripping        Ripping        `toml:"ripping"`
	Workflow       Workflow       `toml:"workflow"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/platterd/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file. The
// returned config has all path fields expanded to absolute paths.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	// Sub-directories left unset by the file are derived from the (possibly
	// overridden) workspace root in normalize.
	cfg.Paths.StagingDir, cfg.Paths.EncodingDir, cfg.Paths.LogDir, cfg.Paths.DataDir = "", "", "", ""

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/platterd/config.toml")
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("platterd.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the workspace subdirectories the daemon writes
// to. Library roots are left alone: spec.md §4.6 treats an absent library
// root as a retryable condition, not a startup failure.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.EncodingDir, c.Paths.LogDir, c.Paths.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the embedded sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the module's path expansion rules to other packages
// (e.g. resolving a library root supplied on the command line).
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
