package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is internally consistent. Per spec.md
// §6, an empty catalog token disables the catalog rather than failing
// validation — CatalogUnavailable degrades the identifier to unknown→review,
// it is not a startup error.
func (c *Config) Validate() error {
	if err := c.validateDrives(); err != nil {
		return err
	}
	if err := c.validateIdentification(); err != nil {
		return err
	}
	if err := c.validateRipping(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDrives() error {
	if len(c.Drives.IDs) == 0 {
		return errors.New("drives.ids must list at least one drive")
	}
	seen := make(map[string]struct{}, len(c.Drives.IDs))
	for _, id := range c.Drives.IDs {
		if id == "" {
			return errors.New("drives.ids entries must not be empty")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("drives.ids contains duplicate entry %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (c *Config) validateIdentification() error {
	if c.Identification.AutoApproveThreshold <= 0 || c.Identification.AutoApproveThreshold > 1 {
		return errors.New("identification.auto_approve_threshold must be in (0, 1]")
	}
	if c.Identification.MaxCandidates <= 0 {
		return errors.New("identification.max_candidates must be positive")
	}
	return nil
}

func (c *Config) validateRipping() error {
	if c.Ripping.MinFeatureSeconds <= 0 {
		return errors.New("ripping.min_feature_seconds must be positive")
	}
	if c.Ripping.RipTimeoutSeconds <= 0 {
		return errors.New("ripping.rip_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.DrivePollInterval <= 0 {
		return errors.New("workflow.drive_poll_interval must be positive")
	}
	if c.Workflow.WorkerIdleSleep <= 0 {
		return errors.New("workflow.worker_idle_sleep must be positive")
	}
	if c.Workflow.ShutdownTimeout <= 0 {
		return errors.New("workflow.shutdown_timeout must be positive")
	}
	if c.Workflow.OversightInterval <= 0 {
		return errors.New("workflow.oversight_interval must be positive")
	}
	return nil
}
