package config

import (
	"errors"
	"fmt"
	"math"

	"rppreview/internal/rpp"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	if _, err := rpp.ParseFormat(c.Render.Format); err != nil {
		return fmt.Errorf("render.format: %w", err)
	}
	if math.IsNaN(c.Render.Start) || math.IsInf(c.Render.Start, 0) || c.Render.Start < 0 {
		return errors.New("render.start must be zero or positive (seconds)")
	}
	if math.IsNaN(c.Render.Duration) || math.IsInf(c.Render.Duration, 0) || c.Render.Duration <= 0 {
		return errors.New("render.duration must be positive (seconds)")
	}
	if c.Render.Timeout <= 0 {
		return errors.New("render.timeout must be positive (seconds)")
	}
	if c.Render.StaleTempHours < 0 {
		return errors.New("render.stale_temp_hours must be zero (disabled) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	return nil
}
