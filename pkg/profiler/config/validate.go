package config

import (
	"errors"
	"fmt"
)

// ValidateProfilerConfig validates the profiler sub config.
func ValidateProfilerConfig(cfg *ProfilerConfig) error {
	if cfg == nil {
		return errors.New("missing profiler config")
	}

	if cfg.ConnectTimeout < 0 {
		return fmt.Errorf("invalid connect timeout '%s'", cfg.ConnectTimeout)
	}

	if cfg.WriteTimeout < 0 {
		return fmt.Errorf("invalid write timeout '%s'", cfg.WriteTimeout)
	}

	if cfg.ReadTimeout < 0 {
		return fmt.Errorf("invalid read timeout '%s'", cfg.ReadTimeout)
	}

	return nil
}
