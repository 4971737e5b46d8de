package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/dkorittki/httprof/internal/pkg/httpwire"
	"github.com/dkorittki/httprof/internal/pkg/netcore"
)

// ProfilerConfig controls the per-phase time budgets and the request
// identity used by every attempt.
type ProfilerConfig struct {
	// ConnectTimeout bounds transport connection establishment per
	// candidate, including the TLS handshake for https targets.
	ConnectTimeout time.Duration

	// WriteTimeout bounds writing the serialized request.
	WriteTimeout time.Duration

	// ReadTimeout bounds each single read of the response. It is
	// re-armed per read call.
	ReadTimeout time.Duration

	// UserAgent is sent in the User-Agent request header.
	UserAgent string
}

// Default returns the stock configuration.
func Default() *ProfilerConfig {
	return &ProfilerConfig{
		ConnectTimeout: netcore.DefaultConnectTimeout,
		WriteTimeout:   httpwire.DefaultWriteTimeout,
		ReadTimeout:    httpwire.DefaultReadTimeout,
		UserAgent:      httpwire.DefaultUserAgent,
	}
}

// NewProfilerConfig builds a ProfilerConfig from the profiler sub
// config, falling back to defaults for anything not set. A nil viper
// yields the defaults.
func NewProfilerConfig(v *viper.Viper) (*ProfilerConfig, error) {
	cfg := Default()

	if v == nil {
		return cfg, nil
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	fillDefaults(cfg)

	if err := ValidateProfilerConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func fillDefaults(cfg *ProfilerConfig) {
	def := Default()

	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = def.ReadTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
}
