// Package config handles agent configuration loading using viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/roverswarm/rover/internal/core"
)

// Config is the top-level agent configuration. Maps to the `rover:` root
// key in YAML; env vars use the ROVER_ prefix via the key replacer
// (e.g. key "rover.log.level" → env "ROVER_LOG_LEVEL").
type Config struct {
	Node    NodeConfig    `mapstructure:"node"`
	Radio   RadioConfig   `mapstructure:"radio"`
	Safety  SafetyConfig  `mapstructure:"safety"`
	Monitor MonitorConfig `mapstructure:"monitor"`
	Vision  VisionConfig  `mapstructure:"vision"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Device  DeviceConfig  `mapstructure:"device"`
	Agent   AgentConfig   `mapstructure:"agent"`
	Log     LogConfig     `mapstructure:"log"`
}

// NodeConfig contains swarm identity settings.
type NodeConfig struct {
	Name       string `mapstructure:"name"`
	Identifier uint8  `mapstructure:"identifier"` // payload identifier byte
	Role       string `mapstructure:"role"`       // parent | child
}

// RadioConfig contains bluetooth adapter settings.
type RadioConfig struct {
	Adapter       string `mapstructure:"adapter"`        // empty = first available
	ChannelBuffer int    `mapstructure:"channel_buffer"` // neighbor hand-off channel capacity
}

// SafetyConfig contains the mandatory pre-check thresholds.
type SafetyConfig struct {
	TempLimit float64 `mapstructure:"temp_limit"` // Celsius
}

// MonitorConfig contains monitoring behavior settings.
type MonitorConfig struct {
	NotifyIntervalMS int64 `mapstructure:"notify_interval_ms"` // minimum ms between notifications
}

// VisionConfig points at the perception subsystem's artifacts.
type VisionConfig struct {
	LastImage string `mapstructure:"last_image"` // most recent captured frame
}

// NotifyConfig configures the external image notification channel.
type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Token    string `mapstructure:"token"`
	Timeout  string `mapstructure:"timeout"`
}

// DeviceConfig contains actuator settings.
type DeviceConfig struct {
	AudioDir string `mapstructure:"audio_dir"` // directory of <tag>.wav voice files
}

// AgentConfig contains runtime loop settings.
type AgentConfig struct {
	TickInterval string `mapstructure:"tick_interval"`
	NeighborTTL  string `mapstructure:"neighbor_ttl"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string         `mapstructure:"level"`  // debug / info / warn / error
	Format string         `mapstructure:"format"` // json / text
	File   FileLogConfig  `mapstructure:"file"`
}

// FileLogConfig configures file log output.
type FileLogConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Path     string         `mapstructure:"path"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig configures log file rotation.
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	MaxBackups int  `mapstructure:"max_backups"`
	Compress   bool `mapstructure:"compress"`
}

// configRoot is the top-level wrapper matching the YAML structure `rover: ...`.
type configRoot struct {
	Rover Config `mapstructure:"rover"`
}

// Load loads configuration from file, applies env overrides and defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// The `rover.` key prefix naturally maps to `ROVER_` in env vars via
	// the key replacer.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg := root.Rover

	if err := cfg.ValidateAndApplyDefaults(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrConfigInvalid, err)
	}

	return &cfg, nil
}

// Default returns a configuration with all defaults applied and no file
// input. Used by tests and by components constructed standalone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var root configRoot
	_ = v.Unmarshal(&root)
	cfg := root.Rover
	_ = cfg.ValidateAndApplyDefaults()
	return &cfg
}

// setDefaults sets default values. All keys use the "rover." prefix to
// match the YAML root wrapper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("rover.node.name", "rover")
	v.SetDefault("rover.node.identifier", 0)
	v.SetDefault("rover.node.role", "child")

	v.SetDefault("rover.radio.adapter", "")
	v.SetDefault("rover.radio.channel_buffer", 64)

	v.SetDefault("rover.safety.temp_limit", 70.0)

	v.SetDefault("rover.monitor.notify_interval_ms", 60000)

	v.SetDefault("rover.vision.last_image", "/var/lib/rover/img/last.jpg")

	v.SetDefault("rover.notify.enabled", false)
	v.SetDefault("rover.notify.timeout", "10s")

	v.SetDefault("rover.device.audio_dir", "/usr/share/rover/audio")

	v.SetDefault("rover.agent.tick_interval", "500ms")
	v.SetDefault("rover.agent.neighbor_ttl", "30s")

	v.SetDefault("rover.log.level", "info")
	v.SetDefault("rover.log.format", "text")
	v.SetDefault("rover.log.file.enabled", false)
	v.SetDefault("rover.log.file.path", "/var/log/rover/rover.log")
	v.SetDefault("rover.log.file.rotation.max_size_mb", 50)
	v.SetDefault("rover.log.file.rotation.max_age_days", 14)
	v.SetDefault("rover.log.file.rotation.max_backups", 3)
	v.SetDefault("rover.log.file.rotation.compress", true)
}

// ValidateAndApplyDefaults validates configuration values that viper
// defaults alone cannot guarantee.
func (cfg *Config) ValidateAndApplyDefaults() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Log.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug/info/warn/error)", cfg.Log.Level)
	}
	if cfg.Log.Format != "json" && cfg.Log.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json/text)", cfg.Log.Format)
	}

	if cfg.Node.Role != "parent" && cfg.Node.Role != "child" {
		return fmt.Errorf("invalid node role: %s (must be parent/child)", cfg.Node.Role)
	}

	if cfg.Safety.TempLimit <= 0 {
		return fmt.Errorf("safety temp_limit must be positive, got %v", cfg.Safety.TempLimit)
	}
	if cfg.Monitor.NotifyIntervalMS < 0 {
		return fmt.Errorf("monitor notify_interval_ms must not be negative, got %d", cfg.Monitor.NotifyIntervalMS)
	}
	if cfg.Radio.ChannelBuffer < 1 {
		return fmt.Errorf("radio channel_buffer must be at least 1, got %d", cfg.Radio.ChannelBuffer)
	}

	if _, err := time.ParseDuration(cfg.Agent.TickInterval); err != nil {
		return fmt.Errorf("invalid agent tick_interval: %w", err)
	}
	if _, err := time.ParseDuration(cfg.Agent.NeighborTTL); err != nil {
		return fmt.Errorf("invalid agent neighbor_ttl: %w", err)
	}
	if _, err := time.ParseDuration(cfg.Notify.Timeout); err != nil {
		return fmt.Errorf("invalid notify timeout: %w", err)
	}

	if cfg.Notify.Enabled && cfg.Notify.Endpoint == "" {
		return fmt.Errorf("notify.endpoint is required when notify.enabled=true")
	}

	return nil
}

// TickInterval returns the parsed control tick interval.
func (cfg *Config) TickInterval() time.Duration {
	d, _ := time.ParseDuration(cfg.Agent.TickInterval)
	return d
}

// NeighborTTL returns the parsed fleet registry entry lifetime.
func (cfg *Config) NeighborTTL() time.Duration {
	d, _ := time.ParseDuration(cfg.Agent.NeighborTTL)
	return d
}

// NotifyTimeout returns the parsed notification client timeout.
func (cfg *Config) NotifyTimeout() time.Duration {
	d, _ := time.ParseDuration(cfg.Notify.Timeout)
	return d
}
