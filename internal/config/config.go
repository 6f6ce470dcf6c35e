// Package config resolves probe settings from defaults, an optional YAML
// file and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	envConfigFile  = "METRICS_CONFIG"
	envHost        = "METRICS_HOST"
	envPort        = "METRICS_PORT"
	envLogFile     = "METRICS_LOG_FILE"
	envCPUInterval = "METRICS_CPU_INTERVAL"
	envRateLimit   = "METRICS_RATE_LIMIT"
	envRateBurst   = "METRICS_RATE_BURST"
	envPrometheus  = "METRICS_PROMETHEUS"
	envWebSocket   = "METRICS_WEBSOCKET"
	envNATMapping  = "METRICS_NAT_MAPPING"
	envUseTLS      = "METRICS_USE_TLS"
	envTLSCert     = "METRICS_TLS_CERT"
	envTLSKey      = "METRICS_TLS_KEY"
)

const maxCPUInterval = 5 * time.Second

// Config holds runtime settings. Classification thresholds and window size
// are fixed and deliberately absent.
type Config struct {
	Host               string        `yaml:"host" validate:"omitempty,ip"`
	Port               int           `yaml:"port" validate:"min=1,max=65535"`
	LogFile            string        `yaml:"log_file"`
	CPUInterval        time.Duration `yaml:"cpu_interval"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" validate:"min=0"`
	RateLimitBurst     int           `yaml:"rate_limit_burst" validate:"min=1"`
	Prometheus         bool          `yaml:"prometheus"`
	WebSocket          bool          `yaml:"websocket"`
	NATMapping         bool          `yaml:"nat_mapping"`
	TLS                TLSConfig     `yaml:"tls"`
}

// TLSConfig enables HTTPS when Enabled is set.
type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert" validate:"required_if=Enabled true"`
	KeyFile  string `yaml:"key" validate:"required_if=Enabled true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Host:               "0.0.0.0",
		Port:               8000,
		CPUInterval:        100 * time.Millisecond,
		RateLimitPerMinute: 0,
		RateLimitBurst:     20,
		Prometheus:         true,
		WebSocket:          true,
	}
}

// Load builds the configuration. When METRICS_CONFIG names a file it is
// read first; environment variables always win.
func Load() (*Config, error) {
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges YAML settings from path into c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from the environment via getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(envHost)); v != "" {
		c.Host = v
	}
	if v := strings.TrimSpace(getenv(envPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		c.Port = port
	}
	if v := strings.TrimSpace(getenv(envLogFile)); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(getenv(envCPUInterval)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envCPUInterval, err)
		}
		c.CPUInterval = d
	}
	if v := strings.TrimSpace(getenv(envRateLimit)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envRateLimit, err)
		}
		c.RateLimitPerMinute = n
	}
	if v := strings.TrimSpace(getenv(envRateBurst)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envRateBurst, err)
		}
		c.RateLimitBurst = n
	}
	if v, ok := envBool(getenv, envPrometheus); ok {
		c.Prometheus = v
	}
	if v, ok := envBool(getenv, envWebSocket); ok {
		c.WebSocket = v
	}
	if v, ok := envBool(getenv, envNATMapping); ok {
		c.NATMapping = v
	}
	if v, ok := envBool(getenv, envUseTLS); ok {
		c.TLS.Enabled = v
	}
	if v := strings.TrimSpace(getenv(envTLSCert)); v != "" {
		c.TLS.CertFile = v
	}
	if v := strings.TrimSpace(getenv(envTLSKey)); v != "" {
		c.TLS.KeyFile = v
	}
	return nil
}

// envBool parses a boolean variable. Unset or unparsable values report ok=false.
func envBool(getenv func(string) string, key string) (bool, bool) {
	val := strings.TrimSpace(getenv(key))
	if val == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return false, false
	}
	return parsed, true
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.CPUInterval <= 0 || c.CPUInterval > maxCPUInterval {
		return fmt.Errorf("invalid config: cpu_interval must be in (0, %s], got %s", maxCPUInterval, c.CPUInterval)
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// RateLimitEnabled reports whether per-client rate limiting is on.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitPerMinute > 0
}

// IsValidationError reports whether err came from struct validation.
func IsValidationError(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs)
}
