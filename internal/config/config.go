// Package config provides a standardized way to load, validate, and access
// application configuration. It supports loading configuration from
// environment variables, files (JSON/YAML), and explicit overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/reqctx/pingd/internal/errors"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Security SecurityConfig `json:"security" yaml:"security"`
	Sink     SinkConfig     `json:"sink" yaml:"sink"`
}

// ServerConfig holds HTTP server related configuration
type ServerConfig struct {
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port" yaml:"port"`
	LogLevel       string        `json:"log_level" yaml:"log_level"`
	LogFormat      string        `json:"log_format" yaml:"log_format"`
	PingDelay      time.Duration `json:"ping_delay" yaml:"ping_delay,omitempty"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout,omitempty"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout,omitempty"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout,omitempty"`
	IdleTimeout    time.Duration `json:"idle_timeout" yaml:"idle_timeout,omitempty"`
}

// SecurityConfig holds security related configuration. A rate limit of 0
// disables that limiter (unlimited).
type SecurityConfig struct {
	RateLimit      int      `json:"rate_limit" yaml:"rate_limit"`
	IPRateLimit    int      `json:"ip_rate_limit" yaml:"ip_rate_limit"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers"`
}

// SinkConfig holds the optional Pub/Sub log sink configuration
type SinkConfig struct {
	Enabled         bool   `json:"enabled" yaml:"enabled"`
	ProjectID       string `json:"project_id" yaml:"project_id"`
	TopicID         string `json:"topic_id" yaml:"topic_id"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "localhost",
			Port:           8080,
			LogLevel:       "info",
			LogFormat:      "json",
			PingDelay:      25 * time.Millisecond,
			RequestTimeout: 30 * time.Second,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   10 * time.Second,
			IdleTimeout:    120 * time.Second,
		},
		Security: SecurityConfig{
			RateLimit:      120, // 120 requests per minute
			IPRateLimit:    60,  // 60 requests per minute per IP
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{
				"Accept",
				"Content-Type",
				"Content-Length",
				"Accept-Encoding",
				"X-Request-ID",
			},
		},
		Sink: SinkConfig{
			Enabled: false,
		},
	}
}

// Addr returns the host:port the HTTP listener binds to
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.NewValidationError("Server.Port must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if _, ok := validLogLevels[strings.ToLower(c.Server.LogLevel)]; !ok {
		return errors.NewValidationError("Server.LogLevel must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
		"dev":  true,
	}
	if _, ok := validLogFormats[strings.ToLower(c.Server.LogFormat)]; !ok {
		return errors.NewValidationError("Server.LogFormat must be one of: json, text, dev")
	}

	if c.Server.PingDelay < 0 {
		return errors.NewValidationError("Server.PingDelay cannot be negative")
	}

	if c.Security.RateLimit < 0 {
		return errors.NewValidationError("Security.RateLimit cannot be negative")
	}
	if c.Security.IPRateLimit < 0 {
		return errors.NewValidationError("Security.IPRateLimit cannot be negative")
	}

	if c.Sink.Enabled {
		if c.Sink.ProjectID == "" {
			return errors.NewValidationError("Sink.ProjectID is required when the log sink is enabled")
		}
		if c.Sink.TopicID == "" {
			return errors.NewValidationError("Sink.TopicID is required when the log sink is enabled")
		}
	}

	return nil
}

// LoadFromEnv loads configuration from environment variables. Only values
// actually present in the environment are set; everything else stays zero,
// so merging the result cannot clobber lower-precedence sources.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}

	// Server config
	if val := os.Getenv("HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = port
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Server.LogLevel = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Server.LogFormat = val
	}
	if val := os.Getenv("PING_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil && d >= 0 {
			cfg.Server.PingDelay = d
		}
	}
	if val := os.Getenv("REQUEST_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil && timeout > 0 {
			cfg.Server.RequestTimeout = time.Duration(timeout) * time.Second
		}
	}
	if val := os.Getenv("READ_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil && timeout > 0 {
			cfg.Server.ReadTimeout = time.Duration(timeout) * time.Second
		}
	}
	if val := os.Getenv("WRITE_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil && timeout > 0 {
			cfg.Server.WriteTimeout = time.Duration(timeout) * time.Second
		}
	}
	if val := os.Getenv("IDLE_TIMEOUT"); val != "" {
		if timeout, err := strconv.Atoi(val); err == nil && timeout > 0 {
			cfg.Server.IdleTimeout = time.Duration(timeout) * time.Second
		}
	}

	// Security config
	if val := os.Getenv("RATE_LIMIT"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil && limit >= 0 {
			cfg.Security.RateLimit = limit
		}
	}
	if val := os.Getenv("IP_RATE_LIMIT"); val != "" {
		if limit, err := strconv.Atoi(val); err == nil && limit >= 0 {
			cfg.Security.IPRateLimit = limit
		}
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Security.AllowedOrigins = strings.Split(val, ",")
	}
	if val := os.Getenv("ALLOWED_METHODS"); val != "" {
		cfg.Security.AllowedMethods = strings.Split(val, ",")
	}
	if val := os.Getenv("ALLOWED_HEADERS"); val != "" {
		cfg.Security.AllowedHeaders = strings.Split(val, ",")
	}

	// Sink config
	if val := os.Getenv("LOG_SINK_ENABLED"); val != "" {
		cfg.Sink.Enabled = strings.ToLower(val) == "true" || val == "1"
	}
	if val := os.Getenv("LOG_SINK_PROJECT_ID"); val != "" {
		cfg.Sink.ProjectID = val
	}
	if val := os.Getenv("LOG_SINK_TOPIC_ID"); val != "" {
		cfg.Sink.TopicID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		cfg.Sink.CredentialsFile = val
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()

	// Durations arrive as strings ("5s") or bare seconds, so parse through
	// a temporary struct.
	type tempConfig struct {
		Server struct {
			Host           string `json:"host" yaml:"host"`
			Port           int    `json:"port" yaml:"port"`
			LogLevel       string `json:"log_level" yaml:"log_level"`
			LogFormat      string `json:"log_format" yaml:"log_format"`
			PingDelay      string `json:"ping_delay" yaml:"ping_delay"`
			RequestTimeout string `json:"request_timeout" yaml:"request_timeout"`
			ReadTimeout    string `json:"read_timeout" yaml:"read_timeout"`
			WriteTimeout   string `json:"write_timeout" yaml:"write_timeout"`
			IdleTimeout    string `json:"idle_timeout" yaml:"idle_timeout"`
		} `json:"server" yaml:"server"`
		Security SecurityConfig `json:"security" yaml:"security"`
		Sink     SinkConfig     `json:"sink" yaml:"sink"`
	}

	var tempCfg tempConfig

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &tempCfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON config file")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &tempCfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML config file")
		}
	default:
		return nil, errors.NewValidationError("unsupported config file format: " + ext)
	}

	if tempCfg.Server.Host != "" {
		cfg.Server.Host = tempCfg.Server.Host
	}
	if tempCfg.Server.Port != 0 {
		cfg.Server.Port = tempCfg.Server.Port
	}
	if tempCfg.Server.LogLevel != "" {
		cfg.Server.LogLevel = tempCfg.Server.LogLevel
	}
	if tempCfg.Server.LogFormat != "" {
		cfg.Server.LogFormat = tempCfg.Server.LogFormat
	}

	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{tempCfg.Server.PingDelay, &cfg.Server.PingDelay},
		{tempCfg.Server.RequestTimeout, &cfg.Server.RequestTimeout},
		{tempCfg.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{tempCfg.Server.WriteTimeout, &cfg.Server.WriteTimeout},
		{tempCfg.Server.IdleTimeout, &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		if secs, err := strconv.Atoi(d.raw); err == nil {
			*d.dst = time.Duration(secs) * time.Second
		} else if parsed, err := time.ParseDuration(d.raw); err == nil {
			*d.dst = parsed
		}
	}

	if tempCfg.Security.RateLimit != 0 {
		cfg.Security.RateLimit = tempCfg.Security.RateLimit
	}
	if tempCfg.Security.IPRateLimit != 0 {
		cfg.Security.IPRateLimit = tempCfg.Security.IPRateLimit
	}
	if len(tempCfg.Security.AllowedOrigins) > 0 {
		cfg.Security.AllowedOrigins = tempCfg.Security.AllowedOrigins
	}
	if len(tempCfg.Security.AllowedMethods) > 0 {
		cfg.Security.AllowedMethods = tempCfg.Security.AllowedMethods
	}
	if len(tempCfg.Security.AllowedHeaders) > 0 {
		cfg.Security.AllowedHeaders = tempCfg.Security.AllowedHeaders
	}

	cfg.Sink = tempCfg.Sink

	return cfg, nil
}

// MergeConfigs merges two configurations, with the second taking precedence
func MergeConfigs(base, override *Config) *Config {
	result := *base

	// Only override non-zero values
	if override == nil {
		return &result
	}

	// Server config
	if override.Server.Host != "" {
		result.Server.Host = override.Server.Host
	}
	if override.Server.Port != 0 {
		result.Server.Port = override.Server.Port
	}
	if override.Server.LogLevel != "" {
		result.Server.LogLevel = override.Server.LogLevel
	}
	if override.Server.LogFormat != "" {
		result.Server.LogFormat = override.Server.LogFormat
	}
	if override.Server.PingDelay != 0 {
		result.Server.PingDelay = override.Server.PingDelay
	}
	if override.Server.RequestTimeout != 0 {
		result.Server.RequestTimeout = override.Server.RequestTimeout
	}
	if override.Server.ReadTimeout != 0 {
		result.Server.ReadTimeout = override.Server.ReadTimeout
	}
	if override.Server.WriteTimeout != 0 {
		result.Server.WriteTimeout = override.Server.WriteTimeout
	}
	if override.Server.IdleTimeout != 0 {
		result.Server.IdleTimeout = override.Server.IdleTimeout
	}

	// Security config
	if override.Security.RateLimit != 0 {
		result.Security.RateLimit = override.Security.RateLimit
	}
	if override.Security.IPRateLimit != 0 {
		result.Security.IPRateLimit = override.Security.IPRateLimit
	}
	if len(override.Security.AllowedOrigins) > 0 {
		result.Security.AllowedOrigins = override.Security.AllowedOrigins
	}
	if len(override.Security.AllowedMethods) > 0 {
		result.Security.AllowedMethods = override.Security.AllowedMethods
	}
	if len(override.Security.AllowedHeaders) > 0 {
		result.Security.AllowedHeaders = override.Security.AllowedHeaders
	}

	// Sink config. Zero values never override, so Enabled can only be
	// turned on by a higher-precedence source, never back off: disabling
	// the sink means removing it from the lower-precedence source.
	if override.Sink.Enabled {
		result.Sink.Enabled = true
	}
	if override.Sink.ProjectID != "" {
		result.Sink.ProjectID = override.Sink.ProjectID
	}
	if override.Sink.TopicID != "" {
		result.Sink.TopicID = override.Sink.TopicID
	}
	if override.Sink.CredentialsFile != "" {
		result.Sink.CredentialsFile = override.Sink.CredentialsFile
	}

	return &result
}

// Load loads the configuration from multiple sources with the following precedence:
// 1. Override (highest precedence)
// 2. Environment variables
// 3. Config file
// 4. Default values (lowest precedence)
func Load(configFile string, override *Config) (*Config, error) {
	cfg := DefaultConfig()

	if configFile != "" {
		fileCfg, err := LoadFromFile(configFile)
		if err != nil {
			return nil, err
		}
		cfg = MergeConfigs(cfg, fileCfg)
	}

	envCfg, err := LoadFromEnv()
	if err != nil {
		return nil, err
	}
	cfg = MergeConfigs(cfg, envCfg)

	if override != nil {
		cfg = MergeConfigs(cfg, override)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// String returns a string representation of the configuration
// with the credentials file path masked
func (c *Config) String() string {
	// Create a copy to avoid modifying the original
	copy := *c

	if copy.Sink.CredentialsFile != "" {
		copy.Sink.CredentialsFile = "********"
	}

	bytes, err := json.MarshalIndent(copy, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error marshaling config: %v", err)
	}

	return string(bytes)
}
