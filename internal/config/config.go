package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// LogRotation defines parameters for log file rotation.
type LogRotation struct {
	MaxSize    string `yaml:"max_size,omitempty"`    // e.g., "100MB", "50k"
	MaxAge     string `yaml:"max_age,omitempty"`     // e.g., "7d", "2w"
	MaxBackups int    `yaml:"max_backups,omitempty"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// Config represents the application configuration
type Config struct {
	AppLog struct {
		Level        string `yaml:"level"`         // minimum severity, default "error"
		QueueEnabled bool   `yaml:"queue_enabled"` // start in deferred mode
	} `yaml:"app_log"`

	Server struct {
		Host           string   `yaml:"host"`
		Port           int      `yaml:"port"`
		TrustedProxies []string `yaml:"trusted_proxies"`
		CORS           struct {
			Enabled        bool     `yaml:"enabled"`
			AllowedOrigins []string `yaml:"allowed_origins"`
			MaxAge         int      `yaml:"max_age"` // seconds
		} `yaml:"cors"`
		RequestLimits struct {
			MaxBodySize int `yaml:"max_body_size"` // bytes
			RateLimit   int `yaml:"rate_limit"`    // requests per minute on the intake endpoint
		} `yaml:"request_limits"`
	} `yaml:"server"`

	Security struct {
		Token struct {
			Secret     string `yaml:"secret"`     // empty disables admin auth
			Expiration string `yaml:"expiration"` // e.g. "10m", "1h"
		} `yaml:"token"`
	} `yaml:"security"`

	LogDestinations []LogDestination `yaml:"log_destinations"`
	LogRules        []LogRule        `yaml:"log_rules"`
}

// LogDestination represents a named output destination configuration
type LogDestination struct {
	Name    string `yaml:"name"` // Mandatory, unique identifier
	Type    string `yaml:"type"` // Mandatory: file, gelf, stream
	Enabled bool   `yaml:"enabled"`

	// File specific
	Path     string      `yaml:"path,omitempty"`     // Mandatory for type: file
	Format   string      `yaml:"format,omitempty"`   // Mandatory for type: file (json or text)
	Rotation LogRotation `yaml:"rotation,omitempty"`

	// GELF specific
	Host            string            `yaml:"host,omitempty"`             // Mandatory for type: gelf
	Port            int               `yaml:"port,omitempty"`             // Mandatory for type: gelf
	Protocol        string            `yaml:"protocol,omitempty"`         // Optional (udp or tcp, default udp)
	CompressionType string            `yaml:"compression_type,omitempty"` // Optional (gzip, zlib, none, default none)
	ExtraFields     map[string]string `yaml:"extra_fields,omitempty"`     // Optional static fields

	// Stream specific
	Stream string `yaml:"stream,omitempty"` // stdout or stderr, default stderr
}

// LogRuleCondition specifies criteria for matching records.
type LogRuleCondition struct {
	Names    []string `yaml:"names,omitempty"`     // glob patterns over the subsystem name
	MinLevel string   `yaml:"min_level,omitempty"` // least severe level the rule still matches
}

// LogRule routes matching records to named destinations.
type LogRule struct {
	Condition    LogRuleCondition `yaml:"condition"`
	Enabled      bool             `yaml:"enabled"`
	Continue     bool             `yaml:"continue,omitempty"` // Default: false
	Destinations []string         `yaml:"destinations"`
}

// validLevelNames mirrors the logger's severity names without importing it
// (the logger package depends on config for sink construction).
var validLevelNames = map[string]bool{
	"CRITICAL": true, "ERROR": true, "WARN": true,
	"INFO": true, "DEBUG": true, "TRACE": true,
}

// IsValidLevelName reports whether name is a known severity
// (case-insensitive).
func IsValidLevelName(name string) bool {
	return validLevelNames[strings.ToUpper(name)]
}

// LoadConfig loads and validates the configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	// Defaults before unmarshalling
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8080
	cfg.AppLog.Level = "error"

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file '%s': %w", path, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// validateConfig performs semantic validation of the configuration
func validateConfig(cfg *Config) error {
	// App log validation
	if !IsValidLevelName(cfg.AppLog.Level) {
		return fmt.Errorf("invalid app_log.level: '%s'", cfg.AppLog.Level)
	}

	// Security checks. An empty secret disables admin auth, which is
	// acceptable for localhost-only deployments.
	if cfg.Security.Token.Secret != "" {
		if _, err := ParseDuration(cfg.Security.Token.Expiration); err != nil {
			return fmt.Errorf("invalid security.token.expiration: %w", err)
		}
	}

	// Server validation
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", cfg.Server.Port)
	}
	if cfg.Server.RequestLimits.MaxBodySize < 0 {
		return errors.New("server.request_limits.max_body_size cannot be negative")
	}
	if cfg.Server.RequestLimits.RateLimit < 0 {
		return errors.New("server.request_limits.rate_limit cannot be negative")
	}

	// CORS validation
	if cfg.Server.CORS.Enabled {
		if len(cfg.Server.CORS.AllowedOrigins) == 0 {
			return errors.New("server.cors.allowed_origins cannot be empty when CORS is enabled")
		}
		for i, origin := range cfg.Server.CORS.AllowedOrigins {
			if origin == "*" {
				continue
			}
			if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
				return fmt.Errorf("server.cors.allowed_origins[%d]: origin '%s' must start with 'http://' or 'https://'", i, origin)
			}
		}
		if cfg.Server.CORS.MaxAge < 0 {
			return errors.New("server.cors.max_age cannot be negative")
		}
	}

	// Log Destinations validation
	destinationNames := make(map[string]bool)
	for i, dest := range cfg.LogDestinations {
		if dest.Name == "" {
			return fmt.Errorf("log_destinations[%d]: name is required", i)
		}
		if destinationNames[dest.Name] {
			return fmt.Errorf("log_destinations: duplicate name '%s' found", dest.Name)
		}
		destinationNames[dest.Name] = true

		switch dest.Type {
		case "file":
			if dest.Path == "" {
				return fmt.Errorf("log_destinations[%s]: path is required for type 'file'", dest.Name)
			}
			if dest.Format != "json" && dest.Format != "text" {
				return fmt.Errorf("log_destinations[%s]: invalid format '%s', must be 'json' or 'text' for type 'file'", dest.Name, dest.Format)
			}
			if dest.Rotation.MaxSize != "" {
				if _, err := ParseSize(dest.Rotation.MaxSize); err != nil {
					return fmt.Errorf("log_destinations[%s]: invalid rotation.max_size: %w", dest.Name, err)
				}
			}
			if dest.Rotation.MaxAge != "" {
				if _, err := ParseDuration(dest.Rotation.MaxAge); err != nil {
					return fmt.Errorf("log_destinations[%s]: invalid rotation.max_age: %w", dest.Name, err)
				}
			}
			if dest.Rotation.MaxBackups < 0 {
				return fmt.Errorf("log_destinations[%s]: rotation.max_backups cannot be negative", dest.Name)
			}
		case "gelf":
			if dest.Host == "" {
				return fmt.Errorf("log_destinations[%s]: host is required for type 'gelf'", dest.Name)
			}
			if dest.Port <= 0 || dest.Port > 65535 {
				return fmt.Errorf("log_destinations[%s]: invalid port %d for type 'gelf'", dest.Name, dest.Port)
			}
			if dest.Protocol != "" && dest.Protocol != "udp" && dest.Protocol != "tcp" {
				return fmt.Errorf("log_destinations[%s]: invalid protocol '%s', must be 'udp' or 'tcp' for type 'gelf'", dest.Name, dest.Protocol)
			}
			if dest.Protocol == "" {
				cfg.LogDestinations[i].Protocol = "udp" // Assign back to the slice element
			}
			if dest.CompressionType != "" && dest.CompressionType != "gzip" && dest.CompressionType != "zlib" && dest.CompressionType != "none" {
				return fmt.Errorf("log_destinations[%s]: invalid compression_type '%s', must be 'gzip', 'zlib', or 'none' for type 'gelf'", dest.Name, dest.CompressionType)
			}
			if dest.CompressionType == "" {
				cfg.LogDestinations[i].CompressionType = "none"
			}
			for key := range dest.ExtraFields {
				if key == "" {
					return fmt.Errorf("log_destinations[%s]: extra_fields keys cannot be empty", dest.Name)
				}
			}
		case "stream":
			if dest.Stream != "" && dest.Stream != "stdout" && dest.Stream != "stderr" {
				return fmt.Errorf("log_destinations[%s]: invalid stream '%s', must be 'stdout' or 'stderr'", dest.Name, dest.Stream)
			}
		default:
			return fmt.Errorf("log_destinations[%s]: unknown type '%s'", dest.Name, dest.Type)
		}
	}

	// Log Rules validation
	for i, rule := range cfg.LogRules {
		rulePath := fmt.Sprintf("log_rules[%d]", i)
		if rule.Condition.MinLevel != "" && !IsValidLevelName(rule.Condition.MinLevel) {
			return fmt.Errorf("%s: invalid condition.min_level '%s'", rulePath, rule.Condition.MinLevel)
		}
		if len(rule.Destinations) == 0 {
			return fmt.Errorf("%s: destinations cannot be empty", rulePath)
		}
		for _, destName := range rule.Destinations {
			if !destinationNames[destName] {
				return fmt.Errorf("%s: specified destination '%s' not found in top-level log_destinations", rulePath, destName)
			}
		}
	}

	return nil
}

// ValidateConfig uses go-playground/validator for struct-level validation.
// It complements the semantic validation in validateConfig.
func ValidateConfig(cfg *Config) error {
	validate := validator.New()

	err := validate.Struct(cfg)
	if err != nil {
		// Translate validation errors into a more readable format
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			message := fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", err.Field(), err.Tag())
			validationErrors = append(validationErrors, message)
		}
		return errors.New(strings.Join(validationErrors, "; "))
	}

	return validateConfig(cfg)
}

// ParseDuration parses a duration string (e.g., "10m", "1h30m", "7d").
// Supports standard time.ParseDuration units plus 'd' for days and 'w' for
// weeks. Returns an error if the format is invalid or the duration is
// non-positive.
func ParseDuration(durationStr string) (time.Duration, error) {
	durationStr = strings.TrimSpace(strings.ToLower(durationStr))
	if durationStr == "" {
		return 0, errors.New("duration string cannot be empty")
	}

	// Handle 'd' and 'w' suffixes manually
	if strings.HasSuffix(durationStr, "d") || strings.HasSuffix(durationStr, "w") {
		unit := durationStr[len(durationStr)-1]
		numStr := durationStr[:len(durationStr)-1]
		n, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number format in '%s': %w", durationStr, err)
		}
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
		}
		d := time.Duration(n) * 24 * time.Hour
		if unit == 'w' {
			d *= 7
		}
		return d, nil
	}

	d, err := time.ParseDuration(durationStr)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format '%s': %w", durationStr, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: '%s'", durationStr)
	}
	return d, nil
}

// ParseSize parses a size string (e.g., "10MB", "5k", "1G") into bytes.
// Supports K, M, G suffixes (case-insensitive), with an optional trailing
// 'B'.
func ParseSize(sizeStr string) (int64, error) {
	sizeStr = strings.TrimSpace(strings.ToUpper(sizeStr))
	if sizeStr == "" {
		return 0, errors.New("size string cannot be empty")
	}

	multiplier := int64(1)
	numStr := strings.TrimSuffix(sizeStr, "B")
	switch {
	case strings.HasSuffix(numStr, "K"):
		multiplier = 1024
		numStr = strings.TrimSuffix(numStr, "K")
	case strings.HasSuffix(numStr, "M"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(numStr, "M")
	case strings.HasSuffix(numStr, "G"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(numStr, "G")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size format '%s': %w", sizeStr, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size cannot be negative: '%s'", sizeStr)
	}
	return n * multiplier, nil
}
