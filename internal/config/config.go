// Package config loads the YAML configuration shared by the CLI and server
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
	"github.com/KirkDiggler/rpg-compendium/internal/errors"
)

// Config holds the rpg-compendium configuration.
type Config struct {
	API      APIConfig                `yaml:"api"`
	HTTP     HTTPConfig               `yaml:"http"`
	GRPC     GRPCConfig               `yaml:"grpc"`
	Features map[string]FeatureConfig `yaml:"features"`
	Logging  LoggingConfig            `yaml:"logging"`
}

// APIConfig holds settings for the remote D&D 5e API.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	RequestTimeoutSec int     `yaml:"request_timeout_sec"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // negative disables limiting
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// GRPCConfig holds the health probe server settings.
type GRPCConfig struct {
	HealthPort int `yaml:"health_port"` // 0 disables the probe server
}

// FeatureConfig overrides a search feature's defaults.
type FeatureConfig struct {
	Cap     int      `yaml:"cap"`
	Popular []string `yaml:"popular"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Defaults
const (
	DefaultBaseURL           = "https://www.dnd5eapi.co/api/2014/"
	DefaultRequestTimeoutSec = 10
	DefaultRequestsPerSecond = 20
	DefaultHTTPPort          = 8080
	DefaultGRPCHealthPort    = 50051
)

// Load reads configuration from a YAML file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config %s", path)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse config")
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.RequestTimeoutSec <= 0 {
		c.API.RequestTimeoutSec = DefaultRequestTimeoutSec
	}
	if c.API.RequestsPerSecond == 0 {
		c.API.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.HTTP.Port == 0 {
		c.HTTP.Port = DefaultHTTPPort
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		vb.Fieldf("http.port", "must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.GRPC.HealthPort < 0 || c.GRPC.HealthPort > 65535 {
		vb.Fieldf("grpc.health_port", "must be between 0 and 65535, got %d", c.GRPC.HealthPort)
	}
	if c.GRPC.HealthPort != 0 && c.GRPC.HealthPort == c.HTTP.Port {
		vb.Field("grpc.health_port", "must differ from http.port")
	}
	errors.ValidateEnum("logging.level", strings.ToLower(c.Logging.Level),
		[]string{"debug", "info", "warn", "error"}, vb)

	for name, fc := range c.Features {
		if name != compendium.FeatureSpells && name != compendium.FeatureMonsters {
			vb.Fieldf("features."+name, "unknown feature, expected %s or %s",
				compendium.FeatureSpells, compendium.FeatureMonsters)
		}
		if fc.Cap < 0 {
			vb.Fieldf("features."+name+".cap", "must not be negative, got %d", fc.Cap)
		}
	}

	return vb.Build()
}

// RequestTimeout returns the per-request timeout for remote calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSec) * time.Second
}

// SlogLevel maps logging.level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SearchFeatures returns the search features with any configured overrides applied.
func (c *Config) SearchFeatures() map[string]*compendium.Feature {
	features := map[string]*compendium.Feature{
		compendium.FeatureSpells:   compendium.SpellsFeature(),
		compendium.FeatureMonsters: compendium.MonstersFeature(),
	}

	for name, fc := range c.Features {
		feature, ok := features[name]
		if !ok {
			continue
		}
		if fc.Cap > 0 {
			feature.Cap = fc.Cap
		}
		if fc.Popular != nil {
			feature.PopularIDs = append([]string(nil), fc.Popular...)
		}
	}

	return features
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
