package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds everything the server binary needs at startup.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Assets    AssetsConfig    `yaml:"assets"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
}

type ServerConfig struct {
	Name           string `yaml:"name"`
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	ReadBufferSize int    `yaml:"read_buffer_size"`
	MaxHeaderBytes int    `yaml:"max_header_bytes"`
	MaxBodyBytes   int    `yaml:"max_body_bytes"`
	LogLevel       string `yaml:"log_level"`
}

type AssetsConfig struct {
	// Root is a directory on disk. When empty the embedded assets are served.
	Root   string `yaml:"root"`
	Prefix string `yaml:"prefix"`
}

type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
}

type AuthConfig struct {
	// JWTSecret signs HS256 bearer tokens accepted by protected API routes.
	JWTSecret string `yaml:"jwt_secret"`
	// StaticToken is accepted verbatim as a bearer token when set.
	StaticToken string `yaml:"static_token"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:           "myat",
			Host:           "0.0.0.0",
			Port:           8080,
			ReadBufferSize: 4096,
			MaxHeaderBytes: 2 * 1024 * 1024,
			MaxBodyBytes:   10 * 1024 * 1024,
			LogLevel:       "info",
		},
		Assets: AssetsConfig{
			Prefix: "/assets",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "myat",
			Endpoint:    "127.0.0.1:4317",
			Insecure:    true,
		},
		Auth: AuthConfig{
			StaticToken: "secret-token",
		},
	}
}

// Load starts from the defaults, overlays the YAML file at path when it
// exists, then applies environment variables and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Name = getEnvOrDefault("SERVER_NAME", c.Server.Name)
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvAsIntOrDefault("PORT", c.Server.Port)
	c.Server.LogLevel = getEnvOrDefault("LOG_LEVEL", c.Server.LogLevel)

	c.Assets.Root = getEnvOrDefault("ASSET_ROOT", c.Assets.Root)
	c.Assets.Prefix = getEnvOrDefault("ASSET_PREFIX", c.Assets.Prefix)

	c.Telemetry.Enabled = getEnvAsBoolOrDefault("OTEL_ENABLED", c.Telemetry.Enabled)
	c.Telemetry.ServiceName = getEnvOrDefault("OTEL_SERVICE_NAME", c.Telemetry.ServiceName)
	c.Telemetry.Endpoint = getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", c.Telemetry.Endpoint)
	c.Telemetry.Insecure = getEnvAsBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", c.Telemetry.Insecure)

	c.Auth.JWTSecret = getEnvOrDefault("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.StaticToken = getEnvOrDefault("API_TOKEN", c.Auth.StaticToken)
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.ReadBufferSize <= 0 {
		return fmt.Errorf("%w: read_buffer_size must be positive", ErrInvalidConfig)
	}
	if c.Server.MaxHeaderBytes < c.Server.ReadBufferSize {
		return fmt.Errorf("%w: max_header_bytes must be at least read_buffer_size", ErrInvalidConfig)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}

	prefix := c.Assets.Prefix
	if !strings.HasPrefix(prefix, "/") || prefix == "/" || strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("%w: asset prefix %q must look like /name", ErrInvalidConfig, prefix)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("%w: telemetry endpoint required when telemetry is enabled", ErrInvalidConfig)
	}

	return nil
}

func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogLevel parses Server.LogLevel ("debug", "info", "warn" or "error").
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Server.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.Server.LogLevel)
	}
	return level, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
