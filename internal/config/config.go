package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "BTCDASH"

// configFileEnv names the variable that points at an explicit YAML file
const configFileEnv = EnvPrefix + "_CONFIG_FILE"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Session   SessionConfig   `yaml:"session" envconfig:"SESSION"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// SessionConfig controls the per-browser dashboard sessions
type SessionConfig struct {
	CookieName    string        `yaml:"cookie_name" envconfig:"COOKIE_NAME"`
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
	SweepSchedule string        `yaml:"sweep_schedule" envconfig:"SWEEP_SCHEDULE"`
	SecureCookie  bool          `yaml:"secure_cookie" envconfig:"SECURE_COOKIE"`
}

// DashboardConfig controls the dashboard views
type DashboardConfig struct {
	DateColumn  string `yaml:"date_column" envconfig:"DATE_COLUMN"`
	PreviewRows int    `yaml:"preview_rows" envconfig:"PREVIEW_ROWS"`
	ChartWidth  int    `yaml:"chart_width" envconfig:"CHART_WIDTH"`
	ChartHeight int    `yaml:"chart_height" envconfig:"CHART_HEIGHT"`
}

// TelemetryConfig controls tracing and metrics
type TelemetryConfig struct {
	ServiceName     string `yaml:"service_name" envconfig:"SERVICE_NAME"`
	TracingEnabled  bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TracingExporter string `yaml:"tracing_exporter" envconfig:"TRACING_EXPORTER"`
	MetricsEnabled  bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
	WriteWait       time.Duration `yaml:"write_wait" envconfig:"WRITE_WAIT"`
	MaxMessageSize  int64         `yaml:"max_message_size" envconfig:"MAX_MESSAGE_SIZE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// BTCDASH_* environment variables, in increasing precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file path; an empty path skips
// the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}
	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return fmt.Errorf("log file path required for output %q", c.Logging.Output)
	}
	// JSON is the only supported format
	c.Logging.Format = "json"

	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name must be set")
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session ttl must not be negative")
	}
	if c.Session.SweepSchedule == "" {
		return fmt.Errorf("session sweep schedule must be set")
	}

	if c.Dashboard.DateColumn == "" {
		return fmt.Errorf("dashboard date column must be set")
	}
	if c.Dashboard.PreviewRows < 0 {
		return fmt.Errorf("dashboard preview rows must not be negative")
	}
	if c.Dashboard.ChartWidth <= 0 || c.Dashboard.ChartHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	switch c.Telemetry.TracingExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("invalid tracing exporter: %q", c.Telemetry.TracingExporter)
	}

	if c.WebSocket.PingPeriod >= c.WebSocket.PongWait {
		return fmt.Errorf("websocket ping period must be shorter than pong wait")
	}

	return nil
}

// getConfigFilePath returns the config file to read, or "" when none exists
func getConfigFilePath() string {
	if explicit := os.Getenv(configFileEnv); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
			MaxUploadBytes:  32 << 20,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Session: SessionConfig{
			CookieName:    "btcdash_session",
			TTL:           30 * time.Minute,
			SweepSchedule: "@every 1m",
		},
		Dashboard: DashboardConfig{
			DateColumn:  "Date",
			PreviewRows: 5,
			ChartWidth:  900,
			ChartHeight: 420,
		},
		Telemetry: TelemetryConfig{
			ServiceName:     "btc-dashboard",
			TracingEnabled:  true,
			TracingExporter: "none",
			MetricsEnabled:  true,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
			WriteWait:       10 * time.Second,
			MaxMessageSize:  4096,
		},
	}
}
