// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (64KB).
	// The only request bodies are lead submissions.
	DefaultMaxRequestSize = 64 << 10

	// DefaultClientRetryMaxAttempts is the default number of attempts per
	// favicon fetch. The page swaps to a fallback icon after one failure,
	// so retrying harder buys nothing.
	DefaultClientRetryMaxAttempts = 1

	// DefaultClientRetryMultiplier is the default exponential backoff multiplier.
	DefaultClientRetryMultiplier = 2.0

	// DefaultClientRetryJitterFactor is the default jitter percentage (±25%).
	DefaultClientRetryJitterFactor = 0.25

	// DefaultClientCircuitMaxFailures is the default failures before circuit opens.
	DefaultClientCircuitMaxFailures = 5

	// DefaultClientCircuitHalfOpenLimit is the default successes to close circuit.
	DefaultClientCircuitHalfOpenLimit = 3

	// DefaultTransportMaxIdleConns is the default max idle connections.
	DefaultTransportMaxIdleConns = 100

	// DefaultTransportMaxIdleConnsPerHost is the default max idle connections per host.
	DefaultTransportMaxIdleConnsPerHost = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28

	// DefaultFaviconPreloadConcurrency bounds parallel favicon warm-up fetches.
	DefaultFaviconPreloadConcurrency = 4

	// DefaultSessionReadLimit is the largest accepted session message in bytes.
	DefaultSessionReadLimit = 4096

	// DefaultConfigDir is where Load looks for YAML files.
	DefaultConfigDir = "configs"

	// EnvPrefix prefixes every environment override. Nested keys are
	// separated by a double underscore: APP_SITE__CONTENT_PATH sets
	// site.content_path.
	EnvPrefix = "APP_"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"`
	Site      SiteConfig      `koanf:"site"`
	Favicon   FaviconConfig   `koanf:"favicon"`
	Storage   StorageConfig   `koanf:"storage"`
	UI        UIConfig        `koanf:"ui"`
	Session   SessionConfig   `koanf:"session"`
	Features  FeaturesConfig  `koanf:"features"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
	Insecure     bool    `koanf:"insecure"`
}

// AuthConfig contains the gateway header settings used to authorize the
// admin lead listing.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	ClaimsHeader  string `koanf:"claims_header"`
	RolesHeader   string `koanf:"roles_header"  validate:"required_if=Enabled true"`
	ScopesHeader  string `koanf:"scopes_header"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Enabled true"`
	AdminRole     string `koanf:"admin_role"    validate:"required_if=Enabled true"`
}

// ClientConfig contains HTTP client settings for downstream services.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	Transport      TransportConfig      `koanf:"transport"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// SiteConfig locates the content document and the external embeds.
type SiteConfig struct {
	ContentPath         string        `koanf:"content_path"         validate:"required"`
	BaseURL             string        `koanf:"base_url"             validate:"required,url"`
	Watch               bool          `koanf:"watch"`
	Debounce            time.Duration `koanf:"debounce"             validate:"required_if=Watch true,omitempty,min=10ms"`
	SchedulingURL       string        `koanf:"scheduling_url"       validate:"required,url"`
	CertificateURL      string        `koanf:"certificate_url"      validate:"required"`
	CertificateFilename string        `koanf:"certificate_filename" validate:"required"`
}

// FaviconConfig configures the favicon proxy.
type FaviconConfig struct {
	BaseURL            string        `koanf:"base_url"            validate:"required,url"`
	CacheTTL           time.Duration `koanf:"cache_ttl"           validate:"required,min=1m"`
	PreloadConcurrency int           `koanf:"preload_concurrency" validate:"required,min=1,max=32"`
}

// StorageConfig locates the SQLite database.
type StorageConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// UIConfig tunes the animated parts of the page.
type UIConfig struct {
	CarouselInterval   time.Duration `koanf:"carousel_interval"   validate:"required,min=100ms"`
	MarqueeInterval    time.Duration `koanf:"marquee_interval"    validate:"required,min=1ms"`
	MarqueeStep        float64       `koanf:"marquee_step"        validate:"required,gt=0"`
	MarqueeItemWidth   float64       `koanf:"marquee_item_width"  validate:"required,gt=0"`
	CertificateLoading time.Duration `koanf:"certificate_loading" validate:"required,min=1ms"`
	FrameInterval      time.Duration `koanf:"frame_interval"      validate:"required,min=1ms"`
}

// SessionConfig tunes the interaction session websocket.
type SessionConfig struct {
	WriteWait  time.Duration `koanf:"write_wait"  validate:"required,min=100ms"`
	PongWait   time.Duration `koanf:"pong_wait"   validate:"required,min=1s"`
	PingPeriod time.Duration `koanf:"ping_period" validate:"required,min=100ms,ltfield=PongWait"`
	ReadLimit  int64         `koanf:"read_limit"  validate:"required,min=256"`
}

// FeaturesConfig holds static feature flag values.
type FeaturesConfig struct {
	Flags  map[string]bool   `koanf:"flags"`
	Values map[string]string `koanf:"values"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "marketing-site",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "15s",
		"server.write_timeout":    "15s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/site.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "marketing-site",
		"telemetry.sampling_rate": 1.0,
		"telemetry.insecure":      true,

		"auth.enabled":        false,
		"auth.claims_header":  "X-User-Claims",
		"auth.roles_header":   "X-User-Roles",
		"auth.scopes_header":  "X-User-Scopes",
		"auth.subject_header": "X-User-ID",
		"auth.admin_role":     "admin",

		"client.timeout":                           "5s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "1s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",

		"site.content_path":         "configs/site.yaml",
		"site.base_url":             "http://localhost:8080",
		"site.watch":                false,
		"site.debounce":             "250ms",
		"site.scheduling_url":       "https://calendly.com/example/strategy-call",
		"site.certificate_url":      "/static/certificate.pdf",
		"site.certificate_filename": "certificate.pdf",

		"favicon.base_url":            "https://www.google.com/s2/favicons",
		"favicon.cache_ttl":           "24h",
		"favicon.preload_concurrency": DefaultFaviconPreloadConcurrency,

		"storage.path": "./data/site.db",

		"ui.carousel_interval":   "5s",
		"ui.marquee_interval":    "30ms",
		"ui.marquee_step":        1.0,
		"ui.marquee_item_width":  320.0,
		"ui.certificate_loading": "1500ms",
		"ui.frame_interval":      "50ms",

		"session.write_wait":  "10s",
		"session.pong_wait":   "60s",
		"session.ping_period": "54s",
		"session.read_limit":  DefaultSessionReadLimit,

		"features.flags.sticky-banner": true,
		"features.flags.lead-capture":  true,
		"features.flags.live-session":  true,
		"features.flags.icon-proxy":    true,
	}
}

// Load loads configuration from DefaultConfigDir with the following
// precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	return LoadDir(DefaultConfigDir, profile)
}

// LoadDir is Load with an explicit config directory.
func LoadDir(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, filepath.Join(dir, "base.yaml"))
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		err := loadFileIfExists(k, filepath.Join(dir, profile+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// envKey maps APP_SITE__CONTENT_PATH to site.content_path.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
