package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DEFAULT_SUPPORT_URL = "https://wa.me/254759777587"
const QR_IMAGE_SIZE = 512

// Hard limits of the booking wizard. Duration is chosen in whole hours.
const (
	MIN_BOOKING_HOURS = 1
	MAX_BOOKING_HOURS = 168
)

// APIConfig points at the external ParcelPoint REST API.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Key     string `mapstructure:"key"`
	Version string `mapstructure:"version"`
	// Request timeout in seconds. Zero disables the client side timeout.
	Timeout uint `mapstructure:"timeout"`
}

func (a APIConfig) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls caching of the devices overview.
type CacheConfig struct {
	Type  string      `mapstructure:"type"` // "memory", "redis" or "none"
	TTL   uint        `mapstructure:"ttl"`  // seconds
	Redis RedisConfig `mapstructure:"redis"`
}

type Config struct {
	// Secret key for signing session cookies. Must be set in production.
	Secret   string `mapstructure:"secret"`
	LogLevel string `mapstructure:"log_level"`

	ListenAddr string `mapstructure:"listen_addr"`

	// Comma separated list of allowed CIDR networks. Empty means allow all.
	AllowedNetworks string `mapstructure:"allowed_networks"`
	// Comma separated list of origins allowed to call /api
	CORSAllowedOrigins string `mapstructure:"cors_allowed_origins"`

	// Booking session TTL in minutes.
	SessionTTL uint   `mapstructure:"session_ttl"`
	NonceStore string `mapstructure:"nonce_store"`

	BaseURL    string `mapstructure:"base_url"` // Public origin, e.g. https://parcelpoint.co.ke. Empty means detect from request.
	SupportURL string `mapstructure:"support_url"`
	// Optional YAML file replacing the built-in locations and FAQ.
	CatalogFile string `mapstructure:"catalog_file"`

	API     APIConfig   `mapstructure:"api"`
	Cache   CacheConfig `mapstructure:"cache"`
	Storage Storage     `mapstructure:"storage"`
	Email   SMTPConfig  `mapstructure:"email"`
}

// SMTPConfig configures outgoing mail for the contact and account deletion forms.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"` // Support inbox
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from config.yaml and environment variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")

	for _, path := range configFile {
		v.SetConfigFile(path)
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// api.base_url -> API_BASE_URL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || len(configFile) > 0 {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
		slog.Debug("No config file found, using defaults and environment")
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.API.BaseURL == "" {
		slog.Warn("API base URL is not set, booking will not work", "key", "API_BASE_URL")
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil && cfg.Storage.SQLite.Path != "" {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), strings.TrimPrefix(cfg.Storage.SQLite.Path, "./"))
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			return nil, fmt.Errorf("SECRET configuration variable is required in production")
		}
		slog.Warn("Secret is not set. Do not use in production.")
	}

	return &cfg, nil
}
