package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides (LEXBRIEF_AI_PROVIDER, ...)
const EnvPrefix = "LEXBRIEF"

// Config is the effective configuration after defaults, config file,
// environment and flags have been layered
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	AI       AIConfig       `yaml:"ai" mapstructure:"ai"`
	Ingest   IngestConfig   `yaml:"ingest" mapstructure:"ingest"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Storage  StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Port            string        `yaml:"port" mapstructure:"port"`
	Mode            string        `yaml:"mode" mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// AIConfig configures the hosted model
type AIConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	Model       string        `yaml:"model" mapstructure:"model"`
	APIKey      string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL     string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Temperature float32       `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateLimit   float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // calls per second, 0 = unlimited
	RateBurst   int           `yaml:"rate_burst" mapstructure:"rate_burst"`
	CacheTTL    time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"` // 0 disables the response cache
}

// IngestConfig configures upload validation
type IngestConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" mapstructure:"max_file_size"`
}

// SessionConfig configures the in-memory session store
type SessionConfig struct {
	IdleTTL time.Duration `yaml:"idle_ttl" mapstructure:"idle_ttl"`
}

// StorageConfig configures the archive for uploaded originals
type StorageConfig struct {
	Type         string `yaml:"type" mapstructure:"type"` // none, local, s3
	LocalPath    string `yaml:"local_path" mapstructure:"local_path"`
	S3Bucket     string `yaml:"s3_bucket,omitempty" mapstructure:"s3_bucket"`
	S3Region     string `yaml:"s3_region,omitempty" mapstructure:"s3_region"`
	S3Endpoint   string `yaml:"s3_endpoint,omitempty" mapstructure:"s3_endpoint"`
	S3Prefix     string `yaml:"s3_prefix,omitempty" mapstructure:"s3_prefix"`
	AWSAccessKey string `yaml:"aws_access_key,omitempty" mapstructure:"aws_access_key"`
	AWSSecretKey string `yaml:"aws_secret_key,omitempty" mapstructure:"aws_secret_key"`
}

// DatabaseConfig configures the optional upload ledger
type DatabaseConfig struct {
	URL         string `yaml:"url,omitempty" mapstructure:"url"` // empty disables the ledger
	AutoMigrate bool   `yaml:"auto_migrate" mapstructure:"auto_migrate"`
}

// LogConfig configures the structured logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text, json
}

// Default returns the built-in defaults
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8080",
			Mode:            "release",
			ShutdownTimeout: 10 * time.Second,
		},
		AI: AIConfig{
			Provider:    "gemini",
			Temperature: 0.3,
			MaxTokens:   2048,
			Timeout:     60 * time.Second,
			RateLimit:   2,
			RateBurst:   4,
			CacheTTL:    30 * time.Minute,
		},
		Ingest: IngestConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
		Session: SessionConfig{
			IdleTTL: 2 * time.Hour,
		},
		Storage: StorageConfig{
			Type:      "local",
			LocalPath: "./storage/files",
			S3Region:  "us-east-1",
		},
		Database: DatabaseConfig{
			AutoMigrate: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// envAliases are the well-known variable names accepted alongside LEXBRIEF_*
var envAliases = map[string][]string{
	"server.port":            {"PORT"},
	"database.url":           {"DATABASE_URL"},
	"storage.type":           {"STORAGE_TYPE"},
	"storage.local_path":     {"STORAGE_LOCAL_PATH"},
	"storage.s3_bucket":      {"AWS_S3_BUCKET"},
	"storage.s3_region":      {"AWS_REGION"},
	"storage.s3_endpoint":    {"AWS_S3_ENDPOINT"},
	"storage.aws_access_key": {"AWS_ACCESS_KEY_ID"},
	"storage.aws_secret_key": {"AWS_SECRET_ACCESS_KEY"},
}

// LoadDotEnv loads .env from the working directory if present
func LoadDotEnv() {
	_ = godotenv.Load()
}

// SetDefaults registers every key with its default so environment overrides
// and Unmarshal see the full key set
func SetDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	v.SetDefault("ai.provider", d.AI.Provider)
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.rate_limit", d.AI.RateLimit)
	v.SetDefault("ai.rate_burst", d.AI.RateBurst)
	v.SetDefault("ai.cache_ttl", d.AI.CacheTTL)

	v.SetDefault("ingest.max_file_size", d.Ingest.MaxFileSize)
	v.SetDefault("session.idle_ttl", d.Session.IdleTTL)

	v.SetDefault("storage.type", d.Storage.Type)
	v.SetDefault("storage.local_path", d.Storage.LocalPath)
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", d.Storage.S3Region)
	v.SetDefault("storage.s3_endpoint", "")
	v.SetDefault("storage.s3_prefix", "")
	v.SetDefault("storage.aws_access_key", "")
	v.SetDefault("storage.aws_secret_key", "")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", d.Database.AutoMigrate)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		names := append([]string{key, prefixed}, aliases...)
		if err := v.BindEnv(names...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// DefaultConfigPath returns ~/.lexbrief/config.yaml
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error finding home directory: %w", err)
	}
	return filepath.Join(home, ".lexbrief", "config.yaml"), nil
}

// Load layers defaults < config file < environment < flags already bound to v.
// An explicitly named config file must exist; the default one is optional.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if path, err := DefaultConfigPath(); err == nil {
		v.AddConfigPath(filepath.Dir(path))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.resolveAPIKey()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveAPIKey falls back to the provider's conventional variable
func (c *Config) resolveAPIKey() {
	if c.AI.APIKey != "" {
		return
	}
	switch strings.ToLower(c.AI.Provider) {
	case "openai":
		c.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	default:
		c.AI.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// Validate checks values that would otherwise fail later and less clearly
func (c *Config) Validate() error {
	switch strings.ToLower(c.AI.Provider) {
	case "gemini", "google", "openai":
	default:
		return fmt.Errorf("invalid ai.provider %q (supported: gemini, openai)", c.AI.Provider)
	}
	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	if c.Ingest.MaxFileSize <= 0 {
		return errors.New("ingest.max_file_size must be positive")
	}
	if c.AI.RateLimit < 0 {
		return errors.New("ai.rate_limit must not be negative")
	}
	switch c.Storage.Type {
	case "none", "local", "s3":
	default:
		return fmt.Errorf("invalid storage.type %q (supported: none, local, s3)", c.Storage.Type)
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display
func (c Config) Redacted() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		if len(s) <= 4 {
			return "****"
		}
		return "****" + s[len(s)-4:]
	}
	c.AI.APIKey = mask(c.AI.APIKey)
	c.Storage.AWSAccessKey = mask(c.Storage.AWSAccessKey)
	c.Storage.AWSSecretKey = mask(c.Storage.AWSSecretKey)
	if c.Database.URL != "" {
		c.Database.URL = redactURL(c.Database.URL)
	}
	return c
}

func redactURL(raw string) string {
	at := strings.LastIndex(raw, "@")
	scheme := strings.Index(raw, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return raw
	}
	creds := raw[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return raw[:scheme+3] + creds + raw[at:]
}
