package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs at startup
type Config struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`

	MongoURI string `yaml:"mongo_uri"`
	MongoDB  string `yaml:"mongo_db"`
	RedisURI string `yaml:"redis_uri"`

	// LeadStore selects where leads are persisted: mongo or postgres
	LeadStore   string `yaml:"lead_store"`
	PostgresDSN string `yaml:"postgres_dsn"`

	AdminUser string `yaml:"admin_user"`
	AdminPass string `yaml:"-"`
	JWTSecret string `yaml:"-"`

	Telegram TelegramConfig `yaml:"telegram"`

	SessionTTL  time.Duration `yaml:"session_ttl"`
	UploadDir   string        `yaml:"upload_dir"`
	CORSOrigins []string      `yaml:"cors_allowed_origins"`

	Survey SurveyConfig `yaml:"survey"`
}

// SurveyConfig tunes the survey engine's load boundary
type SurveyConfig struct {
	// Normalization maps a driver question id to trim or strip-spaces
	Normalization map[string]string `yaml:"normalization"`
	// DerivedOptions maps a question id to a built-in option table (budget-tiers)
	DerivedOptions map[string]string `yaml:"derived_options"`
}

// IsProduction reports whether the server runs with production defaults
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RedisAddr strips the redis:// scheme the compose files carry
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

// Load reads the environment, then overlays CONFIG_FILE when set
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		Env:      getEnvOrDefault("ENV", "development"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),

		MongoURI: getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnvOrDefault("MONGO_DB", "mattressfit"),
		RedisURI: getEnvOrDefault("REDIS_URI", "localhost:6379"),

		LeadStore:   getEnvOrDefault("LEAD_STORE", "mongo"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		AdminUser: getEnvOrDefault("ADMIN_USER", "admin"),
		AdminPass: os.Getenv("ADMIN_PASS"),
		JWTSecret: getEnvOrDefault("JWT_SECRET", "change-me-in-production"),

		Telegram: DefaultTelegramConfig(),

		SessionTTL: getDurationOrDefault("SESSION_TTL", 2*time.Hour),
		UploadDir:  getEnvOrDefault("UPLOAD_DIR", "public"),
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay applies non-zero fields from a YAML file on top of cfg
func (c *Config) overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, file.Port)
	setString(&c.Env, file.Env)
	setString(&c.LogLevel, file.LogLevel)
	setString(&c.MongoURI, file.MongoURI)
	setString(&c.MongoDB, file.MongoDB)
	setString(&c.RedisURI, file.RedisURI)
	setString(&c.LeadStore, file.LeadStore)
	setString(&c.PostgresDSN, file.PostgresDSN)
	setString(&c.AdminUser, file.AdminUser)
	setString(&c.UploadDir, file.UploadDir)
	setString(&c.Telegram.APIBase, file.Telegram.APIBase)
	if file.Telegram.MaxRetries > 0 {
		c.Telegram.MaxRetries = file.Telegram.MaxRetries
	}
	if file.Telegram.TimeoutMS > 0 {
		c.Telegram.TimeoutMS = file.Telegram.TimeoutMS
	}
	if file.SessionTTL > 0 {
		c.SessionTTL = file.SessionTTL
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
	}
	if len(file.Survey.Normalization) > 0 {
		c.Survey.Normalization = file.Survey.Normalization
	}
	if len(file.Survey.DerivedOptions) > 0 {
		c.Survey.DerivedOptions = file.Survey.DerivedOptions
	}
	return nil
}

func (c *Config) validate() error {
	switch c.LeadStore {
	case "mongo":
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("LEAD_STORE=postgres requires POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("unknown lead store %q", c.LeadStore)
	}
	if c.IsProduction() && c.AdminPass == "" {
		return fmt.Errorf("ADMIN_PASS must be set in production")
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
