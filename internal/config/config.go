package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port              string
	GinMode           string
	LogLevel          string
	LogFormat         string
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBPath            string
	SessionStore      string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	SessionSecret     string
	SuggestionBackend string
	SuggestionTimeout time.Duration
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	MaxUploadBytes    int64
}

var defaults = map[string]any{
	"PORT":               "8080",
	"GIN_MODE":           "debug",
	"LOG_LEVEL":          "info",
	"LOG_FORMAT":         "text",
	"DB_DRIVER":          "mysql",
	"DB_HOST":            "localhost",
	"DB_PORT":            "3306",
	"DB_USER":            "bugjournal",
	"DB_PASSWORD":        "bugjournal",
	"DB_NAME":            "bug_journal",
	"DB_PATH":            "bug_journal.db",
	"SESSION_STORE":      "redis",
	"REDIS_HOST":         "localhost",
	"REDIS_PORT":         "6379",
	"REDIS_PASSWORD":     "",
	"SESSION_SECRET":     "default-secret-key-change-me",
	"SUGGESTION_BACKEND": "static",
	"SUGGESTION_TIMEOUT": "15s",
	"OPENAI_API_KEY":     "",
	"OPENAI_MODEL":       "gpt-4o",
	"OPENAI_BASE_URL":    "",
	"MAX_UPLOAD_BYTES":   10 << 20,
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from an optional YAML file, with environment
// variables taking precedence over file values.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case "redis", "cookie":
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}
	switch c.SuggestionBackend {
	case "static", "openai":
	default:
		return fmt.Errorf("unsupported SUGGESTION_BACKEND %q", c.SuggestionBackend)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) *Config {
	timeout := v.GetDuration("SUGGESTION_TIMEOUT")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Config{
		Port:              v.GetString("PORT"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          strings.ToLower(v.GetString("LOG_LEVEL")),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBPath:            v.GetString("DB_PATH"),
		SessionStore:      strings.ToLower(v.GetString("SESSION_STORE")),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		SuggestionBackend: strings.ToLower(v.GetString("SUGGESTION_BACKEND")),
		SuggestionTimeout: timeout,
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
		OpenAIModel:       v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL:     v.GetString("OPENAI_BASE_URL"),
		MaxUploadBytes:    v.GetInt64("MAX_UPLOAD_BYTES"),
	}
}
