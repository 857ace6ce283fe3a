package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	GoogleAPIKey  string
	GenAIBaseURL  string
	TextModel     string
	ImageModel    string
	SuggestionTTL time.Duration
	ImageTimeout  time.Duration

	// WhitenBackground normalises the backdrop of generated item images.
	WhitenBackground bool

	SessionTTL time.Duration
	RateLimit  float64

	BrokerAddress     string
	WorkerConcurrency int

	DBHost     string
	DBPort     string
	DBUsername string
	DBPassword string
	DBName     string

	SentryDSN string

	TelegramToken          string
	TelegramFeedbackChatID int64
}

// DatabaseEnabled reports whether call logs should be persisted.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		c.DBUsername, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("GENAI_BASE_URL", "")
	v.SetDefault("TEXT_MODEL", "gemini-2.5-flash")
	v.SetDefault("IMAGE_MODEL", "gemini-2.0-flash-preview-image-generation")
	v.SetDefault("SUGGESTION_TIMEOUT", "60s")
	v.SetDefault("IMAGE_TIMEOUT", "90s")
	v.SetDefault("WHITEN_BACKGROUND", true)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("RATE_LIMIT", 5)
	v.SetDefault("ASYNC_BROKER_ADDRESS", "localhost:6379")
	v.SetDefault("WORKER_CONCURRENCY", 4)
	v.SetDefault("DB_PORT", "5432")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// missing .env is fine outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:      v.GetString("PORT"),
		Env:       v.GetString("ENV"),
		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		GoogleAPIKey:  v.GetString("GOOGLE_API_KEY"),
		GenAIBaseURL:  v.GetString("GENAI_BASE_URL"),
		TextModel:     v.GetString("TEXT_MODEL"),
		ImageModel:    v.GetString("IMAGE_MODEL"),
		SuggestionTTL: v.GetDuration("SUGGESTION_TIMEOUT"),
		ImageTimeout:  v.GetDuration("IMAGE_TIMEOUT"),

		WhitenBackground: v.GetBool("WHITEN_BACKGROUND"),

		SessionTTL: v.GetDuration("SESSION_TTL"),
		RateLimit:  v.GetFloat64("RATE_LIMIT"),

		BrokerAddress:     v.GetString("ASYNC_BROKER_ADDRESS"),
		WorkerConcurrency: v.GetInt("WORKER_CONCURRENCY"),

		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUsername: v.GetString("DB_USERNAME"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		SentryDSN: v.GetString("SENTRY_DSN"),

		TelegramToken:          v.GetString("TG_TOKEN"),
		TelegramFeedbackChatID: v.GetInt64("TG_FEEDBACK_CHAT_ID"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.BrokerAddress == "" {
		return fmt.Errorf("ASYNC_BROKER_ADDRESS is required")
	}
	if c.SuggestionTTL <= 0 {
		return fmt.Errorf("SUGGESTION_TIMEOUT must be positive, got %s", c.SuggestionTTL)
	}
	if c.ImageTimeout <= 0 {
		return fmt.Errorf("IMAGE_TIMEOUT must be positive, got %s", c.ImageTimeout)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %v", c.RateLimit)
	}
	return nil
}
