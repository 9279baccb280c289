package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	HistoryDriverFile     = "file"
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
	HistoryDriverRedis    = "redis"

	EventsDriverNone  = "none"
	EventsDriverNATS  = "nats"
	EventsDriverKafka = "kafka"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	AppEnv          string        `env:"APP_ENV" envDefault:"production"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSAllowOrigin string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`

	LLMAPIKey  string `env:"LLM_API_KEY,required,notEmpty"`
	LLMBaseURL string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel   string `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`

	HistoryDriver string `env:"HISTORY_DRIVER" envDefault:"file"`
	HistoryFile   string `env:"HISTORY_FILE" envDefault:"conversations.json"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"conversations.db"`
	DatabaseURL   string `env:"DATABASE_URL"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	EventsDriver  string   `env:"EVENTS_DRIVER" envDefault:"none"`
	EventsSubject string   `env:"EVENTS_SUBJECT" envDefault:"chatrelay.conversation.recorded"`
	NatsURL       string   `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NatsToken     string   `env:"NATS_TOKEN"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envSeparator:","`

	ChatRateLimit  int           `env:"CHAT_RATE_LIMIT" envDefault:"0"`
	ChatRateWindow time.Duration `env:"CHAT_RATE_WINDOW" envDefault:"1m"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.HistoryDriver = strings.ToLower(strings.TrimSpace(cfg.HistoryDriver))
	cfg.EventsDriver = strings.ToLower(strings.TrimSpace(cfg.EventsDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate revisa las combinaciones de drivers y sus requisitos.
func (c *Config) Validate() error {
	switch c.HistoryDriver {
	case HistoryDriverFile:
		if strings.TrimSpace(c.HistoryFile) == "" {
			return fmt.Errorf("HISTORY_FILE is required for history driver %q", c.HistoryDriver)
		}
	case HistoryDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("SQLITE_PATH is required for history driver %q", c.HistoryDriver)
		}
	case HistoryDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required for history driver %q", c.HistoryDriver)
		}
	case HistoryDriverRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("REDIS_ADDR is required for history driver %q", c.HistoryDriver)
		}
	default:
		return fmt.Errorf("unknown history driver %q", c.HistoryDriver)
	}

	switch c.EventsDriver {
	case EventsDriverNone:
	case EventsDriverNATS:
		if strings.TrimSpace(c.NatsURL) == "" {
			return fmt.Errorf("NATS_URL is required for events driver %q", c.EventsDriver)
		}
	case EventsDriverKafka:
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS is required for events driver %q", c.EventsDriver)
		}
	default:
		return fmt.Errorf("unknown events driver %q", c.EventsDriver)
	}

	if c.ChatRateLimit < 0 {
		return fmt.Errorf("CHAT_RATE_LIMIT must be >= 0")
	}
	if c.ChatRateLimit > 0 && c.ChatRateWindow <= 0 {
		return fmt.Errorf("CHAT_RATE_WINDOW must be positive when CHAT_RATE_LIMIT is set")
	}
	return nil
}

// IsDevelopment indica si el proceso corre en modo desarrollo.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}
