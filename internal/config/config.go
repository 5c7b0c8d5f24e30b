package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Extract  ExtractConfig
	CORS     CORSConfig
	Async    AsyncConfig
	Database DatabaseConfig
	Redis    RedisConfig
	S3       S3Config
	Log      LogConfig
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"90s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ExtractConfig параметры пайплайна извлечения
type ExtractConfig struct {
	// Максимальный размер документа в байтах (10 MiB)
	MaxPayloadSize int64         `env:"EXTRACT_MAX_PAYLOAD_SIZE" envDefault:"10485760"`
	Timeout        time.Duration `env:"EXTRACT_TIMEOUT" envDefault:"60s"`
	MaxConcurrency int64         `env:"EXTRACT_MAX_CONCURRENCY" envDefault:"4"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// AsyncConfig включает API асинхронных задач (нужны PostgreSQL, Redis и S3)
type AsyncConfig struct {
	Enabled           bool `env:"ASYNC_ENABLED" envDefault:"false"`
	WorkerConcurrency int  `env:"WORKER_CONCURRENCY" envDefault:"2"`
	MaxRetry          int  `env:"WORKER_MAX_RETRY" envDefault:"3"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"pdftext"`
	Password        string        `env:"DB_PASSWORD" envDefault:"secret"`
	Name            string        `env:"DB_NAME" envDefault:"pdftext"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxConns        int           `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type S3Config struct {
	Endpoint  string `env:"S3_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"S3_ACCESS_KEY" envDefault:"minioadmin"`
	SecretKey string `env:"S3_SECRET_KEY" envDefault:"minioadmin"`
	Bucket    string `env:"S3_BUCKET" envDefault:"pdf-documents"`
	UseSSL    bool   `env:"S3_USE_SSL" envDefault:"false"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	// json или console
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	_ = godotenv.Load()

	return Parse()
}

// Parse разбирает конфигурацию только из окружения процесса
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет значения, которые env не может проверить сам
func (c *Config) Validate() error {
	if c.Extract.MaxPayloadSize <= 0 {
		return fmt.Errorf("EXTRACT_MAX_PAYLOAD_SIZE must be positive, got %d", c.Extract.MaxPayloadSize)
	}
	if c.Extract.MaxConcurrency <= 0 {
		return fmt.Errorf("EXTRACT_MAX_CONCURRENCY must be positive, got %d", c.Extract.MaxConcurrency)
	}
	if c.Extract.Timeout < 0 {
		return fmt.Errorf("EXTRACT_TIMEOUT cannot be negative, got %s", c.Extract.Timeout)
	}
	return nil
}
