package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server" envconfig:"SERVER"`
	Database   DatabaseConfig   `toml:"database" envconfig:"DATABASE"`
	Logs       LogsConfig       `toml:"logs" envconfig:"LOGS"`
	Metrics    MetricsConfig    `toml:"metrics" envconfig:"METRICS"`
	PayHere    PayHereConfig    `toml:"payhere" envconfig:"PAYHERE"`
	Daily      DailyConfig      `toml:"daily" envconfig:"DAILY"`
	Scheduling SchedulingConfig `toml:"scheduling" envconfig:"SCHEDULING"`
	Pipeline   PipelineConfig   `toml:"pipeline" envconfig:"PIPELINE"`
	Events     EventsConfig     `toml:"events" envconfig:"EVENTS"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" split_words:"true"`
	ReadTimeout     int `toml:"read_timeout" split_words:"true"`
	WriteTimeout    int `toml:"write_timeout" split_words:"true"`
	IdleTimeout     int `toml:"idle_timeout" split_words:"true"`
	ShutdownTimeout int `toml:"shutdown_timeout" split_words:"true"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host" split_words:"true"`
	Port            int    `toml:"port" split_words:"true"`
	User            string `toml:"user" split_words:"true"`
	Password        string `toml:"password" split_words:"true"`
	DBName          string `toml:"dbname" split_words:"true"`
	SSLMode         string `toml:"sslmode" split_words:"true"`
	MaxOpenConns    int    `toml:"max_open_conns" split_words:"true"`
	MaxIdleConns    int    `toml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" split_words:"true"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file" split_words:"true"`
	Level string `toml:"level" split_words:"true"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" split_words:"true"`
	Path        string `toml:"path" split_words:"true"`
	ServiceName string `toml:"service_name" split_words:"true"`
}

// PayHereConfig настройки платежного шлюза
type PayHereConfig struct {
	MerchantID     string `toml:"merchant_id" split_words:"true"`
	MerchantSecret string `toml:"merchant_secret" split_words:"true"`
	AppID          string `toml:"app_id" split_words:"true"`
	AppSecret      string `toml:"app_secret" split_words:"true"`
	BaseURL        string `toml:"base_url" split_words:"true"`
	Timeout        int    `toml:"timeout" split_words:"true"`
}

// DailyConfig настройки провайдера видеокомнат
type DailyConfig struct {
	APIKey       string `toml:"api_key" split_words:"true"`
	BaseURL      string `toml:"base_url" split_words:"true"`
	Timeout      int    `toml:"timeout" split_words:"true"`
	RoomTTLHours int    `toml:"room_ttl_hours" split_words:"true"`
}

// SchedulingConfig настройки календаря терапевтов
type SchedulingConfig struct {
	Timezone string `toml:"timezone" split_words:"true"`
}

// Location возвращает часовой пояс расписания
func (c SchedulingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// PipelineConfig настройки конвейера создания сессий
type PipelineConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds" split_words:"true"`
}

// EventsConfig настройки публикации событий
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" split_words:"true"`
	URL      string `toml:"url" split_words:"true"`
	Exchange string `toml:"exchange" split_words:"true"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "smc_session_service",
		},
		PayHere: PayHereConfig{
			BaseURL: "https://sandbox.payhere.lk",
			Timeout: 10,
		},
		Daily: DailyConfig{
			BaseURL:      "https://api.daily.co/v1",
			Timeout:      5,
			RoomTTLHours: 4,
		},
		Scheduling: SchedulingConfig{Timezone: "Asia/Colombo"},
		Pipeline:   PipelineConfig{TimeoutSeconds: 10},
		Events:     EventsConfig{Exchange: "sessions"},
	}
}

// Load загружает конфигурацию: значения по умолчанию, затем TOML файл,
// затем переменные окружения (включая .env, если он есть)
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	// .env не обязателен
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("%w: server.http_port must be positive", ErrInvalidConfig)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.PayHere.MerchantID == "" {
		return fmt.Errorf("%w: payhere.merchant_id is required", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Pipeline.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: pipeline.timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Daily.RoomTTLHours <= 0 {
		return fmt.Errorf("%w: daily.room_ttl_hours must be positive", ErrInvalidConfig)
	}
	if c.Events.Enabled && c.Events.URL == "" {
		return fmt.Errorf("%w: events.url is required when events are enabled", ErrInvalidConfig)
	}
	return nil
}
