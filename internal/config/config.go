package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Data sources
const (
	DataSourceFixture    = "fixture"
	DataSourcePersistent = "persistent"
)

// Session stores
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
// Значения читаются из TOML-файла и переопределяются переменными окружения
type Config struct {
	DataSource   string             `toml:"data_source" env:"DATA_SOURCE"`
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	Sessions     SessionsConfig     `toml:"sessions"`
	Queue        QueueConfig        `toml:"queue"`
	SalonService SalonServiceConfig `toml:"salon_service"`
	Fixtures     FixturesConfig     `toml:"fixtures"`
	Booking      BookingConfig      `toml:"booking"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"HTTP_PORT"`
	ReadTimeout     int `toml:"read_timeout" env:"HTTP_READ_TIMEOUT"`
	WriteTimeout    int `toml:"write_timeout" env:"HTTP_WRITE_TIMEOUT"`
	IdleTimeout     int `toml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT"`
}

type DatabaseConfig struct {
	Driver          string `toml:"driver" env:"DB_DRIVER"`
	Host            string `toml:"host" env:"DB_HOST"`
	Port            int    `toml:"port" env:"DB_PORT"`
	User            string `toml:"user" env:"DB_USER"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE"`
	Path            string `toml:"path" env:"DB_PATH"` // файл SQLite
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

type LogsConfig struct {
	File  string `toml:"file" env:"LOG_FILE"`
	Level string `toml:"level" env:"LOG_LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	Path        string `toml:"path" env:"METRICS_PATH"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME"`
}

type RedisConfig struct {
	Addr     string `toml:"addr" env:"REDIS_ADDR"`
	Password string `toml:"password" env:"REDIS_PASSWORD"`
	DB       int    `toml:"db" env:"REDIS_DB"`
}

type SessionsConfig struct {
	Store      string `toml:"store" env:"SESSIONS_STORE"`
	TTLSeconds int    `toml:"ttl_seconds" env:"SESSIONS_TTL_SECONDS"` // 0 = хранить без ограничения
	KeyPrefix  string `toml:"key_prefix" env:"SESSIONS_KEY_PREFIX"`
}

type QueueConfig struct {
	Enabled  bool   `toml:"enabled" env:"QUEUE_ENABLED"`
	Name     string `toml:"name" env:"QUEUE_NAME"`
	MaxRetry int    `toml:"max_retry" env:"QUEUE_MAX_RETRY"`
}

type SalonServiceConfig struct {
	URL             string `toml:"url" env:"SALON_SERVICE_URL"`
	Timeout         int    `toml:"timeout" env:"SALON_SERVICE_TIMEOUT"`
	CacheSize       int    `toml:"cache_size" env:"SALON_SERVICE_CACHE_SIZE"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds" env:"SALON_SERVICE_CACHE_TTL_SECONDS"`
}

type FixturesConfig struct {
	File string `toml:"file" env:"FIXTURES_FILE"` // пусто = встроенный демо-каталог
}

type BookingConfig struct {
	HorizonDays      int `toml:"horizon_days" env:"BOOKING_HORIZON_DAYS"`
	StepMinutes      int `toml:"step_minutes" env:"BOOKING_STEP_MINUTES"`
	MinNoticeMinutes int `toml:"min_notice_minutes" env:"BOOKING_MIN_NOTICE_MINUTES"`
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled" env:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `toml:"requests_per_second" env:"RATE_LIMIT_RPS"`
	Burst             int     `toml:"burst" env:"RATE_LIMIT_BURST"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		DataSource: DataSourceFixture,
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			Path:            "data/salon_booking.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "salon_booking_service",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Sessions: SessionsConfig{
			Store:     SessionStoreMemory,
			KeyPrefix: "booking_session:",
		},
		Queue: QueueConfig{
			Name:     "notifications",
			MaxRetry: 3,
		},
		SalonService: SalonServiceConfig{
			Timeout:         5,
			CacheSize:       256,
			CacheTTLSeconds: 60,
		},
		Booking: BookingConfig{
			HorizonDays:      domain.DefaultHorizonDays,
			StepMinutes:      domain.DefaultStepMinutes,
			MinNoticeMinutes: domain.DefaultMinNoticeMinutes,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
		},
	}
}

// Load читает конфигурацию из файла и применяет переменные окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	cfg.DataSource = strings.ToLower(strings.TrimSpace(cfg.DataSource))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.DataSource {
	case DataSourceFixture:
	case DataSourcePersistent:
		switch c.Database.Driver {
		case DriverPostgres, DriverSQLite:
		default:
			return fmt.Errorf("%w: unknown database driver %q", ErrInvalidConfig, c.Database.Driver)
		}
		if c.SalonService.URL == "" {
			return fmt.Errorf("%w: salon_service.url is required for the persistent data source", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown data_source %q", ErrInvalidConfig, c.DataSource)
	}

	switch c.Sessions.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("%w: unknown sessions.store %q", ErrInvalidConfig, c.Sessions.Store)
	}

	if c.Sessions.TTLSeconds < 0 {
		return fmt.Errorf("%w: sessions.ttl_seconds must not be negative", ErrInvalidConfig)
	}
	if c.Booking.HorizonDays < 1 || c.Booking.HorizonDays > domain.MaxHorizonDays {
		return fmt.Errorf("%w: booking.horizon_days must be between 1 and %d", ErrInvalidConfig, domain.MaxHorizonDays)
	}
	if c.Booking.StepMinutes < 0 || c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.step_minutes and booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst < 1) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second and burst", ErrInvalidConfig)
	}

	return nil
}

// DSN строка подключения для выбранного драйвера
func (d DatabaseConfig) DSN() string {
	if d.Driver == DriverSQLite {
		return "file:" + d.Path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
