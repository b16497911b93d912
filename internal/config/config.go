// Package config собирает настройки из значений по умолчанию, флагов командной строки,
// файлов .env и переменных окружения. Переменные окружения имеют наивысший приоритет.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// ConfigError описывает некорректное значение настройки
type ConfigError struct {
	Field string
	Err   error
}

// Error реализует интерфейс error
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Field, e.Err)
}

// Unwrap возвращает исходную ошибку
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config содержит настройки приложения
type Config struct {
	RunAddr      string        `env:"SERVER_ADDRESS"`
	DatabaseDSN  string        `env:"SHORTY_DSN"`
	DevSubnet    string        `env:"SHORTY_DEV_SUBNET"`
	RedisAddr    string        `env:"REDIS_ADDR"`
	CacheTTL     time.Duration `env:"SHORTY_CACHE_TTL"`
	QueryTimeout time.Duration `env:"SHORTY_QUERY_TIMEOUT"`
	CookieName   string        `env:"SHORTY_COOKIE_NAME"`
	LogLevel     string        `env:"LOG_LEVEL"`
	EnableGzip   bool          `env:"ENABLE_GZIP"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		RunAddr:      ":8080",
		DatabaseDSN:  "",
		DevSubnet:    "",
		RedisAddr:    "",
		CacheTTL:     10 * time.Minute,
		QueryTimeout: 3 * time.Second,
		CookieName:   "shorty_redirect",
		LogLevel:     "info",
		EnableGzip:   true,
	}
}

// NewConfig создает и возвращает новый объект Config, разбирая флаги os.Args и окружение
func NewConfig() (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	return Parse(flag.CommandLine, os.Args[1:])
}

// Parse применяет флаги из args и переменные окружения поверх значений по умолчанию
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Default()

	// Регистрируем флаги
	fs.StringVar(&cfg.RunAddr, "a", cfg.RunAddr, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN (sqlite:, postgres://, mysql://); empty uses shorty.db")
	fs.StringVar(&cfg.DevSubnet, "t", cfg.DevSubnet, "CIDR of clients that see fault details")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address for the link cache; empty disables it")
	fs.DurationVar(&cfg.CacheTTL, "ttl", cfg.CacheTTL, "link cache TTL")
	fs.DurationVar(&cfg.QueryTimeout, "qt", cfg.QueryTimeout, "storage query timeout")
	fs.StringVar(&cfg.CookieName, "c", cfg.CookieName, "name of the always-redirect cookie")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.EnableGzip, "z", cfg.EnableGzip, "compress HTML responses")
	if err := fs.Parse(args); err != nil {
		return nil, &ConfigError{Field: "flags", Err: err}
	}

	// Проверяем переменные окружения
	if err := env.Parse(cfg); err != nil {
		return nil, &ConfigError{Field: "env", Err: err}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate нормализует и проверяет значения
func (c *Config) validate() error {
	if !strings.Contains(c.RunAddr, ":") {
		c.RunAddr = ":" + c.RunAddr
	}
	if c.DevSubnet != "" {
		if _, _, err := net.ParseCIDR(c.DevSubnet); err != nil {
			return &ConfigError{Field: "DevSubnet", Err: err}
		}
	}
	if c.QueryTimeout < 0 {
		return &ConfigError{Field: "QueryTimeout", Err: errors.New("must not be negative")}
	}
	if c.CacheTTL < 0 {
		return &ConfigError{Field: "CacheTTL", Err: errors.New("must not be negative")}
	}
	if c.CookieName == "" {
		return &ConfigError{Field: "CookieName", Err: errors.New("must not be empty")}
	}
	return nil
}

// loadEnvFiles загружает ENV_FILE или .env; отсутствие файлов не ошибка.
// Уже заданные переменные окружения не перезаписываются.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return &ConfigError{Field: "ENV_FILE", Err: err}
		}
		return nil
	}
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &ConfigError{Field: ".env", Err: err}
	}
	return nil
}
