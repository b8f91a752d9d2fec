package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	HttpPort       int           `yaml:"http_port" env:"POTATOLAND_HTTP_PORT" validate:"required,min=1,max=65535"`
	PublicBaseURL  string        `yaml:"public_base_url" env:"POTATOLAND_PUBLIC_BASE_URL" validate:"required,url"` // prefix of links sent in emails
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SessionTTL     time.Duration `yaml:"session_ttl" validate:"required"`
	InviteMaxHours int           `yaml:"invite_max_hours" validate:"required,min=1"`
	CorsOrigins    []string      `yaml:"cors_origins"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	LogLevel       string        `yaml:"log_level" env:"POTATOLAND_LOG_LEVEL"`
	LogJSON        bool          `yaml:"log_json" env:"POTATOLAND_LOG_JSON"`
	Pg             Pg            `yaml:"pg"`
	Redis          Redis         `yaml:"redis"`
}

type Pg struct {
	Host   string `yaml:"host" env:"POTATOLAND_PG_HOST" validate:"required"`
	Port   int    `yaml:"port" env:"POTATOLAND_PG_PORT" validate:"required"`
	Dbname string `yaml:"dbname" env:"POTATOLAND_PG_DBNAME" validate:"required"`
}

// Redis is optional: an empty Addr disables the board cache.
type Redis struct {
	Addr     string        `yaml:"addr" env:"POTATOLAND_REDIS_ADDR"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

type Private struct {
	Pg            PgCredentials `yaml:"pg"`
	JwtKey        string        `yaml:"jwt_key" env:"POTATOLAND_JWT_KEY" validate:"required"`
	InviteKey     string        `yaml:"invite_key" env:"POTATOLAND_INVITE_KEY" validate:"required"`
	RedisPassword string        `yaml:"redis_password" env:"POTATOLAND_REDIS_PASSWORD"`
	Email         Email         `yaml:"email"`
}

type PgCredentials struct {
	User     string `yaml:"user" env:"POTATOLAND_PG_USER" validate:"required"`
	Password string `yaml:"password" env:"POTATOLAND_PG_PASSWORD" validate:"required"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server" env:"POTATOLAND_SMTP_SERVER" validate:"required"`
	SMTPPort   int    `yaml:"smtp_port" env:"POTATOLAND_SMTP_PORT" validate:"required"`
	Username   string `yaml:"username" env:"POTATOLAND_SMTP_USERNAME" validate:"required"`
	Password   string `yaml:"password" env:"POTATOLAND_SMTP_PASSWORD"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) SessionTTL() time.Duration {
	return c.Public.SessionTTL
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("can't read config file %s: %w", configPath, err)
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		return fmt.Errorf("can't unmarshal config file %s: %w", configPath, err)
	}
	return nil
}

// Load reads public.yaml and private.yaml from configFolder, applies POTATOLAND_*
// environment overrides and validates the result.
func Load(configFolder string) (*Config, error) {
	cfg := &Config{}
	if err := loadPath(path.Join(configFolder, "public.yaml"), &cfg.Public); err != nil {
		return nil, err
	}
	if err := loadPath(path.Join(configFolder, "private.yaml"), &cfg.Private); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("can't apply environment overrides: %w", err)
	}
	if cfg.Public.RequestTimeout == 0 {
		cfg.Public.RequestTimeout = 5 * time.Second
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func MustLoad(configFolder string) *Config {
	cfg, err := Load(configFolder)
	if err != nil {
		panic(err.Error())
	}
	return cfg
}
