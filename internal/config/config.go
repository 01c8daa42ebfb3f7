package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"studyfunnel_backend/internal/validator"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Survey   SurveyConfig   `yaml:"survey"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Email    EmailConfig    `yaml:"email"`
	Region   RegionConfig   `yaml:"region"`
}

type ServerConfig struct {
	Host           string   `yaml:"host" env:"SERVER_HOST"`
	Port           int      `yaml:"port" env:"PORT" validate:"min=1,max=65535"`
	Env            string   `yaml:"env" env:"SERVER_ENV"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ORIGINS" envSeparator:","`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"url" env:"DATABASE_URL" validate:"required"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" validate:"required,min=16"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TTL"`
	Issuer    string        `yaml:"issuer" env:"JWT_ISSUER"`
}

type SurveyConfig struct {
	BaseURL      string        `yaml:"base_url" env:"SURVEYMONKEY_BASE_URL" validate:"required,url"`
	Token        string        `yaml:"token" env:"SURVEYMONKEY_TOKEN"`
	SurveyID     string        `yaml:"survey_id" env:"SURVEY_ID"`
	PollInterval time.Duration `yaml:"poll_interval" env:"SURVEY_POLL_INTERVAL" validate:"min=1s"`
	PageSize     int           `yaml:"page_size" env:"SURVEY_PAGE_SIZE" validate:"min=1,max=1000"`
	Timeout      time.Duration `yaml:"timeout" env:"SURVEY_HTTP_TIMEOUT"`
}

// Enabled reports whether the poller has what it needs to reach the provider
func (s SurveyConfig) Enabled() bool {
	return s.Token != "" && s.SurveyID != ""
}

type WebhookConfig struct {
	URL     string        `yaml:"url" env:"POWER_AUTOMATE_WEBHOOK_URL" validate:"omitempty,url"`
	Timeout time.Duration `yaml:"timeout" env:"WEBHOOK_TIMEOUT"`
}

type EmailConfig struct {
	Enabled      bool   `yaml:"enabled" env:"SMTP_ENABLED"`
	SMTPHost     string `yaml:"smtp_host" env:"SMTP_HOST" validate:"required_if=Enabled true"`
	SMTPPort     int    `yaml:"smtp_port" env:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_user" env:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" env:"SMTP_FROM" validate:"required_if=Enabled true,omitempty,email"`
	FromName     string `yaml:"from_name" env:"SMTP_FROM_NAME"`
}

type RegionConfig struct {
	TimeZone string `yaml:"timezone" env:"REGION_TIMEZONE" validate:"required"`
}

// Location resolves the operating region's IANA zone
func (r RegionConfig) Location() (*time.Location, error) {
	return time.LoadLocation(r.TimeZone)
}

var AppConfig *Config

// Default returns the configuration used when no file or env value overrides it
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:data/studyfunnel.db?_foreign_keys=on&_busy_timeout=5000"
	cfg.Auth.TokenTTL = 12 * time.Hour
	cfg.Auth.Issuer = "studyfunnel"
	cfg.Survey.BaseURL = "https://api.surveymonkey.ca/v3"
	cfg.Survey.PollInterval = time.Hour
	cfg.Survey.PageSize = 1000
	cfg.Survey.Timeout = 10 * time.Second
	cfg.Webhook.Timeout = 10 * time.Second
	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Study Team"
	cfg.Region.TimeZone = "America/New_York"
	return cfg
}

// LoadConfig reads .env, defaults, the YAML file and environment overrides, in that order
func LoadConfig() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	configPath, explicit := os.LookupEnv("CONFIG_PATH")
	if !explicit {
		configPath = defaultConfigPath
	}
	if err := loadFile(cfg, configPath); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

// Validate checks field rules and the region zone
func (c *Config) Validate() error {
	if err := validator.New().Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.Region.Location(); err != nil {
		return fmt.Errorf("invalid configuration: region timezone %q: %w", c.Region.TimeZone, err)
	}
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		cfg, err := LoadConfig()
		if err != nil {
			panic(err)
		}
		return cfg
	}
	return AppConfig
}
