// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
	// PublicBaseURL is the externally reachable origin used in tracking pixel URLs.
	PublicBaseURL string `yaml:"public_base_url"`
}

type DBConfig struct {
	URL string `yaml:"url"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AIConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type ScraperConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
}

type MQConfig struct {
	URL string `yaml:"url"`
}

type FollowUpConfig struct {
	Schedule string `yaml:"schedule"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
}

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Mail     MailConfig     `yaml:"mail"`
	AI       AIConfig       `yaml:"ai"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Redis    RedisConfig    `yaml:"redis"`
	MQ       MQConfig       `yaml:"mq"`
	FollowUp FollowUpConfig `yaml:"follow_up"`
	Log      LogConfig      `yaml:"log"`
}

// Default returns the configuration used when neither file nor env sets a value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "5000"},
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		AI: AIConfig{
			BaseURL:   "https://api.groq.com/openai/v1",
			Model:     "mixtral-8x7b-32768",
			MaxTokens: 500,
		},
		Scraper: ScraperConfig{
			URL:            "http://127.0.0.1:5001",
			TimeoutSeconds: 30,
		},
		Redis:    RedisConfig{CacheTTLMinutes: 60},
		FollowUp: FollowUpConfig{Schedule: "0 0 * * *"},
		Log:      LogConfig{Env: "dev", Level: "info"},
	}
}

// Load is Read followed by Validate, for the API server which needs every
// external dependency.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read loads an optional YAML file and applies environment overrides without
// checking required keys.
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
	}

	overrideFromEnv(cfg)

	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.User
	}
	if cfg.Server.PublicBaseURL == "" {
		cfg.Server.PublicBaseURL = "http://localhost:" + cfg.Server.Port
	}
	cfg.Server.PublicBaseURL = strings.TrimRight(cfg.Server.PublicBaseURL, "/")
	return cfg, nil
}

// Validate reports every missing required key at once.
func (c *Config) Validate() error {
	var missing []string
	if c.DB.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.Mail.User == "" {
		missing = append(missing, "EMAIL_USER")
	}
	if c.Mail.Password == "" {
		missing = append(missing, "EMAIL_PASS")
	}
	if c.AI.APIKey == "" {
		missing = append(missing, "AI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	setString(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.PublicBaseURL, "PUBLIC_BASE_URL")

	setString(&cfg.DB.URL, "DATABASE_URL")

	setString(&cfg.Mail.Host, "EMAIL_HOST")
	setInt(&cfg.Mail.Port, "EMAIL_PORT")
	setString(&cfg.Mail.User, "EMAIL_USER")
	setString(&cfg.Mail.Password, "EMAIL_PASS")
	setString(&cfg.Mail.From, "EMAIL_FROM")

	setString(&cfg.AI.APIKey, "AI_API_KEY")
	// GROQ_API_KEY is accepted for deployments that predate AI_API_KEY.
	if cfg.AI.APIKey == "" {
		setString(&cfg.AI.APIKey, "GROQ_API_KEY")
	}
	setString(&cfg.AI.BaseURL, "AI_BASE_URL")
	setString(&cfg.AI.Model, "AI_MODEL")
	setInt(&cfg.AI.MaxTokens, "AI_MAX_TOKENS")

	setString(&cfg.Scraper.URL, "SCRAPER_URL")
	setInt(&cfg.Scraper.TimeoutSeconds, "SCRAPER_TIMEOUT_SECONDS")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")
	setInt(&cfg.Redis.CacheTTLMinutes, "REDIS_CACHE_TTL_MINUTES")

	setString(&cfg.MQ.URL, "MQ_URL")

	setString(&cfg.FollowUp.Schedule, "FOLLOW_UP_SCHEDULE")

	setString(&cfg.Log.Env, "LOG_ENV")
	setString(&cfg.Log.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
