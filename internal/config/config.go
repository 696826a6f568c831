package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Trivia struct {
		BaseURL string `yaml:"baseUrl"`
		Amount  int    `yaml:"amount"`
		Timeout string `yaml:"timeout"`
	} `yaml:"trivia"`
	Identity struct {
		TTLDays int `yaml:"ttlDays"`
	} `yaml:"identity"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// QuestionAmount returns the configured batch size or the fallback.
func (c Config) QuestionAmount(fallback int) int {
	if c.Trivia.Amount > 0 {
		return c.Trivia.Amount
	}
	return fallback
}

// IdentityTTL returns the identity expiry or the fallback.
func (c Config) IdentityTTL(fallback time.Duration) time.Duration {
	if c.Identity.TTLDays > 0 {
		return time.Duration(c.Identity.TTLDays) * 24 * time.Hour
	}
	return fallback
}
