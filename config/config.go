package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the wizard service
type Config struct {
	General    GeneralConfig    `mapstructure:"general"`
	Server     ServerConfig     `mapstructure:"server"`
	Wizard     WizardConfig     `mapstructure:"wizard"`
	Prediction PredictionConfig `mapstructure:"prediction"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Storage    StorageConfig    `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and session-token settings
type ServerConfig struct {
	Address    string        `mapstructure:"address"`
	JWTSecret  string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

func (s ServerConfig) Validate() error {
	if strings.TrimSpace(s.JWTSecret) == "" {
		return fmt.Errorf("server.jwt_secret is required")
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be greater than zero")
	}
	return nil
}

// WizardConfig tunes the recommendation engine.
type WizardConfig struct {
	// ConfidenceThreshold is the minimum normalized score for a remote
	// agency candidate. Applies to links too unless link_threshold is set.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	LinkThreshold       float64 `mapstructure:"link_threshold"`
	// ScoreScale maps raw remote scores onto the 0..1 scale the
	// thresholds are expressed in.
	ScoreScale  float64 `mapstructure:"score_scale"`
	Language    string  `mapstructure:"language"`
	RefreshCron string  `mapstructure:"refresh_cron"`
}

// Normalize applies defaults for unset wizard values.
func (w WizardConfig) Normalize() WizardConfig {
	if w.LinkThreshold < 0 {
		w.LinkThreshold = w.ConfidenceThreshold
	}
	if w.ScoreScale <= 0 {
		w.ScoreScale = 1
	}
	if strings.TrimSpace(w.Language) == "" {
		w.Language = "en"
	}
	return w
}

func (w WizardConfig) Validate() error {
	if w.ConfidenceThreshold < 0 || w.ConfidenceThreshold > 1 {
		return fmt.Errorf("wizard.confidence_threshold must be within [0,1]")
	}
	return nil
}

// PredictionConfig points at the remote intent-model API.
type PredictionConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
	Backoff    time.Duration `mapstructure:"backoff"`
}

func (p PredictionConfig) Validate() error {
	if strings.TrimSpace(p.BaseURL) == "" {
		return fmt.Errorf("prediction.base_url is required")
	}
	return nil
}

// CatalogConfig locates the flat agency list.
type CatalogConfig struct {
	// Source is a local path or an http(s) URL serving the flat list JSON.
	Source string `mapstructure:"source"`
}

// StorageConfig selects the session store backend.
type StorageConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis session store. Leaving Addr empty
// keeps sessions in process memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoadConfig reads configuration from file and environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.address", ":10020")
	v.SetDefault("server.session_ttl", time.Hour)
	v.SetDefault("wizard.confidence_threshold", 0.5)
	v.SetDefault("wizard.link_threshold", -1.0)
	v.SetDefault("wizard.score_scale", 1.0)
	v.SetDefault("wizard.language", "en")
	v.SetDefault("prediction.timeout", 15*time.Second)
	v.SetDefault("prediction.max_retries", 2)
	v.SetDefault("prediction.backoff", 300*time.Millisecond)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("RECORDWIZARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file is fine; defaults plus env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Wizard = cfg.Wizard.Normalize()
	if err := cfg.Wizard.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
