package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Backend     Backend
	Session     SessionConfig
	HTTP        HTTPConfig
	Environment string
}

// Backend describes how to reach the loan-management API. Deployments differ
// in reverse-proxy path rewriting, so the primary URL is assembled from parts
// while FallbackBase is taken verbatim and concatenated.
type Backend struct {
	Scheme       string
	Host         string
	Port         string
	PathPrefix   string
	FallbackBase string
}

type SessionConfig struct {
	StatePath string
}

type HTTPConfig struct {
	Timeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("API_SCHEME", "https")
	viper.SetDefault("API_PORT", "")
	viper.SetDefault("API_PATH_PREFIX", "/api")
	viper.SetDefault("HTTP_TIMEOUT_SECONDS", 15)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			if _, statErr := os.Stat(".env"); !os.IsNotExist(statErr) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Backend: Backend{
			Scheme:       viper.GetString("API_SCHEME"),
			Host:         viper.GetString("API_HOST"),
			Port:         viper.GetString("API_PORT"),
			PathPrefix:   viper.GetString("API_PATH_PREFIX"),
			FallbackBase: viper.GetString("API_FALLBACK_BASE"),
		},
		Session: SessionConfig{
			StatePath: viper.GetString("SESSION_DB_PATH"),
		},
		HTTP: HTTPConfig{
			Timeout: time.Duration(viper.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,
		},
		Environment: viper.GetString("ENVIRONMENT"),
	}

	if config.Session.StatePath == "" {
		config.Session.StatePath = defaultStatePath()
	}

	return config, nil
}

// PrimaryBaseURL builds the canonical API base from its configured parts.
func (b *Backend) PrimaryBaseURL() string {
	host := b.Host
	if b.Port != "" {
		host = host + ":" + b.Port
	}
	u := url.URL{
		Scheme: b.Scheme,
		Host:   host,
		Path:   b.PathPrefix,
	}
	return strings.TrimRight(u.String(), "/")
}

// FallbackBaseURL is the verbatim alternate base, covering deployments whose
// proxy strips or rewrites the path prefix. Empty when no fallback is
// configured, in which case callers reuse the primary.
func (b *Backend) FallbackBaseURL() string {
	if b.FallbackBase == "" {
		return b.PrimaryBaseURL()
	}
	return strings.TrimRight(b.FallbackBase, "/")
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "emilock-admin.db"
	}
	return filepath.Join(home, ".emilock-admin", "state.db")
}
