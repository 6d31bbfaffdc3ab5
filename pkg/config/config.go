// Package config loads terrarium settings from a YAML file. Environment
// variables referenced as ${VAR} or $VAR are expanded before parsing, so
// broker credentials can live in a .env file instead of the config.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "terrarium.yaml"

// Config is the top-level configuration.
type Config struct {
	API           APIConfig           `yaml:"api"`
	Polling       PollingConfig       `yaml:"polling"`
	Notifications NotificationsConfig `yaml:"notifications"`
	History       HistoryConfig       `yaml:"history"`
	Logs          LogsConfig          `yaml:"logs"`
	Log           LogConfig           `yaml:"log"`
	Mirror        MirrorConfig        `yaml:"mirror"`
}

// APIConfig points at the controller.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// PollingConfig holds the synchronizer intervals.
type PollingConfig struct {
	Interval       time.Duration `yaml:"interval"`
	StatusInterval time.Duration `yaml:"status_interval"`
}

// NotificationsConfig controls toast lifetime.
type NotificationsConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// HistoryConfig bounds history queries.
type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

// LogsConfig pages the relay audit log.
type LogsConfig struct {
	PageSize int `yaml:"page_size"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// MirrorConfig configures `terrarium serve`.
type MirrorConfig struct {
	Listen string     `yaml:"listen"`
	MQTT   MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig enables the MQTT sink when Broker is set.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	ClientID    string `yaml:"client_id"`
	TopicPrefix string `yaml:"topic_prefix"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"` //nolint:gosec // configuration field, not a hardcoded secret
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Polling: PollingConfig{
			Interval:       5 * time.Second,
			StatusInterval: 15 * time.Second,
		},
		Notifications: NotificationsConfig{TTL: 4000 * time.Millisecond},
		History:       HistoryConfig{Limit: 500},
		Logs:          LogsConfig{PageSize: 50},
		Log:           LogConfig{Level: "info", File: "terrarium.log"},
		Mirror: MirrorConfig{
			Listen: ":8090",
			MQTT: MQTTConfig{
				ClientID:    "terrarium-mirror",
				TopicPrefix: "terrarium",
			},
		},
	}
}

// Load reads path over the defaults. An empty path yields Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url %q is not an absolute URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: api.base_url: unsupported scheme %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return errors.New("config: api.timeout must be positive")
	}
	if c.Polling.Interval <= 0 {
		return errors.New("config: polling.interval must be positive")
	}
	if c.Polling.StatusInterval <= 0 {
		return errors.New("config: polling.status_interval must be positive")
	}
	if c.Notifications.TTL <= 0 {
		return errors.New("config: notifications.ttl must be positive")
	}
	if c.History.Limit <= 0 {
		return errors.New("config: history.limit must be positive")
	}
	if c.Logs.PageSize <= 0 {
		return errors.New("config: logs.page_size must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q: want debug, info, warn or error", c.Log.Level)
	}

	if c.Mirror.MQTT.Broker != "" && c.Mirror.MQTT.TopicPrefix == "" {
		return errors.New("config: mirror.mqtt.topic_prefix is required when a broker is set")
	}

	return nil
}

// ResolvePath returns explicit when set, otherwise DefaultFile in dir if it
// exists, otherwise "".
func ResolvePath(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}

	candidate := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return ""
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: load env: %w", err)
	}
	return nil
}
