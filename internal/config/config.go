// Package config loads Parley settings from ~/.parley/config.json, the
// environment, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	apperrors "github.com/zhubert/parley/internal/errors"
)

// Setting keys, shared by the config file, PARLEY_* env vars, and flags.
const (
	KeyHistoryDir           = "history_dir"
	KeyModel                = "model"
	KeyBaseURL              = "base_url"
	KeyAPIKey               = "api_key"
	KeySystemPrompt         = "system_prompt"
	KeyRequestTimeout       = "request_timeout"
	KeyTheme                = "theme"
	KeyNotificationsEnabled = "notifications_enabled"
	KeyLogFile              = "log_file"
)

const (
	DefaultHistoryDir     = "chat_history"
	DefaultModel          = "gpt-4o-mini"
	DefaultRequestTimeout = 120 * time.Second
	DefaultTheme          = "dark-purple"
	DefaultSystemPrompt   = "Make sure to respond in valid Markdown format. " +
		"If you include code, format it within triple backticks and specify the language."
)

// flagKeys maps command-line flag names to setting keys.
var flagKeys = map[string]string{
	"history-dir": KeyHistoryDir,
	"model":       KeyModel,
	"base-url":    KeyBaseURL,
	"log-file":    KeyLogFile,
}

// Config holds the application configuration
type Config struct {
	HistoryDir           string        `mapstructure:"history_dir"`
	Model                string        `mapstructure:"model"`
	BaseURL              string        `mapstructure:"base_url"`
	APIKey               string        `mapstructure:"api_key"`
	SystemPrompt         string        `mapstructure:"system_prompt"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	Theme                string        `mapstructure:"theme"`
	NotificationsEnabled bool          `mapstructure:"notifications_enabled"`
	LogFile              string        `mapstructure:"log_file"`

	mu           sync.RWMutex
	filePath     string
	apiKeyInFile bool
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".parley"), nil
}

// DefaultPath returns the path to the default config file
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(KeyHistoryDir, DefaultHistoryDir)
	v.SetDefault(KeyModel, DefaultModel)
	v.SetDefault(KeyBaseURL, "")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeySystemPrompt, DefaultSystemPrompt)
	v.SetDefault(KeyRequestTimeout, DefaultRequestTimeout)
	v.SetDefault(KeyTheme, DefaultTheme)
	v.SetDefault(KeyNotificationsEnabled, false)
	v.SetDefault(KeyLogFile, "")
	return v
}

// Load reads the config file at path (the default path when empty), then
// layers PARLEY_* environment variables and any changed flags on top.
// A missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, apperrors.ConfigLoadFailed("~/.parley/config.json", err)
		}
		path = p
	}

	v := newViper()
	v.SetConfigFile(path)
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.ConfigLoadFailed(path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, apperrors.ConfigLoadFailed(path, err)
	}

	v.SetEnvPrefix("parley")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// The OpenAI variable names are honored too, after the PARLEY_ ones.
	_ = v.BindEnv(KeyAPIKey, "PARLEY_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv(KeyBaseURL, "PARLEY_BASE_URL", "OPENAI_BASE_URL")

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, apperrors.ConfigLoadFailed(path, err)
				}
			}
		}
	}

	cfg := &Config{filePath: path, apiKeyInFile: v.InConfig(KeyAPIKey)}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.ConfigLoadFailed(path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config holding only built-in defaults. It is not bound
// to a file until SetFilePath is called.
func Default() *Config {
	return &Config{
		HistoryDir:     DefaultHistoryDir,
		Model:          DefaultModel,
		SystemPrompt:   DefaultSystemPrompt,
		RequestTimeout: DefaultRequestTimeout,
		Theme:          DefaultTheme,
	}
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if strings.TrimSpace(c.HistoryDir) == "" {
		return apperrors.ConfigInvalid("history_dir must not be empty")
	}
	if strings.TrimSpace(c.Model) == "" {
		return apperrors.ConfigInvalid("model must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return apperrors.ConfigInvalid("request_timeout must be positive")
	}
	return nil
}

// Save writes the persisted settings back to the config file. The API key
// is only written when it was read from the file, so keys supplied through
// the environment never land on disk.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.filePath == "" {
		return apperrors.ConfigSaveFailed("(unset)", os.ErrInvalid)
	}
	if err := os.MkdirAll(filepath.Dir(c.filePath), 0755); err != nil {
		return apperrors.ConfigSaveFailed(c.filePath, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.Set(KeyHistoryDir, c.HistoryDir)
	v.Set(KeyModel, c.Model)
	if c.BaseURL != "" {
		v.Set(KeyBaseURL, c.BaseURL)
	}
	if c.apiKeyInFile {
		v.Set(KeyAPIKey, c.APIKey)
	}
	v.Set(KeySystemPrompt, c.SystemPrompt)
	v.Set(KeyRequestTimeout, c.RequestTimeout.String())
	v.Set(KeyTheme, c.Theme)
	v.Set(KeyNotificationsEnabled, c.NotificationsEnabled)
	if c.LogFile != "" {
		v.Set(KeyLogFile, c.LogFile)
	}
	if err := v.WriteConfigAs(c.filePath); err != nil {
		return apperrors.ConfigSaveFailed(c.filePath, err)
	}
	return nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filePath
}

// SetFilePath binds the config to a file for Save.
func (c *Config) SetFilePath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filePath = path
}

func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.NotificationsEnabled
}

func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.NotificationsEnabled = enabled
}
