// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting the gateway's
// configuration document: process settings plus the tool definitions the
// registry serves.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/toolgate/internal/registry"
)

const (
	// DefaultConfigPath is the default path to the gateway's configuration file.
	DefaultConfigPath = "config/config.json"
	// legacyConfigPath is the path used by earlier deployments.
	legacyConfigPath = "config.json"
	// defaultInvokeTimeout is the fallback deadline for backend invocations.
	defaultInvokeTimeout = 30 * time.Second
	// defaultRetryCount is how many attempts unreachable backends get when
	// the config omits the value.
	defaultRetryCount = 1
	// defaultListenAddr is where the HTTP transport binds by default.
	defaultListenAddr = ":8089"
)

// Config represents the top-level gateway configuration.
type Config struct {
	Tools          []registry.Definition `json:"tools"`
	Listen         string                `json:"listen,omitempty"`
	AuthToken      string                `json:"authToken,omitempty"`
	TimeoutMs      int                   `json:"timeoutMs,omitempty"`
	RetryCount     int                   `json:"retryCount,omitempty"`
	SkipValidation bool                  `json:"skipValidation,omitempty"`
	LogFile        string                `json:"logFile,omitempty"`
	Debug          bool                  `json:"debug,omitempty"`
	ConfigPath     string                `json:"-"`
}

// InvokeTimeout returns the default backend deadline, falling back when the
// config does not set one.
func (c Config) InvokeTimeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return defaultInvokeTimeout
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// RetryAttempts returns the configured number of attempts for unreachable
// backends.
func (c Config) RetryAttempts() int {
	if c.RetryCount < 0 {
		return 0
	}
	if c.RetryCount == 0 {
		return defaultRetryCount
	}
	return c.RetryCount
}

// ListenAddr returns the HTTP listen address, applying the default if unset.
func (c Config) ListenAddr() string {
	if addr := strings.TrimSpace(c.Listen); addr != "" {
		return addr
	}
	return defaultListenAddr
}

// LogFilePath returns the path to the gateway log file, applying a default
// if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "toolgate.log"
}

// RegistryDocument re-encodes the tools section as the blob shape the
// registry loads, so reloads go through the same validation path.
func (c Config) RegistryDocument() ([]byte, error) {
	return json.Marshal(registry.Document{Tools: c.Tools})
}

// Load reads and parses the configuration file at path, applying the default
// and legacy locations when path is empty. A document without tools is
// rejected: a gateway with nothing to dispatch is a configuration mistake.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if len(config.Tools) == 0 {
			return Config{}, errors.New("config must contain at least one tool")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		if path == DefaultConfigPath {
			config, legacyErr := loadFromPath(legacyConfigPath)
			if legacyErr == nil {
				if len(config.Tools) == 0 {
					return Config{}, errors.New("config must contain at least one tool")
				}
				config.ConfigPath = legacyConfigPath
				return config, nil
			}
			if errors.Is(legacyErr, os.ErrNotExist) {
				return Config{}, fmt.Errorf("no configuration file found (searched %q and %q)", DefaultConfigPath, legacyConfigPath)
			}
			return Config{}, fmt.Errorf("could not read config file %q: %w", legacyConfigPath, legacyErr)
		}
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
