package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/slig-dev/slig/internal/constants"
	"github.com/slig-dev/slig/internal/errors"
)

// Config holds all slig application settings
type Config struct {
	// Remote repository address, required for every protocol command
	RemoteURL string

	// Extra arguments passed to every git invocation (e.g. -c options)
	GitOptions []string

	// Debugging
	Debug   bool
	LogFile string

	// User experience
	Verbose bool

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Verbose: false,
		Debug:   false,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates config from environment variables
func (c *Config) LoadFromEnvironment() {
	c.RemoteURL = getEnvString(constants.EnvRemote, c.RemoteURL)
	c.GitOptions = getEnvFields(constants.EnvGitOptions, c.GitOptions)
	c.Debug = getEnvBool(constants.EnvDebug, c.Debug)
	c.LogFile = getEnvString(constants.EnvLogFile, c.LogFile)
}

// Finalize validates and finalizes the configuration. It must succeed before
// any repository contact is attempted.
func (c *Config) Finalize() error {
	if c.RemoteURL == "" {
		return errors.NewConfigError(constants.EnvRemote, nil,
			errors.Wrap(errors.ErrInvalidConfiguration, "remote repository is not specified"))
	}

	if c.Debug && c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				// Fallback to the temp directory if home dir can't be determined
				logDir = os.TempDir()
			}
		}

		// Unique identifier for the remote, so parallel remotes keep separate logs
		remoteHash := fmt.Sprintf("%x", sha256.Sum256([]byte(c.RemoteURL)))[:16]
		c.LogFile = filepath.Join(logDir, "slig", "logs", fmt.Sprintf("slig-%s.log", remoteHash))
	}

	return nil
}

// getEnvString returns an environment variable string or a default value
func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvFields returns an environment variable split on whitespace or a
// default value
func getEnvFields(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Fields(value)
	}
	return defaultValue
}

// getEnvBool returns an environment variable as bool or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		valueLower := strings.ToLower(valueStr)
		if valueLower == "true" || valueLower == "1" || valueLower == "yes" {
			return true
		}
		if valueLower == "false" || valueLower == "0" || valueLower == "no" {
			return false
		}
		// For any other value, fall back to default
	}
	return defaultValue
}
