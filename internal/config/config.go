package config

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bezmoradi/sinkswitch/internal/storage"
)

const (
	configFileName = "config.json"
	configDirName  = "sinkswitch"
	dataSubDir     = "data"
	statsSubDir    = "stats"

	// DefaultIPCAddr is where the daemon serves the configuration API.
	DefaultIPCAddr = "127.0.0.1:47821"
)

// Environment variables that override the config file.
const (
	EnvSvclPath = "SINKSWITCH_SVCL_PATH"
	EnvStorage  = "SINKSWITCH_STORAGE"
	EnvIPCAddr  = "SINKSWITCH_IPC_ADDR"
	EnvDebug    = "SINKSWITCH_DEBUG"
)

// Config represents the application configuration
type Config struct {
	SvclPath       string  `json:"svcl_path,omitempty"`  // empty = next to the executable, then PATH
	Storage        string  `json:"storage,omitempty"`    // "json" or "sqlite"
	IPCAddr        string  `json:"ipc_addr,omitempty"`   // "off" disables the configuration API
	NotifyOnSwitch bool    `json:"notify_on_switch"`     // desktop notification after each switch
	SwitchCue      bool    `json:"switch_cue"`           // short tone on the new default device
	CueVolume      float64 `json:"cue_volume,omitempty"` // 0.0-1.0
	Debug          bool    `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Storage:        storage.BackendJSON,
		IPCAddr:        DefaultIPCAddr,
		NotifyOnSwitch: true,
		SwitchCue:      false,
		CueVolume:      0.3,
	}
}

// GetConfigDir returns the user's config directory for sinkswitch
func GetConfigDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(usr.HomeDir, ".config", configDirName), nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return FilePath(configDir), nil
}

// FilePath returns the config file inside configDir.
func FilePath(configDir string) string {
	return filepath.Join(configDir, configFileName)
}

// GetDataDir returns the directory holding the saved bindings
func GetDataDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, dataSubDir), nil
}

// GetStatsDir returns the switch history directory
func GetStatsDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, statsSubDir), nil
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	return config, nil
}

// Load builds the effective configuration. Priority: environment
// variables, then a .env file in the working directory, then the config
// file, then defaults.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	config, err := LoadFile(configPath)
	if err != nil {
		return nil, err
	}

	// godotenv.Load never overrides variables that are already set.
	_ = godotenv.Load()
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overlays the SINKSWITCH_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvSvclPath); v != "" {
		c.SvclPath = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage = strings.ToLower(v)
	}
	if v := os.Getenv(EnvIPCAddr); v != "" {
		c.IPCAddr = v
	}
	if v := os.Getenv(EnvDebug); v == "1" || strings.EqualFold(v, "true") {
		c.Debug = true
	}
}

// ApplyDefaults fills in missing fields with default values
func (c *Config) ApplyDefaults() {
	defaults := DefaultConfig()
	if c.Storage == "" {
		c.Storage = defaults.Storage
	}
	if c.IPCAddr == "" {
		c.IPCAddr = defaults.IPCAddr
	}
	if c.CueVolume == 0 {
		c.CueVolume = defaults.CueVolume
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Storage {
	case storage.BackendJSON, storage.BackendSQLite:
	default:
		return fmt.Errorf("invalid storage backend: %s (must be one of: json, sqlite)", c.Storage)
	}

	if c.CueVolume < 0.0 || c.CueVolume > 1.0 {
		return fmt.Errorf("cue volume must be between 0.0 and 1.0 (got %.2f)", c.CueVolume)
	}

	return nil
}

// IPCEnabled reports whether the configuration API should be served.
func (c *Config) IPCEnabled() bool {
	return c.IPCAddr != "" && !strings.EqualFold(c.IPCAddr, "off")
}

// SaveFile writes the configuration to path
func SaveFile(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// Keep the previous version around in case a hand edit goes wrong
	if err := storage.Backup(path); err != nil {
		return err
	}
	return storage.WriteAtomic(path, data)
}

// EnsureFile writes the default configuration to path when no file exists
// there yet, so users have something to edit. It reports whether it wrote.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to check config file: %w", err)
	}

	if err := SaveFile(path, DefaultConfig()); err != nil {
		return false, fmt.Errorf("failed to write default config: %w", err)
	}
	return true, nil
}
