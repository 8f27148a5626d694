package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

//go:embed data/default_config.toml
var defaultConfigTOML string

// EnvPrefix is prepended to environment overrides, e.g. MODSETUP_PLAYER_COMPANY_NAME
const EnvPrefix = "MODSETUP"

// Manager handles configuration loading and management
type Manager struct {
	v      *viper.Viper
	cfg    *Config
	logger *slog.Logger
}

// NewManager creates a new configuration manager with default settings
func NewManager() *Manager {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{
		v:   v,
		cfg: &Config{}, // defaults loaded from embedded TOML in Load()
	}
}

// WithLogger sets the logger for the configuration manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// Load loads configuration from the specified TOML file, merging with defaults
func (m *Manager) Load(configPath string) error {
	if m.logger != nil {
		m.logger.Debug("Attempting to load config file", "path", configPath)
	}

	m.v.SetConfigType("toml")

	// load defaults from embedded TOML
	if err := m.v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		return fmt.Errorf("failed to load embedded defaults: %w", err)
	}

	m.v.SetConfigFile(configPath)

	// merge user config file over defaults
	err := m.v.MergeInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		var pathError *os.PathError
		if !errors.As(err, &configFileNotFoundError) && !errors.As(err, &pathError) {
			return err
		}
		if pathError != nil && !os.IsNotExist(pathError) {
			return err
		}

		if m.logger != nil {
			m.logger.Debug("Config file not found")
		}

		if err := m.createDefaultConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create default config file: %w", err)
		}

		// keep the path so Save knows where to write
		m.v.SetConfigFile(configPath)
	} else if m.logger != nil {
		m.logger.Info("Configuration loaded successfully", "path", m.v.ConfigFileUsed())
	}

	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return err
	}

	m.postProcessConfig()

	return nil
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.cfg
}

// Viper returns the underlying Viper instance for flag binding
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// Save writes the current configuration state back to the config file
func (m *Manager) Save() error {
	configFile := m.v.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("no config file path set")
	}

	configDir := filepath.Dir(configFile)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := m.v.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	} else {
		if err := m.v.WriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
	}

	// reload the configuration struct to reflect the changes
	if err := m.v.Unmarshal(&m.cfg); err != nil {
		return fmt.Errorf("failed to reload configuration after save: %w", err)
	}
	m.postProcessConfig()

	return nil
}

// NewDefaultFromEmbedded creates a Config struct populated from embedded TOML
// note we're primarily using this for testing
func NewDefaultFromEmbedded() *Config {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		panic(fmt.Sprintf("failed to load embedded defaults in test helper: %v", err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal embedded config in test helper: %v", err))
	}

	return cfg
}

// postProcessConfig fills values a user file may have blanked out
func (m *Manager) postProcessConfig() {
	if strings.TrimSpace(m.cfg.About.Folder) == "" {
		m.cfg.About.Folder = "About"
	}
	if strings.TrimSpace(m.cfg.Script.Folder) == "" {
		m.cfg.Script.Folder = "Scripts"
	}
	if strings.TrimSpace(m.cfg.Player.ProductVersion) == "" {
		m.cfg.Player.ProductVersion = "1.0.0"
	}
	if strings.TrimSpace(m.cfg.Player.CompanyName) == "" {
		m.cfg.Player.CompanyName = "Default Company"
	}

	// image sources are relative to the config file, like the file itself
	baseDir := ""
	if file := m.v.ConfigFileUsed(); file != "" {
		baseDir = filepath.Dir(file)
	}
	for _, source := range []*string{&m.cfg.About.Preview, &m.cfg.About.Thumb} {
		resolved, err := ResolvePath(*source, baseDir)
		if err != nil {
			if m.logger != nil {
				m.logger.Warn("Failed to resolve image path", "path", *source, "error", err)
			}
			continue
		}
		*source = resolved
	}
}

// ExpandHomePath expands ~ to the user's home directory
func ExpandHomePath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return home, nil
	}

	return filepath.Join(home, path[1:]), nil
}

// ResolvePath expands ~ and anchors a relative path at baseDir.
// Empty paths stay empty, and an empty baseDir leaves relative paths as they are.
func ResolvePath(path, baseDir string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}

	expanded, err := ExpandHomePath(path)
	if err != nil {
		return "", err
	}

	if filepath.IsAbs(expanded) || baseDir == "" {
		return expanded, nil
	}
	return filepath.Join(baseDir, expanded), nil
}

// createDefaultConfigFile creates the default config.toml file if it doesn't exist
func (m *Manager) createDefaultConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil // nothing to do here!
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigTOML), 0600); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}

	if m.logger != nil {
		m.logger.Info("Created default config file", "path", configPath)
	}

	return nil
}
