package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/nutrio/internal/grocery"
	"github.com/mesh-intelligence/nutrio/internal/paths"
	"github.com/mesh-intelligence/nutrio/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyDataDir      = "data_dir"
	cfgKeyLogLevel     = "log_level"
	cfgKeyDevelopment  = "development"
	cfgKeyProfile      = "profile"
	cfgKeyGroceryRange = "grocery.range"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# nutrio configuration

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

log_level: info
development: true

# Active profile, set by 'nutrio profile create --use'
# profile:

grocery:
  # today, next3 or week
  range: week
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, types.LogLevelInfo)
	v.SetDefault(cfgKeyDevelopment, true)
	v.SetDefault(cfgKeyGroceryRange, string(grocery.RangeWeek))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// saveConfigValue sets key and rewrites config.yaml.
func (a *app) saveConfigValue(key string, value any) error {
	a.config.Set(key, value)
	path := filepath.Join(a.configDir, paths.ConfigFileName)
	if err := a.config.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
