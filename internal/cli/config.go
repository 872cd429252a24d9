package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "NGI"

	cfgKeyDataDir       = "data_dir"
	cfgKeyLogLevel      = "log_level"
	cfgKeyMaxSections   = "limits.max_sections"
	cfgKeyMaxProperties = "limits.max_properties"
	cfgKeyMaxNameLength = "limits.max_name_length"
	cfgKeyMaxLineLength = "limits.max_line_length"

	defaultLogLevel = "warn"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# ngi configuration
# Every key can be overridden by an NGI_ environment variable,
# e.g. NGI_LOG_LEVEL=debug or NGI_LIMITS_MAX_SECTIONS=100.

# debug, info, warn or error
log_level: warn

# Directory holding the search index (optional; overridable by --data-dir)
# data_dir:

# Parse limits. 0 disables a limit.
limits:
  max_sections: 8192
  max_properties: 8192
  max_name_length: 4096
  max_line_length: 8192
`

// loadConfig reads config.yaml from configDir with Viper, creating the
// directory and a default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	def := types.DefaultLimits()
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyMaxSections, def.MaxSections)
	v.SetDefault(cfgKeyMaxProperties, def.MaxProperties)
	v.SetDefault(cfgKeyMaxNameLength, def.MaxNameLength)
	v.SetDefault(cfgKeyMaxLineLength, def.MaxLineLength)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// limitsFrom reads the parse limits from v.
func limitsFrom(v *viper.Viper) types.Limits {
	return types.Limits{
		MaxSections:   v.GetInt(cfgKeyMaxSections),
		MaxProperties: v.GetInt(cfgKeyMaxProperties),
		MaxNameLength: v.GetInt(cfgKeyMaxNameLength),
		MaxLineLength: v.GetInt(cfgKeyMaxLineLength),
	}
}
