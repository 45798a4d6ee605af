// Package config loads application configuration from global and workspace files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/copytree/copytree/internal/utils"
)

const (
	// ConfigFileName is the workspace-local configuration file name.
	ConfigFileName = ".copytree.yaml"
	// GlobalConfigDirectoryName is the directory under the user config root
	// holding the global configuration file.
	GlobalConfigDirectoryName = "copytree"
	// GlobalConfigFileName is the global configuration file name.
	GlobalConfigFileName = "config.yaml"

	// DefaultMaxFilesThreshold is the selection size above which the picker
	// requires an explicit confirmation before exporting.
	DefaultMaxFilesThreshold = 50
)

// ApplicationConfiguration holds export defaults merged from global and local files.
type ApplicationConfiguration struct {
	Exclude   []string           `mapstructure:"exclude"`
	MaxFiles  *int               `mapstructure:"max_files"`
	Clipboard *bool              `mapstructure:"clipboard"`
	Tokens    TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkspaceRoot    string
	ExplicitFilePath string
}

// LoadApplicationConfiguration merges the global configuration file with the
// workspace-local one; local values win. Missing files are not errors.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	var merged ApplicationConfiguration

	if configDirectory, configDirectoryError := os.UserConfigDir(); configDirectoryError == nil && configDirectory != "" {
		globalPath := filepath.Join(configDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfig, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" && options.WorkspaceRoot != "" {
		localPath = filepath.Join(options.WorkspaceRoot, ConfigFileName)
	}
	if localPath != "" {
		localConfig, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfig)
	}

	merged.Exclude = utils.DeduplicatePatterns(merged.Exclude)
	return merged, nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	info, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.MaxFiles != nil {
		result.MaxFiles = cloneInt(override.MaxFiles)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (configuration TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

// MaxFilesThreshold returns the configured confirmation threshold or the default.
func (configuration ApplicationConfiguration) MaxFilesThreshold() int {
	if configuration.MaxFiles != nil && *configuration.MaxFiles > 0 {
		return *configuration.MaxFiles
	}
	return DefaultMaxFilesThreshold
}

// ClipboardEnabled reports whether clipboard writes are enabled; the default is true.
func (configuration ApplicationConfiguration) ClipboardEnabled() bool {
	if configuration.Clipboard != nil {
		return *configuration.Clipboard
	}
	return true
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
