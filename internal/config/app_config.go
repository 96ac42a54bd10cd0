// Package config loads optional application configuration supplying flag defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ConfigFileName is the recognized configuration file name, looked up in the
// user's home directory and in the working directory. The local file overrides
// the global one field by field; flags override both.
const ConfigFileName = ".repo2prompt.yaml"

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
}

// ApplicationConfiguration holds flag defaults read from configuration files.
type ApplicationConfiguration struct {
	InterfacesOnly *bool              `mapstructure:"interfaces_only"`
	Output         string             `mapstructure:"output"`
	Copy           *bool              `mapstructure:"copy"`
	Tokens         TokenConfiguration `mapstructure:"tokens"`
	Paths          PathConfiguration  `mapstructure:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures ignore handling defaults.
type PathConfiguration struct {
	Exclude        []string `mapstructure:"exclude"`
	UseGitignore   *bool    `mapstructure:"use_gitignore"`
	UseDixieignore *bool    `mapstructure:"use_dixieignore"`
}

// LoadApplicationConfiguration merges the global and local configuration files.
// Missing files contribute nothing; a malformed file is an error so a typo is
// never silently dropped.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var mergedConfiguration ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != "" {
		globalConfiguration, loadError := loadConfigurationFromPath(filepath.Join(homeDirectory, ConfigFileName))
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		mergedConfiguration = mergedConfiguration.Merge(globalConfiguration)
	}

	localConfiguration, loadError := loadConfigurationFromPath(filepath.Join(workingDirectory, ConfigFileName))
	if loadError != nil {
		return ApplicationConfiguration{}, loadError
	}
	mergedConfiguration = mergedConfiguration.Merge(localConfiguration)

	return mergedConfiguration, nil
}

// Merge overlays the other configuration onto the receiver. Set fields in other win.
func (configuration ApplicationConfiguration) Merge(other ApplicationConfiguration) ApplicationConfiguration {
	merged := configuration
	if other.InterfacesOnly != nil {
		merged.InterfacesOnly = other.InterfacesOnly
	}
	if other.Output != "" {
		merged.Output = other.Output
	}
	if other.Copy != nil {
		merged.Copy = other.Copy
	}
	if other.Tokens.Enabled != nil {
		merged.Tokens.Enabled = other.Tokens.Enabled
	}
	if other.Tokens.Model != "" {
		merged.Tokens.Model = other.Tokens.Model
	}
	if len(other.Paths.Exclude) > 0 {
		merged.Paths.Exclude = append(merged.Paths.Exclude, other.Paths.Exclude...)
	}
	if other.Paths.UseGitignore != nil {
		merged.Paths.UseGitignore = other.Paths.UseGitignore
	}
	if other.Paths.UseDixieignore != nil {
		merged.Paths.UseDixieignore = other.Paths.UseDixieignore
	}
	return merged
}

// loadConfigurationFromPath reads one configuration file. A missing file yields
// a zero configuration.
func loadConfigurationFromPath(configurationPath string) (ApplicationConfiguration, error) {
	if _, statError := os.Stat(configurationPath); statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", configurationPath, statError)
	}

	viperInstance := viper.New()
	viperInstance.SetConfigFile(configurationPath)
	viperInstance.SetConfigType("yaml")
	if readError := viperInstance.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration %s: %w", configurationPath, readError)
	}

	var loadedConfiguration ApplicationConfiguration
	if unmarshalError := viperInstance.Unmarshal(&loadedConfiguration); unmarshalError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("parse configuration %s: %w", configurationPath, unmarshalError)
	}
	return loadedConfiguration, nil
}
