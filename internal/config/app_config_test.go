package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bes-dev/repo2prompt/internal/config"
)

// TestLoadApplicationConfigurationLocalFile verifies the local configuration
// file supplies flag defaults.
func TestLoadApplicationConfigurationLocalFile(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	configurationText := "interfaces_only: true\noutput: prompt.txt\ntokens:\n  enabled: true\n  model: gpt-4o\npaths:\n  exclude:\n    - vendor\n  use_dixieignore: false\n"
	configurationPath := filepath.Join(workingDirectory, config.ConfigFileName)
	if writeError := os.WriteFile(configurationPath, []byte(configurationText), 0o644); writeError != nil {
		testingHandle.Fatalf("write configuration: %v", writeError)
	}

	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	if loadedConfiguration.InterfacesOnly == nil || !*loadedConfiguration.InterfacesOnly {
		testingHandle.Fatalf("expected interfaces_only default to be set")
	}
	if loadedConfiguration.Output != "prompt.txt" {
		testingHandle.Fatalf("expected output default, got %q", loadedConfiguration.Output)
	}
	if loadedConfiguration.Tokens.Enabled == nil || !*loadedConfiguration.Tokens.Enabled {
		testingHandle.Fatalf("expected tokens.enabled default to be set")
	}
	if loadedConfiguration.Tokens.Model != "gpt-4o" {
		testingHandle.Fatalf("expected tokens.model default, got %q", loadedConfiguration.Tokens.Model)
	}
	if len(loadedConfiguration.Paths.Exclude) != 1 || loadedConfiguration.Paths.Exclude[0] != "vendor" {
		testingHandle.Fatalf("expected exclude defaults, got %v", loadedConfiguration.Paths.Exclude)
	}
	if loadedConfiguration.Paths.UseDixieignore == nil || *loadedConfiguration.Paths.UseDixieignore {
		testingHandle.Fatalf("expected use_dixieignore default to be false")
	}
}

// TestLoadApplicationConfigurationMissingFile verifies a missing file yields a
// zero configuration without error.
func TestLoadApplicationConfigurationMissingFile(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{WorkingDirectory: workingDirectory})
	if loadError != nil {
		testingHandle.Fatalf("LoadApplicationConfiguration error: %v", loadError)
	}
	if loadedConfiguration.InterfacesOnly != nil || loadedConfiguration.Output != "" {
		testingHandle.Fatalf("expected zero configuration, got %+v", loadedConfiguration)
	}
}

// TestMerge verifies field-wise override semantics.
func TestMerge(testingHandle *testing.T) {
	baseTrue := true
	baseFalse := false
	baseConfiguration := config.ApplicationConfiguration{
		InterfacesOnly: &baseFalse,
		Output:         "base.txt",
	}
	overlayConfiguration := config.ApplicationConfiguration{
		InterfacesOnly: &baseTrue,
	}

	mergedConfiguration := baseConfiguration.Merge(overlayConfiguration)
	if mergedConfiguration.InterfacesOnly == nil || !*mergedConfiguration.InterfacesOnly {
		testingHandle.Fatalf("expected overlay to override interfaces_only")
	}
	if mergedConfiguration.Output != "base.txt" {
		testingHandle.Fatalf("expected unset overlay field to keep base value")
	}
}
