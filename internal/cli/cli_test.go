package cli

import (
	"testing"

	"github.com/copytree/copytree/internal/config"
)

// TestResolveExportOptionsDefaults verifies the built-in defaults.
func TestResolveExportOptionsDefaults(testingHandle *testing.T) {
	resolved := resolveExportOptions("/workspace", config.ApplicationConfiguration{}, exportOptions{
		tokenModel: defaultTokenizerModelName,
	}, false)

	if resolved.MaxFilesThreshold != config.DefaultMaxFilesThreshold {
		testingHandle.Fatalf("unexpected threshold: %d", resolved.MaxFilesThreshold)
	}
	if !resolved.ClipboardEnabled {
		testingHandle.Fatalf("clipboard must default to enabled")
	}
	foundGitExclusion := false
	for _, pattern := range resolved.ExclusionPatterns {
		if pattern == ".git" {
			foundGitExclusion = true
		}
	}
	if !foundGitExclusion {
		testingHandle.Fatalf("default exclusions must include .git: %v", resolved.ExclusionPatterns)
	}
}

// TestResolveExportOptionsPrecedence verifies that flags override file
// configuration and file configuration overrides defaults.
func TestResolveExportOptionsPrecedence(testingHandle *testing.T) {
	configuredThreshold := 10
	clipboardDisabled := false
	fileConfiguration := config.ApplicationConfiguration{
		Exclude:   []string{"vendor"},
		MaxFiles:  &configuredThreshold,
		Clipboard: &clipboardDisabled,
		Tokens:    config.TokenConfiguration{Model: "gpt-4"},
	}

	resolved := resolveExportOptions("/workspace", fileConfiguration, exportOptions{
		exclusionPatterns: []string{"target"},
		maxFiles:          25,
		tokenModel:        defaultTokenizerModelName,
	}, true)

	if resolved.MaxFilesThreshold != 25 {
		testingHandle.Fatalf("flag threshold must win: %d", resolved.MaxFilesThreshold)
	}
	if resolved.ClipboardEnabled {
		testingHandle.Fatalf("file configuration must disable clipboard")
	}
	if resolved.TokenModel != "gpt-4" {
		testingHandle.Fatalf("file token model must apply when the flag is default: %s", resolved.TokenModel)
	}

	foundVendor := false
	foundTarget := false
	for _, pattern := range resolved.ExclusionPatterns {
		if pattern == "vendor" {
			foundVendor = true
		}
		if pattern == "target" {
			foundTarget = true
		}
	}
	if !foundVendor || !foundTarget {
		testingHandle.Fatalf("configured and flag exclusions must combine: %v", resolved.ExclusionPatterns)
	}
}
