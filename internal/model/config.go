package model

import "strings"

// ProjectConfig holds the per-project options recognised by the analyzer.
// The zero value excludes nothing.
type ProjectConfig struct {
	ExcludeChecks   []string `yaml:"exclude_checks" toml:"exclude_checks"`
	IgnorePaths     []string `yaml:"ignore_paths" toml:"ignore_paths"`
	APITestPatterns []string `yaml:"api_test_patterns" toml:"api_test_patterns"`
}

// DefaultProjectConfig returns the configuration used when none is found.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{}
}

// ExcludedTypes returns ExcludeChecks as a set of violation types. Names are
// matched case-insensitively.
func (c ProjectConfig) ExcludedTypes() map[ViolationType]struct{} {
	excluded := make(map[ViolationType]struct{}, len(c.ExcludeChecks))
	for _, name := range c.ExcludeChecks {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		excluded[ViolationType(name)] = struct{}{}
	}

	return excluded
}

// Merge returns c with the lists of other appended.
func (c ProjectConfig) Merge(other ProjectConfig) ProjectConfig {
	merged := c
	merged.ExcludeChecks = append(append([]string{}, c.ExcludeChecks...), other.ExcludeChecks...)
	merged.IgnorePaths = append(append([]string{}, c.IgnorePaths...), other.IgnorePaths...)
	merged.APITestPatterns = append(append([]string{}, c.APITestPatterns...), other.APITestPatterns...)

	return merged
}
