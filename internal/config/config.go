// Package config provides hierarchical configuration for the cpp-actions tools
// using koanf. Configuration is loaded with priority: environment variables
// (CPP_ACTIONS_*) > project config (.cpp-actions.yml) > user config
// (~/.config/cpp-actions/config.yml) > defaults. Project config may also be
// written in JSON.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variable overrides.
// A double underscore separates nesting levels:
// CPP_ACTIONS_CHANGELOG__LIMIT=5 sets changelog.limit.
const EnvPrefix = "CPP_ACTIONS_"

// listKeys are split on commas when set from the environment.
var listKeys = map[string]bool{
	"docs.jobs":    true,
	"docs.actions": true,
}

// Configuration represents the cpp-actions tool configuration
type Configuration struct {
	Debug     bool            `koanf:"debug" yaml:"debug"`
	Changelog ChangelogConfig `koanf:"changelog" yaml:"changelog"`
	Docs      DocsConfig      `koanf:"docs" yaml:"docs"`
}

// ChangelogConfig configures the changelog command.
type ChangelogConfig struct {
	// Dir is the repository whose history is read.
	Dir string `koanf:"dir" yaml:"dir" validate:"required"`
	// VersionPattern matches the subject of version bump commits, which end
	// the changelog.
	VersionPattern string `koanf:"version_pattern" yaml:"version_pattern" validate:"required,regexp"`
	// TagPattern selects the tags that mark releases. Both patterns match
	// without regard to case.
	TagPattern string `koanf:"tag_pattern" yaml:"tag_pattern" validate:"regexp"`
	// Output is the changelog file; a relative path is taken from the
	// repository root.
	Output string `koanf:"output" yaml:"output" validate:"required"`
	// Limit keeps only the newest Limit messages; 0 means no limit.
	Limit int `koanf:"limit" yaml:"limit" validate:"min=0"`
	// RemoteTags also considers the tags of Remote, as `git ls-remote` does.
	RemoteTags bool   `koanf:"remote_tags" yaml:"remote_tags"`
	Remote     string `koanf:"remote" yaml:"remote" validate:"required_if=RemoteTags true"`
}

// DocsConfig configures the docs command.
type DocsConfig struct {
	Root     string `koanf:"root" yaml:"root" validate:"required"`
	Workflow string `koanf:"workflow" yaml:"workflow" validate:"required"`
	PagesDir string `koanf:"pages_dir" yaml:"pages_dir" validate:"required"`
	// MatrixJob is the workflow job whose strategy.matrix.include is used.
	MatrixJob string `koanf:"matrix_job" yaml:"matrix_job" validate:"required"`
	// Jobs are the workflow jobs whose steps provide examples.
	Jobs    []string `koanf:"jobs" yaml:"jobs" validate:"min=1,dive,required"`
	Actions []string `koanf:"actions" yaml:"actions" validate:"min=1,dive,required"`
	// UsesPrefix is the repository that examples reference in `uses`.
	UsesPrefix      string `koanf:"uses_prefix" yaml:"uses_prefix" validate:"required"`
	ResolveExamples bool   `koanf:"resolve_examples" yaml:"resolve_examples"`
	MaxParallel     int    `koanf:"max_parallel" yaml:"max_parallel" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .cpp-actions.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: UserConfigPath())
	UserConfigPath string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, opts.ProjectConfigPath)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

func loadUserConfig(k *koanf.Koanf, path string) error {
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadConfigFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. Without an explicit path,
// .cpp-actions.yml is preferred over .cpp-actions.json.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path = ProjectConfigPath()
		if !fileExists(path) && fileExists(ProjectJSONConfigPath()) {
			path = ProjectJSONConfigPath()
		}
	} else if !fileExists(path) {
		return fmt.Errorf("loading project config: %s does not exist", path)
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadConfigFile(k, path, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadConfigFile validates and loads a YAML or JSON config file
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if isJSON(path) {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf, source string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if source == "" {
		source = "config"
	}
	if err := ValidateConfigValues(&cfg, source); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Changelog.Dir = expandHomePath(cfg.Changelog.Dir)
	cfg.Docs.Root = expandHomePath(cfg.Docs.Root)

	return &cfg, nil
}

// envTransform converts environment variables to config keys and values.
// Example: CPP_ACTIONS_CHANGELOG__LIMIT -> changelog.limit
func envTransform(key, value string) (string, any) {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if listKeys[key] {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return key, items
	}
	return key, value
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
