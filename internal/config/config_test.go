package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns options that never read the real user config.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{UserConfigPath: filepath.Join(t.TempDir(), "none.yml")}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithOptions(isolated(t))
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, ChangelogConfig{
		Dir:            ".",
		VersionPattern: `(Bump|Set)\s+version`,
		TagPattern:     `v.*\..*\..*`,
		Output:         "CHANGELOG.md",
		Limit:          0,
		RemoteTags:     true,
		Remote:         "origin",
	}, cfg.Changelog)
	assert.Equal(t, ".github/workflows/ci.yml", cfg.Docs.Workflow)
	assert.Equal(t, "docs/generated-files/modules/ROOT/pages/actions", cfg.Docs.PagesDir)
	assert.Equal(t, []string{"build", "docs", "cpp-matrix"}, cfg.Docs.Jobs)
	assert.Equal(t, DefaultActions, cfg.Docs.Actions)
	assert.Equal(t, "alandefreitas/cpp-actions", cfg.Docs.UsesPrefix)
	assert.Equal(t, 4, cfg.Docs.MaxParallel)
}

func TestLoad_Layering(t *testing.T) {
	dir := t.TempDir()
	userPath := writeFile(t, filepath.Join(dir, "user", "config.yml"), `changelog:
  limit: 10
  output: USER.md
docs:
  uses_prefix: me/cpp-actions
`)
	projectPath := writeFile(t, filepath.Join(dir, "project", ".cpp-actions.yml"), `changelog:
  limit: 20
docs:
  actions: [setup-gcc]
`)

	tests := map[string]struct {
		env        map[string]string
		wantLimit  int
		wantOutput string
		wantPrefix string
		wantJobs   []string
	}{
		"project overrides user": {
			wantLimit:  20,
			wantOutput: "USER.md",
			wantPrefix: "me/cpp-actions",
			wantJobs:   []string{"build", "docs", "cpp-matrix"},
		},
		"env overrides project": {
			env: map[string]string{
				"CPP_ACTIONS_CHANGELOG__LIMIT": "5",
				"CPP_ACTIONS_DOCS__JOBS":       "build, docs",
			},
			wantLimit:  5,
			wantOutput: "USER.md",
			wantPrefix: "me/cpp-actions",
			wantJobs:   []string{"build", "docs"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadWithOptions(LoadOptions{UserConfigPath: userPath, ProjectConfigPath: projectPath})
			require.NoError(t, err)

			assert.Equal(t, tt.wantLimit, cfg.Changelog.Limit)
			assert.Equal(t, tt.wantOutput, cfg.Changelog.Output)
			assert.Equal(t, tt.wantPrefix, cfg.Docs.UsesPrefix)
			assert.Equal(t, tt.wantJobs, cfg.Docs.Jobs)
			assert.Equal(t, []string{"setup-gcc"}, cfg.Docs.Actions)
			assert.Equal(t, "origin", cfg.Changelog.Remote)
		})
	}
}

func TestLoad_JSONProject(t *testing.T) {
	opts := isolated(t)
	opts.ProjectConfigPath = writeFile(t, filepath.Join(t.TempDir(), "cfg.json"),
		`{"debug": true, "docs": {"resolve_examples": true, "matrix_job": "matrix"}}`)

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.Docs.ResolveExamples)
	assert.Equal(t, "matrix", cfg.Docs.MatrixJob)
}

func TestLoad_EnvBool(t *testing.T) {
	t.Setenv("CPP_ACTIONS_DEBUG", "true")
	t.Setenv("CPP_ACTIONS_CHANGELOG__REMOTE_TAGS", "false")

	cfg, err := LoadWithOptions(isolated(t))
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.Changelog.RemoteTags)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		project   string
		env       map[string]string
		wantField string
		wantErr   string
	}{
		"negative limit": {
			project:   "changelog:\n  limit: -1\n",
			wantField: "changelog.limit",
			wantErr:   "must be at least 0",
		},
		"bad version pattern": {
			project:   "changelog:\n  version_pattern: '(unclosed'\n",
			wantField: "changelog.version_pattern",
			wantErr:   "invalid regular expression",
		},
		"empty output": {
			project:   "changelog:\n  output: ''\n",
			wantField: "changelog.output",
			wantErr:   "is required",
		},
		"remote required with remote tags": {
			project:   "changelog:\n  remote: ''\n",
			wantField: "changelog.remote",
			wantErr:   "is required when",
		},
		"empty actions from env": {
			env:       map[string]string{"CPP_ACTIONS_DOCS__ACTIONS": " , "},
			wantField: "docs.actions",
			wantErr:   "at least 1 item",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts := isolated(t)
			if tt.project != "" {
				opts.ProjectConfigPath = writeFile(t, filepath.Join(t.TempDir(), ".cpp-actions.yml"), tt.project)
			}

			_, err := LoadWithOptions(opts)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitProjectConfig(t *testing.T) {
	opts := isolated(t)
	opts.ProjectConfigPath = filepath.Join(t.TempDir(), "missing.yml")

	_, err := LoadWithOptions(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_YAMLSyntaxError(t *testing.T) {
	opts := isolated(t)
	opts.ProjectConfigPath = writeFile(t, filepath.Join(t.TempDir(), ".cpp-actions.yml"), "changelog:\n  limit: [1\n")

	_, err := LoadWithOptions(opts)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Positive(t, vErr.Line)
}

func TestLoad_UserConfigFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	writeFile(t, filepath.Join(xdg, "cpp-actions", "config.yml"), "changelog:\n  remote: upstream\n")

	cfg, err := LoadWithOptions(LoadOptions{ProjectConfigPath: ""})
	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Changelog.Remote)
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]struct {
		key       string
		value     string
		wantKey   string
		wantValue any
	}{
		"top level":   {key: "CPP_ACTIONS_DEBUG", value: "true", wantKey: "debug", wantValue: "true"},
		"nested":      {key: "CPP_ACTIONS_CHANGELOG__TAG_PATTERN", value: "v.*", wantKey: "changelog.tag_pattern", wantValue: "v.*"},
		"list":        {key: "CPP_ACTIONS_DOCS__ACTIONS", value: "a,b", wantKey: "docs.actions", wantValue: []string{"a", "b"}},
		"empty list":  {key: "CPP_ACTIONS_DOCS__JOBS", value: "", wantKey: "docs.jobs", wantValue: []string(nil)},
		"upper value": {key: "CPP_ACTIONS_DOCS__ROOT", value: "/SRC", wantKey: "docs.root", wantValue: "/SRC"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			key, value := envTransform(tt.key, tt.value)
			assert.Equal(t, tt.wantKey, key)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestGetDefaultConfigTemplate_IsValid(t *testing.T) {
	opts := isolated(t)
	opts.ProjectConfigPath = writeFile(t, filepath.Join(t.TempDir(), ".cpp-actions.yml"), GetDefaultConfigTemplate())

	cfg, err := LoadWithOptions(opts)
	require.NoError(t, err)

	defaults, err := LoadWithOptions(isolated(t))
	require.NoError(t, err)
	assert.Equal(t, defaults, cfg)
}

func TestUserConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	path, err := UserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg", "cpp-actions", "config.yml"), path)
}
