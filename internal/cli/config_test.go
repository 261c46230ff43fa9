package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/alandefreitas/cpp-actions-tools/internal/config"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfigShowCmd(t *testing.T) {
	tests := map[string]struct {
		project string
		env     map[string]string
		check   func(t *testing.T, cfg config.Configuration)
	}{
		"defaults": {
			check: func(t *testing.T, cfg config.Configuration) {
				assert.Equal(t, "CHANGELOG.md", cfg.Changelog.Output)
				assert.Equal(t, config.DefaultActions, cfg.Docs.Actions)
			},
		},
		"project file": {
			project: "changelog:\n  limit: 7\n",
			check: func(t *testing.T, cfg config.Configuration) {
				assert.Equal(t, 7, cfg.Changelog.Limit)
			},
		},
		"environment": {
			env: map[string]string{"CPP_ACTIONS_DOCS__MATRIX_JOB": "matrix"},
			check: func(t *testing.T, cfg config.Configuration) {
				assert.Equal(t, "matrix", cfg.Docs.MatrixJob)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			args := []string{"config", "show"}
			if tt.project != "" {
				path := filepath.Join(t.TempDir(), ".cpp-actions.yml")
				writeTestFile(t, path, tt.project)
				args = append([]string{"--config", path}, args...)
			}

			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)

			var cfg config.Configuration
			require.NoError(t, yaml.Unmarshal([]byte(stdout), &cfg))
			tt.check(t, cfg)
		})
	}
}

func TestConfigInitCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cpp-actions.yml")

	stdout, _, err := executeCommand(t, "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))

	_, _, err = executeCommand(t, "config", "init", "--output", path)
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, err.Error(), "file already exists")

	_, _, err = executeCommand(t, "config", "init", "--output", path, "--force")
	require.NoError(t, err)

	// The written template loads as a project config.
	_, _, err = executeCommand(t, "--config", path, "config", "show")
	require.NoError(t, err)
}

func TestConfigInitCmd_User(t *testing.T) {
	xdg := t.TempDir()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"config", "init", "--user"})
	cmd.SetOut(&discard{})
	t.Setenv("XDG_CONFIG_HOME", xdg)
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(xdg, "cpp-actions", "config.yml"))
	assert.NoError(t, err)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
