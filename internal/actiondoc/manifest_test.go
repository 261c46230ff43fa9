package actiondoc

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `name: Setup C++
description: |
  Sets up a C++ compiler. Use $\{{ matrix.compiler }} to select it.
inputs:
  compiler:
    description: 'The compiler name'
    required: true
  version:
    description: 'Version range.'
    default: '*'
  trace-commands:
    description: Trace | commands
    required: false
    default: false
  jobs:
    description: Number of jobs
    default: 0
  extra:
    description: Extra
    required: 'True'
    default: |
      line one
      line two
  retries:
    description: Retries
    default: 3
outputs:
  cc:
    description: The C++ compiler path.
  cxx:
    description: The C++ driver.
`

func writeManifest(t *testing.T, root, action, content string) {
	t.Helper()
	dir := filepath.Join(root, action)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "action.yml"), []byte(content), 0o644))
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest("setup-cpp", []byte(testManifest))
	require.NoError(t, err)

	assert.Equal(t, "setup-cpp", m.Action)
	assert.Equal(t, "Setup C++", m.Name)
	assert.Equal(t, "Sets up a C++ compiler. Use ${{ matrix.compiler }} to select it.\n", m.Description)

	names := make([]string, len(m.Inputs))
	required := make(map[string]bool)
	for i, in := range m.Inputs {
		names[i] = in.Name
		required[in.Name] = in.Required
	}
	assert.Equal(t, []string{"compiler", "version", "trace-commands", "jobs", "extra", "retries"}, names)
	assert.Equal(t, map[string]bool{
		"compiler":       true,
		"version":        false,
		"trace-commands": false,
		"jobs":           false,
		"extra":          true,
		"retries":        false,
	}, required)

	assert.Nil(t, m.Inputs[0].Default)
	require.NotNil(t, m.Inputs[1].Default)
	assert.Equal(t, "*", m.Inputs[1].Default.Value)

	require.Len(t, m.Outputs, 2)
	assert.Equal(t, Output{Name: "cc", Description: "The C++ compiler path."}, m.Outputs[0])
	assert.Equal(t, "cxx", m.Outputs[1].Name)
}

func TestParseManifest_Errors(t *testing.T) {
	tests := map[string]struct {
		data    string
		wantErr string
	}{
		"missing name":  {data: "description: x\n", wantErr: "missing name"},
		"not a mapping": {data: "- name\n", wantErr: "not a mapping"},
		"invalid yaml":  {data: "name: [x", wantErr: "yaml"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest("a", []byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseManifest_NoInputsOrOutputs(t *testing.T) {
	m, err := ParseManifest("flamegraph", []byte("name: Flamegraph\ndescription: Draws a flamegraph.\n"))
	require.NoError(t, err)
	assert.Empty(t, m.Inputs)
	assert.Empty(t, m.Outputs)
}

func TestLoadManifest_Error(t *testing.T) {
	root := t.TempDir()
	_, err := LoadManifest(root, "missing-action")
	require.Error(t, err)

	var manifestErr *ManifestError
	require.ErrorAs(t, err, &manifestErr)
	assert.Equal(t, "missing-action", manifestErr.Action)
	assert.Equal(t, filepath.Join(root, "missing-action", "action.yml"), manifestErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadManifests(t *testing.T) {
	root := t.TempDir()
	actions := []string{"setup-gcc", "setup-clang", "setup-cmake", "boost-clone", "flamegraph"}
	for _, a := range actions {
		writeManifest(t, root, a, "name: "+a+"\ndescription: d\n")
	}

	tests := map[string]struct {
		maxParallel int
	}{
		"default limit": {maxParallel: 0},
		"sequential":    {maxParallel: 1},
		"wide":          {maxParallel: 8},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			manifests, err := LoadManifests(context.Background(), root, actions, tt.maxParallel)
			require.NoError(t, err)
			require.Len(t, manifests, len(actions))
			for i, m := range manifests {
				assert.Equal(t, actions[i], m.Action)
				assert.Equal(t, actions[i], m.Name)
			}
		})
	}
}

func TestLoadManifests_FailsOnMissing(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "setup-gcc", "name: GCC\n")

	_, err := LoadManifests(context.Background(), root, []string{"setup-gcc", "setup-msvc"}, 2)
	require.Error(t, err)

	var manifestErr *ManifestError
	require.ErrorAs(t, err, &manifestErr)
	assert.Equal(t, "setup-msvc", manifestErr.Action)
}

func TestLoadManifests_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "setup-gcc", "name: GCC\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := LoadManifests(ctx, root, []string{"setup-gcc"}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
