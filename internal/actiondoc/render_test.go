package actiondoc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRenderPage_SingleExample(t *testing.T) {
	wf := loadTestWorkflow(t, `jobs:
  build:
    steps:
      - uses: ./setup-gcc
        with:
          version: '13'
`)
	m, err := ParseManifest("setup-gcc", []byte(`name: Setup GCC
description: Installs GCC.
inputs:
  version:
    description: Version
    default: '*'
`))
	require.NoError(t, err)

	page, err := RenderPageString(m, Examples(wf, "setup-gcc", ExampleOptions{UsesPrefix: prefix}))
	require.NoError(t, err)

	want := "= Setup GCC [[setup-gcc]]\n" +
		":reftext: Setup GCC\n" +
		":navtitle: Setup GCC Action\n" +
		"// This setup-gcc.adoc file is automatically generated.\n" +
		"// Edit setup-gcc/action.yml or the CI workflow instead.\n" +
		"\n" +
		"Installs GCC.\n" +
		"\n" +
		"== Example\n" +
		"\n" +
		"[source,yml,subs=\"attributes+\"]\n" +
		"----\n" +
		"steps:\n" +
		"  - uses: alandefreitas/cpp-actions/setup-gcc@{page-version}\n" +
		"    with:\n" +
		"      version: '13'\n" +
		"----\n" +
		"\n" +
		"== Input Parameters\n" +
		"\n" +
		"|===\n" +
		"|Parameter |Description |Default\n" +
		"|`version` |Version. |`*`\n" +
		"|===\n" +
		"\n"
	assert.Equal(t, want, page)
}

func TestRenderPage_MultipleExamples(t *testing.T) {
	wf := loadTestWorkflow(t, `jobs:
  build:
    steps:
      - name: Basic
        uses: ./cmake-workflow
        with:
          source-dir: .
      - name: Advanced
        uses: ./cmake-workflow
        with:
          source-dir: .
          cxxstd: '17,20'
          extra-args: '-D FMT={0}'
`)
	m, err := ParseManifest("cmake-workflow", []byte("name: CMake Workflow\ndescription: Runs CMake.\n"))
	require.NoError(t, err)

	page, err := RenderPageString(m, Examples(wf, "cmake-workflow", ExampleOptions{UsesPrefix: prefix}))
	require.NoError(t, err)

	assert.Contains(t, page, "== Examples\n\nExample 1:\n\n[source,yml")
	assert.Contains(t, page, "Example 2 (`cxxstd`, `extra-args`):\n\n[source,yml")
	assert.Contains(t, page, `\{0\}`)
	assert.NotContains(t, page, "{0}'")
	assert.Equal(t, 2, strings.Count(page, "[source,yml,subs=\"attributes+\"]\n----\nsteps:\n"))
}

func TestRenderPage_NoExamples(t *testing.T) {
	m, err := ParseManifest("setup-cpp", []byte(testManifest))
	require.NoError(t, err)

	page, err := RenderPageString(m, nil)
	require.NoError(t, err)

	assert.NotContains(t, page, "== Example")
	assert.Contains(t, page, "Use ${{ matrix.compiler }} to select it.\n")
	assert.Contains(t, page, "|`compiler` |The compiler name. ⚠️ This parameter is required. |\n")
	assert.Contains(t, page, "|`version` |Version range. |`*`\n")
	assert.Contains(t, page, "|`trace-commands` |Trace \\| commands. |`false`\n")
	assert.Contains(t, page, "|`jobs` |Number of jobs. |\n")
	assert.Contains(t, page, "|`extra` |Extra. ⚠️ This parameter is required. |`line one`\n\n`line two`\n")
	assert.Contains(t, page, "|`retries` |Retries. |`3`\n")
	assert.True(t, strings.HasSuffix(page,
		"== Outputs\n\n|===\n|Output |Description\n|`cc` |The {cpp} compiler path.\n|`cxx` |The {cpp} driver.\n|===\n"))
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func TestFormatDefault(t *testing.T) {
	tests := map[string]struct {
		node *yaml.Node
		want string
	}{
		"missing":          {node: nil, want: ""},
		"null":             {node: scalar("!!null", ""), want: ""},
		"string":           {node: scalar("!!str", "Release"), want: "`Release`"},
		"empty string":     {node: scalar("!!str", ""), want: ""},
		"multi line":       {node: scalar("!!str", "a\n\nb\n"), want: "`a`\n\n\n\n`b`"},
		"true":             {node: scalar("!!bool", "true"), want: "`true`"},
		"false":            {node: scalar("!!bool", "false"), want: "`false`"},
		"zero int":         {node: scalar("!!int", "0"), want: ""},
		"non zero int":     {node: scalar("!!int", "8"), want: "`8`"},
		"zero float":       {node: scalar("!!float", "0.0"), want: ""},
		"float":            {node: scalar("!!float", "1.5"), want: "`1.5`"},
		"sequence ignored": {node: &yaml.Node{Kind: yaml.SequenceNode}, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDefault(tt.node))
		})
	}
}

func TestStepsYAML_EscapesPlaceholders(t *testing.T) {
	step := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		scalar("!!str", "run"),
		scalar("!!str", "echo {0} {12} {name}"),
	}}

	out, err := stepsYAML(step)
	require.NoError(t, err)
	assert.Equal(t, "steps:\n  - run: echo \\{0\\} \\{12\\} {name}\n", out)
}
