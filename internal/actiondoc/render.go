package actiondoc

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// placeholderPattern matches `{N}` format placeholders, which AsciiDoc would
// otherwise treat as attribute references.
var placeholderPattern = regexp.MustCompile(`\{(\d+)\}`)

// RenderPage writes the AsciiDoc reference page for an action.
func RenderPage(m *Manifest, examples []*yaml.Node, w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "= %s [[%s]]\n", m.Name, m.Action)
	fmt.Fprintf(&b, ":reftext: %s\n", m.Name)
	fmt.Fprintf(&b, ":navtitle: %s Action\n", m.Name)
	fmt.Fprintf(&b, "// This %s.adoc file is automatically generated.\n", m.Action)
	fmt.Fprintf(&b, "// Edit %s/action.yml or the CI workflow instead.\n\n", m.Action)
	fmt.Fprintf(&b, "%s\n\n", m.Description)

	if err := renderExamples(&b, examples); err != nil {
		return err
	}
	renderInputs(&b, m.Inputs)
	renderOutputs(&b, m.Outputs)

	_, err := io.WriteString(w, b.String())
	return err
}

// RenderPageString is a convenience function that renders to a string.
func RenderPageString(m *Manifest, examples []*yaml.Node) (string, error) {
	var b strings.Builder
	if err := RenderPage(m, examples, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderExamples(b *strings.Builder, examples []*yaml.Node) error {
	if len(examples) == 0 {
		return nil
	}
	multiple := len(examples) > 1
	if multiple {
		b.WriteString("== Examples\n\n")
	} else {
		b.WriteString("== Example\n\n")
	}

	covered := make(map[string]bool)
	for i, ex := range examples {
		keys := nonEmptyKeys(ex)
		if multiple {
			fmt.Fprintf(b, "Example %d", i+1)
			if i != 0 {
				if names := newKeys(keys, covered); len(names) > 0 {
					quoted := make([]string, len(names))
					for j, n := range names {
						quoted[j] = "`" + n + "`"
					}
					fmt.Fprintf(b, " (%s)", strings.Join(quoted, ", "))
				}
			}
			b.WriteString(":\n\n")
		}
		for k := range keys {
			covered[k] = true
		}

		src, err := stepsYAML(ex)
		if err != nil {
			return fmt.Errorf("encoding example %d: %w", i+1, err)
		}
		fmt.Fprintf(b, "[source,yml,subs=\"attributes+\"]\n----\n%s----\n\n", src)
	}
	return nil
}

// stepsYAML encodes `steps: [step]` with placeholders escaped.
func stepsYAML(step *yaml.Node) (string, error) {
	doc := &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "steps"},
			{Kind: yaml.SequenceNode, Content: []*yaml.Node{step}},
		},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return placeholderPattern.ReplaceAllString(buf.String(), `\{$1\}`), nil
}

func renderInputs(b *strings.Builder, inputs []Input) {
	b.WriteString("== Input Parameters\n\n")
	b.WriteString("|===\n|Parameter |Description |Default\n")
	for _, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if !strings.HasSuffix(desc, ".") {
			desc += "."
		}
		if in.Required {
			desc += " ⚠️ This parameter is required."
		}
		desc = escapeCell(desc)
		fmt.Fprintf(b, "|`%s` |%s |%s\n", in.Name, desc, escapeCell(formatDefault(in.Default)))
	}
	b.WriteString("|===\n\n")
}

func renderOutputs(b *strings.Builder, outputs []Output) {
	if len(outputs) == 0 {
		return
	}
	b.WriteString("== Outputs\n\n")
	b.WriteString("|===\n|Output |Description\n")
	for _, out := range outputs {
		fmt.Fprintf(b, "|`%s` |%s\n", out.Name, strings.ReplaceAll(out.Description, "C++", "{cpp}"))
	}
	b.WriteString("|===\n")
}

// formatDefault renders an input default for the parameter table. Strings
// become one backticked paragraph per line, booleans are always shown, and
// other scalars are shown unless they are zero.
func formatDefault(n *yaml.Node) string {
	n = resolveAlias(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return ""
	}
	switch n.ShortTag() {
	case "!!null":
		return ""
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err == nil && v {
			return "`true`"
		}
		return "`false`"
	case "!!int", "!!float":
		if f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64); err == nil && f == 0 {
			return ""
		}
		return "`" + n.Value + "`"
	}

	lines := strings.Split(strings.TrimSuffix(n.Value, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = "`" + line + "`"
		}
	}
	return strings.Join(lines, "\n\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
