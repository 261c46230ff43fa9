package actiondoc

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alandefreitas/cpp-actions-tools/internal/expr"
)

// stepKeyOrder is the order of the leading keys of an example step.
var stepKeyOrder = []string{"name", "uses", "if", "id", "with"}

// droppedWithKeys are inputs that only matter to the CI run itself.
var droppedWithKeys = []string{"trace-commands", "modules-scan-paths", "modules-exclude-paths"}

// droppedStepKeys only make sense inside the CI matrix.
var droppedStepKeys = []string{"if", "continue-on-error"}

// ExampleOptions controls example extraction.
type ExampleOptions struct {
	// UsesPrefix replaces the repository part of `uses`, as in
	// "<UsesPrefix>/<action>@{page-version}".
	UsesPrefix string
	// Resolve instantiates each template against every matrix entry and
	// skips entries for which the step's condition is false.
	Resolve bool
}

// Examples extracts documentation examples for action from the workflow.
//
// Every step whose `uses` ends with the action name is a template. A template
// yields one example per matrix entry that covers keys (`key` or `with.key`
// with a non-blank value) not covered by the previous examples of the same
// template.
func Examples(wf *Workflow, action string, opts ExampleOptions) []*yaml.Node {
	matrix := wf.Matrix
	if len(matrix) == 0 {
		matrix = []expr.Context{{}}
	}

	var examples []*yaml.Node
	for _, step := range wf.Steps {
		uses := mappingValue(step, "uses")
		if uses == nil || !strings.HasSuffix(uses.Value, action) {
			continue
		}
		tmpl := exampleTemplate(step, action, opts.UsesPrefix)

		covered := make(map[string]bool)
		for _, entry := range matrix {
			candidate := tmpl
			if opts.Resolve {
				if cond := mappingValue(tmpl, "if"); cond != nil {
					if ok, resolved := expr.Condition(cond.Value, entry); resolved && !ok {
						continue
					}
				}
				candidate = instantiate(tmpl, entry)
			}

			keys := nonEmptyKeys(candidate)
			if !addsKeys(keys, covered) {
				continue
			}
			examples = append(examples, cleanExample(candidate))
			for k := range keys {
				covered[k] = true
			}
		}
	}

	logDebug("[actiondoc] %s: %d examples", action, len(examples))
	return examples
}

// exampleTemplate copies step with `uses` pointing at the published action
// and the keys in display order.
func exampleTemplate(step *yaml.Node, action, usesPrefix string) *yaml.Node {
	tmpl := cloneNode(step)
	if uses := mappingValue(tmpl, "uses"); uses != nil {
		uses.Value = usesPrefix + "/" + action + "@{page-version}"
		uses.Tag = "!!str"
		uses.Style = 0
	}
	sortStep(tmpl)
	return tmpl
}

// sortStep moves the keys of stepKeyOrder to the front of the mapping.
func sortStep(step *yaml.Node) {
	type pair struct{ key, value *yaml.Node }
	var head, tail []pair
	for _, key := range stepKeyOrder {
		for i := 0; i+1 < len(step.Content); i += 2 {
			if step.Content[i].Value == key {
				head = append(head, pair{step.Content[i], step.Content[i+1]})
			}
		}
	}
	for i := 0; i+1 < len(step.Content); i += 2 {
		if !contains(stepKeyOrder, step.Content[i].Value) {
			tail = append(tail, pair{step.Content[i], step.Content[i+1]})
		}
	}
	content := make([]*yaml.Node, 0, len(step.Content))
	for _, p := range append(head, tail...) {
		content = append(content, p.key, p.value)
	}
	step.Content = content
}

// instantiate resolves the expressions of every string scalar in tmpl.
func instantiate(tmpl *yaml.Node, ctx expr.Context) *yaml.Node {
	out := cloneNode(tmpl)
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		switch n.Kind {
		case yaml.ScalarNode:
			if n.ShortTag() == "!!str" && strings.Contains(n.Value, "${{") {
				n.Value = expr.Resolve(n.Value, ctx)
				if !strings.Contains(n.Value, "\n") && (n.Style == yaml.LiteralStyle || n.Style == yaml.FoldedStyle) {
					n.Style = 0
				}
			}
		case yaml.MappingNode:
			for i := 1; i < len(n.Content); i += 2 {
				walk(n.Content[i])
			}
		case yaml.SequenceNode:
			for _, c := range n.Content {
				walk(c)
			}
		}
	}
	walk(out)
	return out
}

// isBlank reports whether a value is a string made only of spaces.
func isBlank(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" && strings.Trim(n.Value, " ") == ""
}

// nonEmptyKeys returns the keys of step and of its `with` mapping (prefixed
// "with.") whose values are not blank.
func nonEmptyKeys(step *yaml.Node) map[string]bool {
	keys := make(map[string]bool)
	for i := 0; i+1 < len(step.Content); i += 2 {
		if !isBlank(step.Content[i+1]) {
			keys[step.Content[i].Value] = true
		}
	}
	if with := mappingValue(step, "with"); with != nil && with.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(with.Content); i += 2 {
			if !isBlank(with.Content[i+1]) {
				keys["with."+with.Content[i].Value] = true
			}
		}
	}
	return keys
}

func addsKeys(keys, covered map[string]bool) bool {
	for k := range keys {
		if !covered[k] {
			return true
		}
	}
	return false
}

// newKeys returns the sorted display names of the keys not yet covered.
func newKeys(keys, covered map[string]bool) []string {
	var names []string
	for k := range keys {
		if covered[k] {
			continue
		}
		names = append(names, k[strings.LastIndex(k, ".")+1:])
	}
	sort.Strings(names)
	return names
}

// cleanExample drops blank values and CI-only keys from a copy of step.
func cleanExample(step *yaml.Node) *yaml.Node {
	out := cloneNode(step)
	out.Content = filterPairs(out.Content, func(key string, value *yaml.Node) bool {
		return !isBlank(value) && !contains(droppedStepKeys, key)
	})
	if with := mappingValue(out, "with"); with != nil && with.Kind == yaml.MappingNode {
		with.Content = filterPairs(with.Content, func(key string, value *yaml.Node) bool {
			return !isBlank(value) && !contains(droppedWithKeys, key)
		})
	}
	return out
}

func filterPairs(content []*yaml.Node, keep func(key string, value *yaml.Node) bool) []*yaml.Node {
	out := content[:0:0]
	for i := 0; i+1 < len(content); i += 2 {
		if keep(content[i].Value, content[i+1]) {
			out = append(out, content[i], content[i+1])
		}
	}
	return out
}

// cloneNode deep-copies n, expanding aliases and dropping comments so the
// copy can be edited and emitted on its own.
func cloneNode(n *yaml.Node) *yaml.Node {
	n = resolveAlias(n)
	if n == nil {
		return nil
	}
	c := *n
	c.Anchor = ""
	c.HeadComment, c.LineComment, c.FootComment = "", "", ""
	if len(n.Content) > 0 {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = cloneNode(child)
		}
	}
	return &c
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
