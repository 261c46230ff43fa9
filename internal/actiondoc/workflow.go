package actiondoc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/alandefreitas/cpp-actions-tools/internal/expr"
)

// Workflow is the part of a CI workflow that documentation is built from.
type Workflow struct {
	// Matrix holds the entries of the matrix job's strategy.matrix.include.
	Matrix []expr.Context
	// Steps are the mapping nodes of the selected jobs' steps, in job order.
	Steps []*yaml.Node
}

// LoadWorkflow reads and parses a workflow file.
func LoadWorkflow(path, matrixJob string, jobs []string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow: %w", err)
	}
	wf, err := ParseWorkflow(data, matrixJob, jobs)
	if err != nil {
		return nil, fmt.Errorf("parsing workflow %s: %w", path, err)
	}
	return wf, nil
}

// ParseWorkflow extracts the build matrix of matrixJob and the steps of jobs.
// Jobs that do not exist are skipped, as is a missing matrix.
func ParseWorkflow(data []byte, matrixJob string, jobs []string) (*Workflow, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("workflow is not a mapping")
	}
	jobsNode := mappingValue(root, "jobs")

	wf := &Workflow{}

	include := mappingPath(jobsNode, matrixJob, "strategy", "matrix", "include")
	if include != nil && include.Kind == yaml.SequenceNode {
		for _, entry := range include.Content {
			if entry.Kind != yaml.MappingNode {
				continue
			}
			wf.Matrix = append(wf.Matrix, matrixEntry(entry))
		}
	}

	for _, job := range jobs {
		steps := mappingPath(jobsNode, job, "steps")
		if steps == nil || steps.Kind != yaml.SequenceNode {
			logDebug("[actiondoc] job %q has no steps", job)
			continue
		}
		for _, step := range steps.Content {
			if step.Kind == yaml.MappingNode {
				wf.Steps = append(wf.Steps, step)
			}
		}
	}

	logDebug("[actiondoc] workflow: %d matrix entries, %d steps", len(wf.Matrix), len(wf.Steps))
	return wf, nil
}

// matrixEntry converts one include entry into an evaluation context.
func matrixEntry(node *yaml.Node) expr.Context {
	ctx := make(expr.Context, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		ctx[node.Content[i].Value] = matrixValue(node.Content[i+1])
	}
	return ctx
}

func matrixValue(node *yaml.Node) expr.Value {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			items = append(items, resolveAlias(item).Value)
		}
		return expr.List(items...)
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err == nil {
				return expr.Bool(b)
			}
		case "!!null":
			return expr.String("")
		}
		return expr.String(node.Value)
	default:
		return expr.String("")
	}
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return doc.Content[0]
	}
	return doc
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

// mappingValue returns the value node for key in a mapping node, or nil.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return resolveAlias(node.Content[i+1])
		}
	}
	return nil
}

func mappingPath(node *yaml.Node, keys ...string) *yaml.Node {
	for _, key := range keys {
		node = mappingValue(node, key)
		if node == nil {
			return nil
		}
	}
	return node
}
