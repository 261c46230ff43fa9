package actiondoc

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DefaultMaxParallel bounds concurrent manifest reads.
const DefaultMaxParallel = 4

// Manifest is the documented part of an action.yml file.
type Manifest struct {
	Action      string
	Name        string
	Description string
	Inputs      []Input
	Outputs     []Output
}

// Input is one entry of the manifest's inputs mapping, in file order.
type Input struct {
	Name        string
	Description string
	Required    bool
	// Default is the raw default value, nil when the input has none.
	Default *yaml.Node
}

// Output is one entry of the manifest's outputs mapping, in file order.
type Output struct {
	Name        string
	Description string
}

// ManifestError reports an action.yml that cannot be read or is incomplete.
type ManifestError struct {
	Action string
	Path   string
	Err    error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("action %s (%s): %v", e.Action, e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error {
	return e.Err
}

// ManifestPath returns the location of an action's manifest under root.
func ManifestPath(root, action string) string {
	return filepath.Join(root, action, "action.yml")
}

// LoadManifest reads <root>/<action>/action.yml.
func LoadManifest(root, action string) (*Manifest, error) {
	path := ManifestPath(root, action)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ManifestError{Action: action, Path: path, Err: err}
	}
	m, err := ParseManifest(action, data)
	if err != nil {
		return nil, &ManifestError{Action: action, Path: path, Err: err}
	}
	return m, nil
}

// ParseManifest parses the contents of an action.yml file.
func ParseManifest(action string, data []byte) (*Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, errors.New("manifest is not a mapping")
	}

	name := mappingValue(root, "name")
	if name == nil || strings.TrimSpace(name.Value) == "" {
		return nil, errors.New("missing name")
	}

	m := &Manifest{
		Action: action,
		Name:   name.Value,
	}
	if desc := mappingValue(root, "description"); desc != nil {
		m.Description = strings.ReplaceAll(desc.Value, `$\{{`, "${{")
	}

	if inputs := mappingValue(root, "inputs"); inputs != nil && inputs.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(inputs.Content); i += 2 {
			details := inputs.Content[i+1]
			in := Input{Name: inputs.Content[i].Value}
			if d := mappingValue(details, "description"); d != nil {
				in.Description = d.Value
			}
			if r := mappingValue(details, "required"); r != nil {
				in.Required = isRequired(r)
			}
			in.Default = mappingValue(details, "default")
			m.Inputs = append(m.Inputs, in)
		}
	}

	if outputs := mappingValue(root, "outputs"); outputs != nil && outputs.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(outputs.Content); i += 2 {
			out := Output{Name: outputs.Content[i].Value}
			if d := mappingValue(outputs.Content[i+1], "description"); d != nil {
				out.Description = d.Value
			}
			m.Outputs = append(m.Outputs, out)
		}
	}

	return m, nil
}

// isRequired accepts a YAML boolean or the strings "true" and "True".
func isRequired(node *yaml.Node) bool {
	if node.Kind != yaml.ScalarNode {
		return false
	}
	if node.ShortTag() == "!!bool" {
		var b bool
		return node.Decode(&b) == nil && b
	}
	return node.Value == "true" || node.Value == "True"
}

// LoadManifests reads the manifests of actions concurrently, at most
// maxParallel at a time, and returns them in the order of actions.
func LoadManifests(ctx context.Context, root string, actions []string, maxParallel int) ([]*Manifest, error) {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}

	manifests := make([]*Manifest, len(actions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	for i, action := range actions {
		i, action := i, action
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := LoadManifest(root, action)
			if err != nil {
				return err
			}
			manifests[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return manifests, nil
}
