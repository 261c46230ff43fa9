package actiondoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Options configures Generate. Relative paths are resolved against Root.
type Options struct {
	Root      string
	Workflow  string
	PagesDir  string
	MatrixJob string
	Jobs      []string
	Actions   []string

	UsesPrefix      string
	ResolveExamples bool
	MaxParallel     int
}

// Page describes one generated page.
type Page struct {
	Action   string
	Path     string
	Examples int
}

// Generate builds and writes the page of every configured action, in the
// configured order.
func Generate(ctx context.Context, opts Options) ([]Page, error) {
	wf, err := LoadWorkflow(resolvePath(opts.Root, opts.Workflow), opts.MatrixJob, opts.Jobs)
	if err != nil {
		return nil, err
	}

	manifests, err := LoadManifests(ctx, opts.Root, opts.Actions, opts.MaxParallel)
	if err != nil {
		return nil, err
	}

	dir := resolvePath(opts.Root, opts.PagesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating pages directory: %w", err)
	}

	exampleOpts := ExampleOptions{UsesPrefix: opts.UsesPrefix, Resolve: opts.ResolveExamples}
	pages := make([]Page, 0, len(manifests))
	for _, m := range manifests {
		examples := Examples(wf, m.Action, exampleOpts)
		content, err := RenderPageString(m, examples)
		if err != nil {
			return nil, fmt.Errorf("rendering %s: %w", m.Action, err)
		}

		path := filepath.Join(dir, m.Action+".adoc")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		logDebug("[actiondoc] wrote %s", path)
		pages = append(pages, Page{Action: m.Action, Path: path, Examples: len(examples)})
	}

	return pages, nil
}

// WatchedFiles returns the files whose changes affect the generated pages.
func WatchedFiles(opts Options) []string {
	files := []string{resolvePath(opts.Root, opts.Workflow)}
	for _, action := range opts.Actions {
		files = append(files, ManifestPath(opts.Root, action))
	}
	return files
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
