package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alandefreitas/cpp-actions-tools/internal/actiondoc"
	"github.com/alandefreitas/cpp-actions-tools/internal/config"
	clierrors "github.com/alandefreitas/cpp-actions-tools/internal/errors"
	"github.com/alandefreitas/cpp-actions-tools/internal/output"
)

type docsOptions struct {
	root            string
	workflow        string
	pagesDir        string
	matrixJob       string
	jobs            []string
	actions         []string
	usesPrefix      string
	resolveExamples bool
	maxParallel     int
	watch           bool
	debounce        time.Duration
}

func newDocsCmd(root *rootOptions) *cobra.Command {
	o := &docsOptions{}

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the AsciiDoc reference page of each action",
		Long: `Generate one AsciiDoc page per action from its action.yml manifest.

Each page lists the action's inputs and outputs and shows usage examples
taken from the CI workflow steps that use the action. Only steps that
exercise inputs not shown by an earlier example are kept.

Flags override the docs section of the configuration.`,
		Example: `  # Generate every configured page
  cpp-actions docs

  # Only the compiler setup actions, regenerated on every change
  cpp-actions docs --actions setup-gcc,setup-clang --watch

  # Instantiate examples for each build matrix entry
  cpp-actions docs --resolve-examples`,
		Args:    cobra.NoArgs,
		GroupID: GroupGenerate,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, root, o)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.root, "root", "", "Repository root containing <action>/action.yml (default: docs.root)")
	f.StringVar(&o.workflow, "workflow", "", "Workflow providing usage examples (default: docs.workflow)")
	f.StringVar(&o.pagesDir, "pages-dir", "", "Directory the pages are written to (default: docs.pages_dir)")
	f.StringVar(&o.matrixJob, "matrix-job", "", "Job whose strategy.matrix.include is the build matrix (default: docs.matrix_job)")
	f.StringSliceVar(&o.jobs, "jobs", nil, "Jobs whose steps provide examples (default: docs.jobs)")
	f.StringSliceVar(&o.actions, "actions", nil, "Actions to document, in order (default: docs.actions)")
	f.StringVar(&o.usesPrefix, "uses-prefix", "", "Repository referenced by example 'uses' (default: docs.uses_prefix)")
	f.BoolVar(&o.resolveExamples, "resolve-examples", false, "Instantiate examples for each matrix entry")
	f.IntVar(&o.maxParallel, "max-parallel", 0, "Manifests read concurrently (default: docs.max_parallel)")
	f.BoolVarP(&o.watch, "watch", "w", false, "Regenerate when the workflow or a manifest changes")
	f.DurationVar(&o.debounce, "debounce", actiondoc.DefaultDebounce, "Delay before regenerating after a change")

	return cmd
}

// apply overrides the configuration with the flags set on the command line.
func (o *docsOptions) apply(cmd *cobra.Command, d *config.DocsConfig) {
	f := cmd.Flags()
	if f.Changed("root") {
		d.Root = o.root
	}
	if f.Changed("workflow") {
		d.Workflow = o.workflow
	}
	if f.Changed("pages-dir") {
		d.PagesDir = o.pagesDir
	}
	if f.Changed("matrix-job") {
		d.MatrixJob = o.matrixJob
	}
	if f.Changed("jobs") {
		d.Jobs = o.jobs
	}
	if f.Changed("actions") {
		d.Actions = o.actions
	}
	if f.Changed("uses-prefix") {
		d.UsesPrefix = o.usesPrefix
	}
	if f.Changed("resolve-examples") {
		d.ResolveExamples = o.resolveExamples
	}
	if f.Changed("max-parallel") {
		d.MaxParallel = o.maxParallel
	}
}

func runDocs(cmd *cobra.Command, root *rootOptions, o *docsOptions) error {
	cfg, err := root.loadConfig(cmd)
	if err != nil {
		return err
	}
	d := cfg.Docs
	o.apply(cmd, &d)

	if len(d.Actions) == 0 {
		return clierrors.NewArgumentError("no actions to document",
			"List actions with --actions or in docs.actions")
	}

	opts := actiondoc.Options{
		Root:            d.Root,
		Workflow:        d.Workflow,
		PagesDir:        d.PagesDir,
		MatrixJob:       d.MatrixJob,
		Jobs:            d.Jobs,
		Actions:         d.Actions,
		UsesPrefix:      d.UsesPrefix,
		ResolveExamples: d.ResolveExamples,
		MaxParallel:     d.MaxParallel,
	}
	out := cmd.OutOrStdout()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = generateDocs(ctx, out, opts)
	if !o.watch {
		return err
	}
	if err != nil {
		output.PrintWarning(out, err.Error())
	}

	files := actiondoc.WatchedFiles(opts)
	output.PrintDetail(out, "watching %d files, press Ctrl+C to stop", len(files))
	return actiondoc.Watch(ctx, files, o.debounce, func() {
		output.PrintRule(out, "docs")
		if err := generateDocs(ctx, out, opts); err != nil {
			output.PrintWarning(out, err.Error())
		}
	})
}

func generateDocs(ctx context.Context, out io.Writer, opts actiondoc.Options) error {
	output.PrintHeader(out, "Generating action pages")

	pages, err := actiondoc.Generate(ctx, opts)
	if err != nil {
		return docsError(opts, err)
	}

	for _, p := range pages {
		output.PrintDetail(out, "%s: %d examples", p.Action, p.Examples)
	}
	output.PrintSuccess(out, fmt.Sprintf("Wrote %d pages to %s", len(pages), filepath.Join(opts.Root, opts.PagesDir)))
	return nil
}

// docsError gives missing inputs a remediation hint.
func docsError(opts actiondoc.Options, err error) error {
	var manifestErr *actiondoc.ManifestError
	switch {
	case errors.As(err, &manifestErr) && errors.Is(err, fs.ErrNotExist):
		return clierrors.ManifestNotFound(manifestErr.Action, manifestErr.Path)
	case errors.Is(err, fs.ErrNotExist):
		return clierrors.WorkflowNotFound(opts.Workflow)
	default:
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "generating action pages")
	}
}
