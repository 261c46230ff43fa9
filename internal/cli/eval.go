package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alandefreitas/cpp-actions-tools/internal/actiondoc"
	clierrors "github.com/alandefreitas/cpp-actions-tools/internal/errors"
	"github.com/alandefreitas/cpp-actions-tools/internal/expr"
)

type evalOptions struct {
	workflow    string
	matrixJob   string
	matrixEntry int
	set         []string
	setBool     []string
	setList     []string
	condition   bool
}

func newEvalCmd(root *rootOptions) *cobra.Command {
	o := &evalOptions{}

	cmd := &cobra.Command{
		Use:   "eval <template>",
		Short: "Resolve the ${{ }} expressions of a template against a matrix entry",
		Long: `Resolve the ${{ }} expressions of a template.

Variables come from an entry of the workflow's build matrix (--matrix-entry)
and from --set, --set-bool and --set-list, which take precedence. Names may
be written with or without the "matrix." prefix. Expressions that cannot be
resolved are printed unchanged.

With --condition the template is evaluated as a step 'if' condition and the
result is printed as true or false.`,
		Example: `  # Resolve against the first build matrix entry
  cpp-actions eval --matrix-entry 0 'cmake -DCMAKE_CXX_COMPILER=${{ matrix.cxx }}'

  # Resolve against explicit values
  cpp-actions eval --set compiler=gcc --set-list flags=-Wall,-Werror \
    "\${{ matrix.compiler }}: \${{ join(matrix.flags, ' ') }}"

  # Evaluate a step condition
  cpp-actions eval --condition --set-bool coverage=true 'matrix.coverage'`,
		Args:    cobra.ExactArgs(1),
		GroupID: GroupTools,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, root, o, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.workflow, "workflow", "", "Workflow with the build matrix (default: docs.workflow)")
	f.StringVar(&o.matrixJob, "matrix-job", "", "Job whose strategy.matrix.include is the build matrix (default: docs.matrix_job)")
	f.IntVarP(&o.matrixEntry, "matrix-entry", "m", -1, "Index of the build matrix entry to use")
	f.StringArrayVar(&o.set, "set", nil, "Set a string variable (name=value)")
	f.StringArrayVar(&o.setBool, "set-bool", nil, "Set a boolean variable (name=true|false)")
	f.StringArrayVar(&o.setList, "set-list", nil, "Set a sequence variable (name=a,b,c)")
	f.BoolVar(&o.condition, "condition", false, "Evaluate the template as a step 'if' condition")

	return cmd
}

func runEval(cmd *cobra.Command, root *rootOptions, o *evalOptions, template string) error {
	ctx, err := o.context(cmd, root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !o.condition {
		fmt.Fprintln(out, expr.Resolve(template, ctx))
		return nil
	}

	value, resolved := expr.Condition(template, ctx)
	if !resolved {
		return clierrors.NewRuntimeError(
			fmt.Sprintf("condition could not be resolved: %s", template),
			"Set the variables it uses with --set, --set-bool or --set-list",
		)
	}
	fmt.Fprintln(out, strconv.FormatBool(value))
	return nil
}

// context builds the evaluation context from the selected matrix entry and
// the explicit assignments.
func (o *evalOptions) context(cmd *cobra.Command, root *rootOptions) (expr.Context, error) {
	ctx := expr.Context{}

	if o.matrixEntry >= 0 {
		cfg, err := root.loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		workflow, matrixJob := cfg.Docs.Workflow, cfg.Docs.MatrixJob
		if cmd.Flags().Changed("workflow") {
			workflow = o.workflow
		} else if !filepath.IsAbs(workflow) {
			workflow = filepath.Join(cfg.Docs.Root, workflow)
		}
		if cmd.Flags().Changed("matrix-job") {
			matrixJob = o.matrixJob
		}

		wf, err := actiondoc.LoadWorkflow(workflow, matrixJob, nil)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, clierrors.WorkflowNotFound(workflow)
			}
			return nil, clierrors.WrapWithMessage(err, clierrors.Runtime, "loading workflow")
		}
		if o.matrixEntry >= len(wf.Matrix) {
			return nil, clierrors.InvalidMatrixEntry(o.matrixEntry, len(wf.Matrix))
		}
		for k, v := range wf.Matrix[o.matrixEntry] {
			ctx[k] = v
		}
	}

	assignments := []struct {
		flag   string
		values []string
		value  func(string) (expr.Value, bool)
	}{
		{flag: "--set", values: o.set, value: func(s string) (expr.Value, bool) {
			return expr.String(s), true
		}},
		{flag: "--set-bool", values: o.setBool, value: func(s string) (expr.Value, bool) {
			b, err := strconv.ParseBool(s)
			return expr.Bool(b), err == nil
		}},
		{flag: "--set-list", values: o.setList, value: func(s string) (expr.Value, bool) {
			return expr.List(splitList(s)...), true
		}},
	}
	for _, a := range assignments {
		for _, assignment := range a.values {
			name, raw, ok := strings.Cut(assignment, "=")
			name = strings.TrimPrefix(strings.TrimSpace(name), "matrix.")
			if !ok || name == "" {
				return nil, clierrors.InvalidAssignment(a.flag, assignment)
			}
			value, ok := a.value(raw)
			if !ok {
				return nil, clierrors.InvalidAssignment(a.flag, assignment)
			}
			ctx[name] = value
		}
	}

	return ctx, nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
