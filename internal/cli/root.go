// Package cli implements the cpp-actions command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alandefreitas/cpp-actions-tools/internal/actiondoc"
	"github.com/alandefreitas/cpp-actions-tools/internal/changelog"
	"github.com/alandefreitas/cpp-actions-tools/internal/config"
	clierrors "github.com/alandefreitas/cpp-actions-tools/internal/errors"
	"github.com/alandefreitas/cpp-actions-tools/internal/git"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupGenerate      = "generate"
	GroupTools         = "tools"
	GroupConfiguration = "configuration"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	debug      bool
	noColor    bool
}

// NewRootCmd builds the cpp-actions command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cpp-actions",
		Short: "Maintenance tools for the cpp-actions repository",
		Long: `cpp-actions generates the release changelog and the action reference pages
of a GitHub Actions repository, and evaluates the ${{ }} expressions used by
its CI workflow.

Configuration is read from .cpp-actions.yml, ~/.config/cpp-actions/config.yml
and CPP_ACTIONS_* environment variables.

Source: https://github.com/alandefreitas/cpp-actions`,
		Example: `  # Generate CHANGELOG.md from the commits since the last release
  cpp-actions changelog

  # Regenerate the action pages whenever an action.yml changes
  cpp-actions docs --watch

  # Resolve an expression against the first build matrix entry
  cpp-actions eval --matrix-entry 0 '${{ matrix.compiler }}'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupGenerate, Title: "Generators:"},
		&cobra.Group{ID: GroupTools, Title: "Tools:"},
		&cobra.Group{ID: GroupConfiguration, Title: "Configuration:"},
	)

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Project config file (default: .cpp-actions.yml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Print debug output to stderr")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine(),
			fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})

	cmd.AddCommand(
		newChangelogCmd(opts),
		newDocsCmd(opts),
		newEvalCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// loadConfig loads the layered configuration and enables debug output when
// requested by --debug or the debug key.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	setDebugLoggers(cmd.ErrOrStderr(), o.debug || cfg.Debug)
	return cfg, nil
}

func setDebugLoggers(w io.Writer, enabled bool) {
	var logger func(format string, args ...any)
	if enabled {
		logger = func(format string, args ...any) {
			fmt.Fprintf(w, "[DEBUG] "+format+"\n", args...)
		}
	}
	git.SetDebugLogger(logger)
	changelog.SetDebugLogger(logger)
	actiondoc.SetDebugLogger(logger)
}

// Execute runs the root command until it finishes or the process is
// interrupted, and reports any error on stderr.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err unless it is an ExitError, whose cause has already
// been printed.
func reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprint(w, clierrors.FormatSimpleError(err, clierrors.Runtime))
}
