package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alandefreitas/cpp-actions-tools/internal/build"
)

func newVersionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for cpp-actions",
		Example: `  # Show version info
  cpp-actions version

  # Plain output (for scripts)
  cpp-actions version --plain`,
		Args:    cobra.NoArgs,
		GroupID: GroupConfiguration,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if plain {
				fmt.Fprintf(out, "cpp-actions %s\n", build.Version)
				fmt.Fprintf(out, "commit: %s\n", build.Commit)
				fmt.Fprintf(out, "built: %s\n", build.BuildDate)
				fmt.Fprintf(out, "go: %s\n", runtime.Version())
				fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
				return
			}

			label := color.New(color.FgCyan).SprintFunc()
			fmt.Fprintln(out, color.New(color.Bold).Sprint(build.Summary()))
			fmt.Fprintf(out, "%s %s\n", label("go:      "), runtime.Version())
			fmt.Fprintf(out, "%s %s/%s\n", label("platform:"), runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}
