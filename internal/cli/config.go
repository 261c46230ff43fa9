package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alandefreitas/cpp-actions-tools/internal/config"
	clierrors "github.com/alandefreitas/cpp-actions-tools/internal/errors"
	"github.com/alandefreitas/cpp-actions-tools/internal/output"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cpp-actions configuration",
		Long: `Manage cpp-actions configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CPP_ACTIONS_*, with __ between sections)
  3. Project config (.cpp-actions.yml or .cpp-actions.json, or --config)
  4. User config (~/.config/cpp-actions/config.yml)
  5. Built-in defaults`,
		Example: `  # Show the effective configuration
  cpp-actions config show

  # Write a commented .cpp-actions.yml
  cpp-actions config init`,
		GroupID: GroupConfiguration,
	}

	cmd.AddCommand(newConfigShowCmd(root), newConfigInitCmd())
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return enc.Close()
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default configuration file",
		Example: `  # Project config in the current directory
  cpp-actions config init

  # User config, replacing an existing one
  cpp-actions config init --user --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user {
				userPath, err := config.UserConfigPath()
				if err != nil {
					return clierrors.WrapWithMessage(err, clierrors.Configuration, "locating user config")
				}
				path = userPath
			}
			if _, err := os.Stat(path); err == nil && !force {
				return clierrors.FileExists(path)
			}
			if user {
				dir, err := config.UserConfigDir()
				if err != nil {
					return clierrors.WrapWithMessage(err, clierrors.Configuration, "locating user config")
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return clierrors.FileNotWritable(dir, err)
				}
			}
			if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
				return clierrors.FileNotWritable(path, err)
			}
			output.PrintSuccess(cmd.OutOrStdout(), "Wrote "+path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "output", "o", config.ProjectConfigPath(), "File to write")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&user, "user", false, "Write the user config instead of the project config")
	return cmd
}
