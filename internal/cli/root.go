// Package cli implements the pgext command line: catalog listing,
// workspace setup, postgresql.conf editing, in-process sessions and the
// scenario harness.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/logging"
	"github.com/roach88/pgext/internal/workspace"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string   // "json" | "text"
	EnvFiles []string // .env files holding PGEXT_* overrides
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pgext CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pgext",
		Short: "pgext - cooperative hook chains for database extensions",
		Long: `Manage and exercise extensions that share the planner and executor hooks.

Extensions are described in a CUE catalog (plugindb.cue). pgext resolves
their dependencies, edits shared_preload_libraries in a workspace's
postgresql.conf, and runs queries through an in-process host with the
extensions loaded behind the hook-chain manager.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out := newFormatter(cmd, opts)
			if !slices.Contains(ValidFormats, opts.Format) {
				out.Format = "text"
				return out.Fail(ExitCommandError, ErrCodeGeneric,
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := workspace.LoadEnv(opts.EnvFiles...); err != nil {
				return out.Fail(ExitCommandError, ErrCodeGeneric, err)
			}

			level := "warn"
			if opts.Verbose {
				level = "debug"
			}
			logging.Global(logging.Config{Level: level, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "env files with PGEXT_* overrides (default .env)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewPreloadCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHooksCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}
