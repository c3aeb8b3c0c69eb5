package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/workspace"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Root     string
	Database string
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init <pg_config> <pg_data> <pg_contrib>",
		Short: "Create the pgext work directory",
		Long: `Record the server installation pgext should manage.

Writes pgextworkdir/config.toml under the project root. The data directory
must already contain postgresql.conf.

Examples:
  pgext init /usr/local/pgsql/bin/pg_config /var/lib/pgsql/data ./contrib
  pgext init $PG_CONFIG $PGDATA ./contrib --database regression`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Root, "root", ".", "project root that receives the work directory")
	cmd.Flags().StringVar(&opts.Database, "database", "", "database the extensions are installed into")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions, args []string) error {
	out := newFormatter(cmd, opts.RootOptions)

	cfg := workspace.Config{Database: opts.Database}
	for i, dst := range []*string{&cfg.PGConfig, &cfg.PGData, &cfg.PGContrib} {
		abs, err := filepath.Abs(args[i])
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeGeneric, err)
		}
		*dst = abs
	}

	if err := workspace.Init(opts.Root, cfg); err != nil {
		return out.Fail(ExitCommandError, ErrCodeWorkspace, err)
	}

	path := workspace.Path(opts.Root)
	if out.JSON() {
		return out.Success(map[string]any{"config": path, "workspace": cfg})
	}
	fmt.Fprintf(out.Writer, "Initialized %s\n", path)
	fmt.Fprintf(out.Writer, "  pg_data: %s\n", cfg.PGData)
	return nil
}
