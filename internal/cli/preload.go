package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/catalog"
	"github.com/roach88/pgext/internal/workspace"
)

// PreloadOptions holds flags for the preload command.
type PreloadOptions struct {
	*RootOptions
	Catalog string
	Root    string
	DryRun  bool
}

// PreloadResult is the JSON payload of the preload command.
type PreloadResult struct {
	Config    string   `json:"config"`
	Resolved  []string `json:"resolved"`
	Preloaded []string `json:"shared_preload_libraries"`
	Install   []string `json:"install,omitempty"`
	DryRun    bool     `json:"dry_run,omitempty"`
}

// NewPreloadCommand creates the preload command.
func NewPreloadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PreloadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "preload [names...]",
		Short: "Write shared_preload_libraries for the named extensions",
		Long: `Resolve the named extensions and their dependencies, then rewrite
shared_preload_libraries in the workspace's postgresql.conf. Session and
local preload settings are cleared. With no names every catalog entry is
resolved.

Examples:
  pgext preload pg_trace
  pgext preload pg_trace pg_limit --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreload(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", catalog.DefaultFile, "path to the extension catalog")
	cmd.Flags().StringVar(&opts.Root, "root", ".", "project root holding the work directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "show the result without editing postgresql.conf")

	return cmd
}

func runPreload(cmd *cobra.Command, opts *PreloadOptions, names []string) error {
	out := newFormatter(cmd, opts.RootOptions)

	cat, err := loadCatalog(out, opts.Catalog)
	if err != nil {
		return err
	}
	plugins, err := cat.Resolve(names...)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeCatalog, err)
	}

	cfg, err := workspace.Load(opts.Root)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeWorkspace, err)
	}
	cfg = workspace.ApplyEnv(cfg)

	result := PreloadResult{
		Config:    cfg.PGConfPath(),
		Preloaded: catalog.SharedPreloadLibraries(plugins),
		DryRun:    opts.DryRun,
	}
	for _, p := range plugins {
		result.Resolved = append(result.Resolved, p.Name)
		if p.InstallStrategy.Installs() {
			result.Install = append(result.Install, p.Name)
		}
	}

	if !opts.DryRun {
		if err := workspace.EditPGConf(result.Config, result.Preloaded); err != nil {
			return out.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		out.VerboseLog("rewrote %s", result.Config)
	}

	if out.JSON() {
		return out.Success(result)
	}
	w := out.Writer
	fmt.Fprintf(w, "Resolved: %s\n", strings.Join(result.Resolved, ", "))
	fmt.Fprintf(w, "shared_preload_libraries = '%s'\n", strings.Join(result.Preloaded, ","))
	if len(result.Install) > 0 {
		fmt.Fprintf(w, "Needs CREATE EXTENSION: %s\n", strings.Join(result.Install, ", "))
	}
	if opts.DryRun {
		fmt.Fprintf(w, "(dry run, %s not modified)\n", result.Config)
	} else {
		fmt.Fprintf(w, "Updated %s\n", result.Config)
	}
	return nil
}
