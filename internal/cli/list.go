package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/catalog"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Catalog string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the extensions in the catalog",
		Long: `List every extension in the catalog in declaration order, with its
kind, version, install strategy and dependencies.

Examples:
  pgext list
  pgext list --catalog ./plugindb.cue --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", catalog.DefaultFile, "path to the extension catalog")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	out := newFormatter(cmd, opts.RootOptions)

	cat, err := loadCatalog(out, opts.Catalog)
	if err != nil {
		return err
	}

	if out.JSON() {
		return out.Success(cat.Plugins)
	}

	tw := tabwriter.NewWriter(out.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVERSION\tSTRATEGY\tDEPENDS ON")
	for _, p := range cat.Plugins {
		deps := strings.Join(p.Dependencies, ",")
		if deps == "" {
			deps = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Kind, p.Version, p.InstallStrategy, deps)
	}
	return tw.Flush()
}

// loadCatalog loads the catalog and reports failures through out.
func loadCatalog(out *OutputFormatter, path string) (*catalog.Catalog, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, out.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("catalog not found: %s", path))
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeCatalog, err)
	}
	out.VerboseLog("loaded %d plugins from %s", len(cat.Plugins), path)
	return cat, nil
}
