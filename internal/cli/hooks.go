package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/hookchain"
)

// HooksOptions holds flags for the hooks command.
type HooksOptions struct {
	*RootOptions
	SessionOptions
}

// NewHooksCommand creates the hooks command.
func NewHooksCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HooksOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Show owners, hook chains and slot contents",
		Long: `Load the requested extensions and print what the hook-chain manager
holds: the owners with their enabled state, every chain in dispatch order,
and the raw hook slots with the address of the installed function.

Examples:
  pgext hooks --ext pg_trace,pg_limit
  pgext hooks --ext pg_trace --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHooks(cmd, opts)
		},
	}

	opts.addFlags(cmd)

	return cmd
}

func runHooks(cmd *cobra.Command, opts *HooksOptions) error {
	out := newFormatter(cmd, opts.RootOptions)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, out, &opts.SessionOptions)
	if err != nil {
		return err
	}
	defer s.Close()

	state := s.state()
	if out.JSON() {
		return out.Success(state)
	}

	w := out.Writer
	printOwners(w, state.Owners)
	printChains(w, state.Chains)
	fmt.Fprintln(w, "Slots:")
	for _, slot := range state.Slots {
		fmt.Fprintf(w, "  %s\n", slot)
	}
	return nil
}

func printOwners(w io.Writer, owners []hookchain.OwnerStatus) {
	fmt.Fprintln(w, "Owners:")
	if len(owners) == 0 {
		fmt.Fprintln(w, "  (none)")
		fmt.Fprintln(w)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, o := range owners {
		state := "enabled"
		if !o.Enabled {
			state = "disabled"
		}
		if o.Internal {
			state += " (internal)"
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\n", o.Order, o.Name, state)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printChains(w io.Writer, chains []hookchain.ChainEntry) {
	fmt.Fprintln(w, "Chains:")
	if len(chains) == 0 {
		fmt.Fprintln(w, "  (none)")
		fmt.Fprintln(w)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range chains {
		mark := ""
		if !e.Enabled {
			mark = "disabled"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\n", e.Point, e.Position, e.Owner, e.Kind, mark)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
