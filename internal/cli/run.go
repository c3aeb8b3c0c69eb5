package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/pgext/internal/extensions"
	"github.com/roach88/pgext/internal/host"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	SessionOptions
	Disable []string
}

// QueryOutput is one executed statement.
type QueryOutput struct {
	SQL       string   `json:"sql"`
	QueryID   string   `json:"query_id,omitempty"`
	Command   string   `json:"command,omitempty"`
	Processed uint64   `json:"processed"`
	Columns   []string `json:"columns,omitempty"`
	Rows      [][]any  `json:"rows,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// RunResult is the JSON payload of the run command.
type RunResult struct {
	SessionState
	Queries []QueryOutput      `json:"queries"`
	Trace   []extensions.Event `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <sql>...",
		Short: "Run statements with extensions loaded",
		Long: `Start an in-process host, load the requested extensions (and their
dependencies) in session order, then run each statement through the
planner and executor hooks. Prints the rows, the recorded hook events,
the owners and the hook chains.

Exit codes:
  0 - All statements succeeded
  1 - A statement failed or loading aborted
  2 - Command error (bad catalog, unknown extension, etc.)

Examples:
  pgext run --ext pg_trace "SELECT 1"
  pgext run --ext pg_mask,pg_limit --seed seed.sql "SELECT * FROM t"
  pgext run --ext pg_trace --disable pg_stats "SELECT 1" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "owners to disable before running")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions, statements []string) error {
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

	for _, owner := range opts.Disable {
		if err := s.manager.Disable(owner); err != nil {
			return out.Fail(ExitCommandError, ErrCodeNotFound, fmt.Errorf("disable %s: %w", owner, err))
		}
	}

	result := RunResult{Queries: make([]QueryOutput, 0, len(statements))}
	failed := 0
	for _, stmt := range statements {
		q := execute(ctx, s.host, stmt)
		if q.Error != "" {
			failed++
		}
		result.Queries = append(result.Queries, q)
	}
	result.SessionState = s.state()
	result.Trace = s.rec.Events()

	if out.JSON() {
		if err := out.Success(result); err != nil {
			return err
		}
	} else {
		printRun(out.Writer, result, opts.Verbose)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d statement(s) failed", failed))
	}
	return nil
}

func execute(ctx context.Context, h *host.Host, stmt string) QueryOutput {
	dest := host.NewCollector()
	q := QueryOutput{SQL: stmt}

	res, err := h.Exec(ctx, stmt, dest)
	if res != nil {
		q.QueryID = res.QueryID
		q.Command = res.Command.String()
		q.Processed = res.Processed
	}
	for _, col := range dest.Desc.Columns {
		q.Columns = append(q.Columns, col.Name)
	}
	q.Rows = dest.Rows

	if err != nil {
		q.Error = err.Error()
		var execErr *host.ExecError
		if errors.As(err, &execErr) {
			q.Error = string(execErr.Code)
			if execErr.Err != nil {
				q.Error += ": " + execErr.Err.Error()
			}
		}
	}
	return q
}

func printRun(w io.Writer, result RunResult, verbose bool) {
	for _, q := range result.Queries {
		fmt.Fprintf(w, "=> %s\n", q.SQL)
		if q.Error != "" {
			fmt.Fprintf(w, "ERROR: %s\n\n", q.Error)
			continue
		}
		if len(q.Columns) > 0 {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(q.Columns, "\t"))
			for _, row := range q.Rows {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = formatCell(v)
				}
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
			tw.Flush()
		}
		fmt.Fprintf(w, "(%s %d)\n\n", q.Command, q.Processed)
	}

	if len(result.Trace) > 0 {
		fmt.Fprintln(w, "Trace:")
		for _, e := range result.Trace {
			fmt.Fprintf(w, "  %3d  %s\n", e.Seq, e.Name)
		}
		fmt.Fprintln(w)
	}

	printOwners(w, result.Owners)
	if verbose {
		printChains(w, result.Chains)
	}
}

func formatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
