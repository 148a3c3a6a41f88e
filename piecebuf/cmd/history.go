package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/datarecording"
	"github.com/spf13/cobra"
)

const (
	flagHistorySession  = "session"
	flagHistoryOp       = "op"
	flagHistoryFailed   = "failed"
	flagHistoryLimit    = "limit"
	flagHistoryOffset   = "offset"
	flagHistorySessions = "sessions"
)

func newHistoryCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "history <file.sqlite3>",
		Short: "Print the operations recorded in a session database.",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistory,
	}

	c.Flags().String(flagHistorySession, "", "Only show this session.")
	c.Flags().String(flagHistoryOp, "", "Only show this operation, by name or menu code.")
	c.Flags().Bool(flagHistoryFailed, false, "Only show rejected operations.")
	c.Flags().Int(flagHistoryLimit, 0, "Show at most this many operations; 0 shows all.")
	c.Flags().Int(flagHistoryOffset, 0, "Skip this many operations.")
	c.Flags().Bool(flagHistorySessions, false, "List the recorded sessions instead.")

	return c
}

func runHistory(c *cobra.Command, args []string) error {
	reader, err := datarecording.Open(args[0])
	if err != nil {
		return err
	}
	defer reader.Close()

	if listSessions, _ := c.Flags().GetBool(flagHistorySessions); listSessions {
		sessions, err := reader.Sessions(c.Context())
		if err != nil {
			return err
		}

		for _, s := range sessions {
			fmt.Fprintln(c.OutOrStdout(), s)
		}

		return nil
	}

	filter, err := historyFilter(c)
	if err != nil {
		return err
	}

	page, err := reader.Operations(c.Context(), filter)
	if err != nil {
		return err
	}

	return printHistory(c.OutOrStdout(), page)
}

func historyFilter(c *cobra.Command) (datarecording.Filter, error) {
	flags := c.Flags()

	var f datarecording.Filter
	f.Session, _ = flags.GetString(flagHistorySession)
	f.FailedOnly, _ = flags.GetBool(flagHistoryFailed)
	f.Limit, _ = flags.GetInt(flagHistoryLimit)
	f.Offset, _ = flags.GetInt(flagHistoryOffset)

	if f.Limit < 0 || f.Offset < 0 {
		return f, fmt.Errorf("--%s and --%s must not be negative",
			flagHistoryLimit, flagHistoryOffset)
	}

	if name, _ := flags.GetString(flagHistoryOp); name != "" {
		op, err := buffer.ParseOp(name)
		if err != nil {
			return f, err
		}

		f.Op = op.String()
	}

	return f, nil
}

func printHistory(out io.Writer, page datarecording.Page) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tSEQ\tOP\tRESULT\tQUEUE\tRESERVE")

	for _, e := range page.Entries {
		result := "ok"
		if !e.Success {
			result = "error: " + e.Error
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			e.Session, e.Seq, e.Op, result, e.Queue, e.Reserve)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if len(page.Entries) < page.Total {
		fmt.Fprintf(out, "(%d of %d operations shown)\n",
			len(page.Entries), page.Total)
	}

	return nil
}
