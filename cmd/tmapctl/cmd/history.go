package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tmapmcp/internal/storage"
)

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the tool call journal written by tmapmcp",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, _ := cmd.Flags().GetString("tool")
			limit, _ := cmd.Flags().GetInt("limit")
			stats, _ := cmd.Flags().GetBool("stats")
			prune, _ := cmd.Flags().GetDuration("prune")

			path := a.v.GetString("history-db")
			if path == "" {
				return errors.New("no journal: set --db or TMAP_HISTORY_DB")
			}
			db, err := storage.Open(path, a.logger(cmd))
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			defer w.Flush()

			switch {
			case prune > 0:
				n, err := db.PruneCalls(ctx, time.Now().Add(-prune))
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "pruned %d calls\n", n)
			case stats:
				rows, err := db.CallStats(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "TOOL\tCALLS\tEMPTY\tERRORS\tAVG\tLAST")
				for _, s := range rows {
					fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
						s.Tool, s.Calls, s.Empty, s.Errors, s.AvgLatency, s.LastCalled.Format(time.RFC3339))
				}
			default:
				calls, err := db.RecentCalls(ctx, tool, limit)
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "CALLED\tTOOL\tSTATUS\tDURATION\tARGS")
				for _, c := range calls {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
						c.CalledAt.Format(time.RFC3339), c.Tool, c.Status, c.Duration, c.Args)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("db", "", "journal database (env TMAP_HISTORY_DB)")
	cmd.Flags().String("tool", "", "only show calls of this tool")
	cmd.Flags().Int("limit", 20, "number of calls to show")
	cmd.Flags().Bool("stats", false, "show per-tool totals instead")
	cmd.Flags().Duration("prune", 0, "delete calls older than this and exit")
	_ = a.v.BindPFlag("history-db", cmd.Flags().Lookup("db"))
	return cmd
}
