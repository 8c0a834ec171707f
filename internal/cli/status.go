package cli

import (
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	var addr string
	var runID string
	var history int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show runs of a runner started with --metrics-addr",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.output(cmd)
			client := NewClient(addr)
			ctx := cmd.Context()

			if history > 0 {
				runs, err := client.ListRuns(ctx, history)
				if err != nil {
					return err
				}
				printRuns(out, runs)
				return nil
			}

			var run *RunResponse
			var err error
			if runID != "" {
				run, err = client.GetRun(ctx, runID)
			} else {
				run, err = client.LastRun(ctx)
			}
			if err != nil {
				return err
			}

			printRun(out, *run)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "http://localhost:9090", "Status server address")
	cmd.Flags().StringVar(&runID, "id", "", "Show a run from history by ID")
	cmd.Flags().IntVar(&history, "history", 0, "List the last N runs from history")

	return cmd
}
