package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/Iguana/internal/engine"
)

func newValidateCmd(a *app) *cobra.Command {
	var workflow string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Parse and validate a workflow without running it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := a.output(cmd)

			wf, err := engine.Load(cmd.Context(), a.cfg.HTTPClient, workflow)
			if err != nil {
				return err
			}

			for _, w := range engine.Lint(wf) {
				out.Warn(w)
			}

			headers := []string{"JOB", "IMAGE", "SERVICES", "NEEDS", "CONTINUE_ON_ERROR"}
			rows := make([][]string, len(wf.Jobs))
			for i, nj := range wf.Jobs {
				services := make([]string, len(nj.Job.Services))
				for j, svc := range nj.Job.Services {
					services[j] = svc.Name
				}
				rows[i] = []string{
					nj.Name,
					nj.Job.Container.Image,
					strings.Join(services, ","),
					strings.Join(nj.Job.Needs, ","),
					strconv.FormatBool(nj.Job.ContinueOnError),
				}
			}

			out.Print(headers, rows, wf)
			out.Success("workflow " + wf.DisplayName() + " is valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&workflow, "workflow", "f", defaultWorkflow, "Workflow file or URL")

	return cmd
}
