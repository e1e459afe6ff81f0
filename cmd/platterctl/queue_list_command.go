package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newQueueListCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List jobs in the pipeline",
	}
	limit := cmd.Flags().Int("limit", 50, "maximum jobs to show")
	all := cmd.Flags().Bool("all", false, "include archived jobs")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		jobs, err := newClientFn().listJobs(cmd.Context(), *limit, *all)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(jobs) == 0 {
			fmt.Fprintln(out, "no jobs")
			return nil
		}
		rows := make([][]string, 0, len(jobs))
		for _, job := range jobs {
			title := job.IdentifiedTitle
			if title == "" {
				title = job.Label
			}
			rows = append(rows, []string{
				fmt.Sprintf("%d", job.ID),
				job.Drive,
				string(job.Status),
				title,
				humanize.Time(job.UpdatedAt),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"ID", "DRIVE", "STATUS", "TITLE", "UPDATED"}, rows))
		return nil
	}
	return cmd
}
