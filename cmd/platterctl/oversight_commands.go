package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newOversightCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oversight",
		Short: "Inspect and repair queue consistency issues",
	}
	cmd.AddCommand(newOversightCheckCommand(newClientFn))
	cmd.AddCommand(newOversightFixEncodingCommand(newClientFn))
	return cmd
}

func newOversightCheckCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "List current consistency issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := newClientFn().oversightCheck(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "no issues detected")
				return nil
			}
			rows := make([][]string, 0, len(issues))
			for _, issue := range issues {
				ids := make([]string, len(issue.JobIDs))
				for i, id := range issue.JobIDs {
					ids[i] = strconv.FormatInt(id, 10)
				}
				rows = append(rows, []string{issue.Kind, issue.Detail, strings.Join(ids, ",")})
			}
			fmt.Fprintln(out, renderTable([]string{"KIND", "DETAIL", "JOB IDS"}, rows))
			return nil
		},
	}
}

func newOversightFixEncodingCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-encoding",
		Short: "Revert every encoding job but the newest back to ripped",
		RunE: func(cmd *cobra.Command, args []string) error {
			repaired, err := newClientFn().oversightFixEncoding(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "repaired %d job(s)\n", repaired)
			return nil
		},
	}
}
