package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func parseJobID(args []string) (int64, error) {
	return strconv.ParseInt(args[0], 10, 64)
}

func printJobResult(cmd *cobra.Command, resp jobActionResponse) {
	fmt.Fprintf(cmd.OutOrStdout(), "job %d -> %s\n", resp.JobID, resp.Status)
}

func newApproveCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <job-id>",
		Short: "Approve a job in review and send it to the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args)
			if err != nil {
				return fmt.Errorf("invalid job id: %w", err)
			}
			resp, err := newClientFn().jobAction(cmd.Context(), jobID, "approve", nil)
			if err != nil {
				return err
			}
			printJobResult(cmd, resp)
			return nil
		},
	}
}

func newSkipCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "skip <job-id>",
		Short: "Skip a job in review, failing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args)
			if err != nil {
				return fmt.Errorf("invalid job id: %w", err)
			}
			resp, err := newClientFn().jobAction(cmd.Context(), jobID, "skip", nil)
			if err != nil {
				return err
			}
			printJobResult(cmd, resp)
			return nil
		},
	}
}

func newArchiveCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <job-id>",
		Short: "Archive a complete or failed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := parseJobID(args)
			if err != nil {
				return fmt.Errorf("invalid job id: %w", err)
			}
			resp, err := newClientFn().jobAction(cmd.Context(), jobID, "archive", nil)
			if err != nil {
				return err
			}
			printJobResult(cmd, resp)
			return nil
		},
	}
}

func identifyFlags(cmd *cobra.Command) (titleFlag *string, yearFlag *int) {
	title := cmd.Flags().String("title", "", "title to assign")
	year := cmd.Flags().Int("year", 0, "release year (0 = unset)")
	return title, year
}

func yearArg(year int) *int {
	if year <= 0 {
		return nil
	}
	return &year
}

func newIdentifyCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <job-id>",
		Short: "Assign identification to a job in review and send it to the library",
		Args:  cobra.ExactArgs(1),
	}
	title, year := identifyFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		jobID, err := parseJobID(args)
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		body := map[string]any{"title": *title, "year": yearArg(*year)}
		resp, err := newClientFn().jobAction(cmd.Context(), jobID, "identify", body)
		if err != nil {
			return err
		}
		printJobResult(cmd, resp)
		return nil
	}
	return cmd
}

func newPreIdentifyCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pre-identify <job-id>",
		Short: "Assign identification to a job before it reaches review, without changing its status",
		Args:  cobra.ExactArgs(1),
	}
	title, year := identifyFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		jobID, err := parseJobID(args)
		if err != nil {
			return fmt.Errorf("invalid job id: %w", err)
		}
		body := map[string]any{"title": *title, "year": yearArg(*year)}
		resp, err := newClientFn().jobAction(cmd.Context(), jobID, "pre_identify", body)
		if err != nil {
			return err
		}
		printJobResult(cmd, resp)
		return nil
	}
	return cmd
}
