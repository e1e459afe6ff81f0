package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWantedCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wanted",
		Short: "Manage the want-list",
	}
	cmd.AddCommand(newWantedAddCommand(newClientFn))
	cmd.AddCommand(newWantedRemoveCommand(newClientFn))
	return cmd
}

func newWantedAddCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a title to the want-list",
		Args:  cobra.ExactArgs(1),
	}
	year := cmd.Flags().Int("year", 0, "release year (0 = unset)")
	contentType := cmd.Flags().String("content-type", "movie", "movie or tv_season")
	notes := cmd.Flags().String("notes", "", "free-form notes")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		req := addWantedRequest{
			Title:       args[0],
			Year:        yearArg(*year),
			ContentType: *contentType,
			Notes:       *notes,
		}
		id, err := newClientFn().addWanted(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added wanted entry %d\n", id)
		return nil
	}
	return cmd
}

func newWantedRemoveCommand(newClientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a want-list entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid wanted id: %w", err)
			}
			if err := newClientFn().removeWanted(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed wanted entry %d\n", id)
			return nil
		},
	}
}
