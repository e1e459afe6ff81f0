package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var apiAddr string

	rootCmd := &cobra.Command{
		Use:           "platterctl",
		Short:         "Control surface CLI for the platterd ingestion daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:9876", "platterd control-surface base URL")

	newClientFn := func() *client { return newClient(apiAddr) }

	rootCmd.AddCommand(newQueueListCommand(newClientFn))
	rootCmd.AddCommand(newApproveCommand(newClientFn))
	rootCmd.AddCommand(newIdentifyCommand(newClientFn))
	rootCmd.AddCommand(newSkipCommand(newClientFn))
	rootCmd.AddCommand(newPreIdentifyCommand(newClientFn))
	rootCmd.AddCommand(newArchiveCommand(newClientFn))
	rootCmd.AddCommand(newOversightCommand(newClientFn))
	rootCmd.AddCommand(newActiveModeCommand(newClientFn))
	rootCmd.AddCommand(newWantedCommand(newClientFn))

	return rootCmd
}
