package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newActiveModeCommand(newClientFn func() *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "active-mode",
		Short: "Inspect or change active mode (suppresses operator alerts when off)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current active-mode state",
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := newClientFn().activeMode(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), onOff(on))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Flip active mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := newClientFn().toggleActiveMode(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), onOff(on))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <on|off>",
		Short: "Set active mode explicitly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			switch args[0] {
			case "on", "true":
				on = true
			case "off", "false":
				on = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			result, err := newClientFn().setActiveMode(cmd.Context(), on)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), onOff(result))
			return nil
		},
	})

	return cmd
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
