package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/joodock/internal/dbus"
	"github.com/jmylchreest/joodock/internal/visibility"
)

var visibilityOpts struct {
	source string
	quiet  bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the dock popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			if err := c.Show(ctx, commandSource()); err != nil {
				return err
			}
			printState(cmd, true)
			return nil
		})
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide",
	Short: "Hide the dock popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			if err := c.Hide(ctx, commandSource()); err != nil {
				return err
			}
			printState(cmd, false)
			return nil
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the dock popup",
	Long: `Toggle the dock popup. Bind this to a key or a tray click:

  bind = SUPER, D, exec, joodock toggle --source tray`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			ctx, cancel := callContext(cmd.Context())
			defer cancel()
			visible, err := c.Toggle(ctx, commandSource())
			if err != nil {
				return err
			}
			printState(cmd, visible)
			return nil
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{showCmd, hideCmd, toggleCmd} {
		cmd.Flags().StringVar(&visibilityOpts.source, "source", string(visibility.SourceCommand),
			"Who is asking (command, tray)")
		cmd.Flags().BoolVarP(&visibilityOpts.quiet, "quiet", "q", false,
			"Suppress output")
		rootCmd.AddCommand(cmd)
	}
}

func commandSource() visibility.Source {
	return visibility.ParseSource(visibilityOpts.source)
}

// withClient connects to the daemon and runs fn.
func withClient(fn func(c *dbus.Client) error) error {
	client, err := dbus.Connect()
	if err != nil {
		return err
	}
	return fn(client)
}

func printState(cmd *cobra.Command, visible bool) {
	if visibilityOpts.quiet {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Dock:", visibleWord(visible))
}

func visibleWord(visible bool) string {
	if visible {
		return "visible"
	}
	return "hidden"
}
