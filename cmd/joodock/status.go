package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/joodock/internal/dbus"
	"github.com/jmylchreest/joodock/internal/visibility"
)

var statusOpts struct {
	follow bool
	text   string
}

// WaybarStatus represents the Waybar custom module JSON format.
type WaybarStatus struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Output Waybar-compatible JSON status",
	Long: `Output the dock state in Waybar's custom module JSON format.

  "custom/joodock": {
    "exec": "joodock status --follow",
    "return-type": "json",
    "on-click": "joodock toggle --source tray"
  }

The class is "visible", "hidden", or "offline" when joodockd is not
running. With --follow a new line is written on every change.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&statusOpts.follow, "follow", "f", false,
		"Keep running and print a line on every visibility change")
	statusCmd.Flags().StringVar(&statusOpts.text, "text", "",
		"Module text (default: empty, style with the class)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	client, err := dbus.Connect()
	if err != nil {
		if errors.Is(err, dbus.ErrDaemonNotRunning) {
			return outputStatus(out, offlineStatus())
		}
		return err
	}

	ctx, cancel := callContext(cmd.Context())
	st, err := client.Status(ctx)
	cancel()
	if err != nil {
		return outputStatus(out, offlineStatus())
	}
	if err := outputStatus(out, buildStatus(st, statusOpts.text, time.Now())); err != nil {
		return err
	}

	if !statusOpts.follow {
		return nil
	}

	return client.WatchVisibility(cmd.Context(), func(visible bool, source visibility.Source) {
		st := dbus.Status{Visible: visible, Source: source, At: time.Now()}
		if err := outputStatus(out, buildStatus(st, statusOpts.text, st.At)); err != nil {
			logger.Warn("failed to write status", "error", err)
		}
	})
}

// buildStatus renders a daemon status for Waybar.
func buildStatus(st dbus.Status, text string, now time.Time) WaybarStatus {
	state := visibleWord(st.Visible)

	tooltip := "Dock " + state
	if st.HasTransition() {
		tooltip = fmt.Sprintf("Dock %s %s", state, humanize.RelTime(st.At, now, "ago", "from now"))
		if st.Source != "" {
			tooltip += fmt.Sprintf(" (%s)", st.Source)
		}
	}

	return WaybarStatus{
		Text:    text,
		Alt:     state,
		Tooltip: tooltip,
		Class:   state,
	}
}

func offlineStatus() WaybarStatus {
	return WaybarStatus{
		Text:    "",
		Alt:     "offline",
		Tooltip: "joodockd is not running",
		Class:   "offline",
	}
}

func outputStatus(w io.Writer, status WaybarStatus) error {
	if w == nil {
		w = os.Stdout
	}
	encoder := json.NewEncoder(w)
	return encoder.Encode(status)
}
