package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/joodock/internal/hotzone"
	"github.com/jmylchreest/joodock/internal/pointer"
)

var zoneOpts struct {
	screenWidth  int
	screenHeight int
	output       string
}

// ZoneReport describes the computed regions for one screen size.
type ZoneReport struct {
	Screen      hotzone.Size `json:"screen" yaml:"screen"`
	Hover       RectReport   `json:"hover" yaml:"hover"`
	Popup       RectReport   `json:"popup" yaml:"popup"`
	Safe        RectReport   `json:"safe" yaml:"safe"`
	ShowDelayMS int64        `json:"show_delay_ms" yaml:"show_delay_ms"`
	HideDelayMS int64        `json:"hide_delay_ms" yaml:"hide_delay_ms"`
	PollMS      int64        `json:"poll_interval_ms" yaml:"poll_interval_ms"`
	Backend     string       `json:"backend,omitempty" yaml:"backend,omitempty"`
}

// RectReport is an inclusive pixel rectangle.
type RectReport struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

var zoneCmd = &cobra.Command{
	Use:   "zone",
	Short: "Print the hover zone, popup and safe area geometry",
	Long: `Print the regions joodockd uses for a screen: the hover zone that opens
the popup, the popup bounds, and the safe area that keeps it open.

Without --screen-width/--screen-height the screen size is read from the
configured pointer backend.`,
	Args: cobra.NoArgs,
	RunE: runZone,
}

func init() {
	rootCmd.AddCommand(zoneCmd)

	zoneCmd.Flags().IntVar(&zoneOpts.screenWidth, "screen-width", 0, "Screen width in pixels")
	zoneCmd.Flags().IntVar(&zoneOpts.screenHeight, "screen-height", 0, "Screen height in pixels")
	zoneCmd.Flags().StringVarP(&zoneOpts.output, "output", "o", "text", "Output format (text, json, yaml)")
}

func runZone(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	screen := hotzone.Size{Width: zoneOpts.screenWidth, Height: zoneOpts.screenHeight}
	backend := ""
	if screen.Width <= 0 || screen.Height <= 0 {
		var sampler hotzone.Sampler
		sampler, backend, err = pointer.New(cfg.Pointer.Backend)
		if err != nil {
			return err
		}
		ctx, cancel := callContext(cmd.Context())
		screen, err = sampler.ScreenSize(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to read screen size (pass --screen-width and --screen-height): %w", err)
		}
	}

	report := buildZoneReport(screen, cfg.HotzoneSettings())
	report.Backend = backend
	return writeZoneReport(cmd.OutOrStdout(), report, zoneOpts.output)
}

func buildZoneReport(screen hotzone.Size, settings hotzone.Settings) ZoneReport {
	z := hotzone.ComputeZones(screen, settings)
	return ZoneReport{
		Screen:      z.Screen,
		Hover:       rectReport(z.Hover),
		Popup:       rectReport(z.Popup),
		Safe:        rectReport(z.Safe),
		ShowDelayMS: settings.ShowDelay.Milliseconds(),
		HideDelayMS: settings.HideDelay.Milliseconds(),
		PollMS:      settings.PollInterval.Milliseconds(),
	}
}

func rectReport(r hotzone.Rect) RectReport {
	return RectReport{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}
}

func (r RectReport) String() string {
	return hotzone.Rect{Left: r.Left, Top: r.Top, Right: r.Right, Bottom: r.Bottom}.String()
}

func writeZoneReport(w io.Writer, report ZoneReport, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal zone report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal zone report: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "screen\t%dx%d\n", report.Screen.Width, report.Screen.Height)
		fmt.Fprintf(tw, "hover\t%s\n", report.Hover)
		fmt.Fprintf(tw, "popup\t%s\n", report.Popup)
		fmt.Fprintf(tw, "safe\t%s\n", report.Safe)
		fmt.Fprintf(tw, "show delay\t%dms\n", report.ShowDelayMS)
		fmt.Fprintf(tw, "hide delay\t%dms\n", report.HideDelayMS)
		fmt.Fprintf(tw, "poll interval\t%dms\n", report.PollMS)
		if report.Backend != "" {
			fmt.Fprintf(tw, "backend\t%s\n", report.Backend)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (text, json, yaml)", format)
	}
}
