package main

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/heimdex/heimdex-editor/internal/config"
	"github.com/heimdex/heimdex-editor/internal/library"
	"github.com/heimdex/heimdex-editor/internal/logging"
	"github.com/heimdex/heimdex-editor/internal/timeline"
)

var (
	port     int
	debug    bool
	headless bool

	rootCmd = &cobra.Command{
		Use:   "heimdex-editor",
		Short: "Local timeline editor agent",
		Long: `heimdex-editor runs a local timeline editing agent: a mock media library,
a clip timeline with trimming and playback, and background EDL exports, all
driven over a loopback HTTP API and an optional menu bar tray.

Examples:
  heimdex-editor                       # Run the agent with default settings
  heimdex-editor --port 9000 --debug   # Custom port with debug logging
  heimdex-editor --headless            # No system tray
  heimdex-editor library               # Print the media library`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the editor agent (default)",
		RunE:  runServe,
	}

	libraryCmd = &cobra.Command{
		Use:   "library",
		Short: "Print the media library catalog",
		RunE:  runLibrary,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0,
		"HTTP port (overrides "+config.EnvPort+")")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&headless, "headless", false,
		"Run without the system tray")

	rootCmd.AddCommand(serveCmd, libraryCmd, versionCmd)
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig(cmd *cobra.Command) (*config.EnvConfig, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		if err := cfg.SetPort(strconv.Itoa(port)); err != nil {
			return nil, err
		}
	}
	if debug {
		cfg.SetLogLevel("debug")
	}
	if cmd.Flags().Changed("headless") {
		cfg.SetHeadless(headless)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return run(cfg)
}

func runLibrary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg, logging.Discard())
	if err != nil {
		return err
	}
	printLibrary(cmd.OutOrStdout(), catalog.List())
	return nil
}

func printLibrary(w io.Writer, records []library.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTITLE\tTYPE\tDURATION\tCOLOR")

	var total float64
	for i, r := range records {
		total += r.Duration
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Title, r.Type, timeline.FormatTimecode(r.Duration), r.Color)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%s, %s of media\n",
		humanize.Plural(len(records), "clip", "clips"), timeline.FormatTimecode(total))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "heimdex-editor %s\n", config.Version)
	fmt.Fprintf(w, "  commit:  %s\n", config.GitCommit)
	fmt.Fprintf(w, "  built:   %s\n", config.BuildTime)
	fmt.Fprintf(w, "  go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
