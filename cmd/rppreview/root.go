package main

import (
	"github.com/spf13/cobra"

	"rppreview/internal/config"
	"rppreview/internal/rpp"
)

type renderFlags struct {
	inputDir  string
	outputDir string
	format    string
	reaperBin string
	start     float64
	duration  float64
	timeout   int
	dryRun    bool
	force     bool
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags renderFlags

	ctx := newCommandContext(&configFlag)
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "rppreview",
		Short: "Render short audio previews of REAPER projects",
		Long: `Scan a directory tree for REAPER projects (.rpp) and render a short preview
of each one through REAPER's headless command-line renderer.

Projects whose preview is newer than the project file are skipped unless
--force is given. Source projects are never modified; each render works on a
patched temporary copy.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, ctx, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	fs := rootCmd.Flags()
	fs.StringVar(&flags.inputDir, "input-dir", defaults.Paths.InputDir, "Directory to scan for .rpp files")
	fs.StringVar(&flags.outputDir, "output-dir", defaults.Paths.OutputDir, "Directory for rendered previews")
	fs.StringVar(&flags.format, "format", defaults.Render.Format, "Output format ("+rpp.FormatNames(" or ")+")")
	fs.Float64Var(&flags.start, "start", defaults.Render.Start, "Preview start time in seconds")
	fs.Float64Var(&flags.duration, "duration", defaults.Render.Duration, "Preview duration in seconds")
	fs.StringVar(&flags.reaperBin, "reaper-bin", "", "Path to the REAPER executable (auto-detected when empty)")
	fs.IntVar(&flags.timeout, "timeout", defaults.Render.Timeout, "Per-project render timeout in seconds")
	fs.BoolVar(&flags.dryRun, "dry-run", false, "List projects without rendering")
	fs.BoolVar(&flags.force, "force", false, "Re-render even when the preview is up to date")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
