package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rppreview/internal/engine"
	"rppreview/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check the render engine and configured directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Environment", colorize) {
				fmt.Fprintln(out, line)
			}

			results := preflight.RunAll(cfg, engine.NewLocator())
			requiredFailed := false
			for _, result := range results {
				fmt.Fprintln(out, checkLine(result, colorize))
				if result.Required && !result.Passed {
					requiredFailed = true
				}
			}
			if requiredFailed {
				return errors.New("required checks failed")
			}
			return nil
		},
	}
}

func checkLine(result preflight.Result, colorize bool) string {
	kind := statusOK
	switch {
	case !result.Passed && result.Required:
		kind = statusError
	case !result.Passed:
		kind = statusWarn
	}
	return renderStatusLine(result.Name, kind, result.Detail, colorize)
}
