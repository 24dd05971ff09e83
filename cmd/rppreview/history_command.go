package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rppreview/internal/history"
)

const defaultHistoryLimit = 20

type historyRow struct {
	RunID      string    `json:"run_id"`
	Project    string    `json:"project"`
	Status     string    `json:"status"`
	SourcePath string    `json:"source_path"`
	OutputPath string    `json:"output_path,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	RecordedAt time.Time `json:"recorded_at"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent render outcomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Render history is disabled (history.enabled = false)")
				return nil
			}

			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput {
				rows := make([]historyRow, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, historyRow{
						RunID:      e.RunID,
						Project:    e.Project,
						Status:     e.Status,
						SourcePath: e.SourcePath,
						OutputPath: e.OutputPath,
						Detail:     e.Detail,
						DurationMS: e.Duration.Milliseconds(),
						RecordedAt: e.RecordedAt,
					})
				}
				return writeJSON(cmd, rows)
			}

			if len(entries) == 0 {
				fmt.Fprintln(out, "No renders recorded yet")
				return nil
			}
			fmt.Fprintln(out, historyTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "Number of entries to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	return cmd
}

func historyTable(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.OutputPath
		if e.Status == history.StatusFailed {
			detail = e.Detail
		}
		rows = append(rows, []string{
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.Project,
			e.Status,
			truncate(detail, maxDetailWidth),
			formatElapsed(e.Duration),
		})
	}
	return renderTable(
		[]string{"Recorded", "Project", "Status", "Output / Error", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
