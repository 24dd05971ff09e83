package main

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"rppreview/internal/preview"
	"rppreview/internal/project"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

const maxDetailWidth = 60

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func projectTable(projects []project.Descriptor) string {
	rows := make([][]string, 0, len(projects))
	for i, p := range projects {
		rows = append(rows, []string{strconv.Itoa(i + 1), p.Name, p.Dir})
	}
	return renderTable(
		[]string{"#", "Project", "Directory"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	)
}

func resultsTable(results []preview.Result) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		detail := res.OutputPath
		if res.Status == preview.StatusFailed {
			detail = failureDetail(res.Err)
		}
		rows = append(rows, []string{
			res.Project.Name,
			string(res.Status),
			truncate(detail, maxDetailWidth),
			formatElapsed(res.Elapsed),
		})
	}
	return renderTable(
		[]string{"Project", "Status", "Output / Error", "Time"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 3 || len(runes) <= width {
		return value
	}
	return string(runes[:width-3]) + "..."
}
