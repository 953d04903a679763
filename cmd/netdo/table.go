package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableSpec struct {
	headers []string
	rows    [][]string
	aligns  []columnAlignment
	title   string
	footer  string
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	return renderTableSpec(tableSpec{headers: headers, rows: rows, aligns: aligns})
}

// renderTableSpec draws a rounded table. The footer spans the first column.
func renderTableSpec(spec tableSpec) string {
	columns := len(spec.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if spec.title != "" {
		tw.SetTitle(spec.title)
	}

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = spec.headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range spec.rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	if spec.footer != "" {
		footer := make(table.Row, columns)
		footer[0] = spec.footer
		tw.AppendFooter(footer)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(spec.aligns) && spec.aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			AlignFooter: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
