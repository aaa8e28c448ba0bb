package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

var (
	colorAccent = lipgloss.Color("#20B9B4")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorMuted  = lipgloss.Color("#2C4A54")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	okStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

type tableView struct {
	headers []string
	rows    [][]string
}

var renderers = map[string]func(io.Writer, any, *tableView) error{
	"table": func(w io.Writer, _ any, t *tableView) error {
		if t == nil {
			return fmt.Errorf("no table view for this output")
		}
		return renderTable(w, t.headers, t.rows)
	},
	"json": func(w io.Writer, v any, _ *tableView) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	},
	"yaml": func(w io.Writer, v any, _ *tableView) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	},
}

func render(w io.Writer, format string, v any, t *tableView) error {
	r, ok := renderers[format]
	if !ok {
		return fmt.Errorf("unknown format %q", format)
	}
	return r(w, v, t)
}

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
