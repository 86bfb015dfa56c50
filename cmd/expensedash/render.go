package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/shopspring/decimal"
)

const maxCellWidth = 32

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#585b70"))
)

func renderTitle(w io.Writer, title string) {
	fmt.Fprintln(w, titleStyle.Render(title))
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		clipped[i] = make([]string, len(row))
		for j, cell := range row {
			clipped[i][j] = ansi.Truncate(cell, maxCellWidth, "…")
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(clipped...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.String())
}

// renderPager prints the page position, or the empty state
func renderPager(w io.Writer, number, totalPages, totalRows int, empty bool) {
	if empty {
		fmt.Fprintln(w, mutedStyle.Render("No records match the current filters."))
		return
	}
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Page %d of %d (%d rows)", number, totalPages, totalRows)))
}

func renderTotal(w io.Writer, label string, total decimal.Decimal) {
	fmt.Fprintf(w, "%s: %s\n", label, total.StringFixed(2))
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
