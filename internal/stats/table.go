package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// maxCellWidth caps a column so long category lists do not push the table off screen.
const maxCellWidth = 32

// formatTable lays out rows under headers with columns padded to their widest cell.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	cells := make([][]string, 0, len(rows)+1)
	if len(headers) > 0 {
		cells = append(cells, fitRow(headers, colCount))
	}
	for _, row := range rows {
		cells = append(cells, fitRow(row, colCount))
	}

	widths := make([]int, colCount)
	for _, row := range cells {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	lines := make([]string, len(cells))
	for i, row := range cells {
		lines[i] = formatRow(row, widths, rightAlignCols)
	}
	return lines
}

// fitRow pads row to colCount cells and truncates cells wider than maxCellWidth.
func fitRow(row []string, colCount int) []string {
	out := make([]string, colCount)
	for i := range out {
		if i < len(row) {
			out[i] = runewidth.Truncate(row[i], maxCellWidth, "…")
		}
	}
	return out
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	parts := make([]string, len(widths))
	for i, cell := range row {
		parts[i] = padCell(cell, widths[i], rightAlignCols[i])
	}
	return strings.Join(parts, " ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
