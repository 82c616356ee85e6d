package utils

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// RenderTable draws rows as a box-drawn grid. Rows shorter than columns are
// padded with empty cells.
func RenderTable(w io.Writer, columns []string, rows [][]string) {
	if len(columns) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = utf8.RuneCountInString(col)
	}
	for _, row := range rows {
		for i := range columns {
			if n := utf8.RuneCountInString(cell(row, i)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, width := range widths {
			fmt.Fprint(w, strings.Repeat("─", width+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}
	line := func(values func(i int) string) {
		fmt.Fprint(w, "│")
		for i, width := range widths {
			v := values(i)
			fmt.Fprintf(w, " %s%s │", v, strings.Repeat(" ", width-utf8.RuneCountInString(v)))
		}
		fmt.Fprintln(w)
	}

	border("┌", "┬", "┐")
	line(func(i int) string { return columns[i] })
	border("├", "┼", "┤")
	for _, row := range rows {
		line(func(i int) string { return cell(row, i) })
	}
	border("└", "┴", "┘")
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
