package importer

import (
	"strconv"
	"strings"
)

// Record is one normalized row: source field label to raw cell value.
type Record map[string]string

type LayoutKind int

const (
	// LayoutVertical is the key/value identity sheet: column 0 holds field
	// labels, column 1 holds values.
	LayoutVertical LayoutKind = iota
	// LayoutTable is the banner+header+data shape: row 0 is a discarded
	// banner, row 1 the header, data starts at row 2. A row counts as data
	// only if its first cell is numeric (the row ordinal sentinel).
	LayoutTable
)

// ParseVertical merges all label/value pairs of a vertical sheet into one
// record. Rows without a label are ignored.
func ParseVertical(grid [][]string) Record {
	rec := Record{}
	for _, row := range grid {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			continue
		}
		value := ""
		if len(row) > 1 {
			value = strings.TrimSpace(row[1])
		}
		if value == "" {
			continue
		}
		rec[label] = value
	}
	return rec
}

// ParseTable converts a banner+header+data grid into records by zipping
// header labels with cell values by column index. Trailing instructional or
// blank rows fail the numeric-ordinal sentinel and are dropped.
func ParseTable(grid [][]string) []Record {
	if len(grid) < 2 {
		return nil
	}

	header := grid[1]
	var out []Record
	for _, row := range grid[2:] {
		if !isDataRow(row) {
			continue
		}
		rec := Record{}
		for col, label := range header {
			label = strings.TrimSpace(label)
			if label == "" || col >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[col])
			if value == "" {
				continue
			}
			rec[label] = value
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	}
	return out
}

func isDataRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
	return err == nil
}
