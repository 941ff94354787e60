package zstatgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/torlangballe/zstats/zmath"
)

// Column is one statistic statgen can print.
type Column int

const (
	ColCount Column = iota
	ColSum
	ColMin
	ColMax
	ColAvg
	ColVar
	ColStdDev
	ColStdErr
	ColHalfWidth
	ColPercentHalfWidth
	columnCount
)

var columnNames = [columnCount]string{"count", "sum", "min", "max", "avg", "var", "stddev", "stderr", "hwidth", "phwidth"}
var columnHeadings = [columnCount]string{"Count", "Sum", "Min", "Max", "Avg", "Var", "StdDev", "StdErr", "HWidth", "%HWidth"}

// DefaultColumns are shown when none are chosen.
var DefaultColumns = []Column{ColCount, ColMin, ColMax, ColAvg, ColStdDev, ColHalfWidth, ColPercentHalfWidth}

func (c Column) String() string {
	if c < 0 || c >= columnCount {
		return fmt.Sprint("column", int(c))
	}
	return columnNames[c]
}

func (c Column) Heading() string {
	return columnHeadings[c]
}

func ColumnFromName(name string) (Column, error) {
	for i, n := range columnNames {
		if strings.EqualFold(n, name) {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

// Format returns the cell text for c in s, with decimals for non-count values.
func (c Column) Format(s zmath.Summary, decimals int) string {
	var f float64
	switch c {
	case ColCount:
		return strconv.Itoa(s.Count)
	case ColSum:
		f = s.Sum
	case ColMin:
		f = s.Min
	case ColMax:
		f = s.Max
	case ColAvg:
		f = s.Mean
	case ColVar:
		f = s.Variance
	case ColStdDev:
		f = s.StdDev
	case ColStdErr:
		f = s.StdErr
	case ColHalfWidth:
		f = s.HalfWidth
	case ColPercentHalfWidth:
		f = 100 * s.HalfWidth / s.Mean
	}
	return strconv.FormatFloat(f, 'f', decimals, 64)
}

// sortedColumns returns cols in display order without duplicates.
func sortedColumns(cols []Column) []Column {
	var has [columnCount]bool
	for _, c := range cols {
		if c >= 0 && c < columnCount {
			has[c] = true
		}
	}
	var out []Column
	for i, h := range has {
		if h {
			out = append(out, Column(i))
		}
	}
	return out
}
