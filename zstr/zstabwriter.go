package zstr

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"
)

// TabWriter buffers tab-separated rows and writes them as aligned columns on Flush.
// Color escapes don't count towards a cell's width.
type TabWriter struct {
	CellDivider         string
	RightAdjusted       bool         // all columns
	RighAdjustedColumns map[int]bool // or just these
	RepeatFirstRowEvery int          // repeats the first (heading) row before every n'th following row if > 0
	buffer              bytes.Buffer
	out                 io.Writer
}

func NewTabWriter(out io.Writer) *TabWriter {
	t := &TabWriter{}
	t.out = out
	t.CellDivider = "  "
	t.RighAdjustedColumns = map[int]bool{}
	return t
}

func (t *TabWriter) Write(b []byte) (n int, err error) {
	return t.buffer.Write(b)
}

func (t *TabWriter) lines() [][]string {
	var rows [][]string
	for _, sline := range strings.Split(t.buffer.String(), "\n") {
		sline = strings.TrimRight(sline, "\t\r")
		if sline == "" {
			continue
		}
		rows = append(rows, strings.Split(sline, "\t"))
	}
	return rows
}

func cellWidth(cell string) int {
	return utf8.RuneCountInString(StripColorEscapes(cell))
}

func (t *TabWriter) Flush() error {
	rows := t.lines()
	t.buffer.Reset()
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if len(widths) <= i {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], cellWidth(cell))
		}
	}
	for i, row := range rows {
		if t.RepeatFirstRowEvery > 0 && i > 1 && (i-1)%t.RepeatFirstRowEvery == 0 {
			if err := t.outputLine(rows[0], widths); err != nil {
				return err
			}
		}
		if err := t.outputLine(row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *TabWriter) outputLine(row []string, widths []int) error {
	var outLine string
	for i, cell := range row {
		w := cellWidth(cell)
		if i != 0 {
			outLine += t.CellDivider
		}
		space := strings.Repeat(" ", widths[i]-w)
		if t.RightAdjusted || t.RighAdjustedColumns[i] {
			outLine += space + cell
		} else {
			outLine += cell + space
		}
	}
	_, err := io.WriteString(t.out, strings.TrimRight(outLine, " ")+"\n")
	return err
}
