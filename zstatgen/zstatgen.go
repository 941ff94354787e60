// Package zstatgen reads numbers from files or stdin and prints their descriptive statistics as a table.
package zstatgen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/beorn7/perks/quantile"
	"github.com/dustin/go-humanize"
	"github.com/torlangballe/zstats/zerrors"
	"github.com/torlangballe/zstats/zlog"
	"github.com/torlangballe/zstats/zmath"
	"github.com/torlangballe/zstats/zstr"
	"github.com/torlangballe/zstats/ztelemetry"
)

const (
	StdinName  = "-"
	MergedName = "all"
)

type Generator struct {
	Options   Options
	Stdin     io.Reader
	Open      func(name string) (io.ReadCloser, error)
	Collector *ztelemetry.StatsCollector // if set, every value read is observed by it too
}

// Row is the result for one source.
type Row struct {
	Source      string
	Summary     zmath.Summary
	Percentiles []float64 // in the order of Options.Percentiles
}

type series struct {
	accumulator *zmath.Accumulator
	stream      *quantile.Stream
}

func NewGenerator(o Options) *Generator {
	return &Generator{
		Options: o,
		Stdin:   os.Stdin,
		Open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
}

func (g *Generator) newSeries() series {
	s := series{accumulator: zmath.NewAccumulator()}
	if len(g.Options.Percentiles) != 0 {
		targets := map[float64]float64{}
		for _, p := range g.Options.Percentiles {
			targets[p] = min(p, 1-p) / 100
		}
		s.stream = quantile.NewTargeted(targets)
	}
	return s
}

func (s series) add(v float64) {
	s.accumulator.Add(v)
	if s.stream != nil {
		s.stream.Insert(v)
	}
}

func (g *Generator) row(name string, s series) (Row, error) {
	dist, err := g.Options.Distribution()
	if err != nil {
		return Row{}, err
	}
	sum, err := s.accumulator.Summarize(g.Options.Level, dist)
	if err != nil {
		return Row{}, zerrors.MakeContextError(map[string]any{"source": name}, "need at least two numbers as input", err)
	}
	r := Row{Source: name, Summary: sum}
	for _, p := range g.Options.Percentiles {
		r.Percentiles = append(r.Percentiles, s.stream.Query(p))
	}
	return r, nil
}

// readSource adds every value read from name to each of into.
func (g *Generator) readSource(ctx context.Context, name string, into ...series) error {
	var r io.Reader
	if name == StdinName {
		r = g.Stdin
	} else {
		file, err := g.Open(name)
		if err != nil {
			return zerrors.MakeContextError(map[string]any{"source": name}, "could not open file for reading", err)
		}
		defer file.Close()
		r = file
	}
	n, err := ReadValues(ctx, r, name, func(v float64) {
		for _, s := range into {
			s.add(v)
		}
		if g.Collector != nil {
			g.Collector.Observe(v)
		}
	})
	zlog.Debug("read", humanize.Comma(int64(n)), "values from", name)
	return err
}

// Compute reads each named source (stdin if none) and returns a row for each that has enough values.
// Sources that fail are logged and returned joined in the error; the others still get rows.
// With Options.Merge, a last row covers every value read, from all sources.
func (g *Generator) Compute(ctx context.Context, names []string) ([]Row, error) {
	if len(names) == 0 {
		names = []string{StdinName}
	}
	var rows []Row
	var errs []error
	var sawStdin bool
	merged := g.newSeries()
	for _, name := range names {
		if name == StdinName {
			if sawStdin {
				zlog.Warn("stdin given more than once, skipping")
				continue
			}
			sawStdin = true
		}
		s := g.newSeries()
		into := []series{s}
		if g.Options.Merge {
			into = append(into, merged)
		}
		err := g.readSource(ctx, name, into...)
		if err == nil {
			var r Row
			r, err = g.row(name, s)
			if err == nil {
				rows = append(rows, r)
			}
		}
		if err != nil {
			zlog.Error(err)
			errs = append(errs, err)
			if errors.Is(err, context.Canceled) {
				break
			}
		}
	}
	if g.Options.Merge && len(rows) > 1 {
		r, err := g.row(MergedName, merged)
		if err != nil {
			errs = append(errs, err)
		} else {
			rows = append(rows, r)
		}
	}
	return rows, errors.Join(errs...)
}

func percentileHeading(p float64) string {
	return "P" + strconv.FormatFloat(p*100, 'f', -1, 64)
}

// Render writes rows as right-adjusted columns, with a heading row unless Options.NoHeading.
// A Source column is added if there is more than one row.
func (g *Generator) Render(w io.Writer, rows []Row) error {
	cols, err := g.Options.SelectedColumns()
	if err != nil {
		return err
	}
	tw := zstr.NewTabWriter(w)
	tw.CellDivider = " "
	tw.RightAdjusted = true
	withSource := len(rows) > 1
	if withSource {
		tw.RightAdjusted = false
		for i := 1; i <= len(cols)+len(g.Options.Percentiles); i++ {
			tw.RighAdjustedColumns[i] = true
		}
	}
	if !g.Options.NoHeading {
		tw.RepeatFirstRowEvery = g.Options.RepeatHead
		var cells []any
		if withSource {
			cells = append(cells, "Source")
		}
		for _, c := range cols {
			cells = append(cells, c.Heading())
		}
		for _, p := range g.Options.Percentiles {
			cells = append(cells, percentileHeading(p))
		}
		writeRow(tw, cells)
	}
	for _, r := range rows {
		var cells []any
		if withSource {
			cells = append(cells, r.Source)
		}
		for _, c := range cols {
			cells = append(cells, c.Format(r.Summary, g.Options.Decimals))
		}
		for _, v := range r.Percentiles {
			cells = append(cells, strconv.FormatFloat(v, 'f', g.Options.Decimals, 64))
		}
		writeRow(tw, cells)
	}
	return tw.Flush()
}

func writeRow(w io.Writer, cells []any) {
	for i, c := range cells {
		if i != 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c)
	}
	fmt.Fprint(w, "\n")
}

// Run computes and renders in one go.
func (g *Generator) Run(ctx context.Context, names []string, out io.Writer) error {
	rows, err := g.Compute(ctx, names)
	if rerr := g.Render(out, rows); rerr != nil {
		return rerr
	}
	return err
}
