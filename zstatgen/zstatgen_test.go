package zstatgen

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/torlangballe/zstats/zerrors"
	"github.com/torlangballe/zstats/zlog"
	"github.com/torlangballe/zstats/zmath"
	"github.com/torlangballe/zstats/ztelemetry"
	"github.com/torlangballe/zstats/ztesting"
)

func init() {
	zlog.SetOutput(io.Discard)
}

func newTestGenerator(o Options, files map[string]string, stdin string) *Generator {
	g := NewGenerator(o)
	g.Stdin = strings.NewReader(stdin)
	g.Open = func(name string) (io.ReadCloser, error) {
		content, got := files[name]
		if !got {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}
	return g
}

func TestReadValues(t *testing.T) {
	fmt.Println("TestReadValues")
	var got []float64
	n, err := ReadValues(context.Background(), strings.NewReader(" 1 2.5\n-3e2\t4 "), "in", func(v float64) {
		got = append(got, v)
	})
	ztesting.NoError(t, "read", err)
	ztesting.Equal(t, "count", n, 4)
	ztesting.Equal(t, "third", got[2], -300.0)

	n, err = ReadValues(context.Background(), strings.NewReader("1 2 x 4"), "in", func(float64) {})
	ztesting.Equal(t, "count before bad", n, 2)
	ce, is := zerrors.ContextErrorFromError(err)
	if ztesting.Equal(t, "is context error", is, true) {
		ztesting.Equal(t, "token", ce.KeyValues["token"], any(3))
		ztesting.Equal(t, "text", ce.KeyValues["text"], any("x"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ReadValues(ctx, strings.NewReader("1 2"), "in", func(float64) {})
	ztesting.IsError(t, "canceled", err, context.Canceled)
}

func TestRunDefaultColumns(t *testing.T) {
	fmt.Println("TestRunDefaultColumns")
	g := newTestGenerator(DefaultOptions(), nil, "1 2 3 4\n")
	var out strings.Builder
	err := g.Run(context.Background(), nil, &out)
	ztesting.NoError(t, "run", err)
	want := "Count    Min    Max    Avg StdDev HWidth %HWidth\n" +
		"    4 1.0000 4.0000 2.5000 1.2910 2.0039 80.1575\n"
	ztesting.Equal(t, "output", out.String(), want)
}

func TestRunChosenColumns(t *testing.T) {
	fmt.Println("TestRunChosenColumns")
	o := DefaultOptions()
	o.Columns = []string{"var", "sum", "stderr"}
	o.NoHeading = true
	o.Decimals = 2
	g := newTestGenerator(o, nil, "1 2 3 4")
	var out strings.Builder
	ztesting.NoError(t, "run", g.Run(context.Background(), []string{StdinName}, &out))
	ztesting.Equal(t, "output", out.String(), "10.00 1.67 0.65\n")
}

func TestRunSources(t *testing.T) {
	fmt.Println("TestRunSources")
	o := DefaultOptions()
	o.Columns = []string{"count", "avg"}
	o.Merge = true
	o.Percentiles = []float64{0.5}
	files := map[string]string{
		"a.txt": "1 2 3 4",
		"b.txt": "5 6 7 8",
		"c.txt": "9",
	}
	g := newTestGenerator(o, files, "")
	rows, err := g.Compute(context.Background(), []string{"a.txt", "b.txt", "c.txt", "missing.txt"})
	ztesting.IsError(t, "too few values", err, zmath.ErrInsufficientSamples)
	ztesting.IsError(t, "missing file", err, os.ErrNotExist)
	if !ztesting.Equal(t, "rows", len(rows), 3) {
		return
	}
	ztesting.Equal(t, "merged source", rows[2].Source, MergedName)
	ztesting.Equal(t, "merged count includes too short source", rows[2].Summary.Count, 9)
	ztesting.Equal(t, "merged mean", rows[2].Summary.Mean, 5.0)
	ztesting.Equal(t, "a median", rows[0].Percentiles[0], 2.0)
	ztesting.Equal(t, "merged median", rows[2].Percentiles[0], 5.0)

	var out strings.Builder
	ztesting.NoError(t, "render", g.Render(&out, rows))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	ztesting.Equal(t, "line count", len(lines), 4)
	ztesting.Equal(t, "heading", strings.Fields(lines[0])[0], "Source")
	ztesting.Equal(t, "percentile heading", strings.Fields(lines[0])[3], "P50")
	ztesting.Equal(t, "b row", strings.Join(strings.Fields(lines[2]), " "), "b.txt 4 6.5000 6.0000")
}

func TestRunObservesCollector(t *testing.T) {
	fmt.Println("TestRunObservesCollector")
	g := newTestGenerator(DefaultOptions(), map[string]string{"a": "1 2", "b": "3 4"}, "")
	g.Collector = ztelemetry.NewStatsCollector("", "test", nil)
	_, err := g.Compute(context.Background(), []string{"a", "b"})
	ztesting.NoError(t, "compute", err)
	snap := g.Collector.Snapshot()
	c, _ := snap.Conf()
	ztesting.Near(t, "collector conf", c, 2.0039382, 1e-7)
}

func TestStdinOnce(t *testing.T) {
	fmt.Println("TestStdinOnce")
	g := newTestGenerator(DefaultOptions(), nil, "1 2 3")
	rows, err := g.Compute(context.Background(), []string{"-", "-"})
	ztesting.NoError(t, "compute", err)
	ztesting.Equal(t, "rows", len(rows), 1)
}

func TestFlags(t *testing.T) {
	fmt.Println("TestFlags")
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	f := NewFlags(set)
	err := set.Parse([]string{"-a", "-w", "-c", "-l", "0.99", "-z", "-q", "0.5, 0.9", "-x", "-color", "-repeat", "3", "file"})
	ztesting.NoError(t, "parse", err)
	o, err := f.Options()
	ztesting.NoError(t, "options", err)
	ztesting.Equal(t, "level", o.Level, 0.99)
	ztesting.Equal(t, "dist", o.Dist, "z")
	ztesting.Equal(t, "no heading", o.NoHeading, true)
	ztesting.Equal(t, "percentiles", fmt.Sprint(o.Percentiles), "[0.5 0.9]")
	cols, _ := o.SelectedColumns()
	ztesting.Equal(t, "columns", fmt.Sprint(cols), "[count avg hwidth]")
	ztesting.Equal(t, "color", o.Color, true)
	ztesting.Equal(t, "repeat heading", o.RepeatHead, 3)
	ztesting.Equal(t, "args", set.Arg(0), "file")

	set = flag.NewFlagSet("test", flag.ContinueOnError)
	f = NewFlags(set)
	set.SetOutput(io.Discard)
	set.Parse([]string{"-l", "1.5"})
	_, err = f.Options()
	var le *zmath.LevelError
	ztesting.Equal(t, "bad level", errors.As(err, &le), true)

	set = flag.NewFlagSet("test", flag.ContinueOnError)
	f = NewFlags(set)
	ztesting.NoError(t, "parse NaN", set.Parse([]string{"-l", "NaN"}))
	_, err = f.Options()
	ztesting.Equal(t, "NaN level", errors.As(err, &le), true)

	set = flag.NewFlagSet("test", flag.ContinueOnError)
	f = NewFlags(set)
	set.Parse([]string{"-repeat", "-1"})
	_, err = f.Options()
	ztesting.Equal(t, "negative repeat", err != nil, true)
}

func TestRepeatHeading(t *testing.T) {
	fmt.Println("TestRepeatHeading")
	o := DefaultOptions()
	o.Columns = []string{"count"}
	o.RepeatHead = 2
	files := map[string]string{"a": "1 2", "b": "3 4", "c": "5 6"}
	g := newTestGenerator(o, files, "")
	var out strings.Builder
	ztesting.NoError(t, "run", g.Run(context.Background(), []string{"a", "b", "c"}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !ztesting.Equal(t, "line count", len(lines), 5) {
		return
	}
	ztesting.Equal(t, "repeated heading", strings.Fields(lines[3])[0], "Source")
	ztesting.Equal(t, "row after repeat", strings.Fields(lines[4])[0], "c")

	g.Options.NoHeading = true
	out.Reset()
	ztesting.NoError(t, "run without heading", g.Run(context.Background(), []string{"a", "b", "c"}, &out))
	ztesting.Equal(t, "no repeat without heading", strings.Count(out.String(), "\n"), 3)
}

// rankOf returns the fraction of sorted values below v, and at or below v.
func rankOf(sorted []float64, v float64) (below, atOrBelow float64) {
	n := float64(len(sorted))
	lo := sort.SearchFloat64s(sorted, v)
	hi := lo
	for hi < len(sorted) && sorted[hi] == v {
		hi++
	}
	return float64(lo) / n, float64(hi) / n
}

func TestMergedPercentiles(t *testing.T) {
	fmt.Println("TestMergedPercentiles")
	o := DefaultOptions()
	o.Merge = true
	o.Percentiles = []float64{0.5, 0.9, 0.99}
	r := rand.New(rand.NewSource(7))
	files := map[string]string{}
	var names []string
	var all []float64
	for i := 0; i < 5; i++ {
		var parts []string
		for j := 0; j < 4000; j++ {
			v := r.NormFloat64()*10 + float64(i*7)
			all = append(all, v)
			parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
		}
		name := fmt.Sprint("source", i)
		names = append(names, name)
		files[name] = strings.Join(parts, " ")
	}
	sort.Float64s(all)

	g := newTestGenerator(o, files, "")
	rows, err := g.Compute(context.Background(), names)
	ztesting.NoError(t, "compute", err)
	if !ztesting.Equal(t, "rows", len(rows), 6) {
		return
	}
	merged := rows[5]
	ztesting.Equal(t, "merged source", merged.Source, MergedName)
	ztesting.Equal(t, "merged count", merged.Summary.Count, len(all))
	for i, p := range o.Percentiles {
		epsilon := min(p, 1-p) / 100
		below, atOrBelow := rankOf(all, merged.Percentiles[i])
		ztesting.GreaterThan(t, fmt.Sprint("P", p, " rank not too low"), atOrBelow+epsilon, p)
		ztesting.LessThan(t, fmt.Sprint("P", p, " rank not too high"), below-epsilon, p)
	}
}

func TestConfigFile(t *testing.T) {
	fmt.Println("TestConfigFile")
	path := filepath.Join(t.TempDir(), "zstatgen.yaml")
	yaml := "level: 0.9\ndist: t\ncolumns: [sum, min]\nmerge: true\npercentiles: [0.95]\n"
	ztesting.NoError(t, "write", os.WriteFile(path, []byte(yaml), 0644))

	o, err := LoadOptions(path)
	ztesting.NoError(t, "load", err)
	ztesting.Equal(t, "level", o.Level, 0.9)
	ztesting.Equal(t, "decimals default kept", o.Decimals, 4)
	dist, _ := o.Distribution()
	ztesting.Equal(t, "dist", dist, zmath.DistT)

	set := flag.NewFlagSet("test", flag.ContinueOnError)
	f := NewFlags(set)
	set.Parse([]string{"-config", path, "-l", "0.8", "-s"})
	o, err = f.Options()
	ztesting.NoError(t, "options", err)
	ztesting.Equal(t, "flag overrides level", o.Level, 0.8)
	ztesting.Equal(t, "merge from file", o.Merge, true)
	ztesting.Equal(t, "columns from flags", fmt.Sprint(o.Columns), "[sum]")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("dist: w\n"), 0644)
	_, err = LoadOptions(bad)
	_, is := zerrors.ContextErrorFromError(err)
	ztesting.Equal(t, "bad dist", is, true)
}
