package zstatgen

import (
	"flag"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/torlangballe/zstats/zerrors"
	"github.com/torlangballe/zstats/zmath"
	"github.com/torlangballe/zstats/zstr"
	"gopkg.in/yaml.v2"
)

type Options struct {
	Level       float64   `yaml:"level"`
	Dist        string    `yaml:"dist"` // auto, t or z
	Columns     []string  `yaml:"columns"`
	NoHeading   bool      `yaml:"no_heading"`
	Decimals    int       `yaml:"decimals"`
	Percentiles []float64 `yaml:"percentiles"`
	Merge       bool      `yaml:"merge"`
	MetricsPort int       `yaml:"metrics_port"`
	Verbose     bool      `yaml:"verbose"`
	Color       bool      `yaml:"color"`          // errors and warnings in color on stderr
	RepeatHead  int       `yaml:"repeat_heading"` // heading again every n rows, 0 for never
}

func DefaultOptions() Options {
	return Options{
		Level:    zmath.DefaultConfidenceLevel,
		Dist:     "auto",
		Decimals: 4,
	}
}

// LoadOptions reads options from a yaml file on top of the defaults.
func LoadOptions(path string) (Options, error) {
	o := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return o, err
	}
	err = yaml.Unmarshal(data, &o)
	if err != nil {
		return o, zerrors.MakeContextError(map[string]any{"file": path}, "parse options", err)
	}
	return o, o.Validate()
}

func (o Options) Validate() error {
	if o.Level <= 0 || o.Level >= 1 || math.IsNaN(o.Level) {
		return &zmath.LevelError{Level: o.Level}
	}
	if _, err := o.Distribution(); err != nil {
		return err
	}
	if _, err := o.SelectedColumns(); err != nil {
		return err
	}
	if o.RepeatHead < 0 {
		return zerrors.MakeContextError(map[string]any{"repeat_heading": o.RepeatHead}, "heading repeat can't be negative")
	}
	for _, p := range o.Percentiles {
		if p <= 0 || p >= 1 {
			return zerrors.MakeContextError(map[string]any{"percentile": p}, "percentiles must be between 0.0 and 1.0")
		}
	}
	return nil
}

func (o Options) Distribution() (zmath.Distribution, error) {
	switch strings.ToLower(o.Dist) {
	case "", "auto":
		return zmath.DistAuto, nil
	case "t":
		return zmath.DistT, nil
	case "z":
		return zmath.DistZ, nil
	}
	return zmath.DistAuto, zerrors.MakeContextError(map[string]any{"dist": o.Dist}, "distribution must be auto, t or z")
}

// SelectedColumns are the Columns named in o, or DefaultColumns if none.
func (o Options) SelectedColumns() ([]Column, error) {
	if len(o.Columns) == 0 {
		return DefaultColumns, nil
	}
	var cols []Column
	for _, name := range o.Columns {
		c, err := ColumnFromName(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return sortedColumns(cols), nil
}

// Flags binds statgen's command line to Options.
// Options from a -config file are used as a base, with flags that were given on the command line set on top.
type Flags struct {
	set        *flag.FlagSet
	flagged    Options
	configPath string
	columns    [columnCount]bool
	useT       bool
	useZ       bool
	quantiles  string
}

var columnFlags = [columnCount]struct {
	name  string
	usage string
}{
	ColCount:            {"c", "count"},
	ColSum:              {"s", "sum"},
	ColMin:              {"n", "minimum"},
	ColMax:              {"m", "maximum"},
	ColAvg:              {"a", "average"},
	ColVar:              {"v", "variance"},
	ColStdDev:           {"d", "standard deviation"},
	ColStdErr:           {"e", "standard error"},
	ColHalfWidth:        {"w", "confidence interval half-width"},
	ColPercentHalfWidth: {"p", "confidence interval half-width in percent of the average"},
}

func NewFlags(set *flag.FlagSet) *Flags {
	f := &Flags{set: set}
	def := DefaultOptions()
	for i, cf := range columnFlags {
		set.BoolVar(&f.columns[i], cf.name, false, "show "+cf.usage+". Choosing columns hides the default ones.")
	}
	set.Float64Var(&f.flagged.Level, "l", def.Level, "confidence level.")
	set.BoolVar(&f.useT, "t", false, "use the T distribution for the confidence interval (default below 30 values).")
	set.BoolVar(&f.useZ, "z", false, "use the Z distribution for the confidence interval (default from 30 values).")
	set.BoolVar(&f.flagged.NoHeading, "x", false, "do not display column headings.")
	set.IntVar(&f.flagged.Decimals, "decimals", def.Decimals, "decimal places in output.")
	set.StringVar(&f.quantiles, "q", "", "comma-separated percentiles to estimate, i.e 0.5,0.95.")
	set.BoolVar(&f.flagged.Merge, "merge", false, "also show a row for all sources combined.")
	set.IntVar(&f.flagged.MetricsPort, "port", 0, "serve running statistics as prometheus metrics on this port.")
	set.BoolVar(&f.flagged.Verbose, "verbose", false, "debug logging.")
	set.BoolVar(&f.flagged.Color, "color", false, "log errors and warnings in color.")
	set.IntVar(&f.flagged.RepeatHead, "repeat", 0, "repeat the heading every n rows.")
	set.StringVar(&f.configPath, "config", "", "yaml file with default options.")
	return f
}

// Options returns the options after the flag set has been parsed.
func (f *Flags) Options() (Options, error) {
	o := DefaultOptions()
	if f.configPath != "" {
		var err error
		o, err = LoadOptions(f.configPath)
		if err != nil {
			return o, err
		}
	}
	var cols []string
	for i, on := range f.columns {
		if on {
			cols = append(cols, Column(i).String())
		}
	}
	if len(cols) != 0 {
		o.Columns = cols
	}
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "l":
			o.Level = f.flagged.Level
		case "x":
			o.NoHeading = f.flagged.NoHeading
		case "decimals":
			o.Decimals = f.flagged.Decimals
		case "merge":
			o.Merge = f.flagged.Merge
		case "port":
			o.MetricsPort = f.flagged.MetricsPort
		case "verbose":
			o.Verbose = f.flagged.Verbose
		case "color":
			o.Color = f.flagged.Color
		case "repeat":
			o.RepeatHead = f.flagged.RepeatHead
		}
	})
	if f.useT {
		o.Dist = "t"
	} else if f.useZ {
		o.Dist = "z"
	}
	if f.quantiles != "" {
		o.Percentiles = nil
		for _, s := range zstr.SplitTrimmed(f.quantiles, ",") {
			p, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return o, zerrors.MakeContextError(map[string]any{"flag": "q"}, "bad percentile", err)
			}
			o.Percentiles = append(o.Percentiles, p)
		}
	}
	return o, o.Validate()
}
