package zmath

import (
	"fmt"
	"math"
)

const (
	DefaultConfidenceLevel = 0.95
	TDistributionLimit     = 30 // counts below this use T() for confidence intervals, Z() from here on
)

// Accumulator keeps running count, sum, min, max and the moments needed for mean and variance
// of a series of values, without storing the values themselves.
// Values are shifted by the first value added (the anchor) before being squared, which keeps
// the second-moment sum small and avoids the cancellation of a naive sum-of-squares.
// An Accumulator is not safe for concurrent use.
type Accumulator struct {
	count         int
	minimum       float64
	maximum       float64
	anchor        float64
	centeredSum   float64
	centeredSumSq float64
	sum           float64
}

// Summary is a snapshot of everything an Accumulator with at least two values can tell.
type Summary struct {
	Count     int
	Sum       float64
	Min       float64
	Max       float64
	Mean      float64
	Variance  float64
	StdDev    float64
	StdErr    float64
	HalfWidth float64
	Level     float64
}

func NewAccumulator() *Accumulator {
	a := &Accumulator{}
	a.Reset()
	return a
}

func (a *Accumulator) Reset() {
	*a = Accumulator{
		minimum: math.Inf(1),
		maximum: math.Inf(-1),
	}
}

func (a *Accumulator) Add(value float64) {
	if a.count == 0 {
		a.anchor = value
		a.minimum = value
		a.maximum = value
	} else {
		a.minimum = min(a.minimum, value)
		a.maximum = max(a.maximum, value)
	}
	a.count++
	d := value - a.anchor
	a.centeredSum += d
	a.centeredSumSq += d * d
	a.sum += value
}

// Remove always fails; with no history kept, the moments can't be reversed accurately.
// The accumulator is left as it was.
func (a *Accumulator) Remove(value float64) error {
	return &UnsupportedError{Operation: "removal"}
}

// Merge adds all of o's values to a, as if they had been added one by one.
// o's centered sums are moved over to a's anchor.
func (a *Accumulator) Merge(o *Accumulator) {
	if o == nil || o.count == 0 {
		return
	}
	if a.count == 0 {
		*a = *o
		return
	}
	n := float64(o.count)
	shift := o.anchor - a.anchor
	a.centeredSumSq += o.centeredSumSq + 2*shift*o.centeredSum + n*shift*shift
	a.centeredSum += o.centeredSum + n*shift
	a.minimum = min(a.minimum, o.minimum)
	a.maximum = max(a.maximum, o.maximum)
	a.sum += o.sum
	a.count += o.count
}

func (a *Accumulator) Count() int {
	return a.count
}

func (a *Accumulator) need(operation string, required int) error {
	if a.count < required {
		return &InsufficientSamplesError{Operation: operation, Required: required, Count: a.count}
	}
	return nil
}

func (a *Accumulator) Sum() (float64, error) {
	if err := a.need("sum", 1); err != nil {
		return 0, err
	}
	return a.sum, nil
}

func (a *Accumulator) Min() (float64, error) {
	if err := a.need("minimum", 1); err != nil {
		return 0, err
	}
	return a.minimum, nil
}

func (a *Accumulator) Max() (float64, error) {
	if err := a.need("maximum", 1); err != nil {
		return 0, err
	}
	return a.maximum, nil
}

func (a *Accumulator) Mean() (float64, error) {
	if err := a.need("mean", 1); err != nil {
		return 0, err
	}
	return a.mean(), nil
}

func (a *Accumulator) mean() float64 {
	return a.anchor + a.centeredSum/float64(a.count)
}

// Variance is the sample variance, dividing by count-1.
func (a *Accumulator) Variance() (float64, error) {
	if err := a.need("variance", 2); err != nil {
		return 0, err
	}
	return a.variance(), nil
}

func (a *Accumulator) variance() float64 {
	n := float64(a.count)
	return (a.centeredSumSq - a.centeredSum*a.centeredSum/n) / (n - 1)
}

func (a *Accumulator) StdDev() (float64, error) {
	if err := a.need("stddev", 2); err != nil {
		return 0, err
	}
	return math.Sqrt(a.variance()), nil
}

// StdErr is the standard error of the mean.
func (a *Accumulator) StdErr() (float64, error) {
	if err := a.need("stderr", 2); err != nil {
		return 0, err
	}
	return a.stdErr(), nil
}

func (a *Accumulator) stdErr() float64 {
	return math.Sqrt(a.variance() / float64(a.count))
}

// Conf returns the half-width of the two-sided confidence interval around the mean.
// level is optional and defaults to DefaultConfidenceLevel.
func (a *Accumulator) Conf(level ...float64) (float64, error) {
	l := DefaultConfidenceLevel
	if len(level) != 0 {
		l = level[0]
	}
	return a.ConfWith(l, DistAuto)
}

// ConfWith is Conf with a chosen distribution for the critical value.
// DistAuto uses T() below TDistributionLimit values and Z() from there.
func (a *Accumulator) ConfWith(level float64, dist Distribution) (float64, error) {
	if err := a.need("confidence interval", 2); err != nil {
		return 0, err
	}
	if level <= 0 || level >= 1 || math.IsNaN(level) {
		return 0, &LevelError{Level: level}
	}
	return a.criticalValue(level, dist) * a.stdErr(), nil
}

func (a *Accumulator) criticalValue(level float64, dist Distribution) float64 {
	centered := (1 - level) / 2
	if dist == DistAuto {
		dist = DistZ
		if a.count > 1 && a.count < TDistributionLimit {
			dist = DistT
		}
	}
	if dist == DistT {
		return T(centered, a.count-1)
	}
	return Z(centered)
}

// ConfidenceRange is the interval mean ± Conf(level).
func (a *Accumulator) ConfidenceRange(level float64) (RangeF64, error) {
	hw, err := a.Conf(level)
	if err != nil {
		return RangeF64{}, err
	}
	m := a.mean()
	return MakeRange(m-hw, m+hw), nil
}

func (a *Accumulator) Summarize(level float64, dist Distribution) (Summary, error) {
	hw, err := a.ConfWith(level, dist)
	if err != nil {
		return Summary{}, err
	}
	v := a.variance()
	return Summary{
		Count:     a.count,
		Sum:       a.sum,
		Min:       a.minimum,
		Max:       a.maximum,
		Mean:      a.mean(),
		Variance:  v,
		StdDev:    math.Sqrt(v),
		StdErr:    a.stdErr(),
		HalfWidth: hw,
		Level:     level,
	}, nil
}

func (a *Accumulator) String() string {
	return fmt.Sprintf("{count:%d minimum:%g maximum:%g anchor:%g centeredSum:%g centeredSumSq:%g sum:%g}",
		a.count, a.minimum, a.maximum, a.anchor, a.centeredSum, a.centeredSumSq, a.sum)
}
