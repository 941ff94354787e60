package zmath

import "strconv"

type Range[N int | int64 | float64] struct {
	Valid bool `json:",omitempty"`
	Min   N    `json:",omitempty"`
	Max   N    `json:",omitempty"`
}

type RangeF64 = Range[float64]

func MakeRange[N int | int64 | float64](min, max N) Range[N] {
	return Range[N]{Valid: true, Min: min, Max: max}
}

func (r Range[N]) Length() N {
	return r.Max - r.Min
}

// Center is the midpoint; for a confidence range, the mean it was made around.
func (r Range[N]) Center() float64 {
	return (float64(r.Min) + float64(r.Max)) / 2
}

func (r Range[N]) Contains(n N) bool {
	return r.Valid && n >= r.Min && n <= r.Max
}

func (r *Range[N]) NiceString(digits int) string {
	if !r.Valid {
		return "invalid"
	}
	min := strconv.FormatFloat(float64(r.Min), 'f', digits, 64)
	max := strconv.FormatFloat(float64(r.Max), 'f', digits, 64)
	return min + " - " + max
}
