package zmath

import "math"

// Distribution picks how the critical value of a confidence interval is approximated.
type Distribution int

const (
	DistAuto Distribution = iota
	DistT
	DistZ
)

func (d Distribution) String() string {
	switch d {
	case DistT:
		return "t"
	case DistZ:
		return "z"
	}
	return "auto"
}

// Z approximates the inverse of the standard normal distribution: the z where the upper tail beyond z has probability p.
// It is a rational approximation good to about 4-5 digits, from p. 276 of "Simulating Computer Systems" by M. H. MacDougall.
// p must be in (0, 1).
func Z(p float64) float64 {
	q := p
	if p > 0.5 {
		q = 1 - p
	}
	t := math.Sqrt(-2 * math.Log(q))
	n := (0.010328*t+0.802853)*t + 2.515517
	d := ((0.0013080*t+0.189269)*t+1.43278)*t + 1
	z := t - n/d
	if p > 0.5 {
		z = -z
	}
	return z
}

// T approximates the inverse of Student's t distribution with ndf degrees of freedom, as Z() but for the t distribution.
// It corrects Z(p) with a four-term series in 1/ndf (same source as Z), so is only good for moderate ndf.
func T(p float64, ndf int) float64 {
	var h [4]float64
	z1 := math.Abs(Z(p))
	z2 := z1 * z1
	h[0] = 0.25 * z1 * (z2 + 1)
	h[1] = 0.010416667 * z1 * ((5*z2+16)*z2 + 3)
	h[2] = 0.002604167 * z1 * ((3*z2+19)*z2 - 15)
	h[3] = 0.000010851 * z1 * ((((79*z2+776)*z2+1482)*z2-1920)*z2 - 945)

	var x float64
	df := float64(ndf)
	for i := 3; i >= 0; i-- {
		x = (x + h[i]) / df
	}
	t := z1 + x
	if p > 0.5 {
		t = -t
	}
	return t
}
