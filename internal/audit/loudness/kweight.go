package loudness

import "math"

// Biquad filter coefficients.
type biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Biquad filter state (direct form II transposed).
type biquadState struct {
	z1, z2 float64
}

func (s *biquadState) process(b *biquad, in float64) float64 {
	out := b.b0*in + s.z1
	s.z1 = b.b1*in - b.a1*out + s.z2
	s.z2 = b.b2*in - b.a2*out

	return out
}

// K-weighting filter coefficients for the given sample rate: pre-filter
// (high shelf modeling the acoustic effect of the head) + RLB weighting
// (high pass). Coefficients derived from the ITU-R BS.1770-4 analog
// prototypes.
func kWeightingFilters(sampleRate int) (pre, rlb biquad) {
	fs := float64(sampleRate)

	// Pre-filter (high shelf).
	f0 := 1681.974450955533
	gain := 3.999843853973347
	q := 0.7071752369554196

	k := math.Tan(math.Pi * f0 / fs)
	vh := math.Pow(10, gain/20)
	vb := math.Pow(vh, 0.4996667741545416)

	a0 := 1 + k/q + k*k
	pre.b0 = (vh + vb*k/q + k*k) / a0
	pre.b1 = 2 * (k*k - vh) / a0
	pre.b2 = (vh - vb*k/q + k*k) / a0
	pre.a1 = 2 * (k*k - 1) / a0
	pre.a2 = (1 - k/q + k*k) / a0

	// RLB weighting (high pass).
	f0 = 38.13547087602444
	q = 0.5003270373238773

	k = math.Tan(math.Pi * f0 / fs)

	a0 = 1 + k/q + k*k
	rlb.b0 = 1 / a0
	rlb.b1 = -2 / a0
	rlb.b2 = 1 / a0
	rlb.a1 = 2 * (k*k - 1) / a0
	rlb.a2 = (1 - k/q + k*k) / a0

	return pre, rlb
}
