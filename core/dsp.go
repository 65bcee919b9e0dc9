package core

/*------------------------------------------------------------------
 *
 * Purpose:	Pure-function signal blocks shared by every system:
 *		pre/de-emphasis, DC removal, the compander, and the
 *		single-frequency Goertzel detector used by both the
 *		FSK demodulator and the supervisory-tone detector.
 *
 *----------------------------------------------------------------*/

import "math"

// Emphasis is a stateful first-order high-shelf filter. Pre-emphasis
// and de-emphasis are the same shape with inverse coefficients; both
// keep one sample of memory (spec §4.1).
type Emphasis struct {
	coeff   float64
	prevIn  float64
	prevOut float64
	deemph  bool
}

// NewPreEmphasis builds a pre-emphasis filter with the given shelf
// coefficient (0 < coeff < 1; closer to 1 means a steeper shelf).
func NewPreEmphasis(coeff float64) *Emphasis {
	return &Emphasis{coeff: coeff}
}

// NewDeEmphasis builds the inverse filter.
func NewDeEmphasis(coeff float64) *Emphasis {
	return &Emphasis{coeff: coeff, deemph: true}
}

func (e *Emphasis) Step(x float64) float64 {
	var y float64
	if e.deemph {
		y = e.prevOut + e.coeff*(x-e.prevOut)
	} else {
		y = x - e.coeff*e.prevIn + e.coeff*e.prevOut
	}
	e.prevIn = x
	e.prevOut = y
	return y
}

func (e *Emphasis) Reset() {
	e.prevIn = 0
	e.prevOut = 0
}

// DCFilter is a one-pole high-pass used ahead of the FSK demodulator to
// suppress sample-rate DC bias and slow drift between audio chunks.
// Rule from spec §4.1: y = factor*(y_prev + x - x_prev).
type DCFilter struct {
	factor float64
	xPrev  float64
	yPrev  float64
}

// NewDCFilter builds a DC-blocking filter with a ~300 Hz cutoff at the
// given sample rate.
func NewDCFilter(sampleRate float64) *DCFilter {
	const cutoffHz = 300.0
	rc := 1.0 / (2 * math.Pi * cutoffHz)
	dt := 1.0 / sampleRate
	return &DCFilter{factor: rc / (rc + dt)}
}

func (f *DCFilter) Step(x float64) float64 {
	y := f.factor * (f.yPrev + x - f.xPrev)
	f.xPrev = x
	f.yPrev = y
	return y
}

// GoertzelMagnitude computes the single-frequency response over samples
// given a precomputed coeff = 2*cos(2*pi*f/fs). The result is never
// normalized inside the block (spec §4.1); callers compare magnitudes
// relative to each other or to a reference bin.
func GoertzelMagnitude(samples []float64, coeff float64) float64 {
	var s0, s1, s2 float64
	for _, x := range samples {
		s0 = x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	real := s1 - s2*coeff/2
	imag := s2 * math.Sin(math.Acos(coeff/2))
	return math.Sqrt(real*real + imag*imag)
}

// GoertzelCoeff precomputes the recursion coefficient for a target
// frequency at a given sample rate.
func GoertzelCoeff(freqHz, sampleRate float64) float64 {
	return 2 * math.Cos(2*math.Pi*freqHz/sampleRate)
}

// AudioLevel reports a simple peak level in dB-ish units (0..100),
// used by rx_samples(level_db) reporting and by the level/quality
// averaging the FSK demodulator attaches to a decoded frame.
func AudioLevel(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var peak int32
	for _, s := range samples {
		v := int32(s)
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	return 100.0 * float64(peak) / 32767.0
}

// Compander implements the split compress/expand envelope follower
// described in spec §4.1, with attack/recovery times per ITU-T G.162:
// after `attack` ms the envelope reaches 1.5x steady state; after
// `recovery` it reaches 0.75x. Separate instances are used for TX
// (compress) and RX (expand) paths.
type Compander struct {
	sampleRate float64
	attackStep float64
	recovStep  float64
	envelope   float64
	expand     bool
}

const companderFloor = 1.0 / 32768.0

// NewCompander builds a compander for the given attack/recovery times
// in milliseconds (AMPS and NMT both use 3ms/13.5ms per spec §4.1).
func NewCompander(sampleRate, attackMs, recoveryMs float64, expand bool) *Compander {
	c := &Compander{sampleRate: sampleRate, envelope: companderFloor, expand: expand}
	// Solve k such that (1+k)^(attackMs*sampleRate/1000 samples) == 1.5,
	// and likewise 0.75 for recovery, per-sample multiplicative step.
	attackSamples := attackMs * sampleRate / 1000.0
	recovSamples := recoveryMs * sampleRate / 1000.0
	c.attackStep = math.Pow(1.5, 1.0/attackSamples)
	c.recovStep = math.Pow(0.75, 1.0/recovSamples)
	return c
}

// Step compresses (TX) or expands (RX) one sample, clipping the output
// to the signed 16-bit range.
func (c *Compander) Step(x float64) int16 {
	abs := math.Abs(x)
	if abs < companderFloor {
		abs = companderFloor
	}

	if abs > c.envelope {
		c.envelope *= c.attackStep
		if c.envelope > abs {
			c.envelope = abs
		}
	} else {
		c.envelope *= c.recovStep
		if c.envelope < companderFloor {
			c.envelope = companderFloor
		}
	}

	gain := 1.0 / math.Sqrt(c.envelope)
	if c.expand {
		gain = math.Sqrt(c.envelope)
	}

	y := x * gain
	return clip16(y)
}

func clip16(y float64) int16 {
	if y > 32767 {
		return 32767
	}
	if y < -32768 {
		return -32768
	}
	return int16(y)
}
