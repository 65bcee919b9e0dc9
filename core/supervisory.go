package core

/*------------------------------------------------------------------
 *
 * Purpose:	Supervisory-tone detector/generator (C4, spec §4.4): SAT
 *		for AMPS, super-tones for NMT, both narrow-band Goertzel
 *		plus hysteresis.
 *
 *----------------------------------------------------------------*/

import "math"

// SupervisoryTone names one of the fixed tone frequencies a system
// uses for supervision.
type SupervisoryTone int

const (
	SATTone1 SupervisoryTone = iota // AMPS 5970 Hz
	SATTone2                        // AMPS 6000 Hz
	SATTone3                        // AMPS 6030 Hz
	SuperTone1                       // NMT 3955 Hz
	SuperTone2                       // NMT 3985 Hz
	SuperTone3                       // NMT 4015 Hz
	SuperTone4                       // NMT 4045 Hz
)

var supervisoryFreqHz = map[SupervisoryTone]float64{
	SATTone1: 5970, SATTone2: 6000, SATTone3: 6030,
	SuperTone1: 3955, SuperTone2: 3985, SuperTone3: 4015, SuperTone4: 4045,
}

const (
	ampsNoiseRefHz      = 5800
	ampsSignalingHz     = 10000
	nmtSuperNoiseRefHz  = 3900
)

// SupervisoryDetector runs a narrow-band Goertzel over a rolling
// window and applies a consecutive-window hysteresis before declaring
// detected/lost (spec §4.4, testable property #10).
type SupervisoryDetector struct {
	sampleRate   float64
	windowMs     float64
	toneHz       float64
	noiseHz      float64
	signalingHz  float64
	threshold    float64
	hysteresisN  int

	buf          []int16
	aboveStreak  int
	belowStreak  int
	detected     bool

	sigBuf         []int16
	sigAboveStreak int
	sigBelowStreak int
	sigDetected    bool

	OnSupervisory   func(detected bool)
	OnSignalingTone func(detected bool)
}

// NewAMPSSupervisoryDetector builds the AMPS SAT/signaling-tone
// detector: 100ms window, three SAT frequencies selectable via SetTone.
func NewAMPSSupervisoryDetector(sampleRate float64, hysteresisN int) *SupervisoryDetector {
	return &SupervisoryDetector{
		sampleRate: sampleRate, windowMs: 100, toneHz: supervisoryFreqHz[SATTone1],
		noiseHz: ampsNoiseRefHz, signalingHz: ampsSignalingHz, threshold: 0.2, hysteresisN: hysteresisN,
	}
}

// NewNMTSupervisoryDetector builds the NMT super-tone detector: 250ms
// window, four super frequencies.
func NewNMTSupervisoryDetector(sampleRate float64, hysteresisN int) *SupervisoryDetector {
	return &SupervisoryDetector{
		sampleRate: sampleRate, windowMs: 250, toneHz: supervisoryFreqHz[SuperTone1],
		noiseHz: nmtSuperNoiseRefHz, signalingHz: 0, threshold: 0.2, hysteresisN: hysteresisN,
	}
}

// SetTone selects which of the system's supervisory frequencies to
// watch for (the assigned SAT color or super-tone index for this
// transaction).
func (d *SupervisoryDetector) SetTone(t SupervisoryTone) {
	d.toneHz = supervisoryFreqHz[t]
}

func (d *SupervisoryDetector) windowSamples() int {
	return int(d.windowMs * d.sampleRate / 1000.0)
}

// Reset clears accumulated window state and hysteresis counters
// (called on a DSP-mode change, spec §4.6).
func (d *SupervisoryDetector) Reset() {
	d.buf = d.buf[:0]
	d.aboveStreak, d.belowStreak = 0, 0
	d.detected = false
	d.sigBuf = d.sigBuf[:0]
	d.sigAboveStreak, d.sigBelowStreak = 0, 0
	d.sigDetected = false
}

// Process appends samples and, whenever a full window has
// accumulated, runs the Goertzel quality check and hysteresis,
// invoking OnSupervisory/OnSignalingTone on a state transition.
func (d *SupervisoryDetector) Process(samples []int16) {
	d.buf = append(d.buf, samples...)
	if d.signalingHz != 0 {
		d.sigBuf = append(d.sigBuf, samples...)
	}

	n := d.windowSamples()
	for len(d.buf) >= n {
		window := d.buf[:n]
		d.buf = d.buf[n:]
		above := d.evaluate(window, d.toneHz, d.noiseHz)
		d.applyHysteresis(above, &d.aboveStreak, &d.belowStreak, &d.detected, d.OnSupervisory)
	}
	if d.signalingHz == 0 {
		return
	}
	for len(d.sigBuf) >= n {
		window := d.sigBuf[:n]
		d.sigBuf = d.sigBuf[n:]
		above := d.evaluate(window, d.signalingHz, d.noiseHz)
		d.applyHysteresis(above, &d.sigAboveStreak, &d.sigBelowStreak, &d.sigDetected, d.OnSignalingTone)
	}
}

// evaluate computes quality = (sig - noise) / sig over one window
// (spec §4.4) and compares it to the detection threshold.
func (d *SupervisoryDetector) evaluate(window []int16, toneHz, noiseHz float64) bool {
	floats := make([]float64, len(window))
	for i, s := range window {
		floats[i] = float64(s)
	}
	sig := GoertzelMagnitude(floats, GoertzelCoeff(toneHz, d.sampleRate))
	noise := GoertzelMagnitude(floats, GoertzelCoeff(noiseHz, d.sampleRate))
	if sig == 0 {
		return false
	}
	quality := (sig - noise) / sig
	return quality > d.threshold
}

func (d *SupervisoryDetector) applyHysteresis(above bool, aboveStreak, belowStreak *int, detected *bool, cb func(bool)) {
	if above {
		*aboveStreak++
		*belowStreak = 0
	} else {
		*belowStreak++
		*aboveStreak = 0
	}

	switch {
	case !*detected && *aboveStreak >= d.hysteresisN:
		*detected = true
		*aboveStreak = 0
		if cb != nil {
			cb(true)
		}
	case *detected && *belowStreak >= d.hysteresisN:
		*detected = false
		*belowStreak = 0
		if cb != nil {
			cb(false)
		}
	}
}

// SupervisoryGenerator synthesizes the configured SAT/super tone as a
// sine mixed into the TX path during voice mode (spec §4.4). Amplitude
// is fixed per spec, not configurable.
type SupervisoryGenerator struct {
	sampleRate float64
	toneHz     float64
	phase      float64
}

const supervisoryAmplitude = 2600.0 // fixed per spec §4.4

func NewSupervisoryGenerator(sampleRate float64, tone SupervisoryTone) *SupervisoryGenerator {
	return &SupervisoryGenerator{sampleRate: sampleRate, toneHz: supervisoryFreqHz[tone]}
}

func (g *SupervisoryGenerator) SetTone(t SupervisoryTone) { g.toneHz = supervisoryFreqHz[t] }

// MixInto adds the supervisory tone into an existing sample buffer,
// clipping to int16 range.
func (g *SupervisoryGenerator) MixInto(out []int16) {
	step := 2 * math.Pi * g.toneHz / g.sampleRate
	for i := range out {
		s := supervisoryAmplitude * math.Sin(g.phase)
		out[i] = clip16(float64(out[i]) + s)
		g.phase += step
		if g.phase > 2*math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
}
