package core

/*------------------------------------------------------------------
 *
 * Purpose:	FSK/biphase modulator (C2, spec §4.2): bit stream -> sample
 *		stream, pull-model (spec §9: "the FSK modulator is a
 *		generator; the FSM is its upstream").
 *
 * Description:	A 256-entry cosine table shapes the frequency across
 *		each full bit period for Manchester/biphase systems. The
 *		modulator tracks a fractional bit phase across chunk
 *		boundaries; running out of source bits emits the idle
 *		pattern.
 *
 *----------------------------------------------------------------*/

import "math"

const rampTableSize = 256

var rampTable = buildRampTable()

func buildRampTable() [rampTableSize]float64 {
	var t [rampTableSize]float64
	for i := range t {
		// Raised-cosine transition from -1 to +1 across the table.
		t[i] = -math.Cos(math.Pi * float64(i) / float64(rampTableSize-1))
	}
	return t
}

// IdlePattern selects what the modulator emits when it runs out of
// source bits (spec §4.2).
type IdlePattern int

const (
	IdleFFSKMark IdlePattern = iota
	IdleTestTone
)

// FSKMod is a bit-rate-parametrized Manchester/biphase modulator
// shared by AMPS/TACS (10kbps), NMT (1200bps), B-Netz (100bps),
// C-Netz (5280bps), Golay (600bps) (spec §4.2).
type FSKMod struct {
	sampleRate float64
	bitRateHz  float64
	deviation  float64
	invert     bool
	idle       IdlePattern

	source     Bits
	sourcePos  int
	lastBit    bool
	haveLast   bool
	phase      float64 // fractional bit position, 0..1
	rampIdx    int
	carrierPhase float64
}

// NewFSKMod builds a modulator for the given bit rate and FM peak
// deviation (Hz) at sampleRate.
func NewFSKMod(sampleRate, bitRateHz, deviationHz float64, invert bool) *FSKMod {
	return &FSKMod{sampleRate: sampleRate, bitRateHz: bitRateHz, deviation: deviationHz, invert: invert}
}

// Feed supplies the next burst of bits for transmission (typically the
// FSM's PullTxFrame result). Feeding an empty Bits leaves the
// modulator free-running on the idle pattern.
func (m *FSKMod) Feed(bits Bits) {
	m.source = bits
	m.sourcePos = 0
}

func (m *FSKMod) nextBit() (bit bool, idle bool) {
	if m.sourcePos >= len(m.source) {
		return m.idle == IdleFFSKMark, true
	}
	b := m.source[m.sourcePos]
	m.sourcePos++
	if m.invert {
		b = !b
	}
	return b, false
}

// Render synthesizes len(out) samples of FM-modulated output, pulling
// bits as needed. Within every bit period the frequency follows the
// 256-entry cosine table from -deviation to +deviation for a 1 bit (the
// reverse for a 0 bit), so it is continuous between unequal bits and
// steps from one peak to the other between equal bits. Equal and
// unequal bit pairs get the same per-bit sweep; there is no separate
// mid-bit or single-edge ramp.
func (m *FSKMod) Render(out []int16) {
	samplesPerBit := m.sampleRate / m.bitRateHz
	for i := range out {
		if !m.haveLast {
			bit, _ := m.nextBit()
			m.lastBit = bit
			m.haveLast = true
		}

		bit, _ := m.peekOrAdvance(samplesPerBit)

		target := m.deviation
		if !bit {
			target = -m.deviation
		}
		frac := m.rampTableLookup()
		freq := target * frac

		m.carrierPhase += 2 * math.Pi * freq / m.sampleRate
		if m.carrierPhase > 2*math.Pi {
			m.carrierPhase -= 2 * math.Pi
		}
		out[i] = clip16(16000 * math.Sin(m.carrierPhase))
	}
}

// peekOrAdvance advances the fractional bit-phase counter by one
// sample and, on crossing a bit boundary, pulls the next bit.
func (m *FSKMod) peekOrAdvance(samplesPerBit float64) (bool, bool) {
	m.phase += 1.0 / samplesPerBit
	idle := false
	if m.phase >= 1.0 {
		m.phase -= 1.0
		next, isIdle := m.nextBit()
		idle = isIdle
		m.lastBit = next
	}
	m.rampIdx = int(m.phase * float64(rampTableSize))
	if m.rampIdx >= rampTableSize {
		m.rampIdx = rampTableSize - 1
	}
	return m.lastBit, idle
}

func (m *FSKMod) rampTableLookup() float64 {
	return rampTable[m.rampIdx]
}

// Reset clears modulator phase state, used when a Transceiver's DSP
// mode changes.
func (m *FSKMod) Reset() {
	m.source = nil
	m.sourcePos = 0
	m.phase = 0
	m.haveLast = false
	m.carrierPhase = 0
}
