package core

/*------------------------------------------------------------------
 *
 * Purpose:	Per-system DSP wiring (spec §4.2-§4.4): the bit rate,
 *		two-tone mark/space pair, coded-frame length, sync word
 *		and supervisory tone a Transceiver needs before it can
 *		run RxSamples/TxSamples.
 *
 * Description:	AMPS/NMT/B-Netz/C-Netz base stations are true analog FM
 *		with frequency deviation, not two-tone AFSK; this core's
 *		FSKDemod (§4.3) already generalizes both onto one
 *		Goertzel mark/space model (see DESIGN.md), so the
 *		"mark" and "space" frequencies below are that model's
 *		two detection bins, spaced at +-deviation around a fixed
 *		reference tone per system, not literal historical AFSK
 *		tone pairs.
 *
 *----------------------------------------------------------------*/

// dspProfile bundles the parameters ConfigureDSP needs to build a
// Transceiver's demodulator, modulator and supervisory detector.
type dspProfile struct {
	bitRateHz    float64
	deviationHz  float64
	referenceHz  float64
	forwardBits  int // coded bits after sync, base -> mobile
	reverseBits  int // coded bits after sync, mobile -> base
	sync         SyncWord
	invert       bool
	supervisory  SupervisoryTone
	hysteresisN  int
}

var dspProfiles = map[System]dspProfile{
	SystemAMPS: {
		bitRateHz: 10000, deviationHz: 8000, referenceHz: 1000000,
		forwardBits: AMPSForwardBCH.N, reverseBits: AMPSReverseBCH.N,
		sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: true},
		supervisory: SATTone1, hysteresisN: 5,
	},
	SystemTACS: {
		bitRateHz: 8000, deviationHz: 6400, referenceHz: 1000000,
		forwardBits: AMPSForwardBCH.N, reverseBits: AMPSReverseBCH.N,
		sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: true},
		supervisory: SATTone1, hysteresisN: 5,
	},
	SystemJTACS: {
		bitRateHz: 8000, deviationHz: 6400, referenceHz: 1000000,
		forwardBits: AMPSForwardBCH.N, reverseBits: AMPSReverseBCH.N,
		sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: true},
		supervisory: SATTone1, hysteresisN: 5,
	},
	SystemNMT450: {
		bitRateHz: 1200, deviationHz: 3500, referenceHz: 170000,
		forwardBits: hagelbargerChannelBits, reverseBits: hagelbargerChannelBits,
		sync: SyncWord{Pattern: NMTSync, Tolerant: true},
		supervisory: SuperTone1, hysteresisN: 4,
	},
	SystemNMT900: {
		bitRateHz: 1200, deviationHz: 3500, referenceHz: 340000,
		forwardBits: hagelbargerChannelBits, reverseBits: hagelbargerChannelBits,
		sync: SyncWord{Pattern: NMTSync, Tolerant: true},
		supervisory: SuperTone1, hysteresisN: 4,
	},
	SystemBNetz: {
		bitRateHz: 100, deviationHz: 500, referenceHz: 16000,
		forwardBits: bnetzWord.Width(), reverseBits: bnetzWord.Width(),
		sync: SyncWord{Pattern: Bits{true, false, true, false, true, false, true, false}, Tolerant: false},
		hysteresisN: 3,
	},
	SystemCNetz: {
		bitRateHz: 5280, deviationHz: 4000, referenceHz: 26000,
		forwardBits: cnetzBlockBits, reverseBits: cnetzBlockBits,
		sync: SyncWord{Pattern: CNetzBarkerSync, Tolerant: true},
		hysteresisN: 3,
	},
}

// ConfigureDSP builds and installs a Transceiver's Demod, Mod and
// Super (when the system has supervisory tones) from this core's
// fixed per-system profile (spec §4.6: "a Transceiver owns its own
// DSP block instances").
func ConfigureDSP(t *Transceiver) error {
	p, ok := dspProfiles[t.System]
	if !ok {
		return &ConfigError{Op: "ConfigureDSP", Reason: "no DSP profile for this system"}
	}
	markHz := p.referenceHz + p.deviationHz
	spaceHz := p.referenceHz - p.deviationHz

	t.Demod = NewFSKDemod(t.SampleRate, p.bitRateHz, markHz, spaceHz, p.reverseBits, p.sync)
	t.Mod = NewFSKMod(t.SampleRate, p.bitRateHz, p.deviationHz, p.invert)

	switch t.System {
	case SystemAMPS, SystemTACS, SystemJTACS:
		t.Super = NewAMPSSupervisoryDetector(t.SampleRate, p.hysteresisN)
	case SystemNMT450, SystemNMT900:
		t.Super = NewNMTSupervisoryDetector(t.SampleRate, p.hysteresisN)
	}
	return nil
}
