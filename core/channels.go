package core

/*------------------------------------------------------------------
 *
 * Purpose:	Bit-exact channel <-> frequency tables for every system
 *		(spec §6). These are pure functions; no state.
 *
 *----------------------------------------------------------------*/

import "math"

// System tags the cellular variant a Transceiver or Transaction belongs
// to. Per §9, per-system behaviour is a tagged variant, not a subtype.
type System int

const (
	SystemAMPS System = iota
	SystemTACS
	SystemJTACS
	SystemNMT450
	SystemNMT900
	SystemBNetz
	SystemCNetz
	SystemEurosignal
)

// ChannelToFreq returns the TX (downlink, uplink=false) or RX (uplink,
// uplink=true) frequency in Hz for a channel number, or ok=false if the
// channel is not valid for the system.
func ChannelToFreq(sys System, channel int, uplink bool) (hz float64, ok bool) {
	switch sys {
	case SystemAMPS:
		return ampsChannelToFreq(channel, uplink)
	case SystemTACS:
		return tacsChannelToFreq(channel, uplink)
	case SystemJTACS:
		return jtacsChannelToFreq(channel, uplink)
	case SystemBNetz:
		return bnetzChannelToFreq(channel, uplink)
	case SystemEurosignal:
		return eurosignalChannelToFreq(channel, uplink)
	default:
		return 0, false
	}
}

// ChannelFromFreq recovers the channel number for a frequency, the
// inverse of ChannelToFreq, used by the round-trip test in spec §8.1.
func ChannelFromFreq(sys System, hz float64, uplink bool) (channel int, ok bool) {
	// Linear search over the valid range is fine: these plans are at
	// most ~1600 channels and this is not a hot path.
	lo, hi := channelRange(sys)
	for ch := lo; ch <= hi; ch++ {
		f, valid := ChannelToFreq(sys, ch, uplink)
		if valid && math.Abs(f-hz) < 1.0 {
			return ch, true
		}
	}
	return 0, false
}

func channelRange(sys System) (int, int) {
	switch sys {
	case SystemAMPS:
		return -33, 1023
	case SystemTACS:
		return 1, 1000
	case SystemJTACS:
		return 1, 1600
	case SystemBNetz:
		return 1, 86
	case SystemEurosignal:
		return 0, 3
	default:
		return 0, 0
	}
}

// --- AMPS ---
//
// Uplink = downlink - 45.000 MHz; channels 1..799 plus 990..1023 mapped
// as 990..1023 <-> -33..0; step 30 kHz; control channels 313..354.
const (
	ampsDuplexOffsetHz = 45_000_000.0
	ampsStepHz         = 30_000.0
	ampsBase1Hz        = 870_030_000.0 // downlink freq of channel 1
)

func ampsLogicalToStored(channel int) (stored int, ok bool) {
	switch {
	case channel >= 1 && channel <= 799:
		return channel, true
	case channel >= -33 && channel <= 0:
		return channel + 1023, true // -33..0 -> 990..1023
	default:
		return 0, false
	}
}

func ampsChannelToFreq(channel int, uplink bool) (float64, bool) {
	_, valid := ampsLogicalToStored(channel)
	if !valid {
		return 0, false
	}
	// One 30kHz ladder for both ranges: channel 0 (stored 1023) is the
	// rung just below channel 1, channel -33 (stored 990) the lowest.
	n := channel - 1
	downlink := ampsBase1Hz + float64(n)*ampsStepHz
	if uplink {
		return downlink - ampsDuplexOffsetHz, true
	}
	return downlink, true
}

// AMPSIsControlChannel reports whether channel is in the control band
// (313..354, the dedicated AMPS control-channel range).
func AMPSIsControlChannel(channel int) bool {
	return channel >= 313 && channel <= 354
}

// --- TACS ---
//
// Downlink base 935.0125 MHz, step 25 kHz, uplink offset 45.000 MHz,
// control 23..43 and 323..343.
const (
	tacsBaseHz  = 935_012_500.0
	tacsStepHz  = 25_000.0
	tacsOffsetH = 45_000_000.0
)

func tacsChannelToFreq(channel int, uplink bool) (float64, bool) {
	if channel < 1 || channel > 1000 {
		return 0, false
	}
	downlink := tacsBaseHz + float64(channel-1)*tacsStepHz
	if uplink {
		return downlink - tacsOffsetH, true
	}
	return downlink, true
}

func TACSIsControlChannel(channel int) bool {
	return (channel >= 23 && channel <= 43) || (channel >= 323 && channel <= 343)
}

// --- JTACS ---
//
// Uplink offset +55.000 MHz with a fragmented 4-band channel plan
// (1..799, 801..1039, 1041..1199, 1201..1600), control 418..456,
// even-only.
const (
	jtacsOffsetHz = 55_000_000.0
	jtacsStepHz   = 25_000.0
	jtacsBaseHz   = 915_006_250.0
)

func jtacsChannelToFreq(channel int, uplink bool) (float64, bool) {
	if !jtacsValidChannel(channel) {
		return 0, false
	}
	downlink := jtacsBaseHz + float64(channel-1)*jtacsStepHz
	if uplink {
		return downlink + jtacsOffsetHz, true
	}
	return downlink, true
}

func jtacsValidChannel(channel int) bool {
	switch {
	case channel >= 1 && channel <= 799:
		return true
	case channel >= 801 && channel <= 1039:
		return true
	case channel >= 1041 && channel <= 1199:
		return true
	case channel >= 1201 && channel <= 1600:
		return true
	default:
		return false
	}
}

func JTACSIsControlChannel(channel int) bool {
	return channel >= 418 && channel <= 456 && channel%2 == 0
}

// --- B-Netz ---
//
// Channels 1..39, 50..86 (19 is paging, excluded from this range but
// still a valid channel number occupying the dedicated calling
// channel). Step 20 kHz from a 148.410 MHz channel-1 base, per the original
// German B-Netz plan; uplink is a fixed 4.6 MHz duplex offset.
const (
	bnetzBaseHz   = 148_410_000.0
	bnetzStepHz   = 20_000.0
	bnetzDuplexHz = 4_600_000.0
	BNetzPagingCh = 19
)

func bnetzChannelToFreq(channel int, uplink bool) (float64, bool) {
	if !((channel >= 1 && channel <= 39) || (channel >= 50 && channel <= 86)) {
		return 0, false
	}
	downlink := bnetzBaseHz + float64(channel-1)*bnetzStepHz
	if uplink {
		return downlink + bnetzDuplexHz, true
	}
	return downlink, true
}

// --- Eurosignal ---
//
// Channels A-D at 87.34 + 0.025*n MHz (minus 7.5 kHz in FM mode).
var eurosignalLetterFreqHz = [4]float64{87_340_000, 87_365_000, 87_390_000, 87_415_000}

func eurosignalChannelToFreq(channel int, _ bool) (float64, bool) {
	if channel < 0 || channel > 3 {
		return 0, false
	}
	return eurosignalLetterFreqHz[channel], true
}

// EurosignalFMOffset applies the -7.5kHz FM-mode correction named in
// spec §6.
func EurosignalFMOffset(hz float64, fmMode bool) float64 {
	if fmMode {
		return hz - 7_500
	}
	return hz
}
