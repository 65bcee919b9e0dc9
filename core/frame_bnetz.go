package core

/*------------------------------------------------------------------
 *
 * Purpose:	B-Netz frame codec (C5, spec §4.5): 16-bit digit
 *		telegrams, a 7-bit header, and a 9-bit payload encoding
 *		digits, dial-start/stop signals, and the
 *		"Gruppenfreisignal" idle code.
 *
 *----------------------------------------------------------------*/

import "fmt"

const (
	bnetzHeaderHigh = 0x07 // top 4 bits of the header: 0111
	bnetzHeaderLow  = 0x02 // bottom 3 bits of the header: 010
)

var bnetzWord = Word{Fields: []Field{
	{"h1", 4}, {"h2", 3}, {"payload", 9},
}}

// BNetzSignal names the non-digit telegrams B-Netz exchanges in
// addition to dialled digits (spec §4.5).
type BNetzSignal int

const (
	BNetzDigit BNetzSignal = iota
	BNetzDialStart
	BNetzDialStop
	BNetzGruppenfreisignal
)

// EncodeBNetzDigit builds the 16-bit telegram for one dialled digit
// 0-9.
func EncodeBNetzDigit(digit int) (Bits, error) {
	if digit < 0 || digit > 9 {
		return nil, fmt.Errorf("B-Netz digit %d out of range", digit)
	}
	return encodeBNetzPayload(uint64(digit)), nil
}

// EncodeBNetzSignal builds the telegram for a non-digit signal.
func EncodeBNetzSignal(sig BNetzSignal) (Bits, error) {
	var payload uint64
	switch sig {
	case BNetzDialStart:
		payload = 0x1fa
	case BNetzDialStop:
		payload = 0x1fb
	case BNetzGruppenfreisignal:
		payload = 0x1ff
	default:
		return nil, fmt.Errorf("unknown B-Netz signal %d", sig)
	}
	return encodeBNetzPayload(payload), nil
}

func encodeBNetzPayload(payload uint64) Bits {
	values := map[string]uint64{"h1": bnetzHeaderHigh, "h2": bnetzHeaderLow, "payload": payload}
	return PackFields(bnetzWord, values)
}

// DecodeBNetzTelegram parses one 16-bit telegram, returning the
// dialled digit (if any), the signal type, and whether the header
// matched.
func DecodeBNetzTelegram(bits Bits) (digit int, sig BNetzSignal, ok bool) {
	if len(bits) != bnetzWord.Width() {
		return 0, 0, false
	}
	values := UnpackFields(bnetzWord, bits)
	if values["h1"] != bnetzHeaderHigh || values["h2"] != bnetzHeaderLow {
		return 0, 0, false
	}
	payload := values["payload"]
	switch payload {
	case 0x1fa:
		return 0, BNetzDialStart, true
	case 0x1fb:
		return 0, BNetzDialStop, true
	case 0x1ff:
		return 0, BNetzGruppenfreisignal, true
	default:
		if payload <= 9 {
			return int(payload), BNetzDigit, true
		}
		return 0, 0, false
	}
}

// BNetzToneHz are the two level/tone frequencies used both for digit
// decoding and tone-continuous detection (spec §4.5).
var BNetzToneHz = [2]float64{1950, 2070}
