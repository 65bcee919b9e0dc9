package core

/*------------------------------------------------------------------
 *
 * Purpose:	NMT SMS over DMS: 3GPP-style SMS-SUBMIT/SMS-DELIVER TPDU
 *		encode/decode with the SC-local RP header (spec §4.9,
 *		§8.7, §8.8).
 *
 * Description: Ported bit-for-bit from the reference implementation's
 *		address/time/7-bit-userdata packing, including its
 *		quirks: BCD digit 0 is encoded as semi-octet value 10
 *		(not 0) in every BCD field here, and RP information
 *		element id 0x41 is used for user data even though it
 *		conflicts with the published NMT Doc.450-3 1998-04-03 —
 *		spec §9 notes this matches the deployed network, which
 *		is what we follow.
 *
 *----------------------------------------------------------------*/

import (
	"fmt"
	"time"
)

// smsHeader is the fixed SC->MS local header prefixing every DMS SMS
// PDU, spelled out in the glossary as "\x01\x18SMSH\x18ABC\x02".
var smsHeader = []byte{0x01, 0x18, 'S', 'M', 'S', 'H', 0x18, 'A', 'B', 'C', 0x02}

const (
	rpMTData      = 0x01
	rpMOData      = 0x00
	rpMOAck       = 0x03
	rpMOError     = 0x05
	rpIEUserData  = 0x41 // per spec §9 note (b): deployed value, not the documented 0x?? typo
	rpIECause     = 0x42
	mtiSMSDeliver = 0x00
	mtiSMSSubmit  = 0x01
	mtiMask       = 0x03
	mmsNoMore     = 0x04
	vpfMask       = 0x18
)

var digitToSemiOctet = map[rune]byte{
	'1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'0': 10, '*': 11, '#': 12, '+': 13,
}

var semiOctetToDigit = [16]byte{
	'?', '1', '2', '3', '4', '5', '6', '7',
	'8', '9', '0', '*', '#', '+', '?', '?',
}

// encodeAddress packs a dialled-digit address into the TP-OA/TP-DA
// wire form: a digit-count byte, a type/plan byte, then BCD semi-octet
// pairs (low nibble first).
func encodeAddress(address string, typ, plan byte) []byte {
	var packed []byte
	count := 0
	var cur byte
	have := false
	for _, r := range address {
		d, ok := digitToSemiOctet[r]
		if !ok {
			continue
		}
		count++
		if !have {
			cur = d
			have = true
		} else {
			cur |= d << 4
			packed = append(packed, cur)
			have = false
		}
	}
	if have {
		packed = append(packed, cur|0xf0)
	}
	out := make([]byte, 0, 2+len(packed))
	out = append(out, byte(count), 0x80|(typ<<4)|plan)
	out = append(out, packed...)
	return out
}

func decodeAddress(data []byte, digits int) string {
	out := make([]byte, 0, digits)
	for i := 0; i < digits; i++ {
		var nibble byte
		if i&1 == 0 {
			nibble = data[i/2] & 0xf
		} else {
			nibble = data[i/2] >> 4
		}
		out = append(out, semiOctetToDigit[nibble])
	}
	return string(out)
}

// bcdZeroAsTen encodes one decimal digit (0-99) into the quirky
// two-semi-octet form where a 0 digit is represented as semi-octet
// value 10, matching the reference implementation exactly.
func bcdZeroAsTen(v int) byte {
	d1 := byte(v / 10)
	d2 := byte(v % 10)
	if d1 == 0 {
		d1 = 10
	}
	if d2 == 0 {
		d2 = 10
	}
	return (d2 << 4) | d1
}

// encodeTimestamp packs a UTC timestamp into the 7-byte TP-SCTS form:
// year, month, day, hour, minute, second, and a zero timezone offset
// (see DESIGN.md: the reference encodes local time with a real zone
// offset; this core always encodes UTC with a zero offset so the
// result is reproducible without a timezone database).
func encodeTimestamp(ts time.Time) []byte {
	u := ts.UTC()
	return []byte{
		bcdZeroAsTen(u.Year() % 100),
		bcdZeroAsTen(int(u.Month())),
		bcdZeroAsTen(u.Day()),
		bcdZeroAsTen(u.Hour()),
		bcdZeroAsTen(u.Minute()),
		bcdZeroAsTen(u.Second()),
		0x00,
	}
}

// encodeUserData7 packs ASCII text into the GSM-style 7-bit packed
// form, prefixed with a character count.
func encodeUserData7(message string) []byte {
	out := []byte{byte(len(message))}
	pos := 0
	for i := 0; i < len(message); i++ {
		c := message[i] & 0x7f
		if pos == 0 {
			out = append(out, c)
			pos = 7
		} else {
			out[len(out)-1] |= c << uint(pos)
			if pos > 1 {
				out = append(out, c>>uint(8-pos))
				pos--
			} else {
				pos = 0
			}
		}
	}
	return out
}

func decodeUserData7(data []byte, chars int) string {
	out := make([]byte, 0, chars)
	var fill, result int
	for _, b := range data {
		result |= int(b) << uint(fill)
		fill += 8
		for fill >= 7 && len(out) < chars {
			out = append(out, byte(result&0x7f))
			result >>= 7
			fill -= 7
		}
	}
	return string(out)
}

// SMSDeliver builds an SC->MS SMS-DELIVER DMS PDU (spec §4.9, §8.8).
func SMSDeliver(ref byte, origAddress string, origType, origPlan byte, timestamp time.Time, message string) []byte {
	var tpdu []byte
	tpdu = append(tpdu, mtiSMSDeliver|mmsNoMore)
	tpdu = append(tpdu, encodeAddress(origAddress, origType, origPlan)...)
	tpdu = append(tpdu, 0x00) // TP-PID
	tpdu = append(tpdu, 0x00) // TP-DCS: 7-bit
	tpdu = append(tpdu, encodeTimestamp(timestamp)...)
	tpdu = append(tpdu, encodeUserData7(message)...)

	out := make([]byte, 0, len(smsHeader)+4+len(tpdu))
	out = append(out, smsHeader...)
	out = append(out, rpMTData, ref, rpIEUserData, byte(len(tpdu)))
	out = append(out, tpdu...)
	return out
}

// SMSSubmit is the decoded content of an MS->SC SMS-SUBMIT PDU.
type SMSSubmit struct {
	Ref             byte
	OrigAddress     string
	OrigType, Plan  byte
	MsgRef          byte
	DestAddress     string
	DestType, DPlan byte
	Message         string
}

// SMSSubmitDecoder reassembles an MS->SC SMS-SUBMIT RP message from a
// byte stream fed one byte (or chunk) at a time, mirroring the
// reference decoder's "return 0 if more data is required" contract
// (spec §8.7, scenario D's byte-by-byte injection).
type SMSSubmitDecoder struct {
	buf []byte
}

func (d *SMSSubmitDecoder) Feed(b []byte) (result *SMSSubmit, done bool, err error) {
	d.buf = append(d.buf, b...)
	sub, status := decodeSMSSubmit(d.buf)
	switch status {
	case 1:
		return sub, true, nil
	case -1:
		return nil, true, fmt.Errorf("malformed SMS-SUBMIT PDU")
	default:
		return nil, false, nil
	}
}

// decodeSMSSubmit mirrors decode_sms_submit(): returns (result,1) done,
// (nil,-1) failed, (nil,0) needs more data.
func decodeSMSSubmit(data []byte) (*SMSSubmit, int) {
	if len(data) < 2 {
		return nil, 0
	}
	ref := data[1]
	p := data[2:]

	if len(p) < 2 {
		return nil, 0
	}
	origDigits := int(p[0])
	origType := (p[1] >> 4) & 0x7
	origPlan := p[1] & 0x0f
	origLen := (origDigits + 1) >> 1
	if len(p) < 2+origLen {
		return nil, 0
	}
	origData := p[2 : 2+origLen]
	p = p[2+origLen:]

	if len(p) < 2 {
		return nil, 0
	}
	if p[0] != rpIEUserData {
		return nil, -1
	}
	tpduLen := int(p[1])
	if len(p) < 2+tpduLen {
		return nil, 0
	}
	tpdu := p[2 : 2+tpduLen]

	origAddress := decodeAddress(origData, origDigits)

	t := tpdu
	if len(t) < 1 {
		return nil, -1
	}
	if t[0]&mtiMask != mtiSMSSubmit {
		return nil, -1
	}
	vpfPresent := t[0]&vpfMask != 0
	t = t[1:]

	if len(t) < 1 {
		return nil, -1
	}
	msgRef := t[0]
	t = t[1:]

	if len(t) < 2 {
		return nil, -1
	}
	destDigits := int(t[0])
	destType := (t[1] >> 4) & 0x7
	destPlan := t[1] & 0x0f
	destLen := (destDigits + 1) >> 1
	if len(t) < 2+destLen {
		return nil, -1
	}
	destData := t[2 : 2+destLen]
	destAddress := decodeAddress(destData, destDigits)
	t = t[2+destLen:]

	if len(t) < 1 { // TP-PID
		return nil, -1
	}
	t = t[1:]

	if len(t) < 1 { // TP-DCS
		return nil, -1
	}
	var coding int
	switch {
	case t[0] == 0x00:
		coding = 7
	case t[0]&0xf0 == 0x30:
		coding = 8
	default:
		return nil, -1
	}
	t = t[1:]

	if vpfPresent {
		if len(t) < 1 {
			return nil, -1
		}
		t = t[1:]
	}

	if len(t) < 1 {
		return nil, -1
	}
	msgChars := int(t[0])
	var msgLen int
	if coding == 7 {
		msgLen = (msgChars*7 + 7) / 8
	} else {
		msgLen = msgChars
	}
	if len(t) < 1+msgLen {
		return nil, -1
	}
	msgData := t[1 : 1+msgLen]

	var message string
	if coding == 7 {
		message = decodeUserData7(msgData, msgChars)
	} else {
		message = string(msgData[:msgChars])
	}

	return &SMSSubmit{
		Ref: ref, OrigAddress: origAddress, OrigType: origType, Plan: origPlan,
		MsgRef: msgRef, DestAddress: destAddress, DestType: destType, DPlan: destPlan,
		Message: message,
	}, 1
}
