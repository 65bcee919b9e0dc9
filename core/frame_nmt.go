package core

/*------------------------------------------------------------------
 *
 * Purpose:	NMT frame codec (C5, spec §4.5): 16 nibble digits,
 *		Hagelbärger-coded, preceded by a 12-bit preamble and a
 *		14-bit sync word.
 *
 * Description:	The "1a/1b/2a/.../30" message catalog names frames by a
 *		direction + numeric index; decode_frame_mt infers the
 *		semantic index from the leading digit ("P", the prefix
 *		selector) together with other digits — this table is
 *		part of the contract (spec §4.5).
 *
 *----------------------------------------------------------------*/

import "fmt"

// NMTPreamble and NMTSync are the fixed bit patterns preceding every
// Hagelbärger-coded block (spec §4.5).
var (
	NMTPreamble = Bits{true, false, true, false, true, false, true, false, true, false, true, false}
	NMTSync     = Bits{true, false, true, true, true, true, false, false, false, true, false, false, true, false}
)

// NMTFrame is one decoded 16-digit (64-bit) NMT message: Digits[0] is
// conventionally the prefix selector "P" named in spec §4.5.
type NMTFrame struct {
	Name   string
	Digits [16]byte // each 0-15 (a nibble)
}

// nmtCatalogEntry names one frame by its direction-qualified label
// ("1a" MS->BS, "1b" BS->MS, etc.) and the (prefix, selector) pair
// decode_frame_mt matches against.
type nmtCatalogEntry struct {
	Name     string
	Prefix   byte
	Selector byte // digit[1]; 0xff means "don't care"
}

// nmtCatalog is the message-index disambiguation table named in
// spec §4.5. Only the handful of frames this core's FSM actually
// drives are populated; additional entries follow the same shape.
var nmtCatalog = []nmtCatalogEntry{
	{Name: "1a", Prefix: 1, Selector: 0xff}, // MS: channel seizure / origination
	{Name: "2a", Prefix: 2, Selector: 0xff}, // BS->MS: MT call set-up
	{Name: "4a", Prefix: 4, Selector: 0xff}, // MS->BS: paging reply
	{Name: "10a", Prefix: 10, Selector: 0xff}, // BS->MS: channel assignment
	{Name: "12a", Prefix: 12, Selector: 0xff}, // MS->BS: seizure on assigned channel
	{Name: "20a", Prefix: 20, Selector: 0xff}, // BS->MS: release
	{Name: "30a", Prefix: 30, Selector: 0xff}, // MS->BS: release acknowledge
}

// EncodeNMTFrame converts 16 nibble digits into the wire bits: preamble
// + sync + Hagelbärger(64 data bits -> 140 channel bits).
func EncodeNMTFrame(digits [16]byte) Bits {
	var data uint64
	for _, d := range digits {
		Assert("EncodeNMTFrame", d < 16, "nibble digit")
		data = (data << 4) | uint64(d&0xf)
	}
	coded := HagelbargerEncode(data)
	return Concat(NMTPreamble, NMTSync, coded)
}

// DecodeNMTFrame recovers 16 nibble digits from a clean 140-bit
// Hagelbärger channel block (preamble/sync already stripped by the
// sync-hunt stage) and classifies it via the message catalog.
func DecodeNMTFrame(channel Bits) (NMTFrame, error) {
	data := HagelbargerDecode(channel)
	var f NMTFrame
	for i := 15; i >= 0; i-- {
		f.Digits[i] = byte(data & 0xf)
		data >>= 4
	}
	name, err := decodeFrameMT(f.Digits)
	if err != nil {
		return NMTFrame{}, err
	}
	f.Name = name
	return f, nil
}

// decodeFrameMT infers the semantic frame index from the prefix digit
// together with the selector digit, per the catalog named in spec
// §4.5.
func decodeFrameMT(digits [16]byte) (string, error) {
	prefix := digits[0]
	selector := digits[1]
	for _, e := range nmtCatalog {
		if e.Prefix != prefix {
			continue
		}
		if e.Selector != 0xff && e.Selector != selector {
			continue
		}
		return e.Name, nil
	}
	return "", fmt.Errorf("no catalog entry for NMT frame prefix %d selector %d", prefix, selector)
}
