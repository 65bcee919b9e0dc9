package core

/*------------------------------------------------------------------
 *
 * Purpose:	C-Netz frame codec (C5, spec §4.5): 184-bit blocks (Barker
 *		sync + 7-bit pause + 7-bit post-pause + payload), DCC
 *		protection, FuTln/FuFSt identities.
 *
 *----------------------------------------------------------------*/

import "fmt"

const (
	cnetzBlockBits = 184
	cnetzPauseBits = 7
)

var CNetzBarkerSync = Bits{true, true, true, false, false, false, true, false, false, true, false}

var cnetzPayloadWord = Word{Fields: []Field{
	{"dcc", 7}, {"block_type", 4}, {"futln_net", 2}, {"futln_area", 5}, {"futln_number", 19},
}}

func cnetzPayloadBits() int {
	return cnetzBlockBits - len(CNetzBarkerSync) - 2*cnetzPauseBits
}

// EncodeCNetzBlock assembles one 184-bit C-Netz block: Barker sync,
// pause, payload, post-pause.
func EncodeCNetzBlock(values map[string]uint64) Bits {
	payload := PackFields(cnetzPayloadWord, values)
	want := cnetzPayloadBits()
	if len(payload) < want {
		payload = append(payload, make(Bits, want-len(payload))...)
	}
	pause := make(Bits, cnetzPauseBits)
	return Concat(CNetzBarkerSync, pause, payload, pause)
}

// DecodeCNetzBlock parses a 184-bit block, verifying the Barker sync.
func DecodeCNetzBlock(block Bits) (map[string]uint64, error) {
	if len(block) != cnetzBlockBits {
		return nil, fmt.Errorf("C-Netz block must be %d bits, got %d", cnetzBlockBits, len(block))
	}
	sync := block[:len(CNetzBarkerSync)]
	if HammingDistance(sync, CNetzBarkerSync) != 0 {
		return nil, fmt.Errorf("C-Netz Barker sync mismatch")
	}
	payloadStart := len(CNetzBarkerSync) + cnetzPauseBits
	payload := block[payloadStart : payloadStart+cnetzPayloadWord.Width()]
	return UnpackFields(cnetzPayloadWord, payload), nil
}

// FuTln identifies a C-Netz mobile station as a (network, area,
// number) triple (spec §3 glossary).
type FuTln struct {
	Net, Area, Number int
}

func (f FuTln) String() string {
	return fmt.Sprintf("%d-%d-%d", f.Net, f.Area, f.Number)
}
