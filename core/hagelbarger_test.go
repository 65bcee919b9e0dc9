package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHagelbargerEncodeLength(t *testing.T) {
	coded := HagelbargerEncode(0)
	assert.Equal(t, hagelbargerChannelBits, len(coded))
}

// TestHagelbargerRoundTripProperty covers spec §8's "for all 64-bit
// inputs, HagelbargerDecode(HagelbargerEncode(v)) == v" property
// directly, rather than a hand-picked finite set of values.
func TestHagelbargerRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		coded := HagelbargerEncode(v)
		got := HagelbargerDecode(coded)
		assert.Equal(t, v, got, "HagelbargerDecode(HagelbargerEncode(%#x))", v)
	})
}

func TestHagelbargerMarkerIsFixed(t *testing.T) {
	a := HagelbargerEncode(0)
	b := HagelbargerEncode(^uint64(0))
	marker := IntToBits(hagelbargerMarker, 12)
	for i, bit := range marker {
		assert.Equalf(t, bit, a[128+i], "trailing marker bit %d (all-zero input)", i)
		assert.Equalf(t, bit, b[128+i], "trailing marker bit %d (all-one input)", i)
	}
}

func TestHagelbargerRepairSingleErasure(t *testing.T) {
	v := uint64(0x1122334455667788)
	coded := HagelbargerEncode(v)

	// Erase data bit 5 (its diffusion partner, bit 5+32=37, survives).
	erased := coded
	erased[2*5] = false

	repaired := HagelbargerRepair(erased, []int{5})
	assert.Equal(t, v, repaired)
}

func TestHagelbargerRepairBothPartnersErased(t *testing.T) {
	v := uint64(0xdeadbeefcafebabe)
	coded := HagelbargerEncode(v)

	erased := coded
	partner := 5 + hagelbargerDiffusion
	erased[2*5] = false
	erased[2*partner] = false

	repaired := HagelbargerRepair(erased, []int{5, partner})
	// Both halves of this diffusion pair are gone; HagelbargerRepair
	// leaves each untrusted bit at its corrupted (zeroed) value rather
	// than guessing.
	want := v &^ (1 << uint(hagelbargerDataBits-1-5)) &^ (1 << uint(hagelbargerDataBits-1-partner))
	assert.Equal(t, want, repaired)
}
