package core

import "testing"

func TestMatchesSyncExactMatch(t *testing.T) {
	d := &FSKDemod{sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: false}}
	if !d.matchesSync(AMPSBarkerSync) {
		t.Fatal("exact sync pattern did not match itself")
	}
}

func TestMatchesSyncToleratesOneBitError(t *testing.T) {
	d := &FSKDemod{sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: true}}

	for i := range AMPSBarkerSync {
		candidate := make(Bits, len(AMPSBarkerSync))
		copy(candidate, AMPSBarkerSync)
		candidate[i] = !candidate[i]
		if !d.matchesSync(candidate) {
			t.Fatalf("tolerant sync word rejected a single bit error at position %d", i)
		}
	}
}

func TestMatchesSyncStrictRejectsOneBitError(t *testing.T) {
	d := &FSKDemod{sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: false}}

	candidate := make(Bits, len(AMPSBarkerSync))
	copy(candidate, AMPSBarkerSync)
	candidate[0] = !candidate[0]

	if d.matchesSync(candidate) {
		t.Fatal("strict (non-tolerant) sync word accepted a single bit error")
	}
}

func TestMatchesSyncRejectsTwoBitErrorsEvenWhenTolerant(t *testing.T) {
	d := &FSKDemod{sync: SyncWord{Pattern: AMPSBarkerSync, Tolerant: true}}

	candidate := make(Bits, len(AMPSBarkerSync))
	copy(candidate, AMPSBarkerSync)
	candidate[0] = !candidate[0]
	candidate[1] = !candidate[1]

	if d.matchesSync(candidate) {
		t.Fatal("tolerant sync word accepted a two-bit error")
	}
}

func TestDottingDeclaredRequiresEightEdgesWithinHalfBit(t *testing.T) {
	d := &FSKDemod{windowLen: 10}
	for i := 0; i < 7; i++ {
		d.edgeHistory = append(d.edgeHistory, 1.0)
	}
	if d.dottingDeclared() {
		t.Fatal("dotting declared with only 7 edge intervals recorded")
	}

	d.edgeHistory = append(d.edgeHistory, 1.4) // within +-0.5 of 1.0
	if !d.dottingDeclared() {
		t.Fatal("dotting not declared with 8 edges all within tolerance")
	}

	d.edgeHistory[7] = 1.6 // outside +-0.5 of 1.0
	if d.dottingDeclared() {
		t.Fatal("dotting declared with an edge interval outside tolerance")
	}
}
