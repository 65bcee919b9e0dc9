package core

import "testing"

func TestNumberToMINRoundTrip(t *testing.T) {
	numbers := []string{
		"2025551234",
		"4155550100",
		"0000000000",
		"9999999999",
		"1010101010",
	}
	for _, n := range numbers {
		min1, min2, err := NumberToMIN(n)
		if err != nil {
			t.Fatalf("NumberToMIN(%q): %v", n, err)
		}
		got, err := MINToNumber(min1, min2)
		if err != nil {
			t.Fatalf("MINToNumber round trip for %q: %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip: NumberToMIN/MINToNumber(%q) = %q", n, got)
		}
	}
}

func TestNumberToMINRejectsBadInput(t *testing.T) {
	if _, _, err := NumberToMIN("12345"); err == nil {
		t.Fatal("expected error for short directory number")
	}
	if _, _, err := NumberToMIN("12345abcde"); err == nil {
		t.Fatal("expected error for non-digit directory number")
	}
}

func TestEncodeDecodeAMPSForward(t *testing.T) {
	values := map[string]uint64{"mt": 1, "scc": 2, "min1": 0xabcdef, "reserved": 1}
	frame, err := EncodeAMPSForward(2, values)
	if err != nil {
		t.Fatalf("EncodeAMPSForward: %v", err)
	}
	wantLen := len(AMPSDotting) + len(AMPSBarkerSync) + AMPSForwardBCH.N
	if len(frame) != wantLen {
		t.Fatalf("frame length %d, want %d", len(frame), wantLen)
	}

	coded := frame[len(AMPSDotting)+len(AMPSBarkerSync):]
	data, ok, corrected := AMPSForwardBCH.Decode(coded)
	if !ok || corrected {
		t.Fatalf("Decode(clean forward word): ok=%v corrected=%v", ok, corrected)
	}
	got, err := DecodeAMPSForward(2, IntToBits(data, AMPSForwardBCH.K))
	if err != nil {
		t.Fatalf("DecodeAMPSForward: %v", err)
	}
	if got["min1"] != values["min1"] {
		t.Fatalf("decoded min1 = %#x, want %#x", got["min1"], values["min1"])
	}
}

func TestEncodeAMPSForwardRejectsUnknownMessageType(t *testing.T) {
	if _, err := EncodeAMPSForward(99, nil); err == nil {
		t.Fatal("expected error for unknown AMPS forward message type")
	}
}

func TestEncodeDecodeDCC(t *testing.T) {
	for _, dcc := range []uint64{0, 1, 2, 3} {
		codeword := EncodeDCC(dcc)
		got, ok := DecodeDCC(codeword)
		if !ok {
			t.Fatalf("DecodeDCC(%d): not ok", dcc)
		}
		if got != dcc {
			t.Fatalf("DecodeDCC round trip: got %d, want %d", got, dcc)
		}
	}
}

func TestCallerIDFramesChecksum(t *testing.T) {
	frames := CallerIDFrames("4155550100")
	if len(frames) == 0 {
		t.Fatal("expected at least one caller ID frame")
	}
	for i, f := range frames {
		if len(f) != 8 {
			t.Fatalf("frame %d length %d, want 8 (7 data + checksum)", i, len(f))
		}
		var sum byte
		for _, b := range f[:7] {
			sum += b
		}
		if sum != f[7] {
			t.Fatalf("frame %d checksum %d, want %d", i, f[7], sum)
		}
	}
	if frames[0][0] != 0x01 || int(frames[0][1]) != len(frames) {
		t.Fatalf("first frame header = %v, want type=0x01 count=%d", frames[0][:2], len(frames))
	}
}
