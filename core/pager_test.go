package core

import "testing"

func TestEncodeEurosignalCallPacksFiveDigits(t *testing.T) {
	digits := EurosignalDigits{1, 2, 3, 4, 5}
	bits, err := EncodeEurosignalCall(digits)
	if err != nil {
		t.Fatalf("EncodeEurosignalCall: %v", err)
	}
	if len(bits) != 5*16 {
		t.Fatalf("len(bits) = %d, want %d", len(bits), 5*16)
	}
	for i, d := range digits {
		sym := bits[i*16 : (i+1)*16]
		if got := BitsToInt(sym); got != uint64(d) {
			t.Fatalf("digit %d: symbol = %d, want %d", i, got, d)
		}
	}
}

func TestEncodeEurosignalCallRejectsOutOfRangeDigit(t *testing.T) {
	digits := EurosignalDigits{0, 0, 0, 0, 10}
	if _, err := EncodeEurosignalCall(digits); err == nil {
		t.Fatal("expected an error for a digit > 9")
	}
}

func TestGolay23RoundTrip(t *testing.T) {
	for _, data := range []uint16{0, 1, 0xAB, 0x7FF, 0xFFF} {
		codeword := EncodeGolay23(data)
		if codeword>>23 != 0 {
			t.Fatalf("EncodeGolay23(%#x) = %#x, overflows 23 bits", data, codeword)
		}
		got := DecodeGolay23(codeword)
		if got != data {
			t.Fatalf("DecodeGolay23(EncodeGolay23(%#x)) = %#x, want %#x", data, got, data)
		}
	}
}

func TestGolay23DistinctMessagesDistinctCodewords(t *testing.T) {
	seen := make(map[uint32]uint16)
	for data := uint16(0); data < 64; data++ {
		cw := EncodeGolay23(data)
		if prev, ok := seen[cw]; ok {
			t.Fatalf("data %#x and %#x both encode to codeword %#x", data, prev, cw)
		}
		seen[cw] = data
	}
}
