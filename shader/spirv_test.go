package shader

import (
	"encoding/binary"
	"testing"
)

// packSPIRVString encodes a string into NUL-terminated, word-packed form,
// the inverse of decodeSPIRVStringWithLength.
func packSPIRVString(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4 : i*4+4])
	}
	return words
}

func TestDecodeSPIRVStringWithLengthRoundTrips(t *testing.T) {
	words := packSPIRVString("main")
	got, consumed := decodeSPIRVStringWithLength(words)
	if got != "main" {
		t.Fatalf("expected \"main\", got %q", got)
	}
	if consumed != len(words) {
		t.Fatalf("expected to consume all %d words, consumed %d", len(words), consumed)
	}
}

func TestDecodeSPIRVStringWithLengthStopsAtTerminator(t *testing.T) {
	words := append(packSPIRVString("main"), 0xDEADBEEF)
	got, consumed := decodeSPIRVStringWithLength(words)
	if got != "main" {
		t.Fatalf("expected \"main\", got %q", got)
	}
	if consumed != len(words)-1 {
		t.Fatalf("expected to leave the trailing word unconsumed, consumed %d of %d", consumed, len(words))
	}
}

func TestParseSPIRVRejectsTooShortModule(t *testing.T) {
	_, err := parseSPIRV([]uint32{spirvMagicNumber, 0, 0})
	if err == nil {
		t.Fatalf("expected an error for a too-short module")
	}
}

func TestParseSPIRVRejectsBadMagicNumber(t *testing.T) {
	_, err := parseSPIRV([]uint32{0, 0, 0, 0, 0})
	if err == nil {
		t.Fatalf("expected an error for a bad magic number")
	}
}

func TestParseSPIRVEmptyModuleHasNoEntryPoints(t *testing.T) {
	ir, err := parseSPIRV([]uint32{spirvMagicNumber, 0, 0, 0, 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ir.EntryPoints) != 0 {
		t.Fatalf("expected no entry points, got %d", len(ir.EntryPoints))
	}
}
