package wire

import (
	"bytes"
	"testing"
)

func TestNeg14RoundTrip(t *testing.T) {
	for _, v := range []int32{0, -1, -100, -8191} {
		enc := WriteNeg14(v)
		got, err := ReadNeg14(bytes.NewReader(enc))
		if err != nil {
			t.Fatalf("ReadNeg14(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %d -> %v -> %d", v, enc, got)
		}
	}
}

func TestNeg14Truncated(t *testing.T) {
	_, err := ReadNeg14(bytes.NewReader([]byte{0x01}))
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}

func TestFixed32RoundTrip(t *testing.T) {
	for _, v := range []uint32{0, 1, 0x0000000f, 0x80000000, 0xffffffff} {
		enc := WriteFixed32(v)
		got, err := ReadFixed32(bytes.NewReader(enc))
		if err != nil {
			t.Fatalf("ReadFixed32(%#x): %v", v, err)
		}
		if got != v {
			t.Errorf("round-trip %#x -> %v -> %#x", v, enc, got)
		}
	}
}

func TestFixed32Truncated(t *testing.T) {
	_, err := ReadFixed32(bytes.NewReader([]byte{0x01, 0x02}))
	if err != ErrTruncated {
		t.Fatalf("err = %v, want ErrTruncated", err)
	}
}
