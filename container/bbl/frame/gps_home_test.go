package frame

import (
	"bytes"
	"testing"

	"github.com/flightrec/bbl/container/bbl/wire"
)

func TestDecodeH(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(wire.WriteSignedVB(5))
	buf.Write(wire.WriteSignedVB(-5))

	lat, lon, err := DecodeH(&buf, 400000000, -730000000)
	if err != nil {
		t.Fatalf("DecodeH: %v", err)
	}
	if lat != 400000005 || lon != -730000005 {
		t.Errorf("got (%d, %d), want (400000005, -730000005)", lat, lon)
	}
}

func TestDecodeHTruncated(t *testing.T) {
	if _, _, err := DecodeH(bytes.NewReader(nil), 0, 0); err == nil {
		t.Fatal("expected error on empty input")
	}
}
