package frame

import (
	"bytes"
	"testing"

	"github.com/flightrec/bbl/container/bbl/wire"
)

func TestDecodeELogEnd(t *testing.T) {
	buf := bytes.NewReader([]byte{EventLogEnd})
	ev, err := DecodeE(buf)
	if err != nil {
		t.Fatalf("DecodeE: %v", err)
	}
	if ev.Type != EventLogEnd {
		t.Errorf("Type = %d, want EventLogEnd", ev.Type)
	}
}

func TestDecodeEInflightAdjustment(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(EventInflightAdjustment)
	buf.Write(wire.WriteSignedVB(-7))

	ev, err := DecodeE(&buf)
	if err != nil {
		t.Fatalf("DecodeE: %v", err)
	}
	if ev.InflightAdjustment != -7 {
		t.Errorf("InflightAdjustment = %d, want -7", ev.InflightAdjustment)
	}
}

func TestDecodeEAutotuneCycle(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(EventAutotuneCycle)
	for _, v := range []int32{1, -2, 3, -4} {
		buf.Write(wire.WriteSignedVB(v))
	}

	ev, err := DecodeE(&buf)
	if err != nil {
		t.Fatalf("DecodeE: %v", err)
	}
	want := [4]int32{1, -2, 3, -4}
	if ev.AutotuneCycle != want {
		t.Errorf("AutotuneCycle = %v, want %v", ev.AutotuneCycle, want)
	}
}

func TestDecodeEFlightModeChange(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(EventFlightMode)
	buf.Write(wire.WriteFixed32(0x0000000f))
	buf.Write(wire.WriteFixed32(0x80000000))

	ev, err := DecodeE(&buf)
	if err != nil {
		t.Fatalf("DecodeE: %v", err)
	}
	if ev.FlightModeFlags != 0x0000000f || ev.FlightModeFlags2 != 0x80000000 {
		t.Errorf("FlightModeFlags = %#x, %#x, want 0xf, 0x80000000", ev.FlightModeFlags, ev.FlightModeFlags2)
	}
}

func TestDecodeEUnknownType(t *testing.T) {
	buf := bytes.NewReader([]byte{99})
	if _, err := DecodeE(buf); err == nil {
		t.Fatal("expected error for unknown event type")
	}
}

func TestDecodeETruncated(t *testing.T) {
	buf := bytes.NewReader(nil)
	if _, err := DecodeE(buf); err == nil {
		t.Fatal("expected error on empty input")
	}
}
