package frame

import (
	"bytes"
	"testing"

	"github.com/flightrec/bbl/container/bbl/predict"
	"github.com/flightrec/bbl/container/bbl/wire"
)

func TestDecodeVectorZeroPredictor(t *testing.T) {
	schema := &Schema{
		Names:          []string{"time"},
		Predictors:     []predict.Kind{predict.Zero},
		Encodings:      []EncodingKind{UnsignedVB},
		MotorZeroIndex: -1,
	}
	var buf bytes.Buffer
	buf.Write(wire.WriteUnsignedVB(1000))

	got, err := DecodeVector(schema, &buf, predict.NewHistory(1), Scalars{})
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if got[0] != 1000 {
		t.Errorf("got %v, want [1000]", got)
	}
}

func TestDecodeVectorMotor0Dependency(t *testing.T) {
	schema := &Schema{
		Names:          []string{"motor[0]", "motor[1]"},
		Predictors:     []predict.Kind{predict.Minthrottle, predict.Motor0},
		Encodings:      []EncodingKind{SignedVB, SignedVB},
		MotorZeroIndex: 0,
	}
	var buf bytes.Buffer
	buf.Write(wire.WriteSignedVB(30))  // motor[0]: 1070+30=1100
	buf.Write(wire.WriteSignedVB(-20)) // motor[1]: 1100-20=1080

	got, err := DecodeVector(schema, &buf, predict.NewHistory(2), Scalars{MinThrottle: 1070})
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if got[0] != 1100 || got[1] != 1080 {
		t.Errorf("got %v, want [1100 1080]", got)
	}
}

func TestDecodeVectorTagGroupSpansRemainingFields(t *testing.T) {
	// Only 3 fields declared but TAG8_8SVB always emits 8 values; decoder
	// must fill just the 3 available slots and stop.
	schema := &Schema{
		Names:          []string{"a", "b", "c"},
		Predictors:     []predict.Kind{predict.Zero, predict.Zero, predict.Zero},
		Encodings:      []EncodingKind{Tag8_8SVB, Tag8_8SVB, Tag8_8SVB},
		MotorZeroIndex: -1,
	}
	var buf bytes.Buffer
	buf.Write(wire.WriteTag8_8SVB([8]int32{1, 2, 3, 0, 0, 0, 0, 0}))

	got, err := DecodeVector(schema, &buf, predict.NewHistory(3), Scalars{})
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v, want [1 2 3]", got)
	}
}

func TestDecodeVectorTruncated(t *testing.T) {
	schema := &Schema{
		Names:          []string{"time"},
		Predictors:     []predict.Kind{predict.Zero},
		Encodings:      []EncodingKind{UnsignedVB},
		MotorZeroIndex: -1,
	}
	_, err := DecodeVector(schema, bytes.NewReader(nil), predict.NewHistory(1), Scalars{})
	if err == nil {
		t.Fatal("expected truncation error on empty input")
	}
}

func TestDecodeVectorNullEncoding(t *testing.T) {
	schema := &Schema{
		Names:          []string{"x"},
		Predictors:     []predict.Kind{predict.Zero},
		Encodings:      []EncodingKind{Null},
		MotorZeroIndex: -1,
	}
	got, err := DecodeVector(schema, bytes.NewReader(nil), predict.NewHistory(1), Scalars{})
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if got[0] != 0 {
		t.Errorf("got %v, want [0]", got)
	}
}
