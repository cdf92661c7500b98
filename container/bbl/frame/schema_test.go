package frame

import (
	"testing"

	"github.com/flightrec/bbl/container/bbl/header"
)

func TestNewSchemaResolvesCodesAndMotorZero(t *testing.T) {
	defs := []header.FieldDef{
		{Name: "loopIteration", Signed: false, Predictor: 6, Encoding: 0},
		{Name: "time", Signed: false, Predictor: 0, Encoding: 0},
		{Name: "motor[0]", Signed: false, Predictor: 4, Encoding: 1},
		{Name: "motor[1]", Signed: false, Predictor: 5, Encoding: 1},
	}
	s, err := NewSchema(defs)
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if s.MotorZeroIndex != 2 {
		t.Errorf("MotorZeroIndex = %d, want 2", s.MotorZeroIndex)
	}
	if s.Encodings[3] != SignedVB {
		t.Errorf("motor[1] encoding = %v, want SignedVB", s.Encodings[3])
	}
}

func TestNewSchemaNoMotorZero(t *testing.T) {
	s, err := NewSchema([]header.FieldDef{{Name: "time", Predictor: 0, Encoding: 0}})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if s.MotorZeroIndex != -1 {
		t.Errorf("MotorZeroIndex = %d, want -1", s.MotorZeroIndex)
	}
}

func TestNewSchemaUnknownPredictorCode(t *testing.T) {
	_, err := NewSchema([]header.FieldDef{{Name: "x", Predictor: 999, Encoding: 0}})
	if err == nil {
		t.Fatal("expected error for unknown predictor code")
	}
}

func TestNewSchemaUnknownEncodingCode(t *testing.T) {
	_, err := NewSchema([]header.FieldDef{{Name: "x", Predictor: 0, Encoding: 999}})
	if err == nil {
		t.Fatal("expected error for unknown encoding code")
	}
}

func TestNewPSchemaReusesINames(t *testing.T) {
	iSchema, err := NewSchema([]header.FieldDef{
		{Name: "time", Predictor: 0, Encoding: 0},
		{Name: "x", Predictor: 0, Encoding: 0},
	})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	pSchema, err := NewPSchema(iSchema, []int{1, 2}, []int{1, 1})
	if err != nil {
		t.Fatalf("NewPSchema: %v", err)
	}
	if pSchema.Names[1] != "x" {
		t.Errorf("P schema name = %q, want x", pSchema.Names[1])
	}
	if pSchema.Predictors[1] != 2 {
		t.Errorf("P schema predictor = %v, want StraightLine(2)", pSchema.Predictors[1])
	}
}

func TestNewPSchemaLengthMismatch(t *testing.T) {
	iSchema, _ := NewSchema([]header.FieldDef{{Name: "x", Predictor: 0, Encoding: 0}})
	if _, err := NewPSchema(iSchema, []int{0, 0}, []int{0}); err == nil {
		t.Fatal("expected error for mismatched P list lengths")
	}
}
