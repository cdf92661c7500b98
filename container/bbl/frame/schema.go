package frame

import (
	"github.com/pkg/errors"

	"github.com/flightrec/bbl/container/bbl/header"
	"github.com/flightrec/bbl/container/bbl/predict"
)

// ErrUnknownCode reports a predictor or encoding code in the header that
// this decoder does not recognise: a header-inconsistency failure.
var ErrUnknownCode = errors.New("frame: unknown predictor or encoding code")

// Schema is a resolved, ready-to-decode field list for one frame type: the
// header's raw int codes have already been mapped to predict.Kind and
// EncodingKind, and motor[0]'s index (if any) has been located for the
// Motor0 predictor.
type Schema struct {
	Names          []string
	Predictors     []predict.Kind
	Encodings      []EncodingKind
	MotorZeroIndex int // -1 if the schema has no "motor[0]" field
}

// NewSchema resolves an I/S/G/H frame type's field list, as declared
// directly by the header, into a Schema.
func NewSchema(defs []header.FieldDef) (*Schema, error) {
	names := make([]string, len(defs))
	preds := make([]predict.Kind, len(defs))
	encs := make([]EncodingKind, len(defs))
	for i, d := range defs {
		names[i] = d.Name
		p, ok := predict.KindFromCode(d.Predictor)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCode, "field %q predictor code %d", d.Name, d.Predictor)
		}
		e, ok := EncodingFromCode(d.Encoding)
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCode, "field %q encoding code %d", d.Name, d.Encoding)
		}
		preds[i] = p
		encs[i] = e
	}
	return &Schema{
		Names:          names,
		Predictors:     preds,
		Encodings:      encs,
		MotorZeroIndex: motorZeroIndex(names),
	}, nil
}

// NewPSchema resolves the P frame type's field list: names come from the
// already-built I schema (P frames reuse the I-frame name list rather than
// declaring their own), predictor/encoding codes come from the header's
// separate P-specific lists.
func NewPSchema(iSchema *Schema, pPredictors, pEncodings []int) (*Schema, error) {
	n := len(iSchema.Names)
	if len(pPredictors) != n || len(pEncodings) != n {
		return nil, errors.Wrap(ErrUnknownCode, "P predictor/encoding list length does not match I field count")
	}
	preds := make([]predict.Kind, n)
	encs := make([]EncodingKind, n)
	for i := 0; i < n; i++ {
		p, ok := predict.KindFromCode(pPredictors[i])
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCode, "P field %q predictor code %d", iSchema.Names[i], pPredictors[i])
		}
		e, ok := EncodingFromCode(pEncodings[i])
		if !ok {
			return nil, errors.Wrapf(ErrUnknownCode, "P field %q encoding code %d", iSchema.Names[i], pEncodings[i])
		}
		preds[i] = p
		encs[i] = e
	}
	return &Schema{
		Names:          iSchema.Names,
		Predictors:     preds,
		Encodings:      encs,
		MotorZeroIndex: iSchema.MotorZeroIndex,
	}, nil
}

func motorZeroIndex(names []string) int {
	for i, n := range names {
		if n == "motor[0]" {
			return i
		}
	}
	return -1
}
