package frame

import (
	"io"

	"github.com/flightrec/bbl/container/bbl/predict"
	"github.com/flightrec/bbl/container/bbl/wire"
)

// Scalars carries the log-level scalar settings a handful of predictors
// read (minthrottle, vbatref, minmotor).
type Scalars struct {
	MinThrottle int32
	VBatRef     int32
	MinMotor    int32
}

// DecodeVector reads one frame's field vector from r according to schema,
// resolving each field's absolute value through the predictor engine as it
// goes. hist is consulted and is NOT updated here: callers decide whether a
// successfully decoded vector should be accepted into history (e.g. a P
// frame whose predicate check later fails is never accepted).
//
// An error here always means the field vector was left short by a
// truncated or malformed wire encoding; callers must roll the underlying
// stream back to the frame's start.
func DecodeVector(schema *Schema, r io.ByteReader, hist *predict.History, sc Scalars) ([]int32, error) {
	out := make([]int32, len(schema.Names))
	ctx := predict.Context{
		Current:        out,
		MotorZeroIndex: schema.MotorZeroIndex,
		MinThrottle:    sc.MinThrottle,
		VBatRef:        sc.VBatRef,
		MinMotor:       sc.MinMotor,
	}

	i := 0
	for i < len(out) {
		enc := schema.Encodings[i]
		switch enc {
		case UnsignedVB:
			v, err := wire.ReadUnsignedVB(r)
			if err != nil {
				return nil, err
			}
			out[i] = predict.Apply(schema.Predictors[i], i, int32(v), ctx, hist)
			i++

		case SignedVB:
			v, err := wire.ReadSignedVB(r)
			if err != nil {
				return nil, err
			}
			out[i] = predict.Apply(schema.Predictors[i], i, v, ctx, hist)
			i++

		case Neg14Bit:
			v, err := wire.ReadNeg14(r)
			if err != nil {
				return nil, err
			}
			out[i] = predict.Apply(schema.Predictors[i], i, v, ctx, hist)
			i++

		case Null:
			out[i] = predict.Apply(schema.Predictors[i], i, 0, ctx, hist)
			i++

		case Tag8_8SVB:
			vals, err := wire.ReadTag8_8SVB(r)
			if err != nil {
				return nil, err
			}
			n := min(8, len(out)-i)
			for k := 0; k < n; k++ {
				out[i+k] = predict.Apply(schema.Predictors[i+k], i+k, vals[k], ctx, hist)
			}
			i += n

		case Tag2_3S32:
			vals, err := wire.ReadTag2_3S32(r)
			if err != nil {
				return nil, err
			}
			n := min(3, len(out)-i)
			for k := 0; k < n; k++ {
				out[i+k] = predict.Apply(schema.Predictors[i+k], i+k, vals[k], ctx, hist)
			}
			i += n

		case Tag8_4S16:
			vals, err := wire.ReadTag8_4S16(r)
			if err != nil {
				return nil, err
			}
			n := min(4, len(out)-i)
			for k := 0; k < n; k++ {
				out[i+k] = predict.Apply(schema.Predictors[i+k], i+k, vals[k], ctx, hist)
			}
			i += n
		}
	}

	return out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
