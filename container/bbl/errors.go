// Package bbl implements a decoder for Betaflight/EmuFlight/INAV Blackbox
// Log (BBL) files: a session demultiplexer and frame-level validator sit on
// top of the header, frame, predict, and wire packages, producing a
// forward-only stream of reconstructed flight records and out-of-band
// events.
package bbl

import "github.com/pkg/errors"

// ErrorKind classifies a DecodeError by the policy it triggers.
type ErrorKind int

const (
	// Truncated: the byte stream ended mid-value. Rolled back and resynced;
	// if it happens at a frame's start, the log ends cleanly instead.
	Truncated ErrorKind = iota
	// UnknownFrameType: the byte at a frame-start position is not a known
	// frame-type letter. Triggers resync.
	UnknownFrameType
	// HeaderInconsistent: a field-schema list disagreed in length, or
	// declared an unrecognised predictor/encoding code. Abandons the log.
	HeaderInconsistent
	// FramePredicateViolated: a decoded main frame's time or iteration jump
	// exceeded its configured bound, or a P frame arrived with no prior
	// main frame. The frame is rejected, history is not updated, and the
	// validator resyncs.
	FramePredicateViolated
	// ResyncExhausted: the resync byte budget was consumed without finding
	// a valid frame. Abandons the log.
	ResyncExhausted
	// IoError: the underlying byte source failed. Terminal for the file.
	IoError
)

func (k ErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case UnknownFrameType:
		return "unknown frame type"
	case HeaderInconsistent:
		return "header inconsistent"
	case FramePredicateViolated:
		return "frame predicate violated"
	case ResyncExhausted:
		return "resync exhausted"
	case IoError:
		return "io error"
	default:
		return "unknown error kind"
	}
}

// DecodeError reports a classified decoding failure: its Kind determines
// how the decoder itself already reacted (see ErrorKind docs), and is
// exposed so callers and Stats can distinguish failure modes without
// string matching.
type DecodeError struct {
	Kind    ErrorKind
	LogIndex int
	Offset  uint64
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return errors.Wrapf(e.Err, "bbl: log %d offset %d: %s", e.LogIndex, e.Offset, e.Kind).Error()
	}
	return errors.Errorf("bbl: log %d offset %d: %s", e.LogIndex, e.Offset, e.Kind).Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newDecodeError(kind ErrorKind, logIndex int, offset uint64, err error) *DecodeError {
	return &DecodeError{Kind: kind, LogIndex: logIndex, Offset: offset, Err: err}
}
