package bbl

import (
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/flightrec/bbl/codec/codecutil"
	"github.com/flightrec/bbl/container/bbl/frame"
	"github.com/flightrec/bbl/container/bbl/header"
	"github.com/flightrec/bbl/container/bbl/predict"
)

// Log is the package-level logger, following the teacher convention of a
// package-scoped logging.Logger that callers assign before use; a nil Log
// (the zero value) is a silent no-op.
var Log logging.Logger

// errLogDone is an internal sentinel: the current log has ended (at EOF, at
// the next sentinel, on a log-end event, or by exhausted resync) and Next
// should move on to the next log rather than surface an error to the caller.
var errLogDone = errLogDoneType{}

type errLogDoneType struct{}

func (errLogDoneType) Error() string { return "bbl: log done" }

// Option configures a Decoder at construction time, following the same
// functional-option shape as this codebase's other constructors.
type Option func(*Decoder) error

// WithConfig replaces the decoder's Config (see DefaultConfig).
func WithConfig(cfg Config) Option {
	return func(d *Decoder) error {
		d.cfg = cfg
		return nil
	}
}

// Decoder pulls Records and OOBItems from a single BBL byte source. It is
// single-threaded, forward-only, and holds no resources beyond the
// underlying reader.
type Decoder struct {
	sc  *codecutil.ByteScanner
	cfg Config

	// Per-log state, valid only while logOpen is true.
	logOpen         bool
	needSentinelScan bool
	pendingFirstLine *string

	rawLogIndex int // every opened log, including ones later skipped as empty
	logIndex    int // logs that produced at least one record, 1-based

	headerCfg                  *header.Config
	iSchema, pSchema           *frame.Schema
	sSchema, gSchema           *frame.Schema
	scalars                    frame.Scalars
	hist                       *predict.History
	timeFieldIdx, iterFieldIdx int

	started      bool // this log has emitted its first record
	logEndPushed bool
	pendingOOB   []OOBItem
	oobQueue     []OOBItem

	stats Stats
}

// NewDecoder returns a Decoder reading from r, configured with
// DefaultConfig unless overridden by opts.
func NewDecoder(r io.Reader, opts ...Option) (*Decoder, error) {
	d := &Decoder{
		sc:  codecutil.NewByteScanner(r, make([]byte, 0, 4096)),
		cfg: DefaultConfig(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Next advances the decoder and returns the next accepted record, io.EOF
// once the file is exhausted, or a *DecodeError with Kind IoError if the
// underlying reader fails. All other decode failures are handled
// internally (rejected, resynced, or the log is abandoned) and never
// surface here.
func (d *Decoder) Next() (*Record, error) {
	for {
		if !d.logOpen {
			if err := d.openNextLog(); err != nil {
				return nil, err
			}
		}

		rec, err := d.stepOneFrame()
		if err != nil {
			if err == errLogDone {
				d.closeLog()
				continue
			}
			return nil, err
		}
		if rec != nil {
			return rec, nil
		}
	}
}

// NextOOB pops the next buffered out-of-band item, if any. Items belonging
// to a log that turns out to be empty are never surfaced.
func (d *Decoder) NextOOB() (OOBItem, bool) {
	if len(d.oobQueue) == 0 {
		return OOBItem{}, false
	}
	item := d.oobQueue[0]
	d.oobQueue = d.oobQueue[1:]
	return item, true
}

// Stats returns a snapshot of the counters for the log currently (or most
// recently) being processed.
func (d *Decoder) Stats() Stats {
	return d.stats
}

func isFrameTypeByte(b byte) bool {
	switch b {
	case 'I', 'P', 'S', 'G', 'H', 'E':
		return true
	default:
		return false
	}
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
