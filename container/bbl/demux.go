package bbl

import (
	stderrors "errors"
	"io"

	"github.com/flightrec/bbl/container/bbl/frame"
	"github.com/flightrec/bbl/container/bbl/header"
	"github.com/flightrec/bbl/container/bbl/predict"
)

// sentinelPrefix is the log-start sentinel: the first header line of every
// real-world Betaflight/EmuFlight/INAV log. The exact banner text is not
// fixed by any upstream wire-format document this decoder was built from,
// so this prefix is this decoder's own documented choice (see DESIGN.md).
const sentinelPrefix = "H Product:"

// openNextLog advances the byte stream past any log this decoder cannot
// use (malformed header, unresolvable field codes) and sets up per-log
// state for the next usable one. It returns io.EOF when the file is
// exhausted.
func (d *Decoder) openNextLog() error {
	for {
		if d.needSentinelScan {
			if err := d.seekToSentinel(); err != nil {
				return err
			}
			d.needSentinelScan = false
		}

		if d.pendingFirstLine == nil {
			peek, _ := d.sc.Peek(1)
			if len(peek) == 0 {
				return io.EOF
			}
		}

		cfg, err := header.Parse(d.headerLineSource())
		if err != nil {
			var de *DecodeError
			if stderrors.As(err, &de) && de.Kind == IoError {
				return err
			}
			d.needSentinelScan = true
			continue
		}

		iSchema, pSchema, sSchema, gSchema, err := d.buildSchemas(cfg)
		if err != nil {
			d.needSentinelScan = true
			continue
		}

		d.rawLogIndex++
		d.headerCfg = cfg
		d.iSchema, d.pSchema, d.sSchema, d.gSchema = iSchema, pSchema, sSchema, gSchema
		d.scalars = buildScalars(cfg)
		d.hist = predict.NewHistory(len(iSchema.Names))
		d.stats.reset(d.rawLogIndex)
		d.started = false
		d.logEndPushed = false
		d.pendingOOB = []OOBItem{{Kind: LogStart}}
		d.timeFieldIdx = indexOf(iSchema.Names, "time")
		d.iterFieldIdx = indexOf(iSchema.Names, "loopIteration")
		d.logOpen = true
		return nil
	}
}

// closeLog ends the current log: if it produced at least one record, a
// LogEnd item is flushed (unless an E-frame log-end event already pushed
// one); if not, it is silently abandoned along with any buffered OOB items.
func (d *Decoder) closeLog() {
	if d.started && !d.logEndPushed {
		d.queueOOB(OOBItem{Kind: LogEnd})
	}
	d.logOpen = false
	d.pendingOOB = nil
}

// seekToSentinel scans forward for the next occurrence of sentinelPrefix,
// used to find the next log after a ResyncExhausted abandonment or after a
// header or field schema that could not be used. A clean
// log end (EOF or an E-frame LogEnd) leaves the stream already positioned
// at the next log's header, so this is not needed there.
func (d *Decoder) seekToSentinel() error {
	pat := []byte(sentinelPrefix)
	matched := 0
	for {
		b, err := d.sc.ReadByte()
		if err != nil {
			return io.EOF
		}
		if b == pat[matched] {
			matched++
			if matched == len(pat) {
				rest, _, _ := d.sc.ScanUntil(nil, '\n')
				line := sentinelPrefix + string(rest)
				d.pendingFirstLine = &line
				return nil
			}
			continue
		}
		if matched > 0 {
			// Restart the match, allowing for the byte that broke the
			// match to itself be the start of a new attempt.
			matched = 0
			if b == pat[0] {
				matched = 1
			}
		}
	}
}

// headerLineSource returns the line source header.Parse consumes: first any
// line reconstructed by seekToSentinel, then ordinary header lines read
// straight off the scanner. Because the sentinel line looks exactly like
// any other header line, a second sentinel occurrence ends the current
// header rather than being absorbed into it (it belongs to the next log);
// the very first line is exempt, since it is usually the current log's own
// sentinel.
func (d *Decoder) headerLineSource() func() (string, string, bool, error) {
	first := true
	return func() (string, string, bool, error) {
		if d.pendingFirstLine != nil {
			line := *d.pendingFirstLine
			d.pendingFirstLine = nil
			first = false
			key, value, ok := header.SplitLine(line)
			return key, value, ok, nil
		}
		if !first && d.atSentinel() {
			return "", "", false, nil
		}
		first = false
		return d.readHeaderLine()
	}
}

// readHeaderLine reads one "H <Key>:<Value>" line, or reports ok=false
// once the header region ends: either because the next byte doesn't start
// a header line, or because it is 'H' immediately followed by something
// other than a space, which is a binary H-frame type byte rather than a
// header "H " prefix, not a further header line.
func (d *Decoder) readHeaderLine() (string, string, bool, error) {
	b1, err := d.sc.Peek(1)
	if err != nil || len(b1) == 0 {
		return "", "", false, nil
	}
	if b1[0] != 'H' {
		return "", "", false, nil
	}
	b2, err := d.sc.Peek(2)
	if len(b2) < 2 || b2[1] != ' ' {
		return "", "", false, nil
	}

	line, _, err := d.sc.ScanUntil(nil, '\n')
	if err != nil && err != io.EOF {
		return "", "", false, newDecodeError(IoError, d.rawLogIndex, d.sc.Position(), err)
	}
	key, value, ok := header.SplitLine(string(line))
	if !ok {
		return "", "", false, nil
	}
	return key, value, true, nil
}

func (d *Decoder) buildSchemas(cfg *header.Config) (iSchema, pSchema, sSchema, gSchema *frame.Schema, err error) {
	iSchema, err = frame.NewSchema(cfg.Fields[header.FrameI])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	pSchema, err = frame.NewPSchema(iSchema, cfg.PPredictors, cfg.PEncodings)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	sSchema, err = frame.NewSchema(cfg.Fields[header.FrameS])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	gSchema, err = frame.NewSchema(cfg.Fields[header.FrameG])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return iSchema, pSchema, sSchema, gSchema, nil
}

func buildScalars(cfg *header.Config) frame.Scalars {
	minThrottle, _ := cfg.Int("minthrottle")
	vbatRef, _ := cfg.Int("vbatref")
	minMotor, _ := cfg.Int("minmotor")
	return frame.Scalars{
		MinThrottle: int32(minThrottle),
		VBatRef:     int32(vbatRef),
		MinMotor:    int32(minMotor),
	}
}
