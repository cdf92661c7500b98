package bbl

import (
	"io"

	"github.com/flightrec/bbl/container/bbl/frame"
)

// stepOneFrame attempts to read and process exactly one frame from the
// current log's binary region. If the frame's body cannot be fully decoded
// or fails validation, the stream is restored to the byte before the type
// byte and resync takes over.
func (d *Decoder) stepOneFrame() (*Record, error) {
	if d.atSentinel() {
		return nil, errLogDone
	}

	d.sc.Mark()
	typeByte, err := d.sc.ReadByte()
	if err != nil {
		if err == io.EOF {
			return nil, errLogDone
		}
		return nil, newDecodeError(IoError, d.rawLogIndex, d.sc.Position(), err)
	}

	if !isFrameTypeByte(typeByte) {
		d.sc.Restore()
		return d.resync()
	}

	rec, logDone, ok := d.decodeFrameBody(typeByte)
	if !ok {
		d.sc.Restore()
		d.stats.FramesRejected++
		return d.resync()
	}
	if logDone {
		return rec, errLogDone
	}
	return rec, nil
}

// resync scans forward byte-by-byte, bounded by cfg.ResyncBudgetBytes,
// looking for a byte that both looks like a frame-type letter and, when
// tentatively parsed, yields a frame this decoder accepts. Exhausting the
// budget abandons the current log and requests a sentinel scan for the
// next one (ResyncExhausted).
func (d *Decoder) resync() (*Record, error) {
	d.stats.ResyncAttempts++
	scanned := 0
	for scanned < d.cfg.ResyncBudgetBytes {
		if d.atSentinel() {
			return nil, errLogDone
		}

		b, err := d.sc.ReadByte()
		if err != nil {
			return nil, errLogDone
		}
		scanned++
		d.stats.ResyncBytes++

		if !isFrameTypeByte(b) {
			continue
		}

		d.sc.Mark()
		rec, logDone, ok := d.decodeFrameBody(b)
		if ok {
			if logDone {
				return rec, errLogDone
			}
			return rec, nil
		}
		d.sc.Restore()
	}

	d.needSentinelScan = true
	return nil, errLogDone
}

// decodeFrameBody decodes the body following an already-consumed type
// byte. ok is false if the body underran or failed frame-predicate
// validation, in which case the caller must restore the stream and the
// mark set immediately before this call is left un-Unmarked. logDone is
// true only for an E-frame log-end event.
func (d *Decoder) decodeFrameBody(typeByte byte) (rec *Record, logDone bool, ok bool) {
	switch typeByte {
	case 'I':
		return d.decodeMainBody(d.iSchema, true)
	case 'P':
		return d.decodeMainBody(d.pSchema, false)

	case 'S':
		values, err := frame.DecodeVector(d.sSchema, d.sc, d.hist, d.scalars)
		if err != nil {
			return nil, false, false
		}
		d.sc.Unmark()
		d.hist.AcceptS(values)
		d.stats.FramesAccepted++
		return nil, false, true

	case 'G':
		values, err := frame.DecodeVector(d.gSchema, d.sc, d.hist, d.scalars)
		if err != nil {
			return nil, false, false
		}
		d.sc.Unmark()
		d.stats.FramesAccepted++
		fields := make(map[string]int32, len(d.gSchema.Names))
		for i, name := range d.gSchema.Names {
			fields[name] = values[i]
		}
		timeUs := d.hist.LastMainTime
		d.queueOOB(OOBItem{Kind: GpsFix, GpsFields: fields, TimeUs: timeUs})
		if d.cfg.EmitGFramesAsRecords {
			d.ensureLogStarted()
			d.stats.RecordsEmitted++
			return &Record{
				LogIndex:      d.logIndex,
				TimeUs:        timeUs,
				LoopIteration: d.hist.LastMainIteration,
				Fields:        fields,
			}, false, true
		}
		return nil, false, true

	case 'H':
		lat, lon, err := frame.DecodeH(d.sc, d.hist.HomeLat, d.hist.HomeLon)
		if err != nil {
			return nil, false, false
		}
		d.sc.Unmark()
		d.stats.FramesAccepted++
		d.hist.AcceptHome(lat, lon)
		d.queueOOB(OOBItem{Kind: HomeUpdate, HomeLat: lat, HomeLon: lon})
		return nil, false, true

	case 'E':
		ev, err := frame.DecodeE(d.sc)
		if err != nil {
			return nil, false, false
		}
		d.sc.Unmark()
		d.stats.FramesAccepted++
		d.stats.EventsEmitted++
		if ev.Type == frame.EventLogEnd {
			if d.started {
				d.queueOOB(OOBItem{Kind: LogEnd})
				d.logEndPushed = true
			}
			return nil, true, true
		}
		d.queueOOB(OOBItem{
			Kind:               EventItem,
			EventType:          ev.Type,
			InflightAdjustment: ev.InflightAdjustment,
			FlightModeFlags:    ev.FlightModeFlags,
			FlightModeFlags2:   ev.FlightModeFlags2,
			AutotuneCycle:      ev.AutotuneCycle,
		})
		return nil, false, true

	default:
		return nil, false, false
	}
}

// decodeMainBody handles the shared I/P decode-validate-accept sequence.
// isI selects I-frame semantics: history reset and permission to accept a
// backward time/iteration jump as a new baseline.
func (d *Decoder) decodeMainBody(schema *frame.Schema, isI bool) (*Record, bool, bool) {
	values, err := frame.DecodeVector(schema, d.sc, d.hist, d.scalars)
	if err != nil {
		return nil, false, false
	}
	if !isI && !d.hist.HaveMain {
		return nil, false, false
	}

	timeUs := fieldAt(values, d.timeFieldIdx)
	iteration := fieldAt(values, d.iterFieldIdx)
	if !d.validateJump(int64(timeUs), int64(iteration), isI) {
		return nil, false, false
	}

	d.sc.Unmark()
	if isI {
		d.hist.ResetOnIFrame()
	}
	d.hist.AcceptMain(values, int64(timeUs), int64(iteration))
	d.stats.FramesAccepted++

	rec := d.buildRecord(schema, values, int64(timeUs), int64(iteration))
	d.stats.RecordsEmitted++
	return rec, false, true
}

// atSentinel reports whether the next bytes in the stream are the
// log-start sentinel, without consuming anything. Binary decoding checks
// this on every frame attempt (not only after resync exhaustion) because
// 'H' is both the header line prefix and the GPS-home frame-type letter;
// only a full sentinel match disambiguates a new log from a real H frame.
func (d *Decoder) atSentinel() bool {
	peek, _ := d.sc.Peek(len(sentinelPrefix))
	return string(peek) == sentinelPrefix
}

func fieldAt(values []int32, idx int) int32 {
	if idx < 0 || idx >= len(values) {
		return 0
	}
	return values[idx]
}
