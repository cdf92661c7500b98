package frame

import (
	"io"

	"github.com/pkg/errors"

	"github.com/flightrec/bbl/container/bbl/wire"
)

// errUnknownEventType reports an E frame event byte this decoder does not
// recognise. Callers treat it the same as any other malformed frame: strict
// rollback, then resync.
var errUnknownEventType = errors.New("frame: unknown event type")

// Event type bytes. These are this decoder's own internal numbering for
// the event categories; LogEnd=255 is required to match the reference
// tooling's end-of-log byte, the rest are a reasonable, internally-
// consistent assignment (see DESIGN.md).
const (
	EventSyncBeep           byte = 0
	EventInflightAdjustment byte = 13
	EventAutotuneCycle      byte = 14
	EventFlightMode         byte = 30
	EventDisarm             byte = 15
	EventLogEnd             byte = 255
)

// Event is one decoded E frame. Only the fields relevant to its Type are
// populated.
type Event struct {
	Type               byte
	FlightModeFlags    uint32
	FlightModeFlags2   uint32
	InflightAdjustment int32
	AutotuneCycle      [4]int32
}

// DecodeE reads one E frame's event byte and type-specific payload:
// flight-mode change carries two fixed-width 32-bit mask values, inflight
// adjustment one signed-VB, autotune cycle four signed-VB; sync-beep,
// disarm, and log-end carry no payload.
func DecodeE(r io.ByteReader) (Event, error) {
	typeByte, err := r.ReadByte()
	if err != nil {
		return Event{}, mapEOF(err)
	}

	ev := Event{Type: typeByte}
	switch typeByte {
	case EventFlightMode:
		a, err := wire.ReadFixed32(r)
		if err != nil {
			return Event{}, err
		}
		b, err := wire.ReadFixed32(r)
		if err != nil {
			return Event{}, err
		}
		ev.FlightModeFlags, ev.FlightModeFlags2 = a, b

	case EventInflightAdjustment:
		v, err := wire.ReadSignedVB(r)
		if err != nil {
			return Event{}, err
		}
		ev.InflightAdjustment = v

	case EventAutotuneCycle:
		for i := range ev.AutotuneCycle {
			v, err := wire.ReadSignedVB(r)
			if err != nil {
				return Event{}, err
			}
			ev.AutotuneCycle[i] = v
		}

	case EventSyncBeep, EventDisarm, EventLogEnd:
		// no payload

	default:
		return Event{}, errUnknownEventType
	}

	return ev, nil
}

func mapEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
