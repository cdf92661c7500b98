package bbl

// Record is the decoder's output unit: a fully reconstructed field map for
// one accepted I or P frame, with any S-only fields merged in.
type Record struct {
	LogIndex      int
	TimeUs        int64
	LoopIteration int64
	Fields        map[string]int32
}

// OOBKind identifies the category of an out-of-band item.
type OOBKind int

const (
	LogStart OOBKind = iota
	LogEnd
	HomeUpdate
	GpsFix
	EventItem
)

// OOBItem is one out-of-band item delivered alongside the record stream:
// GPS home updates, GPS fixes, flight events, and log boundaries. Only the
// fields relevant to Kind are populated.
type OOBItem struct {
	Kind     OOBKind
	LogIndex int

	// HomeUpdate
	HomeLat, HomeLon int32

	// GpsFix (a decoded G-frame field map, raw field values as scaled on
	// the wire; unit conversion is left to sinks)
	GpsFields map[string]int32
	TimeUs    int64

	// EventItem
	EventType          byte
	InflightAdjustment int32
	FlightModeFlags    uint32
	FlightModeFlags2   uint32
	AutotuneCycle      [4]int32
}
