package bbl

// Stats accumulates per-log counters, reset at the start of each log and
// readable via Decoder.Stats at any point: every rejected frame increments
// FramesRejected, and every resync attempt increments ResyncAttempts, so a
// caller can judge how noisy a log's decode was without re-deriving it from
// the record stream.
type Stats struct {
	LogIndex int

	FramesAccepted int
	FramesRejected int
	ResyncAttempts int
	ResyncBytes    int

	RecordsEmitted int
	EventsEmitted  int
}

func (s *Stats) reset(logIndex int) {
	*s = Stats{LogIndex: logIndex}
}
