package bbl

import "github.com/flightrec/bbl/container/bbl/frame"

// buildRecord assembles one emitted Record from a decoded main-frame
// vector, merging in any S-only fields from history without overwriting
// the main frame's own field values.
func (d *Decoder) buildRecord(schema *frame.Schema, values []int32, timeUs, iteration int64) *Record {
	d.ensureLogStarted()

	fields := make(map[string]int32, len(schema.Names)+len(d.sSchema.Names))
	for i, name := range schema.Names {
		fields[name] = values[i]
	}
	if d.hist.HaveS {
		for i, name := range d.sSchema.Names {
			if _, exists := fields[name]; exists {
				continue
			}
			if i < len(d.hist.S) {
				fields[name] = d.hist.S[i]
			}
		}
	}

	return &Record{
		LogIndex:      d.logIndex,
		TimeUs:        timeUs,
		LoopIteration: iteration,
		Fields:        fields,
	}
}

// ensureLogStarted assigns the current log its externally-visible index
// and flushes any OOB items buffered since log open, the first time the
// log produces an accepted record. A log that never reaches this point is
// skipped rather than surfaced to the caller.
func (d *Decoder) ensureLogStarted() {
	if d.started {
		return
	}
	d.started = true
	d.logIndex++
	for _, item := range d.pendingOOB {
		item.LogIndex = d.logIndex
		d.oobQueue = append(d.oobQueue, item)
	}
	d.pendingOOB = nil
}

// queueOOB buffers item until the log is known to produce a record, or
// appends it directly to the live queue once it has.
func (d *Decoder) queueOOB(item OOBItem) {
	if d.started {
		item.LogIndex = d.logIndex
		d.oobQueue = append(d.oobQueue, item)
		return
	}
	d.pendingOOB = append(d.pendingOOB, item)
}
