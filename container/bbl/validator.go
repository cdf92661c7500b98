package bbl

// validateJump checks a candidate main frame's time/iteration against the
// last accepted main frame. The very first main frame accepted in a log has
// nothing to compare against and always passes. A backward jump on a later
// I frame (a periodic keyframe, not just the log's very first main frame)
// is tolerated when cfg.AcceptBackwardTimeOnNewIFrame is set, covering a
// hardware timer wrapping mid-log.
func (d *Decoder) validateJump(timeUs, iteration int64, isI bool) bool {
	if !d.hist.HaveMain {
		return true
	}

	dt := timeUs - d.hist.LastMainTime
	di := iteration - d.hist.LastMainIteration

	if dt < 0 || di < 0 {
		return isI && d.cfg.AcceptBackwardTimeOnNewIFrame
	}
	if dt > d.cfg.MaxTimeJumpUs {
		return false
	}
	if di > d.cfg.MaxIterationJump {
		return false
	}
	return true
}
