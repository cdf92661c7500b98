package bbl

// Config is the decoder's external configuration surface. Zero values are
// not safe defaults; use DefaultConfig.
type Config struct {
	// MaxTimeJumpUs bounds how far a main frame's time_us may advance past
	// the previous accepted main frame's time before it is rejected.
	MaxTimeJumpUs int64
	// MaxIterationJump bounds how far loop_iteration may advance.
	MaxIterationJump int64
	// ResyncBudgetBytes bounds the byte-by-byte scan the validator performs
	// after a rejected or malformed frame before abandoning the log.
	ResyncBudgetBytes int
	// AcceptBackwardTimeOnNewIFrame allows an I frame after the log's first
	// main frame to carry a time or iteration lower than history, taking it
	// as the new baseline of a wrapped hardware timer. P frames are never
	// allowed to go backward; the log's first main frame always passes.
	AcceptBackwardTimeOnNewIFrame bool
	// EmitGFramesAsRecords, if true, makes accepted G frames also produce
	// Records on the main channel in addition to the GpsFix OOB item.
	EmitGFramesAsRecords bool
}

// DefaultConfig returns the permissive defaults matching the upstream
// reference tool's behaviour.
func DefaultConfig() Config {
	return Config{
		MaxTimeJumpUs:                 10_000_000,
		MaxIterationJump:              5000,
		ResyncBudgetBytes:             8192,
		AcceptBackwardTimeOnNewIFrame: true,
		EmitGFramesAsRecords:          false,
	}
}
