// Package predict implements the predictor engine: it turns a frame
// parser's decoded raw field value into the field's absolute value,
// consulting per-log history (previous/pre-previous main frame, last S
// frame, GPS home, last main-frame time) as each predictor kind requires.
package predict

// Kind identifies a predictor formula.
type Kind int

// The predictor kind set a blackbox log's header can declare per field. The
// numeric values are this decoder's own internal encoding, assigned to the
// header's per-field predictor codes by KindFromCode in the same order as
// this declaration (see DESIGN.md).
const (
	Zero Kind = iota
	Previous
	StraightLine
	Average2
	Minthrottle
	Motor0
	Inc
	HomeLat
	HomeLon
	LastMainFrameTime
	VBatRef
	MinMotor
)

// KindFromCode maps a header-declared predictor code to a Kind. It returns
// false for any code this decoder does not recognise, which the caller
// must treat as a header-inconsistency failure.
func KindFromCode(code int) (Kind, bool) {
	switch code {
	case 0:
		return Zero, true
	case 1:
		return Previous, true
	case 2:
		return StraightLine, true
	case 3:
		return Average2, true
	case 4:
		return Minthrottle, true
	case 5:
		return Motor0, true
	case 6:
		return Inc, true
	case 7:
		return HomeLat, true
	case 8:
		return HomeLon, true
	case 9:
		return LastMainFrameTime, true
	case 10:
		return VBatRef, true
	case 11:
		return MinMotor, true
	default:
		return 0, false
	}
}

// History holds the per-log state the predictor engine consults: the
// previous and pre-previous main-frame field vectors, the last accepted
// main-frame time/iteration, the last accepted S-frame field vector, and
// the current GPS home position.
//
// Prev/Prev2 are rotated on each accepted main frame (Prev becomes Prev2,
// and Prev takes a copy of the new vector) rather than referenced through a
// history of past records, keeping acceptance O(width).
type History struct {
	Prev, Prev2         []int32
	HavePrev, HavePrev2 bool

	LastMainTime      int64
	LastMainIteration int64
	HaveMain          bool

	S     []int32
	HaveS bool

	HomeLat, HomeLon int32
	HaveHome         bool
}

// NewHistory returns a zeroed History. width is the I/P field count; it
// only sizes the initial Prev/Prev2 slices, which every AcceptMain call
// replaces.
func NewHistory(width int) *History {
	return &History{
		Prev:  make([]int32, width),
		Prev2: make([]int32, width),
	}
}

// Reset clears all history, as happens at the start of each new log.
func (h *History) Reset() {
	*h = History{}
}

// ResetOnIFrame clears the main-frame history an I frame makes irrelevant,
// since an I frame is self-contained and carries absolute values for every
// field. S-frame and home history survive, since those are independent side
// channels.
func (h *History) ResetOnIFrame() {
	h.HavePrev = false
	h.HavePrev2 = false
	h.HaveMain = false
}

// AcceptMain rotates history after a main frame (I or P) has been fully
// decoded and validated: the just-decoded vector becomes Prev, the old Prev
// becomes Prev2, and the main-frame time/iteration are updated.
func (h *History) AcceptMain(values []int32, timeUs, iteration int64) {
	h.Prev2 = append([]int32(nil), h.Prev...)
	h.Prev = append([]int32(nil), values...)
	h.HavePrev2 = h.HavePrev
	h.HavePrev = true
	h.LastMainTime = timeUs
	h.LastMainIteration = iteration
	h.HaveMain = true
}

// AcceptS records a newly decoded S-frame vector.
func (h *History) AcceptS(values []int32) {
	h.S = append([]int32(nil), values...)
	h.HaveS = true
}

// AcceptHome records a newly decoded H-frame home position.
func (h *History) AcceptHome(lat, lon int32) {
	h.HomeLat, h.HomeLon = lat, lon
	h.HaveHome = true
}

// Context carries the per-frame inputs Apply needs beyond the history: the
// in-progress current-frame vector (so Motor0 can see an already-decoded
// motor[0] in the same frame, since fields are applied in schema order),
// the index of the motor[0] field (-1 if the schema has none), and the
// log-level scalar configuration predictors read.
type Context struct {
	Current        []int32
	MotorZeroIndex int
	MinThrottle    int32
	VBatRef        int32
	MinMotor       int32
}

// Apply computes the absolute value of field index i given its predictor
// kind, the raw decoded value, and ctx/history. All arithmetic wraps modulo
// 2^32, so differences across the signed 32-bit boundary remain correct.
func Apply(kind Kind, i int, raw int32, ctx Context, h *History) int32 {
	switch kind {
	case Zero:
		return raw
	case Previous:
		return wrap32(int64(prevAt(h, i)) + int64(raw))
	case StraightLine:
		return wrap32(straightLineBase(h, i) + int64(raw))
	case Average2:
		return wrap32(average2Base(h, i) + int64(raw))
	case Minthrottle:
		return wrap32(int64(ctx.MinThrottle) + int64(raw))
	case Motor0:
		base := int32(0)
		if ctx.MotorZeroIndex >= 0 && ctx.MotorZeroIndex < len(ctx.Current) {
			base = ctx.Current[ctx.MotorZeroIndex]
		}
		return wrap32(int64(base) + int64(raw))
	case Inc:
		return wrap32(prevIteration(h) + 1)
	case HomeLat:
		return wrap32(int64(h.HomeLat) + int64(raw))
	case HomeLon:
		return wrap32(int64(h.HomeLon) + int64(raw))
	case LastMainFrameTime:
		return wrap32(h.LastMainTime + int64(raw))
	case VBatRef:
		return wrap32(int64(ctx.VBatRef) + int64(raw))
	case MinMotor:
		return wrap32(int64(ctx.MinMotor) + int64(raw))
	default:
		return raw
	}
}

func prevAt(h *History, i int) int32 {
	if !h.HavePrev || i >= len(h.Prev) {
		return 0
	}
	return h.Prev[i]
}

func prevIteration(h *History) int64 {
	if !h.HaveMain {
		return 0
	}
	return h.LastMainIteration
}

// straightLineBase returns 2*prev - prev2, falling back to prev alone when
// there is no pre-previous frame yet (the first P frame after an I frame).
func straightLineBase(h *History, i int) int64 {
	if !h.HavePrev || i >= len(h.Prev) {
		return 0
	}
	if !h.HavePrev2 || i >= len(h.Prev2) {
		return int64(h.Prev[i])
	}
	return 2*int64(h.Prev[i]) - int64(h.Prev2[i])
}

// average2Base returns floor((prev+prev2)/2), falling back to prev alone
// when there is no pre-previous frame yet.
func average2Base(h *History, i int) int64 {
	if !h.HavePrev || i >= len(h.Prev) {
		return 0
	}
	if !h.HavePrev2 || i >= len(h.Prev2) {
		return int64(h.Prev[i])
	}
	return (int64(h.Prev[i]) + int64(h.Prev2[i])) >> 1
}

func wrap32(v int64) int32 {
	return int32(uint32(v))
}
