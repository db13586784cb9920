package folder

// Step expresses a relative cursor movement, resolved bit-for-bit against
// original_source/core/src/step.rs: Percent(p) computes p*len/100 and
// applies it as a signed offset from the current position; Fixed offsets
// saturate at 0 rather than go negative.
type Step struct {
	kind    stepKind
	fixed   int
	percent int8
}

type stepKind uint8

const (
	stepFixed stepKind = iota
	stepPercent
	stepTop
	stepBot
	stepPrev
	stepNext
)

func Offset(n int) Step   { return Step{kind: stepFixed, fixed: n} }
func Percent(p int8) Step { return Step{kind: stepPercent, percent: p} }
func Top() Step           { return Step{kind: stepTop} }
func Bot() Step           { return Step{kind: stepBot} }
func Prev() Step          { return Step{kind: stepPrev} }
func Next() Step          { return Step{kind: stepNext} }

func (s Step) IsPositive() bool {
	switch s.kind {
	case stepFixed:
		return s.fixed > 0
	case stepPercent:
		return s.percent > 0
	default:
		return false
	}
}

func (s Step) fixedAmount(length func() int) int {
	switch s.kind {
	case stepFixed:
		return s.fixed
	case stepPercent:
		if s.percent == 0 {
			return 0
		}
		return int(s.percent) * length() / 100
	default:
		return 0
	}
}

// Apply resolves the step against the current position and list length,
// per Prev/Next wrap-modulo-len, signed offsets clamp, percent relative to
// the visible page (len here is whatever extent the caller passes: total
// file count for Top/Bot/Offset/Percent-over-page, or page size when
// resolving a percent-of-page scroll).
func (s Step) Apply(pos, length int) int {
	if length <= 0 {
		return 0
	}
	switch s.kind {
	case stepTop:
		return 0
	case stepBot:
		return length - 1
	case stepPrev:
		return ((pos-1)%length + length) % length
	case stepNext:
		return (pos + 1) % length
	default:
		fixed := s.fixedAmount(func() int { return length })
		next := pos + fixed
		if next < 0 {
			return 0
		}
		if next > length-1 {
			return length - 1
		}
		return next
	}
}
