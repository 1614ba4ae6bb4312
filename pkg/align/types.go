// Package align implements the alignment/reconciliation engine: given
// a noise string and a user-edited signal derived from it, it
// classifies every noise position as kept, deleted, or conflicting
// with what the user typed, and proposes a strategy to resolve the
// conflicts so the signal stays a legal view of the noise.
package align

import "fmt"

// Kind tags one interval of a classified noise span.
type Kind int

const (
	// Signal marks a noise span the user kept unchanged.
	Signal Kind = iota
	// Gap marks a noise span the user deleted.
	Gap
	// Error marks a noise span where the user's edit introduced
	// content that does not match the noise verbatim.
	Error
)

func (k Kind) String() string {
	switch k {
	case Signal:
		return "signal"
	case Gap:
		return "gap"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Interval is a half-open, classified span of noise positions.
type Interval struct {
	Start int
	End   int
	Kind  Kind

	// Content is the noise substring this interval covers (always a
	// contiguous slice of noise, even for Error intervals — see
	// Original).
	Content string

	// Original and UserChange are populated only for Error intervals:
	// Original is the noise content displaced (possibly empty, for a
	// pure insertion), UserChange is what the user's buffer held
	// there instead.
	Original   string
	UserChange string
}

// Len reports the interval's noise-position width.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// EditStrategy is the resolution chosen for one Error interval.
type EditStrategy int

const (
	// Ignore drops the user's inserted/changed bytes, keeping noise
	// as the source of truth for that span.
	Ignore EditStrategy = iota
	// ExtendSignal absorbs the adjacent interval into the signal so
	// the user's edit is preserved without inventing content absent
	// from noise.
	ExtendSignal
)

func (s EditStrategy) String() string {
	if s == ExtendSignal {
		return "extend_signal"
	}

	return "ignore"
}
