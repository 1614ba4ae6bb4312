package align

import "sort"

// IntervalMap is an ordered, non-overlapping tiling of [0, n) by
// classified intervals, keyed by noise position (spec.md §4.3.3).
type IntervalMap struct {
	intervals []Interval
}

// NewIntervalMap builds a map from intervals already in ascending,
// non-overlapping order.
func NewIntervalMap(intervals []Interval) *IntervalMap {
	return &IntervalMap{intervals: intervals}
}

// At returns the interval containing noise position pos.
func (m *IntervalMap) At(pos int) (Interval, bool) {
	idx := sort.Search(len(m.intervals), func(i int) bool {
		return m.intervals[i].End > pos
	})

	if idx >= len(m.intervals) {
		return Interval{}, false
	}

	iv := m.intervals[idx]
	if pos >= iv.Start && (pos < iv.End || (iv.Start == iv.End && pos == iv.Start)) {
		return iv, true
	}

	return Interval{}, false
}

// All returns every interval in ascending order.
func (m *IntervalMap) All() []Interval {
	out := make([]Interval, len(m.intervals))
	copy(out, m.intervals)

	return out
}

// HasErrors reports whether any interval is an Error.
func (m *IntervalMap) HasErrors() bool {
	for _, iv := range m.intervals {
		if iv.Kind == Error {
			return true
		}
	}

	return false
}
