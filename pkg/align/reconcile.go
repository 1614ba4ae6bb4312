package align

// Reconcile derives an edit strategy for every Error interval in m,
// per spec.md §4.3.4. The key of the returned map is the interval's
// starting noise position.
//
// An error absorbs into a neighboring interval when the neighbor has
// enough content to cover the user's inserted bytes. The following
// neighbor is tried first regardless of its kind (a subsequent signal
// run is itself evidence the edit was a benign overtype that resumes
// correctly, and a subsequent gap is noise the user already agreed to
// delete); the preceding neighbor is only consulted as a
// fallback, and only when it is itself a Gap — a trailing edit with a
// plain Signal before it and nothing after has no forward evidence to
// extend into, so it is dropped (spec.md §8 scenario 6).
func Reconcile(m *IntervalMap) map[int]EditStrategy {
	intervals := m.All()
	strategies := map[int]EditStrategy{}

	for idx, iv := range intervals {
		if iv.Kind != Error {
			continue
		}

		pos := iv.Start
		strategies[pos] = Ignore

		if idx+1 < len(intervals) {
			next := intervals[idx+1]
			if len(iv.UserChange) <= len(next.Content) {
				strategies[pos] = ExtendSignal
				continue
			}
		}

		if idx > 0 {
			prev := intervals[idx-1]
			if prev.Kind == Gap && len(iv.UserChange) <= len(prev.Content) {
				strategies[pos] = ExtendSignal
			}
		}
	}

	return strategies
}

// ApplyEditStrategy resolves every Error interval in m according to
// strategies and returns a new IntervalMap with no Error intervals
// remaining, per the reconciliation invariant (spec.md §8 invariant 5).
//
// Ignore drops the error's span entirely (the user's bytes are
// discarded, and since Original for a pure insertion is empty this
// contributes nothing to the noise tiling); when Original is
// non-empty the displaced noise content is restored as Signal.
// ExtendSignal merges the error into its chosen neighbor, re-labeling
// the whole merged span as Signal.
func ApplyEditStrategy(m *IntervalMap, strategies map[int]EditStrategy) *IntervalMap {
	intervals := m.All()

	merged := make([]bool, len(intervals))

	for idx, iv := range intervals {
		if iv.Kind != Error || merged[idx] {
			continue
		}

		strat := strategies[iv.Start]

		switch strat {
		case ExtendSignal:
			if idx+1 < len(intervals) && len(iv.UserChange) <= len(intervals[idx+1].Content) {
				intervals[idx+1] = Interval{
					Start:   iv.Start,
					End:     intervals[idx+1].End,
					Kind:    Signal,
					Content: iv.Original + intervals[idx+1].Content,
				}
				intervals[idx] = Interval{Start: iv.Start, End: iv.Start, Kind: Signal}
				merged[idx] = true

				continue
			}

			if idx > 0 {
				intervals[idx-1] = Interval{
					Start:   intervals[idx-1].Start,
					End:     iv.End,
					Kind:    Signal,
					Content: intervals[idx-1].Content + iv.Original,
				}
				intervals[idx] = Interval{Start: iv.End, End: iv.End, Kind: Signal}
				merged[idx] = true
			}
		default: // Ignore
			intervals[idx] = Interval{Start: iv.Start, End: iv.End, Kind: Signal, Content: iv.Original}
		}
	}

	return NewIntervalMap(compactZeroWidth(intervals))
}

// compactZeroWidth drops zero-width bookkeeping intervals left behind
// by ApplyEditStrategy's merges.
func compactZeroWidth(intervals []Interval) []Interval {
	out := intervals[:0]

	for _, iv := range intervals {
		if iv.Start == iv.End {
			continue
		}

		out = append(out, iv)
	}

	return out
}
