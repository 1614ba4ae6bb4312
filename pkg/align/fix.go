package align

import "strings"

// AlignAndFix implements the two-pass policy of spec.md §4.3.2: pass
// one repairs user insertions so the buffer becomes a true subsequence
// of noise, pass two re-aligns the repaired buffer and walks it into
// Signal/Gap intervals plus an ANSI strike-through rendering of the
// gaps for terminal display.
func AlignAndFix(signal, noise string) (signals []Interval, gaps []Interval, rendered string) {
	fixed := repair(signal, noise)

	alignedNoise, alignedSignal := align([]rune(fixed), []rune(noise))

	var (
		buf           []rune
		bufIsSignal   bool
		outer         strings.Builder
		started       bool
		intervalStart int
	)

	flush := func(end int) {
		if !started {
			return
		}

		content := string(buf)
		if bufIsSignal {
			signals = append(signals, Interval{Start: intervalStart, End: end, Kind: Signal, Content: content})
			outer.WriteString(content)
		} else {
			gaps = append(gaps, Interval{Start: intervalStart, End: end, Kind: Gap, Content: content})
			outer.WriteString(strikeThrough(content))
		}

		buf = nil
	}

	for i := 0; i < len(alignedNoise); i++ {
		c, s := alignedNoise[i], alignedSignal[i]

		// Pass 1 guarantees c is never gapRune here: every alignment
		// insertion was already dropped from the fixed buffer.
		isSignal := s != gapRune

		if !started {
			started = true
			bufIsSignal = isSignal
			intervalStart = i
		}

		if isSignal != bufIsSignal {
			flush(i)
			bufIsSignal = isSignal
			intervalStart = i
		}

		buf = append(buf, c)
	}

	flush(len(alignedNoise))

	return signals, gaps, outer.String()
}

// repair runs pass 1 of align_and_fix: every mismatch column is
// overwritten with the noise character, and every column where the
// user inserted a character absent from noise (an alignment-gap on
// the noise side) is dropped, so the result is guaranteed to be a
// subsequence of noise. Columns where the user deleted a noise
// character (a gap on the signal side) are dropped too, becoming gaps
// in pass 2.
func repair(signal, noise string) string {
	alignedNoise, alignedSignal := align([]rune(signal), []rune(noise))

	var fixed []rune

	for i := range alignedNoise {
		c, s := alignedNoise[i], alignedSignal[i]

		if s == gapRune {
			// user deletion: drop, becomes a gap in pass 2
			continue
		}

		if c == gapRune {
			// pure insertion: the user's byte has no counterpart in
			// noise at all; drop it rather than growing fixed past
			// len(noise), which would force pass 2 to reintroduce
			// exactly the insertion this pass exists to remove
			continue
		}

		// match or substitution: normalize to noise's content so the
		// fixed buffer stays a subsequence of noise even where the
		// user typed something noise doesn't have at this position
		fixed = append(fixed, c)
	}

	return string(fixed)
}

func strikeThrough(s string) string {
	return "\x1b[9m" + s + "\x1b[0m"
}
