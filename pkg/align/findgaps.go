package align

// FindGaps aligns signal against noise and classifies every noise
// position as Signal, Gap, or Error, per spec.md §4.3.3. Unlike
// AlignAndFix it does not correct the user's edits first, so genuine
// user errors (insertions and substitutions the signal is not a
// subsequence of noise) survive as Error intervals rather than being
// silently repaired.
func FindGaps(signal, noise string) *IntervalMap {
	alignedNoise, alignedSignal := align([]rune(signal), []rune(noise))

	var intervals []Interval

	noisePos := 0

	for i := 0; i < len(alignedNoise); {
		c, s := alignedNoise[i], alignedSignal[i]

		switch {
		case c != gapRune && s != gapRune && c == s:
			start := noisePos

			var content []rune

			for i < len(alignedNoise) && alignedNoise[i] != gapRune && alignedSignal[i] != gapRune && alignedNoise[i] == alignedSignal[i] {
				content = append(content, alignedNoise[i])
				noisePos++
				i++
			}

			intervals = append(intervals, Interval{Start: start, End: noisePos, Kind: Signal, Content: string(content)})

		case c != gapRune && s == gapRune:
			start := noisePos

			var content []rune

			for i < len(alignedNoise) && alignedNoise[i] != gapRune && alignedSignal[i] == gapRune {
				content = append(content, alignedNoise[i])
				noisePos++
				i++
			}

			intervals = append(intervals, Interval{Start: start, End: noisePos, Kind: Gap, Content: string(content)})

		default:
			start := noisePos

			var original, userChange []rune

			for i < len(alignedNoise) {
				c2, s2 := alignedNoise[i], alignedSignal[i]

				isSignal := c2 != gapRune && s2 != gapRune && c2 == s2
				isGap := c2 != gapRune && s2 == gapRune

				if isSignal || isGap {
					break
				}

				if c2 != gapRune {
					original = append(original, c2)
					noisePos++
				}

				if s2 != gapRune {
					userChange = append(userChange, s2)
				}

				i++
			}

			intervals = append(intervals, Interval{
				Start:      start,
				End:        noisePos,
				Kind:       Error,
				Content:    string(original),
				Original:   string(original),
				UserChange: string(userChange),
			})
		}
	}

	return NewIntervalMap(intervals)
}
