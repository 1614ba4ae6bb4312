package align

import (
	"sort"
	"strings"
)

// Span is a half-open character range in some string's own coordinate
// space, used by the edit-theory hypotheses below to report what they
// excised and from where.
type Span struct {
	Start int
	End   int
}

// DeletedSelection hypothesizes that the user deleted exactly the
// previously-selected ranges. It is grounded on the UI's own notion
// of "selection" (an editor tracks selection ranges independently of
// the buffer diff), so evaluating it is just: remove the selections,
// compare with edited.
type DeletedSelection struct {
	Original       string
	Edited         string
	CursorBegin    int
	CursorEnd      int
	PrevSelections []Span
}

// Evaluate reports the resulting cursor position and a map from
// excised text to the original range it came from, or ok=false if the
// hypothesis does not reproduce Edited.
func (h DeletedSelection) Evaluate() (cursor int, excised map[string]Span, ok bool) {
	if len(h.PrevSelections) == 0 {
		return 0, nil, false
	}

	selections := append([]Span(nil), h.PrevSelections...)
	sort.Slice(selections, func(i, j int) bool { return selections[i].Start < selections[j].Start })

	runes := []rune(h.Original)

	var kept strings.Builder

	cursorPos := 0

	for i, sel := range selections {
		if i == 0 {
			kept.WriteString(string(runes[:clampIndex(sel.Start, len(runes))]))
		} else {
			kept.WriteString(string(runes[clampIndex(selections[i-1].End, len(runes)):clampIndex(sel.Start, len(runes))]))
		}

		cursorPos = sel.End
	}

	last := selections[len(selections)-1]
	kept.WriteString(string(runes[clampIndex(last.End, len(runes)):]))

	if kept.String() != h.Edited {
		return 0, nil, false
	}

	result := map[string]Span{}
	for _, sel := range selections {
		result[string(runes[clampIndex(sel.Start, len(runes)):clampIndex(sel.End, len(runes))])] = sel
	}

	return cursorPos + 1, result, true
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}

	if i > n {
		return n
	}

	return i
}

// DeletedMotion hypothesizes that the user performed a single
// vi-style motion-delete starting at CursorBegin (word, line,
// inner-word, line-begin, or line-end). It tries each candidate
// motion in turn and accepts the first whose excision reproduces
// Edited, per spec.md §4.3.5.
type DeletedMotion struct {
	Original       string
	Edited         string
	CursorBegin    int
	CursorEnd      int
	PrevSelections []Span
}

// Evaluate reports the resulting cursor position and a single-entry
// map from excised text to the range it came from, or ok=false if no
// candidate motion reproduces Edited.
func (h DeletedMotion) Evaluate() (cursor int, excised map[string]Span, ok bool) {
	candidates := []func() (int, int){
		func() (int, int) { return lineMotionRange(h.Original, h.CursorBegin) },
		func() (int, int) { return wordMotionRange(h.Original, h.CursorBegin) },
		func() (int, int) {
			// vi's "d0": from the start of the current line to cursor.
			runes := []rune(h.Original)
			cursor := clampIndex(h.CursorBegin, len(runes))
			start := cursor
			for start > 0 && runes[start-1] != '\n' {
				start--
			}

			return start, cursor
		},
		func() (int, int) { return lineEndMotionRange(h.Original, h.CursorEnd) },
		func() (int, int) { return innerWordMotionRange(h.Original, h.CursorBegin) },
	}

	runes := []rune(h.Original)

	for _, candidate := range candidates {
		start, end := candidate()

		start = clampIndex(start, len(runes))
		end = clampIndex(end, len(runes))

		if start > end {
			start, end = end, start
		}

		result := string(runes[:start]) + string(runes[end:])
		if result != h.Edited {
			continue
		}

		removed := string(runes[start:end])

		return end, map[string]Span{removed: {Start: start, End: end}}, true
	}

	return 0, nil, false
}

// wordMotionRange mirrors vi's "dw"/"daw" from cursor: a run of
// whitespace plus the following word if cursor sits on whitespace, or
// a word plus its trailing whitespace if cursor sits on a word.
func wordMotionRange(s string, cursor int) (int, int) {
	runes := []rune(s)
	cursor = clampIndex(cursor, len(runes))

	i := cursor
	if i < len(runes) && isMotionSpace(runes[i]) {
		for i < len(runes) && isMotionSpace(runes[i]) {
			i++
		}

		for i < len(runes) && !isMotionSpace(runes[i]) {
			i++
		}

		return cursor, i
	}

	for i < len(runes) && !isMotionSpace(runes[i]) {
		i++
	}

	for i < len(runes) && isMotionSpace(runes[i]) && runes[i] != '\n' {
		i++
	}

	return cursor, i
}

// innerWordMotionRange mirrors vi's "diw": only the whitespace or word
// run directly under the cursor, no adjoining run.
func innerWordMotionRange(s string, cursor int) (int, int) {
	runes := []rune(s)
	cursor = clampIndex(cursor, len(runes))

	i := cursor
	if i < len(runes) && isMotionSpace(runes[i]) {
		for i < len(runes) && isMotionSpace(runes[i]) {
			i++
		}
	} else {
		for i < len(runes) && !isMotionSpace(runes[i]) {
			i++
		}
	}

	return cursor, i
}

// lineMotionRange mirrors vi's "dd": the current line's content plus
// its leading newline (or, for the first line, its trailing one).
func lineMotionRange(s string, cursor int) (int, int) {
	runes := []rune(s)
	cursor = clampIndex(cursor, len(runes))

	prevNL := -1
	for i := cursor - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			prevNL = i
			break
		}
	}

	nextNL := -1
	for i := cursor; i < len(runes); i++ {
		if runes[i] == '\n' {
			nextNL = i
			break
		}
	}

	if prevNL == -1 && nextNL == -1 {
		return 0, len(runes)
	}

	if prevNL != -1 {
		end := nextNL
		if end == -1 {
			end = len(runes)
		}

		return prevNL, end
	}

	return 0, nextNL + 1
}

// lineEndMotionRange mirrors vi's "d$": from cursor to the end of the
// current line, excluding the line's own trailing newline.
func lineEndMotionRange(s string, cursor int) (int, int) {
	runes := []rune(s)
	cursor = clampIndex(cursor, len(runes))

	end := len(runes)

	for i := cursor; i < len(runes); i++ {
		if runes[i] == '\n' {
			end = i
			break
		}
	}

	return cursor, end
}

func isMotionSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n'
}
