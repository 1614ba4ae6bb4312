package align_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbndr/gnize/pkg/align"
)

func Test_DeletedSelection_Reproduces_Edited_From_Two_Prior_Selections(t *testing.T) {
	t.Parallel()

	h := align.DeletedSelection{
		Original:       "abcdefghijklmnop",
		Edited:         "abcghijkop",
		CursorBegin:    10,
		CursorEnd:      11,
		PrevSelections: []align.Span{{Start: 3, End: 6}, {Start: 11, End: 14}},
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 15, cursor)
	assert.Equal(t, map[string]align.Span{
		"def": {Start: 3, End: 6},
		"lmn": {Start: 11, End: 14},
	}, excised)
}

func Test_DeletedSelection_Fails_Without_Any_Selections(t *testing.T) {
	t.Parallel()

	h := align.DeletedSelection{Original: "abc", Edited: "ac", CursorBegin: 1, CursorEnd: 1}

	_, _, ok := h.Evaluate()
	assert.False(t, ok)
}

func Test_DeletedMotion_Rejects_Out_Of_Range_Cursors_That_Reproduce_Nothing(t *testing.T) {
	t.Parallel()

	h := align.DeletedMotion{
		Original:    "abc\ndef",
		Edited:      "xyz",
		CursorBegin: 12,
		CursorEnd:   13,
	}

	cursor, excised, ok := h.Evaluate()

	assert.False(t, ok)
	assert.Equal(t, 0, cursor)
	assert.Nil(t, excised)
}

func Test_DeletedMotion_Line_Deletes_Line_Plus_Leading_Newline(t *testing.T) {
	t.Parallel()

	h := align.DeletedMotion{
		Original:    "abc\ndef\nghi",
		Edited:      "abc\nghi",
		CursorBegin: 4,
		CursorEnd:   4,
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 7, cursor)
	assert.Equal(t, map[string]align.Span{"\ndef": {Start: 3, End: 7}}, excised)
}

func Test_DeletedMotion_Word_Deletes_Word_Plus_Trailing_Space(t *testing.T) {
	t.Parallel()

	h := align.DeletedMotion{
		Original:    "abc def ghi",
		Edited:      "abc ghi",
		CursorBegin: 3,
		CursorEnd:   4,
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 7, cursor)
	assert.Equal(t, map[string]align.Span{" def": {Start: 3, End: 7}}, excised)
}

func Test_DeletedMotion_LineBegin_Deletes_From_Start_Of_Line_To_Cursor(t *testing.T) {
	t.Parallel()

	h := align.DeletedMotion{
		Original:    "abc def ghi",
		Edited:      "def ghi",
		CursorBegin: 4,
		CursorEnd:   4,
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 4, cursor)
	assert.Equal(t, map[string]align.Span{"abc ": {Start: 0, End: 4}}, excised)
}

func Test_DeletedMotion_LineEnd_Deletes_To_End_Of_Line_Excluding_Newline(t *testing.T) {
	t.Parallel()

	h := align.DeletedMotion{
		Original:    "ab\ncd",
		Edited:      "a\ncd",
		CursorBegin: 0,
		CursorEnd:   1,
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 2, cursor)
	assert.Equal(t, map[string]align.Span{"b": {Start: 1, End: 2}}, excised)
}

func Test_DeletedMotion_InnerWord_Deletes_Only_The_Run_Under_Cursor(t *testing.T) {
	t.Parallel()

	// No leading line/word/lineEnd candidate reproduces this edit: the
	// cursor sits mid-word and only the bare word itself is removed,
	// with neither its surrounding line nor trailing space touched.
	h := align.DeletedMotion{
		Original:    "xx abcde yy",
		Edited:      "xx  yy",
		CursorBegin: 3,
		CursorEnd:   3,
	}

	cursor, excised, ok := h.Evaluate()

	require.True(t, ok)
	assert.Equal(t, 8, cursor)
	assert.Equal(t, map[string]align.Span{"abcde": {Start: 3, End: 8}}, excised)
}
