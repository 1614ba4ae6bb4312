package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbndr/gnize/pkg/channel"
	"github.com/mbndr/gnize/pkg/fingerprint"
)

func Test_AllSubs_Empty_Input_Returns_Empty_Container(t *testing.T) {
	t.Parallel()

	out, stats, err := fingerprint.AllSubs("", fingerprint.DefaultParams())
	require.NoError(t, err)
	assert.Zero(t, out.Len())
	assert.Zero(t, stats.FeatureFound)
}

func Test_AllSubs_Rejects_Invalid_UTF8(t *testing.T) {
	t.Parallel()

	_, _, err := fingerprint.AllSubs(string([]byte{0xff, 0xfe}), fingerprint.DefaultParams())
	assert.ErrorIs(t, err, fingerprint.ErrBadEncoding)
}

func Test_AllSubs_Rejects_Unknown_Channel(t *testing.T) {
	t.Parallel()

	params := fingerprint.DefaultParams()
	params.Channel = uint16(channel.Count() + 1000)

	_, _, err := fingerprint.AllSubs("hello world", params)
	assert.ErrorIs(t, err, channel.ErrUnknownChannel)
}

func Test_AllSubs_Every_Emitted_Range_Is_In_Bounds(t *testing.T) {
	t.Parallel()

	text := "the quick brown fox jumps over the lazy dog, repeatedly, again and again"

	out, _, err := fingerprint.AllSubs(text, fingerprint.DefaultParams())
	require.NoError(t, err)

	runeLen := len([]rune(text))

	for _, score := range out.Scores() {
		for _, e := range out.Entries(score) {
			assert.GreaterOrEqual(t, e.Range.Start, 0)
			assert.Less(t, e.Range.Start, e.Range.End)
			assert.LessOrEqual(t, e.Range.End, runeLen)
		}
	}
}

func Test_AllSubs_Serial_And_Parallel_Agree_On_Entry_Set(t *testing.T) {
	t.Parallel()

	text := "mississippi river delta, banana boat, mississippi again"

	serialParams := fingerprint.DefaultParams()
	serialParams.Parallel = false

	parallelParams := fingerprint.DefaultParams()
	parallelParams.Parallel = true

	serialOut, _, err := fingerprint.AllSubs(text, serialParams)
	require.NoError(t, err)

	parallelOut, _, err := fingerprint.AllSubs(text, parallelParams)
	require.NoError(t, err)

	assert.Equal(t, serialOut.Len(), parallelOut.Len())

	for _, score := range serialOut.Scores() {
		assert.ElementsMatch(t, serialOut.Entries(score), parallelOut.Entries(score))
	}
}

func Test_AllSubs_Merge_Commutativity_Invariant(t *testing.T) {
	t.Parallel()

	a := fingerprint.New()
	a.Insert(5, fingerprint.Range{Start: 0, End: 2}, fingerprint.Subprint{Feature: 1}, "ab")

	b := fingerprint.New()
	b.Insert(5, fingerprint.Range{Start: 2, End: 4}, fingerprint.Subprint{Feature: 2}, "cd")

	assert.Equal(t, a.Merge(b).Len(), b.Merge(a).Len())
}

func Test_FromStart_SkipPrefix_Emits_From_First_Character(t *testing.T) {
	t.Parallel()

	params := fingerprint.DefaultParams()
	params.SkipPrefix = true
	params.FeatureThreshold = 0xFFFF // accept every fingerprint, per spec.md scenario 3

	runes := []rune("abcd")

	out, stats := fingerprint.FromStart(0, runes, params)
	require.Greater(t, out.Len(), 0)
	assert.Zero(t, stats.PrefixFruitful, "prefix phase must not run when SkipPrefix is set")
	assert.Zero(t, stats.PrefixFruitless)

	for _, score := range out.Scores() {
		for _, e := range out.Entries(score) {
			assert.Zero(t, e.Subprint.Prefix, "skip_prefix fixes prefix_fingerprint at 0")
		}
	}
}

func Test_AllSubs_SkipPrefix_Full_Threshold_Scenario(t *testing.T) {
	t.Parallel()

	// spec.md §8 scenario 3 pins down ten specific substrings of
	// "abcd" (every prefix-anchored run) once filtering is disabled.
	// The exact scores depend on the channel polynomial table (channel
	// 963 from DefaultParams here; see DESIGN.md), so this only checks
	// the substring set and the entry count, not the literal score values.
	params := fingerprint.DefaultParams()
	params.SkipPrefix = true
	params.FeatureThreshold = 0xFFFF
	params.Parallel = false

	out, _, err := fingerprint.AllSubs("abcd", params)
	require.NoError(t, err)

	want := map[string]bool{"a": true, "b": true, "c": true, "d": true, "ab": true, "bc": true, "cd": true, "abc": true, "bcd": true, "abcd": true}

	got := map[string]bool{}
	for _, score := range out.Scores() {
		for _, e := range out.Entries(score) {
			got[e.Substring] = true
		}
	}

	assert.Equal(t, want, got)
	assert.Equal(t, len(want), out.Len())
}

