package fingerprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Range is a half-open span over the rune-indexed text the
// fingerprints were computed from. spec.md §3 describes Range as a
// byte-offset pair; this implementation indexes by rune instead (see
// DESIGN.md) so that multi-byte characters behave the same as ASCII
// under the "one user-perceived character per fold" rule the engine
// already follows.
type Range struct {
	Start int
	End   int
}

func (r Range) String() string {
	return fmt.Sprintf("(%d,%d)", r.Start, r.End)
}

// Subprint labels a fingerprint with its channel, prefix, and feature.
type Subprint struct {
	Channel uint16
	Prefix  uint16
	Feature uint16
}

func (s Subprint) String() string {
	return fmt.Sprintf("[%d:%04x->%04x]", s.Channel, s.Prefix, s.Feature)
}

// Score ranks a (prefix, feature) pair: (prefix+1)*(feature+1).
// Smaller is rarer, and therefore more interesting.
func Score(prefix, feature uint16) uint64 {
	return (uint64(prefix) + 1) * (uint64(feature) + 1)
}

type entryKey struct {
	Range    Range
	Subprint Subprint
}

// Entry is one (range, subprint) -> substring record.
type Entry struct {
	Range     Range
	Subprint  Subprint
	Substring string
}

// Fingerprints is the scored multimap described in spec.md §3: outer
// key is Score (iterated ascending), inner keys are (Range, Subprint)
// pairs mapping to the matched substring. Insertion is commutative:
// duplicate (range, subprint) entries collapse to one, so independent
// workers' containers can be merged without coordination.
type Fingerprints struct {
	byScore map[uint64]map[entryKey]string
}

// New returns an empty container.
func New() *Fingerprints {
	return &Fingerprints{byScore: map[uint64]map[entryKey]string{}}
}

// Insert adds (or overwrites) one entry.
func (f *Fingerprints) Insert(score uint64, rng Range, sp Subprint, substring string) {
	bucket, ok := f.byScore[score]
	if !ok {
		bucket = map[entryKey]string{}
		f.byScore[score] = bucket
	}

	bucket[entryKey{Range: rng, Subprint: sp}] = substring
}

// Len returns the total number of (score, range, subprint) entries.
func (f *Fingerprints) Len() int {
	total := 0
	for _, bucket := range f.byScore {
		total += len(bucket)
	}

	return total
}

// Scores returns every score present, ascending.
func (f *Fingerprints) Scores() []uint64 {
	scores := make([]uint64, 0, len(f.byScore))
	for score := range f.byScore {
		scores = append(scores, score)
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i] < scores[j] })

	return scores
}

// Entries returns every entry for a score. Order within a score is the
// container's natural (map-derived) order and is not guaranteed to be
// stable across calls, per spec.md §4.2.5.
func (f *Fingerprints) Entries(score uint64) []Entry {
	bucket := f.byScore[score]
	entries := make([]Entry, 0, len(bucket))

	for k, substring := range bucket {
		entries = append(entries, Entry{Range: k.Range, Subprint: k.Subprint, Substring: substring})
	}

	return entries
}

// Merge returns a new container holding every entry from f and other.
// Merging is commutative and associative, and safe to call on
// independently-produced containers (spec.md §5).
func (f *Fingerprints) Merge(other *Fingerprints) *Fingerprints {
	merged := New()

	for _, src := range []*Fingerprints{f, other} {
		if src == nil {
			continue
		}

		for score, bucket := range src.byScore {
			for k, substring := range bucket {
				merged.Insert(score, k.Range, k.Subprint, substring)
			}
		}
	}

	return merged
}

// SetSubstrings re-derives every entry's substring from runes, a pure
// function of (Range, runes). Called once after a parallel merge to
// eliminate any cross-worker race on the substring field (spec.md
// §4.2.4's "merge semantics").
func (f *Fingerprints) SetSubstrings(runes []rune) {
	for _, bucket := range f.byScore {
		for k := range bucket {
			bucket[k] = string(runes[k.Range.Start:k.Range.End])
		}
	}
}

// Human renders the output format of spec.md §6: one line per score,
// then indented (range, subprint) lines each followed by the
// substring.
func (f *Fingerprints) Human() string {
	var buf bytes.Buffer

	for _, score := range f.Scores() {
		fmt.Fprintf(&buf, "%d\n", score)

		for _, e := range f.Entries(score) {
			fmt.Fprintf(&buf, "  %s %s\n", e.Range, e.Subprint)
			fmt.Fprintf(&buf, "    %s\n", e.Substring)
		}
	}

	return buf.String()
}

// endEntry is the innermost JSON value of Fingerprints.JSON's shape:
// `{"fingerprint": label, "substring": text}`.
type endEntry struct {
	Fingerprint string `json:"fingerprint"`
	Substring   string `json:"substring"`
}

// JSON renders the output shape of spec.md §6:
//
//	{ score:str -> { start:str -> { end:str -> {"fingerprint": label, "substring": text} } } }
//
// Scores ascend; within a score, starts and ends ascend too. That
// ordering is numeric, not lexicographic ("10" must sort after "2"),
// so the outer two levels are assembled by hand rather than via
// encoding/json's map support, which sorts string keys lexically.
// Every string value and key is still escaped by encoding/json
// (json.Marshal), not fmt's %q -- %q is strconv.Quote's Go-source
// escaping (\a, \v, \xHH, ...), which is not valid JSON syntax.
func (f *Fingerprints) JSON() []byte {
	var buf bytes.Buffer

	buf.WriteByte('{')

	scores := f.Scores()
	for si, score := range scores {
		if si > 0 {
			buf.WriteByte(',')
		}

		writeJSONKey(&buf, strconv.FormatUint(score, 10))
		writeScoreBucket(&buf, f.Entries(score))
	}

	buf.WriteByte('}')

	return buf.Bytes()
}

// writeJSONKey writes a quoted, JSON-escaped object key followed by a
// colon.
func writeJSONKey(buf *bytes.Buffer, key string) {
	b, err := json.Marshal(key)
	if err != nil {
		// key is always a plain decimal string; json.Marshal only
		// fails on unsupported types, never on strings.
		panic(err)
	}

	buf.Write(b)
	buf.WriteByte(':')
}

func writeScoreBucket(buf *bytes.Buffer, entries []Entry) {
	byStart := map[int][]Entry{}

	starts := make([]int, 0)

	for _, e := range entries {
		if _, ok := byStart[e.Range.Start]; !ok {
			starts = append(starts, e.Range.Start)
		}

		byStart[e.Range.Start] = append(byStart[e.Range.Start], e)
	}

	sort.Ints(starts)

	buf.WriteByte('{')

	for i, start := range starts {
		if i > 0 {
			buf.WriteByte(',')
		}

		writeJSONKey(buf, strconv.Itoa(start))
		writeEndBucket(buf, byStart[start])
	}

	buf.WriteByte('}')
}

func writeEndBucket(buf *bytes.Buffer, entries []Entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Range.End < entries[j].Range.End })

	buf.WriteByte('{')

	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		writeJSONKey(buf, strconv.Itoa(e.Range.End))

		leaf, err := json.Marshal(endEntry{
			Fingerprint: e.Subprint.String(),
			Substring:   e.Substring,
		})
		if err != nil {
			// endEntry holds two plain strings; json.Marshal cannot
			// fail on this type.
			panic(err)
		}

		buf.Write(leaf)
	}

	buf.WriteByte('}')
}
