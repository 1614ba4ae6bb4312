package fingerprint

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/mbndr/gnize/pkg/channel"
)

// FromStart runs the state machine of spec.md §4.2.3 over a single
// suffix of text (text[offset:]), returning every fingerprint it
// found anchored at offset plus the stats it accumulated.
func FromStart(offset int, text []rune, params Params) (*Fingerprints, Stats) {
	suffix := text[offset:]
	out := New()

	poly, err := channel.Polynomial(params.Channel)
	if err != nil {
		// An unknown channel is a caller configuration error caught
		// by AllSubs before any suffix is scheduled; FromStart itself
		// has no error return, so panic to surface the programming
		// mistake loudly rather than silently emit nothing.
		panic(fmt.Sprintf("fingerprint: %v", err))
	}

	d := NewDigest(poly)

	var stats Stats

	inPrefixPhase := !params.SkipPrefix
	prefixCommitted := params.SkipPrefix
	prefixCandidate := uint16(0xFFFF)
	var prefixFingerprint uint16

	featureFound := false
	featureCount := 0

	for i, c := range suffix {
		buffer := d.FoldChar(c)

		if inPrefixPhase {
			if buffer < prefixCandidate {
				prefixCandidate = buffer
			}

			if i == params.MaxPrefixLen {
				inPrefixPhase = false

				if prefixCandidate < params.PrefixThreshold {
					prefixFingerprint = prefixCandidate
					prefixCommitted = true
					stats.PrefixFruitful++
				} else {
					stats.PrefixFruitless++
					return out, stats
				}
			}

			continue
		}

		if !prefixCommitted {
			continue
		}

		if featureCount >= params.MaxFeatureLen {
			break
		}

		featureCount++

		if buffer < params.FeatureThreshold {
			rng := Range{Start: offset, End: offset + i + 1}
			sp := Subprint{Channel: params.Channel, Prefix: prefixFingerprint, Feature: buffer}

			out.Insert(Score(prefixFingerprint, buffer), rng, sp, "")

			featureFound = true
			stats.FeatureFound++
		}
	}

	if prefixCommitted && !featureFound {
		stats.FeatureFruitless++
	}

	return out, stats
}

// AllSubs is the driver of spec.md §4.2.4: threshold escalation over
// params.PrefixThresholds, each pass scanning every suffix of text
// (serially or in parallel per params.Parallel) and merging results.
func AllSubs(text string, params Params) (*Fingerprints, Stats, error) {
	if !utf8.ValidString(text) {
		return nil, Stats{}, ErrBadEncoding
	}

	runes := []rune(text)
	n := len(runes)

	if n == 0 {
		return New(), Stats{}, nil
	}

	if _, err := channel.Polynomial(params.Channel); err != nil {
		return nil, Stats{}, err
	}

	thresholds := params.PrefixThresholds
	if params.SkipPrefix || len(thresholds) == 0 {
		thresholds = []uint16{0}
	}

	var (
		accumulated *Fingerprints
		stats       Stats
	)

	for _, t := range thresholds {
		passParams := params.withThreshold(t)

		result, passStats, err := runPass(runes, passParams)
		if err != nil {
			return nil, Stats{}, err
		}

		result.SetSubstrings(runes)

		if accumulated == nil {
			accumulated = result
		} else {
			accumulated = accumulated.Merge(result)
			accumulated.SetSubstrings(runes)
		}

		stats = stats.merge(passStats)

		if float64(accumulated.Len()) > params.RetryPercent*float64(n) {
			return accumulated, stats, nil
		}
	}

	return accumulated, stats, nil
}

// runPass scans every suffix of runes once, under a single committed
// PrefixThreshold, dispatching to serial or parallel execution.
func runPass(runes []rune, params Params) (*Fingerprints, Stats, error) {
	if params.Parallel {
		return runParallel(runes, params)
	}

	return runSerial(runes, params)
}

func runSerial(runes []rune, params Params) (*Fingerprints, Stats, error) {
	out := New()

	var stats Stats

	for offset := 0; offset < len(runes); offset++ {
		result, passStats := FromStart(offset, runes, params)
		out = out.Merge(result)
		stats = stats.merge(passStats)
	}

	return out, stats, nil
}

// batchResult is what one worker sends back over the shared channel.
type batchResult struct {
	fingerprints *Fingerprints
	stats        Stats
	err          error
}

// batchOffsets returns the offset lists for each batch, in the order
// workers should process them: allocated from the end of the suffix
// list (shorter suffixes first), with batch size growing per
// spec.md §4.2.4's B0/B_{k+1} formula.
func batchOffsets(n int, params Params) [][]int {
	batchSizeDivisor := params.BatchSizeDivisor
	if batchSizeDivisor <= 0 {
		batchSizeDivisor = 1
	}

	batchIncreaseDivisor := params.BatchIncreaseDivisor
	if batchIncreaseDivisor <= 0 {
		batchIncreaseDivisor = 1
	}

	batchSize := maxInt(5, ceilDiv(n, batchSizeDivisor))
	increase := maxInt(1, ceilDiv(n, batchIncreaseDivisor))

	var batches [][]int

	pos := n
	for pos > 0 {
		size := minInt(batchSize, pos)
		start := pos - size

		batch := make([]int, size)
		for i := 0; i < size; i++ {
			batch[i] = start + i
		}

		batches = append(batches, batch)

		pos = start
		batchSize += increase
	}

	return batches
}

func runParallel(runes []rune, params Params) (*Fingerprints, Stats, error) {
	batches := batchOffsets(len(runes), params)

	results := make(chan batchResult, len(batches))

	for _, batch := range batches {
		go func(offsets []int) {
			results <- runWorker(runes, offsets, params)
		}(batch)
	}

	out := New()

	var stats Stats

	for range batches {
		r := <-results
		if r.err != nil {
			return nil, Stats{}, r.err
		}

		out = out.Merge(r.fingerprints)
		stats = stats.merge(r.stats)
	}

	return out, stats, nil
}

// runWorker processes one batch of offsets and recovers from any
// panic inside FromStart, surfacing it as ErrWorkerCrash instead of
// losing the goroutine's results silently (spec.md §7's WorkerCrash).
func runWorker(runes []rune, offsets []int, params Params) (result batchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = batchResult{err: fmt.Errorf("%w: %v", ErrWorkerCrash, r)}
		}
	}()

	out := New()

	var stats Stats

	for _, offset := range offsets {
		fp, s := FromStart(offset, runes, params)
		out = out.Merge(fp)
		stats = stats.merge(s)
	}

	return batchResult{fingerprints: out, stats: stats}
}

func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}

	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}

	return b
}
