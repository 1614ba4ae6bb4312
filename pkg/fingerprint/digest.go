package fingerprint

import "github.com/mbndr/gnize/pkg/channel"

// Digest is the Rabin-style rolling hash accumulator described in
// spec.md §4.2.1 ("digest_bytes"). The zero value is not usable;
// construct with NewDigest.
type Digest struct {
	poly   uint16
	buffer uint64
}

// NewDigest returns a fresh accumulator for the given channel
// polynomial.
func NewDigest(poly uint16) *Digest {
	return &Digest{poly: poly}
}

// Value returns the current fingerprint (the remainder accumulated so
// far), always < 2^15.
func (d *Digest) Value() uint16 {
	return uint16(d.buffer)
}

// FoldBytes folds up to 16 bits into the accumulator: buffer <- buffer
// shifted left 16 bits, XOR chunk, reduced mod the channel polynomial.
// It returns the resulting fingerprint.
func (d *Digest) FoldBytes(chunk uint16) uint16 {
	d.buffer = (d.buffer << 16) ^ uint64(chunk)
	d.buffer = uint64(channel.Reduce(d.buffer, d.poly))

	return uint16(d.buffer)
}

// FoldChar folds one user-perceived character using the two-byte-chunk
// policy of spec.md §4.2.2 and returns the resulting fingerprint.
func (d *Digest) FoldChar(c rune) uint16 {
	for _, chunk := range charChunks(c) {
		d.FoldBytes(chunk)
	}

	return d.Value()
}

// charChunks splits one UTF-8-encoded character into the 16-bit chunks
// digest_char folds, in order:
//
//   - 1-2 byte encodings fold as a single chunk; a lone byte is
//     zero-padded on the leading (high) side.
//   - 3-4 byte encodings fold their first two bytes as one chunk, then
//     the remaining 1-2 bytes as a second chunk; a lone remainder byte
//     is zero-padded on the trailing (low) side.
func charChunks(c rune) []uint16 {
	b := []byte(string(c))

	if len(b) <= 2 {
		return []uint16{chunk16(padLeading(b))}
	}

	first := b[:2]
	rest := b[2:]

	return []uint16{chunk16(first), chunk16(padTrailing(rest))}
}

func padLeading(b []byte) []byte {
	if len(b) == 1 {
		return []byte{0, b[0]}
	}

	return b
}

func padTrailing(b []byte) []byte {
	if len(b) == 1 {
		return []byte{b[0], 0}
	}

	return b
}

func chunk16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// DigestRawChunks folds a sequence of pre-assembled 16-bit chunks and
// returns the resulting fingerprint. It exists to let tests exercise
// digest_bytes directly against spec.md's worked example, where the
// chunk boundaries and padding side are spelled out explicitly rather
// than derived from character splitting.
func DigestRawChunks(poly uint16, chunks ...uint16) uint16 {
	d := NewDigest(poly)

	for _, c := range chunks {
		d.FoldBytes(c)
	}

	return d.Value()
}
