// Package bitfield implements the 64-bit LSB-first bit staging register
// used by the legacy Huffman decompressor to pull variable-width codes out
// of a byte stream.
package bitfield

// Bitfield holds up to 64 bits, least-significant bit first. Only the low
// Len bits are meaningful. The byte-level Fill path stops inserting once
// Len reaches 56, so it never pushes Len past 63.
type Bitfield struct {
	data uint64
	len  uint8
}

// Len reports the number of meaningful low bits currently buffered.
func (b *Bitfield) Len() uint8 { return b.len }

// Insert appends a byte above the current Len bits. It fails if 56 or more
// bits are already buffered.
func (b *Bitfield) Insert(by byte) bool {
	if b.len >= 64-8 {
		return false
	}
	b.data |= uint64(by) << b.len
	b.len += 8
	return true
}

// Fill inserts bytes from src until at least 56 bits are buffered or src is
// exhausted, returning the number of bytes consumed.
func (b *Bitfield) Fill(src []byte) int {
	n := 0
	for b.len < 64-8 && n < len(src) {
		b.data |= uint64(src[n]) << b.len
		b.len += 8
		n++
	}
	return n
}

// PeekByte returns the low 8 bits without discarding them.
func (b *Bitfield) PeekByte() byte { return byte(b.data) }

// PeekBits returns the low n bits (n in 0..64) without discarding them.
func (b *Bitfield) PeekBits(n uint8) uint64 {
	if n == 0 {
		return 0
	}
	return b.data & (1<<uint(n) - 1)
}

// DiscardBits removes the low n bits, saturating Len at 0.
func (b *Bitfield) DiscardBits(n uint8) {
	b.data >>= n
	if n >= b.len {
		b.len = 0
	} else {
		b.len -= n
	}
}

// ExtractBits returns and discards the low n bits.
func (b *Bitfield) ExtractBits(n uint8) uint64 {
	v := b.PeekBits(n)
	b.DiscardBits(n)
	return v
}

// InsertAndExtractByte inserts by above the buffered bits, then returns the
// low byte of the result and shifts it out of data. Len is deliberately
// left untouched by this call (it is used exactly once per symbol, before
// any Len-tracked bits have been attributed to that symbol's code): the two
// branches differ only in whether the inserted byte is positioned before or
// after the low byte is peeled off, which matters once Len is within a
// byte of the 64-bit ceiling. Collapsing the two cases into one produces
// the wrong byte order near that boundary.
func (b *Bitfield) InsertAndExtractByte(by byte) byte {
	if b.len <= 64-8 {
		b.data |= uint64(by) << b.len
		result := byte(b.data)
		b.data >>= 8
		return result
	}
	result := byte(b.data)
	b.data >>= 8
	b.data |= uint64(by) << (b.len - 8)
	return result
}
