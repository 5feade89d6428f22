// Package prefix builds and walks the two-level (occasionally deeper, for
// codes longer than 16 bits) canonical prefix-code lookup table used by the
// legacy Huffman decompressor.
//
// The shape follows brotli.prefixDecoder's packed chunks/links tables in
// spirit (an entry is either a terminal or a pointer to a further 256-entry
// table), but the construction itself is a direct generalization of
// LibCompress's lookup-table builder: codes here range up to 32 bits, so a
// lookup can chain through more than one reference hop, whereas brotli caps
// its own codes at 15 bits and so never needs more than two levels.
package prefix

// Code is one canonical prefix code: Len bits of Code (LSB-first) decode to
// Symbol. Build requires codes sorted by (Len, Code).
type Code struct {
	Code   uint32
	Len    uint8
	Symbol byte
}

// entry is a slot in a 256-entry table. A zero codeLen marks an unset slot.
// next is non-nil iff this slot defers to a nested table keyed by the next
// 8 bits of the bitstream.
type entry struct {
	codeLen uint8
	symbol  byte
	next    *Table
}

// Table is one level of the lookup structure: 256 slots indexed by the low
// 8 bits of the unread bitstream.
type Table struct {
	entries [256]entry
}

// At returns the slot for the low 8 bits of the unread stream. Every slot
// is populated (zero value is a symbol entry with codeLen 0, exactly like
// the source table's untouched default), so the caller must check codeLen
// == 0 && next == nil to recognize a code that was never assigned during
// canonicalization, rather than treating a missing entry as an error by
// itself.
func (t *Table) At(byteOfBits byte) (codeLen uint8, symbol byte, next *Table) {
	e := &t.entries[byteOfBits]
	return e.codeLen, e.symbol, e.next
}

// Build constructs the lookup table for a canonical prefix code, sorted by
// (Len, Code). It fails if two codes share a prefix (CodecError in the
// caller's taxonomy).
func Build(codes []Code) (*Table, error) {
	root := &Table{}

	for _, c := range codes {
		code, codeLen := c.Code, c.Len
		cursor := root

		for codeLen > 8 {
			idx := byte(code)
			e := &cursor.entries[idx]
			if e.codeLen == 0 && e.next == nil {
				e.codeLen = 8
				e.next = &Table{}
			}
			if e.next == nil {
				return nil, errCollision
			}
			cursor = e.next
			code >>= 8
			codeLen -= 8
		}

		if codeLen < 8 {
			for prefix := uint32(0); prefix < 1<<(8-codeLen); prefix++ {
				idx := byte((prefix << codeLen) | code)
				if e := &cursor.entries[idx]; e.codeLen != 0 || e.next != nil {
					return nil, errCollision
				}
				cursor.entries[idx] = entry{codeLen: codeLen, symbol: c.Symbol}
			}
		} else {
			idx := byte(code)
			if e := &cursor.entries[idx]; e.codeLen != 0 || e.next != nil {
				return nil, errCollision
			}
			cursor.entries[idx] = entry{codeLen: codeLen, symbol: c.Symbol}
		}
	}

	return root, nil
}

// errCollision signals that two codes in the input share a bit prefix,
// which makes the canonical table ambiguous. Callers translate this into
// their own error taxonomy (CodecError in huffman's case).
var errCollision = collisionError{}

type collisionError struct{}

func (collisionError) Error() string { return "prefix: codes share an overlapping prefix" }

// IsCollision reports whether err is the prefix-overlap error from Build.
func IsCollision(err error) bool {
	_, ok := err.(collisionError)
	return ok
}
