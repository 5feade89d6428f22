// Package huffman implements the legacy LibCompress-derived decompressor:
// a self-describing canonical Huffman table read from an "escaped code"
// header, decoded through a two-level lookup table built by
// internal/prefix.
//
// The code-extraction algorithm is a direct port of LibCompress's table
// reader (see getCode and unescapeCode in utils.go), generalized from the
// original Lua only in bit-level mechanics: the staging register is
// internal/bitfield.Bitfield and the lookup table is internal/prefix.Table.
package huffman

import (
	"fmt"
	"sort"

	"github.com/weakauras/wacodec/internal/bitfield"
	"github.com/weakauras/wacodec/internal/prefix"
	"github.com/weakauras/wacodec/internal/werr"
)

// MaxSizeUnbounded disables the output-size ceiling in Decompress.
const MaxSizeUnbounded = -1

// Decompress reconstructs the original byte stream from a legacy
// LibCompress-framed codec body. The first byte selects the sub-codec: 1
// passes the remainder through verbatim, 3 is Huffman-compressed, anything
// else is UnknownCodec. maxSize bounds the decompressed size; pass
// MaxSizeUnbounded to disable the check.
func Decompress(data []byte, maxSize int) (result []byte, err error) {
	defer werr.Recover(&err)

	if len(data) == 0 {
		werr.Panic(werr.InsufficientData, "huffman: empty input")
	}

	switch data[0] {
	case 1:
		out := make([]byte, len(data)-1)
		copy(out, data[1:])
		return out, nil
	case 3:
		// continue below
	default:
		werr.Panic(werr.UnknownCodec, fmt.Sprintf("huffman: unknown codec byte %d", data[0]))
	}

	if len(data) < 5 {
		werr.Panic(werr.InsufficientData, "huffman: header shorter than 5 bytes")
	}

	numSymbols := int(data[1]) + 1
	originalSize := int(data[2]) | int(data[3])<<8 | int(data[4])<<16

	if originalSize == 0 {
		werr.Panic(werr.InsufficientData, "huffman: original size is zero")
	}
	if maxSize != MaxSizeUnbounded && originalSize > maxSize {
		werr.Panic(werr.TooLarge, "huffman: decompressed size exceeds limit")
	}

	pos := 5
	nextByte := func() byte {
		if pos >= len(data) {
			werr.Panic(werr.UnexpectedEOF, "huffman: unexpected end of input")
		}
		b := data[pos]
		pos++
		return b
	}

	var bf bitfield.Bitfield
	codes := make([]prefix.Code, 0, numSymbols)
	minCodeLen, maxCodeLen := uint8(255), uint8(0)

	for i := 0; i < numSymbols; i++ {
		symbol := bf.InsertAndExtractByte(nextByte())

		for {
			if !bf.Insert(nextByte()) {
				werr.Panic(werr.CodecError, "huffman: bitfield overflow while reading code table")
			}

			code, codeLen, ok := getCode(&bf)
			if !ok {
				continue
			}

			uCode, uLen := unescapeCode(code, codeLen)
			if uLen < minCodeLen {
				minCodeLen = uLen
			}
			if uLen > maxCodeLen {
				maxCodeLen = uLen
			}
			codes = append(codes, prefix.Code{Code: uCode, Len: uLen, Symbol: symbol})
			break
		}
	}

	sort.Slice(codes, func(i, j int) bool {
		if codes[i].Len != codes[j].Len {
			return codes[i].Len < codes[j].Len
		}
		return codes[i].Code < codes[j].Code
	})

	table, buildErr := prefix.Build(codes)
	if buildErr != nil {
		werr.Panic(werr.CodecError, "huffman: code table has overlapping prefixes")
	}

	result = make([]byte, 0, originalSize)

outer:
	for {
		pos += bf.Fill(data[pos:])

		if bf.Len() < minCodeLen {
			break
		}

		curLen, curSymbol, curNext := table.At(bf.PeekByte())
		if bf.Len() < curLen {
			break
		}

		cur := bf
		for cur.Len() >= curLen {
			if curNext != nil {
				cur.DiscardBits(curLen)
				curLen, curSymbol, curNext = curNext.At(cur.PeekByte())
				continue
			}

			if curLen == 0 {
				if bf.Len() > maxCodeLen {
					werr.Panic(werr.CodecError, "huffman: code table has no entry for the buffered bits")
				}
				break
			}

			result = append(result, curSymbol)
			if len(result) == originalSize {
				break outer
			}

			bf = cur
			bf.DiscardBits(curLen)
			break
		}
	}

	if len(result) != originalSize {
		werr.Panic(werr.CodecError, "huffman: decoder under-produced output")
	}

	return result, nil
}
