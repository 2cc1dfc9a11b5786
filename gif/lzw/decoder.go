// Package lzw implements the variable-width LZW decompression used by GIF
// image data.
//
// Codes are packed least significant bit first. The dictionary is reset by
// the clear code (1<<minCodeSize), decoding stops at the end-of-information
// code (clear+1), and code width grows from minCodeSize+1 up to 12 bits.
package lzw

import (
	"errors"
	"fmt"
)

const (
	maxWidth  = 12
	tableSize = 1 << maxWidth

	MinCodeSizeLimit = 8
)

var (
	ErrInvalidCode = errors.New("lzw: invalid code")
)

// Decoder holds the dictionary arena. The zero value is ready to use and
// may be reused for consecutive images, but not concurrently.
type Decoder struct {
	// Limit stops decoding once this many indices have been produced.
	// Zero means no limit.
	Limit int

	prefix [tableSize]uint16
	suffix [tableSize]uint8
	first  [tableSize]uint8
	length [tableSize]uint16

	width int
	hi    int
}

// Decode decompresses payload with a fresh Decoder.
func Decode(minCodeSize int, payload []byte) ([]byte, error) {
	var decoder Decoder
	return decoder.Decode(nil, minCodeSize, payload)
}

// Decode appends the colour indices encoded in payload to dst. payload is
// the concatenated data of all sub-blocks of one image.
func (decoder *Decoder) Decode(dst []byte, minCodeSize int, payload []byte) ([]byte, error) {
	if minCodeSize < 1 || minCodeSize > MinCodeSizeLimit {
		return dst, fmt.Errorf("%w: minimum code size %d", ErrInvalidCode, minCodeSize)
	}

	clear := 1 << minCodeSize
	eoi := clear + 1
	decoder.reset(minCodeSize)

	var (
		acc   uint32
		nbits int
		pos   int
		prev  = clear
		start = len(dst)
	)

	for {
		for nbits < decoder.width {
			if pos >= len(payload) {
				// out of data without an end code; trailing bits are slack
				return dst, nil
			}
			acc |= uint32(payload[pos]) << nbits
			pos++
			nbits += 8
		}
		code := int(acc & (1<<decoder.width - 1))
		acc >>= decoder.width
		nbits -= decoder.width

		if code == clear {
			decoder.reset(minCodeSize)
			prev = clear
			continue
		}
		if code == eoi {
			return dst, nil
		}

		switch {
		case code < decoder.hi:
			if prev != clear {
				decoder.add(prev, decoder.first[code])
			}
		case code == decoder.hi && prev != clear:
			decoder.add(prev, decoder.first[prev])
		default:
			return dst, fmt.Errorf("%w: %d (dictionary holds %d entries)", ErrInvalidCode, code, decoder.hi)
		}
		dst = decoder.emit(dst, code)
		prev = code

		if decoder.hi == 1<<decoder.width && decoder.width < maxWidth {
			decoder.width++
		}

		if decoder.Limit > 0 && len(dst)-start >= decoder.Limit {
			return dst[:start+decoder.Limit], nil
		}
	}
}

func (decoder *Decoder) reset(minCodeSize int) {
	clear := 1 << minCodeSize
	for i := 0; i < clear; i++ {
		decoder.suffix[i] = uint8(i)
		decoder.first[i] = uint8(i)
		decoder.length[i] = 1
	}
	// clear and eoi slots never expand to anything
	decoder.length[clear] = 0
	decoder.length[clear+1] = 0
	decoder.width = minCodeSize + 1
	decoder.hi = clear + 2
}

// add appends prefix+sym to the dictionary. Once the table holds 4096
// entries the encoder owes us a clear code and nothing more is recorded.
func (decoder *Decoder) add(prefix int, sym uint8) {
	if decoder.hi >= tableSize {
		return
	}
	decoder.prefix[decoder.hi] = uint16(prefix)
	decoder.suffix[decoder.hi] = sym
	decoder.first[decoder.hi] = decoder.first[prefix]
	decoder.length[decoder.hi] = decoder.length[prefix] + 1
	decoder.hi++
}

func (decoder *Decoder) emit(dst []byte, code int) []byte {
	n := int(decoder.length[code])
	end := len(dst) + n
	if cap(dst) < end {
		grown := make([]byte, len(dst), 2*cap(dst)+n)
		copy(grown, dst)
		dst = grown
	}
	dst = dst[:end]
	for i, c := end-1, code; i >= end-n; i-- {
		dst[i] = decoder.suffix[c]
		c = int(decoder.prefix[c])
	}
	return dst
}
