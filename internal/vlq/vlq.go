// Package vlq implements [Variable-length quantity] encoding as used by the
// tag numbers and object identifier arcs of DER. A VLQ is essentially a
// base-128 representation of an unsigned integer with the addition of the
// eighth bit to mark continuation of bytes. VLQ is identical to [LEB128] except
// in endianness.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
// [LEB128]: https://en.wikipedia.org/wiki/LEB128
package vlq

import (
	"errors"
	"math/bits"
	"unsafe"
)

var (
	ErrTruncated  = errors.New("vlq is truncated")
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	ErrOverflow   = errors.New("vlq too large for target type")
)

// Parse decodes a minimally encoded unsigned VLQ from the start of b. It
// returns the value and the number of bytes it occupies. The maximum allowed
// value is limited by the size of T.
//
// If b ends while the continuation bit is still set, Parse returns
// [ErrTruncated]. A VLQ starting with a 0x80 byte is not minimal and results in
// [ErrNotMinimal].
func Parse[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](b []byte) (ret T, n int, err error) {
	if len(b) == 0 {
		return 0, 0, ErrTruncated
	}
	if b[0] == 0x80 {
		return 0, 1, ErrNotMinimal
	}

	size := int(unsafe.Sizeof(ret) * 8)
	numBits := 0
	for n < len(b) {
		c := b[n]
		n++
		if numBits == 0 {
			numBits = bits.Len8(c & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > size {
			return 0, n, ErrOverflow
		}
		ret = ret<<7 | T(c&0x7f)
		if c&0x80 == 0 {
			return ret, n, nil
		}
	}
	return 0, n, ErrTruncated
}

// Size returns the number of bytes needed to encode n as a VLQ.
func Size[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the minimal VLQ encoding of i to dst and returns the extended
// slice.
func Append[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](dst []byte, i T) []byte {
	for j := Size(i) - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
