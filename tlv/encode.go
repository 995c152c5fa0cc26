package tlv

import (
	"math/bits"

	"codello.dev/x509der/internal/vlq"
)

// HeaderSize returns the number of bytes of the DER encoding of h.
func HeaderSize(h Header) int {
	n := 2
	if h.Tag.Number >= 31 {
		n += vlq.Size(h.Tag.Number)
	}
	if h.Length >= 128 {
		n += (bits.Len(uint(h.Length)) + 7) / 8
	}
	return n
}

// AppendHeader appends the DER encoding of h to dst and returns the extended
// slice. The length is encoded in the shortest possible form.
func AppendHeader(dst []byte, h Header) []byte {
	b := uint8(h.Tag.Class) << 6
	if h.Constructed {
		b |= 0x20
	}
	if h.Tag.Number < 31 {
		dst = append(dst, b|uint8(h.Tag.Number))
	} else {
		dst = append(dst, b|0x1f)
		dst = vlq.Append(dst, h.Tag.Number)
	}

	if h.Length < 128 {
		return append(dst, byte(h.Length))
	}
	numBytes := (bits.Len(uint(h.Length)) + 7) / 8
	dst = append(dst, 0x80|byte(numBytes))
	for ; numBytes > 0; numBytes-- {
		dst = append(dst, byte(h.Length>>uint((numBytes-1)*8)))
	}
	return dst
}
