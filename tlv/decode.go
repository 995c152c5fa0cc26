package tlv

import (
	"errors"
	"math"
	"strconv"

	"codello.dev/x509der"
	"codello.dev/x509der/internal/vlq"
)

var (
	errIndefinite    = errors.New("indefinite length")
	errReservedLen   = errors.New("reserved length octet 0xFF")
	errLeadingZero   = errors.New("length not minimally encoded")
	errShortLongForm = errors.New("long form used for length below 128")
	errLenOverflow   = errors.New("length too large")
	errShortTag      = errors.New("long form used for tag number below 31")
)

// Parse decodes the data value at the start of b. It returns the decoded
// header, the content octets and the bytes following the data value. content
// and rest are sub-slices of b.
//
// If b does not start with a valid DER data value, Parse returns an error of
// type [*x509der.Error]. The offset of the error is relative to the start of b.
// Parse never reads beyond len(b).
func Parse(b []byte) (h Header, content, rest []byte, err error) {
	h, n, err := ParseHeader(b)
	if err != nil {
		return h, nil, nil, err
	}
	if h.Length > len(b)-n {
		return h, nil, nil, &x509der.Error{
			Kind:   x509der.TruncatedInput,
			Offset: 0,
			Tag:    h.Tag,
			Err:    errors.New("content needs " + strconv.Itoa(h.Length) + " bytes, " + strconv.Itoa(len(b)-n) + " available"),
		}
	}
	return h, b[n : n+h.Length], b[n+h.Length:], nil
}

// ParseHeader decodes the identifier and length octets at the start of b. It
// returns the header and the number of bytes it occupies. ParseHeader does not
// check that the content octets are present in b.
func ParseHeader(b []byte) (h Header, n int, err error) {
	if len(b) == 0 {
		return h, 0, &x509der.Error{Kind: x509der.TruncatedInput, Err: errors.New("missing identifier octet")}
	}
	c := b[0]
	n = 1
	h.Tag = x509der.Tag{Class: x509der.Class(c >> 6), Number: uint(c & 0x1f)}
	h.Constructed = c&0x20 == 0x20

	// If the bottom five bits are set, then the tag number is actually VLQ-encoded
	if c&0x1f == 0x1f {
		num, m, vErr := vlq.Parse[uint](b[n:])
		switch {
		case errors.Is(vErr, vlq.ErrTruncated):
			return h, n, &x509der.Error{Kind: x509der.TruncatedInput, Err: errors.New("truncated tag number")}
		case vErr != nil:
			return h, n, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: n, Err: vErr}
		case num < 31:
			return h, n, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: n, Err: errShortTag}
		}
		h.Tag.Number = num
		n += m
	}

	if n >= len(b) {
		return h, n, &x509der.Error{Kind: x509der.TruncatedInput, Tag: h.Tag, Err: errors.New("missing length octet")}
	}
	// Invalid length octets are reported at the offending octet. Truncation
	// is reported at the start of the data value.
	lenOff := n
	c = b[n]
	n++
	switch {
	case c&0x80 == 0:
		// The length is encoded in the bottom 7 bits.
		h.Length = int(c)
		return h, n, nil
	case c == 0x80:
		return h, n, &x509der.Error{Kind: x509der.InvalidLength, Offset: lenOff, Tag: h.Tag, Err: errIndefinite}
	case c == 0xff:
		return h, n, &x509der.Error{Kind: x509der.InvalidLength, Offset: lenOff, Tag: h.Tag, Err: errReservedLen}
	}

	// Bottom 7 bits give the number of length bytes to follow.
	numBytes := int(c & 0x7f)
	if numBytes > len(b)-n {
		return h, n, &x509der.Error{Kind: x509der.TruncatedInput, Tag: h.Tag, Err: errors.New("missing length octets")}
	}
	if b[n] == 0 {
		return h, n, &x509der.Error{Kind: x509der.InvalidLength, Offset: n, Tag: h.Tag, Err: errLeadingZero}
	}
	for i, d := range b[n : n+numBytes] {
		if h.Length > math.MaxInt>>8 {
			// We can't shift h.Length up without overflowing.
			return h, n, &x509der.Error{Kind: x509der.InvalidLength, Offset: n + i, Tag: h.Tag, Err: errLenOverflow}
		}
		h.Length = h.Length<<8 | int(d)
	}
	n += numBytes
	if h.Length < 128 {
		return h, n, &x509der.Error{Kind: x509der.InvalidLength, Offset: lenOff, Tag: h.Tag, Err: errShortLongForm}
	}
	return h, n, nil
}
