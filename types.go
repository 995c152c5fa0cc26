// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509der

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

//region [UNIVERSAL 3] BIT STRING

// BitString holds the value of a BIT STRING. The bits are packed into Bytes
// starting with the most significant bit of the first byte. Padding bits in the
// last byte are zero in DER.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether Bytes holds exactly the bytes needed for BitLength
// bits.
func (s BitString) IsValid() bool {
	return s.BitLength >= 0 && len(s.Bytes) == (s.BitLength+7)/8
}

// String returns the bits of s as binary digits, grouped into bytes.
func (s BitString) String() string {
	var sb strings.Builder
	sb.Grow(s.BitLength + s.BitLength/8)
	for i := range s.BitLength {
		if i > 0 && i%8 == 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('0' + s.Bytes[i/8]>>(7-i%8)&1)
	}
	return sb.String()
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// An ObjectIdentifier is the sequence of arcs of an OBJECT IDENTIFIER.
//
// See also section 32 of Rec. ITU-T X.680.
type ObjectIdentifier []uint

// ParseObjectIdentifier parses the dot-separated notation of an object
// identifier, such as "2.5.4.3". The identifier must consist of at least two
// arcs and the first arc must be 0, 1 or 2.
func ParseObjectIdentifier(s string) (ObjectIdentifier, error) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 {
		return nil, errors.New("object identifier needs at least two arcs")
	}
	oid := make(ObjectIdentifier, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, strconv.IntSize)
		if err != nil {
			return nil, err
		}
		oid[i] = uint(v)
	}
	if oid[0] > 2 || (oid[0] < 2 && oid[1] >= 40) {
		return nil, errors.New("invalid object identifier " + s)
	}
	return oid, nil
}

// MustParseObjectIdentifier works like [ParseObjectIdentifier] but panics if s
// cannot be parsed. It is intended for package level variables.
func MustParseObjectIdentifier(s string) ObjectIdentifier {
	oid, err := ParseObjectIdentifier(s)
	if err != nil {
		panic(err)
	}
	return oid
}

// Equal reports whether oid and other consist of the same arcs.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	b := make([]byte, 0, 4*len(oid))
	for i, v := range oid {
		if i > 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(v), 10)
	}
	return string(b)
}

//endregion

//region Character Strings

// ValidString reports whether b is a valid encoding of the character string
// type with the universal tag number n. The alphabets are those of section 41
// of Rec. ITU-T X.680. PrintableString is checked strictly, without the
// asterisk and ampersand found in some certificates. TeletexString content is
// not checked. For tag numbers that are not character string types ValidString
// returns false.
func ValidString(n uint, b []byte) bool {
	switch n {
	case TagUTF8String:
		return utf8.Valid(b)
	case TagNumericString:
		return all(b, func(c byte) bool { return '0' <= c && c <= '9' || c == ' ' })
	case TagPrintableString:
		return all(b, isPrintable)
	case TagTeletexString:
		return true
	case TagIA5String:
		return all(b, func(c byte) bool { return c < utf8.RuneSelf })
	case TagVisibleString:
		return all(b, func(c byte) bool { return ' ' <= c && c < 0x7F })
	case TagBMPString:
		// big endian UTF-16 restricted to the Basic Multilingual Plane
		if len(b)%2 != 0 {
			return false
		}
		for i := 0; i < len(b); i += 2 {
			if 0xD8 <= b[i] && b[i] <= 0xDF {
				return false
			}
		}
		return true
	}
	return false
}

func all(b []byte, fn func(byte) bool) bool {
	for _, c := range b {
		if !fn(c) {
			return false
		}
	}
	return true
}

// isPrintable reports whether c is in the PrintableString alphabet.
func isPrintable(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte(" '()+,-./:=?", c) >= 0
}

//endregion

//region [UNIVERSAL 23, 24] UTCTime, GeneralizedTime

// Time formats a time instant decoded from a UTCTime or GeneralizedTime value.
//
// See also section 38 of Rec. ITU-T X.680.
type Time time.Time

// String returns the RFC 3339 representation of t. Fractional seconds are
// included only if present.
func (t Time) String() string {
	return time.Time(t).Format("2006-01-02T15:04:05.999999999Z07:00")
}

//endregion
