// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"time"

	"codello.dev/x509der"
	"codello.dev/x509der/internal/vlq"
)

// A ContentDecoder validates and decodes the content octets of a primitive
// value. Offsets of returned errors are relative to the start of b.
type ContentDecoder func(b []byte) (Content, error)

// syntaxError returns an [x509der.InvalidEncoding] error at offset off.
func syntaxError(off int, msg string) error {
	return &x509der.Error{Kind: x509der.InvalidEncoding, Offset: off, Err: errors.New(msg)}
}

//region [UNIVERSAL 1] BOOLEAN

// DecodeBoolean decodes the content of a BOOLEAN. DER only permits the values
// 0x00 and 0xFF.
func DecodeBoolean(b []byte) (Content, error) {
	if len(b) != 1 {
		return nil, syntaxError(0, "invalid boolean: length must be 1")
	}
	switch b[0] {
	case 0x00:
		return Boolean(false), nil
	case 0xff:
		return Boolean(true), nil
	}
	return nil, syntaxError(0, "invalid boolean: must be 0x00 or 0xFF")
}

//endregion

//region [UNIVERSAL 2] INTEGER

// DecodeInteger decodes the content of an INTEGER or ENUMERATED. The content
// must be minimally encoded.
func DecodeInteger(b []byte) (Content, error) {
	if len(b) == 0 {
		return nil, syntaxError(0, "empty integer")
	}
	if len(b) > 1 && ((b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xff && b[1]&0x80 == 0x80)) {
		return nil, syntaxError(0, "integer not minimally-encoded")
	}
	return Integer(b), nil
}

//endregion

//region [UNIVERSAL 3] BIT STRING

// DecodeBitString decodes the content of a BIT STRING. The first octet holds
// the number of unused bits in the last octet, which must be zero.
func DecodeBitString(b []byte) (Content, error) {
	if len(b) == 0 {
		return nil, syntaxError(0, "zero length BIT STRING")
	}
	unused := b[0]
	if unused > 7 {
		return nil, syntaxError(0, "invalid number of unused bits")
	}
	if len(b) == 1 && unused != 0 {
		return nil, syntaxError(0, "unused bits in empty BIT STRING")
	}
	if b[len(b)-1]&(1<<unused-1) != 0 {
		return nil, syntaxError(len(b)-1, "non-zero padding bits")
	}
	return BitString{x509der.BitString{Bytes: b[1:], BitLength: (len(b)-1)*8 - int(unused)}}, nil
}

//endregion

//region [UNIVERSAL 4] OCTET STRING

// DecodeOctetString decodes the content of an OCTET STRING. Any content is
// valid.
func DecodeOctetString(b []byte) (Content, error) {
	return OctetString(b), nil
}

//endregion

//region [UNIVERSAL 5] NULL

// DecodeNull decodes the content of a NULL, which must be empty.
func DecodeNull(b []byte) (Content, error) {
	if len(b) != 0 {
		return nil, syntaxError(0, "NULL with non-empty content")
	}
	return Null{}, nil
}

//endregion

//region [UNIVERSAL 6] OBJECT IDENTIFIER

// DecodeOID decodes the content of an OBJECT IDENTIFIER. The first
// subidentifier encodes the first two arcs as 40*X+Y. Every subidentifier must
// be minimally encoded and fit into a uint.
func DecodeOID(b []byte) (Content, error) {
	if len(b) == 0 {
		return nil, syntaxError(0, "zero length OBJECT IDENTIFIER")
	}
	// In the worst case, we get two elements from the first byte (which is
	// encoded differently) and then every varint is a single byte long.
	oid := make(OID, 0, len(b)+1)
	for i := 0; i < len(b); {
		v, n, err := vlq.Parse[uint](b[i:])
		switch {
		case errors.Is(err, vlq.ErrTruncated):
			return nil, syntaxError(i, "truncated subidentifier")
		case errors.Is(err, vlq.ErrNotMinimal):
			return nil, syntaxError(i, "subidentifier not minimally-encoded")
		case err != nil:
			return nil, syntaxError(i, "subidentifier too large")
		}
		if i == 0 {
			if v < 80 {
				oid = append(oid, v/40, v%40)
			} else {
				oid = append(oid, 2, v-80)
			}
		} else {
			oid = append(oid, v)
		}
		i += n
	}
	return oid, nil
}

//endregion

//region Character Strings

// DecodeUTF8String decodes the content of a UTF8String, which must be valid
// UTF-8.
func DecodeUTF8String(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagUTF8String, b) {
		return nil, syntaxError(0, "invalid UTF-8")
	}
	return CharString{x509der.TagUTF8String, b}, nil
}

// DecodeNumericString decodes the content of a NumericString.
func DecodeNumericString(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagNumericString, b) {
		return nil, syntaxError(0, "NumericString contains invalid character")
	}
	return CharString{x509der.TagNumericString, b}, nil
}

// DecodePrintableString decodes the content of a PrintableString. Characters
// outside of the PrintableString alphabet are rejected.
func DecodePrintableString(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagPrintableString, b) {
		return nil, syntaxError(0, "PrintableString contains invalid character")
	}
	return CharString{x509der.TagPrintableString, b}, nil
}

// DecodeT61String decodes the content of a T61String (TeletexString). The
// content is not validated.
func DecodeT61String(b []byte) (Content, error) {
	return CharString{x509der.TagT61String, b}, nil
}

// DecodeIA5String decodes the content of an IA5String, which must be 7-bit
// ASCII.
func DecodeIA5String(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagIA5String, b) {
		return nil, syntaxError(0, "IA5String contains non-ASCII character")
	}
	return CharString{x509der.TagIA5String, b}, nil
}

// DecodeVisibleString decodes the content of a VisibleString.
func DecodeVisibleString(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagVisibleString, b) {
		return nil, syntaxError(0, "VisibleString contains invalid character")
	}
	return CharString{x509der.TagVisibleString, b}, nil
}

// DecodeBMPString decodes the content of a BMPString: big endian UTF-16 code
// units without surrogates.
func DecodeBMPString(b []byte) (Content, error) {
	if !x509der.ValidString(x509der.TagBMPString, b) {
		return nil, syntaxError(0, "invalid BMPString")
	}
	return CharString{x509der.TagBMPString, b}, nil
}

//endregion

//region [UNIVERSAL 23] UTCTime, [UNIVERSAL 24] GeneralizedTime

// DecodeUTCTime decodes the content of a UTCTime in the form YYMMDDhhmmss
// followed by Z or a ±hhmm offset. Years below 50 are mapped to 20YY, all
// others to 19YY.
func DecodeUTCTime(b []byte) (Content, error) {
	t, ok := parseTime(b, 2)
	if !ok {
		return nil, syntaxError(0, "invalid UTCTime")
	}
	if t.Year < 50 {
		t.Year += 2000
	} else {
		t.Year += 1900
	}
	if !t.valid() {
		return nil, syntaxError(0, "UTCTime out of range")
	}
	t.Type = x509der.TagUTCTime
	return t, nil
}

// DecodeGeneralizedTime decodes the content of a GeneralizedTime in the form
// YYYYMMDDhhmmss with an optional fraction of a second, followed by Z or a
// ±hhmm offset. A fraction must not end in zero. Digits beyond nanosecond
// precision are discarded.
func DecodeGeneralizedTime(b []byte) (Content, error) {
	t, ok := parseTime(b, 4)
	if !ok {
		return nil, syntaxError(0, "invalid GeneralizedTime")
	}
	if !t.valid() {
		return nil, syntaxError(0, "GeneralizedTime out of range")
	}
	t.Type = x509der.TagGeneralizedTime
	return t, nil
}

// parseTime parses the common format of UTCTime and GeneralizedTime. The year
// has yearDigits digits. Fractions of a second are only accepted for four-digit
// years. The calendar fields are not range checked.
func parseTime(s []byte, yearDigits int) (t Time, ok bool) {
	if len(s) < yearDigits+10+1 {
		return t, false
	}
	t.Year = atoiN(s, yearDigits)
	s = s[yearDigits:]
	t.Month = time.Month(atoiN(s, 2))
	t.Day = atoiN(s[2:], 2)
	t.Hour = atoiN(s[4:], 2)
	t.Minute = atoiN(s[6:], 2)
	t.Second = atoiN(s[8:], 2)
	if t.Year < 0 || t.Month < 0 || t.Day < 0 || t.Hour < 0 || t.Minute < 0 || t.Second < 0 {
		return t, false
	}
	s = s[10:]

	if yearDigits == 4 && s[0] == '.' {
		i := 1
		for i < len(s) && '0' <= s[i] && s[i] <= '9' {
			i++
		}
		frac := s[1:i]
		if len(frac) == 0 || frac[len(frac)-1] == '0' {
			return t, false
		}
		if len(frac) > 9 {
			frac = frac[:9]
		}
		t.Nanosecond = atoiN(frac, len(frac))
		for range 9 - len(frac) {
			t.Nanosecond *= 10
		}
		s = s[i:]
	}

	t.Offset, ok = parseZone(s)
	return t, ok
}

// parseZone parses the trailing Z or ±hhmm of a time value into an offset in
// seconds east of UTC.
func parseZone(s []byte) (int, bool) {
	if len(s) == 1 && s[0] == 'Z' {
		return 0, true
	}
	if len(s) != 5 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}
	hh := atoiN(s[1:], 2)
	mm := atoiN(s[3:], 2)
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	// '+' is 43 and '-' is 45 in ASCII, so 44 - s[0] yields 1 or -1.
	mul := 44 - int(s[0])
	return mul * (hh*3600 + mm*60), true
}

// valid reports whether the calendar fields of t denote an existing instant.
func (t Time) valid() bool {
	if t.Month < 1 || t.Month > 12 || t.Day < 1 || t.Hour > 23 || t.Minute > 59 || t.Second > 59 {
		return false
	}
	return t.Day <= daysIn(t.Month, t.Year)
}

// daysIn returns the number of days in month m of year.
func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// atoiN parses the first n bytes of s as a non-negative decimal number. If any
// of the bytes is not a digit, -1 is returned.
func atoiN(s []byte, n int) int {
	ret := 0
	for _, c := range s[:n] {
		if c < '0' || c > '9' {
			return -1
		}
		ret = ret*10 + int(c-'0')
	}
	return ret
}

//endregion
