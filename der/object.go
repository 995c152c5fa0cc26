// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"math/big"
	"strconv"
	"time"

	"codello.dev/x509der"
)

// An Object is a decoded DER data value. Length is the number of content
// octets exactly as encoded and Offset is the absolute position of the
// identifier octet within the input. The decoded value is stored in Content.
//
// For an optional element that is not present, Content is [Absent] and Offset
// is the position where the element would have started.
type Object struct {
	Tag         x509der.Tag
	Constructed bool
	Length      int
	Offset      int
	HeaderLen   int
	Content     Content

	raw []byte
}

// Present reports whether o holds a decoded data value.
func (o Object) Present() bool {
	if o.Content == nil {
		return false
	}
	_, absent := o.Content.(Absent)
	return !absent
}

// End returns the offset of the first byte following o.
func (o Object) End() int {
	return o.Offset + o.HeaderLen + o.Length
}

// Raw returns the complete encoding of o, header included. The result shares
// memory with the input.
func (o Object) Raw() []byte {
	return o.raw
}

// Bytes returns the content octets of o.
func (o Object) Bytes() []byte {
	if o.raw == nil {
		return nil
	}
	return o.raw[o.HeaderLen:]
}

// Children returns the nested objects of a constructed object. For an
// [Explicit] wrapper this is the wrapped object. Children returns nil for all
// other objects.
func (o Object) Children() []Object {
	switch v := o.Content.(type) {
	case Children:
		return v
	case Wrapped:
		return []Object{v.Inner}
	}
	return nil
}

// Walk calls fn for o and all of its descendants in depth-first order. depth is
// 0 for o. If fn returns false, the descendants of that object are skipped.
func (o Object) Walk(fn func(depth int, o Object) bool) {
	o.walk(0, fn)
}

func (o Object) walk(depth int, fn func(int, Object) bool) {
	if !fn(depth, o) {
		return
	}
	for _, child := range o.Children() {
		child.walk(depth+1, fn)
	}
}

// Content is the decoded value of an [Object]. The set of implementations is
// closed: Integer, Boolean, BitString, OctetString, OID, CharString, Time,
// Null, Raw, Children, Wrapped and Absent. Use a type switch or [As] to access
// the value.
type Content interface {
	contentName() string
}

// As returns the content of o as a T. If o holds a different kind of content,
// As returns a [*ContentError]. There is no conversion between kinds.
func As[T Content](o Object) (T, error) {
	if v, ok := o.Content.(T); ok {
		return v, nil
	}
	var zero T
	want := "Content"
	if c, ok := any(zero).(Content); ok {
		want = c.contentName()
	}
	got := "nothing"
	if o.Content != nil {
		got = o.Content.contentName()
	}
	return zero, &ContentError{Tag: o.Tag, Offset: o.Offset, Want: want, Got: got}
}

// A ContentError reports that an [Object] does not hold the requested kind of
// content.
type ContentError struct {
	Tag    x509der.Tag
	Offset int
	Want   string
	Got    string
}

func (e *ContentError) Error() string {
	return "der: " + e.Tag.String() + " at offset " + strconv.Itoa(e.Offset) + " holds " + e.Got + ", not " + e.Want
}

//region Content Types

// Integer is the content of an INTEGER or ENUMERATED value: the minimal big
// endian two's complement encoding, borrowed from the input.
type Integer []byte

var errIntegerTooLarge = errors.New("der: integer too large")

// Int64 returns i as an int64. If i does not fit, an error is returned.
func (i Integer) Int64() (int64, error) {
	if len(i) > 8 {
		return 0, errIntegerTooLarge
	}
	var ret int64
	for _, b := range i {
		ret <<= 8
		ret |= int64(b)
	}
	// Shift up and down in order to sign extend the result.
	ret <<= 64 - uint8(len(i))*8
	ret >>= 64 - uint8(len(i))*8
	return ret, nil
}

var bigOne = big.NewInt(1)

// Big returns i as a [*big.Int].
func (i Integer) Big() *big.Int {
	ret := new(big.Int)
	if len(i) > 0 && i[0]&0x80 == 0x80 {
		// This is a negative number.
		notBytes := make([]byte, len(i))
		for j := range notBytes {
			notBytes[j] = ^i[j]
		}
		ret.SetBytes(notBytes)
		ret.Add(ret, bigOne)
		ret.Neg(ret)
		return ret
	}
	ret.SetBytes(i)
	return ret
}

// String returns the decimal representation of i.
func (i Integer) String() string {
	if v, err := i.Int64(); err == nil {
		return strconv.FormatInt(v, 10)
	}
	return i.Big().String()
}

// Boolean is the content of a BOOLEAN value.
type Boolean bool

// BitString is the content of a BIT STRING value. The bytes are borrowed from
// the input.
type BitString struct {
	x509der.BitString
}

// OctetString is the content of an OCTET STRING value, borrowed from the input.
type OctetString []byte

// OID is the content of an OBJECT IDENTIFIER value.
type OID x509der.ObjectIdentifier

// Equal reports whether o and other represent the same identifier.
func (o OID) Equal(other x509der.ObjectIdentifier) bool {
	return x509der.ObjectIdentifier(o).Equal(other)
}

// String returns the dot-separated notation of o.
func (o OID) String() string {
	return x509der.ObjectIdentifier(o).String()
}

// CharString is the content of a character string value. Type is the universal
// tag number of the string type. Bytes holds the encoded characters, borrowed
// from the input. Use [CharString.Text] to obtain the characters as UTF-8.
type CharString struct {
	Type  uint
	Bytes []byte
}

// Time is the content of a UTCTime or GeneralizedTime value. Type is the
// universal tag number of the time type. Offset is the zone offset in seconds
// east of UTC.
type Time struct {
	Type       uint
	Year       int
	Month      time.Month
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Offset     int
}

// Time returns t as a [time.Time].
func (t Time) Time() time.Time {
	loc := time.UTC
	if t.Offset != 0 {
		loc = time.FixedZone("", t.Offset)
	}
	return time.Date(t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second, t.Nanosecond, loc)
}

// String returns an ISO 8601 representation of t.
func (t Time) String() string {
	return x509der.Time(t.Time()).String()
}

// Null is the content of a NULL value.
type Null struct{}

// Raw holds the content octets of a primitive value whose type is not known
// to the decoder, borrowed from the input.
type Raw []byte

// Children holds the elements of a constructed value in encoding order.
type Children []Object

// Wrapped is the content of an EXPLICIT tagged value: the single inner value.
type Wrapped struct {
	Inner Object
}

// Absent marks an OPTIONAL element that is not present.
type Absent struct{}

func (Integer) contentName() string     { return "INTEGER" }
func (Boolean) contentName() string     { return "BOOLEAN" }
func (BitString) contentName() string   { return "BIT STRING" }
func (OctetString) contentName() string { return "OCTET STRING" }
func (OID) contentName() string         { return "OBJECT IDENTIFIER" }
func (CharString) contentName() string  { return "character string" }
func (Time) contentName() string        { return "time" }
func (Null) contentName() string        { return "NULL" }
func (Raw) contentName() string         { return "raw value" }
func (Children) contentName() string    { return "constructed value" }
func (Wrapped) contentName() string     { return "explicit value" }
func (Absent) contentName() string      { return "absent value" }

//endregion
