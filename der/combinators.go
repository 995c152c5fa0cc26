// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"

	"codello.dev/x509der"
)

// A Parser decodes one data value at the start of the region of c. On success
// it returns the decoded object and a cursor positioned after the value. On
// failure the returned cursor is c.
type Parser func(c Cursor) (Object, Cursor, error)

var (
	errConstructed = errors.New("constructed encoding of primitive type")
	errPrimitive   = errors.New("primitive encoding of constructed type")
)

//region Primitive Parsers

// Primitive returns a Parser for the universal primitive type with the given
// tag number. The content octets are decoded by dec.
func Primitive(number uint, dec ContentDecoder) Parser {
	tag := x509der.UniversalTag(number)
	return func(c Cursor) (Object, Cursor, error) {
		return c.primitive(tag, dec)
	}
}

// Implicit returns a Parser for a primitive value with the context-specific tag
// [number] that replaces the tag of the underlying type. The content octets are
// decoded by dec.
func Implicit(number uint, dec ContentDecoder) Parser {
	tag := x509der.ContextTag(number)
	return func(c Cursor) (Object, Cursor, error) {
		return c.primitive(tag, dec)
	}
}

// These parsers decode the primitive universal types.
var (
	ParseBoolean         = Primitive(x509der.TagBoolean, DecodeBoolean)
	ParseInteger         = Primitive(x509der.TagInteger, DecodeInteger)
	ParseEnumerated      = Primitive(x509der.TagEnumerated, DecodeInteger)
	ParseBitString       = Primitive(x509der.TagBitString, DecodeBitString)
	ParseOctetString     = Primitive(x509der.TagOctetString, DecodeOctetString)
	ParseNull            = Primitive(x509der.TagNull, DecodeNull)
	ParseOID             = Primitive(x509der.TagOID, DecodeOID)
	ParseUTF8String      = Primitive(x509der.TagUTF8String, DecodeUTF8String)
	ParseNumericString   = Primitive(x509der.TagNumericString, DecodeNumericString)
	ParsePrintableString = Primitive(x509der.TagPrintableString, DecodePrintableString)
	ParseT61String       = Primitive(x509der.TagT61String, DecodeT61String)
	ParseIA5String       = Primitive(x509der.TagIA5String, DecodeIA5String)
	ParseVisibleString   = Primitive(x509der.TagVisibleString, DecodeVisibleString)
	ParseBMPString       = Primitive(x509der.TagBMPString, DecodeBMPString)
	ParseUTCTime         = Primitive(x509der.TagUTCTime, DecodeUTCTime)
	ParseGeneralizedTime = Primitive(x509der.TagGeneralizedTime, DecodeGeneralizedTime)
)

// primitive decodes a primitive value with the given tag at the start of c.
func (c Cursor) primitive(tag x509der.Tag, dec ContentDecoder) (Object, Cursor, error) {
	h, content, after, err := c.next()
	if err != nil {
		return Object{}, c, err
	}
	if h.Tag != tag {
		return Object{}, c, c.unexpected(h.Tag, tag)
	}
	if h.Constructed {
		return Object{}, c, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: c.off, Tag: h.Tag, Err: errConstructed}
	}
	v, err := dec(content.Bytes())
	if err != nil {
		return Object{}, c, rebase(err, content.off, h.Tag)
	}
	return c.object(h, content, after, v), after, nil
}

// unexpected returns an [x509der.UnexpectedTag] error for a value starting at c.
func (c Cursor) unexpected(got, want x509der.Tag) error {
	return &x509der.Error{Kind: x509der.UnexpectedTag, Offset: c.off, Tag: got, Err: errors.New("expected " + want.String())}
}

//endregion

//region Constructed Parsers

// Sequence returns a Parser for a SEQUENCE whose elements are decoded by fields
// in order. Bytes left in the SEQUENCE after the last field result in an
// [x509der.TrailingData] error.
func Sequence(fields ...Parser) Parser {
	tag := x509der.UniversalTag(x509der.TagSequence)
	return func(c Cursor) (Object, Cursor, error) {
		return c.constructed(tag, func(inner Cursor) (Content, Cursor, error) {
			children := make(Children, 0, len(fields))
			for _, field := range fields {
				o, next, err := field(inner)
				if err != nil {
					return nil, inner, err
				}
				children = append(children, o)
				inner = next
			}
			return children, inner, nil
		})
	}
}

// SequenceOf returns a Parser for a SEQUENCE OF elements decoded by elem. The
// elements are decoded until the SEQUENCE is exhausted.
func SequenceOf(elem Parser) Parser {
	return repeated(x509der.UniversalTag(x509der.TagSequence), elem)
}

// SetOf returns a Parser for a SET OF elements decoded by elem. The elements
// are kept in encoding order. Their DER sort order is not checked.
func SetOf(elem Parser) Parser {
	return repeated(x509der.UniversalTag(x509der.TagSet), elem)
}

// repeated implements [SequenceOf] and [SetOf]. An element that does not start
// with a matching tag ends the repetition and is reported as trailing data.
func repeated(tag x509der.Tag, elem Parser) Parser {
	return func(c Cursor) (Object, Cursor, error) {
		return c.constructed(tag, func(inner Cursor) (Content, Cursor, error) {
			var children Children
			for !inner.Empty() {
				o, next, err := elem(inner)
				if err != nil {
					if k := x509der.KindOf(err); (k == x509der.UnexpectedTag || k == x509der.TruncatedInput) && errorOffset(err) == inner.off {
						return nil, inner, &x509der.Error{Kind: x509der.TrailingData, Offset: inner.off, Tag: tag, Err: err}
					}
					return nil, inner, err
				}
				if next.off == inner.off {
					// no progress, leave the remainder to the trailing data check
					break
				}
				children = append(children, o)
				inner = next
			}
			return children, inner, nil
		})
	}
}

// Explicit returns a Parser for a constructed value with the context-specific
// tag [number] whose content is exactly one data value decoded by inner.
func Explicit(number uint, inner Parser) Parser {
	tag := x509der.ContextTag(number)
	return func(c Cursor) (Object, Cursor, error) {
		return c.constructed(tag, func(content Cursor) (Content, Cursor, error) {
			o, next, err := inner(content)
			if err != nil {
				return nil, content, err
			}
			return Wrapped{o}, next, nil
		})
	}
}

// constructed decodes a constructed value with the given tag at the start of c.
// body decodes the content and returns the cursor after the last element it
// consumed. Remaining content is reported as [x509der.TrailingData].
func (c Cursor) constructed(tag x509der.Tag, body func(Cursor) (Content, Cursor, error)) (Object, Cursor, error) {
	h, content, after, err := c.next()
	if err != nil {
		return Object{}, c, err
	}
	if h.Tag != tag {
		return Object{}, c, c.unexpected(h.Tag, tag)
	}
	if !h.Constructed {
		return Object{}, c, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: c.off, Tag: h.Tag, Err: errPrimitive}
	}
	if content, err = content.enter(c.off, h.Tag); err != nil {
		return Object{}, c, err
	}
	v, end, err := body(content)
	if err != nil {
		return Object{}, c, err
	}
	if !end.Empty() {
		return Object{}, c, trailing(end, h.Tag)
	}
	return c.object(h, content, after, v), after, nil
}

// trailing returns an [x509der.TrailingData] error for the unread bytes of c.
func trailing(c Cursor, tag x509der.Tag) error {
	return &x509der.Error{
		Kind:   x509der.TrailingData,
		Offset: c.off,
		Tag:    tag,
		Err:    errors.New(strconv.Itoa(c.Len()) + " unparsed bytes"),
	}
}

//endregion

//region Alternatives

// Optional returns a Parser for an OPTIONAL element. If the region is exhausted
// or p fails with [x509der.UnexpectedTag] at the start of the region, the
// element is absent: the returned object holds [Absent] and the cursor is
// unchanged. All other errors of p are returned as-is.
func Optional(p Parser) Parser {
	return func(c Cursor) (Object, Cursor, error) {
		if c.Empty() {
			return absent(c), c, nil
		}
		o, next, err := p(c)
		if err != nil {
			if mismatch(err, c) {
				return absent(c), c, nil
			}
			return Object{}, c, err
		}
		return o, next, nil
	}
}

// Choice returns a Parser that tries alts in order, each starting at the same
// cursor. The first alternative that succeeds wins. An alternative failing
// with anything other than [x509der.UnexpectedTag] at the start of the region
// fails the choice immediately. If no alternative matches, the error of the
// last alternative is returned.
func Choice(alts ...Parser) Parser {
	return func(c Cursor) (Object, Cursor, error) {
		var err error = &x509der.Error{Kind: x509der.UnexpectedTag, Offset: c.off, Err: errors.New("no alternatives")}
		for _, alt := range alts {
			var (
				o    Object
				next Cursor
			)
			if o, next, err = alt(c); err == nil {
				return o, next, nil
			}
			if !mismatch(err, c) {
				return Object{}, c, err
			}
		}
		return Object{}, c, err
	}
}

// mismatch reports whether err is an [x509der.UnexpectedTag] error for the value
// at the start of c.
func mismatch(err error, c Cursor) bool {
	return x509der.KindOf(err) == x509der.UnexpectedTag && errorOffset(err) == c.off
}

// absent returns the object of an element that is not present at c.
func absent(c Cursor) Object {
	return Object{Offset: c.off, Content: Absent{}}
}

//endregion

//region Any

// universalDecoders holds the content decoders used by [ParseAny] for
// primitive universal types.
var universalDecoders = map[uint]ContentDecoder{
	x509der.TagBoolean:         DecodeBoolean,
	x509der.TagInteger:         DecodeInteger,
	x509der.TagBitString:       DecodeBitString,
	x509der.TagOctetString:     DecodeOctetString,
	x509der.TagNull:            DecodeNull,
	x509der.TagOID:             DecodeOID,
	x509der.TagEnumerated:      DecodeInteger,
	x509der.TagUTF8String:      DecodeUTF8String,
	x509der.TagNumericString:   DecodeNumericString,
	x509der.TagPrintableString: DecodePrintableString,
	x509der.TagT61String:       DecodeT61String,
	x509der.TagIA5String:       DecodeIA5String,
	x509der.TagUTCTime:         DecodeUTCTime,
	x509der.TagGeneralizedTime: DecodeGeneralizedTime,
	x509der.TagVisibleString:   DecodeVisibleString,
	x509der.TagBMPString:       DecodeBMPString,
}

// ParseAny decodes any DER data value. Constructed values are decoded
// recursively into [Children]. Primitive universal values of known types are
// decoded by their content decoder. All other primitive values are kept as
// [Raw].
func ParseAny(c Cursor) (Object, Cursor, error) {
	h, content, after, err := c.next()
	if err != nil {
		return Object{}, c, err
	}
	var dec ContentDecoder
	if h.Tag.Class == x509der.ClassUniversal {
		dec = universalDecoders[h.Tag.Number]
		switch {
		case h.Tag.Number == x509der.TagReserved:
			return Object{}, c, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: c.off, Tag: h.Tag, Err: errors.New("end-of-contents outside indefinite-length encoding")}
		case dec != nil && h.Constructed:
			return Object{}, c, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: c.off, Tag: h.Tag, Err: errConstructed}
		case (h.Tag.Number == x509der.TagSequence || h.Tag.Number == x509der.TagSet) && !h.Constructed:
			return Object{}, c, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: c.off, Tag: h.Tag, Err: errPrimitive}
		}
	}

	if h.Constructed {
		if content, err = content.enter(c.off, h.Tag); err != nil {
			return Object{}, c, err
		}
		var children Children
		for inner := content; !inner.Empty(); {
			o, next, err := ParseAny(inner)
			if err != nil {
				return Object{}, c, err
			}
			children = append(children, o)
			inner = next
		}
		return c.object(h, content, after, children), after, nil
	}

	if dec == nil {
		return c.object(h, content, after, Raw(content.Bytes())), after, nil
	}
	v, err := dec(content.Bytes())
	if err != nil {
		return Object{}, c, rebase(err, content.off, h.Tag)
	}
	return c.object(h, content, after, v), after, nil
}

//endregion
