// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements decoding of the ASN.1 Distinguished Encoding Rules
// (DER) as defined in [Rec. ITU-T X.690] into a tree of [Object] values.
//
// Decoding is driven by a grammar built from [Parser] values. A Parser consumes
// one data value from a [Cursor] and returns the decoded [Object] together with
// a Cursor positioned after the value. Cursors are immutable values: a parser
// that fails leaves the caller's cursor untouched, so trying an alternative
// only requires reusing the old cursor.
//
// The package offers parsers for the primitive universal types (such as
// [ParseInteger] or [ParseOID]), combinators that build parsers for structured
// types ([Sequence], [SequenceOf], [SetOf], [Optional], [Choice], [Explicit],
// [Implicit]) and the schema-less [ParseAny] that decodes any DER data value.
//
// Decoded objects borrow from the input. The content octets of strings, integers
// and unknown values reference the input buffer which must not be modified
// while the objects are in use. Only object identifier arcs, calendar fields
// and the tree itself are allocated.
//
// All errors returned by the parsers of this package are of type
// [*x509der.Error] and carry the absolute offset within the input at which
// decoding failed. Decoding stops at the first failure.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package der

import (
	"errors"
	"strconv"

	"codello.dev/x509der"
	"codello.dev/x509der/tlv"
)

// DefaultMaxDepth is the default limit for nested constructed values.
const DefaultMaxDepth = 50

// A Cursor is a read position within a bounded region of an input buffer. The
// region is the whole input at the top level and the content octets of a
// constructed value within it. Cursor values are immutable. Parsers return new
// cursors instead of modifying the one they are given.
type Cursor struct {
	buf      []byte
	off, end int
	depth    int
	maxDepth int
}

// An Option configures a [Cursor] created by [NewCursor].
type Option func(*Cursor)

// WithMaxDepth sets the maximum number of nested constructed values. Values
// less than 1 select [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(c *Cursor) {
		if n < 1 {
			n = DefaultMaxDepth
		}
		c.maxDepth = n
	}
}

// NewCursor returns a Cursor at the start of b covering all of b.
func NewCursor(b []byte, opts ...Option) Cursor {
	c := Cursor{buf: b, end: len(b), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Offset returns the absolute position of c within the input.
func (c Cursor) Offset() int { return c.off }

// Len returns the number of unread bytes in the region of c.
func (c Cursor) Len() int { return c.end - c.off }

// Empty reports whether the region of c has been consumed entirely.
func (c Cursor) Empty() bool { return c.off >= c.end }

// Bytes returns the unread bytes in the region of c. The result shares memory
// with the input.
func (c Cursor) Bytes() []byte { return c.buf[c.off:c.end:c.end] }

// Depth returns the number of constructed values enclosing the region of c.
func (c Cursor) Depth() int { return c.depth }

// MaxDepth returns the nesting limit of c.
func (c Cursor) MaxDepth() int { return c.maxDepth }

// Parse decodes b using p and returns the decoded object together with the
// bytes following it.
func Parse(b []byte, p Parser, opts ...Option) (Object, []byte, error) {
	obj, next, err := p(NewCursor(b, opts...))
	if err != nil {
		return Object{}, nil, err
	}
	return obj, next.Bytes(), nil
}

// Decode decodes the first DER data value of b without a schema. It is
// equivalent to Parse(b, ParseAny, opts...).
func Decode(b []byte, opts ...Option) (Object, []byte, error) {
	return Parse(b, ParseAny, opts...)
}

// next decodes the TLV at the start of c. It returns its header, a cursor over
// its content octets and a cursor positioned after the TLV.
func (c Cursor) next() (h tlv.Header, content, after Cursor, err error) {
	h, body, rest, err := tlv.Parse(c.Bytes())
	if err != nil {
		return h, c, c, rebase(err, c.off, x509der.Tag{})
	}
	content, after = c, c
	after.off = c.end - len(rest)
	content.off = after.off - len(body)
	content.end = after.off
	return h, content, after, nil
}

// enter descends into the content of a constructed value starting at off.
func (c Cursor) enter(off int, tag x509der.Tag) (Cursor, error) {
	if c.depth >= c.maxDepth {
		return c, &x509der.Error{
			Kind:   x509der.DepthExceeded,
			Offset: off,
			Tag:    tag,
			Err:    errors.New("more than " + strconv.Itoa(c.maxDepth) + " nested constructed values"),
		}
	}
	c.depth++
	return c, nil
}

// object assembles the Object for the TLV starting at c.
func (c Cursor) object(h tlv.Header, content, after Cursor, v Content) Object {
	return Object{
		Tag:         h.Tag,
		Constructed: h.Constructed,
		Length:      h.Length,
		Offset:      c.off,
		HeaderLen:   content.off - c.off,
		Content:     v,
		raw:         c.buf[c.off:after.off:after.off],
	}
}

// rebase returns err with its offset moved by off. If err does not carry a tag,
// tag is recorded. Errors that are not of type [*x509der.Error] are wrapped as
// [x509der.InvalidEncoding].
func rebase(err error, off int, tag x509der.Tag) error {
	var e *x509der.Error
	if !errors.As(err, &e) {
		return &x509der.Error{Kind: x509der.InvalidEncoding, Offset: off, Tag: tag, Err: err}
	}
	ret := *e
	ret.Offset += off
	if ret.Tag == (x509der.Tag{}) {
		ret.Tag = tag
	}
	return &ret
}

// errorOffset returns the offset of the first [*x509der.Error] in err.
func errorOffset(err error) int {
	var e *x509der.Error
	if errors.As(err, &e) {
		return e.Offset
	}
	return -1
}
