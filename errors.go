// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509der

import (
	"errors"
	"strconv"
	"strings"
)

// Kind classifies a decoding failure. Kind implements the error interface so
// that the kind of an [*Error] can be tested with [errors.Is]:
//
//	if errors.Is(err, x509der.TruncatedInput) {
//		// more data needed
//	}
//
//go:generate stringer -type=Kind
type Kind uint8

// These are the kinds of errors reported by the decoders of this module.
const (
	// TruncatedInput indicates that the input ended before a tag, a length or
	// the announced content octets were complete.
	TruncatedInput Kind = iota + 1
	// InvalidLength indicates a length encoding that is not allowed in DER:
	// indefinite lengths, the reserved length octet 0xFF, non-minimal long
	// forms and lengths that overflow an int.
	InvalidLength
	// UnexpectedTag indicates that the tag of an element does not match the
	// tag required by the grammar.
	UnexpectedTag
	// InvalidEncoding indicates content octets that violate the DER rules of
	// their type.
	InvalidEncoding
	// TrailingData indicates bytes left in a region after all of its elements
	// have been decoded.
	TrailingData
	// SequenceArity indicates a constructed value with an unexpected number of
	// elements.
	SequenceArity
	// DepthExceeded indicates that constructed values are nested deeper than
	// permitted.
	DepthExceeded
)

var kindMessages = [...]string{
	TruncatedInput:  "truncated input",
	InvalidLength:   "invalid length",
	UnexpectedTag:   "unexpected tag",
	InvalidEncoding: "invalid encoding",
	TrailingData:    "trailing data",
	SequenceArity:   "unexpected number of elements",
	DepthExceeded:   "maximum depth exceeded",
}

// Error returns a short description of k.
func (k Kind) Error() string {
	if int(k) < len(kindMessages) && kindMessages[k] != "" {
		return kindMessages[k]
	}
	return "unknown error " + strconv.Itoa(int(k))
}

// Error is the error type returned by all decoders of this module. An Error
// records what went wrong and where.
type Error struct {
	Kind   Kind  // classification of the failure
	Offset int   // offset of the failure within the input
	Tag    Tag   // tag of the element being decoded, if known
	Err    error // optional underlying cause
}

// Error returns a description of e in the form
//
//	der: <kind> decoding <tag> at offset <n>: <cause>
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("der: ")
	b.WriteString(e.Kind.Error())
	if e.Tag != (Tag{}) {
		b.WriteString(" decoding ")
		b.WriteString(e.Tag.String())
	}
	b.WriteString(" at offset ")
	b.WriteString(strconv.Itoa(e.Offset))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the kind of e and its cause, if any.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf returns the [Kind] of the first [*Error] in the tree of err. If err
// does not contain an [*Error], KindOf returns 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
