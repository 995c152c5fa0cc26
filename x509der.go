// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package x509der implements the ASN.1 vocabulary shared by the DER decoding
// packages of this module. It defines tags and their classes, the universal tag
// numbers, the value types [BitString] and [ObjectIdentifier], the character
// string alphabets and the error taxonomy reported by all decoders.
//
// Decoding is split across subpackages:
//
//   - Package tlv splits a buffer into tag, length and content octets as
//     defined by the Distinguished Encoding Rules of [Rec. ITU-T X.690].
//   - Package der validates the content octets of primitive types and offers
//     parser combinators that assemble a tree of decoded objects.
//   - Package x509 describes the Certificate structure of [RFC 5280] using the
//     combinators of package der.
//
// All decoders borrow from the input buffer. Decoded objects reference the
// bytes they were decoded from and remain valid as long as the input buffer is
// not modified.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [RFC 5280]: https://www.rfc-editor.org/rfc/rfc5280
package x509der

import (
	"strconv"
	"strings"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// UniversalTag returns the [ClassUniversal] tag with the given number.
func UniversalTag(n uint) Tag {
	return Tag{ClassUniversal, n}
}

// ContextTag returns the [ClassContextSpecific] tag with the given number.
func ContextTag(n uint) Tag {
	return Tag{ClassContextSpecific, n}
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace for
// the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// String returns a string representation t in a format similar to the one used
// in ASN.1 notation. The tag number is enclosed by square brackets and prefixed
// with the class used. To avoid ambiguity the UNIVERSAL word is used for
// universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// Name returns the ASN.1 type name of a universal tag, such as "INTEGER" or
// "SEQUENCE". For all other tags Name returns t.String().
func (t Tag) Name() string {
	if t.Class == ClassUniversal && t.Number < uint(len(universalNames)) && universalNames[t.Number] != "" {
		return universalNames[t.Number]
	}
	return t.String()
}

// TagReserved is a reserved tag number in the [ClassUniversal] namespace to be
// used by encoding rules. This assignment is defined in Rec. ITU-T X.680,
// Section 8, Table 1.
const TagReserved = 0

// These are some ASN.1 tag numbers are defined in the [ClassUniversal]
// namespace. These assignments are defined in Rec. ITU-T X.680, Section 8, Table
// 1.
const (
	TagBoolean          uint = 1
	TagInteger          uint = 2
	TagBitString        uint = 3
	TagOctetString      uint = 4
	TagNull             uint = 5
	TagOID              uint = 6
	TagObjectDescriptor uint = 7
	TagExternal         uint = 8
	TagReal             uint = 9
	TagEnumerated       uint = 10
	TagEmbeddedPDV      uint = 11
	TagUTF8String       uint = 12
	TagRelativeOID      uint = 13
	TagTime             uint = 14
	TagSequence         uint = 16
	TagSet              uint = 17
	TagNumericString    uint = 18
	TagPrintableString  uint = 19
	TagTeletexString    uint = 20
	TagT61String             = TagTeletexString
	TagVideotexString   uint = 21
	TagIA5String        uint = 22
	TagUTCTime          uint = 23
	TagGeneralizedTime  uint = 24
	TagGraphicString    uint = 25
	TagVisibleString    uint = 26
	TagISO646String          = TagVisibleString
	TagGeneralString    uint = 27
	TagUniversalString  uint = 28
	TagCharacterString  uint = 29
	TagBMPString        uint = 30
)

var universalNames = [...]string{
	TagReserved:         "END OF CONTENTS",
	TagBoolean:          "BOOLEAN",
	TagInteger:          "INTEGER",
	TagBitString:        "BIT STRING",
	TagOctetString:      "OCTET STRING",
	TagNull:             "NULL",
	TagOID:              "OBJECT IDENTIFIER",
	TagObjectDescriptor: "ObjectDescriptor",
	TagExternal:         "EXTERNAL",
	TagReal:             "REAL",
	TagEnumerated:       "ENUMERATED",
	TagEmbeddedPDV:      "EMBEDDED PDV",
	TagUTF8String:       "UTF8String",
	TagRelativeOID:      "RELATIVE-OID",
	TagTime:             "TIME",
	TagSequence:         "SEQUENCE",
	TagSet:              "SET",
	TagNumericString:    "NumericString",
	TagPrintableString:  "PrintableString",
	TagTeletexString:    "T61String",
	TagVideotexString:   "VideotexString",
	TagIA5String:        "IA5String",
	TagUTCTime:          "UTCTime",
	TagGeneralizedTime:  "GeneralizedTime",
	TagGraphicString:    "GraphicString",
	TagVisibleString:    "VisibleString",
	TagGeneralString:    "GeneralString",
	TagUniversalString:  "UniversalString",
	TagCharacterString:  "CHARACTER STRING",
	TagBMPString:        "BMPString",
}
