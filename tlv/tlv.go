// Package tlv implements decoding of the tag-length-value (TLV) format used by
// the Distinguished Encoding Rules (DER) as specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// This package deals with the syntactic layer of DER: it splits a buffer into
// the identifier octets, the length octets and the content octets of a single
// data value. The semantic layer (validating content octets and assembling
// structures) is implemented by package [codello.dev/x509der/der].
//
// # Headers and Values
//
// In DER each value is encoded using a tag-length-value format. The tag and
// length (we call them a header) are represented by the [Header] type. All
// lengths use the definite form. The encodings that BER permits in addition to
// DER, such as the indefinite length or non-minimal length and tag encodings,
// are rejected by [Parse].
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package tlv

import (
	"strconv"

	"codello.dev/x509der"
)

// Header represents a DER header: the tag of a data value, whether it uses the
// constructed encoding, and the number of content octets.
type Header struct {
	Tag         x509der.Tag
	Constructed bool
	Length      int
}

// String returns a string representation of h.
func (h Header) String() string {
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	s += ":" + strconv.Itoa(h.Length)
	return s
}
