// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"encoding/hex"
	"strings"

	"codello.dev/x509der"
	"codello.dev/x509der/der"
)

// An Attribute is a single AttributeTypeAndValue of a distinguished name. Value
// is the DirectoryString object holding a [der.CharString].
type Attribute struct {
	Type  der.OID
	Value der.Object
}

// Text returns the value of a as UTF-8 text.
func (a Attribute) Text() string {
	if s, ok := a.Value.Content.(der.CharString); ok {
		return s.String()
	}
	return ""
}

// A RelativeDistinguishedName is a set of attributes. The attributes are kept
// in encoding order.
type RelativeDistinguishedName []Attribute

// A Name is a distinguished name: a sequence of relative distinguished names
// from the most significant (usually the country) to the least significant
// (usually the common name).
type Name []RelativeDistinguishedName

// Attributes returns the attributes of all RDNs of n in encoding order.
func (n Name) Attributes() []Attribute {
	var attrs []Attribute
	for _, rdn := range n {
		attrs = append(attrs, rdn...)
	}
	return attrs
}

// Get returns the text of the first attribute of n with the given type.
func (n Name) Get(typ x509der.ObjectIdentifier) (string, bool) {
	for _, rdn := range n {
		for _, a := range rdn {
			if a.Type.Equal(typ) {
				return a.Text(), true
			}
		}
	}
	return "", false
}

// String returns the string representation of n as defined in Section 2 of
// RFC 4514: RDNs in reverse order separated by commas, multi-valued RDNs
// joined by plus signs. Attribute types without a registered short name are
// written in dotted notation with the hex encoded DER value.
func (n Name) String() string {
	var b strings.Builder
	for i := len(n) - 1; i >= 0; i-- {
		if i < len(n)-1 {
			b.WriteByte(',')
		}
		for j, a := range n[i] {
			if j > 0 {
				b.WriteByte('+')
			}
			oid := a.Type.String()
			short, ok := shortNames[oid]
			if !ok {
				b.WriteString(oid)
				b.WriteString("=#")
				b.WriteString(hex.EncodeToString(a.Value.Raw()))
				continue
			}
			b.WriteString(short)
			b.WriteByte('=')
			escapeValue(&b, a.Text())
		}
	}
	return b.String()
}

// escapeValue writes s to b, escaping the characters that are special in
// RFC 4514 attribute values.
func escapeValue(b *strings.Builder, s string) {
	for i, r := range s {
		switch {
		case r == ',' || r == '+' || r == '"' || r == '\\' || r == '<' || r == '>' || r == ';':
			b.WriteByte('\\')
		case i == 0 && (r == ' ' || r == '#'):
			b.WriteByte('\\')
		case i == len(s)-1 && r == ' ':
			b.WriteByte('\\')
		case r == 0:
			b.WriteString(`\00`)
			continue
		}
		b.WriteRune(r)
	}
}

// newName converts a decoded Name object.
func newName(o der.Object) (Name, error) {
	rdns, err := der.As[der.Children](o)
	if err != nil {
		return nil, err
	}
	n := make(Name, 0, len(rdns))
	for _, rdnObj := range rdns {
		atvs, err := der.As[der.Children](rdnObj)
		if err != nil {
			return nil, err
		}
		rdn := make(RelativeDistinguishedName, 0, len(atvs))
		for _, atv := range atvs {
			fields, err := fieldsOf(atv, 2)
			if err != nil {
				return nil, err
			}
			typ, err := der.As[der.OID](fields[0])
			if err != nil {
				return nil, err
			}
			rdn = append(rdn, Attribute{Type: typ, Value: fields[1]})
		}
		n = append(n, rdn)
	}
	return n, nil
}
