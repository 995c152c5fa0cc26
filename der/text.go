// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"codello.dev/x509der"
)

// Text returns the characters of s as a UTF-8 string. BMPString values are
// converted from big endian UTF-16. T61String values are interpreted as
// ISO 8859-1, which covers the Latin subset used in practice. All other string
// types are ASCII or UTF-8 and are returned unchanged.
func (s CharString) Text() (string, error) {
	switch s.Type {
	case x509der.TagBMPString:
		b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(s.Bytes)
		return string(b), err
	case x509der.TagT61String:
		b, err := charmap.ISO8859_1.NewDecoder().Bytes(s.Bytes)
		return string(b), err
	}
	return string(s.Bytes), nil
}

// String returns the text of s. If s cannot be converted, String returns the
// raw bytes.
func (s CharString) String() string {
	text, err := s.Text()
	if err != nil {
		return string(s.Bytes)
	}
	return text
}
