// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"encoding/hex"
	"io"
	"strconv"

	"github.com/valyala/bytebufferpool"

	"codello.dev/x509der"
)

// maxDumpBytes limits the number of content bytes shown for strings and raw
// values.
const maxDumpBytes = 32

var bufPool bytebufferpool.Pool

// A Printer renders an [Object] tree as indented text, one line per object.
// Absent optional elements are omitted.
type Printer struct {
	Indent int // initial indentation in spaces
	Step   int // additional indentation per nesting level

	// OIDName optionally returns a descriptive name for an object identifier.
	// An empty result means no name is known.
	OIDName func(oid x509der.ObjectIdentifier) string
}

// Render writes the rendering of o to w.
func (p Printer) Render(w io.Writer, o Object) error {
	buf := bufPool.Get()
	defer bufPool.Put(buf)
	p.render(buf, o, p.Indent)
	_, err := buf.WriteTo(w)
	return err
}

// Sprint returns the rendering of o.
func (p Printer) Sprint(o Object) string {
	buf := bufPool.Get()
	defer bufPool.Put(buf)
	p.render(buf, o, p.Indent)
	return buf.String()
}

func (p Printer) render(buf *bytebufferpool.ByteBuffer, o Object, indent int) {
	if !o.Present() {
		return
	}
	for range indent {
		buf.B = append(buf.B, ' ')
	}
	buf.B = append(buf.B, o.Tag.Name()...)
	if s := p.Summary(o); s != "" {
		buf.B = append(buf.B, ' ')
		buf.B = append(buf.B, s...)
	}
	buf.B = append(buf.B, '\n')
	for _, child := range o.Children() {
		p.render(buf, child, indent+p.Step)
	}
}

// Summary returns a one-line description of the content of o.
func (p Printer) Summary(o Object) string {
	switch v := o.Content.(type) {
	case Children:
		n := 0
		for _, child := range v {
			if child.Present() {
				n++
			}
		}
		return "(" + strconv.Itoa(n) + " elem)"
	case Integer:
		if len(v) > 8 {
			return "(" + strconv.Itoa(len(v)*8) + " bit) 0x" + hex.EncodeToString(v)
		}
		return v.String()
	case Boolean:
		return strconv.FormatBool(bool(v))
	case BitString:
		return "(" + strconv.Itoa(v.BitLength) + " bit) " + dumpBytes(v.Bytes)
	case OctetString:
		return "(" + strconv.Itoa(len(v)) + " byte) " + dumpBytes(v)
	case OID:
		s := v.String()
		if p.OIDName != nil {
			if name := p.OIDName(x509der.ObjectIdentifier(v)); name != "" {
				s += " (" + name + ")"
			}
		}
		return s
	case CharString:
		if text, err := v.Text(); err == nil {
			return strconv.Quote(text)
		}
		return dumpBytes(v.Bytes)
	case Time:
		return v.String()
	case Raw:
		return "(" + strconv.Itoa(len(v)) + " byte) " + dumpBytes(v)
	}
	return ""
}

// dumpBytes returns the hex encoding of b, shortened to maxDumpBytes bytes.
func dumpBytes(b []byte) string {
	if len(b) > maxDumpBytes {
		return hex.EncodeToString(b[:maxDumpBytes]) + "..."
	}
	return hex.EncodeToString(b)
}

// Pretty returns an indented rendering of the tree rooted at o. The first line
// is indented by indent spaces and every nesting level by step more.
func (o Object) Pretty(indent, step int) string {
	return Printer{Indent: indent, Step: step}.Sprint(o)
}

// Render writes the rendering of [Object.Pretty] to w.
func (o Object) Render(w io.Writer, indent, step int) error {
	return Printer{Indent: indent, Step: step}.Render(w, o)
}
