// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package x509 decodes the structure of DER encoded X.509 v3 certificates as
// defined in [RFC 5280].
//
// The package describes the Certificate grammar using the combinators of
// package der and exposes the decoded certificate as three [der.Object] trees.
// Accessors provide structured views of the fields of the TBSCertificate, but
// no field is interpreted beyond its ASN.1 structure: signatures are not
// verified, extensions are not decoded and no validation of names, validity
// periods or key usages is performed.
//
// [RFC 5280]: https://www.rfc-editor.org/rfc/rfc5280
package x509

import (
	"errors"
	"io"
	"strconv"

	"codello.dev/x509der"
	"codello.dev/x509der/der"
)

// A Certificate is a decoded X.509 certificate. The three fields hold the
// components of the Certificate SEQUENCE in their declared order. All objects
// borrow from the input buffer passed to [Parse].
type Certificate struct {
	TBSCertificate     der.Object
	SignatureAlgorithm der.Object
	SignatureValue     der.Object

	root      der.Object
	tbs       tbsFields
	algorithm AlgorithmIdentifier
	signature der.BitString
}

// tbsFields holds the structured views of the TBSCertificate.
type tbsFields struct {
	version         int
	serialNumber    der.Integer
	signature       AlgorithmIdentifier
	issuer          Name
	validity        Validity
	subject         Name
	publicKey       PublicKeyInfo
	issuerUniqueID  *der.BitString
	subjectUniqueID *der.BitString
	extensions      []Extension
}

// An AlgorithmIdentifier identifies an algorithm and its parameters. If the
// parameters are omitted, Parameters holds [der.Absent].
type AlgorithmIdentifier struct {
	Algorithm  der.OID
	Parameters der.Object
}

// Validity is the validity period of a certificate.
type Validity struct {
	NotBefore der.Time
	NotAfter  der.Time
}

// PublicKeyInfo is the SubjectPublicKeyInfo of a certificate. The key itself is
// not decoded.
type PublicKeyInfo struct {
	Algorithm AlgorithmIdentifier
	PublicKey der.BitString
}

// An Extension is a certificate extension. Value holds the content octets of
// the extnValue OCTET STRING, which are not decoded.
type Extension struct {
	ID       der.OID
	Critical bool
	Value    []byte
}

// Parse decodes the DER encoded certificate at the start of b and returns the
// bytes following it. Callers that expect b to hold exactly one certificate
// should use [ParseCertificate] or treat a non-empty rest as an error.
//
// All errors are of type [*x509der.Error]. No partially decoded certificate is
// ever returned.
func Parse(b []byte, opts ...der.Option) (*Certificate, []byte, error) {
	obj, rest, err := der.Parse(b, certificate, opts...)
	if err != nil {
		return nil, nil, err
	}
	cert, err := newCertificate(obj)
	if err != nil {
		return nil, nil, err
	}
	return cert, rest, nil
}

// ParseCertificate decodes a single DER encoded certificate. Unlike [Parse] it
// reports bytes following the certificate as [x509der.TrailingData].
func ParseCertificate(b []byte, opts ...der.Option) (*Certificate, error) {
	cert, rest, err := Parse(b, opts...)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, &x509der.Error{
			Kind:   x509der.TrailingData,
			Offset: len(b) - len(rest),
			Err:    errors.New(strconv.Itoa(len(rest)) + " bytes after certificate"),
		}
	}
	return cert, nil
}

// newCertificate assembles a Certificate from the decoded Certificate
// SEQUENCE.
func newCertificate(obj der.Object) (*Certificate, error) {
	fields, err := fieldsOf(obj, 3)
	if err != nil {
		return nil, err
	}
	cert := &Certificate{
		TBSCertificate:     fields[0],
		SignatureAlgorithm: fields[1],
		SignatureValue:     fields[2],
		root:               obj,
	}
	if cert.tbs, err = newTBSFields(fields[0]); err != nil {
		return nil, err
	}
	if cert.algorithm, err = newAlgorithmIdentifier(fields[1]); err != nil {
		return nil, err
	}
	if cert.signature, err = der.As[der.BitString](fields[2]); err != nil {
		return nil, err
	}
	return cert, nil
}

func newTBSFields(obj der.Object) (tbs tbsFields, err error) {
	fields, err := fieldsOf(obj, tbsFieldCount)
	if err != nil {
		return tbs, err
	}
	if tbs.version, err = newVersion(fields[tbsVersion]); err != nil {
		return tbs, err
	}
	if tbs.serialNumber, err = der.As[der.Integer](fields[tbsSerialNumber]); err != nil {
		return tbs, err
	}
	if tbs.signature, err = newAlgorithmIdentifier(fields[tbsSignature]); err != nil {
		return tbs, err
	}
	if tbs.issuer, err = newName(fields[tbsIssuer]); err != nil {
		return tbs, err
	}
	if tbs.validity, err = newValidity(fields[tbsValidity]); err != nil {
		return tbs, err
	}
	if tbs.subject, err = newName(fields[tbsSubject]); err != nil {
		return tbs, err
	}
	if tbs.publicKey, err = newPublicKeyInfo(fields[tbsSubjectPublicKeyInfo]); err != nil {
		return tbs, err
	}
	if tbs.issuerUniqueID, err = optionalBitString(fields[tbsIssuerUniqueID]); err != nil {
		return tbs, err
	}
	if tbs.subjectUniqueID, err = optionalBitString(fields[tbsSubjectUniqueID]); err != nil {
		return tbs, err
	}
	if v := fields[tbsExtensions]; v.Present() {
		if tbs.extensions, err = newExtensions(v); err != nil {
			return tbs, err
		}
	}
	return tbs, nil
}

// fieldsOf returns the elements of the constructed object o, which must have
// exactly n elements.
func fieldsOf(o der.Object, n int) ([]der.Object, error) {
	children, err := der.As[der.Children](o)
	if err != nil {
		return nil, err
	}
	if len(children) != n {
		return nil, &x509der.Error{
			Kind:   x509der.SequenceArity,
			Offset: o.Offset,
			Tag:    o.Tag,
			Err:    errors.New(strconv.Itoa(len(children)) + " elements, expected " + strconv.Itoa(n)),
		}
	}
	return children, nil
}

// newVersion returns the version number held by the EXPLICIT [0] field o.
// Values that are negative or do not fit an int32 are reported as
// [x509der.InvalidEncoding] so that Version can return a plain int.
func newVersion(o der.Object) (int, error) {
	w, err := der.As[der.Wrapped](o)
	if err != nil {
		return 0, err
	}
	i, err := der.As[der.Integer](w.Inner)
	if err != nil {
		return 0, err
	}
	v, err := i.Int64()
	if err != nil || v < 0 || v > int64(^uint32(0)>>1) {
		return 0, &x509der.Error{Kind: x509der.InvalidEncoding, Offset: w.Inner.Offset, Tag: w.Inner.Tag, Err: errors.New("version out of range")}
	}
	return int(v), nil
}

func newAlgorithmIdentifier(o der.Object) (AlgorithmIdentifier, error) {
	fields, err := fieldsOf(o, 2)
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	oid, err := der.As[der.OID](fields[0])
	if err != nil {
		return AlgorithmIdentifier{}, err
	}
	return AlgorithmIdentifier{Algorithm: oid, Parameters: fields[1]}, nil
}

func newValidity(o der.Object) (Validity, error) {
	fields, err := fieldsOf(o, 2)
	if err != nil {
		return Validity{}, err
	}
	notBefore, err := der.As[der.Time](fields[0])
	if err != nil {
		return Validity{}, err
	}
	notAfter, err := der.As[der.Time](fields[1])
	if err != nil {
		return Validity{}, err
	}
	return Validity{NotBefore: notBefore, NotAfter: notAfter}, nil
}

func newPublicKeyInfo(o der.Object) (PublicKeyInfo, error) {
	fields, err := fieldsOf(o, 2)
	if err != nil {
		return PublicKeyInfo{}, err
	}
	alg, err := newAlgorithmIdentifier(fields[0])
	if err != nil {
		return PublicKeyInfo{}, err
	}
	key, err := der.As[der.BitString](fields[1])
	if err != nil {
		return PublicKeyInfo{}, err
	}
	return PublicKeyInfo{Algorithm: alg, PublicKey: key}, nil
}

func optionalBitString(o der.Object) (*der.BitString, error) {
	if !o.Present() {
		return nil, nil
	}
	bs, err := der.As[der.BitString](o)
	if err != nil {
		return nil, err
	}
	return &bs, nil
}

func newExtensions(o der.Object) ([]Extension, error) {
	w, err := der.As[der.Wrapped](o)
	if err != nil {
		return nil, err
	}
	list, err := der.As[der.Children](w.Inner)
	if err != nil {
		return nil, err
	}
	exts := make([]Extension, 0, len(list))
	for _, item := range list {
		fields, err := fieldsOf(item, 3)
		if err != nil {
			return nil, err
		}
		var ext Extension
		if ext.ID, err = der.As[der.OID](fields[0]); err != nil {
			return nil, err
		}
		if fields[1].Present() {
			critical, err := der.As[der.Boolean](fields[1])
			if err != nil {
				return nil, err
			}
			ext.Critical = bool(critical)
		}
		value, err := der.As[der.OctetString](fields[2])
		if err != nil {
			return nil, err
		}
		ext.Value = value
		exts = append(exts, ext)
	}
	return exts, nil
}

//region Accessors

// Raw returns the complete DER encoding of c. The result shares memory with the
// input buffer.
func (c *Certificate) Raw() []byte {
	return c.root.Raw()
}

// RawTBSCertificate returns the DER encoding of the TBSCertificate, which is
// the input of the signature.
func (c *Certificate) RawTBSCertificate() []byte {
	return c.TBSCertificate.Raw()
}

// Version returns the encoded version number of c: 0 for v1, 1 for v2 and 2
// for v3.
func (c *Certificate) Version() int {
	return c.tbs.version
}

// SerialNumber returns the serial number of c.
func (c *Certificate) SerialNumber() der.Integer {
	return c.tbs.serialNumber
}

// Signature returns the signature algorithm of the TBSCertificate.
func (c *Certificate) Signature() AlgorithmIdentifier {
	return c.tbs.signature
}

// Algorithm returns the signature algorithm of the outer Certificate SEQUENCE.
// For a well-formed certificate it matches [Certificate.Signature].
func (c *Certificate) Algorithm() AlgorithmIdentifier {
	return c.algorithm
}

// SignatureBits returns the signature value of c.
func (c *Certificate) SignatureBits() der.BitString {
	return c.signature
}

// Issuer returns the distinguished name of the issuer of c.
func (c *Certificate) Issuer() Name {
	return c.tbs.issuer
}

// Subject returns the distinguished name of the subject of c.
func (c *Certificate) Subject() Name {
	return c.tbs.subject
}

// Validity returns the validity period of c.
func (c *Certificate) Validity() Validity {
	return c.tbs.validity
}

// SubjectPublicKeyInfo returns the public key of c.
func (c *Certificate) SubjectPublicKeyInfo() PublicKeyInfo {
	return c.tbs.publicKey
}

// IssuerUniqueID returns the issuer unique identifier of c, if present.
func (c *Certificate) IssuerUniqueID() (der.BitString, bool) {
	if c.tbs.issuerUniqueID == nil {
		return der.BitString{}, false
	}
	return *c.tbs.issuerUniqueID, true
}

// SubjectUniqueID returns the subject unique identifier of c, if present.
func (c *Certificate) SubjectUniqueID() (der.BitString, bool) {
	if c.tbs.subjectUniqueID == nil {
		return der.BitString{}, false
	}
	return *c.tbs.subjectUniqueID, true
}

// Extensions returns the extensions of c in encoding order. It returns nil if
// c has no extensions.
func (c *Certificate) Extensions() []Extension {
	return c.tbs.extensions
}

// Extension returns the first extension of c with the given identifier.
func (c *Certificate) Extension(id x509der.ObjectIdentifier) (Extension, bool) {
	for _, ext := range c.tbs.extensions {
		if ext.ID.Equal(id) {
			return ext, true
		}
	}
	return Extension{}, false
}

//endregion

// Pretty returns an indented rendering of the certificate tree. Well-known
// object identifiers are annotated with their names.
func (c *Certificate) Pretty(indent, step int) string {
	return printer(indent, step).Sprint(c.root)
}

// Render writes the rendering of [Certificate.Pretty] to w.
func (c *Certificate) Render(w io.Writer, indent, step int) error {
	return printer(indent, step).Render(w, c.root)
}

func printer(indent, step int) der.Printer {
	return der.Printer{Indent: indent, Step: step, OIDName: OIDName}
}
