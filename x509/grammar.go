// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import "codello.dev/x509der/der"

// The grammar of an X.509 v3 certificate as defined in Section 4.1 of RFC 5280.
// Only the structure is described. Field values are not interpreted.
var (
	// DirectoryString ::= CHOICE { ... }
	directoryString = der.Choice(
		der.ParseUTF8String,
		der.ParsePrintableString,
		der.ParseIA5String,
		der.ParseT61String,
		der.ParseBMPString,
	)

	// AttributeTypeAndValue ::= SEQUENCE { type OID, value DirectoryString }
	attributeTypeAndValue = der.Sequence(der.ParseOID, directoryString)

	// RelativeDistinguishedName ::= SET OF AttributeTypeAndValue
	relativeDistinguishedName = der.SetOf(attributeTypeAndValue)

	// Name ::= SEQUENCE OF RelativeDistinguishedName
	name = der.SequenceOf(relativeDistinguishedName)

	// Time ::= CHOICE { utcTime UTCTime, generalTime GeneralizedTime }
	timeChoice = der.Choice(der.ParseUTCTime, der.ParseGeneralizedTime)

	// Validity ::= SEQUENCE { notBefore Time, notAfter Time }
	validity = der.Sequence(timeChoice, timeChoice)

	// AlgorithmIdentifier ::= SEQUENCE { algorithm OID, parameters ANY OPTIONAL }
	algorithmIdentifier = der.Sequence(der.ParseOID, der.Optional(der.ParseAny))

	// SubjectPublicKeyInfo ::= SEQUENCE { algorithm AlgorithmIdentifier, subjectPublicKey BIT STRING }
	subjectPublicKeyInfo = der.Sequence(algorithmIdentifier, der.ParseBitString)

	// Extension ::= SEQUENCE { extnID OID, critical BOOLEAN OPTIONAL, extnValue OCTET STRING }
	extension = der.Sequence(der.ParseOID, der.Optional(der.ParseBoolean), der.ParseOctetString)

	// extensions [3] EXPLICIT SEQUENCE OF Extension
	extensions = der.Explicit(3, der.SequenceOf(extension))

	// version [0] EXPLICIT INTEGER
	version = der.Explicit(0, der.ParseInteger)

	// issuerUniqueID [1] IMPLICIT BIT STRING
	issuerUniqueID = der.Implicit(1, der.DecodeBitString)

	// subjectUniqueID [2] IMPLICIT BIT STRING
	subjectUniqueID = der.Implicit(2, der.DecodeBitString)

	tbsCertificate = der.Sequence(
		version,
		der.ParseInteger,
		algorithmIdentifier,
		name,
		validity,
		name,
		subjectPublicKeyInfo,
		der.Optional(issuerUniqueID),
		der.Optional(subjectUniqueID),
		der.Optional(extensions),
	)

	// Certificate ::= SEQUENCE { tbsCertificate, signatureAlgorithm, signatureValue BIT STRING }
	certificate = der.Sequence(tbsCertificate, algorithmIdentifier, der.ParseBitString)
)

// Positions of the fields of a TBSCertificate.
const (
	tbsVersion = iota
	tbsSerialNumber
	tbsSignature
	tbsIssuer
	tbsValidity
	tbsSubject
	tbsSubjectPublicKeyInfo
	tbsIssuerUniqueID
	tbsSubjectUniqueID
	tbsExtensions

	tbsFieldCount
)

// These functions are parsers for the components of a certificate. They can be
// combined with the combinators of package der to decode structures that embed
// certificate components, such as certificate requests or CRLs.

// ParseDirectoryString decodes a DirectoryString. The alternatives are tried in
// the order UTF8String, PrintableString, IA5String, T61String and BMPString.
func ParseDirectoryString(c der.Cursor) (der.Object, der.Cursor, error) {
	return directoryString(c)
}

// ParseAttributeTypeAndValue decodes an AttributeTypeAndValue.
func ParseAttributeTypeAndValue(c der.Cursor) (der.Object, der.Cursor, error) {
	return attributeTypeAndValue(c)
}

// ParseRelativeDistinguishedName decodes a RelativeDistinguishedName.
func ParseRelativeDistinguishedName(c der.Cursor) (der.Object, der.Cursor, error) {
	return relativeDistinguishedName(c)
}

// ParseName decodes a Name.
func ParseName(c der.Cursor) (der.Object, der.Cursor, error) {
	return name(c)
}

// ParseTime decodes a Time, which is either a UTCTime or a GeneralizedTime.
func ParseTime(c der.Cursor) (der.Object, der.Cursor, error) {
	return timeChoice(c)
}

// ParseValidity decodes a Validity.
func ParseValidity(c der.Cursor) (der.Object, der.Cursor, error) {
	return validity(c)
}

// ParseAlgorithmIdentifier decodes an AlgorithmIdentifier. Parameters of any
// type are accepted.
func ParseAlgorithmIdentifier(c der.Cursor) (der.Object, der.Cursor, error) {
	return algorithmIdentifier(c)
}

// ParseSubjectPublicKeyInfo decodes a SubjectPublicKeyInfo.
func ParseSubjectPublicKeyInfo(c der.Cursor) (der.Object, der.Cursor, error) {
	return subjectPublicKeyInfo(c)
}

// ParseExtension decodes a single Extension.
func ParseExtension(c der.Cursor) (der.Object, der.Cursor, error) {
	return extension(c)
}

// ParseExtensions decodes the [3] EXPLICIT tagged extensions of a
// TBSCertificate.
func ParseExtensions(c der.Cursor) (der.Object, der.Cursor, error) {
	return extensions(c)
}

// ParseVersion decodes the [0] EXPLICIT tagged version of a TBSCertificate.
func ParseVersion(c der.Cursor) (der.Object, der.Cursor, error) {
	return version(c)
}

// ParseTBSCertificate decodes a TBSCertificate.
func ParseTBSCertificate(c der.Cursor) (der.Object, der.Cursor, error) {
	return tbsCertificate(c)
}
