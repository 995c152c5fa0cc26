// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import "codello.dev/x509der"

// Object identifiers of commonly used attribute types.
var (
	OIDCommonName             = x509der.ObjectIdentifier{2, 5, 4, 3}
	OIDSurname                = x509der.ObjectIdentifier{2, 5, 4, 4}
	OIDSerialNumber           = x509der.ObjectIdentifier{2, 5, 4, 5}
	OIDCountryName            = x509der.ObjectIdentifier{2, 5, 4, 6}
	OIDLocalityName           = x509der.ObjectIdentifier{2, 5, 4, 7}
	OIDStateOrProvinceName    = x509der.ObjectIdentifier{2, 5, 4, 8}
	OIDStreetAddress          = x509der.ObjectIdentifier{2, 5, 4, 9}
	OIDOrganizationName       = x509der.ObjectIdentifier{2, 5, 4, 10}
	OIDOrganizationalUnitName = x509der.ObjectIdentifier{2, 5, 4, 11}
	OIDTitle                  = x509der.ObjectIdentifier{2, 5, 4, 12}
	OIDPostalCode             = x509der.ObjectIdentifier{2, 5, 4, 17}
	OIDGivenName              = x509der.ObjectIdentifier{2, 5, 4, 42}
	OIDEmailAddress           = x509der.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 1}
	OIDDomainComponent        = x509der.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 25}
	OIDUserID                 = x509der.ObjectIdentifier{0, 9, 2342, 19200300, 100, 1, 1}
)

// Object identifiers of the certificate extensions defined in Section 4.2 of
// RFC 5280.
var (
	OIDSubjectKeyIdentifier   = x509der.ObjectIdentifier{2, 5, 29, 14}
	OIDKeyUsage               = x509der.ObjectIdentifier{2, 5, 29, 15}
	OIDSubjectAltName         = x509der.ObjectIdentifier{2, 5, 29, 17}
	OIDIssuerAltName          = x509der.ObjectIdentifier{2, 5, 29, 18}
	OIDBasicConstraints       = x509der.ObjectIdentifier{2, 5, 29, 19}
	OIDNameConstraints        = x509der.ObjectIdentifier{2, 5, 29, 30}
	OIDCRLDistributionPoints  = x509der.ObjectIdentifier{2, 5, 29, 31}
	OIDCertificatePolicies    = x509der.ObjectIdentifier{2, 5, 29, 32}
	OIDPolicyMappings         = x509der.ObjectIdentifier{2, 5, 29, 33}
	OIDAuthorityKeyIdentifier = x509der.ObjectIdentifier{2, 5, 29, 35}
	OIDPolicyConstraints      = x509der.ObjectIdentifier{2, 5, 29, 36}
	OIDExtKeyUsage            = x509der.ObjectIdentifier{2, 5, 29, 37}
	OIDInhibitAnyPolicy       = x509der.ObjectIdentifier{2, 5, 29, 54}
	OIDAuthorityInfoAccess    = x509der.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 1}
	OIDSubjectInfoAccess      = x509der.ObjectIdentifier{1, 3, 6, 1, 5, 5, 7, 1, 11}
)

// oidNames maps the dotted notation of well-known object identifiers to their
// descriptive names.
var oidNames = map[string]string{
	// attribute types
	"2.5.4.3":                    "commonName",
	"2.5.4.4":                    "surname",
	"2.5.4.5":                    "serialNumber",
	"2.5.4.6":                    "countryName",
	"2.5.4.7":                    "localityName",
	"2.5.4.8":                    "stateOrProvinceName",
	"2.5.4.9":                    "streetAddress",
	"2.5.4.10":                   "organizationName",
	"2.5.4.11":                   "organizationalUnitName",
	"2.5.4.12":                   "title",
	"2.5.4.17":                   "postalCode",
	"2.5.4.42":                   "givenName",
	"1.2.840.113549.1.9.1":       "emailAddress",
	"0.9.2342.19200300.100.1.1":  "userId",
	"0.9.2342.19200300.100.1.25": "domainComponent",

	// public key algorithms
	"1.2.840.113549.1.1.1":  "rsaEncryption",
	"1.2.840.113549.1.1.10": "rsassaPss",
	"1.2.840.10045.2.1":     "ecPublicKey",
	"1.2.840.10040.4.1":     "dsa",
	"1.3.101.112":           "Ed25519",
	"1.3.101.113":           "Ed448",

	// signature algorithms
	"1.2.840.113549.1.1.4":  "md5WithRSAEncryption",
	"1.2.840.113549.1.1.5":  "sha1WithRSAEncryption",
	"1.2.840.113549.1.1.11": "sha256WithRSAEncryption",
	"1.2.840.113549.1.1.12": "sha384WithRSAEncryption",
	"1.2.840.113549.1.1.13": "sha512WithRSAEncryption",
	"1.2.840.10045.4.1":     "ecdsa-with-SHA1",
	"1.2.840.10045.4.3.2":   "ecdsa-with-SHA256",
	"1.2.840.10045.4.3.3":   "ecdsa-with-SHA384",
	"1.2.840.10045.4.3.4":   "ecdsa-with-SHA512",

	// named curves
	"1.2.840.10045.3.1.7": "prime256v1",
	"1.3.132.0.34":        "secp384r1",
	"1.3.132.0.35":        "secp521r1",

	// extensions
	"2.5.29.14":               "subjectKeyIdentifier",
	"2.5.29.15":               "keyUsage",
	"2.5.29.17":               "subjectAltName",
	"2.5.29.18":               "issuerAltName",
	"2.5.29.19":               "basicConstraints",
	"2.5.29.30":               "nameConstraints",
	"2.5.29.31":               "cRLDistributionPoints",
	"2.5.29.32":               "certificatePolicies",
	"2.5.29.33":               "policyMappings",
	"2.5.29.35":               "authorityKeyIdentifier",
	"2.5.29.36":               "policyConstraints",
	"2.5.29.37":               "extKeyUsage",
	"2.5.29.54":               "inhibitAnyPolicy",
	"1.3.6.1.5.5.7.1.1":       "authorityInfoAccess",
	"1.3.6.1.5.5.7.1.11":      "subjectInfoAccess",
	"1.3.6.1.4.1.11129.2.4.2": "ctPrecertificateSCTs",
}

// OIDName returns the descriptive name of a well-known object identifier, such
// as "commonName" for 2.5.4.3. For unknown identifiers OIDName returns an empty
// string.
func OIDName(oid x509der.ObjectIdentifier) string {
	return oidNames[oid.String()]
}

// shortNames holds the attribute type names used in the string representation
// of distinguished names (Section 3 of RFC 4514).
var shortNames = map[string]string{
	"2.5.4.3":                    "CN",
	"2.5.4.5":                    "SERIALNUMBER",
	"2.5.4.6":                    "C",
	"2.5.4.7":                    "L",
	"2.5.4.8":                    "ST",
	"2.5.4.9":                    "STREET",
	"2.5.4.10":                   "O",
	"2.5.4.11":                   "OU",
	"2.5.4.17":                   "POSTALCODE",
	"0.9.2342.19200300.100.1.1":  "UID",
	"0.9.2342.19200300.100.1.25": "DC",
}
