// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package x509

import (
	"bytes"
	stdx509 "crypto/x509"
	encasn1 "encoding/asn1"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"codello.dev/x509der"
	"codello.dev/x509der/der"
)

//region Fixtures

// loadIGCA returns the DER encoding of the self-signed IGC/A root certificate.
func loadIGCA(t testing.TB) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/igca.der")
	require.NoError(t, err, "reading fixture")
	require.Len(t, b, 1030)
	return b
}

var (
	oidSHA1WithRSA     = x509der.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 5}
	oidRSAEncryption   = x509der.ObjectIdentifier{1, 2, 840, 113549, 1, 1, 1}
	oidECDSAWithSHA256 = x509der.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	oidECPublicKey     = x509der.ObjectIdentifier{1, 2, 840, 10045, 2, 1}
	oidP256            = x509der.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
)

// asn1OID converts oid for use with a [cryptobyte.Builder].
func asn1OID(oid x509der.ObjectIdentifier) encasn1.ObjectIdentifier {
	ret := make(encasn1.ObjectIdentifier, len(oid))
	for i, arc := range oid {
		ret[i] = int(arc)
	}
	return ret
}

// tbsParts holds builders for the fields of a synthetic TBSCertificate. A nil
// builder omits the field.
type tbsParts struct {
	version, serial, signature, issuer, validity, subject, spki func(b *cryptobyte.Builder)
	issuerUID, subjectUID, extensions                           func(b *cryptobyte.Builder)
}

func addName(b *cryptobyte.Builder, tag cbasn1.Tag, attrs ...string) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for i := 0; i < len(attrs); i += 2 {
			b.AddASN1(cbasn1.SET, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(asn1OID(x509der.MustParseObjectIdentifier(attrs[i])))
					b.AddASN1(tag, func(b *cryptobyte.Builder) { b.AddBytes([]byte(attrs[i+1])) })
				})
			})
		}
	})
}

func addExtension(b *cryptobyte.Builder, id x509der.ObjectIdentifier, critical bool, value []byte) {
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(asn1OID(id))
		if critical {
			b.AddASN1Boolean(true)
		}
		b.AddASN1OctetString(value)
	})
}

// defaultParts describes a v3 certificate with an EC key and two extensions.
func defaultParts() tbsParts {
	return tbsParts{
		version: func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1Int64(2)
			})
		},
		serial: func(b *cryptobyte.Builder) { b.AddASN1Int64(4711) },
		signature: func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1ObjectIdentifier(asn1OID(oidECDSAWithSHA256))
			})
		},
		issuer: func(b *cryptobyte.Builder) { addName(b, cbasn1.UTF8String, "2.5.4.3", "Test CA") },
		validity: func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1UTCTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
				b.AddASN1GeneralizedTime(time.Date(2050, 1, 1, 12, 0, 0, 0, time.UTC))
			})
		},
		subject: func(b *cryptobyte.Builder) {
			addName(b, cbasn1.PrintableString, "2.5.4.6", "DE", "2.5.4.10", "Example", "2.5.4.3", "leaf.example.com")
		},
		spki: func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					b.AddASN1ObjectIdentifier(asn1OID(oidECPublicKey))
					b.AddASN1ObjectIdentifier(asn1OID(oidP256))
				})
				b.AddASN1BitString(append([]byte{0x04}, bytes.Repeat([]byte{0x5a}, 64)...))
			})
		},
		extensions: func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(3).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
					addExtension(b, OIDBasicConstraints, true, []byte{0x30, 0x00})
					addExtension(b, OIDKeyUsage, false, []byte{0x03, 0x02, 0x07, 0x80})
				})
			})
		},
	}
}

// certificate returns the encoding of a certificate with the TBSCertificate
// described by p.
func (p tbsParts) certificate() []byte {
	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			for _, f := range []func(*cryptobyte.Builder){
				p.version, p.serial, p.signature, p.issuer, p.validity, p.subject, p.spki,
				p.issuerUID, p.subjectUID, p.extensions,
			} {
				if f != nil {
					f(b)
				}
			}
		})
		b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
			b.AddASN1ObjectIdentifier(asn1OID(oidECDSAWithSHA256))
		})
		b.AddASN1BitString([]byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x02})
	})
	return b.BytesOrPanic()
}

//endregion

func TestParse_IGCA(t *testing.T) {
	data := loadIGCA(t)
	cert, rest, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, rest, "trailing bytes")

	t.Run("Fields", func(t *testing.T) {
		assert.Equal(t, 4, cert.TBSCertificate.Offset)
		assert.Equal(t, 754, cert.SignatureAlgorithm.Offset)
		assert.Equal(t, 769, cert.SignatureValue.Offset)
		assert.Equal(t, data, cert.Raw())
		assert.Len(t, cert.root.Children(), 3)
	})
	t.Run("Version", func(t *testing.T) {
		assert.Equal(t, 2, cert.Version())
		w, err := der.As[der.Wrapped](cert.TBSCertificate.Children()[tbsVersion])
		require.NoError(t, err)
		v, err := der.As[der.Integer](w.Inner)
		require.NoError(t, err)
		assert.Equal(t, "2", v.String())
	})
	t.Run("SerialNumber", func(t *testing.T) {
		assert.Equal(t, "245102874772", cert.SerialNumber().String())
	})
	t.Run("Algorithms", func(t *testing.T) {
		sig := cert.Signature()
		assert.True(t, sig.Algorithm.Equal(oidSHA1WithRSA), "signature algorithm %s", sig.Algorithm)
		assert.True(t, sig.Parameters.Present())
		assert.IsType(t, der.Null{}, sig.Parameters.Content)
		assert.Equal(t, sig.Algorithm, cert.Algorithm().Algorithm)
		assert.Equal(t, 2048, cert.SignatureBits().BitLength)
	})
	t.Run("Names", func(t *testing.T) {
		const want = "1.2.840.113549.1.9.1=#161469676361407367646e2e706d2e676f75762e6672," +
			"CN=IGC/A,OU=DCSSI,O=PM/SGDN,L=Paris,ST=France,C=FR"
		assert.Equal(t, want, cert.Issuer().String())
		assert.Equal(t, want, cert.Subject().String())
		attrs := cert.Subject().Attributes()
		require.Len(t, attrs, 7)
		assert.True(t, attrs[0].Type.Equal(OIDCountryName))
		assert.Equal(t, "FR", attrs[0].Text())
		assert.True(t, attrs[6].Type.Equal(OIDEmailAddress))
		assert.Equal(t, "igca@sgdn.pm.gouv.fr", attrs[6].Text())
		assert.Equal(t, x509der.UniversalTag(x509der.TagIA5String), attrs[6].Value.Tag)
		cn, ok := cert.Subject().Get(OIDCommonName)
		assert.True(t, ok)
		assert.Equal(t, "IGC/A", cn)
		_, ok = cert.Subject().Get(OIDGivenName)
		assert.False(t, ok)
	})
	t.Run("Validity", func(t *testing.T) {
		v := cert.Validity()
		assert.Equal(t, time.Date(2002, 12, 13, 14, 29, 23, 0, time.UTC), v.NotBefore.Time())
		assert.Equal(t, time.Date(2020, 10, 17, 14, 29, 22, 0, time.UTC), v.NotAfter.Time())
		assert.Equal(t, x509der.TagUTCTime, v.NotBefore.Type)
	})
	t.Run("SubjectPublicKeyInfo", func(t *testing.T) {
		spki := cert.SubjectPublicKeyInfo()
		assert.True(t, spki.Algorithm.Algorithm.Equal(oidRSAEncryption))
		assert.Equal(t, 270*8, spki.PublicKey.BitLength)
		assert.Equal(t, byte(0x30), spki.PublicKey.Bytes[0])
	})
	t.Run("UniqueIDs", func(t *testing.T) {
		_, ok := cert.IssuerUniqueID()
		assert.False(t, ok)
		_, ok = cert.SubjectUniqueID()
		assert.False(t, ok)
	})
	t.Run("Extensions", func(t *testing.T) {
		exts := cert.Extensions()
		require.Len(t, exts, 5)
		wantIDs := []x509der.ObjectIdentifier{
			OIDBasicConstraints, OIDKeyUsage, OIDCertificatePolicies, OIDSubjectKeyIdentifier, OIDAuthorityKeyIdentifier,
		}
		for i, id := range wantIDs {
			assert.True(t, exts[i].ID.Equal(id), "extension %d is %s, want %s", i, exts[i].ID, id)
			assert.Equal(t, i == 0, exts[i].Critical, "critical flag of %s", exts[i].ID)
		}
		assert.Equal(t, []byte{0x30, 0x03, 0x01, 0x01, 0xff}, exts[0].Value)
		ku, ok := cert.Extension(OIDKeyUsage)
		assert.True(t, ok)
		assert.Equal(t, []byte{0x03, 0x02, 0x01, 0x46}, ku.Value)
		_, ok = cert.Extension(OIDSubjectAltName)
		assert.False(t, ok)
	})
}

// TestParse_CrossCheck compares the decoded fields with the results of the
// standard library.
func TestParse_CrossCheck(t *testing.T) {
	data := loadIGCA(t)
	std, err := stdx509.ParseCertificate(data)
	require.NoError(t, err)
	cert, err := ParseCertificate(data)
	require.NoError(t, err)

	assert.Equal(t, std.Version, cert.Version()+1)
	assert.Equal(t, 0, std.SerialNumber.Cmp(cert.SerialNumber().Big()))
	assert.True(t, std.NotBefore.Equal(cert.Validity().NotBefore.Time()))
	assert.True(t, std.NotAfter.Equal(cert.Validity().NotAfter.Time()))
	assert.Equal(t, std.RawTBSCertificate, cert.RawTBSCertificate())
	assert.Equal(t, std.RawIssuer, cert.TBSCertificate.Children()[tbsIssuer].Raw())
	assert.Equal(t, std.RawSubject, cert.TBSCertificate.Children()[tbsSubject].Raw())
	assert.Equal(t, std.RawSubjectPublicKeyInfo, cert.TBSCertificate.Children()[tbsSubjectPublicKeyInfo].Raw())
	assert.Equal(t, std.Signature, cert.SignatureBits().Bytes)
	assert.Equal(t, std.Subject.CommonName, cert.Subject().Attributes()[5].Text())

	exts := cert.Extensions()
	require.Len(t, exts, len(std.Extensions))
	for i, ext := range std.Extensions {
		assert.Equal(t, ext.Id.String(), exts[i].ID.String())
		assert.Equal(t, ext.Critical, exts[i].Critical)
		assert.Equal(t, ext.Value, exts[i].Value)
	}
}

// TestParse_Tiling checks that the children of every constructed object cover
// its content without gaps or overlaps.
func TestParse_Tiling(t *testing.T) {
	cert, _, err := Parse(loadIGCA(t))
	require.NoError(t, err)
	cert.root.Walk(func(depth int, o der.Object) bool {
		if !o.Present() {
			return false
		}
		assert.Len(t, o.Raw(), o.HeaderLen+o.Length)
		if o.Children() == nil {
			return true
		}
		pos := o.Offset + o.HeaderLen
		for _, child := range o.Children() {
			if !child.Present() {
				assert.Equal(t, pos, child.Offset, "absent element position")
				continue
			}
			assert.Equal(t, pos, child.Offset, "child of object at %d", o.Offset)
			pos = child.End()
		}
		assert.Equal(t, o.End(), pos, "content of object at %d", o.Offset)
		return true
	})
}

func TestParse_Idempotent(t *testing.T) {
	cert, _, err := Parse(loadIGCA(t))
	require.NoError(t, err)
	again, rest, err := Parse(bytes.Clone(cert.Raw()))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, cert.TBSCertificate, again.TBSCertificate)
	assert.Equal(t, cert.SignatureAlgorithm, again.SignatureAlgorithm)
	assert.Equal(t, cert.SignatureValue, again.SignatureValue)
	assert.Equal(t, cert.Pretty(0, 2), again.Pretty(0, 2))
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]struct {
		mutate func(b []byte) []byte
		kind   x509der.Kind
	}{
		"FirstTenBytes": {func(b []byte) []byte { return b[:10] }, x509der.TruncatedInput},
		"Empty":         {func(b []byte) []byte { return nil }, x509der.TruncatedInput},
		"ReservedLength": {func(b []byte) []byte {
			b[1] = 0xff
			return b
		}, x509der.InvalidLength},
		"IndefiniteLength": {func(b []byte) []byte {
			b[1] = 0x80
			return b
		}, x509der.InvalidLength},
		"LengthOverflow": {func(b []byte) []byte {
			b[1] = 0x96
			return b
		}, x509der.InvalidLength},
		"NotASequence": {func(b []byte) []byte {
			b[0] = 0x31
			return b
		}, x509der.UnexpectedTag},
		"BadVersionTag": {func(b []byte) []byte {
			b[10] = 0x01 // BOOLEAN inside [0]
			return b
		}, x509der.UnexpectedTag},
		"NonMinimalSerial": {func(b []byte) []byte {
			b[15] = 0x00
			b[16] = 0x11
			return b
		}, x509der.InvalidEncoding},
		"OIDContinuation": {func(b []byte) []byte {
			b[32] = 0x85 // last arc of the signature algorithm
			return b
		}, x509der.InvalidEncoding},
		"InvalidPrintableString": {func(b []byte) []byte {
			b[49] = '*' // country "FR"
			return b
		}, x509der.InvalidEncoding},
		"InvalidTime": {func(b []byte) []byte {
			b[177] = '3' // month 32
			return b
		}, x509der.InvalidEncoding},
		"NonCanonicalCritical": {func(b []byte) []byte {
			b[646] = 0x01
			return b
		}, x509der.InvalidEncoding},
		"TruncatedSignature": {func(b []byte) []byte { return b[:len(b)-1] }, x509der.TruncatedInput},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			data := tt.mutate(loadIGCA(t))
			cert, rest, err := Parse(data)
			assert.Nil(t, cert)
			assert.Nil(t, rest)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			var e *x509der.Error
			require.ErrorAs(t, err, &e)
			assert.GreaterOrEqual(t, e.Offset, 0)
			assert.LessOrEqual(t, e.Offset, len(data))
		})
	}
}

func TestNewCertificate_ContentMismatch(t *testing.T) {
	cert, err := ParseCertificate(loadIGCA(t))
	require.NoError(t, err)

	tests := map[string]struct {
		swap   func(fields []der.Object)
		wantAt func(fields []der.Object) int
	}{
		"SignatureAlgorithm": {
			func(fields []der.Object) { fields[1] = fields[2] },
			func(fields []der.Object) int { return fields[2].Offset },
		},
		"SignatureValue": {
			func(fields []der.Object) { fields[2] = fields[1] },
			func(fields []der.Object) int { return fields[1].Offset },
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			root := cert.root
			fields := append([]der.Object(nil), root.Children()...)
			tt.swap(fields)
			root.Content = der.Children(fields)

			got, err := newCertificate(root)
			assert.Nil(t, got)
			var ce *der.ContentError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantAt(fields), ce.Offset)
		})
	}
}

func TestParse_TruncatedPrefixes(t *testing.T) {
	data := loadIGCA(t)
	for i := range len(data) {
		_, _, err := Parse(data[:i])
		if !assert.ErrorIs(t, err, x509der.TruncatedInput, "prefix of %d bytes", i) {
			break
		}
	}
}

func TestParseCertificate_TrailingData(t *testing.T) {
	data := append(loadIGCA(t), 0x00, 0x00)
	cert, rest, err := Parse(data)
	require.NoError(t, err)
	assert.NotNil(t, cert)
	assert.Equal(t, []byte{0x00, 0x00}, rest)

	_, err = ParseCertificate(data)
	assert.ErrorIs(t, err, x509der.TrailingData)
	var e *x509der.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, 1030, e.Offset)
}

func TestParse_MaxDepth(t *testing.T) {
	data := loadIGCA(t)
	_, _, err := Parse(data, der.WithMaxDepth(5))
	assert.NoError(t, err)
	_, _, err = Parse(data, der.WithMaxDepth(4))
	assert.ErrorIs(t, err, x509der.DepthExceeded)
}

func TestParse_Synthetic(t *testing.T) {
	t.Run("V3", func(t *testing.T) {
		cert, err := ParseCertificate(defaultParts().certificate())
		require.NoError(t, err)
		assert.Equal(t, 2, cert.Version())
		assert.Equal(t, "4711", cert.SerialNumber().String())
		assert.False(t, cert.Signature().Parameters.Present(), "absent parameters")
		assert.Equal(t, "CN=Test CA", cert.Issuer().String())
		assert.Equal(t, "CN=leaf.example.com,O=Example,C=DE", cert.Subject().String())
		assert.Equal(t, 2050, cert.Validity().NotAfter.Year)
		assert.Equal(t, x509der.TagGeneralizedTime, cert.Validity().NotAfter.Type)
		params := cert.SubjectPublicKeyInfo().Algorithm.Parameters
		oid, err := der.As[der.OID](params)
		require.NoError(t, err)
		assert.True(t, oid.Equal(oidP256))
		require.Len(t, cert.Extensions(), 2)
		assert.True(t, cert.Extensions()[0].Critical)
		assert.False(t, cert.Extensions()[1].Critical)
	})
	t.Run("MissingVersion", func(t *testing.T) {
		p := defaultParts()
		p.version = nil
		p.extensions = nil
		data := p.certificate()
		root, _, err := der.Decode(data)
		require.NoError(t, err)
		serial := root.Children()[0].Children()[0]

		_, err = ParseCertificate(data)
		assert.ErrorIs(t, err, x509der.UnexpectedTag)
		var e *x509der.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, serial.Offset, e.Offset)
	})
	t.Run("NegativeVersion", func(t *testing.T) {
		p := defaultParts()
		p.version = func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1Int64(-1)
			})
		}
		_, err := ParseCertificate(p.certificate())
		assert.ErrorIs(t, err, x509der.InvalidEncoding)
	})
	t.Run("UniqueIDs", func(t *testing.T) {
		p := defaultParts()
		p.version = func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(0).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1Int64(1)
			})
		}
		p.extensions = nil
		p.subjectUID = func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(2).ContextSpecific(), func(b *cryptobyte.Builder) { b.AddBytes([]byte{0x04, 0xf0}) })
		}
		cert, err := ParseCertificate(p.certificate())
		require.NoError(t, err)
		assert.Equal(t, 1, cert.Version())
		_, ok := cert.IssuerUniqueID()
		assert.False(t, ok)
		uid, ok := cert.SubjectUniqueID()
		require.True(t, ok)
		assert.Equal(t, 4, uid.BitLength)
	})
	t.Run("BMPString", func(t *testing.T) {
		p := defaultParts()
		p.issuer = func(b *cryptobyte.Builder) {
			addName(b, cbasn1.Tag(x509der.TagBMPString), "2.5.4.3", "\x00C\x00A\x00+")
		}
		cert, err := ParseCertificate(p.certificate())
		require.NoError(t, err)
		assert.Equal(t, `CN=CA\+`, cert.Issuer().String())
	})
	t.Run("NumericStringName", func(t *testing.T) {
		p := defaultParts()
		p.issuer = func(b *cryptobyte.Builder) { addName(b, cbasn1.Tag(x509der.TagNumericString), "2.5.4.3", "42") }
		_, err := ParseCertificate(p.certificate())
		assert.ErrorIs(t, err, x509der.UnexpectedTag)
	})
	t.Run("MissingSerial", func(t *testing.T) {
		p := defaultParts()
		p.serial = nil
		_, err := ParseCertificate(p.certificate())
		assert.ErrorIs(t, err, x509der.UnexpectedTag)
	})
	t.Run("UnknownTrailingField", func(t *testing.T) {
		p := defaultParts()
		ext := p.extensions
		p.extensions = func(b *cryptobyte.Builder) {
			ext(b)
			b.AddASN1NULL()
		}
		_, err := ParseCertificate(p.certificate())
		assert.ErrorIs(t, err, x509der.TrailingData)
	})
	t.Run("EmptyExtensions", func(t *testing.T) {
		p := defaultParts()
		p.extensions = func(b *cryptobyte.Builder) {
			b.AddASN1(cbasn1.Tag(3).ContextSpecific().Constructed(), func(b *cryptobyte.Builder) {
				b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {})
			})
		}
		cert, err := ParseCertificate(p.certificate())
		require.NoError(t, err)
		assert.Empty(t, cert.Extensions())
	})
}

func TestNewCertificate_Arity(t *testing.T) {
	obj, _, err := der.Decode([]byte{0x30, 0x04, 0x30, 0x00, 0x05, 0x00})
	require.NoError(t, err)
	_, err = newCertificate(obj)
	assert.ErrorIs(t, err, x509der.SequenceArity)

	_, err = fieldsOf(obj, 2)
	assert.NoError(t, err)
	_, err = newTBSFields(obj.Children()[0])
	assert.ErrorIs(t, err, x509der.SequenceArity)
}

func TestCertificate_Pretty(t *testing.T) {
	cert, _, err := Parse(loadIGCA(t))
	require.NoError(t, err)
	out := cert.Pretty(0, 2)
	assert.True(t, strings.HasPrefix(out, "SEQUENCE (3 elem)\n"+
		"  SEQUENCE (8 elem)\n"+
		"    [0]\n"+
		"      INTEGER 2\n"+
		"    INTEGER 245102874772\n"+
		"    SEQUENCE (2 elem)\n"+
		"      OBJECT IDENTIFIER 1.2.840.113549.1.1.5 (sha1WithRSAEncryption)\n"+
		"      NULL\n"), "unexpected rendering:\n%s", out)
	assert.Contains(t, out, "          IA5String \"igca@sgdn.pm.gouv.fr\"\n")
	assert.Contains(t, out, "    UTCTime 2020-10-17T14:29:22Z\n")
	assert.Contains(t, out, "OBJECT IDENTIFIER 2.5.29.19 (basicConstraints)\n")

	var buf bytes.Buffer
	require.NoError(t, cert.Render(&buf, 0, 2))
	assert.Equal(t, out, buf.String())
}

func TestParse_Concurrent(t *testing.T) {
	data := loadIGCA(t)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cert, err := ParseCertificate(data)
			if assert.NoError(t, err) {
				assert.Equal(t, 2, cert.Version())
			}
		}()
	}
	wg.Wait()
}

func TestGrammar(t *testing.T) {
	data := loadIGCA(t)
	t.Run("Name", func(t *testing.T) {
		obj, rest, err := der.Parse(data[35:171], ParseName)
		require.NoError(t, err)
		assert.Empty(t, rest)
		assert.Len(t, obj.Children(), 7)
	})
	t.Run("Validity", func(t *testing.T) {
		obj, _, err := der.Parse(data[171:203], ParseValidity)
		require.NoError(t, err)
		assert.Len(t, obj.Children(), 2)
	})
	t.Run("Time", func(t *testing.T) {
		obj, _, err := der.Parse([]byte("\x18\x0f20500101000000Z"), ParseTime)
		require.NoError(t, err)
		v, err := der.As[der.Time](obj)
		require.NoError(t, err)
		assert.Equal(t, 2050, v.Year)
	})
	t.Run("DirectoryString", func(t *testing.T) {
		obj, _, err := der.Parse([]byte{0x14, 0x02, 'a', 0xe9}, ParseDirectoryString)
		require.NoError(t, err)
		s, err := der.As[der.CharString](obj)
		require.NoError(t, err)
		assert.Equal(t, "aé", s.String())
		_, _, err = der.Parse([]byte{0x12, 0x01, '1'}, ParseDirectoryString)
		assert.ErrorIs(t, err, x509der.UnexpectedTag)
	})
	t.Run("AlgorithmIdentifier", func(t *testing.T) {
		_, _, err := der.Parse(data[20:35], ParseAlgorithmIdentifier)
		assert.NoError(t, err)
		_, _, err = der.Parse(data[339:633], ParseSubjectPublicKeyInfo)
		assert.NoError(t, err)
	})
	t.Run("Extensions", func(t *testing.T) {
		obj, _, err := der.Parse(data[633:754], ParseExtensions)
		require.NoError(t, err)
		w, err := der.As[der.Wrapped](obj)
		require.NoError(t, err)
		assert.Len(t, w.Inner.Children(), 5)
		_, _, err = der.Parse(data[637:654], ParseExtension)
		assert.NoError(t, err)
	})
	t.Run("Version", func(t *testing.T) {
		_, _, err := der.Parse(data[8:13], ParseVersion)
		assert.NoError(t, err)
	})
	t.Run("TBSCertificate", func(t *testing.T) {
		obj, rest, err := der.Parse(data[4:], ParseTBSCertificate)
		require.NoError(t, err)
		assert.Len(t, rest, 1030-754)
		assert.Equal(t, 0, obj.Offset)
	})
	t.Run("RelativeDistinguishedName", func(t *testing.T) {
		obj, _, err := der.Parse(data[38:51], ParseRelativeDistinguishedName)
		require.NoError(t, err)
		atv := obj.Children()[0]
		_, _, err = der.Parse(atv.Raw(), ParseAttributeTypeAndValue)
		assert.NoError(t, err)
	})
}

func TestOIDName(t *testing.T) {
	assert.Equal(t, "commonName", OIDName(OIDCommonName))
	assert.Equal(t, "sha1WithRSAEncryption", OIDName(oidSHA1WithRSA))
	assert.Equal(t, "authorityKeyIdentifier", OIDName(OIDAuthorityKeyIdentifier))
	assert.Empty(t, OIDName(x509der.ObjectIdentifier{1, 2, 3}))
}

func TestName_String(t *testing.T) {
	attr := func(oid x509der.ObjectIdentifier, value string) Attribute {
		raw := append([]byte{0x0c, byte(len(value))}, value...)
		obj, _, err := der.Decode(raw)
		require.NoError(t, err)
		return Attribute{Type: der.OID(oid), Value: obj}
	}
	tests := map[string]struct {
		name Name
		want string
	}{
		"Empty":       {nil, ""},
		"Single":      {Name{{attr(OIDCommonName, "a")}}, "CN=a"},
		"Reversed":    {Name{{attr(OIDCountryName, "DE")}, {attr(OIDCommonName, "a")}}, "CN=a,C=DE"},
		"MultiValue":  {Name{{attr(OIDOrganizationName, "o"), attr(OIDOrganizationalUnitName, "u")}}, "O=o+OU=u"},
		"Escaping":    {Name{{attr(OIDCommonName, "a,b;c")}}, `CN=a\,b\;c`},
		"LeadingHash": {Name{{attr(OIDCommonName, "#x ")}}, `CN=\#x\ `},
		"Unknown":     {Name{{attr(OIDGivenName, "k")}}, "2.5.4.42=#0c016b"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.name.String())
		})
	}
}
