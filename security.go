// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"crypto"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"
	"encoding/hex"
	"errors"
	"hash"
	"reflect"
	"sort"
	"time"

	"go.mozilla.org/pkcs7"
)

// The options for the WIN_CERTIFICATE Revision member include (but are not
// limited to) the following.
const (
	// WinCertRevision1_0 represents the WIN_CERT_REVISION_1_0, the legacy
	// version of the WIN_CERTIFICATE structure, supported only for
	// verifying legacy Authenticode signatures.
	WinCertRevision1_0 = 0x0100

	// WinCertRevision2_0 represents the WIN_CERT_REVISION_2_0, the current
	// version of the WIN_CERTIFICATE structure.
	WinCertRevision2_0 = 0x0200
)

// The options for the WIN_CERTIFICATE CertificateType member include (but
// are not limited to) the items in the following table. Not every value is
// supported by this package.
const (
	WinCertTypeX509           = 0x0001 // Not supported.
	WinCertTypePKCSSignedData = 0x0002
	WinCertTypeReserved1      = 0x0003
	WinCertTypeTSStackSigned  = 0x0004 // Not supported.
)

// ErrSecurityDataDirInvalid is reported when an attribute certificate entry
// in the security directory is malformed or carries no usable PKCS#7 blob.
var ErrSecurityDataDirInvalid = errors.New("invalid certificate entry in security directory")

// WinCertificate is the fixed-size header preceding every attribute
// certificate entry in the CERTIFICATE directory.
type WinCertificate struct {
	Length          uint32 `json:"length"`
	Revision        uint16 `json:"revision"`
	CertificateType uint16 `json:"certificate_type"`
}

const sizeOfWinCertificate = 8

// CertInfo wraps the handful of pkcs7/x509 fields a caller usually wants,
// so JSON marshalling doesn't have to walk the full parsed certificate.
type CertInfo struct {
	// Issuer is the certificate authority that issued this certificate.
	Issuer string `json:"issuer"`

	// Subject is the entity the certificate's public key is associated with.
	Subject string `json:"subject"`

	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`

	// SerialNumber is hex-encoded, since the underlying value is a
	// CA-assigned big.Int with no natural fixed-width representation.
	SerialNumber string `json:"serial_number"`

	SignatureAlgorithm x509.SignatureAlgorithm `json:"signature_algorithm"`
	PublicKeyAlgorithm x509.PublicKeyAlgorithm `json:"public_key_algorithm"`
}

// Certificate is one decoded attribute certificate entry: the PE-specific
// WIN_CERTIFICATE header plus, when the entry's blob parses as PKCS#7
// (WinCertTypePKCSSignedData - the only form Authenticode actually uses),
// the parsed signed-data structure and a summary of its signing cert.
type Certificate struct {
	Header  WinCertificate `json:"header"`
	Content *pkcs7.PKCS7   `json:"-"`
	Info    CertInfo       `json:"info"`
	Raw     []byte         `json:"-"`
}

// certInfoFromPKCS7 extracts the signing certificate - the one matching
// the first signer's IssuerAndSerialNumber - out of the full PKCS#7 chain.
func certInfoFromPKCS7(p *pkcs7.PKCS7) CertInfo {
	var info CertInfo
	if len(p.Signers) == 0 {
		return info
	}
	serialNumber := p.Signers[0].IssuerAndSerialNumber.SerialNumber
	for _, cert := range p.Certificates {
		if !reflect.DeepEqual(cert.SerialNumber, serialNumber) {
			continue
		}
		info.SerialNumber = hex.EncodeToString(cert.SerialNumber.Bytes())
		info.PublicKeyAlgorithm = cert.PublicKeyAlgorithm
		info.SignatureAlgorithm = cert.SignatureAlgorithm
		info.NotBefore = cert.NotBefore
		info.NotAfter = cert.NotAfter

		if len(cert.Issuer.Country) > 0 {
			info.Issuer = cert.Issuer.Country[0]
		}
		if len(cert.Issuer.Province) > 0 {
			info.Issuer += ", " + cert.Issuer.Province[0]
		}
		if len(cert.Issuer.Locality) > 0 {
			info.Issuer += ", " + cert.Issuer.Locality[0]
		}
		info.Issuer += ", " + cert.Issuer.CommonName

		if len(cert.Subject.Country) > 0 {
			info.Subject = cert.Subject.Country[0]
		}
		if len(cert.Subject.Province) > 0 {
			info.Subject += ", " + cert.Subject.Province[0]
		}
		if len(cert.Subject.Locality) > 0 {
			info.Subject += ", " + cert.Subject.Locality[0]
		}
		if len(cert.Subject.Organization) > 0 {
			info.Subject += ", " + cert.Subject.Organization[0]
		}
		info.Subject += ", " + cert.Subject.CommonName
		break
	}
	return info
}

// Verify checks the signing certificate's chain of trust against roots.
// The caller supplies roots explicitly - this package never loads an OS
// trust store itself, since doing so on Windows requires shelling out to
// certutil, a side effect this otherwise-pure byte-store reader has no
// business performing.
func (c Certificate) Verify(roots *x509.CertPool) error {
	if c.Content == nil {
		return ErrSecurityDataDirInvalid
	}
	return c.Content.VerifyWithChain(roots)
}

// Certificates returns a cursor over the CERTIFICATE directory: zero or
// more attribute certificate entries, each aligned to an 8-byte boundary
// from the end of the previous one, used to dual- or multi-sign a binary
// with several hashing algorithms at once. Like the BOUND_IMPORT directory
// and the COFF symbol table, the directory's address field is documented
// next to RVA-valued fields but is actually always a file offset.
func (img *Image[N]) Certificates() Cursor[N, Certificate] {
	dd, present := img.DataDirectory(int(ImageDirectoryEntryCertificate))
	if !present {
		return absentCursor[N, Certificate]()
	}
	begin, ok := rawFileOffsetToN(img, dd.VirtualAddress)
	if !ok {
		return absentCursor[N, Certificate]()
	}
	end := addN(begin, int64(dd.Size))

	decode := func(s ByteStore, off N) (Certificate, int64, bool) {
		var hdr WinCertificate
		if !unpack(s, off, sizeOfWinCertificate, &hdr) {
			return Certificate{}, 0, false
		}
		if hdr.Length < sizeOfWinCertificate {
			return Certificate{}, 0, false
		}
		raw, ok := readAt(s, addN(off, sizeOfWinCertificate), int(hdr.Length)-sizeOfWinCertificate)
		if !ok {
			return Certificate{}, 0, false
		}
		cert := Certificate{Header: hdr, Raw: raw}
		if hdr.CertificateType == WinCertTypePKCSSignedData {
			if p, err := pkcs7.Parse(raw); err == nil {
				cert.Content = p
				cert.Info = certInfoFromPKCS7(p)
			} else {
				img.log.Warnf("certificate entry at %s: pkcs7 parse failed: %v", off, err)
			}
		}
		size := (int64(hdr.Length) + 7) &^ 7
		return cert, size, true
	}
	return newCursor(img.store, begin, end, true, nil, decode)
}

// hashExclusionRange is a [start, end) byte range within the underlying
// file that Authentihash skips: the checksum field, the CERTIFICATE entry
// in the data directory table, and the certificate data itself all vary
// with signing and so cannot be part of what gets signed.
type hashExclusionRange struct{ start, end int64 }

// authentihashExclusions locates the three ranges Authenticode excludes
// from its file hash. The field offsets (64 for the checksum; 128/144 for
// the data directory table's CERTIFICATE entry, depending on Is64) are fixed by the optional
// header layout and hold regardless of which fields this package happened
// to decode eagerly.
func (img *FileImage) authentihashExclusions() []hashExclusionRange {
	base := img.optHeaderOff.Value()
	ranges := []hashExclusionRange{{base + 64, base + 68}}

	var certTableFieldOffset int64
	var numberOfRvaAndSizes uint32
	if img.is64 {
		certTableFieldOffset = base + 144
		numberOfRvaAndSizes = img.optHeader64.NumberOfRvaAndSizes
	} else {
		certTableFieldOffset = base + 128
		numberOfRvaAndSizes = img.optHeader32.NumberOfRvaAndSizes
	}
	if numberOfRvaAndSizes < uint32(ImageDirectoryEntryCertificate)+1 {
		return ranges
	}
	ranges = append(ranges, hashExclusionRange{certTableFieldOffset, certTableFieldOffset + 8})

	if dd, present := img.DataDirectory(int(ImageDirectoryEntryCertificate)); present {
		start := int64(dd.VirtualAddress)
		ranges = append(ranges, hashExclusionRange{start, start + int64(dd.Size)})
	}
	return ranges
}

const authentihashChunkSize = 64 * 1024

// Authentihash computes the SHA-256 Authenticode hash of img, the digest
// an Authenticode signature's SpcIndirectDataContent is computed over.
// size is the total length of the underlying file - this package's
// ByteStore has no general notion of its own extent, so the caller, who
// opened the file, supplies it.
func Authentihash(img *FileImage, size int64) []byte {
	return AuthentihashExt(img, size, crypto.SHA256.New())[0]
}

// AuthentihashExt is Authentihash generalized to one or more hash.Hash
// algorithms computed in a single streaming pass, for verifying a
// multiply-signed binary against each signature's own digest algorithm.
func AuthentihashExt(img *FileImage, size int64, hashers ...hash.Hash) [][]byte {
	excl := img.authentihashExclusions()
	sort.Slice(excl, func(i, j int) bool { return excl[i].start < excl[j].start })

	var cursor int64
	var included []hashExclusionRange
	for _, r := range excl {
		if r.start > cursor {
			included = append(included, hashExclusionRange{cursor, r.start})
		}
		if r.end > cursor {
			cursor = r.end
		}
	}
	if cursor < size {
		included = append(included, hashExclusionRange{cursor, size})
	}

	buf := make([]byte, authentihashChunkSize)
	for _, r := range included {
		pos := r.start
		for pos < r.end {
			n := len(buf)
			if remain := r.end - pos; remain < int64(n) {
				n = int(remain)
			}
			got := img.store.Read(pos, buf[:n])
			if got == 0 {
				break
			}
			for _, h := range hashers {
				h.Write(buf[:got])
			}
			pos += int64(got)
		}
	}

	out := make([][]byte, len(hashers))
	for i, h := range hashers {
		out[i] = h.Sum(nil)
	}
	return out
}

// spcIndirectDataContent is the ASN.1 shape of an Authenticode signature's
// content: the file type descriptor SpcPeImageData, and the digest that
// Authentihash/AuthentihashExt should reproduce.
type spcIndirectDataContent struct {
	Data          spcAttributeTypeAndOptionalValue
	MessageDigest digestInfo
}

type spcAttributeTypeAndOptionalValue struct {
	Type  asn1.ObjectIdentifier
	Value spcPeImageData `asn1:"optional"`
}

type spcPeImageData struct {
	Flags asn1.BitString
	File  asn1.RawValue
}

type digestInfo struct {
	DigestAlgorithm pkix.AlgorithmIdentifier
	Digest          []byte
}

// AuthenticodeContent is the digest algorithm and expected digest an
// Authenticode signature's content carries, once ASN.1-decoded.
type AuthenticodeContent struct {
	HashFunction crypto.Hash
	HashResult   []byte
}

// parseHashAlgorithm translates a pkix.AlgorithmIdentifier OID to the
// crypto.Hash Authentihash needs to reproduce the same digest.
func parseHashAlgorithm(identifier pkix.AlgorithmIdentifier) (crypto.Hash, error) {
	oid := identifier.Algorithm
	switch {
	case oid.Equal(pkcs7.OIDDigestAlgorithmSHA1), oid.Equal(pkcs7.OIDDigestAlgorithmECDSASHA1),
		oid.Equal(pkcs7.OIDDigestAlgorithmDSA), oid.Equal(pkcs7.OIDDigestAlgorithmDSASHA1),
		oid.Equal(pkcs7.OIDEncryptionAlgorithmRSA):
		return crypto.SHA1, nil
	case oid.Equal(pkcs7.OIDDigestAlgorithmSHA256), oid.Equal(pkcs7.OIDDigestAlgorithmECDSASHA256):
		return crypto.SHA256, nil
	case oid.Equal(pkcs7.OIDDigestAlgorithmSHA384), oid.Equal(pkcs7.OIDDigestAlgorithmECDSASHA384):
		return crypto.SHA384, nil
	case oid.Equal(pkcs7.OIDDigestAlgorithmSHA512), oid.Equal(pkcs7.OIDDigestAlgorithmECDSASHA512):
		return crypto.SHA512, nil
	}
	return crypto.Hash(0), pkcs7.ErrUnsupportedAlgorithm
}

// ParseAuthenticodeContent decodes a Certificate.Content.Content's
// SpcIndirectDataContent payload to the digest algorithm and expected
// digest value, for comparison against Authentihash/AuthentihashExt.
func ParseAuthenticodeContent(content []byte) (AuthenticodeContent, error) {
	var parsed spcIndirectDataContent
	rest, err := asn1.Unmarshal(content, &parsed.Data)
	if err != nil {
		return AuthenticodeContent{}, err
	}
	if _, err := asn1.Unmarshal(rest, &parsed.MessageDigest); err != nil {
		return AuthenticodeContent{}, err
	}
	hashFunction, err := parseHashAlgorithm(parsed.MessageDigest.DigestAlgorithm)
	if err != nil {
		return AuthenticodeContent{}, err
	}
	return AuthenticodeContent{HashFunction: hashFunction, HashResult: parsed.MessageDigest.Digest}, nil
}

// VerifySignature reports whether cert's embedded Authenticode digest
// matches img's actual Authentihash under cert's own declared algorithm -
// the check that detects a binary modified after signing.
func (cert Certificate) VerifySignature(img *FileImage, size int64) (bool, error) {
	if cert.Content == nil {
		return false, ErrSecurityDataDirInvalid
	}
	ac, err := ParseAuthenticodeContent(cert.Content.Content)
	if err != nil {
		return false, err
	}
	digest := AuthentihashExt(img, size, ac.HashFunction.New())[0]
	return bytes.Equal(digest, ac.HashResult), nil
}
