// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package pe

import (
	"bytes"
	"crypto"
	"crypto/x509/pkix"
	"encoding/asn1"
	"testing"

	"go.mozilla.org/pkcs7"
)

func buildWinCertificateEntry(certType uint16, raw []byte) []byte {
	length := uint32(sizeOfWinCertificate + len(raw))
	b := make([]byte, sizeOfWinCertificate)
	copy(b[0:4], le32(length))
	copy(b[4:6], le16(WinCertRevision2_0))
	copy(b[6:8], le16(certType))
	b = append(b, raw...)
	return b
}

// TestCertificatesNoTerminator exercises the CERTIFICATE directory's cursor
// with WinCertTypeReserved1 entries, sidestepping PKCS#7 parsing entirely,
// to check the WIN_CERTIFICATE header decode, Raw extraction and the
// 8-byte-aligned advance between entries sharing one directory with no
// terminator record.
func TestCertificatesNoTerminator(t *testing.T) {
	entry1 := buildWinCertificateEntry(WinCertTypeReserved1, []byte{0xde, 0xad, 0xbe, 0xef})
	for len(entry1)%8 != 0 {
		entry1 = append(entry1, 0)
	}
	entry2 := buildWinCertificateEntry(WinCertTypeReserved1, []byte{0x11, 0x22})
	blob := append(append([]byte{}, entry1...), entry2...)

	probe := newPEBuilder(false).addSection(".text", 0x1000, make([]byte, 0x10)).setExtra(blob)
	probe.build()
	base := probe.extraOffset()

	buf := newPEBuilder(false).
		addSection(".text", 0x1000, make([]byte, 0x10)).
		setExtra(blob).
		setDataDirectory(ImageDirectoryEntryCertificate, base, uint32(len(blob))).
		build()
	img := newTestFileImage(t, buf)

	var certs []Certificate
	cursor := img.Certificates()
	for {
		p, ok := cursor.Next()
		if !ok {
			break
		}
		certs = append(certs, p.Value)
	}
	if len(certs) != 2 {
		t.Fatalf("got %d certificates, want 2", len(certs))
	}
	if certs[0].Header.CertificateType != WinCertTypeReserved1 || !bytes.Equal(certs[0].Raw, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Errorf("certs[0] = %+v", certs[0])
	}
	if certs[0].Content != nil {
		t.Errorf("certs[0].Content should be nil for a non-PKCS7 certificate type")
	}
	if certs[1].Header.CertificateType != WinCertTypeReserved1 || !bytes.Equal(certs[1].Raw, []byte{0x11, 0x22}) {
		t.Errorf("certs[1] = %+v", certs[1])
	}
}

func TestCertificatesAbsent(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	if _, ok := img.Certificates().Next(); ok {
		t.Errorf("Certificates: expected empty cursor with no security directory")
	}
}

func TestCertificateVerifyNilContent(t *testing.T) {
	var cert Certificate
	if err := cert.Verify(nil); err != ErrSecurityDataDirInvalid {
		t.Errorf("Verify: got %v, want ErrSecurityDataDirInvalid", err)
	}
	if _, err := cert.VerifySignature(nil, 0); err != ErrSecurityDataDirInvalid {
		t.Errorf("VerifySignature: got %v, want ErrSecurityDataDirInvalid", err)
	}
}

// collectingHash is a hash.Hash test double that records every byte it's
// asked to hash instead of computing a digest, so AuthentihashExt's byte
// range arithmetic can be checked directly against a known buffer rather
// than against an uncomputable-by-hand real digest.
type collectingHash struct{ buf bytes.Buffer }

func (h *collectingHash) Write(p []byte) (int, error) { return h.buf.Write(p) }
func (h *collectingHash) Sum(b []byte) []byte          { return append(b, h.buf.Bytes()...) }
func (h *collectingHash) Reset()                       { h.buf.Reset() }
func (h *collectingHash) Size() int                    { return h.buf.Len() }
func (h *collectingHash) BlockSize() int               { return 1 }

func TestAuthentihashExtExcludesChecksumAndCertTable(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)

	base := img.optHeaderOff.Value()
	checksumStart, checksumEnd := base+64, base+68
	certFieldStart, certFieldEnd := base+128, base+136

	h := &collectingHash{}
	got := AuthentihashExt(img, int64(len(buf)), h)[0]

	var want []byte
	want = append(want, buf[0:checksumStart]...)
	want = append(want, buf[checksumEnd:certFieldStart]...)
	want = append(want, buf[certFieldEnd:]...)

	if !bytes.Equal(got, want) {
		t.Errorf("AuthentihashExt included %d bytes, want %d", len(got), len(want))
	}
}

func TestAuthentihashExtExcludesCertificateData(t *testing.T) {
	const certOff = 400
	const certSize = 50

	b := newPEBuilder(false)
	b.setDataDirectory(ImageDirectoryEntryCertificate, certOff, certSize)
	buf := b.build()
	for len(buf) < certOff+certSize {
		buf = append(buf, 0)
	}
	img := newTestFileImage(t, buf)

	base := img.optHeaderOff.Value()
	checksumStart, checksumEnd := base+64, base+68
	certFieldStart, certFieldEnd := base+128, base+136

	h := &collectingHash{}
	got := AuthentihashExt(img, int64(len(buf)), h)[0]

	var want []byte
	want = append(want, buf[0:checksumStart]...)
	want = append(want, buf[checksumEnd:certFieldStart]...)
	want = append(want, buf[certFieldEnd:certOff]...)
	want = append(want, buf[certOff+certSize:]...)

	if !bytes.Equal(got, want) {
		t.Errorf("AuthentihashExt included %d bytes, want %d", len(got), len(want))
	}
}

func TestAuthentihash(t *testing.T) {
	buf := newPEBuilder(false).build()
	img := newTestFileImage(t, buf)
	digest := Authentihash(img, int64(len(buf)))
	if len(digest) != crypto.SHA256.Size() {
		t.Errorf("Authentihash: got %d bytes, want %d", len(digest), crypto.SHA256.Size())
	}
}

func TestParseAuthenticodeContent(t *testing.T) {
	dataVal := spcAttributeTypeAndOptionalValue{Type: asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 15}}
	dataBytes, err := asn1.Marshal(dataVal)
	if err != nil {
		t.Fatalf("asn1.Marshal(dataVal): %v", err)
	}
	digest := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	msgDigest := digestInfo{
		DigestAlgorithm: pkix.AlgorithmIdentifier{Algorithm: pkcs7.OIDDigestAlgorithmSHA256},
		Digest:          digest,
	}
	digestBytes, err := asn1.Marshal(msgDigest)
	if err != nil {
		t.Fatalf("asn1.Marshal(msgDigest): %v", err)
	}
	content := append(dataBytes, digestBytes...)

	ac, err := ParseAuthenticodeContent(content)
	if err != nil {
		t.Fatalf("ParseAuthenticodeContent: %v", err)
	}
	if ac.HashFunction != crypto.SHA256 {
		t.Errorf("HashFunction = %v, want SHA256", ac.HashFunction)
	}
	if !bytes.Equal(ac.HashResult, digest) {
		t.Errorf("HashResult = %x, want %x", ac.HashResult, digest)
	}
}

func TestParseAuthenticodeContentUnsupportedAlgorithm(t *testing.T) {
	dataVal := spcAttributeTypeAndOptionalValue{Type: asn1.ObjectIdentifier{1, 3, 6, 1, 4, 1, 311, 2, 1, 15}}
	dataBytes, err := asn1.Marshal(dataVal)
	if err != nil {
		t.Fatalf("asn1.Marshal(dataVal): %v", err)
	}
	msgDigest := digestInfo{
		DigestAlgorithm: pkix.AlgorithmIdentifier{Algorithm: asn1.ObjectIdentifier{1, 2, 3, 4, 5}},
		Digest:          []byte{0x01},
	}
	digestBytes, err := asn1.Marshal(msgDigest)
	if err != nil {
		t.Fatalf("asn1.Marshal(msgDigest): %v", err)
	}
	content := append(dataBytes, digestBytes...)

	if _, err := ParseAuthenticodeContent(content); err == nil {
		t.Errorf("ParseAuthenticodeContent: expected an error for an unrecognized digest algorithm")
	}
}
