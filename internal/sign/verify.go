// Package sign implements C7: X.509 certificate-chain and XML-DSig
// signature/digest verification for a signed PKL or CPL document (§4.12).
// A narrow, single-purpose verifier type, built on crypto/x509 and
// crypto/rsa directly since every primitive §4.12 needs (chain
// verification, SHA-1/SHA-256 digest, RSA-PKCS1v15 signature check) is
// already exposed by the standard library.
package sign

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// Result is the outcome of verifying one signed document (§4.12).
type Result struct {
	ChainValid     bool
	DigestValid    bool
	SignatureValid bool
	Findings       []string
}

func (r *Result) fail(format string, args ...interface{}) {
	r.Findings = append(r.Findings, fmt.Sprintf(format, args...))
}

// VerifyDocument runs the full §4.12 procedure against a parsed Signer/
// Signature pair and the raw document bytes they came from, using
// issueDate as the time reference for NotBefore/NotAfter checks (DCI
// 9.4.3.5: "time reference is the document's IssueDate").
func VerifyDocument(signer *model.Signer, signature *model.Signature, schema model.Schema, issueDate time.Time) *Result {
	res := &Result{}
	if signer == nil || signature == nil {
		res.fail("document carries no Signer/Signature")
		return res
	}

	certs, err := parseChain(signer.Certificates)
	if err != nil {
		res.fail("certificate chain decode failed: %v", err)
		return res
	}
	if len(certs) == 0 {
		res.fail("certificate chain is empty")
		return res
	}

	res.ChainValid = verifyChain(certs, schema, issueDate, res)

	digestOK, err := verifyDigest(signature)
	if err != nil {
		res.fail("digest verification error: %v", err)
	}
	res.DigestValid = digestOK

	sigOK, err := verifySignatureValue(certs[0], signature)
	if err != nil {
		res.fail("signature verification error: %v", err)
	}
	res.SignatureValid = sigOK

	return res
}

// parseChain decodes each DER certificate, walking the X509Data list in
// reverse (root last in the XML, but certs[0] here is the leaf) per
// §4.12 step 1.
func parseChain(der [][]byte) ([]*x509.Certificate, error) {
	var out []*x509.Certificate
	for i := len(der) - 1; i >= 0; i-- {
		cert, err := x509.ParseCertificate(der[i])
		if err != nil {
			return nil, fmt.Errorf("certificate %d: %w", i, err)
		}
		out = append(out, cert)
	}
	return out, nil
}

// verifyChain implements §4.12 steps 2-3: per-certificate structural
// checks plus parent/child NotBefore/NotAfter coherence, and the actual
// cryptographic signature-over-parent-key check.
func verifyChain(certs []*x509.Certificate, schema model.Schema, issueDate time.Time, res *Result) bool {
	ok := true
	for i, cert := range certs {
		if cert.Version != 3 {
			res.fail("certificate %d is not X.509 v3", i)
			ok = false
		}
		if issueDate.Before(cert.NotBefore) || issueDate.After(cert.NotAfter) {
			res.fail("certificate %d validity window does not cover document IssueDate %s", i, issueDate.Format(time.RFC3339))
			ok = false
		}
		if cert.NotAfter.After(time.Now().AddDate(10, 0, 0)) {
			res.fail("certificate %d NotAfter is more than 10 years from now", i)
		}

		isLeaf := i == 0
		if isLeaf == cert.IsCA {
			res.fail("certificate %d CA flag inconsistent with its chain position (leaf=%v, IsCA=%v)", i, isLeaf, cert.IsCA)
			ok = false
		}

		wantAlgos := map[model.Schema][]x509.SignatureAlgorithm{
			model.SchemaSMPTE:   {x509.SHA256WithRSA},
			model.SchemaInterop: {x509.SHA256WithRSA, x509.SHA1WithRSA},
		}
		if allowed, ok2 := wantAlgos[schema]; ok2 {
			algoOK := false
			for _, a := range allowed {
				if cert.SignatureAlgorithm == a {
					algoOK = true
					break
				}
			}
			if !algoOK {
				res.fail("certificate %d signature algorithm %v not allowed for schema %s", i, cert.SignatureAlgorithm, schema)
				ok = false
			}
		}

		rsaKey, isRSA := cert.PublicKey.(*rsa.PublicKey)
		if !isRSA {
			res.fail("certificate %d public key is not RSA", i)
			ok = false
			continue
		}
		if rsaKey.N.BitLen() != 2048 {
			res.fail("certificate %d RSA key is %d bits, want 2048", i, rsaKey.N.BitLen())
			ok = false
		}
		if rsaKey.E != 65537 {
			res.fail("certificate %d RSA exponent is %d, want 65537", i, rsaKey.E)
			ok = false
		}
		if want := dnQualifier(rsaKey); cert.Subject.SerialNumber != "" && cert.Subject.SerialNumber != want {
			res.fail("certificate %d dnQualifier does not equal base64(SHA-1(DER public key))", i)
		}

		if i+1 < len(certs) {
			parent := certs[i+1]
			if cert.NotBefore.Before(parent.NotBefore) {
				res.fail("certificate %d NotBefore precedes parent NotBefore", i)
				ok = false
			}
			if cert.NotAfter.After(parent.NotAfter) {
				res.fail("certificate %d NotAfter exceeds parent NotAfter", i)
				ok = false
			}
			if err := cert.CheckSignatureFrom(parent); err != nil {
				res.fail("certificate %d signature does not verify against parent %d: %v", i, i+1, err)
				ok = false
			}
		}
	}
	return ok
}

// dnQualifier computes base64(SHA-1(DER PKCS1 public key)), the value
// §4.12 requires Subject.dnQualifier to equal.
func dnQualifier(pub *rsa.PublicKey) string {
	der := x509.MarshalPKCS1PublicKey(pub)
	sum := sha1.Sum(der)
	return base64.StdEncoding.EncodeToString(sum[:])
}

// verifyDigest implements §4.12 step 5: canonicalize the document
// excluding the Signature subtree, SHA-1 it, and compare to
// Reference.DigestValue.
func verifyDigest(sig *model.Signature) (bool, error) {
	if len(sig.RawXML) == 0 {
		return false, fmt.Errorf("no raw document bytes captured for re-canonicalization")
	}
	canon, err := util.CanonicalizeExcluding(sig.RawXML, "Signature")
	if err != nil {
		return false, err
	}
	sum := sha1.Sum(canon)
	actual := base64.StdEncoding.EncodeToString(sum[:])
	return actual == sig.DigestValue, nil
}

// verifySignatureValue implements §4.12 step 6: canonicalize SignedInfo,
// decode SignatureValue, and verify with RSA-PKCS1-v1.5 using the leaf's
// public key and the schema-selected hash.
func verifySignatureValue(leaf *x509.Certificate, sig *model.Signature) (bool, error) {
	if len(sig.RawXML) == 0 {
		return false, fmt.Errorf("no raw document bytes captured for SignedInfo canonicalization")
	}
	pub, ok := leaf.PublicKey.(*rsa.PublicKey)
	if !ok {
		return false, fmt.Errorf("leaf certificate public key is not RSA")
	}

	signedInfo, err := extractSignedInfo(sig.RawXML)
	if err != nil {
		return false, err
	}
	sigBytes, err := base64.StdEncoding.DecodeString(sig.SignatureValue)
	if err != nil {
		return false, fmt.Errorf("decoding SignatureValue: %w", err)
	}

	var hash crypto.Hash
	var sum []byte
	if bytes.Contains([]byte(sig.SignatureAlgorithm), []byte("sha256")) {
		hash = crypto.SHA256
		h := sha256.Sum256(signedInfo)
		sum = h[:]
	} else {
		hash = crypto.SHA1
		h := sha1.Sum(signedInfo)
		sum = h[:]
	}

	if err := rsa.VerifyPKCS1v15(pub, hash, sum, sigBytes); err != nil {
		return false, nil
	}
	return true, nil
}

// extractSignedInfo pulls the raw <SignedInfo>...</SignedInfo> byte span
// out of the document for canonicalization, avoiding a re-serialization
// round trip that would not byte-match the original producer's output.
func extractSignedInfo(doc []byte) ([]byte, error) {
	start := bytes.Index(doc, []byte("<SignedInfo"))
	if start < 0 {
		return nil, fmt.Errorf("no <SignedInfo> element found")
	}
	end := bytes.Index(doc[start:], []byte("</SignedInfo>"))
	if end < 0 {
		return nil, fmt.Errorf("no closing </SignedInfo> found")
	}
	end += start + len("</SignedInfo>")
	return doc[start:end], nil
}
