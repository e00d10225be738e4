package parser

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"time"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

const (
	nsPKLInterop = "http://www.digicine.com/PROTO-ASDCP-PKL-20040311#"
	nsPKLSMPTE   = "http://www.smpte-ra.org/schemas/429-8/2007/PKL"
)

// parsePackingList implements §4.1 step 4: parse the descriptor and
// resolve each asset's path against the AssetMap index.
func parsePackingList(root, rel string, am *model.AssetMap) (*model.PackingList, error) {
	abs := filepath.Join(root, rel)
	ns, err := util.Namespace(abs)
	if err != nil {
		return nil, err
	}

	var doc xmlPKL
	if err := util.Decode(abs, &doc); err != nil {
		return nil, err
	}

	pkl := &model.PackingList{
		UUID:    util.StripURN(doc.Id),
		Path:    rel,
		Schema:  schemaFromNamespace(ns, nsPKLInterop, nsPKLSMPTE),
		Creator: doc.Creator,
		Issuer:  doc.Issuer,
	}
	if t, err := parseIssueDate(doc.IssueDate); err == nil {
		pkl.IssueDate = t
	}
	pkl.Signer = convertSigner(doc.Signer, doc.Signature)
	pkl.Signature = convertSignature(doc.Signature)
	if pkl.Signature != nil {
		if raw, err := os.ReadFile(abs); err == nil {
			pkl.Signature.RawXML = raw
		}
	}

	for _, a := range doc.AssetList {
		asset := &model.PKLAsset{
			UUID:     util.StripURN(a.Id),
			Hash:     a.Hash,
			Size:     a.Size,
			MIMEType: a.MIMEType,
		}
		if am != nil {
			if entry := am.Resolve(asset.UUID); entry != nil {
				p := entry.AbsolutePath
				asset.Path = &p
			}
		}
		pkl.Assets = append(pkl.Assets, asset)
	}
	pkl.BuildIndex()
	return pkl, nil
}

func parseIssueDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyDate
	}
	return time.Parse(time.RFC3339, s)
}

var errEmptyDate = &emptyDateError{}

type emptyDateError struct{}

func (*emptyDateError) Error() string { return "empty IssueDate" }

func convertSigner(s *xmlSigner, sig *xmlSignature) *model.Signer {
	if s == nil {
		return nil
	}
	signer := &model.Signer{
		X509IssuerName:   s.X509IssuerSerial.X509IssuerName,
		X509SerialNumber: s.X509IssuerSerial.X509SerialNumber,
	}
	if sig != nil {
		signer.Certificates = decodeCertificates(sig.KeyInfo.X509Data.X509Certificates)
	}
	return signer
}

func convertSignature(s *xmlSignature) *model.Signature {
	if s == nil {
		return nil
	}
	sig := &model.Signature{
		CanonicalizationAlgorithm: s.SignedInfo.CanonicalizationMethod.Algorithm,
		SignatureAlgorithm:        s.SignedInfo.SignatureMethod.Algorithm,
		DigestAlgorithm:           s.SignedInfo.Reference.DigestMethod.Algorithm,
		DigestValue:               s.SignedInfo.Reference.DigestValue,
		SignatureValue:            s.SignatureValue,
	}
	return sig
}

func decodeCertificates(certs []string) [][]byte {
	var out [][]byte
	for _, c := range certs {
		der, err := base64.StdEncoding.DecodeString(c)
		if err != nil {
			continue
		}
		out = append(out, der)
	}
	return out
}
