package sign

import (
	"testing"
	"time"

	"github.com/Ymagis/ClairMeta/internal/model"
)

func TestVerifyDocumentNoSignatureFails(t *testing.T) {
	res := VerifyDocument(nil, nil, model.SchemaSMPTE, time.Time{})
	if res.ChainValid || res.DigestValid || res.SignatureValid {
		t.Error("expected all-false result for a missing Signer/Signature")
	}
	if len(res.Findings) == 0 {
		t.Error("expected at least one finding explaining the failure")
	}
}

func TestVerifyDocumentEmptyChainFails(t *testing.T) {
	res := VerifyDocument(&model.Signer{}, &model.Signature{}, model.SchemaSMPTE, time.Time{})
	if res.ChainValid {
		t.Error("expected ChainValid=false for an empty certificate chain")
	}
}
