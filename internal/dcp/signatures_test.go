package dcp

import (
	"testing"
	"time"

	"github.com/Ymagis/ClairMeta/internal/model"
)

func TestVerifySignaturesUsesUnifiedCheckName(t *testing.T) {
	cpl := &model.CompositionPlaylist{
		UUID:      "11111111-1111-1111-1111-111111111111",
		Signer:    &model.Signer{},
		Signature: &model.Signature{},
		IssueDate: time.Now(),
	}
	pkl := &model.PackingList{
		UUID:      "22222222-2222-2222-2222-222222222222",
		Signer:    &model.Signer{},
		Signature: &model.Signature{},
		IssueDate: time.Now(),
	}
	pkg := &model.Package{
		CPLs: []*model.CompositionPlaylist{cpl},
		PKLs: []*model.PackingList{pkl},
	}

	execs := verifySignatures(pkg)
	if len(execs) != 2 {
		t.Fatalf("expected 2 executions, got %d", len(execs))
	}

	var sawCPLStack, sawPKLStack bool
	for _, e := range execs {
		if e.Name != "check_dcp_signed" {
			t.Errorf("execution name = %q, want check_dcp_signed", e.Name)
		}
		if len(e.AssetStack) == 1 && e.AssetStack[0] == "cpl:"+cpl.UUID {
			sawCPLStack = true
		}
		if len(e.AssetStack) == 1 && e.AssetStack[0] == "pkl:"+pkl.UUID {
			sawPKLStack = true
		}
	}
	if !sawCPLStack || !sawPKLStack {
		t.Error("expected CPL and PKL executions to remain distinguishable via AssetStack")
	}
}
