package checks

import (
	"testing"

	"github.com/Ymagis/ClairMeta/internal/model"
)

func TestRunFlagsKeyIdWithoutHash(t *testing.T) {
	keyID := "aaaaaaaa-0000-0000-0000-000000000000"
	asset := &model.Asset{UUID: "bbbbbbbb-0000-0000-0000-000000000000", Kind: model.EssencePicture, KeyId: &keyID}
	reel := &model.Reel{Position: 1, Assets: map[model.EssenceKind]*model.Asset{model.EssencePicture: asset}}
	cpl := &model.CompositionPlaylist{UUID: "cccccccc-0000-0000-0000-000000000000", Reels: []*model.Reel{reel}}
	pkg := &model.Package{CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	var found bool
	for _, e := range execs {
		if e.Name == "check_assets_cpl_hash" && len(e.Errors) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected check_assets_cpl_hash to flag an asset with KeyId but no Hash")
	}
}

func TestRunPassesKeyIdWithHash(t *testing.T) {
	keyID := "aaaaaaaa-0000-0000-0000-000000000000"
	hash := "deadbeef"
	asset := &model.Asset{UUID: "bbbbbbbb-0000-0000-0000-000000000000", Kind: model.EssencePicture, KeyId: &keyID, Hash: &hash}
	reel := &model.Reel{Position: 1, Assets: map[model.EssenceKind]*model.Asset{model.EssencePicture: asset}}
	cpl := &model.CompositionPlaylist{UUID: "cccccccc-0000-0000-0000-000000000000", Reels: []*model.Reel{reel}}
	pkg := &model.Package{CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	for _, e := range execs {
		if e.Name == "check_assets_cpl_hash" && len(e.Errors) > 0 {
			t.Errorf("expected no check_assets_cpl_hash finding when Hash is present, got: %v", e.Errors)
		}
	}
}

func TestCheckCPLReelCoherenceSubNamesMixedAttributes(t *testing.T) {
	cpl := &model.CompositionPlaylist{
		UUID: "cccccccc-0000-0000-0000-000000000000",
		Aggregate: model.Aggregate{
			EditRate:  "24",
			Encrypted: model.Mixed,
		},
	}
	pkg := &model.Package{CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	var subName string
	for _, e := range execs {
		if e.Name != "check_cpl_reel_coherence" {
			continue
		}
		for _, err := range e.Errors {
			if err.SubName == "Encrypted" {
				subName = err.SubName
			}
		}
	}
	if subName != "Encrypted" {
		t.Error("expected check_cpl_reel_coherence to fail with sub-name Encrypted when Encrypted is Mixed")
	}
}
