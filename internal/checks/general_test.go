package checks

import (
	"testing"

	"github.com/Ymagis/ClairMeta/internal/model"
)

func TestRunFlagsVFAssetUnresolvedWithoutOV(t *testing.T) {
	asset := &model.Asset{UUID: "aaaaaaaa-0000-0000-0000-000000000000", Kind: model.EssencePicture}
	reel := &model.Reel{Position: 1, Assets: map[model.EssenceKind]*model.Asset{model.EssencePicture: asset}}
	cpl := &model.CompositionPlaylist{UUID: "bbbbbbbb-0000-0000-0000-000000000000", Reels: []*model.Reel{reel}}
	pkg := &model.Package{Type: model.PackageVF, CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	var found bool
	for _, e := range execs {
		if e.Name == "check_assets_cpl_missing_from_vf" && len(e.Errors) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected check_assets_cpl_missing_from_vf to flag a reel asset with no AbsolutePath and no OV supplied")
	}
}

func TestRunPassesVFAssetResolvedLocally(t *testing.T) {
	asset := &model.Asset{UUID: "aaaaaaaa-0000-0000-0000-000000000000", Kind: model.EssencePicture, AbsolutePath: "/dcp/reel1.mxf"}
	reel := &model.Reel{Position: 1, Assets: map[model.EssenceKind]*model.Asset{model.EssencePicture: asset}}
	cpl := &model.CompositionPlaylist{UUID: "bbbbbbbb-0000-0000-0000-000000000000", Reels: []*model.Reel{reel}}
	pkg := &model.Package{Type: model.PackageVF, CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	for _, e := range execs {
		if e.Name == "check_assets_cpl_missing_from_vf" && len(e.Errors) > 0 {
			t.Errorf("expected no check_assets_cpl_missing_from_vf finding, got: %v", e.Errors)
		}
	}
}

func TestRunOVResolutionFlagsMismatchedPackageTypes(t *testing.T) {
	ov := &model.Package{Type: model.PackageVF}
	pkg := &model.Package{Type: model.PackageOV, OV: ov}

	execs := Run(pkg, nil)

	var found bool
	for _, e := range execs {
		if e.Name == "check_general_ov_resolution" && len(e.Errors) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected check_general_ov_resolution to flag a package/OV type mismatch")
	}
}

func TestRunOVResolutionSkippedWithoutOV(t *testing.T) {
	pkg := &model.Package{Type: model.PackageOV}

	execs := Run(pkg, nil)

	for _, e := range execs {
		if e.Name == "check_general_ov_resolution" && len(e.Errors) > 0 {
			t.Errorf("expected no check_general_ov_resolution finding without an OV companion, got: %v", e.Errors)
		}
	}
}
