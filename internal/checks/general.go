package checks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

func init() {
	registerGeneral("check_general_no_hidden_files", "no hidden files", checkNoHiddenFiles)
	registerGeneral("check_general_no_foreign_files", "no foreign files", checkNoForeignFiles)
	registerGeneral("check_general_assetmap_exists", "exactly one AssetMap", checkSingleAssetMap)
	registerGeneral("check_general_volindex_exists", "exactly one VolumeIndex", checkSingleVolumeIndex)
	registerGeneral("check_general_encrypted_cpl_signed", "encrypted CPLs carry a signature", checkEncryptedCPLSigned)
	registerGeneral("check_general_ov_resolution", "an OV companion resolves every asset this VF is missing", checkOVResolution)

	registerCPLAsset("check_assets_cpl_missing_from_vf", "every reel asset resolves to an on-disk file, locally or via -ov",
		[]model.EssenceKind{model.EssencePicture, model.EssenceSound, model.EssenceAuxData, model.EssenceSubtitle, model.EssenceClosedCaption, model.EssenceOpenCaption},
		checkAssetMissingFromVF)
}

// checkNoHiddenFiles implements §4.3 "No hidden files (basename starting
// with '.')".
func checkNoHiddenFiles(ctx *check.Context, pkg *model.Package) {
	for _, rel := range pkg.AllFiles {
		if strings.HasPrefix(filepath.Base(rel), ".") {
			ctx.Errorf("hidden file found: %s", rel)
		}
	}
}

// checkNoForeignFiles implements §4.3 "No foreign files": every regular
// file must be either an AssetMap-resolved path, the VolumeIndex path,
// or the AssetMap path itself, unless the profile allows it explicitly.
// The facade (dcp.CheckPackage) removes the profile's allowed files from
// the ForeignFiles list it hands to the checks, so every file left in
// that list is reported here.
func checkNoForeignFiles(ctx *check.Context, pkg *model.Package) {
	for _, rel := range pkg.ForeignFiles {
		ctx.Errorf("foreign file not referenced by any descriptor: %s", rel)
	}
}

func checkSingleAssetMap(ctx *check.Context, pkg *model.Package) {
	if pkg.AssetMap == nil {
		ctx.Fatal("no AssetMap found in package")
	}
}

func checkSingleVolumeIndex(ctx *check.Context, pkg *model.Package) {
	if pkg.VolIndex == nil {
		ctx.Error("no VolumeIndex found in package")
	}
}

// checkEncryptedCPLSigned implements §4.3 "Every CPL whose Encrypted
// aggregate is true must carry Signer+Signature in both its CPL XML and
// its PKL XML."
func checkEncryptedCPLSigned(ctx *check.Context, pkg *model.Package) {
	for _, cpl := range pkg.CPLs {
		if !cpl.IsEncrypted() {
			continue
		}
		if cpl.Signer == nil || cpl.Signature == nil {
			ctx.Errorf("encrypted CPL %s is missing Signer/Signature", cpl.UUID)
		}

		var pkl *model.PackingList
		for _, p := range pkg.PKLs {
			if p.UUID == cpl.PKLId {
				pkl = p
				break
			}
		}
		if pkl == nil {
			ctx.Errorf("encrypted CPL %s has no resolvable owning PKL to check for a signature", cpl.UUID)
			continue
		}
		if pkl.Signer == nil || pkl.Signature == nil {
			ctx.Errorf("encrypted CPL %s's owning PKL %s is missing Signer/Signature", cpl.UUID, pkl.UUID)
		}
	}
}

// checkOVResolution implements §4.3 "if the caller supplied an OV path,
// this package must be VF and the OV must be OV; for every CPL asset
// unresolved locally, the OV AssetMap must resolve it; the resolved
// file must exist". Re-probing the OV-resolved asset is handled by the
// parser itself: resolveAgainstOV fills in AbsolutePath before probing
// runs, so the Probe attached to the asset already reflects the OV file.
func checkOVResolution(ctx *check.Context, pkg *model.Package) {
	if pkg.OV == nil {
		return
	}
	if pkg.Type != model.PackageVF {
		ctx.Errorf("an OV companion was supplied but this package is not VF (type=%s)", pkg.Type)
	}
	if pkg.OV.Type != model.PackageOV {
		ctx.Errorf("the supplied OV companion is not itself OV (type=%s)", pkg.OV.Type)
	}
	for _, cpl := range pkg.CPLs {
		for _, reel := range cpl.Reels {
			for _, asset := range reel.Assets {
				if asset.AbsolutePath == "" {
					ctx.Errorf("reel %d asset %s could not be resolved against the OV AssetMap either", reel.Position, asset.UUID)
					continue
				}
				if _, err := os.Stat(asset.AbsolutePath); err != nil {
					ctx.Errorf("reel %d asset %s resolved to %s, which does not exist on disk", reel.Position, asset.UUID, asset.AbsolutePath)
				}
			}
		}
	}
}

// checkAssetMissingFromVF implements §4.3/§8: a reel asset that has no
// AbsolutePath after parsing (no local file, and no -ov resolved it) is
// a VF check failure regardless of whether an OV companion was ever
// supplied.
func checkAssetMissingFromVF(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.AbsolutePath == "" {
		ctx.Errorf("reel %d asset %s (%s) is missing from this VF and no -ov resolved it", reel.Position, asset.UUID, asset.Kind)
	}
}
