// Package checks implements C6, the ten domain check modules (§4.3-
// §4.11): general (package-wide), AssetMap, VolumeIndex, PKL, CPL,
// Picture, Sound, Atmos, Subtitle, and ISDCF naming. Every check is registered into
// internal/check's static registry at init time, and this package keeps
// a parallel typed-closure table (Go has no equivalent to a dynamic
// per-method argument binding, so each check's real signature is
// recorded here and RunScope's `build` callback looks it up by name) so
// a check body can take the concrete model types it needs instead of an
// untyped argument bag.
package checks

import (
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// GeneralFunc runs once per Package (§4.3).
type GeneralFunc func(ctx *check.Context, pkg *model.Package)

// CPLFunc runs once per CPL — either once overall (kinds is empty) or
// once per reel-asset tuple whose essence kind is in kinds (§4.1 "the
// driver ... for each CPL runs every *_cpl check once per reel-asset
// tuple (filtered by essence kind ...)").
type CPLFunc func(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset)

// PKLFunc runs once per PackingList (§4.5).
type PKLFunc func(ctx *check.Context, pkl *model.PackingList)

// AssetPKLFunc runs once per PKL asset (§4.5).
type AssetPKLFunc func(ctx *check.Context, pkl *model.PackingList, asset *model.PKLAsset)

// AMFunc runs once per AssetMap (§4.4).
type AMFunc func(ctx *check.Context, am *model.AssetMap)

// AssetAMFunc runs once per AssetMap asset entry (§4.4).
type AssetAMFunc func(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry)

// VolFunc runs once per VolumeIndex.
type VolFunc func(ctx *check.Context, vi *model.VolumeIndex)

type cplRegistration struct {
	fn    CPLFunc
	kinds []model.EssenceKind // empty = once per CPL, not per asset
}

var (
	generalFns  = map[string]GeneralFunc{}
	cplFns      = map[string]cplRegistration{}
	pklFns      = map[string]PKLFunc{}
	assetPKLFns = map[string]AssetPKLFunc{}
	amFns       = map[string]AMFunc{}
	assetAMFns  = map[string]AssetAMFunc{}
	volFns      = map[string]VolFunc{}
)

func registerGeneral(name, doc string, fn GeneralFunc) {
	generalFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeGeneral})
}

// registerCPL registers a whole-playlist CPL check (runs once per CPL,
// not per reel-asset tuple).
func registerCPL(name, doc string, fn CPLFunc) {
	cplFns[name] = cplRegistration{fn: fn}
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeCPL})
}

// registerCPLAsset registers a per-reel-asset CPL check, run once for
// every reel asset whose kind is in kinds.
func registerCPLAsset(name, doc string, kinds []model.EssenceKind, fn CPLFunc) {
	cplFns[name] = cplRegistration{fn: fn, kinds: kinds}
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeCPL})
}

func registerPKL(name, doc string, fn PKLFunc) {
	pklFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopePKL})
}

func registerAssetPKL(name, doc string, fn AssetPKLFunc) {
	assetPKLFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeAssetPKL})
}

func registerAM(name, doc string, fn AMFunc) {
	amFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeAM})
}

func registerAssetAM(name, doc string, fn AssetAMFunc) {
	assetAMFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeAssetAM})
}

func registerVol(name, doc string, fn VolFunc) {
	volFns[name] = fn
	check.Register(check.Check{Name: name, Doc: doc, Scope: check.ScopeVol})
}

func kindMatches(kinds []model.EssenceKind, k model.EssenceKind) bool {
	if len(kinds) == 0 {
		return true
	}
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}
