package checks

import (
	"fmt"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// Run executes every registered check against pkg, in the module order
// of §4.2: general, then per-CPL/per-reel-asset, then per-PKL/per-asset,
// then per-AssetMap/per-asset, then per-VolumeIndex.
func Run(pkg *model.Package, bypass check.BypassList) []*check.Execution {
	var execs []*check.Execution

	execs = append(execs, check.RunScope(check.ScopeGeneral, nil, bypass, func(c check.Check) check.Func {
		fn := generalFns[c.Name]
		return func(ctx *check.Context) { fn(ctx, pkg) }
	})...)

	for _, cpl := range pkg.CPLs {
		execs = append(execs, runCPL(pkg, cpl, bypass)...)
	}

	for _, pkl := range pkg.PKLs {
		stack := []string{"pkl:" + pkl.UUID}
		execs = append(execs, check.RunScope(check.ScopePKL, stack, bypass, func(c check.Check) check.Func {
			fn := pklFns[c.Name]
			return func(ctx *check.Context) { fn(ctx, pkl) }
		})...)

		for _, asset := range pkl.Assets {
			assetStack := append(append([]string{}, stack...), "asset:"+asset.UUID)
			execs = append(execs, check.RunScope(check.ScopeAssetPKL, assetStack, bypass, func(c check.Check) check.Func {
				fn := assetPKLFns[c.Name]
				return func(ctx *check.Context) { fn(ctx, pkl, asset) }
			})...)
		}
	}

	if pkg.AssetMap != nil {
		stack := []string{"assetmap:" + pkg.AssetMap.FileName}
		execs = append(execs, check.RunScope(check.ScopeAM, stack, bypass, func(c check.Check) check.Func {
			fn := amFns[c.Name]
			return func(ctx *check.Context) { fn(ctx, pkg.AssetMap) }
		})...)

		for _, asset := range pkg.AssetMap.Assets {
			assetStack := append(append([]string{}, stack...), "asset:"+asset.UUID)
			execs = append(execs, check.RunScope(check.ScopeAssetAM, assetStack, bypass, func(c check.Check) check.Func {
				fn := assetAMFns[c.Name]
				return func(ctx *check.Context) { fn(ctx, pkg.AssetMap, asset) }
			})...)
		}
	}

	if pkg.VolIndex != nil {
		stack := []string{"volindex:" + pkg.VolIndex.FileName}
		execs = append(execs, check.RunScope(check.ScopeVol, stack, bypass, func(c check.Check) check.Func {
			fn := volFns[c.Name]
			return func(ctx *check.Context) { fn(ctx, pkg.VolIndex) }
		})...)
	}

	return execs
}

func runCPL(pkg *model.Package, cpl *model.CompositionPlaylist, bypass check.BypassList) []*check.Execution {
	var execs []*check.Execution
	cplStack := []string{"cpl:" + cpl.UUID}

	// Whole-playlist checks (kinds empty): run once, asset is nil.
	for _, c := range check.ByScope(check.ScopeCPL) {
		reg, ok := cplFns[c.Name]
		if !ok || len(reg.kinds) > 0 {
			continue
		}
		if bypass.Matches(c.Name) {
			execs = append(execs, check.Bypassed(c, cplStack))
			continue
		}
		bound := c
		bound.Fn = func(ctx *check.Context) { reg.fn(ctx, pkg, cpl, nil, nil) }
		execs = append(execs, check.Run(bound, cplStack))
	}

	for _, reel := range cpl.Reels {
		for kind, asset := range reel.Assets {
			stack := append(append([]string{}, cplStack...),
				fmt.Sprintf("reel:%d", reel.Position), "kind:"+string(kind))

			for _, c := range check.ByScope(check.ScopeCPL) {
				reg, ok := cplFns[c.Name]
				if !ok || len(reg.kinds) == 0 || !kindMatches(reg.kinds, kind) {
					continue
				}
				if bypass.Matches(c.Name) {
					execs = append(execs, check.Bypassed(c, stack))
					continue
				}
				bound := c
				bound.Fn = func(ctx *check.Context) { reg.fn(ctx, pkg, cpl, reel, asset) }
				execs = append(execs, check.Run(bound, stack))
			}
		}
	}

	return execs
}
