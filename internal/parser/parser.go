// Package parser implements C4: the ordered, soft-failing directory
// parse described in the design's package-parser component — walk,
// AssetMap, VolumeIndex, PKL, CPL (+ back-reference to its owning PKL),
// KDM decryption, per-asset MXF probing, and per-CPL aggregate folding.
// Shaped after a probe-then-assemble pipeline (probe, analyze, then
// assemble a result struct) generalized from a single ffprobe
// invocation to an eight-phase multi-descriptor walk.
package parser

import (
	"context"
	"crypto/rsa"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/probe"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// maxConcurrentProbes bounds how many essence files are probed at once —
// each probe shells out to an external binary, so this also bounds the
// number of child processes running concurrently.
const maxConcurrentProbes = 4

// Options configures a Parse call.
type Options struct {
	// OVPath, if set, is the root of a companion OV package used to
	// resolve assets this (VF) package does not carry locally (§4.1
	// step 5, §4.3 general check).
	OVPath string

	// KDMPaths are KDM XML files to parse alongside the package.
	KDMPaths []string

	// PrivateKey decrypts each KDM's wrapped content keys, if supplied.
	PrivateKey *rsa.PrivateKey

	// ProbeRunner executes the external essence probes (§4.1 step 7).
	// If nil, step 7 is skipped and assets carry no Probe record.
	ProbeRunner *probe.Runner

	// HashProgress is forwarded to util.SHA1Base64 during PKL hash
	// checks performed later by the check framework, not by the parser
	// itself — kept here so callers can configure both from one place.
	HashProgress util.ProgressFunc

	Logger zerolog.Logger
}

// Parse implements the full ordered phase list of §4.1 against the
// directory at root.
func Parse(ctx context.Context, root string, opts Options) (*model.Package, error) {
	files, _, err := walkFiles(root)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	pkg := &model.Package{
		Path:     root,
		AllFiles: files,
		Type:     model.PackageOV,
	}

	var amPaths, volPaths, pklPaths, cplPaths []string
	for _, rel := range files {
		if !strings.HasSuffix(strings.ToLower(rel), ".xml") && classifyByBasename(filepath.Base(rel)) == descriptorNone {
			continue
		}
		base := filepath.Base(rel)
		kind := classifyByBasename(base)
		if kind == descriptorNone {
			rootElem, rerr := util.RootElement(filepath.Join(root, rel))
			if rerr != nil {
				continue
			}
			kind = classifyByRootElement(rootElem)
		}
		switch kind {
		case descriptorAssetMap:
			amPaths = append(amPaths, rel)
		case descriptorVolumeIndex:
			volPaths = append(volPaths, rel)
		case descriptorPKL:
			pklPaths = append(pklPaths, rel)
		case descriptorCPL:
			cplPaths = append(cplPaths, rel)
		}
	}

	// Step 2: AssetMap (soft-fail: multiple/missing recorded, not fatal).
	for _, rel := range amPaths {
		am, err := parseAssetMap(root, rel)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("path", rel).Msg("failed to parse AssetMap")
			continue
		}
		if pkg.AssetMap == nil {
			pkg.AssetMap = am
		}
	}
	pkg.Schema = model.SchemaUnknown
	if pkg.AssetMap != nil {
		pkg.Schema = pkg.AssetMap.Schema
	}

	// Step 3: VolumeIndex.
	for _, rel := range volPaths {
		vi, err := parseVolumeIndex(root, rel)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("path", rel).Msg("failed to parse VolumeIndex")
			continue
		}
		if pkg.VolIndex == nil {
			pkg.VolIndex = vi
		}
	}

	// Step 4: PackingLists.
	for _, rel := range pklPaths {
		pkl, err := parsePackingList(root, rel, pkg.AssetMap)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("path", rel).Msg("failed to parse PackingList")
			continue
		}
		pkg.PKLs = append(pkg.PKLs, pkl)
	}

	// Step 5: CompositionPlaylists, + PKL back-reference + VF detection.
	for _, rel := range cplPaths {
		cpl, unresolved, err := parseCompositionPlaylist(root, rel, pkg.AssetMap)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("path", rel).Msg("failed to parse CompositionPlaylist")
			continue
		}
		if unresolved {
			pkg.Type = model.PackageVF
		}
		for _, pkl := range pkg.PKLs {
			if _, ok := pkl.ReferencesUUID(cpl.UUID); ok {
				cpl.PKLId = pkl.UUID
				break
			}
		}
		pkg.CPLs = append(pkg.CPLs, cpl)
	}

	// Step 6: KDMs.
	for _, kdmPath := range opts.KDMPaths {
		kdm, err := parseKDM(filepath.Dir(kdmPath), filepath.Base(kdmPath), opts.PrivateKey)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("path", kdmPath).Msg("failed to parse KDM")
			continue
		}
		pkg.KDMs = append(pkg.KDMs, kdm)
	}

	// §4.3 "no foreign files": every regular file that isn't the
	// AssetMap/VolumeIndex descriptor itself or the resolved path of an
	// AssetMap entry.
	pkg.ForeignFiles = computeForeignFiles(pkg)

	// Step 6b: OV companion, resolved once the local package is fully
	// parsed (so VF detection above already ran).
	if opts.OVPath != "" {
		ov, err := Parse(ctx, opts.OVPath, Options{Logger: opts.Logger, ProbeRunner: opts.ProbeRunner})
		if err != nil {
			return nil, fmt.Errorf("parsing OV package %s: %w", opts.OVPath, err)
		}
		pkg.OV = ov
		resolveAgainstOV(pkg, ov)
	}

	// Step 7: probe every MXF-backed reel asset.
	if opts.ProbeRunner != nil {
		probeAssets(ctx, pkg, opts)
	}

	// Step 8: per-CPL aggregates, recomputed now that Probe records (and
	// OV-resolved paths) are attached.
	for _, cpl := range pkg.CPLs {
		model.ComputeAggregate(cpl)
	}

	return pkg, nil
}

func computeForeignFiles(pkg *model.Package) []string {
	known := make(map[string]bool)
	if pkg.AssetMap != nil {
		known[pkg.AssetMap.Path] = true
		for _, a := range pkg.AssetMap.Assets {
			known[a.Path] = true
		}
	}
	if pkg.VolIndex != nil {
		known[pkg.VolIndex.Path] = true
	}
	for _, pkl := range pkg.PKLs {
		known[pkl.Path] = true
	}
	for _, cpl := range pkg.CPLs {
		known[cpl.Path] = true
	}

	var foreign []string
	for _, rel := range pkg.AllFiles {
		if !known[rel] {
			foreign = append(foreign, rel)
		}
	}
	return foreign
}

// resolveAgainstOV fills in AbsolutePath for any reel asset this (VF)
// package could not resolve locally, using the OV's AssetMap (§4.1 step
// 5, §4.3).
func resolveAgainstOV(pkg, ov *model.Package) {
	if ov.AssetMap == nil {
		return
	}
	for _, cpl := range pkg.CPLs {
		for _, reel := range cpl.Reels {
			for _, asset := range reel.Assets {
				if asset.AbsolutePath != "" {
					continue
				}
				if entry := ov.AssetMap.Resolve(asset.UUID); entry != nil {
					asset.Path = entry.Path
					asset.AbsolutePath = entry.AbsolutePath
				}
			}
		}
	}
}

// probeAssets runs the external probe driver over every reel asset
// backed by an on-disk file, attaching the resulting model.Probe. Assets
// are probed concurrently, bounded by maxConcurrentProbes, using
// golang.org/x/sync/errgroup the way a fan-out-over-independent-items
// stage is usually built in Go: each asset's probe failure is logged and
// skipped rather than aborting the whole package (§4.1 step 7 is
// soft-failing, matching the rest of the parse pipeline).
func probeAssets(ctx context.Context, pkg *model.Package, opts Options) {
	mxfDriver := probe.NewMXFDriver("")
	ttDriver := probe.NewTimedTextDriver()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentProbes)

	for _, cpl := range pkg.CPLs {
		for _, reel := range cpl.Reels {
			for _, asset := range reel.Assets {
				asset := asset
				if asset.AbsolutePath == "" {
					continue
				}
				g.Go(func() error {
					probeCtx, cancel := context.WithTimeout(gctx, 5*time.Minute)
					defer cancel()

					var p *model.Probe
					var err error
					if asset.Kind == model.EssenceSubtitle || asset.Kind == model.EssenceClosedCaption {
						if strings.HasSuffix(strings.ToLower(asset.AbsolutePath), ".xml") {
							p, err = ttDriver.ProbeFile(asset.AbsolutePath)
						} else {
							p, err = opts.ProbeRunner.Probe(probeCtx, mxfDriver, asset.AbsolutePath)
						}
					} else {
						p, err = opts.ProbeRunner.Probe(probeCtx, mxfDriver, asset.AbsolutePath)
					}
					if err != nil {
						opts.Logger.Warn().Err(err).Str("asset", asset.UUID).Msg("probe failed")
						return nil
					}
					asset.Probe = p
					return nil
				})
			}
		}
	}

	// Errors are handled per-asset above; Wait only propagates ctx
	// cancellation, which callers already check via ctx.Err().
	_ = g.Wait()
}
