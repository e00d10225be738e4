package parser

import (
	"os"
	"path/filepath"

	"github.com/Ymagis/ClairMeta/internal/isdcf"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

const (
	nsCPLInterop = "http://www.digicine.com/PROTO-ASDCP-CPL-20040511#"
	nsCPLSMPTE   = "http://www.smpte-ra.org/schemas/429-7/2006/CPL"
)

// parseCompositionPlaylist implements §4.1 step 5: parse the descriptor,
// resolve each reel asset's absolute path via the AssetMap index
// (marking the package VF if anything is unresolved), and run the ISDCF
// naming parser over ContentTitle.
func parseCompositionPlaylist(root, rel string, am *model.AssetMap) (cpl *model.CompositionPlaylist, unresolved bool, err error) {
	abs := filepath.Join(root, rel)
	ns, err := util.Namespace(abs)
	if err != nil {
		return nil, false, err
	}

	var doc xmlCPL
	if err := util.Decode(abs, &doc); err != nil {
		return nil, false, err
	}

	cpl = &model.CompositionPlaylist{
		UUID:           util.StripURN(doc.Id),
		Path:           rel,
		Schema:         schemaFromNamespace(ns, nsCPLInterop, nsCPLSMPTE),
		ContentTitle:   doc.ContentTitle,
		AnnotationText: doc.AnnotationText,
		Creator:        doc.Creator,
		Issuer:         doc.Issuer,
	}
	if t, derr := parseIssueDate(doc.IssueDate); derr == nil {
		cpl.IssueDate = t
	}
	cpl.Signer = convertSigner(doc.Signer, doc.Signature)
	cpl.Signature = convertSignature(doc.Signature)
	if cpl.Signature != nil {
		if raw, rerr := os.ReadFile(abs); rerr == nil {
			cpl.Signature.RawXML = raw
		}
	}
	cpl.ISDCF = isdcf.Parse(doc.ContentTitle)

	var runningEntry int64
	for i, r := range doc.ReelList {
		reel := &model.Reel{
			Position: i + 1,
			UUID:     util.StripURN(r.Id),
			Assets:   make(map[model.EssenceKind]*model.Asset),
		}

		entries := reelAssetEntries(r.Assets)
		for kind, raw := range entries {
			asset, resolvedOK := buildAsset(raw, kind, am)
			if !resolvedOK {
				unresolved = true
			}
			if kind == model.EssencePicture {
				asset.CPLEntryPoint = runningEntry
				asset.CPLOutPoint = runningEntry + asset.Duration
				runningEntry += asset.Duration
			}
			reel.Assets[kind] = asset
		}
		cpl.Reels = append(cpl.Reels, reel)
	}

	model.ComputeAggregate(cpl)
	return cpl, unresolved, nil
}

// reelAssetEntries flattens a reel's AssetList into a kind->raw map;
// stereoscopic picture takes priority over 2D MainPicture when both
// (invalidly) appear.
func reelAssetEntries(al xmlAssetList) map[model.EssenceKind]*xmlCPLAsset {
	m := make(map[model.EssenceKind]*xmlCPLAsset)
	if al.MainPicture != nil {
		m[model.EssencePicture] = al.MainPicture
	}
	if al.MainStereoscopicPicture != nil {
		m[model.EssencePicture] = al.MainStereoscopicPicture
	}
	if al.MainSound != nil {
		m[model.EssenceSound] = al.MainSound
	}
	if al.AuxData != nil {
		m[model.EssenceAuxData] = al.AuxData
	}
	if al.MainSubtitle != nil {
		m[model.EssenceSubtitle] = al.MainSubtitle
	}
	if al.ClosedCaption != nil {
		m[model.EssenceClosedCaption] = al.ClosedCaption
	}
	if al.MainClosedCaption != nil {
		m[model.EssenceClosedCaption] = al.MainClosedCaption
	}
	if al.MainMarkers != nil {
		m[model.EssenceMarkers] = al.MainMarkers
	}
	return m
}

func buildAsset(raw *xmlCPLAsset, kind model.EssenceKind, am *model.AssetMap) (asset *model.Asset, resolved bool) {
	asset = &model.Asset{
		UUID:              util.StripURN(raw.Id),
		Kind:              kind,
		EntryPoint:        raw.EntryPoint,
		Duration:          raw.Duration,
		IntrinsicDuration: raw.IntrinsicDuration,
	}
	if raw.EditRate != "" {
		if r, err := util.ParseRatio(raw.EditRate); err == nil {
			asset.EditRate = r
		}
	}
	if raw.FrameRate != "" {
		if r, err := util.ParseRatio(raw.FrameRate); err == nil {
			asset.FrameRate = &r
		}
	}
	if raw.KeyId != "" {
		kid := util.StripURN(raw.KeyId)
		asset.KeyId = &kid
	}
	if raw.Hash != "" {
		h := raw.Hash
		asset.Hash = &h
	}
	if raw.Language != "" {
		lang := raw.Language
		asset.Language = &lang
	}
	if raw.ScreenAspectRatio != "" {
		if r, err := util.ParseRatio(raw.ScreenAspectRatio); err == nil {
			f := r.Float()
			asset.ScreenAspectRatio = &f
		}
	}
	if raw.SamplingRate != "" {
		if r, err := util.ParseRatio(raw.SamplingRate); err == nil {
			asset.SamplingRate = int(r.Float())
		}
	}

	if am != nil {
		if entry := am.Resolve(asset.UUID); entry != nil {
			asset.Path = entry.Path
			asset.AbsolutePath = entry.AbsolutePath
			return asset, true
		}
	}
	return asset, false
}
