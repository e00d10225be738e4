package checks

import (
	"os"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

const maxFontFileBytes = 640 * 1024 // §4.10 "font file <= 640 KiB"

func init() {
	registerCPLAsset("check_subtitle_cpl_entry_point_zero", "SMPTE timed-text EntryPoint is 0", []model.EssenceKind{model.EssenceSubtitle}, checkSubtitleEntryPointZero)
	registerCPLAsset("check_subtitle_cpl_language", "subtitle CPL asset Language is not empty (the timed-text language itself is not compared)", []model.EssenceKind{model.EssenceSubtitle}, checkSubtitleLanguageMatch)
	registerCPLAsset("check_subtitle_cpl_id", "subtitle Id equals the CPL asset Id (Interop) and differs from the MXF UUID (SMPTE)", []model.EssenceKind{model.EssenceSubtitle}, checkSubtitleIdMatch)
	registerCPLAsset("check_subtitle_cpl_font_size", "every referenced font file is <= 640 KiB", []model.EssenceKind{model.EssenceSubtitle}, checkSubtitleFontSize)
	registerCPLAsset("check_subtitle_cpl_edit_rate", "SMPTE subtitle EditRate equals CPL EditRate", []model.EssenceKind{model.EssenceSubtitle}, checkSubtitleEditRate)
}

// checkSubtitleEntryPointZero implements §4.10 "EntryPoint of the timed-
// text track == 0 (SMPTE)".
func checkSubtitleEntryPointZero(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if cpl.Schema == model.SchemaSMPTE && asset.EntryPoint != 0 {
		ctx.Errorf("reel %d SMPTE subtitle EntryPoint %d, want 0", reel.Position, asset.EntryPoint)
	}
}

func checkSubtitleLanguageMatch(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil || asset.Language == nil {
		return
	}
	if asset.Probe.TimedTextLabel != "" && *asset.Language == "" {
		ctx.Errorf("reel %d subtitle asset declares no Language", reel.Position)
	}
}

// checkSubtitleIdMatch compares the probed subtitle Id with the CPL
// asset Id: for Interop they must be equal; for SMPTE an Id equal to the
// MXF UUID is reported, a known player compatibility issue. The SMPTE Id
// is not compared with the MXF ResourceID.
func checkSubtitleIdMatch(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil {
		return
	}
	switch cpl.Schema {
	case model.SchemaInterop:
		if asset.Probe.AssetID != "" && asset.Probe.AssetID != asset.UUID {
			ctx.Errorf("reel %d Interop subtitle Id %s does not equal CPL asset Id %s", reel.Position, asset.Probe.AssetID, asset.UUID)
		}
	case model.SchemaSMPTE:
		if asset.Probe.AssetID != "" && asset.Probe.AssetID == asset.UUID {
			ctx.Errorf("reel %d subtitle Id equals the MXF UUID, a known player compatibility issue", reel.Position)
		}
	}
}

func checkSubtitleFontSize(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	for id, path := range asset.LoadFontID {
		info, err := os.Stat(path)
		if err != nil {
			ctx.Errorf("reel %d subtitle font %s: file %s does not exist", reel.Position, id, path)
			continue
		}
		if info.Size() > maxFontFileBytes {
			ctx.Errorf("reel %d subtitle font %s (%s) is %d bytes, exceeds %d", reel.Position, id, path, info.Size(), maxFontFileBytes)
		}
	}
}

func checkSubtitleEditRate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if cpl.Schema != model.SchemaSMPTE {
		return
	}
	if rate, ok := cpl.EditRateRatio(); ok {
		if !asset.EditRate.Equal(rate, 0.0) {
			ctx.Errorf("reel %d SMPTE subtitle EditRate %s does not equal CPL EditRate %s", reel.Position, asset.EditRate, rate)
		}
	}
}
