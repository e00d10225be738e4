package checks

import (
	"strings"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

const maxPathLen = 100
const maxPathSegments = 10
const maxSegmentLen = 100

func init() {
	registerAM("check_am_filename", "AssetMap filename matches its schema", checkAMFilename)
	registerAM("check_am_volume_count", "SMPTE AssetMap declares VolumeCount == 1", checkAMVolumeCount)
	registerAM("check_am_creator", "AssetMap Creator is populated", checkAMCreator)
	registerAssetAM("check_assets_am_uuid", "AssetMap entry UUID is RFC-4122", checkAssetAMUUID)
	registerAssetAM("check_assets_am_volindex", "AssetMap entry VolumeIndex is absent or 1", checkAssetAMVolumeIndex)
	registerAssetAM("check_assets_am_path", "AssetMap entry path is well formed", checkAssetAMPath)
	registerAssetAM("check_assets_am_chunk_offset", "AssetMap entry ChunkOffset is absent or 0", checkAssetAMChunkOffset)
	registerAssetAM("check_assets_am_size", "on-disk size matches the declared Length", checkAssetAMSize)
}

func checkAMFilename(ctx *check.Context, am *model.AssetMap) {
	switch am.Schema {
	case model.SchemaInterop:
		if am.FileName != "ASSETMAP" {
			ctx.Errorf("Interop AssetMap filename must be ASSETMAP, got %s", am.FileName)
		}
	case model.SchemaSMPTE:
		if am.FileName != "ASSETMAP.xml" {
			ctx.Errorf("SMPTE AssetMap filename must be ASSETMAP.xml, got %s", am.FileName)
		}
	}
}

func checkAMVolumeCount(ctx *check.Context, am *model.AssetMap) {
	if am.Schema == model.SchemaSMPTE && am.VolumeCount != 1 {
		ctx.Errorf("SMPTE AssetMap VolumeCount must be 1, got %d", am.VolumeCount)
	}
}

func checkAMCreator(ctx *check.Context, am *model.AssetMap) {
	if strings.TrimSpace(am.Creator) == "" {
		ctx.Error("AssetMap Creator field is empty")
	}
}

func checkAssetAMUUID(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry) {
	if !util.IsRFC4122(asset.UUID) {
		ctx.Errorf("AssetMap entry UUID is not RFC-4122: %s", asset.UUID)
	}
}

func checkAssetAMVolumeIndex(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry) {
	if asset.VolumeIndex != 0 && asset.VolumeIndex != 1 {
		ctx.Errorf("asset %s VolumeIndex must be absent or 1, got %d", asset.UUID, asset.VolumeIndex)
	}
}

func checkAssetAMPath(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry) {
	p := asset.Path
	if p == "" {
		ctx.Errorf("asset %s has no path", asset.UUID)
		return
	}
	if strings.Contains(p, " ") {
		ctx.Errorf("asset %s path contains spaces: %s", asset.UUID, p)
	}
	if len(p) > maxPathLen {
		ctx.Errorf("asset %s path exceeds %d characters: %s", asset.UUID, maxPathLen, p)
	}
	if strings.Contains(p, "..") {
		ctx.Errorf("asset %s path escapes the package root: %s", asset.UUID, p)
	}
	segments := strings.Split(p, "/")
	if len(segments) > maxPathSegments {
		ctx.Errorf("asset %s path has more than %d segments: %s", asset.UUID, maxPathSegments, p)
	}
	for _, seg := range segments {
		if len(seg) > maxSegmentLen {
			ctx.Errorf("asset %s path segment exceeds %d characters: %s", asset.UUID, maxSegmentLen, seg)
		}
		for _, r := range seg {
			if !isAllowedPathRune(r) {
				ctx.Errorf("asset %s path contains a disallowed character %q: %s", asset.UUID, r, p)
				break
			}
		}
	}
}

func isAllowedPathRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	default:
		return false
	}
}

func checkAssetAMChunkOffset(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry) {
	if asset.ChunkOffset != 0 {
		ctx.Errorf("asset %s ChunkOffset must be absent or 0, got %d", asset.UUID, asset.ChunkOffset)
	}
}

func checkAssetAMSize(ctx *check.Context, am *model.AssetMap, asset *model.AssetMapEntry) {
	if asset.AbsolutePath == "" {
		return
	}
	size, err := util.FileSize(asset.AbsolutePath)
	if err != nil {
		ctx.Errorf("asset %s: cannot stat %s: %v", asset.UUID, asset.AbsolutePath, err)
		return
	}
	if size != asset.Length {
		ctx.Errorf("asset %s on-disk size %d does not match declared Length %d", asset.UUID, size, asset.Length)
	}
}
