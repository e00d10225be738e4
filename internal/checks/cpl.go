package checks

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

func init() {
	registerCPL("check_cpl_uuid", "CPL UUID is RFC-4122", checkCPLUUID)
	registerCPL("check_cpl_issue_date", "CPL IssueDate is not in the future", checkCPLIssueDate)
	registerCPL("check_cpl_referenced_by_pkl", "CPL is referenced by some PKL", checkCPLReferencedByPKL)
	registerCPL("check_cpl_reel_coherence", "reel-to-reel picture/sound attributes agree", checkCPLReelCoherence)
	registerCPL("check_cpl_reel_duration", "every reel's cut sums are coherent", checkCPLReelDuration)
	registerCPL("check_cpl_timed_text_all_or_none", "timed-text presence is all-or-none across reels", checkCPLTimedTextAllOrNone)

	registerCPLAsset("check_assets_cpl_hash", "an encrypted asset (KeyId present) carries a Hash", []model.EssenceKind{model.EssencePicture, model.EssenceSound}, checkAssetEncryptedKeyId)
	registerCPLAsset("check_cpl_asset_mxf_coherence", "MXF probe and CPL entry agree (edit rate, sound sampling rate, encryption)", []model.EssenceKind{model.EssencePicture, model.EssenceSound}, checkAssetMXFCoherence)
	registerCPLAsset("check_cpl_asset_picture_min_duration", "picture reel lasts at least 1 second", []model.EssenceKind{model.EssencePicture}, checkAssetPictureMinDuration)
}

func checkCPLUUID(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if !util.IsRFC4122(cpl.UUID) {
		ctx.Errorf("CPL UUID is not RFC-4122: %s", cpl.UUID)
	}
}

func checkCPLIssueDate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.IssueDate.IsZero() {
		ctx.Error("CPL IssueDate could not be parsed")
		return
	}
	if cpl.IssueDate.After(time.Now().In(cpl.IssueDate.Location())) {
		ctx.Errorf("CPL IssueDate %s is in the future", cpl.IssueDate.Format(time.RFC3339))
	}
}

func checkCPLReferencedByPKL(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.PKLId == "" {
		ctx.Errorf("CPL %s is not referenced by any PackingList", cpl.UUID)
	}
}

// checkCPLReelCoherence implements the §4.6 "none may be Mixed" half of
// reel coherence: every aggregate folded across reels must agree.
func checkCPLReelCoherence(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	agg := cpl.Aggregate
	mustAgree := map[string]string{
		"EditRate":          agg.EditRate,
		"FrameRate":         agg.FrameRate,
		"Resolution":        agg.Resolution,
		"ScreenAspectRatio": agg.ScreenAspectRatio,
		"Stereoscopic":      agg.Stereoscopic,
		"HighFrameRate":     agg.HighFrameRate,
		"Encrypted":         agg.Encrypted,
		"ChannelCount":      agg.ChannelCount,
		"ChannelFormat":     agg.ChannelFormat,
		"SubtitleLanguage":  agg.SubtitleLanguage,
	}
	for name, v := range mustAgree {
		if v == model.Mixed {
			ctx.Error(fmt.Sprintf("%s differs between reels (Mixed)", name), name)
		}
	}
}

// checkCPLReelDuration implements §4.6 "reel cut sums: for each reel,
// its picture CPLEntryPoint equals the running total of preceding
// durations, and OutPoint-EntryPoint equals Duration".
func checkCPLReelDuration(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	var running int64
	for _, reel := range cpl.Reels {
		pic := reel.Picture()
		if pic == nil {
			continue
		}
		if pic.CPLEntryPoint != running {
			ctx.Errorf("reel %d picture CPLEntryPoint %d does not match running total %d", reel.Position, pic.CPLEntryPoint, running)
		}
		if pic.OutPoint()-pic.EntryPoint != pic.Duration {
			ctx.Errorf("reel %d picture OutPoint-EntryPoint does not equal Duration", reel.Position)
		}
		running += pic.Duration

		for kind, other := range reel.Assets {
			if kind == model.EssencePicture {
				continue
			}
			if kind == model.EssenceSound || kind == model.EssenceAuxData {
				if other.Duration != pic.Duration {
					ctx.Errorf("reel %d %s duration %d does not match picture duration %d", reel.Position, kind, other.Duration, pic.Duration)
				}
			}
			if kind == model.EssenceSubtitle {
				if cpl.Schema == model.SchemaSMPTE && other.Duration > pic.Duration {
					ctx.Errorf("reel %d subtitle duration %d exceeds picture duration %d", reel.Position, other.Duration, pic.Duration)
				}
				if cpl.Schema == model.SchemaInterop && other.Duration != pic.Duration {
					ctx.Errorf("reel %d subtitle duration %d does not equal picture duration %d", reel.Position, other.Duration, pic.Duration)
				}
			}
		}
	}
}

func checkCPLTimedTextAllOrNone(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, _ *model.Reel, _ *model.Asset) {
	if cpl.Aggregate.HasSubtitle == model.Mixed {
		ctx.Error("subtitle track presence differs between reels")
	}
}

// checkAssetEncryptedKeyId implements §4.6/§8 "an asset with KeyId but
// no Hash must fail check_assets_cpl_hash": KeyId present requires Hash
// to be present too.
func checkAssetEncryptedKeyId(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.KeyId != nil && strings.TrimSpace(*asset.KeyId) != "" && (asset.Hash == nil || strings.TrimSpace(*asset.Hash) == "") {
		ctx.Errorf("reel %d asset %s has a KeyId but no Hash", reel.Position, asset.UUID)
	}
}

// checkAssetMXFCoherence compares a CPL asset entry with its MXF probe:
// EditRate (±0.05 tolerance), sound SamplingRate<->MXF SampleRate, and a
// declared KeyId requiring essence marked encrypted. It does not compare
// FrameRate, ScreenAspectRatio, IntrinsicDuration, Id or the KeyId value
// against the probe.
func checkAssetMXFCoherence(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil {
		return
	}
	if !asset.EditRate.Equal(asset.Probe.EditRate, 0.05) {
		ctx.Errorf("reel %d asset %s: CPL EditRate %s does not match MXF EditRate %s", reel.Position, asset.UUID, asset.EditRate, asset.Probe.EditRate)
	}
	if asset.Kind == model.EssenceSound && asset.SamplingRate != 0 && asset.Probe.SampleRate != 0 {
		if asset.SamplingRate != asset.Probe.SampleRate {
			ctx.Errorf("reel %d asset %s: CPL sampling rate %d does not match MXF sample rate %d", reel.Position, asset.UUID, asset.SamplingRate, asset.Probe.SampleRate)
		}
	}
	if asset.KeyId != nil && !asset.Probe.Encrypted {
		ctx.Errorf("reel %d asset %s declares a KeyId but the MXF essence is not marked encrypted", reel.Position, asset.UUID)
	}
}

func checkAssetPictureMinDuration(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.EditRate.Num == 0 {
		return
	}
	if asset.Duration < asset.EditRate.Num/asset.EditRate.Den {
		ctx.Errorf("reel %d picture lasts less than 1 second (duration=%d frames at %s)", reel.Position, asset.Duration, asset.EditRate)
	}
}
