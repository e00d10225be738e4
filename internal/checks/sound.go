package checks

import (
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// allowedChannelFormats is the SMPTE-coded sound channel configuration
// allow-list referenced by §4.8.
var allowedChannelFormats = map[string]bool{
	"51": true, "71": true, "MOS": true, "20": true, "61": true,
}

func init() {
	registerCPLAsset("check_sound_cpl_channel_count", "ChannelCount <= 16 and even", []model.EssenceKind{model.EssenceSound}, checkSoundChannelCount)
	registerCPLAsset("check_sound_cpl_channel_format", "ChannelFormat is SMPTE-coded and known", []model.EssenceKind{model.EssenceSound}, checkSoundChannelFormat)
	registerCPLAsset("check_sound_cpl_sampling_rate", "SamplingRate is 48kHz or 96kHz", []model.EssenceKind{model.EssenceSound}, checkSoundSamplingRate)
	registerCPLAsset("check_sound_cpl_quantization", "QuantizationBits == 24", []model.EssenceKind{model.EssenceSound}, checkSoundQuantization)
	registerCPLAsset("check_sound_cpl_block_align", "BlockAlign == ChannelCount * 3", []model.EssenceKind{model.EssenceSound}, checkSoundBlockAlign)
}

func checkSoundChannelCount(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.ChannelCount > 16 {
		ctx.Errorf("reel %d sound ChannelCount %d exceeds 16", reel.Position, asset.ChannelCount)
	}
	if asset.ChannelCount%2 != 0 {
		ctx.Errorf("reel %d sound ChannelCount %d is odd", reel.Position, asset.ChannelCount)
	}
}

func checkSoundChannelFormat(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.ChannelFormat == "" {
		return
	}
	if !allowedChannelFormats[asset.ChannelFormat] {
		ctx.Errorf("reel %d sound ChannelFormat %q is not a recognized configuration", reel.Position, asset.ChannelFormat)
	}
}

func checkSoundSamplingRate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.SamplingRate != 0 && asset.SamplingRate != 48000 && asset.SamplingRate != 96000 {
		ctx.Errorf("reel %d sound SamplingRate %d is neither 48kHz nor 96kHz", reel.Position, asset.SamplingRate)
	}
}

func checkSoundQuantization(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.QuantizationBits != 0 && asset.QuantizationBits != 24 {
		ctx.Errorf("reel %d sound QuantizationBits %d, want 24", reel.Position, asset.QuantizationBits)
	}
}

func checkSoundBlockAlign(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.BlockAlign != 0 && asset.ChannelCount != 0 && asset.BlockAlign != asset.ChannelCount*3 {
		ctx.Errorf("reel %d sound BlockAlign %d, want ChannelCount*3 = %d", reel.Position, asset.BlockAlign, asset.ChannelCount*3)
	}
}
