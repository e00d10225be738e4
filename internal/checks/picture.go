package checks

import (
	"fmt"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// dciResolutions2K/4K are the DCI-compliant dimension lists referenced
// by §4.7 "Resolution is DCI-compliant (one of fixed lists for 2K/4K)".
var dciResolutions2K = [][2]int{{2048, 858}, {2048, 1080}, {1998, 1080}}
var dciResolutions4K = [][2]int{{4096, 1716}, {4096, 2160}, {3996, 2160}}

const (
	baseBitrateMbps       = 250.0
	hfrBitrateMbps        = 500.0
	dolbyVisionBitrateMbps = 400.0
	bitrateTolerance      = 0.05
)

func init() {
	registerCPLAsset("check_picture_cpl_resolution_dci", "picture resolution is DCI-compliant", []model.EssenceKind{model.EssencePicture}, checkPictureResolutionDCI)
	registerCPLAsset("check_picture_cpl_decomposition_levels", "JPEG2000 decomposition levels match resolution", []model.EssenceKind{model.EssencePicture}, checkPictureDecompositionLevels)
	registerCPLAsset("check_picture_cpl_max_bitrate", "max bitrate under the applicable cap", []model.EssenceKind{model.EssencePicture}, checkPictureMaxBitrate)
	registerCPLAsset("check_picture_cpl_average_bitrate", "average bitrate at least 2% below the applicable cap", []model.EssenceKind{model.EssencePicture}, checkPictureAverageBitrate)
	registerCPLAsset("check_picture_cpl_framerate_coherence", "stereoscopic/mono FrameRate relationship to EditRate", []model.EssenceKind{model.EssencePicture}, checkPictureFrameRateCoherence)
	registerCPLAsset("check_picture_cpl_archival_framerate", "archival frame rate warning", []model.EssenceKind{model.EssencePicture}, checkPictureArchivalFrameRate)
}

func checkPictureResolutionDCI(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil {
		return
	}
	w, h := asset.Probe.Width, asset.Probe.Height
	for _, dim := range append(append([][2]int{}, dciResolutions2K...), dciResolutions4K...) {
		if dim[0] == w && dim[1] == h {
			return
		}
	}
	ctx.Errorf("reel %d picture resolution %dx%d is not a DCI-compliant 2K/4K dimension", reel.Position, w, h)
}

// checkPictureDecompositionLevels implements §4.7 "JPEG-2000 wavelet
// decomposition levels: 5 for 2K, 6 for 4K (SMPTE only)".
func checkPictureDecompositionLevels(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if cpl.Schema != model.SchemaSMPTE || asset.Probe == nil {
		return
	}
	is4K := asset.Probe.Width > 2048
	want := 5
	if is4K {
		want = 6
	}
	if asset.Probe.DecompositionLevels != 0 && asset.Probe.DecompositionLevels != want {
		ctx.Errorf("reel %d picture decomposition levels %d, want %d", reel.Position, asset.Probe.DecompositionLevels, want)
	}
}

// bitrateCap resolves the applicable §4.7 cap for asset's CPL: base
// 250Mb/s, 500Mb/s HFR, 400Mb/s Dolby Vision.
func bitrateCap(cpl *model.CompositionPlaylist, asset *model.Asset) float64 {
	capMbps := baseBitrateMbps
	if asset.HighFrameRate {
		capMbps = hfrBitrateMbps
	}
	if cpl.Aggregate.DolbyVision == "true" {
		capMbps = dolbyVisionBitrateMbps
	}
	return capMbps
}

// checkPictureMaxBitrate implements §4.7/§8 max-bitrate threshold, +0.05
// tolerance, with the literal message format the report expects:
// "Exceed DCI maximum bitrate (250.05 Mb/s) : 358.25 Mb/s".
func checkPictureMaxBitrate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil {
		return
	}
	capMbps := bitrateCap(cpl, asset)
	if asset.Probe.MaxBitRateMbps > capMbps+bitrateTolerance {
		ctx.Error(fmt.Sprintf("Exceed DCI maximum bitrate (%.2f Mb/s) : %.2f Mb/s", capMbps+bitrateTolerance, asset.Probe.MaxBitRateMbps))
	}
}

// checkPictureAverageBitrate implements §4.7 "average bitrate at least
// 2% below the cap".
func checkPictureAverageBitrate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.Probe == nil {
		return
	}
	capMbps := bitrateCap(cpl, asset)
	if asset.Probe.AverageBitRateMbps > capMbps*0.98 {
		ctx.Errorf("reel %d average bitrate %.2f Mb/s is not at least 2%% below the cap %.2f Mb/s", reel.Position, asset.Probe.AverageBitRateMbps, capMbps)
	}
}

// checkPictureFrameRateCoherence implements §4.7 "stereoscopic ⇒
// FrameRate = 2 · EditRate, mono ⇒ FrameRate = EditRate".
func checkPictureFrameRateCoherence(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.FrameRate == nil {
		return
	}
	want := asset.EditRate.Float()
	if asset.Stereoscopic {
		want *= 2
	}
	if diff := asset.FrameRate.Float() - want; diff > 0.05 || diff < -0.05 {
		ctx.Errorf("reel %d FrameRate %s incoherent with EditRate %s (stereoscopic=%v)", reel.Position, asset.FrameRate, asset.EditRate, asset.Stereoscopic)
	}
}

// archivalFrameRates lists the fps values §4.7 flags with a warning
// (16, 200/11, 20, 240/11). The finding is surfaced via Context.Error and
// its level comes from profile resolution: the bundled DCI profile maps
// it to WARNING, while under the SMPTE profile its ERROR default applies.
var archivalFrameRates = []float64{16, 200.0 / 11, 20, 240.0 / 11}

func checkPictureArchivalFrameRate(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	fps := asset.EditRate.Float()
	for _, rate := range archivalFrameRates {
		if fps > rate-0.01 && fps < rate+0.01 {
			ctx.Errorf("reel %d uses archival frame rate %.3f fps", reel.Position, fps)
			return
		}
	}
}
