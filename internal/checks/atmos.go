package checks

import (
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// atmosReferenceUL is the reference DataEssenceCoding UL for Dolby Atmos
// auxiliary data tracks, referenced by §4.9 "Asset DataType UL equals
// the reference UL".
const atmosReferenceUL = "060e2b34.0401.0101.0d01030203000000"

const (
	atmosMaxChannelCount = 64
	atmosMaxObjectCount  = 118
)

func init() {
	registerCPLAsset("check_atmos_cpl_datatype_ul", "AuxData DataType UL matches the reference Atmos UL", []model.EssenceKind{model.EssenceAuxData}, checkAtmosDataTypeUL)
	registerCPLAsset("check_atmos_cpl_limits", "MaxChannelCount/MaxObjectCount within policy limits", []model.EssenceKind{model.EssenceAuxData}, checkAtmosLimits)
}

func checkAtmosDataTypeUL(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.DataTypeUL != "" && asset.DataTypeUL != atmosReferenceUL {
		ctx.Errorf("reel %d AuxData DataType UL %s does not match the reference Atmos UL", reel.Position, asset.DataTypeUL)
	}
	if asset.Probe != nil && asset.Probe.Atmos != nil && asset.DataTypeUL != "" {
		if asset.DataTypeUL != asset.Probe.Atmos.DataEssenceUL {
			ctx.Errorf("reel %d CPL DataType %s does not equal MXF DataEssenceCoding %s", reel.Position, asset.DataTypeUL, asset.Probe.Atmos.DataEssenceUL)
		}
	}
}

func checkAtmosLimits(ctx *check.Context, pkg *model.Package, cpl *model.CompositionPlaylist, reel *model.Reel, asset *model.Asset) {
	if asset.MaxChannelCount > atmosMaxChannelCount {
		ctx.Errorf("reel %d AuxData MaxChannelCount %d exceeds %d", reel.Position, asset.MaxChannelCount, atmosMaxChannelCount)
	}
	if asset.MaxObjectCount > atmosMaxObjectCount {
		ctx.Errorf("reel %d AuxData MaxObjectCount %d exceeds %d", reel.Position, asset.MaxObjectCount, atmosMaxObjectCount)
	}
}
