package checks

import (
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

func init() {
	registerVol("check_vol_filename", "VolumeIndex filename matches its schema", checkVolFilename)
}

func checkVolFilename(ctx *check.Context, vi *model.VolumeIndex) {
	switch vi.Schema {
	case model.SchemaInterop:
		if vi.FileName != "VOLINDEX" {
			ctx.Errorf("Interop VolumeIndex filename must be VOLINDEX, got %s", vi.FileName)
		}
	case model.SchemaSMPTE:
		if vi.FileName != "VOLINDEX.xml" {
			ctx.Errorf("SMPTE VolumeIndex filename must be VOLINDEX.xml, got %s", vi.FileName)
		}
	}
}
