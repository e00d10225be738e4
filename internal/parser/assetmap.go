package parser

import (
	"path/filepath"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

const (
	nsAssetMapInterop = "http://www.digicine.com/PROTO-ASDCP-AM-20040511#"
	nsAssetMapSMPTE   = "http://www.smpte-ra.org/schemas/429-9/2007/AM"
)

// parseAssetMap implements §4.1 step 2. A parse failure is soft: the
// caller records it and continues (§4.1 "Error policy").
func parseAssetMap(root, rel string) (*model.AssetMap, error) {
	abs := filepath.Join(root, rel)
	ns, err := util.Namespace(abs)
	if err != nil {
		return nil, err
	}

	var doc xmlAssetMap
	if err := util.Decode(abs, &doc); err != nil {
		return nil, err
	}

	am := &model.AssetMap{
		FileName: filepath.Base(rel),
		Path:     rel,
		Schema:   schemaFromNamespace(ns, nsAssetMapInterop, nsAssetMapSMPTE),
		Creator:  doc.Creator,
		VolumeCount: doc.VolumeCount,
	}

	for _, a := range doc.AssetList {
		entry := &model.AssetMapEntry{
			UUID:  util.StripURN(a.Id),
			IsPKL: a.PackingList != nil,
		}
		if len(a.ChunkList.Chunks) > 0 {
			c := a.ChunkList.Chunks[0]
			entry.Path = c.Path
			entry.AbsolutePath = filepath.Join(root, filepath.FromSlash(c.Path))
			entry.VolumeIndex = c.VolumeIndex
			entry.Length = c.Length
			entry.ChunkOffset = c.Offset
		}
		am.Assets = append(am.Assets, entry)
	}
	am.BuildIndex()
	return am, nil
}

func parseVolumeIndex(root, rel string) (*model.VolumeIndex, error) {
	abs := filepath.Join(root, rel)
	ns, err := util.Namespace(abs)
	if err != nil {
		return nil, err
	}
	var doc xmlVolumeIndex
	if err := util.Decode(abs, &doc); err != nil {
		return nil, err
	}
	return &model.VolumeIndex{
		FileName: filepath.Base(rel),
		Path:     rel,
		Schema:   schemaFromNamespace(ns, "http://www.digicine.com/PROTO-ASDCP-VOL-20040511#", "http://www.smpte-ra.org/schemas/429-9/2007/AM"),
		Index:    doc.Index,
	}, nil
}

func schemaFromNamespace(ns, interopNS, smpteNS string) model.Schema {
	switch {
	case ns == interopNS:
		return model.SchemaInterop
	case ns == smpteNS:
		return model.SchemaSMPTE
	default:
		return model.SchemaUnknown
	}
}

