package probe

import (
	"encoding/json"
	"fmt"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// essenceInfo is the JSON shape produced by the asdcplib/BMX-family
// mxf-info tool this driver wraps: decode a probe tool's JSON stdout
// into a narrow local struct before projecting it onto the domain
// model.
type essenceInfo struct {
	LabelSetType string `json:"label_set_type"`

	Width  int `json:"stored_width"`
	Height int `json:"stored_height"`

	EditRate   string `json:"edit_rate"`
	SampleRate int    `json:"sample_rate"`
	BitDepth   int    `json:"component_depth"`

	ChannelCount         int    `json:"channel_count"`
	ChannelFormat        string `json:"channel_format"`
	ChannelConfiguration string `json:"mca_config"`

	Encrypted bool `json:"encrypted"`

	J2KDecompositionLevels int `json:"j2k_decomposition_levels"`

	AverageBitRateMbps float64 `json:"average_bitrate_mbps"`
	MaxBitRateMbps     float64 `json:"max_bitrate_mbps"`

	Atmos *struct {
		MaxChannelCount int    `json:"max_channel_count"`
		MaxObjectCount  int    `json:"max_object_count"`
		DataEssenceUL   string `json:"data_essence_coding"`
	} `json:"atmos,omitempty"`
}

// MXFDriver probes picture/sound/aux-data MXF essence files via an
// external asdcplib/BMX-family "mxf-info" binary.
type MXFDriver struct {
	bin string
}

// NewMXFDriver builds a driver invoking the named binary (e.g.
// "asdcp-info" or a vendored equivalent); defaults to "mxf-info".
func NewMXFDriver(bin string) *MXFDriver {
	if bin == "" {
		bin = "mxf-info"
	}
	return &MXFDriver{bin: bin}
}

func (d *MXFDriver) Name() string { return d.bin }

func (d *MXFDriver) Args(path string) []string {
	return []string{"-json", path}
}

func (d *MXFDriver) Parse(stdout []byte) (*model.Probe, error) {
	var info essenceInfo
	if err := json.Unmarshal(stdout, &info); err != nil {
		return nil, fmt.Errorf("decoding %s output: %w", d.bin, err)
	}

	rate, err := util.ParseRatio(info.EditRate)
	if err != nil {
		return nil, fmt.Errorf("parsing edit rate %q: %w", info.EditRate, err)
	}

	p := &model.Probe{
		LabelSetType:         model.LabelSetType(info.LabelSetType),
		Width:                info.Width,
		Height:               info.Height,
		EditRate:             rate,
		SampleRate:           info.SampleRate,
		BitDepth:             info.BitDepth,
		ChannelCount:         info.ChannelCount,
		ChannelFormat:        info.ChannelFormat,
		ChannelConfiguration: info.ChannelConfiguration,
		Encrypted:            info.Encrypted,
		DecompositionLevels:  info.J2KDecompositionLevels,
		AverageBitRateMbps:   info.AverageBitRateMbps,
		MaxBitRateMbps:       info.MaxBitRateMbps,
	}

	if info.Atmos != nil {
		p.Atmos = &model.AtmosExtension{
			MaxChannelCount: info.Atmos.MaxChannelCount,
			MaxObjectCount:  info.Atmos.MaxObjectCount,
			DataEssenceUL:   info.Atmos.DataEssenceUL,
		}
	}

	return p, nil
}
