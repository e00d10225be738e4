package model

import "github.com/Ymagis/ClairMeta/internal/util"

// LabelSetType identifies which essence-descriptor label-set dialect an
// MXF probe reported (§3 Probe record).
type LabelSetType string

const (
	LabelSetMXFInterop LabelSetType = "MXFInterop"
	LabelSetSMPTE      LabelSetType = "SMPTE"
)

// AtmosExtension carries the Dolby Atmos / immersive-audio specific
// fields of a Probe record (§3, §4.9).
type AtmosExtension struct {
	MaxChannelCount int
	MaxObjectCount  int
	DataEssenceUL   string
}

// Probe is the normalized essence metadata record produced by the
// external probe drivers (C2, internal/probe) and attached to the Asset
// it describes (§3).
type Probe struct {
	LabelSetType LabelSetType

	Width  int
	Height int

	EditRate   util.Ratio
	SampleRate int
	BitDepth   int

	ChannelCount        int
	ChannelFormat       string
	ChannelConfiguration string

	Encrypted bool

	DecompositionLevels int

	AverageBitRateMbps float64
	MaxBitRateMbps     float64

	Atmos *AtmosExtension

	// Timed-text specific
	TimedTextNamespace string
	TimedTextLabel     string
	AssetID            string
}
