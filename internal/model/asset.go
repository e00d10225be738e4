package model

import "github.com/Ymagis/ClairMeta/internal/util"

// EssenceKind enumerates the recognized reel-slot essence kinds (§3).
type EssenceKind string

const (
	EssencePicture      EssenceKind = "Picture"
	EssenceSound        EssenceKind = "Sound"
	EssenceAuxData      EssenceKind = "AuxData" // Atmos/immersive audio
	EssenceSubtitle     EssenceKind = "Subtitle"
	EssenceClosedCaption EssenceKind = "ClosedCaption"
	EssenceOpenCaption  EssenceKind = "OpenCaption"
	EssenceMarkers      EssenceKind = "Markers"
	EssenceMetadata     EssenceKind = "Metadata"
)

// Asset is one reel/essence-kind slot (§3): timeline bookkeeping plus
// essence-kind specific fields and an optional Probe.
type Asset struct {
	UUID string
	Kind EssenceKind

	EditRate          util.Ratio
	EntryPoint        int64
	Duration          int64
	IntrinsicDuration int64

	// CPLEntryPoint/CPLOutPoint are this asset's position on the CPL's
	// overall reel timeline (running sum of preceding reels' Duration),
	// not to be confused with EntryPoint/Duration which are positions
	// inside the *essence's* own intrinsic timeline.
	CPLEntryPoint int64
	CPLOutPoint   int64

	KeyId *string // presence = encrypted
	Hash  *string

	Path         string
	AbsolutePath string

	// Picture-specific
	FrameRate         *util.Ratio
	ScreenAspectRatio *float64
	Stereoscopic      bool
	HighFrameRate     bool

	// Sound-specific
	Language            *string
	ChannelCount        int
	ChannelFormat       string
	SamplingRate        int
	QuantizationBits    int
	BlockAlign          int

	// Atmos-specific
	MaxChannelCount int
	MaxObjectCount  int
	DataTypeUL      string

	// Subtitle/timed-text specific
	SubtitleID      string
	LoadFontID      map[string]string // Id -> resolved font file path

	Probe *Probe
}

// OutPoint returns EntryPoint + Duration, the invariant in §3(d).
func (a *Asset) OutPoint() int64 {
	return a.EntryPoint + a.Duration
}

// Encrypted reports whether this asset carries a KeyId (§3 invariant f).
func (a *Asset) Encrypted() bool {
	return a.KeyId != nil && *a.KeyId != ""
}
