package model

import (
	"time"

	"github.com/Ymagis/ClairMeta/internal/isdcf"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// CompositionPlaylist is the parsed CPL descriptor (§3).
type CompositionPlaylist struct {
	UUID            string
	Path            string
	Schema          Schema
	ContentTitle    string
	AnnotationText  string
	IssueDate       time.Time
	Creator         string
	Issuer          string

	// PKLId is filled by the parser once the owning PKL is located
	// (§4.1 step 5).
	PKLId string

	Reels []*Reel

	Signer    *Signer
	Signature *Signature

	ISDCF *isdcf.Name

	Aggregate Aggregate
}

// Aggregate holds the per-CPL characteristics folded over all reels
// (§3, §4.1 step 8). Every field is either a concrete value, Mixed (the
// reels disagree) or Unknown (no reel carries the relevant essence).
type Aggregate struct {
	EditRate          string
	FrameRate         string
	Resolution        string
	ScreenAspectRatio string
	Stereoscopic      string
	HighFrameRate     string
	Encrypted         string

	ChannelCount  string
	ChannelFormat string
	Language      string

	SubtitleLanguage string

	HasSubtitle      string
	HasClosedCaption string
	HasOpenCaption   string
	HasAuxData       string
	HasMarkers       string
	HasMetadata      string

	DolbyVision  string
	EclairColor  string
	DBox         string

	TotalDurationFrames int64
	TotalDurationTC     string
}

// EditRateRatio parses the CPL's folded EditRate aggregate back into a
// Ratio, used by checks that need the numeric value rather than the
// Mixed/Unknown sentinel string. ok is false for Mixed/Unknown.
func (c *CompositionPlaylist) EditRateRatio() (util.Ratio, bool) {
	if c.Aggregate.EditRate == Mixed || c.Aggregate.EditRate == UnknownValue || c.Aggregate.EditRate == "" {
		return util.Ratio{}, false
	}
	r, err := util.ParseRatio(c.Aggregate.EditRate)
	return r, err == nil
}

// IsEncrypted reports whether the CPL's folded Encrypted aggregate is
// concretely "true" (not Mixed/Unknown/"false").
func (c *CompositionPlaylist) IsEncrypted() bool {
	return c.Aggregate.Encrypted == "true"
}
