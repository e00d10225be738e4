package probe

import (
	"fmt"

	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// TimedTextDriver extracts the resource's namespace, schema label and Id
// straight from the subtitle/closed-caption XML, since
// unlike picture/sound MXF essence this is inspectable without a
// dedicated binary (§4.10 "subtitle checks read the XML asset itself").
type TimedTextDriver struct{}

func NewTimedTextDriver() *TimedTextDriver { return &TimedTextDriver{} }

func (d *TimedTextDriver) Name() string { return "timed-text-inspect" }

// Args is unused: ProbeFile below bypasses Runner's subprocess path and
// reads the XML directly, but the Driver interface is kept uniform so
// callers can treat every essence kind through the same Runner.Probe
// entry point if a future XML-as-subprocess tool replaces this.
func (d *TimedTextDriver) Args(path string) []string { return nil }

func (d *TimedTextDriver) Parse(stdout []byte) (*model.Probe, error) {
	return nil, fmt.Errorf("timed-text-inspect: use ProbeFile, not subprocess output")
}

// ProbeFile reads the timed-text XML at path directly, rather than via
// a subprocess, since `internal/util` already implements XML
// introspection used by the parser's other phases.
func (d *TimedTextDriver) ProbeFile(path string) (*model.Probe, error) {
	ns, err := util.Namespace(path)
	if err != nil {
		return nil, fmt.Errorf("%s: reading timed-text namespace: %w", path, err)
	}

	var doc struct {
		ID string `xml:"Id"`
	}
	if err := util.Decode(path, &doc); err != nil {
		return nil, fmt.Errorf("%s: decoding timed-text asset: %w", path, err)
	}

	return &model.Probe{
		TimedTextNamespace: ns,
		TimedTextLabel:     labelForNamespace(ns),
		AssetID:            doc.ID,
	}, nil
}

func labelForNamespace(ns string) string {
	switch ns {
	case "http://www.smpte-ra.org/schemas/428-7/2010/DCST":
		return "SMPTE"
	case "http://www.digicine.com/PROTO-ASDCP-CPL-20040511#":
		return "Interop"
	default:
		return "Unknown"
	}
}
