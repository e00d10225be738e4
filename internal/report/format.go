package report

import (
	"fmt"
	"io"
)

// Format names one of the §6 report output formats.
type Format string

const (
	FormatText     Format = "text"
	FormatDict     Format = "dict"
	FormatJSON     Format = "json"
	FormatJSONGzip Format = "json.gz"
	FormatPDF      Format = "pdf"
	FormatXLSX     Format = "xlsx"
)

// Write renders r in the requested format to w. "dict" is an alias of
// "json" — both names are kept but they serialize identically.
func Write(w io.Writer, r *Report, format Format) error {
	switch format {
	case FormatText:
		return WriteText(w, r)
	case FormatJSON, FormatDict:
		return WriteJSON(w, r)
	case FormatJSONGzip:
		return WriteJSONGzip(w, r)
	case FormatPDF:
		return WritePDF(w, r)
	case FormatXLSX:
		return WriteXLSX(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
