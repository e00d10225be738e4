package report

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the report as a paginated PDF using gofpdf
// (header/metadata cells, section headings, word-wrapped body text).
func WritePDF(w io.Writer, r *Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(190, 10, "DCP Validation Report")
	pdf.Ln(15)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(40, 6, "Package:")
	pdf.Cell(150, 6, r.PackagePath)
	pdf.Ln(6)
	pdf.Cell(40, 6, "Schema:")
	pdf.Cell(150, 6, string(r.Schema))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Type:")
	pdf.Cell(150, 6, string(r.Type))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Generated:")
	pdf.Cell(150, 6, r.GeneratedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Checks run:")
	pdf.Cell(150, 6, fmt.Sprintf("%d (bypassed: %d)", r.ChecksRun, r.ChecksBypassed))
	pdf.Ln(6)
	pdf.Cell(40, 6, "Verdict:")
	pdf.Cell(150, 6, r.Verdict)
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(190, 8, "Findings")
	pdf.Ln(10)

	if len(r.Findings) == 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.Cell(190, 6, "No findings.")
		pdf.Ln(6)
	}

	for _, f := range r.Findings {
		name := f.CheckName
		if f.SubName != "" {
			name += "." + f.SubName
		}

		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(190, 6, fmt.Sprintf("[%s] %s", f.Criticality, name))
		pdf.Ln(6)

		pdf.SetFont("Arial", "", 9)
		for _, line := range splitText(f.Message, 95) {
			pdf.Cell(190, 5, line)
			pdf.Ln(5)
		}
		pdf.Ln(3)

		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
	}

	return pdf.Output(w)
}

// splitText wraps text on whitespace into lines no longer than maxLen.
func splitText(text string, maxLen int) []string {
	var lines []string
	var current []byte
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			word := text[start:i]
			if len(current)+len(word)+1 > maxLen && len(current) > 0 {
				lines = append(lines, string(current))
				current = current[:0]
			}
			if len(current) > 0 {
				current = append(current, ' ')
			}
			current = append(current, word...)
			start = i + 1
		}
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}
