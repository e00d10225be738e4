package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX renders the report as a spreadsheet, one row per finding,
// the XLSX export named in the domain-stack wiring plan.
func WriteXLSX(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Findings"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Criticality", "Check", "Message", "Asset Stack", "Doc"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, finding := range r.Findings {
		row := i + 2
		name := finding.CheckName
		if finding.SubName != "" {
			name += "." + finding.SubName
		}
		values := []interface{}{
			string(finding.Criticality),
			name,
			finding.Message,
			strings.Join(finding.AssetStack, " > "),
			finding.Doc,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	summarySheet := "Summary"
	f.NewSheet(summarySheet)
	f.SetCellValue(summarySheet, "A1", "Package")
	f.SetCellValue(summarySheet, "B1", r.PackagePath)
	f.SetCellValue(summarySheet, "A2", "Schema")
	f.SetCellValue(summarySheet, "B2", string(r.Schema))
	f.SetCellValue(summarySheet, "A3", "Type")
	f.SetCellValue(summarySheet, "B3", string(r.Type))
	f.SetCellValue(summarySheet, "A4", "Generated")
	f.SetCellValue(summarySheet, "B4", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(summarySheet, "A5", "Checks run")
	f.SetCellValue(summarySheet, "B5", fmt.Sprintf("%d (bypassed: %d)", r.ChecksRun, r.ChecksBypassed))
	f.SetCellValue(summarySheet, "A6", "Verdict")
	f.SetCellValue(summarySheet, "B6", r.Verdict)
	if idx, err := f.GetSheetIndex(sheet); err == nil {
		f.SetActiveSheet(idx)
	}

	return f.Write(w)
}
