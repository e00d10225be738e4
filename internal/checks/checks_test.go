package checks

import (
	"testing"
	"time"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
)

func TestRunGeneralFlagsMissingAssetMap(t *testing.T) {
	pkg := &model.Package{AllFiles: []string{"foo.mxf"}, ForeignFiles: []string{"foo.mxf"}}

	execs := Run(pkg, nil)

	var foundMissingAM, foundForeign bool
	for _, e := range execs {
		if e.Name == "check_general_assetmap_exists" && len(e.Errors) > 0 {
			foundMissingAM = true
		}
		if e.Name == "check_general_no_foreign_files" && len(e.Errors) > 0 {
			foundForeign = true
		}
	}
	if !foundMissingAM {
		t.Error("expected check_general_assetmap_exists to record a finding for a nil AssetMap")
	}
	if !foundForeign {
		t.Error("expected check_general_no_foreign_files to flag foo.mxf")
	}
}

func TestRunCPLFlagsFutureIssueDate(t *testing.T) {
	cpl := &model.CompositionPlaylist{
		UUID:      "11111111-1111-1111-1111-111111111111",
		IssueDate: time.Now().Add(24 * time.Hour),
	}
	pkg := &model.Package{CPLs: []*model.CompositionPlaylist{cpl}}

	execs := Run(pkg, nil)

	var found bool
	for _, e := range execs {
		if e.Name == "check_cpl_issue_date" && len(e.Errors) > 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected check_cpl_issue_date to flag a future IssueDate")
	}
}

func TestRunHonorsBypassList(t *testing.T) {
	pkg := &model.Package{}
	execs := Run(pkg, check.BypassList{"check_general_assetmap_exists"})

	for _, e := range execs {
		if e.Name == "check_general_assetmap_exists" && !e.Bypass {
			t.Error("check_general_assetmap_exists should have been bypassed")
		}
	}
}
