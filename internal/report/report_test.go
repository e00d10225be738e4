package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/profile"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		Criticality: map[string]string{
			"check_cpl_issue_date": "ERROR",
			"default":              "WARNING",
		},
	}
}

func TestBuildResolvesCriticalityAndVerdict(t *testing.T) {
	pkg := &model.Package{Path: "/dcp/test", Schema: model.SchemaSMPTE, Type: model.PackageOV}
	execs := []*check.Execution{
		{
			Name:       "check_cpl_issue_date",
			AssetStack: []string{"cpl:abc"},
			Errors: []*check.Error{
				{CheckName: "check_cpl_issue_date", Message: "IssueDate is in the future"},
			},
		},
		{
			Name:   "check_general_no_hidden_files",
			Errors: nil,
		},
	}

	r := Build(pkg, execs, testProfile())

	require.Equal(t, 2, r.ChecksRun)
	require.Len(t, r.Findings, 1)
	assert.Equal(t, check.ERROR, r.Findings[0].Criticality)
	assert.Equal(t, string(check.ERROR), r.Verdict)
}

func TestBuildSkipsBypassedExecutions(t *testing.T) {
	pkg := &model.Package{}
	execs := []*check.Execution{
		{Name: "check_pkl_creator", Bypass: true, Errors: []*check.Error{{CheckName: "check_pkl_creator", Message: "should not appear"}}},
	}

	r := Build(pkg, execs, testProfile())

	assert.Equal(t, 1, r.ChecksBypassed)
	assert.Empty(t, r.Findings, "expected bypassed execution's errors to be excluded")
}

func TestWriteTextAndJSON(t *testing.T) {
	pkg := &model.Package{Path: "/dcp/test", Schema: model.SchemaInterop, Type: model.PackageVF}
	execs := []*check.Execution{
		{
			Name: "check_am_filename",
			Errors: []*check.Error{
				{CheckName: "check_am_filename", SubName: "naming", Message: "unexpected ASSETMAP filename"},
			},
		},
	}
	r := Build(pkg, execs, testProfile())

	var textBuf, jsonBuf bytes.Buffer
	require.NoError(t, WriteText(&textBuf, r))
	assert.Contains(t, textBuf.String(), "check_am_filename.naming")

	require.NoError(t, WriteJSON(&jsonBuf, r))
	assert.Contains(t, jsonBuf.String(), "\"dcp_path\"")
	assert.Contains(t, jsonBuf.String(), "\"unique_checks_count\"")
	assert.Contains(t, jsonBuf.String(), "\"pretty_name\"")
}

func TestBuildComputesValidAndUniqueChecksCount(t *testing.T) {
	pkg := &model.Package{Path: "/dcp/test", Size: 1234}
	execs := []*check.Execution{
		{Name: "check_cpl_issue_date", Errors: []*check.Error{{CheckName: "check_cpl_issue_date", Message: "boom"}}},
		{Name: "check_cpl_issue_date", Errors: nil},
		{Name: "check_general_no_hidden_files", Errors: nil},
	}

	r := Build(pkg, execs, testProfile())

	assert.False(t, r.Valid, "an ERROR-criticality finding must make the report invalid")
	assert.Equal(t, 2, r.UniqueChecksCount, "check_cpl_issue_date ran twice but is one distinct check")
	assert.Equal(t, int64(1234), r.DCPSize)
}

func TestWriteJSONGzipRoundTripsHeader(t *testing.T) {
	pkg := &model.Package{Path: "/dcp/test"}
	r := Build(pkg, nil, testProfile())

	var buf bytes.Buffer
	require.NoError(t, WriteJSONGzip(&buf, r))
	require.GreaterOrEqual(t, buf.Len(), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, buf.Bytes()[:2], "expected gzip magic header")
}
