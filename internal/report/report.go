// Package report implements C8: aggregating check executions by
// profile-resolved criticality into a Report, plus the §6 rendering
// formats (text, dict/JSON, gzip-JSON, PDF, XLSX).
package report

import (
	"strings"
	"time"

	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/profile"
)

// Finding is one reportable error after criticality resolution.
type Finding struct {
	CheckName   string
	SubName     string
	Message     string
	Doc         string
	AssetStack  []string
	Criticality check.Criticality
}

// CheckError is one resolved error belonging to a CheckResult, the §6
// `checks[].errors[]` entry.
type CheckError struct {
	SubName     string
	Message     string
	Criticality check.Criticality
}

// CheckResult is one check execution as the §6 report dict's `checks[]`
// wants it: every error the run produced stays grouped under the check
// that raised it, instead of being flattened into one findings list.
type CheckResult struct {
	Name           string
	PrettyName     string
	Doc            string
	Bypass         bool
	SecondsElapsed float64
	AssetStack     []string
	Errors         []CheckError
}

// Report is the full validation run result (§6 "Report").
type Report struct {
	PackagePath string
	DCPSize     int64
	Schema      model.Schema
	Type        model.PackageType
	Profile     string
	GeneratedAt time.Time

	ChecksRun      int
	ChecksBypassed int
	Duration       time.Duration // sum of every check's own elapsed time

	// UniqueChecksCount is the number of distinct check names that ran
	// (§6 `unique_checks_count`) — a per-asset check run against many
	// reels still counts once here, even though it contributes one
	// Checks entry per asset it ran against.
	UniqueChecksCount int

	Checks   []CheckResult
	Findings []Finding
	Verdict  string // "OK", "WARNING", "ERROR" — the worst criticality seen
	Valid    bool   // true unless any finding resolved to ERROR (§6 `valid`)
}

// Build resolves every check execution's findings through the profile
// and produces the aggregate Report, implementing §7 "Criticality is
// resolved after all checks run".
func Build(pkg *model.Package, execs []*check.Execution, prof *profile.Profile) *Report {
	r := &Report{
		PackagePath: pkg.Path,
		DCPSize:     pkg.Size,
		Schema:      pkg.Schema,
		Type:        pkg.Type,
		Profile:     prof.Name,
		GeneratedAt: time.Now(),
	}

	names := make(map[string]bool)
	worst := check.SILENT
	for _, e := range execs {
		r.ChecksRun++
		r.Duration += time.Duration(e.SecondsElapsed * float64(time.Second))
		names[e.Name] = true

		cr := CheckResult{
			Name:           e.Name,
			PrettyName:     prettyName(e.Name),
			Doc:            e.Doc,
			Bypass:         e.Bypass,
			SecondsElapsed: e.SecondsElapsed,
			AssetStack:     e.AssetStack,
		}
		if e.Bypass {
			r.ChecksBypassed++
			r.Checks = append(r.Checks, cr)
			continue
		}
		for _, finding := range e.Errors {
			crit := prof.Resolve(qualifiedName(finding))
			cr.Errors = append(cr.Errors, CheckError{
				SubName:     finding.SubName,
				Message:     finding.Message,
				Criticality: crit,
			})
			r.Findings = append(r.Findings, Finding{
				CheckName:   finding.CheckName,
				SubName:     finding.SubName,
				Message:     finding.Message,
				Doc:         finding.Doc,
				AssetStack:  e.AssetStack,
				Criticality: crit,
			})
			worst = worse(worst, crit)
		}
		r.Checks = append(r.Checks, cr)
	}

	r.UniqueChecksCount = len(names)
	r.Verdict = string(worst)
	if worst == check.SILENT || worst == check.INFO {
		r.Verdict = "OK"
	}
	r.Valid = worst != check.ERROR
	return r
}

// prettyName renders a check's snake_case identifier as a human-readable
// title for the §6 report dict's `checks[].pretty_name`, e.g.
// "check_assets_cpl_missing_from_vf" -> "Assets Cpl Missing From Vf".
func prettyName(name string) string {
	name = strings.TrimPrefix(name, "check_")
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func qualifiedName(e *check.Error) string {
	if e.SubName != "" {
		return e.CheckName + "." + e.SubName
	}
	return e.CheckName
}

// worse returns the more severe of two criticalities, ordered
// ERROR > WARNING > INFO > SILENT, matching §7's verdict computation.
func worse(a, b check.Criticality) check.Criticality {
	rank := map[check.Criticality]int{
		check.SILENT:  0,
		check.INFO:    1,
		check.WARNING: 2,
		check.ERROR:   3,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
