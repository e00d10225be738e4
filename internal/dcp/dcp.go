// Package dcp implements C10: the facade that ties the parser, check
// driver, signature verifier, profile resolution, and report builder
// into the two top-level operations the CLI exposes — parse a package
// and check a package — behind one entry point.
package dcp

import (
	"context"
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ymagis/ClairMeta/internal/cache"
	"github.com/Ymagis/ClairMeta/internal/check"
	"github.com/Ymagis/ClairMeta/internal/checks"
	"github.com/Ymagis/ClairMeta/internal/metrics"
	"github.com/Ymagis/ClairMeta/internal/model"
	"github.com/Ymagis/ClairMeta/internal/parser"
	"github.com/Ymagis/ClairMeta/internal/probe"
	"github.com/Ymagis/ClairMeta/internal/profile"
	"github.com/Ymagis/ClairMeta/internal/report"
	"github.com/Ymagis/ClairMeta/internal/sign"
	"github.com/Ymagis/ClairMeta/internal/util"
)

// Options configures both ParsePackage and CheckPackage.
type Options struct {
	OVPath       string
	KDMPaths     []string
	PrivateKey   *rsa.PrivateKey
	ProbeRunner  *probe.Runner
	HashProgress util.ProgressFunc
	Logger       zerolog.Logger

	// Profile selects which criticality/bypass policy CheckPackage
	// resolves findings with. A nil Profile falls back to the bundled
	// "DCI" profile.
	Profile *profile.Profile

	// Cache, if set, backs PKL hash memoization across runs (§4.5, §9).
	Cache cache.Store

	// Metrics, if set, receives per-check and per-run observations for
	// the end-of-run textfile export (C11).
	Metrics *metrics.Registry
}

// ParsePackage runs C4 over root and returns the in-memory tree, without
// running any checks — the CLI's `probe` subcommand.
func ParsePackage(ctx context.Context, root string, opts Options) (*model.Package, error) {
	return parser.Parse(ctx, root, parser.Options{
		OVPath:       opts.OVPath,
		KDMPaths:     opts.KDMPaths,
		PrivateKey:   opts.PrivateKey,
		ProbeRunner:  opts.ProbeRunner,
		HashProgress: opts.HashProgress,
		Logger:       opts.Logger,
	})
}

// CheckPackage parses root, runs every registered check against it,
// verifies any signed CPL/PKL documents, and builds the final Report —
// the CLI's `check` subcommand (§4, §6, §7).
func CheckPackage(ctx context.Context, root string, opts Options) (*report.Report, error) {
	start := time.Now()

	prof := opts.Profile
	if prof == nil {
		var err error
		prof, err = profile.Named("DCI")
		if err != nil {
			return nil, fmt.Errorf("dcp: loading default profile: %w", err)
		}
	}

	checks.HashProgress = opts.HashProgress
	checks.PersistentCache = opts.Cache

	pkg, err := ParsePackage(ctx, root, opts)
	if err != nil {
		return nil, fmt.Errorf("dcp: parsing %s: %w", root, err)
	}

	// The checks see a copy of the package whose ForeignFiles omit every
	// file the profile lists under allowed_foreign_files.
	checked := *pkg
	checked.ForeignFiles = nil
	for _, rel := range pkg.ForeignFiles {
		if !prof.AllowsForeignFile(rel) {
			checked.ForeignFiles = append(checked.ForeignFiles, rel)
		}
	}

	execs := checks.Run(&checked, prof.BypassList())
	execs = append(execs, verifySignatures(pkg)...)

	if opts.Metrics != nil {
		for _, e := range execs {
			opts.Metrics.ObserveCheck(e.Name, e.Bypass, e.SecondsElapsed)
		}
	}

	r := report.Build(pkg, execs, prof)

	if opts.Metrics != nil {
		for _, f := range r.Findings {
			opts.Metrics.ObserveFinding(string(f.Criticality))
		}
		opts.Metrics.SetRunDuration(time.Since(start).Seconds())
		opts.Metrics.SetVerdict(r.Verdict)
	}

	return r, nil
}

// checkDCPSigned is the name of the §4.12/§8 "check_dcp_signed" check,
// emitted once per signed CPL/PKL document so the report groups every
// chain/digest/signature finding under the one name the report format
// and bundled profiles key criticality on.
const checkDCPSigned = "check_dcp_signed"

// verifySignatures runs §4.12 signature/chain verification over every
// signed CPL and PKL and folds any failure into a synthetic check
// execution, so report findings carry both check results and signature
// findings through one uniform Execution list.
func verifySignatures(pkg *model.Package) []*check.Execution {
	var execs []*check.Execution

	for _, cpl := range pkg.CPLs {
		if cpl.Signature == nil {
			continue
		}
		stack := []string{"cpl:" + cpl.UUID}
		execs = append(execs, verifyOne(stack, "CPL", cpl.Signer, cpl.Signature, pkg.Schema, cpl.IssueDate))
	}
	for _, pkl := range pkg.PKLs {
		if pkl.Signature == nil {
			continue
		}
		stack := []string{"pkl:" + pkl.UUID}
		execs = append(execs, verifyOne(stack, "PKL", pkl.Signer, pkl.Signature, pkg.Schema, pkl.IssueDate))
	}

	return execs
}

func verifyOne(stack []string, subName string, signer *model.Signer, signature *model.Signature, schema model.Schema, issueDate time.Time) *check.Execution {
	start := time.Now()
	res := sign.VerifyDocument(signer, signature, schema, issueDate)

	exec := &check.Execution{
		Name:           checkDCPSigned,
		AssetStack:     stack,
		SecondsElapsed: time.Since(start).Seconds(),
	}
	if !res.ChainValid || !res.DigestValid || !res.SignatureValid {
		for _, finding := range res.Findings {
			exec.Errors = append(exec.Errors, &check.Error{CheckName: checkDCPSigned, SubName: subName, Message: finding})
		}
		if len(exec.Errors) == 0 {
			exec.Errors = append(exec.Errors, &check.Error{CheckName: checkDCPSigned, SubName: subName, Message: "signature verification failed"})
		}
	}
	return exec
}
