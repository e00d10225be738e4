package check

// Func is the signature every registered check implements: a pure
// function of its subject that reports findings through ctx.
type Func func(ctx *Context)

// Scope identifies which driver phase a check runs under (§4.2):
// general package checks, per-CPL/per-reel-asset checks, per-PKL/
// per-asset checks, per-AssetMap/per-asset checks, or per-VolumeIndex.
type Scope string

const (
	ScopeGeneral  Scope = "general"  // no prefix requirement beyond "check_"
	ScopeCPL      Scope = "cpl"      // *_cpl, run once per (CPL, reel, asset) tuple
	ScopePKL      Scope = "pkl"      // pkl_*
	ScopeAssetPKL Scope = "assets_pkl" // assets_pkl_*, once per PKL asset
	ScopeAM       Scope = "am"       // am_*
	ScopeAssetAM  Scope = "assets_am" // assets_am_*, once per AssetMap asset
	ScopeVol      Scope = "vol"      // vol_*
)

// Check is one registered check: its stable name (used for profile glob
// matching and bypass-list matching), its doc string (first line is the
// short description the report shows), its scope, and the function.
//
// Unlike a dynamic language's runtime method introspection, checks here
// are registered at module init time into a static table — the
// re-architecture §9 calls for ("a static registry where each check is a
// value ... with its name, doc, and scope recorded at compile time").
type Check struct {
	Name  string
	Doc   string
	Scope Scope
	Fn    Func
}

// ShortDoc returns the first line of Doc, the "pretty" description the
// report shows alongside the full name (§6 Report: `checks[].doc`).
func (c Check) ShortDoc() string {
	for i, r := range c.Doc {
		if r == '\n' {
			return c.Doc[:i]
		}
	}
	return c.Doc
}

// Registry accumulates Check values registered by the domain modules
// (internal/checks) at package init. A single process-wide registry is
// fine: checks are pure functions of their arguments, not of process
// state, so there is no per-run mutable registry state to isolate.
type Registry struct {
	checks []Check
}

var defaultRegistry = &Registry{}

// Register adds c to the default registry. Domain modules call this
// from an init() func, e.g. `check.Register(check.Check{Name:
// "check_cpl_uuid", Scope: check.ScopeCPL, Fn: checkCPLUUID})`.
func Register(c Check) {
	defaultRegistry.checks = append(defaultRegistry.checks, c)
}

// All returns every registered check, in registration order.
func All() []Check {
	return append([]Check{}, defaultRegistry.checks...)
}

// ByScope returns every registered check of the given scope.
func ByScope(s Scope) []Check {
	var out []Check
	for _, c := range defaultRegistry.checks {
		if c.Scope == s {
			out = append(out, c)
		}
	}
	return out
}
