package check

import "strings"

// BypassList removes checks whose name has one of the given prefixes
// from the executable set, per the profile's `bypass` key (§6, §4.2).
// Bypassed checks still get an Execution stub (Bypassed) so the report's
// unique_checks_count accounting stays complete.
type BypassList []string

// Matches reports whether name starts with any prefix in the list.
func (b BypassList) Matches(name string) bool {
	for _, prefix := range b {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// RunScope runs (or stubs, if bypassed) every registered check of the
// given scope against subject, by invoking build to construct each
// check's Context-independent closure. Since Go has no dynamic argument
// binding, callers of RunScope pass a Func that already closes over the
// concrete subject (the CPL/reel/asset/PKL/... tuple) — the equivalent
// of a method being called with its specific per-tuple arguments (§4.2).
func RunScope(scope Scope, stack []string, bypass BypassList, build func(Check) Func) []*Execution {
	var out []*Execution
	for _, c := range ByScope(scope) {
		if bypass.Matches(c.Name) {
			out = append(out, Bypassed(c, stack))
			continue
		}
		bound := c
		if build != nil {
			bound.Fn = build(c)
		}
		out = append(out, Run(bound, stack))
	}
	return out
}
