// Package profile implements C9: loading, saving, and resolving the JSON
// validation-policy document called a "profile" (§6): a criticality
// glob map, a bypass list, and an allowed-foreign-files list.
package profile

import (
	"encoding/json"
	"os"
	"sort"
	"strings"

	"github.com/Ymagis/ClairMeta/internal/check"
)

// Profile is the decoded JSON document (§6 "Profile (JSON)").
type Profile struct {
	Criticality        map[string]string `json:"criticality"`
	Bypass             []string          `json:"bypass"`
	AllowedForeignFiles []string         `json:"allowed_foreign_files"`

	// Name identifies the profile in the §6 report dict's `profile`
	// field. It is not part of the JSON document itself: Load leaves it
	// empty (callers that load from a path name their own profile) and
	// Named fills it in from the bundled-profile name requested.
	Name string `json:"-"`

	// compiled is built lazily by Resolve, sorted longest-pattern-first
	// so resolution is a linear scan that returns on first match (§6,
	// §8 "Profile resolution").
	compiled []compiledPattern
}

type compiledPattern struct {
	pattern     string
	criticality check.Criticality
}

// Load reads and decodes a profile JSON file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save encodes and writes the profile as indented JSON.
func (p *Profile) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// compile precomputes the pattern list in longest-first order, matching
// §9 "Profile glob matching ⇒ precompile the pattern map once per run;
// longest-match resolution is a stable sort by pattern length."
func (p *Profile) compile() {
	if p.compiled != nil {
		return
	}
	for pattern, crit := range p.Criticality {
		if pattern == "default" {
			continue
		}
		p.compiled = append(p.compiled, compiledPattern{pattern, check.Criticality(crit)})
	}
	sort.SliceStable(p.compiled, func(i, j int) bool {
		return len(p.compiled[i].pattern) > len(p.compiled[j].pattern)
	})
}

// Resolve returns the criticality for a check/error name: the value
// associated with the longest pattern that is a substring match of name,
// or the profile's `default` entry, or WARNING if no default is set
// (§7 "Criticality is resolved ... from the profile glob map after all
// checks run; resolution uses longest-matching pattern; unmatched errors
// take default").
func (p *Profile) Resolve(name string) check.Criticality {
	p.compile()
	for _, cp := range p.compiled {
		if strings.Contains(name, cp.pattern) {
			return cp.criticality
		}
	}
	if d, ok := p.Criticality["default"]; ok {
		return check.Criticality(d)
	}
	return check.WARNING
}

// BypassList returns the profile's bypass prefixes as a check.BypassList.
func (p *Profile) BypassList() check.BypassList {
	return check.BypassList(p.Bypass)
}

// AllowsForeignFile reports whether relPath is in the profile's
// allowed_foreign_files list (§4.3 "No foreign files" general check).
func (p *Profile) AllowsForeignFile(relPath string) bool {
	for _, f := range p.AllowedForeignFiles {
		if f == relPath {
			return true
		}
	}
	return false
}
