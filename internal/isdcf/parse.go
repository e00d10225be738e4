package isdcf

import "strings"

// Name is the parsed result of an ISDCF ContentTitleText: the raw
// per-field tokens (where alignment succeeded), per-field parse errors,
// and the derived booleans §4.11 describes.
type Name struct {
	Raw string

	Fields map[Field]string
	Errors map[Field]string

	// Derived booleans, computed in post-processing.
	BurnedSubtitle bool
	HasSubtitle    bool
	IsInterop      bool // "IOP" rewritten to "Interop"
}

// Parse tokenizes title on "_" and tolerantly aligns the parts against
// the ordered rule table (§4.11). Parsing never fails outright: a token
// that matches no rule within the look-ahead is still stored under the
// current field in Fields and recorded in Errors, and every field left
// unfilled at the end gets a "missing field" entry in Errors.
func Parse(title string) *Name {
	parts := strings.Split(title, "_")
	n := &Name{
		Raw:    title,
		Fields: make(map[Field]string),
		Errors: make(map[Field]string),
	}

	ruleIdx := 0
	for _, part := range parts {
		if ruleIdx >= len(rules) {
			break
		}
		matched := false
		for look := 0; look <= maxLookAhead && ruleIdx+look < len(rules); look++ {
			r := rules[ruleIdx+look]
			if r.pattern.MatchString(part) {
				n.Fields[r.field] = part
				ruleIdx = ruleIdx + look + 1
				matched = true
				break
			}
		}
		if !matched {
			// Assign to the current expected field anyway, and record
			// that it failed validation; advance by one so a single bad
			// token doesn't desync the whole remaining tail.
			r := rules[ruleIdx]
			n.Fields[r.field] = part
			n.Errors[r.field] = "does not match expected pattern for " + r.field.String()
			ruleIdx++
		}
	}

	for i := ruleIdx; i < len(rules); i++ {
		n.Errors[rules[i].field] = "missing field " + rules[i].field.String()
	}

	n.postProcess()
	return n
}

func (n *Name) postProcess() {
	if std, ok := n.Fields[FieldStandard]; ok {
		if std == "IOP" {
			n.Fields[FieldStandard] = "Interop"
		}
		n.IsInterop = n.Fields[FieldStandard] == "Interop"
	}

	lang := n.Fields[FieldLanguage]
	n.HasSubtitle = lang != "" && !strings.EqualFold(subtitleCode(lang), "XX")
	n.BurnedSubtitle = strings.Contains(strings.ToLower(lang), "-c") // e.g. "en-XX" vs burned marker in territory field varies by era
}

// subtitleCode extracts the trailing subtitle-language qualifier from a
// Language field of the shape "EN-XX" (audio language, hyphen, subtitle
// language/caption code), per §4.11.
func subtitleCode(lang string) string {
	if i := strings.LastIndex(lang, "-"); i >= 0 {
		return lang[i+1:]
	}
	return lang
}

// Get returns the raw token for a field, and whether it was present.
func (n *Name) Get(f Field) (string, bool) {
	v, ok := n.Fields[f]
	return v, ok
}
