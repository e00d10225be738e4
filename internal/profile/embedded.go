package profile

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed defaults/*.json
var embeddedDefaults embed.FS

// Named loads one of the bundled default profiles by name ("DCI",
// "SMPTE", "no_check"), matching `clairmeta/profile.py`'s bundled
// profile set (§13 supplemented features).
func Named(name string) (*Profile, error) {
	path := fmt.Sprintf("defaults/%s.json", normalizeName(name))
	data, err := embeddedDefaults.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unknown default profile %q: %w", name, err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	p.Name = normalizeName(name)
	return &p, nil
}

func normalizeName(name string) string {
	switch name {
	case "DCI", "dci":
		return "dci"
	case "SMPTE", "smpte":
		return "smpte"
	case "no_check", "none", "":
		return "no_check"
	default:
		return name
	}
}
