package probe

import "testing"

func TestMXFDriverParse(t *testing.T) {
	d := NewMXFDriver("")
	out := []byte(`{
		"label_set_type": "SMPTE",
		"stored_width": 2048,
		"stored_height": 858,
		"edit_rate": "24 1",
		"sample_rate": 48000,
		"component_depth": 12,
		"channel_count": 6,
		"encrypted": false,
		"j2k_decomposition_levels": 5,
		"average_bitrate_mbps": 125.4
	}`)

	p, err := d.Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Width != 2048 || p.Height != 858 {
		t.Errorf("dimensions = %dx%d, want 2048x858", p.Width, p.Height)
	}
	if p.EditRate.Num != 24 || p.EditRate.Den != 1 {
		t.Errorf("EditRate = %+v, want 24/1", p.EditRate)
	}
	if p.DecompositionLevels != 5 {
		t.Errorf("DecompositionLevels = %d, want 5", p.DecompositionLevels)
	}
}

func TestMXFDriverParseAtmos(t *testing.T) {
	d := NewMXFDriver("asdcp-info")
	if d.Name() != "asdcp-info" {
		t.Fatalf("Name() = %q", d.Name())
	}

	out := []byte(`{
		"label_set_type": "SMPTE",
		"edit_rate": "24 1",
		"atmos": {"max_channel_count": 16, "max_object_count": 128, "data_essence_coding": "060e2b34.0401.0101.0d01030203000000"}
	}`)
	p, err := d.Parse(out)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if p.Atmos == nil || p.Atmos.MaxObjectCount != 128 {
		t.Errorf("Atmos = %+v, want MaxObjectCount=128", p.Atmos)
	}
}
