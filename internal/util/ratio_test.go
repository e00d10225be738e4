package util

import "testing"

func TestParseRatio(t *testing.T) {
	cases := []struct {
		in       string
		wantNum  int64
		wantDen  int64
		wantFreq float64
	}{
		{"24 1", 24, 1, 24},
		{"30000 1001", 30000, 1001, 30000.0 / 1001.0},
		{"25/1", 25, 1, 25},
	}
	for _, c := range cases {
		r, err := ParseRatio(c.in)
		if err != nil {
			t.Fatalf("ParseRatio(%q): %v", c.in, err)
		}
		if r.Num != c.wantNum || r.Den != c.wantDen {
			t.Errorf("ParseRatio(%q) = %+v, want num=%d den=%d", c.in, r, c.wantNum, c.wantDen)
		}
		if got := r.Float(); got < c.wantFreq-0.001 || got > c.wantFreq+0.001 {
			t.Errorf("ParseRatio(%q).Float() = %v, want ~%v", c.in, got, c.wantFreq)
		}
	}
}

func TestRatioEqualTolerance(t *testing.T) {
	a := Ratio{Num: 24, Den: 1}
	b := Ratio{Num: 2402, Den: 100}
	if !a.Equal(b, 0.05) {
		t.Errorf("expected %v ~= %v within 0.05", a, b)
	}
	c := Ratio{Num: 25, Den: 1}
	if a.Equal(c, 0.05) {
		t.Errorf("did not expect %v ~= %v within 0.05", a, c)
	}
}

func TestIsRFC4122(t *testing.T) {
	if !IsRFC4122("urn:uuid:6e48382d-1acf-4c1e-9dd3-2471850885df") {
		t.Error("expected urn-prefixed UUID to be valid")
	}
	if !IsRFC4122("6e48382d-1acf-4c1e-9dd3-2471850885df") {
		t.Error("expected bare UUID to be valid")
	}
	if IsRFC4122("6E48382D-1ACF-4C1E-9DD3-2471850885DF") {
		t.Error("expected uppercase UUID to be rejected (RFC 4122 lowercase form required)")
	}
	if IsRFC4122("not-a-uuid") {
		t.Error("expected garbage to be rejected")
	}
}
