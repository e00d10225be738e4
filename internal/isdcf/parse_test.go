package isdcf

import "testing"

func TestParseWellFormedName(t *testing.T) {
	n := Parse("Foo_FTR_F_EN-XX_US-R_51_2K_DI_20501231_ECL_SMPTE_OV")
	if got, ok := n.Get(FieldResolution); !ok || got != "2K" {
		t.Errorf("Resolution = %q, ok=%v, want 2K", got, ok)
	}
	if got, ok := n.Get(FieldDate); !ok || got != "20501231" {
		t.Errorf("Date = %q, ok=%v, want 20501231", got, ok)
	}
	if got, ok := n.Get(FieldPackageType); !ok || got != "OV" {
		t.Errorf("PackageType = %q, ok=%v, want OV", got, ok)
	}
	if n.Errors[FieldResolution] != "" {
		t.Errorf("unexpected error on Resolution: %v", n.Errors[FieldResolution])
	}
}

func TestParseRewritesIOPtoInterop(t *testing.T) {
	n := Parse("Foo_FTR_F_EN-XX_US-R_51_2K_DI_20201231_ECL_IOP_OV")
	if got, _ := n.Get(FieldStandard); got != "Interop" {
		t.Errorf("Standard = %q, want Interop", got)
	}
	if !n.IsInterop {
		t.Error("expected IsInterop true")
	}
}

func TestParseMissingFieldsRecorded(t *testing.T) {
	n := Parse("Foo_FTR")
	if len(n.Errors) == 0 {
		t.Error("expected missing-field errors for a truncated title")
	}
}
