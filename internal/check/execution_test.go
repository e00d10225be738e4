package check

import "testing"

func TestRunAccumulatesMultipleErrors(t *testing.T) {
	c := Check{Name: "check_test_multi", Doc: "multi", Scope: ScopeGeneral, Fn: func(ctx *Context) {
		ctx.Error("first")
		ctx.Error("second")
	}}
	exec := Run(c, nil)
	if len(exec.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(exec.Errors))
	}
}

func TestRunFatalStopsCheckButDoesNotCrash(t *testing.T) {
	var ranAfterFatal bool
	c := Check{Name: "check_test_fatal", Doc: "fatal", Scope: ScopeGeneral, Fn: func(ctx *Context) {
		ctx.Fatal("boom")
		ranAfterFatal = true
	}}
	exec := Run(c, nil)
	if len(exec.Errors) != 1 {
		t.Fatalf("expected 1 error from fatal, got %d", len(exec.Errors))
	}
	if ranAfterFatal {
		t.Error("expected check body to stop after Fatal")
	}
}

func TestRunRecoversArbitraryPanicAsInternalError(t *testing.T) {
	c := Check{Name: "check_test_panic", Doc: "panics", Scope: ScopeGeneral, Fn: func(ctx *Context) {
		var m map[string]int
		m["x"] = 1 // nil map write panics
	}}
	exec := Run(c, nil)
	if len(exec.Errors) != 1 || exec.Errors[0].SubName != "internal_error" {
		t.Fatalf("expected a single internal_error finding, got %+v", exec.Errors)
	}
}

func TestBypassListMatching(t *testing.T) {
	b := BypassList{"check_cpl_picture"}
	if !b.Matches("check_cpl_picture_resolution") {
		t.Error("expected prefix match")
	}
	if b.Matches("check_cpl_sound") {
		t.Error("did not expect unrelated prefix to match")
	}
}
