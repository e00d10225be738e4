package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTextfileProducesPrometheusFormat(t *testing.T) {
	r := New()
	r.ObserveCheck("check_pkl_creator", false, 0.01)
	r.ObserveCheck("check_general_no_hidden_files", true, 0)
	r.ObserveFinding("ERROR")
	r.SetRunDuration(1.23)
	r.SetVerdict("ERROR")

	path := filepath.Join(t.TempDir(), "clairmeta.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"clairmeta_checks_total",
		"clairmeta_findings_total",
		"clairmeta_run_duration_seconds 1.23",
		`clairmeta_run_verdict{verdict="ERROR"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q, got:\n%s", want, out)
		}
	}
}
