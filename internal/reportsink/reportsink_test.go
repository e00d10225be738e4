package reportsink

import (
	"context"
	"testing"
	"time"

	"github.com/Ymagis/ClairMeta/internal/report"
	"github.com/Ymagis/ClairMeta/internal/storage"
)

func TestUploadWritesObjectUnderLocalProvider(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(storage.Config{Provider: "local", Bucket: dir})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r := &report.Report{
		PackagePath: "/dcp/Foo_FTR",
		Verdict:     "OK",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	key, err := sink.Upload(context.Background(), "Foo_FTR", r, report.FormatJSON)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if key == "" {
		t.Fatal("expected non-empty object key")
	}

	exists, err := sink.provider.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("object %s was not written", key)
	}
}
