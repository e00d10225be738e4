// Package reportsink uploads a rendered report to an object store,
// reusing internal/storage.Provider (S3/GCS/Azure/local) unchanged: a
// sink is nothing more than a Provider plus a key naming scheme for
// report artifacts.
package reportsink

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ymagis/ClairMeta/internal/report"
	"github.com/Ymagis/ClairMeta/internal/storage"
)

// Sink uploads rendered reports under a key derived from the package
// name, format, and generation time.
type Sink struct {
	provider storage.Provider
}

// New builds a Sink from a storage.Config, selecting among s3/gcs/azure/
// local providers the same way internal/storage does for any other
// artifact upload (§10.3 "ReportSink").
func New(cfg storage.Config) (*Sink, error) {
	if cfg.Provider == "" {
		return nil, fmt.Errorf("reportsink: no provider configured")
	}
	provider, err := storage.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("reportsink: %w", err)
	}
	return &Sink{provider: provider}, nil
}

// Upload renders r in the given format and uploads it, returning the
// object key it was stored under.
func (s *Sink) Upload(ctx context.Context, packageName string, r *report.Report, format report.Format) (string, error) {
	var buf bytes.Buffer
	if err := report.Write(&buf, r, format); err != nil {
		return "", fmt.Errorf("reportsink: rendering %s report: %w", format, err)
	}

	key := objectKey(packageName, format, r.GeneratedAt)
	if err := s.provider.Upload(ctx, key, &buf, int64(buf.Len())); err != nil {
		return "", fmt.Errorf("reportsink: uploading %s: %w", key, err)
	}
	return key, nil
}

// URL returns a browsable URL for a previously uploaded report key.
func (s *Sink) URL(ctx context.Context, key string) (string, error) {
	return s.provider.GetURL(ctx, key)
}

func objectKey(packageName string, format report.Format, generatedAt time.Time) string {
	name := strings.TrimSuffix(packageName, "/")
	ext := string(format)
	if format == report.FormatJSONGzip {
		ext = "json.gz"
	}
	return fmt.Sprintf("clairmeta/%s/%s.%s", name, generatedAt.UTC().Format("20060102T150405Z"), ext)
}
