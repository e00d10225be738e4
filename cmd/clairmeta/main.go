// clairmeta validates Digital Cinema Packages against the DCI/SMPTE/
// Interop checks: one cobra root command, persistent flags, one
// cobra.Command per verb whose Run function builds a facade and prints
// one of several output formats.
package main

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Ymagis/ClairMeta/internal/cache"
	"github.com/Ymagis/ClairMeta/internal/config"
	"github.com/Ymagis/ClairMeta/internal/dcp"
	"github.com/Ymagis/ClairMeta/internal/logging"
	"github.com/Ymagis/ClairMeta/internal/metrics"
	"github.com/Ymagis/ClairMeta/internal/parser"
	"github.com/Ymagis/ClairMeta/internal/probe"
	"github.com/Ymagis/ClairMeta/internal/profile"
	"github.com/Ymagis/ClairMeta/internal/report"
	"github.com/Ymagis/ClairMeta/internal/reportsink"
	"github.com/Ymagis/ClairMeta/internal/storage"
)

var version = "0.1.0"

var (
	flagOVPath         string
	flagKDMPaths       []string
	flagPrivateKey     string
	flagPrivateKeyPass string
	flagProfilePath string
	flagProfileName string
	flagFormat      string
	flagOutput      string
	flagBypass      []string
	flagMetricsFile string
	flagVerbose     bool

	flagReportSink       string
	flagReportSinkBucket string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "clairmeta",
		Short:   "Digital Cinema Package validator",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&flagOVPath, "ov", "", "path to a companion OV package, for a VF that references it")
	rootCmd.PersistentFlags().StringSliceVar(&flagKDMPaths, "kdm", nil, "KDM XML file(s) to parse alongside the package")
	rootCmd.PersistentFlags().StringVar(&flagPrivateKey, "private-key", "", "PEM or PKCS#12 private key to decrypt KDM content keys")
	rootCmd.PersistentFlags().StringVar(&flagPrivateKeyPass, "private-key-pass", "", "password for a PKCS#12 --private-key bundle")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	checkCmd := &cobra.Command{
		Use:   "check <dcp-directory>",
		Short: "Run every registered check against a DCP and print a report",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVar(&flagProfilePath, "profile-file", "", "path to a profile JSON document")
	checkCmd.Flags().StringVar(&flagProfileName, "profile", "DCI", "bundled profile name: DCI, SMPTE, or no_check")
	checkCmd.Flags().StringVarP(&flagFormat, "format", "f", "text", "report format: text, dict, json, json.gz, pdf, xlsx")
	checkCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")
	checkCmd.Flags().StringSliceVar(&flagBypass, "bypass", nil, "check name prefixes to bypass, in addition to the profile's own list")
	checkCmd.Flags().StringVar(&flagMetricsFile, "metrics-textfile", "", "write end-of-run Prometheus metrics to this path")
	checkCmd.Flags().StringVar(&flagReportSink, "report-sink", "", "upload the rendered report: local, s3, gcs, or azure (default: none, from config)")
	checkCmd.Flags().StringVar(&flagReportSinkBucket, "report-sink-bucket", "", "bucket/container/base-path for --report-sink")

	probeCmd := &cobra.Command{
		Use:   "probe <dcp-directory>",
		Short: "Parse a DCP and print its structure, without running checks",
		Args:  cobra.ExactArgs(1),
		RunE:  runProbe,
	}
	probeCmd.Flags().StringVarP(&flagFormat, "format", "f", "json", "output format (the parsed structure is always written as indented JSON)")
	probeCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(checkCmd, probeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "clairmeta: %v\n", err)
		os.Exit(1)
	}
}

func buildFacadeOptions(cmd *cobra.Command, cfg *config.Config) (dcp.Options, error) {
	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger := logging.NewWithConfig(logging.Config{Level: level, Format: cfg.LogFormat})

	var privateKey *rsa.PrivateKey
	if flagPrivateKey != "" {
		keyBytes, err := os.ReadFile(flagPrivateKey)
		if err != nil {
			return dcp.Options{}, fmt.Errorf("reading private key %s: %w", flagPrivateKey, err)
		}
		ext := strings.ToLower(filepath.Ext(flagPrivateKey))
		if ext == ".p12" || ext == ".pfx" {
			privateKey, err = parser.LoadPrivateKeyP12(keyBytes, flagPrivateKeyPass)
		} else {
			privateKey, err = parser.LoadPrivateKey(keyBytes)
		}
		if err != nil {
			return dcp.Options{}, fmt.Errorf("parsing private key %s: %w", flagPrivateKey, err)
		}
	}

	runner := probe.NewRunner(cfg.ProbeBinDir, cfg.ProbeTimeout, cfg.ProbeRetries, logger)

	store, err := cache.New(cache.Config{
		Backend:   cache.Backend(cfg.CacheBackend),
		LocalDir:  cfg.CacheDir,
		RedisAddr: cfg.RedisAddr,
		RedisDB:   cfg.RedisDB,
	})
	if err != nil {
		return dcp.Options{}, fmt.Errorf("building cache: %w", err)
	}

	return dcp.Options{
		OVPath:       flagOVPath,
		KDMPaths:     flagKDMPaths,
		PrivateKey:   privateKey,
		ProbeRunner:  runner,
		HashProgress: progressCallback(),
		Logger:       logger,
		Cache:        store,
	}, nil
}

// progressCallback renders a progressbar/v3 bar during PKL hashing when
// stdout is a TTY, matching the 5x/sec callback cadence of §5 without
// flooding a redirected log file with progress lines.
func progressCallback() func(path string, done, total int64, elapsed time.Duration) {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return nil
	}

	var bar *progressbar.ProgressBar
	var lastPath string
	return func(path string, done, total int64, elapsed time.Duration) {
		if bar == nil || lastPath != path {
			bar = progressbar.DefaultBytes(total, "hashing "+path)
			lastPath = path
		}
		_ = bar.Set64(done)
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	prof, err := loadProfile()
	if err != nil {
		return err
	}
	if len(flagBypass) > 0 {
		prof.Bypass = append(prof.Bypass, flagBypass...)
	}

	opts, err := buildFacadeOptions(cmd, cfg)
	if err != nil {
		return err
	}
	opts.Profile = prof

	var metricsReg *metrics.Registry
	if flagMetricsFile != "" || cfg.MetricsTextfile != "" {
		metricsReg = metrics.New()
		opts.Metrics = metricsReg
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	r, err := dcp.CheckPackage(ctx, args[0], opts)
	if err != nil {
		return err
	}

	if err := writeReport(r); err != nil {
		return err
	}

	if provider := flagReportSink; provider != "" || cfg.ReportSink != "" {
		if provider == "" {
			provider = cfg.ReportSink
		}
		bucket := flagReportSinkBucket
		if bucket == "" {
			bucket = cfg.ReportSinkBucket
		}
		sink, err := reportsink.New(storage.Config{Provider: provider, Bucket: bucket})
		if err != nil {
			return err
		}
		key, err := sink.Upload(ctx, filepath.Base(args[0]), r, report.Format(flagFormat))
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "uploaded report: %s\n", key)
	}

	if metricsReg != nil {
		path := flagMetricsFile
		if path == "" {
			path = cfg.MetricsTextfile
		}
		if err := metricsReg.WriteTextfile(path); err != nil {
			return fmt.Errorf("writing metrics textfile: %w", err)
		}
	}

	if r.Verdict == "ERROR" {
		os.Exit(1)
	}
	return nil
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	opts, err := buildFacadeOptions(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pkg, err := dcp.ParsePackage(ctx, args[0], opts)
	if err != nil {
		return err
	}

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(pkg)
}

func loadProfile() (*profile.Profile, error) {
	if flagProfilePath != "" {
		return profile.Load(flagProfilePath)
	}
	return profile.Named(flagProfileName)
}

func writeReport(r *report.Report) error {
	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return report.Write(out, r, report.Format(flagFormat))
}
