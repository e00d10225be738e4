package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"

	"github.com/Ymagis/ClairMeta/internal/check"
)

func humanizeDuration(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

// criticalityColor picks mgutz/ansi's color function for a criticality
// level (levels without a color get the plain string); WriteText applies
// it only when w is an interactive terminal — the report-coloring
// analogue of the console logger's own TTY-gated ANSI output (10.1).
func criticalityColor(crit check.Criticality) func(string) string {
	switch crit {
	case check.ERROR:
		return ansi.ColorFunc("red+b")
	case check.WARNING:
		return ansi.ColorFunc("yellow+b")
	case check.INFO:
		return ansi.ColorFunc("cyan")
	default:
		return func(s string) string { return s }
	}
}

func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteText renders a human-readable report: a plain-text summary
// generalized to a full findings dump, with humanize formatting the
// timestamp/duration and mgutz/ansi coloring each finding's criticality
// label when stdout is a terminal.
func WriteText(w io.Writer, r *Report) error {
	color := isColorTerminal(w)

	fmt.Fprintf(w, "DCP: %s (%s)\n", r.PackagePath, humanize.Bytes(uint64(r.DCPSize)))
	fmt.Fprintf(w, "Schema: %s   Type: %s   Profile: %s\n", r.Schema, r.Type, r.Profile)
	fmt.Fprintf(w, "Generated: %s (%s)\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"), humanize.Time(r.GeneratedAt))
	fmt.Fprintf(w, "Checks run: %d (bypassed: %d, %d unique) in %s\n", r.ChecksRun, r.ChecksBypassed, r.UniqueChecksCount, humanizeDuration(r.Duration))
	fmt.Fprintf(w, "Verdict: %s   Valid: %v\n\n", r.Verdict, r.Valid)

	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return nil
	}

	for _, f := range r.Findings {
		name := f.CheckName
		if f.SubName != "" {
			name += "." + f.SubName
		}
		label := fmt.Sprintf("[%s]", f.Criticality)
		if color {
			label = criticalityColor(f.Criticality)(label)
		}
		fmt.Fprintf(w, "%s %s\n", label, name)
		if len(f.AssetStack) > 0 {
			fmt.Fprintf(w, "  stack: %s\n", strings.Join(f.AssetStack, " > "))
		}
		fmt.Fprintf(w, "  %s\n", f.Message)
		if f.Doc != "" {
			fmt.Fprintf(w, "  (%s)\n", f.Doc)
		}
		fmt.Fprintln(w)
	}
	return nil
}
