package check

import (
	"runtime"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// Execution is the per-check run record (§3 "Check execution", §6
// Report `checks[]`): name, doc, whether it was bypassed, elapsed time,
// the asset-stack breadcrumb, and the findings it accumulated.
type Execution struct {
	Name          string
	Doc           string
	Bypass        bool
	SecondsElapsed float64
	AssetStack    []string
	Errors        []*Error
}

// Run executes c.Fn against a fresh Context rooted at stack, guarding it
// per the five properties of §4.2:
//
//	(i)   starts a timer
//	(ii)  uses a fresh per-execution error buffer (a new Context)
//	(iii) catches the fatalSignal sentinel without treating it as a crash
//	(iv)  catches any other panic and converts it to one synthetic
//	      internal_error finding at ERROR level, with a stack trace
//	(v)   attaches the error buffer and asset-stack to the returned
//	      Execution record
//
// Run never returns a Go `error`: a crashing check is a reportable
// finding, not a process failure (§7 "Check crash").
func Run(c Check, stack []string) *Execution {
	start := time.Now()
	ctx := newContext(c.Name, c.ShortDoc(), stack)

	func() {
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(fatalSignal); ok {
					return
				}
				ctx.errors = append(ctx.errors, &Error{
					CheckName: c.Name,
					SubName:   "internal_error",
					Message:   pkgerrors.Wrap(asError(r), "check crashed").Error() + "\n" + stackTrace(),
					Doc:       c.ShortDoc(),
				})
			}
		}()
		c.Fn(ctx)
	}()

	return &Execution{
		Name:           c.Name,
		Doc:            c.ShortDoc(),
		SecondsElapsed: time.Since(start).Seconds(),
		AssetStack:     ctx.AssetStack(),
		Errors:         ctx.errors,
	}
}

// Bypassed builds the stub Execution record for a check removed from the
// executable set by the profile's bypass list (§4.2, §6 Report
// `checks[].bypass`): it still appears in the report, with no errors and
// zero elapsed time.
func Bypassed(c Check, stack []string) *Execution {
	return &Execution{
		Name:       c.Name,
		Doc:        c.ShortDoc(),
		Bypass:     true,
		AssetStack: append([]string{}, stack...),
	}
}

func asError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return pkgerrors.Errorf("%v", r)
}

func stackTrace() string {
	buf := make([]byte, 4096)
	return string(buf[:runtime.Stack(buf, false)])
}
