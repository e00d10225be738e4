// Package probe implements C2: the external-tool probe drivers that turn
// an MXF essence file (or timed-text XML) into a model.Probe record.
// Shaped on an exec.CommandContext subprocess-runner (stdout/stderr
// capture, timeout context) with one normalizer per upstream tool
// family for the fields a real MXF probe needs to recover.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/Ymagis/ClairMeta/internal/circuitbreaker"
	"github.com/Ymagis/ClairMeta/internal/model"
)

// Driver is one external probing tool invocation strategy. MXFDriver
// shells out to an MXF-info binary for MXF essence; TimedTextDriver
// satisfies the interface but reads the timed-text XML in-process
// through its ProbeFile method instead of a subprocess.
type Driver interface {
	// Name identifies the tool, used in logging and error messages.
	Name() string
	// Args builds the subprocess argument list for probing path.
	Args(path string) []string
	// Parse turns the tool's captured stdout into a Probe.
	Parse(stdout []byte) (*model.Probe, error)
}

// Runner executes Drivers as subprocesses with a bounded timeout,
// retry/backoff on transient failure, and hard process-tree termination
// on timeout.
type Runner struct {
	binDir  string
	timeout time.Duration
	retries int
	logger  zerolog.Logger

	breakersMu sync.Mutex
	breakers   map[string]*circuitbreaker.CircuitBreaker
}

// NewRunner builds a Runner. binDir, if non-empty, is prepended to every
// driver binary name so probes can be pointed at a vendored toolchain.
func NewRunner(binDir string, timeout time.Duration, retries int, logger zerolog.Logger) *Runner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	if retries <= 0 {
		retries = 1
	}
	return &Runner{binDir: binDir, timeout: timeout, retries: retries, logger: logger, breakers: make(map[string]*circuitbreaker.CircuitBreaker)}
}

// breakerFor returns the per-driver circuit breaker, trapping a package
// with hundreds of assets from retrying every single one against a tool
// that is simply missing or misconfigured: once 5 consecutive probes of
// the same driver fail, the breaker opens for 30s and further probes of
// that driver fail immediately instead of burning through retries/timeouts.
func (r *Runner) breakerFor(name string) *circuitbreaker.CircuitBreaker {
	r.breakersMu.Lock()
	defer r.breakersMu.Unlock()
	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:    name,
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	r.breakers[name] = cb
	return cb
}

// Probe runs d against path, retrying transient (non-context-deadline)
// failures with exponential backoff per §5 "probes may be retried on
// transient I/O failure; a probe timeout is terminal for that asset".
func (r *Runner) Probe(ctx context.Context, d Driver, path string) (*model.Probe, error) {
	cb := r.breakerFor(d.Name())
	result, err := cb.Execute(func() (interface{}, error) {
		p, perr := r.probeOnce(ctx, d, path)
		if perr != nil {
			return nil, perr
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Probe), nil
}

func (r *Runner) probeOnce(ctx context.Context, d Driver, path string) (*model.Probe, error) {
	bo := &backoff.Backoff{
		Min:    100 * time.Millisecond,
		Max:    2 * time.Second,
		Factor: 2,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt <= r.retries; attempt++ {
		if attempt > 0 {
			wait := bo.Duration()
			r.logger.Debug().Str("driver", d.Name()).Int("attempt", attempt).Dur("wait", wait).Msg("retrying probe")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		out, err := r.run(ctx, d, path)
		if err == nil {
			p, perr := d.Parse(out)
			if perr != nil {
				return nil, fmt.Errorf("%s: parsing output of %s: %w", path, d.Name(), perr)
			}
			return p, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			// Deadline/cancellation is terminal, not retryable.
			break
		}
	}
	return nil, fmt.Errorf("%s: %s failed after %d attempt(s): %w", path, d.Name(), r.retries+1, lastErr)
}

func (r *Runner) run(ctx context.Context, d Driver, path string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	bin := d.Name()
	if r.binDir != "" {
		bin = r.binDir + "/" + bin
	}

	args := d.Args(path)
	cmd := exec.CommandContext(runCtx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("starting %s: %w", bin, err)
	}

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if runCtx.Err() == context.DeadlineExceeded {
		r.killTree(cmd.Process.Pid)
		return nil, fmt.Errorf("%s timed out after %s", bin, r.timeout)
	}

	r.logger.Debug().
		Str("command", bin).
		Strs("args", args).
		Dur("elapsed", elapsed).
		Bool("success", waitErr == nil).
		Msg("probe subprocess finished")

	if waitErr != nil {
		return nil, fmt.Errorf("%s: %w: %s", bin, waitErr, stderr.String())
	}
	return stdout.Bytes(), nil
}

// killTree terminates pid and any children it spawned, using gopsutil to
// walk the process tree the way exec.CommandContext's own cancellation
// cannot (CommandContext only signals the direct child).
func (r *Runner) killTree(pid int) {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return
	}
	children, _ := proc.Children()
	for _, child := range children {
		_ = child.Kill()
	}
	_ = proc.Kill()
}
