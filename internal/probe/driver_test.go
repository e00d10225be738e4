package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Ymagis/ClairMeta/internal/circuitbreaker"
	"github.com/Ymagis/ClairMeta/internal/model"
)

type fakeDriver struct {
	name string
	fail bool
}

func (f *fakeDriver) Name() string              { return f.name }
func (f *fakeDriver) Args(path string) []string { return nil }
func (f *fakeDriver) Parse(stdout []byte) (*model.Probe, error) {
	if f.fail {
		return nil, errors.New("parse failure")
	}
	return &model.Probe{}, nil
}

func TestBreakerForReturnsSameInstancePerDriverName(t *testing.T) {
	r := NewRunner("", 0, 0, zerolog.Nop())
	a := r.breakerFor("asdcp-info")
	b := r.breakerFor("asdcp-info")
	if a != b {
		t.Fatal("expected the same circuit breaker instance for repeated calls with the same driver name")
	}
	c := r.breakerFor("sndfile-info")
	if a == c {
		t.Fatal("expected distinct breakers for distinct driver names")
	}
}

func TestProbeOpensBreakerAfterConsecutiveFailures(t *testing.T) {
	r := NewRunner("/does/not/exist", 0, 0, zerolog.Nop())
	d := &fakeDriver{name: "broken-tool"}

	var lastErr error
	for i := 0; i < 6; i++ {
		_, lastErr = r.Probe(context.Background(), d, "somefile")
	}
	if lastErr == nil {
		t.Fatal("expected an error once the breaker trips")
	}
	if st := r.breakerFor(d.Name()).State(); st != circuitbreaker.StateOpen {
		t.Fatalf("breaker state = %v after 6 consecutive failures, want open", st)
	}
}
